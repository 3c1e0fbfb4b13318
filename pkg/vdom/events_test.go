package vdom

import (
	"reflect"
	"testing"
)

func TestEmit(t *testing.T) {
	var calls []string
	var gotReceiver any
	var gotArgs []any

	listeners := Listeners{
		"click": Handler(func(receiver any, args ...any) {
			calls = append(calls, "handler")
			gotReceiver = receiver
			gotArgs = args
		}),
		"focus": func() { calls = append(calls, "plain") },
		"input": []any{
			func() { calls = append(calls, "first") },
			Handler(func(any, ...any) { calls = append(calls, "second") }),
		},
	}

	if !Emit(listeners, "click", "self", 1, "two") {
		t.Fatal("click should run")
	}
	if gotReceiver != "self" {
		t.Errorf("receiver = %v, want self", gotReceiver)
	}
	if !reflect.DeepEqual(gotArgs, []any{1, "two"}) {
		t.Errorf("args = %v", gotArgs)
	}

	Emit(listeners, "focus", nil)
	Emit(listeners, "input", nil)
	want := []string{"handler", "plain", "first", "second"}
	if !reflect.DeepEqual(calls, want) {
		t.Errorf("calls = %v, want %v", calls, want)
	}

	if Emit(listeners, "missing", nil) {
		t.Error("missing event should not run")
	}
	if Emit(nil, "click", nil) {
		t.Error("nil listeners should not run")
	}
}

func TestInvokeReflect(t *testing.T) {
	var got string
	fn := func(receiver string, n int) { got = receiver }
	if !Invoke(fn, "node", 3) {
		t.Fatal("typed func should run")
	}
	if got != "node" {
		t.Errorf("receiver = %q, want node", got)
	}

	// Arguments of the wrong type are passed as zero values.
	got = "unset"
	Invoke(fn, 42)
	if got != "" {
		t.Errorf("receiver = %q, want zero value", got)
	}

	var nilFn func()
	if Invoke(nilFn, nil) {
		t.Error("nil func should not run")
	}
	if Invoke("not a func", nil) {
		t.Error("non-func should not run")
	}
}
