package vtest

import (
	"context"
	"reflect"
	"strings"
	"sync"
	"testing"

	"github.com/vango-dev/syringe/pkg/fixture"
	"github.com/vango-dev/syringe/pkg/playground"
	"github.com/vango-dev/syringe/pkg/render"
	"github.com/vango-dev/syringe/pkg/syringe"
	"github.com/vango-dev/syringe/pkg/vdom"
)

// Run parses and runs a fixture document, firing each event in emit after
// injection. The test fails immediately on any error.
func Run(t testing.TB, document string, emit ...string) *playground.Result {
	t.Helper()
	doc, err := fixture.Parse([]byte(document), t.Name())
	if err != nil {
		t.Fatalf("parse fixture: %v", err)
	}
	result, err := (&playground.Pipeline{}).Run(context.Background(), doc, emit...)
	if err != nil {
		t.Fatalf("run fixture: %v", err)
	}
	return result
}

// Inject injects wrapper's bindings into its children and fails the test
// if any merge combined incompatible values.
func Inject(t testing.TB, wrapper *vdom.VNode) []*vdom.VNode {
	t.Helper()
	strict := &strictObserver{}
	children := syringe.New(syringe.Options{Observer: strict}).Inject(wrapper)
	for _, slot := range strict.mismatched() {
		t.Errorf("incompatible merge in %s", slot)
	}
	return children
}

type strictObserver struct {
	syringe.NopObserver
	mu    sync.Mutex
	slots []syringe.Slot
}

func (o *strictObserver) ObserveMerge(slot syringe.Slot, _ syringe.Policy, outcome syringe.Outcome) {
	if outcome != syringe.OutcomeMismatch {
		return
	}
	o.mu.Lock()
	o.slots = append(o.slots, slot)
	o.mu.Unlock()
}

func (o *strictObserver) mismatched() []syringe.Slot {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.slots
}

// RenderToString renders a VNode to HTML, returning "" on error.
//
// Example:
//
//	html := vtest.RenderToString(children[0])
func RenderToString(node *vdom.VNode) string {
	r := render.NewRenderer(render.RendererConfig{})
	html, err := r.RenderToString(node)
	if err != nil {
		return ""
	}
	return html
}

// ExpectContains asserts that rendered output contains expected substring.
func ExpectContains(t testing.TB, node *vdom.VNode, expected string) {
	t.Helper()
	html := RenderToString(node)
	if !strings.Contains(html, expected) {
		t.Errorf("expected rendered output to contain %q, got:\n%s", expected, truncate(html, 500))
	}
}

// ExpectNotContains asserts that rendered output does not contain substring.
func ExpectNotContains(t testing.TB, node *vdom.VNode, unexpected string) {
	t.Helper()
	html := RenderToString(node)
	if strings.Contains(html, unexpected) {
		t.Errorf("expected rendered output to NOT contain %q, got:\n%s", unexpected, truncate(html, 500))
	}
}

// ExpectAttribute asserts that the rendered node carries attr="value".
//
// Example:
//
//	vtest.ExpectAttribute(t, children[0], "class", "btn primary")
func ExpectAttribute(t testing.TB, node *vdom.VNode, attr, value string) {
	t.Helper()
	html := RenderToString(node)
	needle := attr + `="` + value + `"`
	if !strings.Contains(html, needle) {
		t.Errorf("expected attribute %s=%q not found, got:\n%s", attr, value, truncate(html, 500))
	}
}

// ExpectProp asserts a component child's resolved prop.
func ExpectProp(t testing.TB, node *vdom.VNode, name string, want any) {
	t.Helper()
	if node == nil || node.Component == nil {
		t.Errorf("expected a component node for prop %q", name)
		return
	}
	got, ok := node.Component.PropsData[name]
	if !ok {
		t.Errorf("prop %q not set", name)
		return
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("prop %q = %#v, want %#v", name, got, want)
	}
}

// ExpectCalls asserts the handler names recorded by a fixture run, in
// order.
func ExpectCalls(t testing.TB, result *playground.Result, names ...string) {
	t.Helper()
	got := make([]string, len(result.Calls))
	for i, c := range result.Calls {
		got[i] = c.Handler
	}
	if !reflect.DeepEqual(got, names) && !(len(got) == 0 && len(names) == 0) {
		t.Errorf("calls = %v, want %v", got, names)
	}
}

// truncate truncates a string to max length with ellipsis.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
