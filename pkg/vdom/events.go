package vdom

import "reflect"

// EventHandler binds a listener to an event name.
type EventHandler struct {
	Event   string // "click", "focus", etc.
	Handler any    // Handler, func(), or a slice of those
	Native  bool   // Targets a component's root element
}

// On binds handler to event. On a component placeholder the listener is
// a component-level event; on an element it is a DOM listener.
func On(event string, handler any) EventHandler {
	return EventHandler{Event: event, Handler: handler}
}

// NativeOn binds handler to the root element a component renders.
func NativeOn(event string, handler any) EventHandler {
	return EventHandler{Event: event, Handler: handler, Native: true}
}

// OnClick handles click events.
func OnClick(handler any) EventHandler { return On("click", handler) }

// OnFocus handles focus events.
func OnFocus(handler any) EventHandler { return On("focus", handler) }

// OnInput handles input events.
func OnInput(handler any) EventHandler { return On("input", handler) }

// Emit invokes the listeners registered for event, passing receiver and
// args through unchanged. It reports whether any listener ran.
func Emit(listeners Listeners, event string, receiver any, args ...any) bool {
	if listeners == nil {
		return false
	}
	return Invoke(listeners[event], receiver, args...)
}

// Invoke calls a single listener value. Slices are invoked element by
// element in order.
func Invoke(listener any, receiver any, args ...any) bool {
	switch fn := listener.(type) {
	case nil:
		return false
	case Handler:
		if fn == nil {
			return false
		}
		fn(receiver, args...)
		return true
	case func(any, ...any):
		if fn == nil {
			return false
		}
		fn(receiver, args...)
		return true
	case func():
		if fn == nil {
			return false
		}
		fn()
		return true
	case []Handler:
		ran := false
		for _, h := range fn {
			ran = Invoke(h, receiver, args...) || ran
		}
		return ran
	case []any:
		ran := false
		for _, h := range fn {
			ran = Invoke(h, receiver, args...) || ran
		}
		return ran
	}

	rv := reflect.ValueOf(listener)
	if rv.Kind() != reflect.Func || rv.IsNil() {
		return false
	}
	return callReflect(rv, append([]any{receiver}, args...))
}

// callReflect calls fn with as many of args as its signature accepts.
// Arguments that do not fit the parameter types are passed as zero values.
func callReflect(fn reflect.Value, args []any) bool {
	t := fn.Type()
	n := t.NumIn()
	if t.IsVariadic() {
		n--
	}
	in := make([]reflect.Value, 0, n)
	for i := 0; i < n; i++ {
		in = append(in, argValue(t.In(i), args, i))
	}
	if t.IsVariadic() {
		elem := t.In(n).Elem()
		for i := n; i < len(args); i++ {
			in = append(in, argValue(elem, args, i))
		}
	}
	fn.Call(in)
	return true
}

func argValue(t reflect.Type, args []any, i int) reflect.Value {
	if i < len(args) && args[i] != nil {
		v := reflect.ValueOf(args[i])
		if v.Type().AssignableTo(t) {
			return v
		}
	}
	return reflect.Zero(t)
}
