package syringe

import (
	"fmt"
	"log/slog"
	"reflect"

	"github.com/vango-dev/syringe/pkg/vdom"
)

// Shape is the runtime shape of a bound value.
type Shape uint8

const (
	ShapeAbsent    Shape = iota // nil or missing
	ShapeScalar                 // strings, numbers, bools, opaque values
	ShapeSequence               // slices and arrays
	ShapeMap                    // maps keyed by string
	ShapeInvokable              // funcs
)

// String returns the shape name.
func (s Shape) String() string {
	switch s {
	case ShapeAbsent:
		return "absent"
	case ShapeScalar:
		return "scalar"
	case ShapeSequence:
		return "sequence"
	case ShapeMap:
		return "map"
	case ShapeInvokable:
		return "invokable"
	default:
		return "unknown"
	}
}

// ShapeOf classifies v. []byte is treated as a scalar.
func ShapeOf(v any) Shape {
	if v == nil {
		return ShapeAbsent
	}
	rv := reflect.ValueOf(v)
	switch {
	case isSequence(rv):
		return ShapeSequence
	case rv.Kind() == reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return ShapeScalar
		}
		return ShapeMap
	case rv.Kind() == reflect.Func:
		if rv.IsNil() {
			return ShapeAbsent
		}
		return ShapeInvokable
	default:
		return ShapeScalar
	}
}

// Outcome records what a merge did to the target slot.
type Outcome uint8

const (
	OutcomeSet      Outcome = iota // slot was empty and received the binding
	OutcomeKept                    // child value kept (Fallback)
	OutcomeReplaced                // child value replaced (Overwrite)
	OutcomeCombined                // values combined (Merge)
	OutcomeMismatch                // Merge across incompatible shapes; replaced
	OutcomeIgnored                 // Merge binding without a value; slot untouched
)

// String returns the outcome name.
func (o Outcome) String() string {
	switch o {
	case OutcomeSet:
		return "set"
	case OutcomeKept:
		return "kept"
	case OutcomeReplaced:
		return "replaced"
	case OutcomeCombined:
		return "combined"
	case OutcomeMismatch:
		return "mismatch"
	case OutcomeIgnored:
		return "ignored"
	default:
		return "unknown"
	}
}

// Engine applies bindings to target values.
//
// The engine never mutates the existing or the incoming value: combined
// sequences and maps are freshly allocated, and a binding value stored
// into a slot is a shallow copy. A Binding can therefore be applied to any
// number of children without them sharing a container.
type Engine struct {
	logger *slog.Logger
}

// NewEngine creates an Engine. If logger is nil, slog.Default() is used.
func NewEngine(logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{logger: logger}
}

// Apply merges b into target[key].
func (e *Engine) Apply(target map[string]any, key string, b Binding) Outcome {
	existing, present := target[key]
	value, outcome := e.Resolve(key, existing, present, b)
	if outcome.Changed() {
		target[key] = value
	}
	return outcome
}

// Changed reports whether the outcome wrote a value into the slot.
func (o Outcome) Changed() bool {
	return o != OutcomeKept && o != OutcomeIgnored
}

// Resolve computes the value a slot holds after applying b. present
// reports whether the slot exists; a nil existing value counts as absent.
// key selects the class rule when it is "class".
func (e *Engine) Resolve(key string, existing any, present bool, b Binding) (any, Outcome) {
	if !present || ShapeOf(existing) == ShapeAbsent {
		return detach(b.Value), OutcomeSet
	}

	switch b.Policy {
	case Overwrite:
		return detach(b.Value), OutcomeReplaced
	case Merge:
		if b.Value == nil {
			return existing, OutcomeIgnored
		}
		if key == "class" {
			return NormalizeClass("", []any{existing, b.Value}), OutcomeCombined
		}
		if merged, ok := combine(existing, b.Value); ok {
			return merged, OutcomeCombined
		}
		e.logger.Debug("syringe: incompatible merge, replacing value",
			"key", key,
			"existing", ShapeOf(existing).String(),
			"incoming", ShapeOf(b.Value).String(),
		)
		return detach(b.Value), OutcomeMismatch
	default:
		return existing, OutcomeKept
	}
}

// combine merges incoming into existing by the shape of existing.
func combine(existing, incoming any) (any, bool) {
	switch ShapeOf(existing) {
	case ShapeSequence:
		switch ShapeOf(incoming) {
		case ShapeSequence:
			return concatSequences(existing, incoming), true
		case ShapeMap:
			return nil, false
		default:
			return appendElement(existing, incoming), true
		}
	case ShapeMap:
		if ShapeOf(incoming) != ShapeMap {
			return nil, false
		}
		return unionMaps(existing, incoming)
	case ShapeInvokable:
		switch ShapeOf(incoming) {
		case ShapeInvokable:
			return chainInvokables(existing, incoming), true
		case ShapeSequence:
			if !allInvokable(incoming) {
				return nil, false
			}
			return invokeInOrder(existing, incoming), true
		default:
			return nil, false
		}
	default:
		return addScalars(existing, incoming)
	}
}

func concatSequences(existing, incoming any) any {
	ev, iv := reflect.ValueOf(existing), reflect.ValueOf(incoming)
	if ev.Kind() == reflect.Slice && ev.Type() == iv.Type() {
		out := reflect.MakeSlice(ev.Type(), 0, ev.Len()+iv.Len())
		out = reflect.AppendSlice(out, ev)
		return reflect.AppendSlice(out, iv).Interface()
	}
	out := make([]any, 0, ev.Len()+iv.Len())
	out = appendValues(out, ev)
	return appendValues(out, iv)
}

func appendElement(existing, incoming any) any {
	ev := reflect.ValueOf(existing)
	inc := reflect.ValueOf(incoming)
	if ev.Kind() == reflect.Slice && inc.Type().AssignableTo(ev.Type().Elem()) {
		out := reflect.MakeSlice(ev.Type(), 0, ev.Len()+1)
		out = reflect.AppendSlice(out, ev)
		return reflect.Append(out, inc).Interface()
	}
	out := make([]any, 0, ev.Len()+1)
	out = appendValues(out, ev)
	return append(out, incoming)
}

func appendValues(out []any, seq reflect.Value) []any {
	for i := 0; i < seq.Len(); i++ {
		out = append(out, seq.Index(i).Interface())
	}
	return out
}

func unionMaps(existing, incoming any) (any, bool) {
	// Style maps are the common case.
	if e, ok := existing.(map[string]string); ok {
		if in, ok := incoming.(map[string]string); ok {
			out := make(map[string]string, len(e)+len(in))
			for k, v := range e {
				out[k] = v
			}
			for k, v := range in {
				out[k] = v
			}
			return out, true
		}
	}

	ev, iv := reflect.ValueOf(existing), reflect.ValueOf(incoming)
	if ev.Type() == iv.Type() {
		out := reflect.MakeMapWithSize(ev.Type(), ev.Len()+iv.Len())
		copyMap(out, ev)
		copyMap(out, iv)
		return out.Interface(), true
	}

	out := make(map[string]any, ev.Len()+iv.Len())
	for _, m := range []reflect.Value{ev, iv} {
		iter := m.MapRange()
		for iter.Next() {
			out[iter.Key().String()] = iter.Value().Interface()
		}
	}
	return out, true
}

func copyMap(dst, src reflect.Value) {
	iter := src.MapRange()
	for iter.Next() {
		dst.SetMapIndex(iter.Key(), iter.Value())
	}
}

// chainInvokables returns a func calling existing then incoming with the
// same receiver and arguments. Return values are discarded. Two funcs of
// the same type chain into that type; any other pair chains into a
// vdom.Handler.
func chainInvokables(existing, incoming any) any {
	first, okFirst := asHandler(existing)
	second, okSecond := asHandler(incoming)
	if okFirst && okSecond {
		return vdom.Handler(func(receiver any, args ...any) {
			first(receiver, args...)
			second(receiver, args...)
		})
	}

	ev, iv := reflect.ValueOf(existing), reflect.ValueOf(incoming)
	if ev.Type() != iv.Type() {
		return invokeInOrder(existing, incoming)
	}
	t := ev.Type()
	chained := reflect.MakeFunc(t, func(args []reflect.Value) []reflect.Value {
		callFunc(ev, t, args)
		callFunc(iv, t, args)
		out := make([]reflect.Value, t.NumOut())
		for i := range out {
			out[i] = reflect.Zero(t.Out(i))
		}
		return out
	})
	return chained.Interface()
}

// invokeInOrder returns a handler invoking each listener value in turn
// through vdom.Invoke. Sequences are invoked element by element.
func invokeInOrder(listeners ...any) vdom.Handler {
	return func(receiver any, args ...any) {
		for _, l := range listeners {
			invokeListener(l, receiver, args)
		}
	}
}

func invokeListener(listener, receiver any, args []any) {
	rv := reflect.ValueOf(listener)
	if !isSequence(rv) {
		vdom.Invoke(listener, receiver, args...)
		return
	}
	for i := 0; i < rv.Len(); i++ {
		invokeListener(rv.Index(i).Interface(), receiver, args)
	}
}

// allInvokable reports whether every element of seq is a func or a nested
// sequence of funcs.
func allInvokable(seq any) bool {
	rv := reflect.ValueOf(seq)
	for i := 0; i < rv.Len(); i++ {
		item := rv.Index(i).Interface()
		switch ShapeOf(item) {
		case ShapeInvokable:
		case ShapeSequence:
			if !allInvokable(item) {
				return false
			}
		default:
			return false
		}
	}
	return true
}

func callFunc(fn reflect.Value, t reflect.Type, args []reflect.Value) {
	if t.IsVariadic() {
		fn.CallSlice(args)
		return
	}
	fn.Call(args)
}

// asHandler adapts the listener signatures that carry a receiver, plus
// argument-less funcs.
func asHandler(v any) (vdom.Handler, bool) {
	switch fn := v.(type) {
	case vdom.Handler:
		return fn, fn != nil
	case func(any, ...any):
		return fn, fn != nil
	case func():
		if fn == nil {
			return nil, false
		}
		return func(any, ...any) { fn() }, true
	default:
		return nil, false
	}
}

// addScalars concatenates when either side is a string and adds when both
// are numbers.
func addScalars(existing, incoming any) (any, bool) {
	ev, iv := reflect.ValueOf(existing), reflect.ValueOf(incoming)
	switch {
	case ev.Kind() == reflect.String && isScalarKind(iv.Kind()):
		return ev.String() + fmt.Sprint(incoming), true
	case iv.Kind() == reflect.String && isScalarKind(ev.Kind()):
		return fmt.Sprint(existing) + iv.String(), true
	case isInt(ev.Kind()) && isInt(iv.Kind()):
		out := reflect.New(ev.Type()).Elem()
		out.SetInt(ev.Int() + iv.Int())
		return out.Interface(), true
	case isUint(ev.Kind()) && isUint(iv.Kind()):
		out := reflect.New(ev.Type()).Elem()
		out.SetUint(ev.Uint() + iv.Uint())
		return out.Interface(), true
	case isNumber(ev.Kind()) && isNumber(iv.Kind()):
		return toFloat(ev) + toFloat(iv), true
	default:
		return nil, false
	}
}

// detach returns a shallow copy of slice and map values. Other values are
// returned as is.
func detach(v any) any {
	switch t := v.(type) {
	case []any:
		out := make([]any, len(t))
		copy(out, t)
		return out
	case map[string]string:
		out := make(map[string]string, len(t))
		for k, val := range t {
			out[k] = val
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = val
		}
		return out
	}

	rv := reflect.ValueOf(v)
	switch {
	case rv.Kind() == reflect.Slice && !rv.IsNil() && isSequence(rv):
		out := reflect.MakeSlice(rv.Type(), rv.Len(), rv.Len())
		reflect.Copy(out, rv)
		return out.Interface()
	case rv.Kind() == reflect.Map && !rv.IsNil():
		out := reflect.MakeMapWithSize(rv.Type(), rv.Len())
		copyMap(out, rv)
		return out.Interface()
	default:
		return v
	}
}

func isSequence(rv reflect.Value) bool {
	switch rv.Kind() {
	case reflect.Slice:
		return rv.Type().Elem().Kind() != reflect.Uint8
	case reflect.Array:
		return true
	default:
		return false
	}
}

func isNilValue(rv reflect.Value) bool {
	switch rv.Kind() {
	case reflect.Interface, reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return rv.IsNil()
	default:
		return false
	}
}

func isInt(k reflect.Kind) bool {
	return k >= reflect.Int && k <= reflect.Int64
}

func isUint(k reflect.Kind) bool {
	return k >= reflect.Uint && k <= reflect.Uintptr
}

func isNumber(k reflect.Kind) bool {
	return isInt(k) || isUint(k) || k == reflect.Float32 || k == reflect.Float64
}

func isScalarKind(k reflect.Kind) bool {
	return k == reflect.String || k == reflect.Bool || isNumber(k)
}

func toFloat(rv reflect.Value) float64 {
	switch {
	case isInt(rv.Kind()):
		return float64(rv.Int())
	case isUint(rv.Kind()):
		return float64(rv.Uint())
	default:
		return rv.Float()
	}
}
