package fixture

import (
	"fmt"
	"strings"
	"sync"

	"github.com/vango-dev/syringe/pkg/vdom"
)

// Call is one recorded handler invocation.
type Call struct {
	Handler  string `json:"handler"`
	Receiver string `json:"receiver,omitempty"`
	Args     []any  `json:"args,omitempty"`
}

// String returns "name(args...)".
func (c Call) String() string {
	parts := make([]string, len(c.Args))
	for i, a := range c.Args {
		parts[i] = fmt.Sprint(a)
	}
	return c.Handler + "(" + strings.Join(parts, ", ") + ")"
}

// Recorder hands out named handlers that record their invocations. It is
// safe for concurrent use.
type Recorder struct {
	mu    sync.Mutex
	calls []Call
}

// NewRecorder creates an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// Handler returns a handler recording calls under name.
func (r *Recorder) Handler(name string) vdom.Handler {
	return func(receiver any, args ...any) {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.calls = append(r.calls, Call{
			Handler:  name,
			Receiver: describe(receiver),
			Args:     append([]any(nil), args...),
		})
	}
}

// Calls returns a copy of the recorded calls in invocation order.
func (r *Recorder) Calls() []Call {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Call(nil), r.calls...)
}

// Names returns the handler names of the recorded calls.
func (r *Recorder) Names() []string {
	calls := r.Calls()
	names := make([]string, len(calls))
	for i, c := range calls {
		names[i] = c.Handler
	}
	return names
}

// Reset discards the recorded calls.
func (r *Recorder) Reset() {
	r.mu.Lock()
	r.calls = nil
	r.mu.Unlock()
}

func describe(receiver any) string {
	switch v := receiver.(type) {
	case nil:
		return ""
	case *vdom.VNode:
		if v.Tag != "" {
			return v.Tag
		}
		return v.Kind.String()
	case string:
		return v
	default:
		return fmt.Sprintf("%T", v)
	}
}
