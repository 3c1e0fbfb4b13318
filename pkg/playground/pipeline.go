package playground

import (
	"bytes"
	"context"
	"log/slog"

	"github.com/vango-dev/syringe/pkg/fixture"
	"github.com/vango-dev/syringe/pkg/middleware"
	"github.com/vango-dev/syringe/pkg/render"
	"github.com/vango-dev/syringe/pkg/syringe"
	"github.com/vango-dev/syringe/pkg/vdom"
)

// Pipeline builds a fixture, injects its wrapper, renders the children
// and optionally fires listeners on them.
type Pipeline struct {
	Syringe *syringe.Syringe
	Tracing *middleware.Tracing
	Pretty  bool
	Indent  string
	Logger  *slog.Logger
}

// Result is the outcome of one pipeline run.
type Result struct {
	Name          string         `json:"name,omitempty"`
	HTML          string         `json:"html"`
	Stats         Stats          `json:"stats"`
	Calls         []fixture.Call `json:"calls"`
	DuplicateKeys map[string]int `json:"duplicateKeys,omitempty"`

	// Children holds the injected children. It is not serialized.
	Children []*vdom.VNode `json:"-"`
}

// Stats is the serialized form of syringe.PassStats.
type Stats struct {
	Children   int     `json:"children"`
	Elements   int     `json:"elements"`
	Components int     `json:"components"`
	Skipped    int     `json:"skipped"`
	Bindings   int     `json:"bindings"`
	Mismatches int     `json:"mismatches"`
	Collisions int     `json:"collisions"`
	FastPath   bool    `json:"fastPath"`
	DurationMS float64 `json:"durationMs"`
}

func newStats(s syringe.PassStats) Stats {
	return Stats{
		Children:   s.Children,
		Elements:   s.Elements,
		Components: s.Components,
		Skipped:    s.Skipped,
		Bindings:   s.Bindings,
		Mismatches: s.Mismatches,
		Collisions: s.Collisions,
		FastPath:   s.FastPath,
		DurationMS: float64(s.Duration.Microseconds()) / 1000,
	}
}

// Run processes doc. Each event in emit is fired, in order, on every child
// that listens for it; the recorded handler calls end up in Result.Calls.
func (p *Pipeline) Run(ctx context.Context, doc *fixture.Document, emit ...string) (*Result, error) {
	s := p.Syringe
	if s == nil {
		s = syringe.New(syringe.Options{Logger: p.Logger})
	}
	tracing := p.Tracing
	if tracing == nil {
		tracing = middleware.NewTracing()
	}

	rec := fixture.NewRecorder()
	wrapper, err := doc.Build(rec)
	if err != nil {
		return nil, err
	}

	children, stats := tracing.Inject(ctx, s, wrapper)

	renderer := render.NewRenderer(render.RendererConfig{
		Pretty: p.Pretty,
		Indent: p.Indent,
		Logger: p.Logger,
	})
	var buf bytes.Buffer
	if err := tracing.Render(ctx, renderer, &buf, &vdom.VNode{Kind: vdom.KindFragment, Children: children}); err != nil {
		return nil, err
	}

	for _, event := range emit {
		Fire(children, event)
	}

	result := &Result{
		Name:     doc.Name,
		HTML:     buf.String(),
		Stats:    newStats(stats),
		Calls:    rec.Calls(),
		Children: children,
	}
	if dups := syringe.DuplicateKeys(children); len(dups) > 0 {
		result.DuplicateKeys = dups
	}
	if result.Calls == nil {
		result.Calls = []fixture.Call{}
	}
	return result, nil
}

// Fire invokes the listener for event on each child, in order, with the
// child as receiver. Elements fire their "on" listeners, components their
// component listeners. It returns the number of listeners invoked.
func Fire(children []*vdom.VNode, event string, args ...any) int {
	fired := 0
	for _, child := range children {
		var listeners vdom.Listeners
		switch {
		case child.IsElement() && child.Data != nil:
			listeners = child.Data.On
		case child.IsComponent():
			listeners = child.Component.Listeners
		}
		if vdom.Emit(listeners, event, child, args...) {
			fired++
		}
	}
	return fired
}
