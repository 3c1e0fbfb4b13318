package syringe

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/vango-dev/syringe/pkg/vdom"
)

// Options configures a Syringe.
type Options struct {
	// Logger receives merge diagnostics.
	// If nil, slog.Default() is used.
	Logger *slog.Logger

	// Observer receives per-binding and per-pass diagnostics.
	// If nil, diagnostics are discarded.
	Observer Observer

	// Parallel processes children on separate goroutines. Children must
	// be distinct nodes that do not share a data block.
	Parallel bool
}

// Syringe redistributes a wrapper's bindings onto its children.
// A Syringe holds no per-pass state and is safe for concurrent use.
type Syringe struct {
	engine   *Engine
	logger   *slog.Logger
	observer Observer
	parallel bool
}

// New creates a Syringe.
func New(opts Options) *Syringe {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	observer := opts.Observer
	if observer == nil {
		observer = NopObserver{}
	}
	return &Syringe{
		engine:   NewEngine(logger),
		logger:   logger,
		observer: observer,
		parallel: opts.Parallel,
	}
}

// Inject applies the bindings of wrapper.Data to wrapper.Children using
// default options. See Syringe.Inject.
func Inject(wrapper *vdom.VNode) []*vdom.VNode {
	return New(Options{}).Inject(wrapper)
}

// Inject applies the bindings of wrapper.Data to wrapper.Children and
// returns the children. Children are modified in place and returned in
// their original order; no node is replaced. A wrapper without children
// yields nil.
func (s *Syringe) Inject(wrapper *vdom.VNode) []*vdom.VNode {
	out, _ := s.InjectStats(wrapper)
	return out
}

// InjectStats is Inject returning the pass statistics as well.
func (s *Syringe) InjectStats(wrapper *vdom.VNode) ([]*vdom.VNode, PassStats) {
	if wrapper == nil {
		return nil, PassStats{}
	}
	children := wrapper.Children
	if wrapper.Component != nil && len(children) == 0 {
		children = wrapper.Component.Children
	}
	return s.InjectChildren(wrapper.Data, children)
}

// InjectChildren applies the bindings of data to children.
func (s *Syringe) InjectChildren(data *vdom.VNodeData, children []*vdom.VNode) ([]*vdom.VNode, PassStats) {
	start := time.Now()
	stats := PassStats{Children: len(children)}
	finish := func() {
		stats.Duration = time.Since(start)
		s.observer.ObservePass(stats)
	}

	if len(children) == 0 {
		finish()
		return nil, stats
	}

	ctx := ParseWrapper(data)
	stats.Bindings = ctx.Count()
	if ctx.Empty() {
		stats.FastPath = true
		finish()
		return children, stats
	}

	results := make([]childResult, len(children))
	if s.parallel && len(children) > 1 {
		var wg sync.WaitGroup
		for i, child := range children {
			wg.Add(1)
			go func(i int, child *vdom.VNode) {
				defer wg.Done()
				results[i] = s.injectChild(ctx, child)
			}(i, child)
		}
		wg.Wait()
	} else {
		for i, child := range children {
			results[i] = s.injectChild(ctx, child)
		}
	}

	keyCounts := make(map[string]int)
	for _, r := range results {
		switch r.kind {
		case childElement:
			stats.Elements++
		case childComponent:
			stats.Components++
		default:
			stats.Skipped++
		}
		stats.Mismatches += r.mismatches
		if r.keyFromWrapper {
			keyCounts[r.key]++
		}
	}
	for _, key := range sortedKeys(keyCounts) {
		if n := keyCounts[key]; n > 1 {
			stats.Collisions++
			s.logger.Warn("syringe: children share a key from the wrapper", "key", key, "count", n)
			s.observer.ObserveCollision(key, n)
		}
	}

	finish()
	return children, stats
}

type childKind uint8

const (
	childSkipped childKind = iota
	childElement
	childComponent
)

type childResult struct {
	kind           childKind
	mismatches     int
	key            string
	keyFromWrapper bool
}

// injectChild classifies one child and merges the wrapper's bindings into
// it. Text, comment, raw and fragment children are left untouched.
func (s *Syringe) injectChild(ctx *WrapperContext, child *vdom.VNode) childResult {
	var r childResult
	switch {
	case child.IsElement():
		r.kind = childElement
	case child.IsComponent():
		r.kind = childComponent
	default:
		return r
	}

	data := child.EnsureData()
	NormalizeData(data)

	if r.kind == childElement {
		data.Attrs = applySet(s, &r, SlotAttrs, data.Attrs, ctx.Attrs)
		data.On = applySet(s, &r, SlotListeners, data.On, ctx.Listeners)
	} else {
		comp := child.Component
		var declared []string
		if comp.Ctor != nil {
			declared = comp.Ctor.DeclaredProps()
		}
		if own, rest := ExtractProps(declared, data.Attrs); own != nil {
			comp.PropsData = fillProps(comp.PropsData, own)
			data.Attrs = rest
		}
		props, rest := ResolveProps(declared, ctx.Attrs)
		comp.PropsData = applySet(s, &r, SlotProps, comp.PropsData, props)
		data.Attrs = applySet(s, &r, SlotAttrs, data.Attrs, rest)
		comp.Listeners = applySet(s, &r, SlotComponentOn, comp.Listeners, ctx.Listeners)
		data.NativeOn = applySet(s, &r, SlotNativeListeners, data.NativeOn, ctx.NativeListeners)
	}

	if ctx.Class != nil {
		value, outcome := s.engine.Resolve(attrClass, data.Class, data.Class != nil, *ctx.Class)
		data.Class = value
		s.record(&r, SlotClass, ctx.Class.Policy, outcome)
	}
	if ctx.Style != nil {
		value, outcome := s.engine.Resolve(attrStyle, data.Style, data.Style != nil, *ctx.Style)
		data.Style = value
		s.record(&r, SlotStyle, ctx.Style.Policy, outcome)
	}
	if ctx.Key != nil {
		value, outcome := s.engine.Resolve(attrKey, data.Key, data.Key != "", *ctx.Key)
		data.Key = keyString(value)
		r.key = data.Key
		r.keyFromWrapper = outcome.Changed() && data.Key != ""
		s.record(&r, SlotKey, ctx.Key.Policy, outcome)
	}
	if len(ctx.Directives) > 0 {
		data.Directives = s.applyDirectives(&r, data.Directives, ctx.Directives)
	}
	return r
}

// applySet merges a binding set into a copy of target and returns the copy.
// The child's original map is left untouched since it may be shared.
func applySet[M ~map[string]any](s *Syringe, r *childResult, slot Slot, target M, set BindingSet) M {
	if len(set) == 0 {
		return target
	}
	out := make(M, len(target)+len(set))
	for k, v := range target {
		out[k] = v
	}
	for _, key := range set.Keys() {
		b := set[key]
		s.record(r, slot, b.Policy, s.engine.Apply(out, key, b))
	}
	return out
}

// applyDirectives merges wrapper directives by exact name into a copy of
// the child's directive list.
func (s *Syringe) applyDirectives(r *childResult, existing []vdom.Directive, bindings []DirectiveBinding) []vdom.Directive {
	dirs := make([]vdom.Directive, len(existing), len(existing)+len(bindings))
	copy(dirs, existing)

	for _, db := range bindings {
		name := db.Directive.Name
		i := indexDirective(dirs, name)
		var outcome Outcome
		switch {
		case i < 0:
			dirs = append(dirs, cloneDirective(db.Directive))
			outcome = OutcomeSet
		case db.Policy == Overwrite:
			dirs[i] = cloneDirective(db.Directive)
			outcome = OutcomeReplaced
		case db.Policy == Merge:
			var value any
			value, outcome = s.engine.Resolve(name, dirs[i].Value, true, Binding{
				Key:    name,
				Value:  db.Directive.Value,
				Policy: Merge,
			})
			dirs[i].Value = value
		default:
			outcome = OutcomeKept
		}
		s.record(r, SlotDirectives, db.Policy, outcome)
	}
	return dirs
}

func (s *Syringe) record(r *childResult, slot Slot, policy Policy, outcome Outcome) {
	if outcome == OutcomeMismatch {
		r.mismatches++
	}
	s.observer.ObserveMerge(slot, policy, outcome)
}

// fillProps adds own props that are not already resolved.
func fillProps(target, own vdom.Props) vdom.Props {
	out := make(vdom.Props, len(target)+len(own))
	for k, v := range own {
		out[k] = v
	}
	for k, v := range target {
		out[k] = v
	}
	return out
}

func indexDirective(dirs []vdom.Directive, name string) int {
	for i, d := range dirs {
		if d.Name == name {
			return i
		}
	}
	return -1
}

func cloneDirective(d vdom.Directive) vdom.Directive {
	if d.Modifiers != nil {
		mods := make(map[string]bool, len(d.Modifiers))
		for k, v := range d.Modifiers {
			mods[k] = v
		}
		d.Modifiers = mods
	}
	return d
}

func keyString(v any) string {
	switch k := v.(type) {
	case nil:
		return ""
	case string:
		return k
	default:
		return fmt.Sprint(k)
	}
}

// DuplicateKeys returns the keys carried by more than one of children,
// with their counts. Children without a key are ignored.
func DuplicateKeys(children []*vdom.VNode) map[string]int {
	counts := make(map[string]int)
	for _, c := range children {
		if k := c.Key(); k != "" {
			counts[k]++
		}
	}
	for k, n := range counts {
		if n < 2 {
			delete(counts, k)
		}
	}
	return counts
}

// Wrap builds a wrapper node. Arguments are those of vdom.Fragment:
// attributes, listeners and directives become bindings, nodes become the
// children that receive them.
func Wrap(args ...any) *vdom.VNode {
	return vdom.Fragment(args...)
}
