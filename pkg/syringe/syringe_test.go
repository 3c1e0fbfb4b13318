package syringe

import (
	"bytes"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vango-dev/syringe/pkg/vdom"
)

type recordingObserver struct {
	mu         sync.Mutex
	merges     map[Slot][]Outcome
	collisions map[string]int
	passes     []PassStats
}

func newRecordingObserver() *recordingObserver {
	return &recordingObserver{
		merges:     make(map[Slot][]Outcome),
		collisions: make(map[string]int),
	}
}

func (o *recordingObserver) ObserveMerge(slot Slot, _ Policy, outcome Outcome) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.merges[slot] = append(o.merges[slot], outcome)
}

func (o *recordingObserver) ObserveCollision(key string, count int) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.collisions[key] = count
}

func (o *recordingObserver) ObservePass(stats PassStats) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.passes = append(o.passes, stats)
}

func TestInjectFallbackAttrs(t *testing.T) {
	child := vdom.H("div", vdom.A("a", "3"), vdom.A("d", "4"))
	bare := vdom.H("div")
	wrapper := Wrap(vdom.A("a", "1"), vdom.A("b", "2"), child, bare)

	out := Inject(wrapper)

	require.Len(t, out, 2)
	assert.Equal(t, vdom.Props{"a": "3", "b": "2", "d": "4"}, child.Data.Attrs)
	assert.Equal(t, vdom.Props{"a": "1", "b": "2"}, bare.Data.Attrs)
}

func TestInjectMergeAttrs(t *testing.T) {
	child := vdom.H("div", vdom.A("a", "3"), vdom.A("b", []any{1}))
	wrapper := Wrap(vdom.A("a&", "1"), vdom.A("b&", "2"), child)

	Inject(wrapper)

	assert.Equal(t, "31", child.Data.Attrs["a"])
	assert.Equal(t, []any{1, "2"}, child.Data.Attrs["b"])
}

func TestInjectOverwriteComponentProp(t *testing.T) {
	ctor := &vdom.Ctor{Name: "text-list", Props: []string{"text"}}
	child := vdom.Comp(ctor, vdom.A("text", []any{3, 2, 1}))
	wrapper := Wrap(vdom.A("text!", []any{1, 2, 3}), child)

	Inject(wrapper)

	assert.Equal(t, []any{1, 2, 3}, child.Component.PropsData["text"])
	assert.NotContains(t, child.Data.Attrs, "text")
	assert.NotContains(t, child.Data.Attrs, "text!")
}

func TestInjectMergeListeners(t *testing.T) {
	var calls []string
	var receivers []any
	childFn := func(receiver any, args ...any) {
		calls = append(calls, "child")
		receivers = append(receivers, receiver)
	}
	wrapperFn := func(receiver any, args ...any) {
		calls = append(calls, "wrapper")
		receivers = append(receivers, receiver)
	}
	child := vdom.H("button", vdom.OnClick(childFn))
	wrapper := Wrap(vdom.On("click&", wrapperFn), child)

	Inject(wrapper)

	require.True(t, vdom.Emit(child.Data.On, "click", child, "evt"))
	assert.Equal(t, []string{"child", "wrapper"}, calls)
	assert.Equal(t, []any{child, child}, receivers)
}

func TestInjectListenerPolicies(t *testing.T) {
	var calls []string
	record := func(name string) func() {
		return func() { calls = append(calls, name) }
	}

	kept := vdom.H("button", vdom.OnClick(record("own")))
	set := vdom.H("button")
	replaced := vdom.H("button", vdom.OnFocus(record("own-focus")))
	wrapper := Wrap(
		vdom.OnClick(record("wrapper")),
		vdom.On("focus!", record("wrapper-focus")),
		kept, set, replaced,
	)

	Inject(wrapper)

	vdom.Emit(kept.Data.On, "click", kept)
	vdom.Emit(set.Data.On, "click", set)
	vdom.Emit(replaced.Data.On, "focus", replaced)
	assert.Equal(t, []string{"own", "wrapper", "wrapper-focus"}, calls)
}

func TestInjectComponent(t *testing.T) {
	ctor := &vdom.Ctor{Name: "x-input", Props: []string{"value", "maxLength"}}
	onChange := func() {}
	onNative := func() {}

	comp := vdom.Comp(ctor, vdom.A("value", "a"), vdom.A("data-x", "1"))
	elem := vdom.H("input")
	wrapper := Wrap(
		vdom.A("max-length", 5),
		vdom.A("placeholder", "p"),
		vdom.A("value&", "b"),
		vdom.On("change", onChange),
		vdom.NativeOn("click", onNative),
		comp, elem,
	)

	Inject(wrapper)

	assert.Equal(t, vdom.Props{"value": "ab", "maxLength": 5}, comp.Component.PropsData)
	assert.Equal(t, vdom.Props{"data-x": "1", "placeholder": "p"}, comp.Data.Attrs)
	assert.Contains(t, comp.Component.Listeners, "change")
	assert.NotContains(t, comp.Data.On, "change")
	assert.Contains(t, comp.Data.NativeOn, "click")

	assert.Equal(t, vdom.Props{"max-length": 5, "placeholder": "p", "value": "b"}, elem.Data.Attrs)
	assert.Contains(t, elem.Data.On, "change")
	assert.Nil(t, elem.Data.NativeOn, "native listeners only target components")
}

func TestInjectComponentKeepsExplicitProps(t *testing.T) {
	ctor := &vdom.Ctor{Name: "x-label", Props: []string{"text"}}
	comp := vdom.Comp(ctor, vdom.Prop{Name: "text", Value: "explicit"}, vdom.A("text", "attr"))
	wrapper := Wrap(vdom.A("title", "t"), comp)

	Inject(wrapper)

	assert.Equal(t, "explicit", comp.Component.PropsData["text"])
	assert.Equal(t, vdom.Props{"title": "t"}, comp.Data.Attrs)
}

func TestInjectComponentWithoutDeclaredProps(t *testing.T) {
	ctor := &vdom.Ctor{Name: "x-box"}
	comp := vdom.Comp(ctor)
	wrapper := Wrap(vdom.A("text", "hi"), comp)

	Inject(wrapper)

	assert.Empty(t, comp.Component.PropsData)
	assert.Equal(t, vdom.Props{"text": "hi"}, comp.Data.Attrs)
}

func TestInjectClass(t *testing.T) {
	t.Run("fallback", func(t *testing.T) {
		own := vdom.H("div", vdom.Class("c"))
		bare := vdom.H("div")
		wrapper := Wrap(vdom.Class("w"), own, bare)

		Inject(wrapper)

		assert.Equal(t, []any{"c"}, own.Data.Class)
		assert.Equal(t, "", own.Data.StaticClass)
		assert.Equal(t, []any{"w"}, bare.Data.Class)
	})

	t.Run("merge", func(t *testing.T) {
		child := vdom.H("div", vdom.Class("some-class"))
		wrapper := Wrap(vdom.A("class&", []any{"dynamic-class"}), child)

		Inject(wrapper)

		assert.Equal(t, []any{"some-class", "dynamic-class"}, child.Data.Class)
	})

	t.Run("merge layered on wrapper class", func(t *testing.T) {
		child := vdom.H("div", vdom.Class("c"))
		wrapper := Wrap(vdom.Class("w"), vdom.A("class&", "x"), child)

		Inject(wrapper)

		assert.Equal(t, []any{"c", "w", "x"}, child.Data.Class)
	})

	t.Run("overwrite", func(t *testing.T) {
		child := vdom.H("div", vdom.Class(map[string]bool{"on": true}))
		wrapper := Wrap(vdom.A("class!", "w"), child)

		Inject(wrapper)

		assert.Equal(t, []any{"w"}, child.Data.Class)
	})
}

func TestInjectStyle(t *testing.T) {
	t.Run("merge", func(t *testing.T) {
		child := vdom.H("div", vdom.Style("color: blue; font-size: 2px"))
		wrapper := Wrap(vdom.A("style&", map[string]any{"color": "red"}), child)

		Inject(wrapper)

		assert.Equal(t, map[string]string{"color": "red", "fontSize": "2px"}, child.Data.Style)
	})

	t.Run("fallback", func(t *testing.T) {
		own := vdom.H("div", vdom.Style("color: blue"))
		bare := vdom.H("div")
		wrapper := Wrap(vdom.Style("color: red"), own, bare)

		Inject(wrapper)

		assert.Equal(t, map[string]string{"color": "blue"}, own.Data.Style)
		assert.Equal(t, map[string]string{"color": "red"}, bare.Data.Style)
	})

	t.Run("overwrite", func(t *testing.T) {
		child := vdom.H("div", vdom.Style("color: blue; margin: 0"))
		wrapper := Wrap(vdom.A("style!", "color: red"), child)

		Inject(wrapper)

		assert.Equal(t, map[string]string{"color": "red"}, child.Data.Style)
	})
}

func TestInjectKey(t *testing.T) {
	t.Run("fallback keeps own key", func(t *testing.T) {
		own := vdom.H("li", vdom.Key("own"))
		bare := vdom.H("li")
		wrapper := Wrap(vdom.Key("w"), own, bare)

		Inject(wrapper)

		assert.Equal(t, "own", own.Key())
		assert.Equal(t, "w", bare.Key())
	})

	t.Run("overwrite", func(t *testing.T) {
		child := vdom.H("li", vdom.Key("own"))
		wrapper := Wrap(vdom.A("key!", 7), child)

		Inject(wrapper)

		assert.Equal(t, "7", child.Key())
	})

	t.Run("collision is reported, not resolved", func(t *testing.T) {
		var buf bytes.Buffer
		obs := newRecordingObserver()
		s := New(Options{
			Logger:   slog.New(slog.NewTextHandler(&buf, nil)),
			Observer: obs,
		})
		a, b, c := vdom.H("li"), vdom.H("li"), vdom.H("li", vdom.Key("c"))
		wrapper := Wrap(vdom.A("key", "shared"), a, b, c)

		_, stats := s.InjectStats(wrapper)

		assert.Equal(t, "shared", a.Key())
		assert.Equal(t, "shared", b.Key())
		assert.Equal(t, "c", c.Key())
		assert.Equal(t, 1, stats.Collisions)
		assert.Equal(t, map[string]int{"shared": 2}, obs.collisions)
		assert.Contains(t, buf.String(), "children share a key")
		assert.Equal(t, map[string]int{"shared": 2}, DuplicateKeys([]*vdom.VNode{a, b, c}))
	})
}

func TestInjectDirectives(t *testing.T) {
	child := vdom.H("input",
		vdom.Dir("tooltip", "own"),
		vdom.Dir("list", []any{1}),
		vdom.Dir("focus", false),
	)
	wrapper := Wrap(
		vdom.Dir("tooltip!", "wrapper"),
		vdom.Dir("list&", []any{2}),
		vdom.Dir("focus", true),
		vdom.Dir("ripple", "on"),
		child,
	)

	Inject(wrapper)

	byName := make(map[string]any)
	for _, d := range child.Data.Directives {
		byName[d.Name] = d.Value
	}
	assert.Equal(t, map[string]any{
		"tooltip": "wrapper",
		"list":    []any{1, 2},
		"focus":   false,
		"ripple":  "on",
	}, byName)
	assert.Len(t, child.Data.Directives, 4)
	assert.Equal(t, "tooltip!", wrapper.Data.Directives[0].Name, "wrapper directives are not modified")
}

func TestInjectFastPath(t *testing.T) {
	obs := newRecordingObserver()
	a, b := vdom.H("div"), vdom.H("span")
	wrapper := Wrap(a, b)

	out, stats := New(Options{Observer: obs}).InjectStats(wrapper)

	require.Len(t, out, 2)
	assert.Same(t, a, out[0])
	assert.Same(t, b, out[1])
	assert.True(t, stats.FastPath)
	assert.Nil(t, a.Data)
	assert.Empty(t, obs.merges)
	assert.Len(t, obs.passes, 1)
}

func TestInjectNoChildren(t *testing.T) {
	assert.Nil(t, Inject(Wrap(vdom.A("a", "1"))))
	assert.Nil(t, Inject(nil))
}

func TestInjectSkipsNonElements(t *testing.T) {
	text := vdom.Text("hello")
	comment := vdom.Comment("note")
	div := vdom.H("div")
	wrapper := Wrap(vdom.A("a", "1"), text, comment, div)

	out, stats := New(Options{}).InjectStats(wrapper)

	require.Len(t, out, 3)
	assert.Nil(t, text.Data)
	assert.Nil(t, comment.Data)
	assert.Equal(t, vdom.Props{"a": "1"}, div.Data.Attrs)
	assert.Equal(t, 2, stats.Skipped)
	assert.Equal(t, 1, stats.Elements)
}

func TestInjectPreservesIdentity(t *testing.T) {
	ctor := &vdom.Ctor{Name: "x-item", Props: []string{"label"}}
	instance := &struct{ n int }{n: 1}
	comp := vdom.Comp(ctor)
	comp.Component.Instance = instance
	div := vdom.H("div")
	children := []*vdom.VNode{div, comp}

	out, _ := New(Options{}).InjectChildren(&vdom.VNodeData{Attrs: vdom.Props{"label": "x"}}, children)

	require.Len(t, out, 2)
	assert.Same(t, div, out[0])
	assert.Same(t, comp, out[1])
	assert.Same(t, instance, comp.Component.Instance)
	assert.Equal(t, "x", comp.Component.PropsData["label"])
}

func TestInjectComponentWrapper(t *testing.T) {
	ctor := &vdom.Ctor{Name: "x-group"}
	inner := vdom.H("div")
	wrapper := vdom.Comp(ctor, vdom.A("role", "group"), inner)

	out := Inject(wrapper)

	require.Len(t, out, 1)
	assert.Equal(t, vdom.Props{"role": "group"}, inner.Data.Attrs)
}

func TestInjectDoesNotContaminateSiblings(t *testing.T) {
	shared := vdom.Props{"list": []any{1}}
	a := &vdom.VNode{Kind: vdom.KindElement, Tag: "div", Data: &vdom.VNodeData{Attrs: shared}}
	b := &vdom.VNode{Kind: vdom.KindElement, Tag: "div", Data: &vdom.VNodeData{Attrs: shared}}
	incoming := []any{2}
	wrapper := Wrap(vdom.A("list&", incoming), vdom.A("extra", "x"), a, b)

	Inject(wrapper)

	assert.Equal(t, []any{1, 2}, a.Data.Attrs["list"])
	assert.Equal(t, []any{1, 2}, b.Data.Attrs["list"])
	assert.Equal(t, vdom.Props{"list": []any{1}}, shared)
	assert.Equal(t, []any{2}, incoming)
	t.Run("class and style", func(t *testing.T) {
		a := vdom.H("div")
		b := vdom.H("div")
		Inject(Wrap(vdom.Style("color:red"), vdom.Class("x"), a, b))

		a.Data.Style.(map[string]string)["color"] = "blue"
		a.Data.Class.([]any)[0] = "y"

		assert.Equal(t, map[string]string{"color": "red"}, b.Data.Style)
		assert.Equal(t, []any{"x"}, b.Data.Class)
	})

	t.Run("overwritten attrs", func(t *testing.T) {
		list := []any{1}
		a := vdom.H("div", vdom.A("list", "own"))
		b := vdom.H("div", vdom.A("list", "own"))
		Inject(Wrap(vdom.A("list!", list), a, b))

		a.Data.Attrs["list"].([]any)[0] = 9
		assert.Equal(t, []any{1}, b.Data.Attrs["list"])
		assert.Equal(t, []any{1}, list)
	})
}

func TestInjectMergeMixedListeners(t *testing.T) {
	var calls []string
	var event any
	childFn := func(ev any) {
		calls = append(calls, "child")
		event = ev
	}
	wrapperFn := vdom.Handler(func(receiver any, args ...any) {
		calls = append(calls, "wrapper")
	})
	child := vdom.H("button", vdom.OnClick(childFn))
	wrapper := Wrap(vdom.On("click&", wrapperFn), child)

	Inject(wrapper)

	require.True(t, vdom.Emit(child.Data.On, "click", child, "evt"))
	assert.Equal(t, []string{"child", "wrapper"}, calls)
	assert.Equal(t, child, event)
}

func TestInjectParallelMatchesSequential(t *testing.T) {
	build := func() *vdom.VNode {
		ctor := &vdom.Ctor{Name: "x-cell", Props: []string{"value"}}
		var children []*vdom.VNode
		for i := 0; i < 32; i++ {
			if i%2 == 0 {
				children = append(children, vdom.H("td", vdom.A("n", i), vdom.Class("cell")))
			} else {
				children = append(children, vdom.Comp(ctor, vdom.A("value", i)))
			}
		}
		return Wrap(
			vdom.A("n&", 100),
			vdom.A("value!", "v"),
			vdom.A("class&", "row"),
			vdom.Style("color: red"),
			children,
		)
	}

	seq, par := build(), build()
	obs := newRecordingObserver()
	_, seqStats := New(Options{}).InjectStats(seq)
	_, parStats := New(Options{Parallel: true, Observer: obs}).InjectStats(par)

	for i := range seq.Children {
		s, p := seq.Children[i], par.Children[i]
		assert.Equal(t, s.Data.Attrs, p.Data.Attrs)
		assert.Equal(t, s.Data.Class, p.Data.Class)
		assert.Equal(t, s.Data.Style, p.Data.Style)
		if s.Component != nil {
			assert.Equal(t, s.Component.PropsData, p.Component.PropsData)
		}
	}
	assert.Equal(t, seqStats.Elements, parStats.Elements)
	assert.Equal(t, seqStats.Components, parStats.Components)
	assert.Equal(t, 16, parStats.Components)
	assert.Equal(t, 100, seq.Children[0].Data.Attrs["n"])
	assert.Equal(t, 102, seq.Children[2].Data.Attrs["n"])
	assert.Equal(t, "v", seq.Children[1].Component.PropsData["value"])
}

func TestInjectObserverOutcomes(t *testing.T) {
	obs := newRecordingObserver()
	child := vdom.H("div", vdom.A("a", []any{1}), vdom.A("b", "own"))
	wrapper := Wrap(
		vdom.A("a&", map[string]any{"x": 1}),
		vdom.A("b", "w"),
		vdom.A("c!", "w"),
		child,
	)

	_, stats := New(Options{Observer: obs}).InjectStats(wrapper)

	assert.ElementsMatch(t, []Outcome{OutcomeMismatch, OutcomeKept, OutcomeSet}, obs.merges[SlotAttrs])
	assert.Equal(t, 1, stats.Mismatches)
	assert.Equal(t, 3, stats.Bindings)
	assert.Equal(t, map[string]any{"x": 1}, child.Data.Attrs["a"])
}
