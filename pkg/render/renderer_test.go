package render

import (
	"fmt"
	"strings"
	"testing"

	"github.com/vango-dev/syringe/pkg/syringe"
	"github.com/vango-dev/syringe/pkg/vdom"
)

func newInjectingRenderer() *Renderer {
	return NewRenderer(RendererConfig{Syringe: syringe.New(syringe.Options{})})
}

func mustRender(t *testing.T, r *Renderer, node *vdom.VNode) string {
	t.Helper()
	html, err := r.RenderToString(node)
	if err != nil {
		t.Fatalf("RenderToString() error = %v", err)
	}
	return html
}

func TestRenderElement(t *testing.T) {
	tests := []struct {
		name     string
		node     *vdom.VNode
		expected string
	}{
		{
			name:     "empty div",
			node:     vdom.H("div"),
			expected: "<div></div>",
		},
		{
			name:     "sorted attributes",
			node:     vdom.H("a", vdom.A("title", "t"), vdom.A("href", "/x"), vdom.Class("link")),
			expected: `<a class="link" href="/x" title="t"></a>`,
		},
		{
			name:     "void element",
			node:     vdom.H("input", vdom.A("type", "text")),
			expected: `<input type="text">`,
		},
		{
			name:     "boolean attributes",
			node:     vdom.H("input", vdom.A("disabled", true), vdom.A("checked", false)),
			expected: `<input disabled>`,
		},
		{
			name:     "inert and open",
			node:     vdom.H("dialog", vdom.A("open", true), vdom.A("inert", true)),
			expected: `<dialog inert open></dialog>`,
		},
		{
			name:     "nil and func attributes dropped",
			node:     vdom.H("div", vdom.A("data-x", nil), vdom.A("data-fn", func() {})),
			expected: `<div></div>`,
		},
		{
			name:     "sequence attribute",
			node:     vdom.H("div", vdom.A("data-list", []any{1, "2"})),
			expected: `<div data-list="1 2"></div>`,
		},
		{
			name:     "key not rendered",
			node:     vdom.H("li", vdom.Key("k")),
			expected: `<li></li>`,
		},
		{
			name:     "listener marker",
			node:     vdom.H("button", vdom.OnClick(func() {}), "Go"),
			expected: `<button data-on-click="true">Go</button>`,
		},
		{
			name:     "class list",
			node:     vdom.H("div", vdom.Class([]any{"a b", map[string]bool{"on": true, "off": false}, 3})),
			expected: `<div class="a b on"></div>`,
		},
		{
			name:     "static and computed style",
			node:     &vdom.VNode{Kind: vdom.KindElement, Tag: "p", Data: &vdom.VNodeData{StaticStyle: "color: blue", Style: map[string]any{"fontSize": "2px"}}},
			expected: `<p style="color: blue; font-size: 2px;"></p>`,
		},
		{
			name:     "comment and raw",
			node:     vdom.H("div", vdom.Comment("a--b"), vdom.Raw("<b>x</b>")),
			expected: `<div><!--a- -b--><b>x</b></div>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mustRender(t, NewRenderer(RendererConfig{}), tt.node)
			if got != tt.expected {
				t.Errorf("got %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestRenderEscaping(t *testing.T) {
	node := vdom.H("div", vdom.A("title", "a\"b'<c>\n"), "<script>&</script>")
	got := mustRender(t, NewRenderer(RendererConfig{}), node)
	want := `<div title="a&quot;b&#39;&lt;c&gt;&#10;">&lt;script&gt;&amp;&lt;/script&gt;</div>`
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestRenderPretty(t *testing.T) {
	node := vdom.H("div", vdom.H("span", "hi"), vdom.H("br"))
	got := mustRender(t, NewRenderer(RendererConfig{Pretty: true}), node)
	want := "<div>\n  <span>hi</span>\n  <br>\n</div>\n"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestRenderUnknownKind(t *testing.T) {
	_, err := RenderString(&vdom.VNode{Kind: vdom.VKind(99)})
	if err == nil {
		t.Fatal("expected error for unknown node kind")
	}
}

func TestRenderWrapperPolicies(t *testing.T) {
	tests := []struct {
		name     string
		wrapper  *vdom.VNode
		expected string
	}{
		{
			name:     "fallback keeps child attribute",
			wrapper:  syringe.Wrap(vdom.A("a", "1"), vdom.H("div", vdom.A("a", "3"), vdom.A("d", "4"))),
			expected: `<div a="3" d="4"></div>`,
		},
		{
			name:     "fallback fills missing attribute",
			wrapper:  syringe.Wrap(vdom.A("title", "w"), vdom.H("div")),
			expected: `<div title="w"></div>`,
		},
		{
			name:     "overwrite replaces",
			wrapper:  syringe.Wrap(vdom.A("title!", "w"), vdom.H("div", vdom.A("title", "own"))),
			expected: `<div title="w"></div>`,
		},
		{
			name:     "merge concatenates",
			wrapper:  syringe.Wrap(vdom.A("a&", "1"), vdom.A("b&", "2"), vdom.H("div", vdom.A("a", "3"), vdom.A("b", []any{1}))),
			expected: `<div a="31" b="1 2"></div>`,
		},
		{
			name:     "class merge",
			wrapper:  syringe.Wrap(vdom.A("class&", []any{"dynamic-class"}), vdom.H("div", vdom.Class("some-class"))),
			expected: `<div class="some-class dynamic-class"></div>`,
		},
		{
			name:     "class fallback",
			wrapper:  syringe.Wrap(vdom.Class("wrapper"), vdom.H("div", vdom.Class("own")), vdom.H("div")),
			expected: `<div class="own"></div><div class="wrapper"></div>`,
		},
		{
			name:     "style merge",
			wrapper:  syringe.Wrap(vdom.A("style&", "color: red"), vdom.H("div", vdom.Style("color: blue; font-size: 2px"))),
			expected: `<div style="color: red; font-size: 2px;"></div>`,
		},
		{
			name:     "style overwrite",
			wrapper:  syringe.Wrap(vdom.A("style!", map[string]any{"WebkitTransition": "none"}), vdom.H("div", vdom.Style("color: blue"))),
			expected: `<div style="-webkit-transition: none;"></div>`,
		},
		{
			name:     "text children untouched",
			wrapper:  syringe.Wrap(vdom.A("title", "w"), "plain", vdom.H("b")),
			expected: `plain<b title="w"></b>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mustRender(t, newInjectingRenderer(), tt.wrapper)
			if got != tt.expected {
				t.Errorf("got %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestRenderWrapperWithoutSyringe(t *testing.T) {
	wrapper := syringe.Wrap(vdom.A("title", "w"), vdom.H("div"))
	got := mustRender(t, NewRenderer(RendererConfig{}), wrapper)
	if got != "<div></div>" {
		t.Errorf("got %q, want plain children", got)
	}
}

func buttonCtor(noInherit bool) *vdom.Ctor {
	return &vdom.Ctor{
		Name:           "x-button",
		Props:          []string{"label"},
		NoInheritAttrs: noInherit,
		RenderFunc: func(props vdom.Props, listeners vdom.Listeners) *vdom.VNode {
			return vdom.H("button",
				vdom.Class("btn"),
				vdom.A("type", "button"),
				vdom.On("focus", listeners["press"]),
				fmt.Sprint(props["label"]),
			)
		},
	}
}

func TestRenderComponentFallthrough(t *testing.T) {
	node := vdom.Comp(buttonCtor(false),
		vdom.A("label", "Go"),
		vdom.A("title", "t"),
		vdom.Class("extra"),
		vdom.Style(map[string]any{"color": "red"}),
		vdom.NativeOn("click", func() {}),
	)

	got := mustRender(t, NewRenderer(RendererConfig{}), node)
	want := `<button class="btn extra" style="color: red;" title="t" type="button" data-on-click="true">Go</button>`
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestRenderComponentNoInheritAttrs(t *testing.T) {
	node := vdom.Comp(buttonCtor(true),
		vdom.A("label", "Go"),
		vdom.A("title", "t"),
		vdom.Class("extra"),
		vdom.NativeOn("click", func() {}),
	)

	got := mustRender(t, NewRenderer(RendererConfig{}), node)
	want := `<button class="btn extra" type="button">Go</button>`
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestRenderComponentListeners(t *testing.T) {
	node := vdom.Comp(buttonCtor(false), vdom.A("label", "Go"), vdom.On("press", func() {}))

	got := mustRender(t, NewRenderer(RendererConfig{}), node)
	if !strings.Contains(got, `data-on-focus="true"`) {
		t.Errorf("expected focus marker from component listener, got %q", got)
	}
	if strings.Contains(got, "press") {
		t.Errorf("component listener leaked as attribute: %q", got)
	}
}

func TestRenderInjectedComponent(t *testing.T) {
	wrapper := syringe.Wrap(
		vdom.A("label!", "Wrapped"),
		vdom.A("aria-label", "w"),
		vdom.A("class&", "wide"),
		vdom.Comp(buttonCtor(false), vdom.A("label", "Own")),
		vdom.H("span"),
	)

	got := mustRender(t, newInjectingRenderer(), wrapper)
	want := `<button aria-label="w" class="btn wide" type="button">Wrapped</button>` +
		`<span aria-label="w" class="wide" label="Wrapped"></span>`
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestRenderComponentWithoutRenderer(t *testing.T) {
	node := &vdom.VNode{
		Kind:      vdom.KindComponent,
		Component: &vdom.ComponentOptions{Ctor: declaredOnly{}},
	}
	got := mustRender(t, NewRenderer(RendererConfig{}), node)
	if got != "" {
		t.Errorf("got %q, want empty output", got)
	}
}

type declaredOnly struct{}

func (declaredOnly) DeclaredProps() []string { return []string{"x"} }
