package fixture

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/vango-dev/syringe/internal/errors"
	"github.com/vango-dev/syringe/pkg/vdom"
)

// Build turns the document into a wrapper node whose children are the
// document's children. Handler references are bound to rec.
func (d *Document) Build(rec *Recorder) (*vdom.VNode, error) {
	b := &builder{doc: d, rec: rec, ctors: make(map[string]*vdom.Ctor, len(d.Components))}
	if err := b.defineComponents(); err != nil {
		return nil, err
	}

	wrapper := &vdom.VNode{Kind: vdom.KindFragment}
	data, err := b.data(d.Wrapper, nil, nil)
	if err != nil {
		return nil, err
	}
	wrapper.Data = data

	for i := range d.Children {
		child, err := b.node(&d.Children[i], nil, nil)
		if err != nil {
			return nil, err
		}
		wrapper.Children = append(wrapper.Children, child)
	}
	return wrapper, nil
}

type builder struct {
	doc   *Document
	rec   *Recorder
	ctors map[string]*vdom.Ctor
}

func (b *builder) defineComponents() error {
	names := make([]string, 0, len(b.doc.Components))
	for name := range b.doc.Components {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		def := b.doc.Components[name]
		ctor := &vdom.Ctor{
			Name:           name,
			Props:          def.Props,
			NoInheritAttrs: def.InheritAttrs != nil && !*def.InheritAttrs,
		}
		b.ctors[name] = ctor
	}

	// Templates are checked once up front so rendering cannot fail.
	for _, name := range names {
		def := b.doc.Components[name]
		if def.Render == nil {
			continue
		}
		tmpl := def.Render
		if _, err := b.node(tmpl, vdom.Props{}, vdom.Listeners{}); err != nil {
			return err
		}
		b.ctors[name].RenderFunc = func(props vdom.Props, listeners vdom.Listeners) *vdom.VNode {
			if props == nil {
				props = vdom.Props{}
			}
			if listeners == nil {
				listeners = vdom.Listeners{}
			}
			root, _ := b.node(tmpl, props, listeners)
			return root
		}
	}
	return nil
}

// node builds n. scope is non-nil inside component templates and holds
// the props available to {{name}} references; listeners holds the
// component listeners available to $event references.
func (b *builder) node(n *NodeDoc, scope vdom.Props, listeners vdom.Listeners) (*vdom.VNode, error) {
	if n.kinds() != 1 {
		return nil, b.errAt(errors.New("E203"), n)
	}

	var node *vdom.VNode
	switch {
	case n.Text != nil:
		return vdom.Text(interpolateString(*n.Text, scope)), nil
	case n.Comment != nil:
		return vdom.Comment(*n.Comment), nil
	case n.Raw != nil:
		return vdom.Raw(*n.Raw), nil
	case n.Tag != "":
		node = &vdom.VNode{Kind: vdom.KindElement, Tag: n.Tag}
	default:
		ctor, ok := b.ctors[n.Component]
		if !ok {
			return nil, b.errAt(errors.New("E202").WithDetailf("component %q is not defined", n.Component), n)
		}
		node = &vdom.VNode{
			Kind:      vdom.KindComponent,
			Tag:       n.Component,
			Component: &vdom.ComponentOptions{Ctor: ctor},
		}
		if len(n.Props) > 0 {
			node.Component.PropsData = vdom.Props(interpolateMap(n.Props, scope))
		}
	}

	data, err := b.data(n.NodeData, scope, listeners)
	if err != nil {
		return nil, b.errAt(errors.FromError(err, "E204"), n)
	}
	node.Data = data
	if node.Component != nil && data != nil && len(data.On) > 0 {
		// "on" of a component node holds component listeners.
		node.Component.Listeners = data.On
		data.On = nil
	}

	for i := range n.Children {
		child, err := b.node(&n.Children[i], scope, listeners)
		if err != nil {
			return nil, err
		}
		if node.Component != nil {
			node.Component.Children = append(node.Component.Children, child)
		} else {
			node.Children = append(node.Children, child)
		}
	}
	return node, nil
}

func (b *builder) data(d NodeData, scope vdom.Props, listeners vdom.Listeners) (*vdom.VNodeData, error) {
	data := &vdom.VNodeData{Key: interpolateString(d.Key, scope)}

	if len(d.Attrs) > 0 {
		data.Attrs = vdom.Props(interpolateMap(d.Attrs, scope))
	}

	var err error
	if data.On, err = b.listeners(d.On, listeners); err != nil {
		return nil, err
	}
	if data.NativeOn, err = b.listeners(d.NativeOn, listeners); err != nil {
		return nil, err
	}

	switch c := interpolate(d.Class, scope).(type) {
	case nil:
	case string:
		data.StaticClass = c
	default:
		data.Class = c
	}
	switch s := interpolate(d.Style, scope).(type) {
	case nil:
	case string:
		data.StaticStyle = s
	default:
		data.Style = s
	}

	for _, dd := range d.Directives {
		data.Directives = append(data.Directives, vdom.Directive{
			Name:      dd.Name,
			Value:     interpolate(dd.Value, scope),
			Arg:       dd.Arg,
			Modifiers: dd.Modifiers,
		})
	}
	return data, nil
}

// listeners resolves handler references: "@name" binds a recording
// handler, "$event" forwards to the enclosing component's listener.
func (b *builder) listeners(refs map[string]string, component vdom.Listeners) (vdom.Listeners, error) {
	if len(refs) == 0 {
		return nil, nil
	}
	out := make(vdom.Listeners, len(refs))
	for event, ref := range refs {
		switch {
		case strings.HasPrefix(ref, "@") && len(ref) > 1:
			out[event] = b.rec.Handler(ref[1:])
		case strings.HasPrefix(ref, "$") && len(ref) > 1 && component != nil:
			if l, ok := component[ref[1:]]; ok && l != nil {
				out[event] = l
			}
		default:
			return nil, errors.New("E204").WithDetailf("listener %q has reference %q; want @name", event, ref)
		}
	}
	return out, nil
}

func (b *builder) errAt(err *errors.SyringeError, n *NodeDoc) *errors.SyringeError {
	if err.Location == nil && n.Line > 0 {
		err.WithLocation(b.doc.Source, n.Line, n.Column)
	}
	return err
}

func (n *NodeDoc) kinds() int {
	count := 0
	for _, set := range []bool{n.Tag != "", n.Component != "", n.Text != nil, n.Comment != nil, n.Raw != nil} {
		if set {
			count++
		}
	}
	return count
}

var propRef = regexp.MustCompile(`\{\{\s*([A-Za-z_$][\w$-]*)\s*\}\}`)

// interpolate substitutes {{name}} references inside strings, maps and
// sequences. A string that is a single reference takes the prop value
// itself.
func interpolate(v any, scope vdom.Props) any {
	if scope == nil {
		return v
	}
	switch t := v.(type) {
	case string:
		if m := propRef.FindStringSubmatch(t); m != nil && m[0] == t {
			return scope[m[1]]
		}
		return interpolateString(t, scope)
	case map[string]any:
		return interpolateMap(t, scope)
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = interpolate(item, scope)
		}
		return out
	default:
		return v
	}
}

func interpolateMap(m map[string]any, scope vdom.Props) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = interpolate(v, scope)
	}
	return out
}

func interpolateString(s string, scope vdom.Props) string {
	if scope == nil || !strings.Contains(s, "{{") {
		return s
	}
	return propRef.ReplaceAllStringFunc(s, func(ref string) string {
		name := propRef.FindStringSubmatch(ref)[1]
		if v, ok := scope[name]; ok && v != nil {
			return fmt.Sprint(v)
		}
		return ""
	})
}
