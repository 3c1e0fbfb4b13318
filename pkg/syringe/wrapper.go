package syringe

import (
	"github.com/vango-dev/syringe/pkg/vdom"
)

// Reserved attribute names routed to their own slots when they appear in a
// wrapper's attributes (typically with a suffix: "class&", "style!").
const (
	attrClass = "class"
	attrStyle = "style"
	attrKey   = "key"
)

// DirectiveBinding is a wrapper directive with its policy. The directive
// name has its suffix stripped.
type DirectiveBinding struct {
	Directive vdom.Directive
	Policy    Policy
}

// WrapperContext holds every binding a wrapper redistributes. It is built
// once per pass by ParseWrapper and read concurrently by the children.
type WrapperContext struct {
	Attrs           BindingSet
	Listeners       BindingSet
	NativeListeners BindingSet
	Class           *Binding // normalized []any value
	Style           *Binding // normalized map[string]string value
	Key             *Binding
	Directives      []DirectiveBinding
}

// ParseWrapper parses a wrapper's data block. The data block is not
// modified. A nil block yields an empty context.
func ParseWrapper(data *vdom.VNodeData) *WrapperContext {
	ctx := &WrapperContext{
		Attrs:           make(BindingSet),
		Listeners:       make(BindingSet),
		NativeListeners: make(BindingSet),
	}
	if data == nil {
		return ctx
	}

	ctx.Attrs = Parse(data.Attrs)
	ctx.Listeners = Parse(data.On)
	ctx.NativeListeners = Parse(data.NativeOn)

	classAttr, hasClassAttr := ctx.Attrs.Take(attrClass)
	styleAttr, hasStyleAttr := ctx.Attrs.Take(attrStyle)
	keyAttr, hasKeyAttr := ctx.Attrs.Take(attrKey)

	// The wrapper's own class/style come first; a suffixed attribute is
	// layered on top and decides the policy.
	classPolicy, classExtra := Fallback, any(nil)
	if hasClassAttr {
		classPolicy, classExtra = classAttr.Policy, classAttr.Value
	}
	if class := NormalizeClass(data.StaticClass, []any{data.Class, classExtra}); len(class) > 0 {
		ctx.Class = &Binding{Key: attrClass, Value: class, Policy: classPolicy}
	}

	stylePolicy, styleExtra := Fallback, any(nil)
	if hasStyleAttr {
		stylePolicy, styleExtra = styleAttr.Policy, styleAttr.Value
	}
	if style := NormalizeStyle(data.StaticStyle, []any{data.Style, styleExtra}); len(style) > 0 {
		ctx.Style = &Binding{Key: attrStyle, Value: style, Policy: stylePolicy}
	}

	switch {
	case hasKeyAttr && keyAttr.Value != nil:
		ctx.Key = &keyAttr
	case data.Key != "":
		ctx.Key = &Binding{Key: attrKey, Value: data.Key, Policy: Fallback}
	}

	ctx.Directives = parseDirectives(data.Directives)
	return ctx
}

// parseDirectives strips policy suffixes from directive names. A later
// directive with the same name replaces an earlier one.
func parseDirectives(dirs []vdom.Directive) []DirectiveBinding {
	if len(dirs) == 0 {
		return nil
	}
	out := make([]DirectiveBinding, 0, len(dirs))
	index := make(map[string]int, len(dirs))
	for _, d := range dirs {
		name, policy := ParsePolicy(d.Name)
		d.Name = name
		db := DirectiveBinding{Directive: d, Policy: policy}
		if i, ok := index[name]; ok {
			out[i] = db
			continue
		}
		index[name] = len(out)
		out = append(out, db)
	}
	return out
}

// Empty reports whether the wrapper carries no bindings at all.
func (w *WrapperContext) Empty() bool {
	return w.Attrs.Len() == 0 &&
		w.Listeners.Len() == 0 &&
		w.NativeListeners.Len() == 0 &&
		w.Class == nil &&
		w.Style == nil &&
		w.Key == nil &&
		len(w.Directives) == 0
}

// Count returns the total number of bindings.
func (w *WrapperContext) Count() int {
	n := w.Attrs.Len() + w.Listeners.Len() + w.NativeListeners.Len() + len(w.Directives)
	for _, b := range []*Binding{w.Class, w.Style, w.Key} {
		if b != nil {
			n++
		}
	}
	return n
}
