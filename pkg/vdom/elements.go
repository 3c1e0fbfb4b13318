package vdom

import "fmt"

// voidElements are elements that cannot have children.
var voidElements = map[string]bool{
	"area":   true,
	"base":   true,
	"br":     true,
	"col":    true,
	"embed":  true,
	"hr":     true,
	"img":    true,
	"input":  true,
	"link":   true,
	"meta":   true,
	"param":  true,
	"source": true,
	"track":  true,
	"wbr":    true,
}

// IsVoidElement returns true if the tag is a void element.
func IsVoidElement(tag string) bool {
	return voidElements[tag]
}

// Attr represents a single attribute.
type Attr struct {
	Key   string
	Value any
}

// IsEmpty returns true if this is an empty/nil attribute.
func (a Attr) IsEmpty() bool {
	return a.Key == ""
}

// Prop sets a component property directly, bypassing attribute resolution.
type Prop struct {
	Name  string
	Value any
}

// A creates an attribute. Keys may carry a binding suffix ("title!").
func A(key string, value any) Attr { return Attr{Key: key, Value: value} }

// ID sets the id attribute.
func ID(id string) Attr { return A("id", id) }

// TitleAttr sets the title attribute.
func TitleAttr(title string) Attr { return A("title", title) }

// Class sets the class binding. A string becomes the static class; any
// other value (slice, map) the computed class.
func Class(class any) Attr { return A("class", class) }

// Style sets the style binding. A string becomes the static style; any
// other value (map, slice of maps) the computed style.
func Style(style any) Attr { return A("style", style) }

// Key sets the reconciliation key.
func Key(key any) Attr { return A("key", fmt.Sprintf("%v", key)) }

// Dir creates a directive.
func Dir(name string, value any) Directive {
	return Directive{Name: name, Value: value}
}

// H creates an element node.
// Arguments can be: nil, Attr, []Attr, EventHandler, Directive, *VNode,
// []*VNode, or string (text child).
func H(tag string, args ...any) *VNode {
	node := &VNode{
		Kind: KindElement,
		Tag:  tag,
	}
	apply(node, args)
	return node
}

// Comp creates a component placeholder node.
// Arguments are those of H plus Prop. Attributes are left unresolved in
// Data.Attrs; non-native listeners become component listeners.
func Comp(ctor Constructor, args ...any) *VNode {
	node := &VNode{
		Kind:      KindComponent,
		Component: &ComponentOptions{Ctor: ctor},
	}
	if c, ok := ctor.(*Ctor); ok {
		node.Tag = c.Name
	}
	apply(node, args)
	return node
}

func apply(node *VNode, args []any) {
	for _, arg := range args {
		switch v := arg.(type) {
		case nil:
			continue
		case Attr:
			applyAttr(node, v)
		case []Attr:
			for _, a := range v {
				applyAttr(node, a)
			}
		case EventHandler:
			applyHandler(node, v)
		case Directive:
			data := node.EnsureData()
			data.Directives = append(data.Directives, v)
		case Prop:
			if node.Component != nil {
				if node.Component.PropsData == nil {
					node.Component.PropsData = make(Props)
				}
				node.Component.PropsData[v.Name] = v.Value
			}
		case *VNode:
			if v != nil {
				appendChild(node, v)
			}
		case []*VNode:
			for _, c := range v {
				if c != nil {
					appendChild(node, c)
				}
			}
		case string:
			appendChild(node, Text(v))
		}
	}
}

func appendChild(node *VNode, child *VNode) {
	if node.Component != nil {
		node.Component.Children = append(node.Component.Children, child)
		return
	}
	node.Children = append(node.Children, child)
}

func applyAttr(node *VNode, a Attr) {
	if a.IsEmpty() {
		return
	}
	data := node.EnsureData()
	switch a.Key {
	case "key":
		data.Key = fmt.Sprintf("%v", a.Value)
	case "class":
		if s, ok := a.Value.(string); ok {
			data.StaticClass = s
		} else {
			data.Class = a.Value
		}
	case "style":
		if s, ok := a.Value.(string); ok {
			data.StaticStyle = s
		} else {
			data.Style = a.Value
		}
	default:
		if data.Attrs == nil {
			data.Attrs = make(Props)
		}
		data.Attrs[a.Key] = a.Value
	}
}

func applyHandler(node *VNode, h EventHandler) {
	if h.Event == "" {
		return
	}
	switch {
	case h.Native:
		data := node.EnsureData()
		if data.NativeOn == nil {
			data.NativeOn = make(Listeners)
		}
		data.NativeOn[h.Event] = h.Handler
	case node.Component != nil:
		if node.Component.Listeners == nil {
			node.Component.Listeners = make(Listeners)
		}
		node.Component.Listeners[h.Event] = h.Handler
	default:
		data := node.EnsureData()
		if data.On == nil {
			data.On = make(Listeners)
		}
		data.On[h.Event] = h.Handler
	}
}
