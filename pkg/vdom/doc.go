// Package vdom provides the virtual DOM node model.
//
// VNode is the building block for elements, text, fragments, comments,
// raw HTML and component placeholders. Element and component nodes carry a
// VNodeData block with the slots the host consumes when mounting: Attrs,
// On, NativeOn, the static/computed Class and Style pairs, Key and
// Directives. Component placeholders additionally carry ComponentOptions:
// the Constructor (which declares property names), PropsData, component
// Listeners and the mounted Instance.
//
// # Element API
//
// Nodes are created with variadic factories:
//
//	H("div", Class("card"), ID("main"),
//	    OnClick(handler),
//	    H("h1", "Title"),
//	)
//
//	Comp(button, A("label", "Save"), NativeOn("focus", onFocus))
//
// # Listeners
//
// Listener values are Handler, func(), or slices of those. Emit and
// Invoke call them with a receiver and arguments.
package vdom
