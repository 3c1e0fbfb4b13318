// Package render renders VNode trees to HTML.
//
// Attributes, the class list and the style map are written in name order
// so output is deterministic. Class lists are flattened: strings are kept,
// conditional maps contribute their truthy keys. Style maps are written
// with hyphenated property names. Elements with bound listeners receive a
// data-on-<event> marker per event.
//
// # Components
//
// A component placeholder is rendered through its constructor. Attributes
// matching declared props become props; the remaining attributes, the
// native listeners, the class and the style fall through to the rendered
// root element. A constructor reporting InheritAttrs() == false keeps
// attributes and native listeners from falling through; class and style
// still apply.
//
// # Wrappers
//
// With RendererConfig.Syringe set, a fragment carrying a data block is
// treated as a binding wrapper and injected before its children render:
//
//	r := render.NewRenderer(render.RendererConfig{Syringe: syringe.New(syringe.Options{})})
//	html, err := r.RenderToString(syringe.Wrap(vdom.A("class&", "wide"), vdom.H("div")))
//
// Text content and attribute values are escaped. KindRaw nodes are written
// verbatim and must only carry trusted content.
package render
