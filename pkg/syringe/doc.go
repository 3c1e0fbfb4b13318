// Package syringe redistributes a wrapper node's bindings onto its
// children.
//
// A wrapper carries attributes, listeners, native listeners, class, style,
// a key and directives. Every binding key may end in a policy suffix:
//
//	"title!"  Overwrite: the wrapper's value replaces the child's
//	"title&"  Merge: the values are combined
//	"title"   Fallback: applied only when the child has no value
//
// Merge combines by the runtime shape of the child's value: sequences are
// concatenated (or appended to), maps are unioned with the wrapper's
// entries winning, funcs are chained child-first, strings are concatenated
// and numbers added. Class lists always merge as lists. An incompatible
// merge replaces the child's value and is reported, never panics.
//
// # Usage
//
//	wrapper := syringe.Wrap(
//	    vdom.A("size&", "-lg"),
//	    vdom.A("class&", "primary"),
//	    vdom.On("click&", track),
//	    vdom.H("button", vdom.A("size", "btn")),
//	    vdom.Comp(iconButton),
//	)
//	children := syringe.New(syringe.Options{}).Inject(wrapper)
//
// Component children resolve attributes against their declared props
// first: matches become props, the rest stay attributes. Component
// listeners receive the wrapper's listeners; the component's root element
// receives the wrapper's native listeners.
//
// # Diagnostics
//
// Type-incompatible merges are logged at debug level. Children that end
// up sharing a key assigned by the wrapper are logged as a warning and
// reported to the Observer; keys are never deduplicated.
package syringe
