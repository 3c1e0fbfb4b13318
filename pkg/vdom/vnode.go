package vdom

// VKind is the node type discriminator.
type VKind uint8

const (
	KindElement   VKind = iota // <div>, <button>, etc.
	KindText                   // Plain text node
	KindFragment               // Grouping without wrapper
	KindComponent              // Component placeholder
	KindRaw                    // Raw HTML (dangerous)
	KindComment                // <!-- comment -->
)

// String returns the string representation of the VKind.
func (k VKind) String() string {
	switch k {
	case KindElement:
		return "Element"
	case KindText:
		return "Text"
	case KindFragment:
		return "Fragment"
	case KindComponent:
		return "Component"
	case KindRaw:
		return "Raw"
	case KindComment:
		return "Comment"
	default:
		return "Unknown"
	}
}

// VNode is the virtual DOM node.
type VNode struct {
	Kind      VKind             // Node type
	Tag       string            // Element tag name (e.g., "div")
	Data      *VNodeData        // Bindings; nil when the node has none
	Children  []*VNode          // Child nodes
	Text      string            // For KindText, KindRaw and KindComment
	Component *ComponentOptions // For KindComponent
}

// VNodeData is the binding block of an element or component placeholder.
//
// Class and Style each come in two forms. StaticClass and StaticStyle hold
// literal template text; Class and Style hold computed values (strings,
// slices, maps). Both forms may be set on the same node.
type VNodeData struct {
	Key         string      // Reconciliation key; empty means unset
	Attrs       Props       // DOM attributes (or unresolved component attrs)
	On          Listeners   // Event listeners of the element
	NativeOn    Listeners   // Root-element listeners of a component placeholder
	StaticClass string      // Literal class text
	Class       any         // Computed class binding
	StaticStyle string      // Literal style text ("color: red; ...")
	Style       any         // Computed style binding
	Directives  []Directive // Custom directives
}

// Props holds attribute or property values keyed by name.
type Props map[string]any

// Listeners holds event listeners keyed by event name. A value is a
// Handler, any other func, or a slice of those.
type Listeners map[string]any

// Handler is an event listener. Receiver is the node or component instance
// the event was dispatched on.
type Handler func(receiver any, args ...any)

// Directive is a custom directive attached to a node.
type Directive struct {
	Name      string
	Value     any
	Arg       string
	Modifiers map[string]bool
}

// Constructor describes a component type. DeclaredProps lists the property
// names the component accepts; attributes matching them become props.
type Constructor interface {
	DeclaredProps() []string
}

// Component is a Constructor that can render its root node.
type Component interface {
	Constructor
	Render(props Props, listeners Listeners) *VNode
}

// ComponentOptions is the component-specific part of a placeholder node.
type ComponentOptions struct {
	Ctor      Constructor // Component type; nil means no declared props
	PropsData Props       // Resolved property values
	Listeners Listeners   // Component-level (custom) event listeners
	Children  []*VNode    // Slot content
	Instance  any         // Mounted instance, reused across renders
}

// EnsureData returns the node's data block, allocating it when absent.
func (v *VNode) EnsureData() *VNodeData {
	if v.Data == nil {
		v.Data = &VNodeData{}
	}
	return v.Data
}

// IsElement reports whether v is a tagged native element.
func (v *VNode) IsElement() bool {
	return v != nil && v.Kind == KindElement && v.Tag != ""
}

// IsComponent reports whether v is a component placeholder.
func (v *VNode) IsComponent() bool {
	return v != nil && v.Kind == KindComponent && v.Component != nil
}

// Key returns the node's reconciliation key.
func (v *VNode) Key() string {
	if v == nil || v.Data == nil {
		return ""
	}
	return v.Data.Key
}

// Ctor is a function-backed Component.
type Ctor struct {
	Name  string
	Props []string

	// NoInheritAttrs stops non-prop attributes and native listeners from
	// falling through to the rendered root element. Class and style still
	// apply.
	NoInheritAttrs bool

	RenderFunc func(props Props, listeners Listeners) *VNode
}

// DeclaredProps implements Constructor.
func (c *Ctor) DeclaredProps() []string {
	if c == nil {
		return nil
	}
	return c.Props
}

// Render implements Component.
func (c *Ctor) Render(props Props, listeners Listeners) *VNode {
	if c == nil || c.RenderFunc == nil {
		return nil
	}
	return c.RenderFunc(props, listeners)
}

// InheritAttrs reports whether non-prop attributes fall through to the
// rendered root element.
func (c *Ctor) InheritAttrs() bool {
	return c == nil || !c.NoInheritAttrs
}
