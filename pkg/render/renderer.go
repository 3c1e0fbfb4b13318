package render

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"

	"github.com/vango-dev/syringe/pkg/syringe"
	"github.com/vango-dev/syringe/pkg/vdom"
)

// RendererConfig configures the HTML renderer.
type RendererConfig struct {
	// Pretty enables indented output. Intended for inspection only.
	Pretty bool

	// Indent is the string used for each indentation level in pretty mode.
	// Defaults to two spaces if not specified.
	Indent string

	// Syringe, when set, injects the bindings of every fragment that
	// carries a data block into its children before they are rendered.
	// Injection modifies the children in place.
	Syringe *syringe.Syringe

	// Logger receives render diagnostics.
	// If nil, slog.Default() is used.
	Logger *slog.Logger
}

// Renderer renders VNode trees to HTML.
type Renderer struct {
	config RendererConfig
	engine *syringe.Engine
	logger *slog.Logger
}

// NewRenderer creates a new Renderer with the given configuration.
func NewRenderer(config RendererConfig) *Renderer {
	if config.Indent == "" {
		config.Indent = "  "
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Renderer{
		config: config,
		engine: syringe.NewEngine(logger),
		logger: logger,
	}
}

// RenderToString renders a VNode tree to an HTML string.
func (r *Renderer) RenderToString(node *vdom.VNode) (string, error) {
	var buf bytes.Buffer
	if err := r.RenderToWriter(&buf, node); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// RenderToWriter streams a VNode tree to the given writer.
func (r *Renderer) RenderToWriter(w io.Writer, node *vdom.VNode) error {
	return r.renderNode(w, node, 0)
}

// RenderString renders node with a default renderer.
func RenderString(node *vdom.VNode) (string, error) {
	return NewRenderer(RendererConfig{}).RenderToString(node)
}

func (r *Renderer) renderNode(w io.Writer, node *vdom.VNode, depth int) error {
	if node == nil {
		return nil
	}

	switch node.Kind {
	case vdom.KindElement:
		return r.renderElement(w, node, depth)
	case vdom.KindText:
		_, err := io.WriteString(w, escapeHTML(node.Text))
		return err
	case vdom.KindFragment:
		return r.renderFragment(w, node, depth)
	case vdom.KindComponent:
		return r.renderComponent(w, node, depth)
	case vdom.KindRaw:
		_, err := io.WriteString(w, node.Text)
		return err
	case vdom.KindComment:
		_, err := fmt.Fprintf(w, "<!--%s-->", escapeComment(node.Text))
		return err
	default:
		return fmt.Errorf("render: unknown node kind %d", node.Kind)
	}
}

func (r *Renderer) renderElement(w io.Writer, node *vdom.VNode, depth int) error {
	tag := node.Tag
	if tag == "" {
		return fmt.Errorf("render: element without tag")
	}

	if r.config.Pretty && depth > 0 {
		r.writeIndent(w, depth)
	}

	if _, err := fmt.Fprintf(w, "<%s", tag); err != nil {
		return err
	}
	if err := r.renderAttributes(w, node.Data); err != nil {
		return err
	}

	if vdom.IsVoidElement(tag) {
		if _, err := io.WriteString(w, ">"); err != nil {
			return err
		}
		r.newline(w)
		return nil
	}

	if _, err := io.WriteString(w, ">"); err != nil {
		return err
	}

	blockChildren := len(node.Children) > 0 && !isInlineElement(tag)
	if r.config.Pretty && blockChildren {
		r.newline(w)
	}
	for _, child := range node.Children {
		if err := r.renderNode(w, child, depth+1); err != nil {
			return err
		}
	}
	if r.config.Pretty && blockChildren {
		r.writeIndent(w, depth)
	}

	if _, err := fmt.Fprintf(w, "</%s>", tag); err != nil {
		return err
	}
	r.newline(w)
	return nil
}

// renderFragment renders a fragment's children without a wrapper element.
// A fragment with a data block is a binding wrapper.
func (r *Renderer) renderFragment(w io.Writer, node *vdom.VNode, depth int) error {
	children := node.Children
	if node.Data != nil && r.config.Syringe != nil {
		children = r.config.Syringe.Inject(node)
	}
	for _, child := range children {
		if err := r.renderNode(w, child, depth); err != nil {
			return err
		}
	}
	return nil
}

// renderComponent renders a component placeholder through its constructor.
// Placeholders whose constructor cannot render produce no output.
func (r *Renderer) renderComponent(w io.Writer, node *vdom.VNode, depth int) error {
	comp := node.Component
	if comp == nil {
		return nil
	}
	ctor, ok := comp.Ctor.(vdom.Component)
	if !ok {
		r.logger.Debug("render: component cannot render", "tag", node.Tag)
		return nil
	}

	props, attrs := syringe.ExtractProps(ctor.DeclaredProps(), attrsOf(node.Data))
	props = mergeProps(comp.PropsData, props)

	root := ctor.Render(props, comp.Listeners)
	if root == nil {
		return nil
	}
	return r.renderNode(w, r.applyFallthrough(node, attrs, root), depth)
}

// applyFallthrough applies the placeholder's remaining bindings to a copy of
// the rendered root. Non-prop attributes override the root's; class and
// style merge; native listeners chain after the root's own listeners.
func (r *Renderer) applyFallthrough(placeholder *vdom.VNode, attrs vdom.Props, root *vdom.VNode) *vdom.VNode {
	src := placeholder.Data
	if src == nil || (root.Kind != vdom.KindElement && root.Kind != vdom.KindComponent) {
		return root
	}

	out := *root
	data := vdom.VNodeData{}
	if root.Data != nil {
		data = *root.Data
	}
	out.Data = &data
	syringe.NormalizeData(&data)

	inherit := true
	if i, ok := placeholder.Component.Ctor.(interface{ InheritAttrs() bool }); ok {
		inherit = i.InheritAttrs()
	}

	if inherit {
		data.Attrs = r.applyAll(data.Attrs, attrs, syringe.Overwrite)
		if root.Kind == vdom.KindComponent {
			data.NativeOn = vdom.Listeners(r.applyAll(vdom.Props(data.NativeOn), vdom.Props(src.NativeOn), syringe.Merge))
		} else {
			data.On = vdom.Listeners(r.applyAll(vdom.Props(data.On), vdom.Props(src.NativeOn), syringe.Merge))
		}
	}

	if class := syringe.NormalizeClass(src.StaticClass, src.Class); class != nil {
		data.Class, _ = r.engine.Resolve("class", data.Class, data.Class != nil,
			syringe.Binding{Key: "class", Value: class, Policy: syringe.Merge})
	}
	if style := syringe.NormalizeStyle(src.StaticStyle, src.Style); style != nil {
		data.Style, _ = r.engine.Resolve("style", data.Style, data.Style != nil,
			syringe.Binding{Key: "style", Value: style, Policy: syringe.Merge})
	}
	return &out
}

func (r *Renderer) applyAll(target, values vdom.Props, policy syringe.Policy) vdom.Props {
	if len(values) == 0 {
		return target
	}
	out := make(vdom.Props, len(target)+len(values))
	for k, v := range target {
		out[k] = v
	}
	for _, k := range sortedKeys(values) {
		r.engine.Apply(out, k, syringe.Binding{Key: k, Value: values[k], Policy: policy})
	}
	return out
}

type attribute struct {
	name    string
	value   string
	boolean bool
}

// renderAttributes renders attributes, class and style in name order,
// followed by data-on-* markers for bound listeners.
func (r *Renderer) renderAttributes(w io.Writer, data *vdom.VNodeData) error {
	if data == nil {
		return nil
	}

	attrs := make([]attribute, 0, len(data.Attrs)+2)
	for name, value := range data.Attrs {
		if a, ok := toAttribute(name, value); ok {
			attrs = append(attrs, a)
		}
	}
	if class := syringe.ClassText(syringe.NormalizeClass(data.StaticClass, data.Class)); class != "" {
		attrs = append(attrs, attribute{name: "class", value: class})
	}
	if style := syringe.StyleText(syringe.NormalizeStyle(data.StaticStyle, data.Style)); style != "" {
		attrs = append(attrs, attribute{name: "style", value: style})
	}
	sort.Slice(attrs, func(i, j int) bool { return attrs[i].name < attrs[j].name })

	for _, a := range attrs {
		var err error
		if a.boolean {
			_, err = fmt.Fprintf(w, " %s", a.name)
		} else {
			_, err = fmt.Fprintf(w, ` %s="%s"`, a.name, escapeAttr(a.value))
		}
		if err != nil {
			return err
		}
	}

	for _, event := range sortedKeys(data.On) {
		if syringe.ShapeOf(data.On[event]) == syringe.ShapeAbsent {
			continue
		}
		if _, err := fmt.Fprintf(w, ` data-on-%s="true"`, strings.ToLower(event)); err != nil {
			return err
		}
	}
	return nil
}

// toAttribute converts one attribute binding. Nil values, false boolean
// attributes, funcs and names that are not valid attribute names are
// dropped.
func toAttribute(name string, value any) (attribute, bool) {
	if value == nil || !validAttrName(name) {
		return attribute{}, false
	}
	switch name {
	case "class", "style", "key":
		return attribute{}, false
	}
	if syringe.ShapeOf(value) == syringe.ShapeInvokable {
		return attribute{}, false
	}
	if b, ok := value.(bool); ok {
		if isBooleanAttr(name) {
			return attribute{name: name, boolean: true}, b
		}
		if !b {
			return attribute{}, false
		}
	}
	return attribute{name: name, value: attrToString(value)}, true
}

// attrToString converts an attribute value to a string. Sequences are
// joined with spaces.
func attrToString(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case []string:
		return strings.Join(v, " ")
	case []any:
		parts := make([]string, 0, len(v))
		for _, item := range v {
			if item != nil {
				parts = append(parts, attrToString(item))
			}
		}
		return strings.Join(parts, " ")
	default:
		return fmt.Sprint(v)
	}
}

func validAttrName(name string) bool {
	if name == "" {
		return false
	}
	for _, c := range name {
		switch c {
		case ' ', '"', '\'', '>', '/', '=', '<', '\t', '\n', '\r', '!', '&':
			return false
		}
	}
	return true
}

func attrsOf(data *vdom.VNodeData) vdom.Props {
	if data == nil {
		return nil
	}
	return data.Attrs
}

// mergeProps returns explicit props with extracted ones filling the gaps.
func mergeProps(explicit, extracted vdom.Props) vdom.Props {
	if len(extracted) == 0 {
		return explicit
	}
	out := make(vdom.Props, len(explicit)+len(extracted))
	for k, v := range extracted {
		out[k] = v
	}
	for k, v := range explicit {
		out[k] = v
	}
	return out
}

func sortedKeys[M ~map[string]V, V any](m M) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (r *Renderer) newline(w io.Writer) {
	if r.config.Pretty {
		io.WriteString(w, "\n")
	}
}

func (r *Renderer) writeIndent(w io.Writer, depth int) {
	io.WriteString(w, strings.Repeat(r.config.Indent, depth))
}
