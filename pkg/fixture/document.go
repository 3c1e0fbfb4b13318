package fixture

import (
	"bytes"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/vango-dev/syringe/internal/errors"
)

// Document is a fixture: a wrapper, its children and the components they
// use. JSON documents are accepted as well, being valid YAML.
//
//	components:
//	  x-button:
//	    props: [label]
//	    render:
//	      tag: button
//	      class: btn
//	      children:
//	        - text: "{{label}}"
//	wrapper:
//	  attrs: {"class&": primary, "label!": Save}
//	  on: {"click&": "@track"}
//	children:
//	  - component: x-button
//	    attrs: {label: Go}
//	  - tag: div
//	    on: {click: "@own"}
type Document struct {
	Name       string                  `yaml:"name,omitempty"`
	Components map[string]ComponentDef `yaml:"components,omitempty"`
	Wrapper    NodeData                `yaml:"wrapper,omitempty"`
	Children   []NodeDoc               `yaml:"children,omitempty"`

	// Source is the location the document was read from.
	Source string `yaml:"-"`
}

// ComponentDef declares a component usable by "component:" nodes.
type ComponentDef struct {
	Props []string `yaml:"props,omitempty"`

	// InheritAttrs controls attribute fallthrough onto the rendered root.
	// Unset means true.
	InheritAttrs *bool `yaml:"inheritAttrs,omitempty"`

	// Render is the root node template. String values may reference
	// props as {{name}}; listener values may reference the component's
	// own listeners as $event.
	Render *NodeDoc `yaml:"render,omitempty"`
}

// NodeData is the binding block shared by the wrapper and every node.
// Listener values are handler references ("@name").
type NodeData struct {
	Key        string            `yaml:"key,omitempty"`
	Attrs      map[string]any    `yaml:"attrs,omitempty"`
	On         map[string]string `yaml:"on,omitempty"`
	NativeOn   map[string]string `yaml:"nativeOn,omitempty"`
	Class      any               `yaml:"class,omitempty"`
	Style      any               `yaml:"style,omitempty"`
	Directives []DirectiveDoc    `yaml:"directives,omitempty"`
}

// DirectiveDoc is a directive entry. Name may carry a policy suffix.
type DirectiveDoc struct {
	Name      string          `yaml:"name"`
	Value     any             `yaml:"value,omitempty"`
	Arg       string          `yaml:"arg,omitempty"`
	Modifiers map[string]bool `yaml:"modifiers,omitempty"`
}

// NodeDoc is one node. Exactly one of Tag, Component, Text, Comment and
// Raw must be set.
type NodeDoc struct {
	NodeData `yaml:",inline"`

	Tag       string         `yaml:"tag,omitempty"`
	Component string         `yaml:"component,omitempty"`
	Text      *string        `yaml:"text,omitempty"`
	Comment   *string        `yaml:"comment,omitempty"`
	Raw       *string        `yaml:"raw,omitempty"`
	Props     map[string]any `yaml:"props,omitempty"`
	Children  []NodeDoc      `yaml:"children,omitempty"`

	// Line and Column locate the node in its source document.
	Line   int `yaml:"-"`
	Column int `yaml:"-"`
}

// UnmarshalYAML records the node position while decoding. A bare string
// decodes as a text node.
func (n *NodeDoc) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode && value.Tag == "!!str" {
		text := value.Value
		*n = NodeDoc{Text: &text}
	} else {
		type plain NodeDoc
		if err := value.Decode((*plain)(n)); err != nil {
			return err
		}
	}
	n.Line, n.Column = value.Line, value.Column
	return nil
}

// Parse decodes a document. Unknown fields are rejected. source names the
// document in errors.
func Parse(data []byte, source string) (*Document, error) {
	var doc Document
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		if err == io.EOF {
			return nil, errors.New("E201").WithDetailf("%s is empty", source)
		}
		return nil, errors.New("E201").WithDetailf("%s could not be decoded", source).Wrap(err)
	}
	doc.Source = source
	return &doc, nil
}
