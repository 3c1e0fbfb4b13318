package vdom

import "testing"

func TestVKindString(t *testing.T) {
	tests := []struct {
		kind VKind
		want string
	}{
		{KindElement, "Element"},
		{KindText, "Text"},
		{KindFragment, "Fragment"},
		{KindComponent, "Component"},
		{KindRaw, "Raw"},
		{KindComment, "Comment"},
		{VKind(255), "Unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.kind.String(); got != tt.want {
				t.Errorf("VKind.String() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestVNodeClassification(t *testing.T) {
	ctor := &Ctor{Name: "x-button"}
	tests := []struct {
		name        string
		node        *VNode
		isElement   bool
		isComponent bool
	}{
		{"nil node", nil, false, false},
		{"text node", Text("hello"), false, false},
		{"comment node", Comment("c"), false, false},
		{"element", H("div"), true, false},
		{"untagged element", &VNode{Kind: KindElement}, false, false},
		{"component", Comp(ctor), false, true},
		{"component without options", &VNode{Kind: KindComponent}, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.node.IsElement(); got != tt.isElement {
				t.Errorf("IsElement() = %v, want %v", got, tt.isElement)
			}
			if got := tt.node.IsComponent(); got != tt.isComponent {
				t.Errorf("IsComponent() = %v, want %v", got, tt.isComponent)
			}
		})
	}
}

func TestEnsureData(t *testing.T) {
	node := &VNode{Kind: KindElement, Tag: "div"}
	data := node.EnsureData()
	if data == nil {
		t.Fatal("EnsureData() returned nil")
	}
	if node.EnsureData() != data {
		t.Error("EnsureData() should return the existing block")
	}
}

func TestCtor(t *testing.T) {
	var nilCtor *Ctor
	if nilCtor.DeclaredProps() != nil {
		t.Error("nil Ctor should declare no props")
	}
	if nilCtor.Render(nil, nil) != nil {
		t.Error("nil Ctor should render nothing")
	}

	ctor := &Ctor{
		Name:  "x-label",
		Props: []string{"text"},
		RenderFunc: func(props Props, _ Listeners) *VNode {
			return H("span", Textf("%v", props["text"]))
		},
	}
	root := ctor.Render(Props{"text": "hi"}, nil)
	if root.Tag != "span" || root.Children[0].Text != "hi" {
		t.Errorf("Render() = %+v", root)
	}
}
