package vtest_test

import (
	"fmt"
	"testing"

	"github.com/vango-dev/syringe/pkg/syringe"
	"github.com/vango-dev/syringe/pkg/vdom"
	"github.com/vango-dev/syringe/pkg/vtest"
)

const toolbar = `
components:
  x-icon:
    props: [size]
    render:
      tag: i
      attrs: {data-size: "{{size}}"}
wrapper:
  attrs: {"class&": active, "size!": 24}
  on: {"click&": "@track"}
children:
  - tag: button
    class: btn
    on: {click: "@own"}
  - component: x-icon
    attrs: {size: 16}
`

func TestRun(t *testing.T) {
	run := vtest.Run(t, toolbar, "click")

	vtest.ExpectAttribute(t, run.Children[0], "class", "btn active")
	vtest.ExpectContains(t, run.Children[1], `data-size="24"`)
	vtest.ExpectNotContains(t, run.Children[1], "16")
	vtest.ExpectProp(t, run.Children[1], "size", 24)
	vtest.ExpectCalls(t, run, "own", "track", "track")
}

func TestInject(t *testing.T) {
	wrapper := syringe.Wrap(
		vdom.A("size&", 2),
		vdom.H("span", vdom.A("size", 3)),
	)
	children := vtest.Inject(t, wrapper)
	vtest.ExpectAttribute(t, children[0], "size", "5")
}

type recordingTB struct {
	testing.TB
	errors []string
}

func (r *recordingTB) Helper() {}

func (r *recordingTB) Errorf(format string, args ...any) {
	r.errors = append(r.errors, fmt.Sprintf(format, args...))
}

func TestInjectReportsMismatch(t *testing.T) {
	wrapper := syringe.Wrap(
		vdom.A("size&", map[string]any{"w": 1}),
		vdom.H("span", vdom.A("size", 3)),
	)
	rec := &recordingTB{TB: t}
	vtest.Inject(rec, wrapper)
	if len(rec.errors) != 1 || rec.errors[0] != "incompatible merge in attrs" {
		t.Errorf("errors = %v", rec.errors)
	}
}

func TestRenderToString(t *testing.T) {
	if got := vtest.RenderToString(vdom.H("p", vdom.Text("hi"))); got != "<p>hi</p>" {
		t.Errorf("RenderToString() = %q", got)
	}
}
