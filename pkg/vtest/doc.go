// Package vtest provides testing helpers for code that injects wrapper
// bindings.
//
// # Quick Start
//
//	func TestToolbar(t *testing.T) {
//	    run := vtest.Run(t, `
//	wrapper:
//	  attrs: {"class&": active}
//	  on: {"click&": "@track"}
//	children:
//	  - tag: button
//	    on: {click: "@own"}
//	`, "click")
//	    vtest.ExpectAttribute(t, run.Children[0], "class", "active")
//	    vtest.ExpectCalls(t, run, "own", "track")
//	}
//
// # Render Assertions
//
// Assert on rendered HTML output:
//
//	vtest.ExpectContains(t, node, "Welcome")
//	vtest.ExpectNotContains(t, node, "Login")
//
// # Merge Assertions
//
// Inject builds a Syringe that fails the test on any incompatible merge:
//
//	children := vtest.Inject(t, syringe.Wrap(vdom.A("size&", 2), child))
package vtest
