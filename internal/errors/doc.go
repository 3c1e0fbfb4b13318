// Package errors provides structured, coded errors for the syringe tools.
//
// Every error code maps to a category, a short message, a detail line and
// optionally a fix hint. Fixture errors carry the document position they
// were raised at:
//
//	err := errors.New("E202").
//	    WithLocation("fixtures/card.yaml", 14, 7).
//	    WithDetailf("component %q is not defined", "x-card")
//
//	fmt.Print(err.Format())
//
// Codes are grouped by category: E120-E149 configuration, E200-E219
// fixtures, E300-E319 playground.
package errors
