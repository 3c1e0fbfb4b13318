package render

import "strings"

// Fixtures may name any HTML element or attribute, so both tables follow
// the HTML living standard rather than a curated subset.

// Phrasing elements stay on one line in pretty-printed output.
var inlineElements = newSet(`
	a abbr b bdi bdo br cite code data dfn em i kbd mark q rb rp rt rtc ruby
	s samp small span strong sub sup time u var wbr
`)

// Boolean attributes render as the bare attribute name when true and are
// dropped when false.
var booleanAttrs = newSet(`
	allowfullscreen async autofocus autoplay checked controls default defer
	disabled formnovalidate hidden inert ismap itemscope loop multiple muted
	nomodule novalidate open playsinline readonly required reversed selected
`)

func newSet(names string) map[string]struct{} {
	fields := strings.Fields(names)
	set := make(map[string]struct{}, len(fields))
	for _, name := range fields {
		set[name] = struct{}{}
	}
	return set
}

func isInlineElement(tag string) bool {
	_, ok := inlineElements[tag]
	return ok
}

func isBooleanAttr(name string) bool {
	_, ok := booleanAttrs[name]
	return ok
}
