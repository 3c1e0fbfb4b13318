package syringe

import (
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/vango-dev/syringe/pkg/vdom"
)

// NormalizeClass combines the static and computed class forms into one
// flat list, static first. Nested slices are flattened to any depth;
// conditional-class maps are kept as single elements. It returns nil when
// neither form is present.
func NormalizeClass(static string, dynamic any) []any {
	if static == "" && dynamic == nil {
		return nil
	}
	out := make([]any, 0, 4)
	if static != "" {
		out = append(out, static)
	}
	return flattenClass(out, dynamic)
}

func flattenClass(out []any, v any) []any {
	switch c := v.(type) {
	case nil:
		return out
	case []any:
		for _, item := range c {
			out = flattenClass(out, item)
		}
		return out
	case []string:
		for _, item := range c {
			out = append(out, item)
		}
		return out
	}

	rv := reflect.ValueOf(v)
	if isSequence(rv) {
		for i := 0; i < rv.Len(); i++ {
			out = flattenClass(out, rv.Index(i).Interface())
		}
		return out
	}
	return append(out, v)
}

// ParseStyleText parses inline style text into a property map.
// Declarations are separated by semicolons outside parentheses; each is
// split at its first colon. Empty and malformed declarations are skipped.
// Property names are camelized.
func ParseStyleText(text string) map[string]string {
	out := make(map[string]string)
	for _, decl := range splitDeclarations(text) {
		idx := strings.IndexByte(decl, ':')
		if idx < 0 {
			continue
		}
		prop := strings.TrimSpace(decl[:idx])
		value := strings.TrimSpace(decl[idx+1:])
		if prop == "" || value == "" {
			continue
		}
		out[cssPropertyKey(prop)] = value
	}
	return out
}

// splitDeclarations splits on ';' unless inside parentheses, so that
// values like url(data:image/png;base64,...) stay whole.
func splitDeclarations(text string) []string {
	var parts []string
	depth, start := 0, 0
	for i := 0; i < len(text); i++ {
		switch text[i] {
		case '(':
			depth++
		case ')':
			if depth > 0 {
				depth--
			}
		case ';':
			if depth == 0 {
				parts = append(parts, text[start:i])
				start = i + 1
			}
		}
	}
	return append(parts, text[start:])
}

// NormalizeStyle combines the static and computed style forms into one
// property map. Computed entries override static ones. It returns nil when
// neither form is present.
func NormalizeStyle(static string, dynamic any) map[string]string {
	if static == "" && dynamic == nil {
		return nil
	}
	out := make(map[string]string)
	if static != "" {
		layerStyle(out, static)
	}
	layerStyle(out, dynamic)
	return out
}

func layerStyle(out map[string]string, v any) {
	switch s := v.(type) {
	case nil:
		return
	case string:
		for k, val := range ParseStyleText(s) {
			out[k] = val
		}
		return
	case map[string]string:
		for k, val := range s {
			out[cssPropertyKey(k)] = val
		}
		return
	case map[string]any:
		for k, val := range s {
			if val == nil {
				continue
			}
			out[cssPropertyKey(k)] = fmt.Sprint(val)
		}
		return
	case []any:
		for _, item := range s {
			layerStyle(out, item)
		}
		return
	}

	rv := reflect.ValueOf(v)
	switch {
	case isSequence(rv):
		for i := 0; i < rv.Len(); i++ {
			layerStyle(out, rv.Index(i).Interface())
		}
	case rv.Kind() == reflect.Map && rv.Type().Key().Kind() == reflect.String:
		iter := rv.MapRange()
		for iter.Next() {
			val := iter.Value()
			if !val.IsValid() || isNilValue(val) {
				continue
			}
			out[cssPropertyKey(iter.Key().String())] = fmt.Sprint(val.Interface())
		}
	}
}

// NormalizeData normalizes a node's class and style pairs in place. The
// static forms are folded into Class and Style and cleared.
func NormalizeData(d *vdom.VNodeData) {
	if d == nil {
		return
	}
	if class := NormalizeClass(d.StaticClass, d.Class); class != nil {
		d.Class = class
	} else {
		d.Class = nil
	}
	d.StaticClass = ""

	if style := NormalizeStyle(d.StaticStyle, d.Style); style != nil {
		d.Style = style
	} else {
		d.Style = nil
	}
	d.StaticStyle = ""
}

// StyleText renders a style map as inline style text with hyphenated
// property names in sorted order: "color: red; font-size: 2px;".
func StyleText(style map[string]string) string {
	if len(style) == 0 {
		return ""
	}
	props := make([]string, 0, len(style))
	for k := range style {
		props = append(props, k)
	}
	sort.Strings(props)

	var b strings.Builder
	for _, k := range props {
		if style[k] == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(cssPropertyName(k))
		b.WriteString(": ")
		b.WriteString(style[k])
		b.WriteByte(';')
	}
	return b.String()
}

// ClassText renders a normalized class list as a space-separated string.
// Strings contribute their text, maps their keys with truthy values (in
// sorted order), slices recurse; other values are dropped.
func ClassText(class any) string {
	var tokens []string
	collectClassTokens(&tokens, class)
	return strings.Join(tokens, " ")
}

func collectClassTokens(tokens *[]string, v any) {
	switch c := v.(type) {
	case nil:
		return
	case string:
		if c = strings.TrimSpace(c); c != "" {
			*tokens = append(*tokens, c)
		}
		return
	case map[string]bool:
		for _, k := range sortedKeys(c) {
			if c[k] {
				*tokens = append(*tokens, k)
			}
		}
		return
	case map[string]any:
		for _, k := range sortedKeys(c) {
			if truthy(c[k]) {
				*tokens = append(*tokens, k)
			}
		}
		return
	}
	rv := reflect.ValueOf(v)
	if isSequence(rv) {
		for i := 0; i < rv.Len(); i++ {
			collectClassTokens(tokens, rv.Index(i).Interface())
		}
	}
}

// cssPropertyName converts an internal property key back to CSS form.
// Vendor-prefixed keys ("WebkitTransition") regain their leading dash.
func cssPropertyName(key string) string {
	if strings.HasPrefix(key, "--") {
		return key
	}
	name := Hyphenate(key)
	if key != "" && key[0] >= 'A' && key[0] <= 'Z' {
		name = "-" + name
	}
	return name
}

func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		return t != ""
	case int:
		return t != 0
	case int64:
		return t != 0
	case float64:
		return t != 0
	default:
		return true
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
