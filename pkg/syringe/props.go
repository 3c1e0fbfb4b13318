package syringe

import "github.com/vango-dev/syringe/pkg/vdom"

// ResolveProps extracts the attributes that match a component's declared
// properties.
//
// For each declared name the attribute keys are tried in order: the name
// itself, its hyphenated form, then its camelized form. The first match is
// moved into props under the declared name; at most one attribute is
// consumed per property. rest holds the remaining attributes. attrs itself
// is never modified.
func ResolveProps(declared []string, attrs BindingSet) (props, rest BindingSet) {
	props = make(BindingSet)
	if len(declared) == 0 || len(attrs) == 0 {
		return props, attrs
	}

	rest = attrs.Clone()
	for _, name := range declared {
		if name == "" {
			continue
		}
		for _, candidate := range propCandidates(name) {
			b, ok := rest.Take(candidate)
			if !ok {
				continue
			}
			b.Key = name
			props[name] = b
			break
		}
	}
	return props, rest
}

// propCandidates lists the attribute keys that may carry a property.
func propCandidates(name string) []string {
	candidates := []string{name}
	if h := Hyphenate(name); h != name {
		candidates = append(candidates, h)
	}
	if c := Camelize(name); c != name {
		candidates = append(candidates, c)
	}
	return candidates
}

// ExtractProps splits a component's own attributes into declared props and
// the remaining attributes, using the same lookup order as ResolveProps.
// It returns fresh maps; attrs is not modified. When nothing matches,
// props is nil and rest is attrs itself.
func ExtractProps(declared []string, attrs vdom.Props) (props, rest vdom.Props) {
	if len(declared) == 0 || len(attrs) == 0 {
		return nil, attrs
	}
	for _, name := range declared {
		if name == "" {
			continue
		}
		for _, candidate := range propCandidates(name) {
			if rest == nil {
				if _, ok := attrs[candidate]; !ok {
					continue
				}
				rest = make(vdom.Props, len(attrs))
				for k, v := range attrs {
					rest[k] = v
				}
				props = make(vdom.Props)
			}
			v, ok := rest[candidate]
			if !ok {
				continue
			}
			delete(rest, candidate)
			props[name] = v
			break
		}
	}
	if rest == nil {
		return nil, attrs
	}
	return props, rest
}
