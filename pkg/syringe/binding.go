package syringe

import "sort"

// Binding is one inheritable value together with its policy.
// Bindings are shared by every child of a wrapper and must not be mutated.
type Binding struct {
	Key    string
	Value  any
	Policy Policy
}

// BindingSet maps base keys to bindings.
type BindingSet map[string]Binding

// Parse converts a map of raw keys into a BindingSet. The input map is not
// modified; a nil map yields an empty set.
//
// When two raw keys share a base key the one sorting last wins: "a&"
// beats "a!", and either beats the bare "a".
func Parse[M ~map[string]V, V any](raw M) BindingSet {
	set := make(BindingSet, len(raw))
	if len(raw) == 0 {
		return set
	}

	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		base, policy := ParsePolicy(k)
		set[base] = Binding{Key: base, Value: raw[k], Policy: policy}
	}
	return set
}

// Len returns the number of bindings.
func (s BindingSet) Len() int { return len(s) }

// Keys returns the base keys in sorted order.
func (s BindingSet) Keys() []string {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Clone returns a shallow copy of the set.
func (s BindingSet) Clone() BindingSet {
	out := make(BindingSet, len(s))
	for k, b := range s {
		out[k] = b
	}
	return out
}

// Take removes the binding for key and returns it.
func (s BindingSet) Take(key string) (Binding, bool) {
	b, ok := s[key]
	if ok {
		delete(s, key)
	}
	return b, ok
}
