package syringe

// Policy decides how a wrapper binding combines with a child's own value.
type Policy uint8

const (
	// Fallback applies the binding only when the child has no value.
	Fallback Policy = iota
	// Merge combines the binding with the child's value.
	Merge
	// Overwrite replaces the child's value unconditionally.
	Overwrite
)

// Key suffixes selecting a policy.
const (
	MergeSuffix     = '&'
	OverwriteSuffix = '!'
)

// String returns the policy name.
func (p Policy) String() string {
	switch p {
	case Fallback:
		return "fallback"
	case Merge:
		return "merge"
	case Overwrite:
		return "overwrite"
	default:
		return "unknown"
	}
}

// Suffix returns the key suffix that selects p. Fallback has none.
func (p Policy) Suffix() string {
	switch p {
	case Merge:
		return string(MergeSuffix)
	case Overwrite:
		return string(OverwriteSuffix)
	default:
		return ""
	}
}

// ParsePolicy splits a raw binding key into its base key and policy.
//
// A key that is empty or consists of a lone suffix character has no base
// to strip to; it is kept verbatim with the Fallback policy.
func ParsePolicy(raw string) (string, Policy) {
	if len(raw) < 2 {
		return raw, Fallback
	}
	switch raw[len(raw)-1] {
	case OverwriteSuffix:
		return raw[:len(raw)-1], Overwrite
	case MergeSuffix:
		return raw[:len(raw)-1], Merge
	default:
		return raw, Fallback
	}
}
