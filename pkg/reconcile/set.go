package reconcile

import "sort"

// VersionSet is a set of version strings. Membership is exact string equality.
type VersionSet map[string]struct{}

// NewVersionSet builds a set from the given values; duplicates collapse.
func NewVersionSet(values ...string) VersionSet {
	s := make(VersionSet, len(values))
	for _, v := range values {
		s[v] = struct{}{}
	}
	return s
}

func (s VersionSet) Add(v string) { s[v] = struct{}{} }

func (s VersionSet) Has(v string) bool {
	_, ok := s[v]
	return ok
}

func (s VersionSet) Len() int { return len(s) }

// Union returns a new set holding the members of both sets.
func (s VersionSet) Union(other VersionSet) VersionSet {
	out := make(VersionSet, len(s)+len(other))
	for v := range s {
		out[v] = struct{}{}
	}
	for v := range other {
		out[v] = struct{}{}
	}
	return out
}

// Difference returns the members of s that are not in other.
func (s VersionSet) Difference(other VersionSet) VersionSet {
	out := make(VersionSet)
	for v := range s {
		if !other.Has(v) {
			out[v] = struct{}{}
		}
	}
	return out
}

// Slice returns the members in lexical order. Use SortForDisplay for version order.
func (s VersionSet) Slice() []string {
	out := make([]string, 0, len(s))
	for v := range s {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
