package permissions

import (
	"slices"
	"strings"
)

// Set is a set of permission strings.
type Set map[string]struct{}

// NewSet builds a set from a list, dropping blank entries and duplicates.
func NewSet(perms ...string) Set {
	s := make(Set, len(perms))
	for _, p := range perms {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		s[p] = struct{}{}
	}
	return s
}

func (s Set) Has(p string) bool {
	_, ok := s[p]
	return ok
}

// Minus returns the members of s not in other, sorted.
func (s Set) Minus(other Set) []string {
	out := make([]string, 0)
	for p := range s {
		if !other.Has(p) {
			out = append(out, p)
		}
	}
	slices.Sort(out)
	return out
}

// Missing returns the entries of required that s doesn't contain, keeping the
// order of required.
func (s Set) Missing(required []string) []string {
	var out []string
	for _, p := range required {
		if !s.Has(p) {
			out = append(out, p)
		}
	}
	return out
}

// Sorted returns the members of s in lexical order.
func (s Set) Sorted() []string {
	out := make([]string, 0, len(s))
	for p := range s {
		out = append(out, p)
	}
	slices.Sort(out)
	return out
}

// Diff computes which permissions have to be removed from current and which
// added to reach requested.
func Diff(current, requested Set) (toRemove, toAdd []string) {
	return current.Minus(requested), requested.Minus(current)
}
