// Package childmap implements the unordered, by-name child
// collection a directory node holds. It is generic so tree.node never
// needs to expose a raw map, and deliberately simple: insert, lookup,
// remove, iterate, and size are the whole contract, matching the
// "external collaborator" role this container plays in the tree's
// locking design.
package childmap

import "sort"

// Map is a mapping from a path component name to a child value of
// type T. The zero value is not usable; use New.
type Map[T any] struct {
	entries map[string]T
}

// New returns an empty Map.
func New[T any]() *Map[T] {
	return &Map[T]{entries: make(map[string]T)}
}

// Insert adds or replaces the child stored under name.
func (m *Map[T]) Insert(name string, child T) {
	m.entries[name] = child
}

// Get looks up the child stored under name.
func (m *Map[T]) Get(name string) (child T, ok bool) {
	child, ok = m.entries[name]
	return child, ok
}

// Remove deletes the child stored under name, if any.
func (m *Map[T]) Remove(name string) {
	delete(m.entries, name)
}

// Len returns the number of children.
func (m *Map[T]) Len() int {
	return len(m.entries)
}

// Names returns the child names in sorted order. The tree's own
// contract treats listing order as unspecified; sorting here just
// makes List's output and test failures deterministic.
func (m *Map[T]) Names() []string {
	names := make([]string, 0, len(m.entries))
	for name := range m.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Format renders a sorted slice of child names as the newline-joined
// listing string tree.List returns.
func Format(names []string) string {
	out := ""
	for i, name := range names {
		if i > 0 {
			out += "\n"
		}
		out += name
	}
	return out
}
