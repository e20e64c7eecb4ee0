package contenttype

import "github.com/mesh-intelligence/ctregistry/internal/field"

// Set is an insertion-ordered collection of fields keyed by machine name.
// Adding a field whose name is already present replaces it in place.
type Set struct {
	order  []string
	byName map[string]*field.Field
}

// NewSet returns an empty Set.
func NewSet() *Set {
	return &Set{byName: make(map[string]*field.Field)}
}

// Put adds f, or replaces the field of the same name keeping its position.
func (s *Set) Put(f *field.Field) {
	name := f.MachineName()
	if _, ok := s.byName[name]; !ok {
		s.order = append(s.order, name)
	}
	s.byName[name] = f
}

// Get returns the field named name.
func (s *Set) Get(name string) (*field.Field, bool) {
	f, ok := s.byName[name]
	return f, ok
}

// Names returns machine names in order.
func (s *Set) Names() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// All returns the fields in order.
func (s *Set) All() []*field.Field {
	out := make([]*field.Field, len(s.order))
	for i, name := range s.order {
		out[i] = s.byName[name]
	}
	return out
}

// Len returns the number of fields.
func (s *Set) Len() int { return len(s.order) }
