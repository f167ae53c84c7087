package filter

// Validate runs the filter's predicate on its typed value. Filters without
// a predicate and unknown names are valid. A value that cannot be decoded
// is invalid.
func (s *Session) Validate(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.index(name)
	if i < 0 {
		return true
	}
	return s.valid(s.filters[i])
}

// Invalid returns the names of the filters that fail Validate, in store
// order.
func (s *Session) Invalid() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	var names []string
	for _, f := range s.filters {
		if !s.valid(f) {
			names = append(names, f.Name)
		}
	}
	return names
}

func (s *Session) valid(f Filter) bool {
	if f.Validate == nil {
		return true
	}
	out, err := s.deserialize(f)
	if err != nil {
		return false
	}
	return f.Validate(out.Value)
}
