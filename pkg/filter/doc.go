// Package filter keeps the state of a filter form: a store of named filters
// holding serialized values, the field handles inputs bind to, and the
// views derived from the store.
//
// A typical binding:
//
//	s, err := filter.New()
//	q, err := s.Register(filter.RegisterProps{Name: "q", DefaultValue: "hello"})
//	_ = q.OnChange(filter.ChangeEvent{Value: "world"})
//	search, _ := s.SearchString() // "?q=world"
//
// Values are converted by the codec registered for each filter's type (see
// package codec). The store only holds strings; Watch and DeserializedValues
// decode on read.
//
// Every mutating call bumps Revision and notifies Subscribe listeners, so a
// rendering layer can re-render on change. Derived views are memoized per
// revision.
package filter
