package filter

import (
	"reflect"
	"strings"

	"github.com/vango-dev/filterkit/pkg/qs"
)

// views is the memoized projection of the store, valid for one revision.
type views struct {
	valid        bool
	revision     uint64
	deserialized []Output[any]
	serialized   []Output[string]
	search       string
	err          error
}

// Watch returns the typed value of one filter. Unknown names and values
// that fail to decode yield {Key: name} with a nil Value.
func (s *Session) Watch(name string) Output[any] {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.index(name)
	if i < 0 {
		return Output[any]{Key: name}
	}
	out, err := s.deserialize(s.filters[i])
	if err != nil {
		s.logger.Warn("watch could not decode filter", "name", name, "error", err)
		return Output[any]{Key: name}
	}
	return out
}

// DeserializedValues returns the typed value of every set filter, in store
// order.
func (s *Session) DeserializedValues() ([]Output[any], error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	v := s.project()
	if v.err != nil {
		return nil, v.err
	}
	out := make([]Output[any], len(v.deserialized))
	copy(out, v.deserialized)
	return out, nil
}

// SerializedValues returns the stored value of every set filter, in store
// order.
func (s *Session) SerializedValues() []Output[string] {
	s.mu.Lock()
	defer s.mu.Unlock()

	v := s.project()
	out := make([]Output[string], len(v.serialized))
	copy(out, v.serialized)
	return out
}

// SearchString renders every set filter as a query string: "?a=1&b=x", or
// "" when nothing is set. Scalars are written as key=value verbatim,
// composite values (lists, records, dates) use bracket notation.
func (s *Session) SearchString() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	v := s.project()
	return v.search, v.err
}

// project must be called with s.mu held.
func (s *Session) project() *views {
	if s.views.valid && s.views.revision == s.revision {
		return &s.views
	}

	v := views{valid: true, revision: s.revision}
	var fragments []string

	for _, f := range s.filters {
		if f.Value == nil {
			continue
		}
		v.serialized = append(v.serialized, Output[string]{Key: f.Name, Value: *f.Value, Label: f.Label()})

		if v.err != nil {
			continue
		}
		out, err := s.deserialize(f)
		if err != nil {
			v.err = err
			continue
		}
		v.deserialized = append(v.deserialized, out)
		if frag := fragment(f.Name, out.Value); frag != "" {
			fragments = append(fragments, frag)
		}
	}

	if v.err != nil {
		v.deserialized = nil
	} else if len(fragments) > 0 {
		v.search = "?" + strings.Join(fragments, "&")
	}

	s.views = v
	return &s.views
}

func (s *Session) deserialize(f Filter) (Output[any], error) {
	c, err := s.registry.Resolve(f.Type)
	if err != nil {
		return Output[any]{Key: f.Name}, err
	}
	value, err := c.Deserialize(f.pair())
	if err != nil {
		return Output[any]{Key: f.Name}, err
	}
	return Output[any]{Key: f.Name, Value: value, Label: f.Label()}, nil
}

func fragment(key string, value any) string {
	if isScalar(value) {
		return key + "=" + qs.FormatScalar(value)
	}
	return qs.Encode(map[string]any{key: value})
}

func isScalar(v any) bool {
	switch reflect.ValueOf(v).Kind() {
	case reflect.String, reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}
