package filter

import (
	"math"
	"reflect"
	"time"

	"github.com/vango-dev/filterkit/pkg/codec"
)

// index returns the position of name in the store, or -1.
func (s *Session) index(name string) int {
	for i := range s.filters {
		if s.filters[i].Name == name {
			return i
		}
	}
	return -1
}

// upsert returns the store with f merged in: the sole entry of an empty
// store, a merge-replace of a same-named entry, or appended at the end.
// The result is a new slice; s.filters is not modified.
func (s *Session) upsert(f Filter) []Filter {
	if len(s.filters) == 0 {
		return []Filter{f}
	}

	out := make([]Filter, len(s.filters), len(s.filters)+1)
	copy(out, s.filters)
	if i := s.index(f.Name); i >= 0 {
		out[i] = out[i].merge(f)
		return out
	}
	return append(out, f)
}

// SetValue serializes value with the filter's declared type and stores it.
// Names that are not in the store are ignored: only registration creates
// filters.
func (s *Session) SetValue(name string, value any) error {
	e := Event{Op: OpSetValue, Names: []string{name}, Start: time.Now()}

	s.mu.Lock()
	i := s.index(name)
	if i < 0 {
		e.Ignored = true
		e.Revision = s.revision
		e.Fields = len(s.fields)
		s.mu.Unlock()
		s.logger.Debug("set value ignored: unknown filter", "name", name)
		s.finish(e, false)
		return nil
	}

	current := s.filters[i]
	pair, err := s.serialize(current.Type, value, name)
	if err != nil {
		e.Revision = s.revision
		e.Fields = len(s.fields)
		e.Err = err
		s.mu.Unlock()
		s.logger.Error("set value failed", "name", name, "type", current.Type.OrDefault(), "error", err)
		s.finish(e, false)
		return err
	}

	next := make([]Filter, len(s.filters))
	copy(next, s.filters)
	next[i] = current.merge(Filter{Value: pair.Value})
	s.filters = next
	e.Revision = s.bump()
	e.Fields = len(s.fields)
	s.mu.Unlock()

	s.logger.Debug("filter updated", "name", name, "revision", e.Revision)
	s.finish(e, true)
	return nil
}

// SetValues merges several values at once. Every stored filter is
// re-serialized: named ones from values, the others from their current
// typed value, which leaves them unchanged. Names not in the store are
// ignored. Either all filters update or, on a codec error, none do.
func (s *Session) SetValues(values map[string]any) error {
	e := Event{Op: OpSetValues, Start: time.Now()}

	s.mu.Lock()
	next := make([]Filter, len(s.filters))
	for i, f := range s.filters {
		var (
			pair codec.Pair
			err  error
		)
		if v, ok := values[f.Name]; ok {
			pair, err = s.serialize(f.Type, v, f.Name)
			e.Names = append(e.Names, f.Name)
		} else {
			pair, err = s.canonicalize(f)
		}
		if err != nil {
			e.Revision = s.revision
			e.Fields = len(s.fields)
			e.Err = err
			s.mu.Unlock()
			s.logger.Error("set values failed", "name", f.Name, "type", f.Type.OrDefault(), "error", err)
			s.finish(e, false)
			return err
		}
		next[i] = f.merge(Filter{Value: pair.Value})
	}

	if len(e.Names) < len(values) {
		for name := range values {
			if s.index(name) < 0 {
				s.logger.Debug("set values ignored unknown filter", "name", name)
			}
		}
	}

	s.filters = next
	e.Revision = s.bump()
	e.Fields = len(s.fields)
	s.mu.Unlock()

	s.logger.Debug("filters updated", "names", e.Names, "revision", e.Revision)
	s.finish(e, true)
	return nil
}

func (s *Session) serialize(t codec.Type, value any, name string) (codec.Pair, error) {
	c, err := s.registry.Resolve(t)
	if err != nil {
		return codec.Pair{Key: name}, err
	}
	return c.Serialize(value, name)
}

// canonicalize re-serializes f's current typed value. The stored string is
// kept when it reads back as the same value, so "1e3" stays "1e3".
func (s *Session) canonicalize(f Filter) (codec.Pair, error) {
	c, err := s.registry.Resolve(f.Type)
	if err != nil {
		return codec.Pair{Key: f.Name}, err
	}
	typed, err := c.Deserialize(f.pair())
	if err != nil {
		return codec.Pair{Key: f.Name}, err
	}
	pair, err := c.Serialize(typed, f.Name)
	if err != nil || !pair.Defined() || !f.pair().Defined() {
		return pair, err
	}
	again, err := c.Deserialize(pair)
	if err == nil && sameValue(typed, again) {
		return f.pair(), nil
	}
	return pair, nil
}

func sameValue(a, b any) bool {
	if x, ok := a.(float64); ok {
		if y, ok := b.(float64); ok && math.IsNaN(x) && math.IsNaN(y) {
			return true
		}
	}
	if x, ok := a.(time.Time); ok {
		y, ok := b.(time.Time)
		return ok && x.Equal(y)
	}
	return reflect.DeepEqual(a, b)
}
