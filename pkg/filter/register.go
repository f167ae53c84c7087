package filter

import (
	"time"

	"github.com/vango-dev/filterkit/pkg/codec"
)

// Register binds a field to the filter props.Name and returns its handle.
//
// The first call for a name seeds the filter from DefaultValue (or Value),
// serialized with the declared type, and builds the handle. Later calls
// return the same handle and change nothing, so it is safe to call Register
// on every render.
func (s *Session) Register(props RegisterProps) (*Field, error) {
	if props.Name == "" {
		return nil, ErrEmptyName
	}

	s.mu.Lock()
	if f, ok := s.byName[props.Name]; ok {
		s.mu.Unlock()
		return f, nil
	}

	e := Event{Op: OpRegister, Names: []string{props.Name}, Start: time.Now()}
	field, err := s.register(props)
	if err != nil {
		e.Revision = s.revision
		e.Fields = len(s.fields)
		e.Err = err
		s.mu.Unlock()
		s.logger.Error("register failed", "name", props.Name, "type", props.Type.OrDefault(), "error", err)
		s.finish(e, false)
		return nil, err
	}
	e.Revision = s.bump()
	e.Fields = len(s.fields)
	s.mu.Unlock()

	s.logger.Debug("field registered", "name", props.Name, "type", field.typ, "revision", e.Revision)
	s.finish(e, true)
	return field, nil
}

// register must be called with s.mu held.
func (s *Session) register(props RegisterProps) (*Field, error) {
	name := props.Name
	typ := props.Type.OrDefault()

	c, err := s.registry.Resolve(typ)
	if err != nil {
		return nil, err
	}

	seed := props.DefaultValue
	if seed == nil {
		seed = props.Value
	}

	next := Filter{
		Name:         name,
		Type:         typ,
		DefaultValue: props.DefaultValue,
		DisplayName:  props.DisplayName,
		Validate:     props.Validate,
	}

	i := s.index(name)
	if i >= 0 && seed == nil {
		// Keep the seeded stored value.
		next.Value = s.filters[i].Value
	} else {
		pair, err := c.Serialize(seed, name)
		if err != nil {
			return nil, err
		}
		next.Value = pair.Value
	}

	if i >= 0 {
		if declared := s.filters[i].Type; declared != "" && declared != typ {
			s.logger.Warn("registration changes filter type", "name", name, "from", declared, "to", typ)
		}
	}
	s.filters = s.upsert(next)

	extract := props.Extractor
	if extract == nil {
		extract = ValueExtractor
		if typ == codec.Boolean {
			extract = CheckedExtractor
		}
	}

	field := &Field{
		Name: name,
		typ:  typ,
		OnChange: func(e ChangeEvent) error {
			return s.SetValue(name, extract(e))
		},
	}
	if typ == codec.Boolean {
		field.Checked = isYes(next.Value)
	}

	s.fields = append(s.fields, field)
	s.byName[name] = field
	return field, nil
}
