package filter

import (
	"errors"
	"math"
	"reflect"

	"github.com/vango-dev/filterkit/pkg/codec"
)

// ErrEmptyName is returned when registering a field without a name.
var ErrEmptyName = errors.New("filter: empty field name")

// Filter is one named entry of the store.
// Value always holds the serialized form; nil means unset.
type Filter struct {
	Name         string
	Type         codec.Type
	Value        *string
	DefaultValue any
	DisplayName  string
	Validate     func(value any) bool
}

// Label returns DisplayName, falling back to Name.
func (f Filter) Label() string {
	if f.DisplayName != "" {
		return f.DisplayName
	}
	return f.Name
}

func (f Filter) pair() codec.Pair {
	return codec.Pair{Key: f.Name, Value: f.Value}
}

// merge overlays the non-zero fields of next onto f. Value is always taken
// from next.
func (f Filter) merge(next Filter) Filter {
	out := f
	out.Value = next.Value
	if next.Type != "" {
		out.Type = next.Type
	}
	if next.DefaultValue != nil {
		out.DefaultValue = next.DefaultValue
	}
	if next.DisplayName != "" {
		out.DisplayName = next.DisplayName
	}
	if next.Validate != nil {
		out.Validate = next.Validate
	}
	return out
}

// Output is one entry of a derived view.
type Output[T any] struct {
	Key   string
	Value T
	Label string
}

// ChangeEvent is what an input reports when it changes.
type ChangeEvent struct {
	Value   any
	Checked bool
}

// Extractor picks the value to store out of a ChangeEvent.
type Extractor func(ChangeEvent) any

// CheckedExtractor reads the checked flag. Boolean fields use it by default.
func CheckedExtractor(e ChangeEvent) any {
	return e.Checked
}

// ValueExtractor reads the event value; nil and "" clear the filter.
// Non-boolean fields use it by default.
func ValueExtractor(e ChangeEvent) any {
	if s, ok := e.Value.(string); ok && s == "" {
		return nil
	}
	return e.Value
}

// RegisterProps declares a field.
type RegisterProps struct {
	Name         string
	Type         codec.Type
	DefaultValue any
	// Value seeds the filter when DefaultValue is nil.
	Value       any
	DisplayName string
	Validate    func(value any) bool
	// Extractor overrides the default value extraction for OnChange.
	Extractor Extractor
}

// Field is the handle an input binds to. Register returns the same pointer
// for every call with the same name.
type Field struct {
	Name string
	// Checked is true for boolean fields whose stored value is codec.Yes.
	// It is refreshed after every mutation of the session.
	Checked  bool
	OnChange func(ChangeEvent) error

	typ codec.Type
}

// ControllerField is passed to Controller render functions.
type ControllerField struct {
	// OnChange takes a raw value instead of a ChangeEvent.
	OnChange func(value any) error
	// Value is the current typed value, nil when unset.
	Value   any
	Checked bool
}

// Controller registers props and, when a handle is available, calls render
// with a normalized {OnChange, Value, Checked} triple. It is the adapter for
// custom inputs that cannot take a Field directly.
func Controller[R any](s *Session, props RegisterProps, render func(ControllerField) R) (R, error) {
	var zero R
	field, err := s.Register(props)
	if err != nil || field == nil {
		return zero, err
	}

	return render(ControllerField{
		OnChange: func(value any) error {
			return field.OnChange(ChangeEvent{Value: value, Checked: truthy(value)})
		},
		Value:   s.Watch(props.Name).Value,
		Checked: field.Checked,
	}), nil
}

// truthy mirrors the loose truthiness UI inputs report with.
func truthy(v any) bool {
	if v == nil {
		return false
	}
	switch val := v.(type) {
	case bool:
		return val
	case string:
		return val != ""
	case float64:
		return val != 0 && !math.IsNaN(val)
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int() != 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return rv.Uint() != 0
	case reflect.Float32, reflect.Float64:
		return rv.Float() != 0 && !math.IsNaN(rv.Float())
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface, reflect.Func:
		return !rv.IsNil()
	}
	return true
}
