package codec

import (
	"errors"
	"fmt"
	"reflect"

	ferrors "github.com/vango-dev/filterkit/internal/errors"
)

// Type selects the codec a filter uses.
type Type string

// Built-in filter types.
const (
	Text     Type = "text"
	Number   Type = "number"
	Boolean  Type = "boolean"
	Radio    Type = "radio"
	Date     Type = "date"
	Multiple Type = "multiple"
	Record   Type = "record"
)

// OrDefault returns t, or Text when t is empty.
func (t Type) OrDefault() Type {
	if t == "" {
		return Text
	}
	return t
}

var (
	// ErrUnknownCodec is returned when a type has no registered codec.
	ErrUnknownCodec = errors.New("unknown codec")

	// ErrTypeMismatch is returned when a codec cannot serialize a value's Go type.
	ErrTypeMismatch = errors.New("type mismatch")

	// ErrInvalidCodec is returned for malformed custom codec registrations.
	ErrInvalidCodec = errors.New("invalid codec")
)

// Pair is a stored value together with the filter key it belongs to.
// A nil Value means the filter is unset.
type Pair struct {
	Key   string
	Value *string
}

// Defined reports whether the pair carries a stored value.
func (p Pair) Defined() bool {
	return p.Value != nil
}

// String returns a pointer to s, for building stored values.
func String(s string) *string {
	return &s
}

// Codec converts between a typed value and its stored string form.
//
// Deserialize(Serialize(x)) must be observably equal to x for every value in
// the codec's domain. A nil typed value and a nil stored value are the
// "unset" state; wrap implementations with Safe so they never see it.
type Codec interface {
	Serialize(v any, key string) (Pair, error)
	Deserialize(p Pair) (any, error)
}

// IO is a codec for a single Go type. Use Erase to register it.
type IO[T any] interface {
	Serialize(v T, key string) (string, error)
	Deserialize(value, key string) (T, error)
}

// Funcs adapts a pair of functions to IO.
type Funcs[T any] struct {
	SerializeFunc   func(v T, key string) (string, error)
	DeserializeFunc func(value, key string) (T, error)
}

// Serialize implements IO.
func (f Funcs[T]) Serialize(v T, key string) (string, error) {
	return f.SerializeFunc(v, key)
}

// Deserialize implements IO.
func (f Funcs[T]) Deserialize(value, key string) (T, error) {
	return f.DeserializeFunc(value, key)
}

// Erase lifts a typed IO into a Safe Codec. Serializing a value that is not
// a T fails with ErrTypeMismatch.
func Erase[T any](io IO[T]) Codec {
	return Safe(erased[T]{io: io})
}

type erased[T any] struct {
	io IO[T]
}

func (e erased[T]) Serialize(v any, key string) (Pair, error) {
	tv, ok := v.(T)
	if !ok {
		var zero T
		return Pair{Key: key}, mismatch(Type(fmt.Sprintf("%T", zero)), key, v)
	}
	s, err := e.io.Serialize(tv, key)
	if err != nil {
		return Pair{Key: key}, err
	}
	return Pair{Key: key, Value: &s}, nil
}

func (e erased[T]) Deserialize(p Pair) (any, error) {
	return e.io.Deserialize(*p.Value, p.Key)
}

// Safe wraps c so that unset values pass through without reaching it:
// serializing nil yields an unset Pair, deserializing an unset Pair yields nil.
// Typed nil pointers, maps and slices count as unset.
func Safe(c Codec) Codec {
	if s, ok := c.(safeCodec); ok {
		return s
	}
	return safeCodec{inner: c}
}

type safeCodec struct {
	inner Codec
}

func (s safeCodec) Serialize(v any, key string) (Pair, error) {
	if isNil(v) {
		return Pair{Key: key}, nil
	}
	return s.inner.Serialize(v, key)
}

func (s safeCodec) Deserialize(p Pair) (any, error) {
	if p.Value == nil {
		return nil, nil
	}
	return s.inner.Deserialize(p)
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface, reflect.Func:
		return rv.IsNil()
	}
	return false
}

func mismatch(t Type, key string, v any) error {
	return ferrors.New(ferrors.CodeTypeMismatch).
		Wrap(fmt.Errorf("%w: %s codec cannot serialize %T for %q", ErrTypeMismatch, t, v, key))
}
