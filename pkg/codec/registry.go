package codec

import (
	"fmt"
	"sort"

	ferrors "github.com/vango-dev/filterkit/internal/errors"
)

// Custom is a user-supplied codec registered under a filter type name.
type Custom struct {
	Name Type
	IO   Codec
}

// Registry resolves filter types to codecs. It is immutable once built.
type Registry struct {
	codecs   map[Type]Codec
	shadowed []Type
}

// NewRegistry returns the built-in codecs merged with custom ones.
// A custom codec with a built-in name replaces the built-in.
func NewRegistry(custom ...Custom) (*Registry, error) {
	r := &Registry{codecs: Builtins()}

	for _, c := range custom {
		if c.Name == "" || c.IO == nil {
			return nil, ferrors.New(ferrors.CodeInvalidCodec).
				WithSuggestion("Give every custom codec a Name and an IO implementation").
				Wrap(fmt.Errorf("%w: name=%q io=%T", ErrInvalidCodec, c.Name, c.IO))
		}
		if _, exists := r.codecs[c.Name]; exists {
			r.shadowed = append(r.shadowed, c.Name)
		}
		r.codecs[c.Name] = Safe(c.IO)
	}

	return r, nil
}

// Resolve returns the codec for t. An empty type resolves to Text.
func (r *Registry) Resolve(t Type) (Codec, error) {
	t = t.OrDefault()
	c, ok := r.codecs[t]
	if !ok {
		return nil, ferrors.New(ferrors.CodeUnknownCodec).
			WithSuggestion("Register the type with filter.WithCustomCodecs or use a built-in type").
			Wrap(fmt.Errorf("%w for type %q", ErrUnknownCodec, t))
	}
	return c, nil
}

// Has reports whether t resolves.
func (r *Registry) Has(t Type) bool {
	_, ok := r.codecs[t.OrDefault()]
	return ok
}

// Types returns the registered type names in sorted order.
func (r *Registry) Types() []Type {
	types := make([]Type, 0, len(r.codecs))
	for t := range r.codecs {
		types = append(types, t)
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })
	return types
}

// Shadowed returns the built-in types replaced by custom codecs.
func (r *Registry) Shadowed() []Type {
	return append([]Type(nil), r.shadowed...)
}
