package filter

import (
	"log/slog"
	"sync"
	"time"

	"github.com/vango-dev/filterkit/pkg/codec"
)

// Session owns one set of filters: the store, the registered fields, the
// revision counter and the memoized views. Create one per UI binding.
//
// Mutations happen synchronously on the caller's goroutine. Listeners and
// observers run after the mutation, outside the session lock.
type Session struct {
	mu sync.Mutex

	registry *codec.Registry
	filters  []Filter
	fields   []*Field
	byName   map[string]*Field
	revision uint64
	views    views

	listeners listeners
	observers []Observer
	logger    *slog.Logger
}

type options struct {
	custom    []codec.Custom
	seeds     []Filter
	logger    *slog.Logger
	observers []Observer
}

// Option configures a Session.
type Option func(*options)

// WithCustomCodecs registers additional filter types. A custom codec with a
// built-in name replaces the built-in.
func WithCustomCodecs(custom ...codec.Custom) Option {
	return func(o *options) {
		o.custom = append(o.custom, custom...)
	}
}

// WithDefaultValues seeds the store before any registration. Seed values are
// stored strings; an empty Type reads as text until a registration declares
// the type.
func WithDefaultValues(filters ...Filter) Option {
	return func(o *options) {
		o.seeds = append(o.seeds, filters...)
	}
}

// WithLogger sets the session logger (default: slog.Default()).
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithObserver adds observers notified after every operation.
func WithObserver(observers ...Observer) Option {
	return func(o *options) {
		o.observers = append(o.observers, observers...)
	}
}

// New creates a Session. It fails when a custom codec is malformed or a seed
// declares a type with no codec.
func New(opts ...Option) (*Session, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}

	registry, err := codec.NewRegistry(o.custom...)
	if err != nil {
		return nil, err
	}
	for _, t := range registry.Shadowed() {
		o.logger.Debug("custom codec replaces built-in", "type", t)
	}

	s := &Session{
		registry:  registry,
		byName:    make(map[string]*Field),
		observers: o.observers,
		logger:    o.logger,
	}

	for _, seed := range o.seeds {
		if _, err := registry.Resolve(seed.Type); err != nil {
			return nil, err
		}
		s.filters = s.upsert(seed)
	}

	return s, nil
}

// Registry returns the codec registry the session resolves types with.
func (s *Session) Registry() *codec.Registry {
	return s.registry
}

// Revision returns the mutation counter. It increases on every mutating
// call, whether or not any stored value changed.
func (s *Session) Revision() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.revision
}

// Filters returns a snapshot of the store in insertion order.
func (s *Session) Filters() []Filter {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Filter, len(s.filters))
	copy(out, s.filters)
	return out
}

// RegisteredFields returns the bound handles in registration order.
func (s *Session) RegisteredFields() []*Field {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*Field, len(s.fields))
	copy(out, s.fields)
	return out
}

// Op names a session operation reported to observers.
type Op string

const (
	OpRegister  Op = "register"
	OpSetValue  Op = "set_value"
	OpSetValues Op = "set_values"
)

// Event describes one completed operation.
type Event struct {
	Op Op
	// Names lists the filters the operation touched.
	Names    []string
	Revision uint64
	Start    time.Time
	Duration time.Duration
	// Ignored is set when SetValue named an unknown filter.
	Ignored bool
	// Fields is the number of registered fields after the operation.
	Fields int
	Err    error
}

// Observer receives an Event after every operation.
type Observer interface {
	Observe(Event)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(Event)

// Observe implements Observer.
func (f ObserverFunc) Observe(e Event) {
	f(e)
}

// finish runs after the session lock is released: it reports the event and,
// when the revision moved, notifies listeners.
func (s *Session) finish(e Event, mutated bool) {
	e.Duration = time.Since(e.Start)
	for _, o := range s.observers {
		o.Observe(e)
	}
	if mutated {
		s.listeners.notify(e.Revision)
	}
}

// bump must be called with s.mu held.
func (s *Session) bump() uint64 {
	s.revision++
	s.refreshChecked()
	return s.revision
}

// refreshChecked must be called with s.mu held.
func (s *Session) refreshChecked() {
	for _, f := range s.fields {
		if f.typ != codec.Boolean {
			continue
		}
		i := s.index(f.Name)
		f.Checked = i >= 0 && isYes(s.filters[i].Value)
	}
}

func isYes(v *string) bool {
	return v != nil && *v == codec.Yes
}
