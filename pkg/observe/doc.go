// Package observe provides filter.Observer implementations for production
// monitoring of filter sessions.
//
// # Prometheus Metrics
//
// The Prometheus observer counts operations and failures and records how
// long each operation took:
//
//	m := observe.Prometheus(observe.WithNamespace("shop"))
//	s, err := filter.New(filter.WithObserver(m))
//
// Create it once per registry; promauto panics when the same metric is
// registered twice.
//
// # OpenTelemetry
//
// The OpenTelemetry observer turns every operation into a span using the
// global tracer provider unless one is given:
//
//	observe.OpenTelemetry(
//	    observe.WithTracerName("shop"),
//	    observe.WithEventFilter(func(e filter.Event) bool {
//	        return e.Op != filter.OpRegister
//	    }),
//	)
package observe
