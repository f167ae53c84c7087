package observe

import (
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"

	ferrors "github.com/vango-dev/filterkit/internal/errors"
	"github.com/vango-dev/filterkit/pkg/codec"
	"github.com/vango-dev/filterkit/pkg/filter"
)

func metricCounterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var m dto.Metric
	if err := c.Write(&m); err != nil {
		t.Fatalf("counter Write() error: %v", err)
	}
	if m.Counter == nil {
		t.Fatal("expected counter metric to have Counter field")
	}
	return m.GetCounter().GetValue()
}

func metricGaugeValue(t *testing.T, g prometheus.Gauge) float64 {
	t.Helper()
	var m dto.Metric
	if err := g.Write(&m); err != nil {
		t.Fatalf("gauge Write() error: %v", err)
	}
	if m.Gauge == nil {
		t.Fatal("expected gauge metric to have Gauge field")
	}
	return m.GetGauge().GetValue()
}

func metricHistogramCount(t *testing.T, o prometheus.Observer) uint64 {
	t.Helper()
	metric, ok := o.(prometheus.Metric)
	if !ok {
		t.Fatalf("observer %T does not implement prometheus.Metric", o)
	}
	var m dto.Metric
	if err := metric.Write(&m); err != nil {
		t.Fatalf("histogram Write() error: %v", err)
	}
	if m.Histogram == nil {
		t.Fatal("expected histogram metric to have Histogram field")
	}
	return m.GetHistogram().GetSampleCount()
}

func newObservedSession(t *testing.T, o filter.Observer) *filter.Session {
	t.Helper()
	s, err := filter.New(
		filter.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		filter.WithObserver(o),
	)
	if err != nil {
		t.Fatalf("filter.New() error: %v", err)
	}
	return s
}

func TestPrometheusRecordsOperations(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := Prometheus(WithRegistry(reg))
	s := newObservedSession(t, m)

	if _, err := s.Register(filter.RegisterProps{Name: "n", Type: codec.Number}); err != nil {
		t.Fatalf("Register() error: %v", err)
	}
	if _, err := s.Register(filter.RegisterProps{Name: "q"}); err != nil {
		t.Fatalf("Register() error: %v", err)
	}
	_ = s.SetValue("n", 1)
	_ = s.SetValue("missing", 1)
	_ = s.SetValue("n", []string{"x"})
	_, _ = s.Register(filter.RegisterProps{Name: "c", Type: "color"})

	tests := []struct {
		op, status string
		want       float64
	}{
		{"register", "success", 2},
		{"register", "error", 1},
		{"set_value", "success", 1},
		{"set_value", "ignored", 1},
		{"set_value", "error", 1},
		{"set_values", "success", 0},
	}
	for _, tt := range tests {
		if got := metricCounterValue(t, m.operationsTotal.WithLabelValues(tt.op, tt.status)); got != tt.want {
			t.Errorf("operations_total(%s,%s) = %v, want %v", tt.op, tt.status, got, tt.want)
		}
	}

	if got := metricCounterValue(t, m.errorsTotal.WithLabelValues("set_value", "type_mismatch")); got != 1 {
		t.Errorf("errors_total(set_value,type_mismatch) = %v, want 1", got)
	}
	if got := metricCounterValue(t, m.errorsTotal.WithLabelValues("register", "unknown_codec")); got != 1 {
		t.Errorf("errors_total(register,unknown_codec) = %v, want 1", got)
	}
	if got := metricCounterValue(t, m.ignoredUpdates); got != 1 {
		t.Errorf("ignored_updates_total = %v, want 1", got)
	}
	if got := metricGaugeValue(t, m.registeredFields); got != 2 {
		t.Errorf("registered_fields = %v, want 2", got)
	}
	if got := metricHistogramCount(t, m.operationDuration.WithLabelValues("set_value")); got != 3 {
		t.Errorf("operation_duration_seconds(set_value) count = %d, want 3", got)
	}
}

func TestPrometheusNamespace(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := Prometheus(
		WithRegistry(reg),
		WithNamespace("shop"),
		WithSubsystem("search"),
		WithConstLabels(prometheus.Labels{"form": "products"}),
		WithBuckets([]float64{0.001, 0.01}),
	)
	m.Observe(filter.Event{Op: filter.OpSetValues})

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather() error: %v", err)
	}
	names := make(map[string]*dto.MetricFamily)
	for _, f := range families {
		names[f.GetName()] = f
	}
	f, ok := names["shop_search_operations_total"]
	if !ok {
		t.Fatalf("shop_search_operations_total not gathered; got %v", names)
	}
	var found bool
	for _, lp := range f.GetMetric()[0].GetLabel() {
		if lp.GetName() == "form" && lp.GetValue() == "products" {
			found = true
		}
	}
	if !found {
		t.Error("const label form=products missing")
	}
	if h, ok := names["shop_search_operation_duration_seconds"]; !ok || len(h.GetMetric()[0].GetHistogram().GetBucket()) != 2 {
		t.Error("histogram does not use the configured buckets")
	}
}

func TestErrorKind(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"UnknownCodec", ferrors.New(ferrors.CodeUnknownCodec).Wrap(codec.ErrUnknownCodec), "unknown_codec"},
		{"Mismatch", ferrors.New(ferrors.CodeTypeMismatch).Wrap(codec.ErrTypeMismatch), "type_mismatch"},
		{"InvalidCodec", codec.ErrInvalidCodec, "invalid_codec"},
		{"Config", ferrors.New(ferrors.CodeInvalidConfig), "config"},
		{"Custom", errors.New("color: bad hex"), "custom"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := errorKind(tt.err); got != tt.want {
				t.Errorf("errorKind() = %q, want %q", got, tt.want)
			}
		})
	}
}
