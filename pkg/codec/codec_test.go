package codec

import (
	"errors"
	"math"
	"reflect"
	"strings"
	"testing"
	"time"

	ferrors "github.com/vango-dev/filterkit/internal/errors"
)

func roundTrip(t *testing.T, c Codec, v any, key string) any {
	t.Helper()
	p, err := c.Serialize(v, key)
	if err != nil {
		t.Fatalf("Serialize(%v) error: %v", v, err)
	}
	if p.Key != key {
		t.Fatalf("Serialize key = %q, want %q", p.Key, key)
	}
	if !p.Defined() {
		t.Fatalf("Serialize(%v) produced an unset pair", v)
	}
	out, err := c.Deserialize(p)
	if err != nil {
		t.Fatalf("Deserialize(%q) error: %v", *p.Value, err)
	}
	return out
}

func TestBuiltinRoundTrip(t *testing.T) {
	when := time.Date(2024, 3, 9, 14, 30, 15, 250_000_000, time.UTC)

	tests := []struct {
		name string
		c    Codec
		in   any
		want any
	}{
		{"Text", TextIO, "hello", "hello"},
		{"TextEmpty", TextIO, "", ""},
		{"NumberInt", NumberIO, 42, float64(42)},
		{"NumberFloat", NumberIO, 3.25, 3.25},
		{"NumberNegative", NumberIO, -0.5, -0.5},
		{"BooleanTrue", BooleanIO, true, true},
		{"BooleanFalse", BooleanIO, false, false},
		{"Multiple", ArrayIO, []string{"a", "b", "c"}, []string{"a", "b", "c"}},
		{"Record", RecordIO, map[string]any{"field": "name", "range": map[string]any{"min": "1"}}, map[string]any{"field": "name", "range": map[string]any{"min": "1"}}},
		{"RecordIndexKeys", RecordIO, map[string]any{"0": "a", "1": "b"}, map[string]any{"0": "a", "1": "b"}},
		{"RecordSparseIndexKeys", RecordIO, map[string]any{"2": "a", "7": "b"}, map[string]any{"2": "a", "7": "b"}},
		{"RecordNestedList", RecordIO, map[string]any{"tags": []string{"x", "y"}}, map[string]any{"tags": []any{"x", "y"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := roundTrip(t, tt.c, tt.in, "k")
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("round trip = %#v, want %#v", got, tt.want)
			}
		})
	}

	t.Run("Date", func(t *testing.T) {
		got, ok := roundTrip(t, DateIO, when, "d").(time.Time)
		if !ok || !got.Equal(when) {
			t.Errorf("round trip = %v, want %v", got, when)
		}
	})
}

func TestStoredForms(t *testing.T) {
	tests := []struct {
		name string
		c    Codec
		in   any
		key  string
		want string
	}{
		{"NumberInt", NumberIO, 7, "n", "7"},
		{"NumberFloat", NumberIO, 2.5, "n", "2.5"},
		{"NumberString", NumberIO, "12", "n", "12"},
		{"NumberNaN", NumberIO, math.NaN(), "n", "NaN"},
		{"BooleanTrue", BooleanIO, true, "b", "Yes"},
		{"BooleanFalse", BooleanIO, false, "b", "No"},
		{"BooleanLiteral", BooleanIO, "No", "b", "No"},
		{"BooleanParse", BooleanIO, "true", "b", "Yes"},
		{"BooleanEmptyString", BooleanIO, "", "b", "No"},
		{"Date", DateIO, time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC), "d", "2024-01-02T03:04:05.000Z"},
		{"DateOffset", DateIO, time.Date(2024, 1, 2, 5, 4, 5, 0, time.FixedZone("x", 2*3600)), "d", "2024-01-02T03:04:05.000Z"},
		{"DateString", DateIO, "2024-01-02", "d", "2024-01-02T00:00:00.000Z"},
		{"Multiple", ArrayIO, []string{"a", "b"}, "m", "a, b"},
		{"MultipleAny", ArrayIO, []any{"a", 1}, "m", "a, 1"},
		{"MultipleSingle", ArrayIO, "solo", "m", "solo"},
		{"Record", RecordIO, map[string]any{"dir": "asc"}, "sort", "sort%5Bdir%5D=asc"},
		{"RecordStringMap", RecordIO, map[string]string{"dir": "asc"}, "sort", "sort%5Bdir%5D=asc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := tt.c.Serialize(tt.in, tt.key)
			if err != nil {
				t.Fatalf("Serialize error: %v", err)
			}
			if p.Value == nil || *p.Value != tt.want {
				t.Errorf("stored = %v, want %q", p.Value, tt.want)
			}
		})
	}
}

func TestMalformedStoredValues(t *testing.T) {
	t.Run("NumberNaN", func(t *testing.T) {
		v, err := NumberIO.Deserialize(Pair{Key: "n", Value: String("abc")})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if f := v.(float64); !math.IsNaN(f) {
			t.Errorf("got %v, want NaN", f)
		}
	})

	t.Run("NumberBlankIsZero", func(t *testing.T) {
		v, _ := NumberIO.Deserialize(Pair{Key: "n", Value: String(" ")})
		if v.(float64) != 0 {
			t.Errorf("got %v, want 0", v)
		}
	})

	t.Run("NumberInfinity", func(t *testing.T) {
		v, _ := NumberIO.Deserialize(Pair{Key: "n", Value: String("-Infinity")})
		if !math.IsInf(v.(float64), -1) {
			t.Errorf("got %v, want -Inf", v)
		}
	})

	t.Run("BooleanOnlyYesIsTrue", func(t *testing.T) {
		for _, s := range []string{"yes", "true", "1", "No", ""} {
			v, _ := BooleanIO.Deserialize(Pair{Key: "b", Value: String(s)})
			if v.(bool) {
				t.Errorf("Deserialize(%q) = true, want false", s)
			}
		}
	})

	t.Run("DateZero", func(t *testing.T) {
		v, err := DateIO.Deserialize(Pair{Key: "d", Value: String("not a date")})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !v.(time.Time).IsZero() {
			t.Errorf("got %v, want zero time", v)
		}
	})

	t.Run("RecordAppendList", func(t *testing.T) {
		v, _ := RecordIO.Deserialize(Pair{Key: "r", Value: String("r[]=a&r[]=b")})
		if !reflect.DeepEqual(v, []any{"a", "b"}) {
			t.Errorf("got %#v, want the stored list", v)
		}
	})

	t.Run("RecordEmpty", func(t *testing.T) {
		v, _ := RecordIO.Deserialize(Pair{Key: "r", Value: String("other=1")})
		if m := v.(map[string]any); len(m) != 0 {
			t.Errorf("got %v, want empty map", m)
		}
	})
}

// The separator is not escaped, so elements containing it split apart.
func TestArraySeparatorIsLossy(t *testing.T) {
	got := roundTrip(t, ArrayIO, []string{"a, b", "c"}, "m")
	want := []string{"a", "b", "c"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("round trip = %#v, want %#v", got, want)
	}
}

func TestSerializeTypeMismatch(t *testing.T) {
	tests := []struct {
		name string
		c    Codec
		in   any
	}{
		{"Number", NumberIO, struct{}{}},
		{"Boolean", BooleanIO, []int{1}},
		{"Date", DateIO, "yesterday"},
		{"Multiple", ArrayIO, 12},
		{"Record", RecordIO, "a=1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := tt.c.Serialize(tt.in, "k")
			if !errors.Is(err, ErrTypeMismatch) {
				t.Fatalf("err = %v, want ErrTypeMismatch", err)
			}
			var fe *ferrors.FilterError
			if !errors.As(err, &fe) || fe.Code != ferrors.CodeTypeMismatch {
				t.Errorf("expected FilterError %s, got %v", ferrors.CodeTypeMismatch, err)
			}
			if p.Defined() {
				t.Error("failed Serialize should not produce a value")
			}
		})
	}
}

type countingCodec struct {
	serialized, deserialized int
}

func (c *countingCodec) Serialize(v any, key string) (Pair, error) {
	c.serialized++
	return Pair{Key: key, Value: String("x")}, nil
}

func (c *countingCodec) Deserialize(p Pair) (any, error) {
	c.deserialized++
	return "x", nil
}

func TestSafeLaw(t *testing.T) {
	inner := &countingCodec{}
	custom := Safe(inner)

	codecs := Builtins()
	codecs["custom"] = custom
	codecs["erased"] = Erase[int](Funcs[int]{
		SerializeFunc:   func(v int, _ string) (string, error) { panic("must not be called") },
		DeserializeFunc: func(s, _ string) (int, error) { panic("must not be called") },
	})

	for name, c := range codecs {
		t.Run(string(name), func(t *testing.T) {
			p, err := c.Serialize(nil, "k")
			if err != nil {
				t.Fatalf("Serialize(nil) error: %v", err)
			}
			if p.Defined() || p.Key != "k" {
				t.Errorf("Serialize(nil) = %+v, want unset pair for k", p)
			}
			v, err := c.Deserialize(Pair{Key: "k"})
			if err != nil || v != nil {
				t.Errorf("Deserialize(unset) = %v, %v; want nil, nil", v, err)
			}
		})
	}

	if inner.serialized != 0 || inner.deserialized != 0 {
		t.Errorf("inner codec called %d/%d times", inner.serialized, inner.deserialized)
	}

	t.Run("TypedNilPointer", func(t *testing.T) {
		var when *time.Time
		p, err := DateIO.Serialize(when, "d")
		if err != nil || p.Defined() {
			t.Errorf("Serialize(nil *time.Time) = %+v, %v", p, err)
		}
	})

	t.Run("Idempotent", func(t *testing.T) {
		if Safe(custom) != custom {
			t.Error("Safe(Safe(c)) should return the same wrapper")
		}
	})
}

type celsius float64

func TestErase(t *testing.T) {
	c := Erase[celsius](Funcs[celsius]{
		SerializeFunc: func(v celsius, key string) (string, error) {
			return formatCelsius(v) + "C", nil
		},
		DeserializeFunc: func(s, key string) (celsius, error) {
			return celsius(ParseNumber(strings.TrimSuffix(s, "C"))), nil
		},
	})

	got := roundTrip(t, c, celsius(21.5), "temp")
	if got != celsius(21.5) {
		t.Errorf("round trip = %v, want 21.5", got)
	}

	if _, err := c.Serialize("21.5", "temp"); !errors.Is(err, ErrTypeMismatch) {
		t.Errorf("Serialize(string) err = %v, want ErrTypeMismatch", err)
	}
}

func formatCelsius(v celsius) string {
	p, _ := NumberIO.Serialize(float64(v), "")
	return *p.Value
}
