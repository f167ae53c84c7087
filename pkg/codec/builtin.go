package codec

import (
	"encoding/json"
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/vango-dev/filterkit/pkg/qs"
)

// Stored string constants.
const (
	// Yes is the stored form of true.
	Yes = "Yes"

	// No is the stored form of false.
	No = "No"

	// Separator joins the elements of multiple and radio filters.
	// Elements containing it do not survive a round trip.
	Separator = ", "

	// DateLayout is the stored form of dates (UTC, millisecond precision).
	DateLayout = qs.TimeLayout
)

// Built-in codecs, already wrapped with Safe.
var (
	TextIO    = Safe(textCodec{})
	NumberIO  = Safe(numberCodec{})
	BooleanIO = Safe(booleanCodec{})
	DateIO    = Safe(dateCodec{})
	ArrayIO   = Safe(arrayCodec{})
	RecordIO  = Safe(recordCodec{})
)

// Builtins returns a fresh map of the built-in codecs by type.
func Builtins() map[Type]Codec {
	return map[Type]Codec{
		Text:     TextIO,
		Number:   NumberIO,
		Boolean:  BooleanIO,
		Radio:    ArrayIO,
		Date:     DateIO,
		Multiple: ArrayIO,
		Record:   RecordIO,
	}
}

func stored(key, s string) Pair {
	return Pair{Key: key, Value: &s}
}

// textCodec stores strings unchanged.
type textCodec struct{}

func (textCodec) Serialize(v any, key string) (Pair, error) {
	switch val := v.(type) {
	case string:
		return stored(key, val), nil
	case []byte:
		return stored(key, string(val)), nil
	case fmt.Stringer:
		return stored(key, val.String()), nil
	default:
		return stored(key, qs.FormatScalar(v)), nil
	}
}

func (textCodec) Deserialize(p Pair) (any, error) {
	return *p.Value, nil
}

// numberCodec stores the shortest decimal form and reads back float64.
// Strings are stored as given; unparsable stored strings read back as NaN.
type numberCodec struct{}

func (numberCodec) Serialize(v any, key string) (Pair, error) {
	switch val := v.(type) {
	case string:
		return stored(key, val), nil
	case json.Number:
		return stored(key, val.String()), nil
	case float64, float32, int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return stored(key, qs.FormatScalar(val)), nil
	default:
		return Pair{Key: key}, mismatch(Number, key, v)
	}
}

func (numberCodec) Deserialize(p Pair) (any, error) {
	return ParseNumber(*p.Value), nil
}

// ParseNumber converts a stored number. Blank input is 0, anything
// unparsable is NaN.
func ParseNumber(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN()
	}
	return f
}

// booleanCodec stores Yes / No. Only the exact string Yes reads back as true.
type booleanCodec struct{}

func (booleanCodec) Serialize(v any, key string) (Pair, error) {
	b, err := truthy(v)
	if err != nil {
		return Pair{Key: key}, mismatch(Boolean, key, v)
	}
	if b {
		return stored(key, Yes), nil
	}
	return stored(key, No), nil
}

func (booleanCodec) Deserialize(p Pair) (any, error) {
	return *p.Value == Yes, nil
}

func truthy(v any) (bool, error) {
	switch val := v.(type) {
	case bool:
		return val, nil
	case string:
		switch val {
		case Yes:
			return true, nil
		case No:
			return false, nil
		}
		if b, err := strconv.ParseBool(val); err == nil {
			return b, nil
		}
		return val != "", nil
	case int:
		return val != 0, nil
	case int64:
		return val != 0, nil
	case float64:
		return val != 0 && !math.IsNaN(val), nil
	default:
		return false, ErrTypeMismatch
	}
}

// dateCodec stores ISO-8601 UTC timestamps and reads back time.Time.
// Unparsable stored strings read back as the zero time.
type dateCodec struct{}

func (dateCodec) Serialize(v any, key string) (Pair, error) {
	switch val := v.(type) {
	case time.Time:
		return stored(key, val.UTC().Format(DateLayout)), nil
	case *time.Time:
		return stored(key, val.UTC().Format(DateLayout)), nil
	case string:
		t, ok := parseDate(val)
		if !ok {
			return Pair{Key: key}, mismatch(Date, key, v)
		}
		return stored(key, t.UTC().Format(DateLayout)), nil
	default:
		return Pair{Key: key}, mismatch(Date, key, v)
	}
}

func (dateCodec) Deserialize(p Pair) (any, error) {
	t, _ := parseDate(*p.Value)
	return t, nil
}

func parseDate(s string) (time.Time, bool) {
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t.UTC(), true
	}
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return t, true
	}
	return time.Time{}, false
}

// arrayCodec joins string slices with Separator.
type arrayCodec struct{}

func (arrayCodec) Serialize(v any, key string) (Pair, error) {
	switch val := v.(type) {
	case []string:
		return stored(key, strings.Join(val, Separator)), nil
	case []any:
		parts := make([]string, len(val))
		for i, item := range val {
			parts[i] = qs.FormatScalar(item)
		}
		return stored(key, strings.Join(parts, Separator)), nil
	case string:
		return stored(key, val), nil
	default:
		return Pair{Key: key}, mismatch(Multiple, key, v)
	}
}

func (arrayCodec) Deserialize(p Pair) (any, error) {
	return strings.Split(*p.Value, Separator), nil
}

// recordCodec nests a map under the filter key and stores it as a bracket
// query string, e.g. key[field]=name&key[dir]=asc.
type recordCodec struct{}

func (recordCodec) Serialize(v any, key string) (Pair, error) {
	switch val := v.(type) {
	case map[string]any, map[string]string, url.Values:
		return stored(key, qs.Encode(map[string]any{key: val})), nil
	default:
		return Pair{Key: key}, mismatch(Record, key, v)
	}
}

// Deserialize keeps numeric record keys as map keys. A key stored as a
// plain leaf or a "key[]" list comes back as that string or []any.
func (recordCodec) Deserialize(p Pair) (any, error) {
	decoded, err := qs.DecodeKeyed(*p.Value)
	if err != nil {
		return map[string]any{}, nil
	}
	if v, ok := decoded[p.Key]; ok {
		return v, nil
	}
	return map[string]any{}, nil
}
