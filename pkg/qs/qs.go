// Package qs encodes and decodes nested values using the bracket query-string
// convention:
//
//	sort[field]=name&sort[dir]=asc&tags[0]=go&tags[1]=web
//
// Encode flattens maps, slices and structs with go-playground/form and emits
// one pair per leaf. Decode rebuilds the nesting: every leaf comes back as a
// string, maps whose keys are all small array indices come back as []any.
package qs

import (
	"cmp"
	"fmt"
	"math"
	"net/url"
	"reflect"
	"slices"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/form/v4"
)

// ArrayLimit is the largest index that Decode turns into a slice element.
// Maps with a larger numeric key stay maps.
const ArrayLimit = 20

// TimeLayout is used to encode time.Time leaves.
const TimeLayout = "2006-01-02T15:04:05.000Z07:00"

// encoder renders nested values with bracket namespaces. Floats and times
// go through FormatScalar's rules instead of the encoder defaults.
var encoder = newEncoder()

func newEncoder() *form.Encoder {
	enc := form.NewEncoder()
	enc.SetNamespacePrefix("[")
	enc.SetNamespaceSuffix("]")
	enc.RegisterCustomTypeFunc(func(x any) ([]string, error) {
		return []string{x.(time.Time).UTC().Format(TimeLayout)}, nil
	}, time.Time{})
	enc.RegisterCustomTypeFunc(func(x any) ([]string, error) {
		return []string{formatFloat(x.(float64), 64)}, nil
	}, float64(0))
	enc.RegisterCustomTypeFunc(func(x any) ([]string, error) {
		return []string{formatFloat(float64(x.(float32)), 32)}, nil
	}, float32(0))
	return enc
}

type pair struct {
	segs  []string
	key   string
	value string
}

// Encode renders values as a query string without a leading '?'.
// Keys are ordered segment by segment: names sort as strings, array
// indices sort numerically. A nil top-level value renders as "key=".
// Leaves the encoder cannot represent, such as nil nested values, are left out.
func Encode(values map[string]any) string {
	var pairs []pair
	for k, v := range values {
		pairs = append(pairs, encodeKey(k, v)...)
	}
	slices.SortFunc(pairs, func(a, b pair) int { return compareSegs(a.segs, b.segs) })

	parts := make([]string, len(pairs))
	for i, p := range pairs {
		parts[i] = Escape(p.key) + "=" + Escape(p.value)
	}
	return strings.Join(parts, "&")
}

func encodeKey(k string, v any) []pair {
	switch val := v.(type) {
	case nil:
		return []pair{{segs: []string{k}, key: k}}
	case url.Values:
		flat := make(map[string]any, len(val))
		for name, vs := range val {
			if len(vs) == 1 {
				flat[name] = vs[0]
			} else {
				flat[name] = vs
			}
		}
		v = flat
	}

	// The encoder wraps top-level map keys in brackets too: "[k][a]".
	encoded, _ := encoder.Encode(map[string]any{k: v})
	prefix := "[" + k + "]"

	var pairs []pair
	for ns, vs := range encoded {
		rest, ok := strings.CutPrefix(ns, prefix)
		if !ok {
			continue
		}
		segs := append([]string{k}, splitKey("x" + rest)[1:]...)
		for _, value := range vs {
			pairs = append(pairs, pair{segs: segs, key: k + rest, value: value})
		}
	}
	return pairs
}

func compareSegs(a, b []string) int {
	for i := 0; i < len(a) && i < len(b); i++ {
		ai, aerr := strconv.Atoi(a[i])
		bi, berr := strconv.Atoi(b[i])
		if aerr == nil && berr == nil && ai != bi {
			return cmp.Compare(ai, bi)
		}
		if c := strings.Compare(a[i], b[i]); c != 0 {
			return c
		}
	}
	return cmp.Compare(len(a), len(b))
}

// Escape percent-encodes s for use as a query key or value.
// Spaces become %20 rather than '+'.
func Escape(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

// FormatScalar renders a scalar the way it appears in a query string.
func FormatScalar(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case bool:
		return strconv.FormatBool(val)
	case float64:
		return formatFloat(val, 64)
	case float32:
		return formatFloat(float64(val), 32)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case fmt.Stringer:
		return val.String()
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(rv.Int(), 10)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(rv.Uint(), 10)
	case reflect.Float32, reflect.Float64:
		return formatFloat(rv.Float(), 64)
	default:
		return fmt.Sprintf("%v", v)
	}
}

func formatFloat(f float64, bits int) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	}
	if abs := math.Abs(f); abs != 0 && (abs >= 1e21 || abs < 1e-6) {
		mant, exp, _ := strings.Cut(strconv.FormatFloat(f, 'e', -1, bits), "e")
		return mant + "e" + exp[:1] + strings.TrimLeft(exp[1:], "0")
	}
	return strconv.FormatFloat(f, 'f', -1, bits)
}

// Decode parses a query string (with or without a leading '?').
// Repeated plain keys collect into a slice, "a[]" appends. Maps keyed by
// small array indices come back as []any.
func Decode(query string) (map[string]any, error) {
	return decode(query, false)
}

// DecodeKeyed is Decode without the index-to-slice conversion at the first
// bracket level: "r[0]=a" decodes to map[string]any{"r": map[string]any{"0": "a"}}.
// Deeper levels convert as in Decode.
func DecodeKeyed(query string) (map[string]any, error) {
	return decode(query, true)
}

func decode(query string, keyed bool) (map[string]any, error) {
	query = strings.TrimPrefix(query, "?")
	root := make(map[string]any)
	if query == "" {
		return root, nil
	}

	for _, part := range strings.Split(query, "&") {
		if part == "" {
			continue
		}
		rawKey, rawValue, _ := strings.Cut(part, "=")
		key, err := url.QueryUnescape(rawKey)
		if err != nil {
			return nil, fmt.Errorf("qs: invalid key %q: %w", rawKey, err)
		}
		value, err := url.QueryUnescape(rawValue)
		if err != nil {
			return nil, fmt.Errorf("qs: invalid value for %q: %w", key, err)
		}
		if key == "" {
			continue
		}
		assign(root, splitKey(key), value)
	}

	for k, v := range root {
		if m, ok := v.(map[string]any); ok && keyed {
			for ck, child := range m {
				m[ck] = normalize(child)
			}
			continue
		}
		root[k] = normalize(v)
	}
	return root, nil
}

// splitKey turns "a[b][0]" into ["a", "b", "0"]. A key that does not follow
// the bracket grammar is returned whole.
func splitKey(key string) []string {
	open := strings.IndexByte(key, '[')
	if open <= 0 {
		return []string{key}
	}
	segs := []string{key[:open]}
	rest := key[open:]
	for len(rest) > 0 {
		if rest[0] != '[' {
			return []string{key}
		}
		end := strings.IndexByte(rest, ']')
		if end < 0 {
			return []string{key}
		}
		segs = append(segs, rest[1:end])
		rest = rest[end+1:]
	}
	return segs
}

func assign(container map[string]any, segs []string, value string) {
	key := segs[0]
	rest := segs[1:]

	if len(rest) == 0 {
		setLeaf(container, key, value)
		return
	}

	if rest[0] == "" && len(rest) == 1 {
		switch existing := container[key].(type) {
		case nil:
			container[key] = []any{value}
		case []any:
			container[key] = append(existing, value)
		case string:
			container[key] = []any{existing, value}
		case map[string]any:
			existing[strconv.Itoa(len(existing))] = value
		}
		return
	}

	child, ok := container[key].(map[string]any)
	if !ok {
		child = make(map[string]any)
		if list, isList := container[key].([]any); isList {
			for i, item := range list {
				child[strconv.Itoa(i)] = item
			}
		}
		container[key] = child
	}

	next := append([]string(nil), rest...)
	if next[0] == "" {
		next[0] = strconv.Itoa(len(child))
	}
	assign(child, next, value)
}

func setLeaf(container map[string]any, key, value string) {
	switch existing := container[key].(type) {
	case nil:
		container[key] = value
	case string:
		container[key] = []any{existing, value}
	case []any:
		container[key] = append(existing, value)
	default:
		container[key] = value
	}
}

func normalize(v any) any {
	switch val := v.(type) {
	case map[string]any:
		for k, child := range val {
			val[k] = normalize(child)
		}
		if list, ok := asList(val); ok {
			return list
		}
		return val
	case []any:
		for i, child := range val {
			val[i] = normalize(child)
		}
		return val
	default:
		return v
	}
}

// asList converts a map keyed by array indices into a compacted slice.
func asList(m map[string]any) ([]any, bool) {
	if len(m) == 0 {
		return nil, false
	}
	indices := make([]int, 0, len(m))
	for k := range m {
		i, err := strconv.Atoi(k)
		if err != nil || i < 0 || i > ArrayLimit || strconv.Itoa(i) != k {
			return nil, false
		}
		indices = append(indices, i)
	}
	sort.Ints(indices)
	list := make([]any, 0, len(indices))
	for _, i := range indices {
		list = append(list, m[strconv.Itoa(i)])
	}
	return list, true
}
