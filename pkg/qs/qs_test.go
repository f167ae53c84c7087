package qs

import (
	"math"
	"net/url"
	"reflect"
	"testing"
	"time"
)

func TestEncode(t *testing.T) {
	tests := []struct {
		name string
		in   map[string]any
		want string
	}{
		{"Empty", map[string]any{}, ""},
		{"Flat", map[string]any{"q": "hello"}, "q=hello"},
		{"SortedKeys", map[string]any{"b": "2", "a": "1"}, "a=1&b=2"},
		{"Space", map[string]any{"q": "a b"}, "q=a%20b"},
		{"Nested", map[string]any{"sort": map[string]any{"field": "name", "dir": "asc"}}, "sort%5Bdir%5D=asc&sort%5Bfield%5D=name"},
		{"Slice", map[string]any{"tags": []string{"go", "web"}}, "tags%5B0%5D=go&tags%5B1%5D=web"},
		{"Nil", map[string]any{"x": nil}, "x="},
		{"Bool", map[string]any{"on": true}, "on=true"},
		{"Int", map[string]any{"page": 3}, "page=3"},
		{"Float", map[string]any{"ratio": 0.5}, "ratio=0.5"},
		{"Time", map[string]any{"at": time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)}, "at=2024-01-02T03%3A04%3A05.000Z"},
		{"StringMap", map[string]any{"m": map[string]string{"k": "v"}}, "m%5Bk%5D=v"},
		{"EmptyNested", map[string]any{"m": map[string]any{}}, ""},
		{"IndexOrder", map[string]any{"t": []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10}}, "t%5B0%5D=0&t%5B1%5D=1&t%5B2%5D=2&t%5B3%5D=3&t%5B4%5D=4&t%5B5%5D=5&t%5B6%5D=6&t%5B7%5D=7&t%5B8%5D=8&t%5B9%5D=9&t%5B10%5D=10"},
		{"NestedFloat", map[string]any{"r": map[string]any{"max": 1e21, "min": 0.25}}, "r%5Bmax%5D=1e%2B21&r%5Bmin%5D=0.25"},
		{"NestedTime", map[string]any{"r": []any{time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)}}, "r%5B0%5D=2024-01-02T00%3A00%3A00.000Z"},
		{"Struct", map[string]any{"p": struct {
			Min int `form:"min"`
			Max int `form:"max"`
		}{1, 9}}, "p%5Bmax%5D=9&p%5Bmin%5D=1"},
		{"URLValues", map[string]any{"u": url.Values{"a": {"1"}, "b": {"2", "3"}}}, "u%5Ba%5D=1&u%5Bb%5D%5B0%5D=2&u%5Bb%5D%5B1%5D=3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Encode(tt.in); got != tt.want {
				t.Errorf("Encode() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDecode(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want map[string]any
	}{
		{"Empty", "", map[string]any{}},
		{"QuestionMark", "?q=hello", map[string]any{"q": "hello"}},
		{"Nested", "a%5Bb%5D=1&a%5Bc%5D%5Bd%5D=2", map[string]any{"a": map[string]any{"b": "1", "c": map[string]any{"d": "2"}}}},
		{"RawBrackets", "a[b]=1", map[string]any{"a": map[string]any{"b": "1"}}},
		{"Indices", "t[0]=x&t[1]=y", map[string]any{"t": []any{"x", "y"}}},
		{"SparseIndicesCompact", "t[3]=y&t[1]=x", map[string]any{"t": []any{"x", "y"}}},
		{"LargeIndexStaysMap", "t[21]=x", map[string]any{"t": map[string]any{"21": "x"}}},
		{"Append", "t[]=x&t[]=y", map[string]any{"t": []any{"x", "y"}}},
		{"Repeated", "t=x&t=y", map[string]any{"t": []any{"x", "y"}}},
		{"PlusIsSpace", "q=a+b", map[string]any{"q": "a b"}},
		{"NoValue", "flag", map[string]any{"flag": ""}},
		{"Malformed", "a[b=1", map[string]any{"a[b": "1"}},
		{"SkipsEmptyPairs", "a=1&&b=2", map[string]any{"a": "1", "b": "2"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decode(tt.in)
			if err != nil {
				t.Fatalf("Decode() error: %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Decode() = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestDecodeKeyed(t *testing.T) {
	got, err := DecodeKeyed("r%5B0%5D=a&r%5B3%5D=b&r[tags][0]=x&t[]=y")
	if err != nil {
		t.Fatalf("DecodeKeyed() error: %v", err)
	}
	want := map[string]any{
		"r": map[string]any{"0": "a", "3": "b", "tags": []any{"x"}},
		"t": []any{"y"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("DecodeKeyed() = %#v, want %#v", got, want)
	}
}

func TestDecodeInvalidEscape(t *testing.T) {
	if _, err := Decode("a=%zz"); err == nil {
		t.Error("expected error for invalid escape")
	}
}

func TestEncodeDecodeNested(t *testing.T) {
	in := map[string]any{
		"filter": map[string]any{
			"name":  "a b&c",
			"range": map[string]any{"min": "1", "max": "9"},
		},
	}

	got, err := Decode(Encode(in))
	if err != nil {
		t.Fatalf("Decode() error: %v", err)
	}
	if !reflect.DeepEqual(got, in) {
		t.Errorf("round trip = %#v, want %#v", got, in)
	}
}

func TestFormatScalar(t *testing.T) {
	tests := []struct {
		in   any
		want string
	}{
		{"x", "x"},
		{true, "true"},
		{42, "42"},
		{int8(-3), "-3"},
		{uint(7), "7"},
		{3.25, "3.25"},
		{float32(1.5), "1.5"},
		{math.NaN(), "NaN"},
		{math.Inf(1), "Infinity"},
		{math.Inf(-1), "-Infinity"},
		{1e21, "1e+21"},
		{-2.5e22, "-2.5e+22"},
		{1.5e-7, "1.5e-7"},
		{0.000001, "0.000001"},
		{123456789.0, "123456789"},
	}

	for _, tt := range tests {
		if got := FormatScalar(tt.in); got != tt.want {
			t.Errorf("FormatScalar(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
