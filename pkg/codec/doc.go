// Package codec converts filter values between their typed Go form and the
// string form a filter store keeps.
//
// # Built-in types
//
//	text      string         stored unchanged
//	number    float64        shortest decimal ("42", "3.5", "NaN")
//	boolean   bool           "Yes" / "No"
//	date      time.Time      "2024-01-02T03:04:05.000Z"
//	multiple  []string       joined with ", "
//	radio     []string       same as multiple
//	record    map[string]any bracket query string nested under the key
//
// # Custom codecs
//
// Implement Codec directly, or write a typed IO and erase it:
//
//	color := codec.Erase[Color](codec.Funcs[Color]{
//	    SerializeFunc:   func(c Color, _ string) (string, error) { return c.Hex(), nil },
//	    DeserializeFunc: func(s, _ string) (Color, error) { return ParseHex(s) },
//	})
//	reg, err := codec.NewRegistry(codec.Custom{Name: "color", IO: color})
//
// Every codec in a Registry is wrapped with Safe, so nil typed values and
// unset stored values never reach the implementation.
package codec
