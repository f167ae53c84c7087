// Package errors provides structured, actionable error messages for filterkit.
//
// Every error carries a short code (e.g. "F001") that maps to a category, a
// one-line message and a longer explanation. Errors wrap the sentinel they
// describe, so callers can keep using errors.Is:
//
//	err := errors.New(errors.CodeUnknownCodec).
//	    WithSuggestion(`Register the type with filter.WithCustomCodecs`).
//	    Wrap(codec.ErrUnknownCodec)
//
//	errors.Is(err, codec.ErrUnknownCodec) // true
//	fmt.Print(err.Format())
//	// error: F001 [codec] Unknown filter type
//	//   The filter declares a type that has no codec in the session registry.
//	//   cause: unknown codec
//	//   hint: Register the type with filter.WithCustomCodecs
//
// # Categories
//
//   - codec: serialization failures (unknown type, type mismatch)
//   - config: invalid declaration files
//   - cli: bad command-line input
//
// # Output
//
// Print renders any error as text, compact (one line) or JSON. Codes and
// their templates are listed by Codes and Lookup.
package errors
