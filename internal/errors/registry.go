package errors

import "sort"

// Error codes.
const (
	CodeUnknownCodec  = "F001"
	CodeTypeMismatch  = "F002"
	CodeMalformed     = "F003"
	CodeInvalidCodec  = "F004"
	CodeInvalidConfig = "F005"
	CodeInvalidInput  = "F006"
)

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category Category
	Message  string
	Detail   string
}

var registry = map[string]ErrorTemplate{
	CodeUnknownCodec: {
		Category: CategoryCodec,
		Message:  "Unknown filter type",
		Detail:   "The filter declares a type that has no codec in the session registry.",
	},
	CodeTypeMismatch: {
		Category: CategoryCodec,
		Message:  "Value does not match the filter type",
		Detail:   "The codec for this filter type cannot serialize a value of the given Go type.",
	},
	CodeMalformed: {
		Category: CategoryCodec,
		Message:  "Stored value could not be decoded",
		Detail:   "The stored string is not in the format the codec writes. Built-in codecs return a best-effort value instead of this error.",
	},
	CodeInvalidCodec: {
		Category: CategoryCodec,
		Message:  "Invalid custom codec",
		Detail:   "Custom codecs need a non-empty name and a non-nil implementation.",
	},
	CodeInvalidConfig: {
		Category: CategoryConfig,
		Message:  "Invalid configuration",
		Detail:   "The filter declaration file could not be loaded or failed validation.",
	},
	CodeInvalidInput: {
		Category: CategoryCLI,
		Message:  "Invalid command-line input",
	},
}

// Lookup returns the template registered for code.
func Lookup(code string) (ErrorTemplate, bool) {
	t, ok := registry[code]
	return t, ok
}

// Codes returns the registered codes in order.
func Codes() []string {
	codes := make([]string, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}
