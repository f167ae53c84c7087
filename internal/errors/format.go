package errors

import (
	stderrors "errors"
	"fmt"
	"io"
	"strings"

	json "github.com/goccy/go-json"
)

// ANSI color codes for terminal output.
const (
	colorReset = "\033[0m"
	colorRed   = "\033[31m"
	colorCyan  = "\033[36m"
	colorGray  = "\033[90m"
	colorBold  = "\033[1m"
)

// colorEnabled controls whether ANSI colors are used.
var colorEnabled = true

// DisableColors disables ANSI color output.
func DisableColors() {
	colorEnabled = false
}

// EnableColors enables ANSI color output.
func EnableColors() {
	colorEnabled = true
}

func color(code, text string) string {
	if !colorEnabled {
		return text
	}
	return code + text + colorReset
}

func red(text string) string  { return color(colorRed, text) }
func cyan(text string) string { return color(colorCyan, text) }
func gray(text string) string { return color(colorGray, text) }
func bold(text string) string { return color(colorBold, text) }

// Format returns the error formatted for terminal display:
//
//	F005 [config] Invalid configuration
//	  detail, wrapped at 72 columns
//	  cause: underlying error
//	  hint: suggestion
func (e *FilterError) Format() string {
	var b strings.Builder

	head := e.Message
	if e.Code != "" {
		head = bold(e.Code) + " " + gray("["+string(e.Category)+"]") + " " + e.Message
	}
	fmt.Fprintf(&b, "%s %s\n", red("error:"), head)

	for _, para := range strings.Split(e.Detail, "\n") {
		for _, line := range wrapText(para, 72) {
			fmt.Fprintf(&b, "  %s\n", line)
		}
	}
	if e.Wrapped != nil {
		fmt.Fprintf(&b, "  %s %s\n", gray("cause:"), e.Wrapped.Error())
	}
	if e.Suggestion != "" {
		fmt.Fprintf(&b, "  %s %s\n", cyan("hint:"), e.Suggestion)
	}

	return b.String()
}

// FormatCompact returns the error on a single line: code, message and cause.
func (e *FilterError) FormatCompact() string {
	msg := e.Message
	if e.Code != "" {
		msg = e.Code + ": " + msg
	}
	if e.Wrapped != nil {
		msg += ": " + e.Wrapped.Error()
	}
	return msg
}

type jsonError struct {
	Code       string   `json:"code,omitempty"`
	Category   Category `json:"category"`
	Message    string   `json:"message"`
	Detail     string   `json:"detail,omitempty"`
	Cause      string   `json:"cause,omitempty"`
	Suggestion string   `json:"suggestion,omitempty"`
}

// FormatJSON returns the error as a JSON object.
func (e *FilterError) FormatJSON() string {
	out := jsonError{
		Code:       e.Code,
		Category:   e.Category,
		Message:    e.Message,
		Detail:     e.Detail,
		Suggestion: e.Suggestion,
	}
	if e.Wrapped != nil {
		out.Cause = e.Wrapped.Error()
	}
	data, err := json.Marshal(out)
	if err != nil {
		return fmt.Sprintf(`{"message":%q}`, e.Message)
	}
	return string(data)
}

// wrapText breaks one paragraph into lines of at most width bytes,
// keeping indentation of the first line.
func wrapText(text string, width int) []string {
	trimmed := strings.TrimLeft(text, " ")
	if trimmed == "" {
		return nil
	}
	indent := text[:len(text)-len(trimmed)]

	var lines []string
	line := indent
	for _, word := range strings.Fields(trimmed) {
		if len(line) > len(indent) && len(line)+1+len(word) > width {
			lines = append(lines, line)
			line = indent
		}
		if len(line) > len(indent) {
			line += " "
		}
		line += word
	}
	return append(lines, line)
}

// Output styles accepted by Print.
const (
	StyleText    = "text"
	StyleCompact = "compact"
	StyleJSON    = "json"
)

// Styles returns the accepted output styles.
func Styles() []string {
	return []string{StyleText, StyleCompact, StyleJSON}
}

// Print writes err to w in the given style. Compact and JSON output wrap
// plain errors as CodeInvalidInput so every line carries a code. Unknown
// styles print as text.
func Print(w io.Writer, err error, style string) {
	switch style {
	case StyleCompact:
		fmt.Fprintln(w, FromError(err, CodeInvalidInput).FormatCompact())
	case StyleJSON:
		fmt.Fprintln(w, FromError(err, CodeInvalidInput).FormatJSON())
	default:
		PrintError(w, err)
	}
}

// PrintError writes a formatted error to w.
func PrintError(w io.Writer, err error) {
	var fe *FilterError
	if stderrors.As(err, &fe) {
		fmt.Fprint(w, fe.Format())
		return
	}
	fmt.Fprintf(w, "%s %s\n", red("error:"), err.Error())
}
