package config

import (
	"fmt"
	"slices"
	"strings"

	"github.com/vango-dev/filterkit/internal/errors"
	"github.com/vango-dev/filterkit/pkg/codec"
)

// ValidationError is a single validation failure.
type ValidationError struct {
	Field   string // The config field path, e.g. "filters[2].type"
	Value   any    // The invalid value
	Message string // Human-readable error description
}

// Error implements the error interface for ValidationError.
func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (got: %v)", e.Field, e.Message, e.Value)
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors []ValidationError

// Error implements the error interface for ValidationErrors.
func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	if len(e) == 1 {
		return e[0].Error()
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%d validation errors:\n", len(e))
	for i, err := range e {
		fmt.Fprintf(&sb, "  %d. %s\n", i+1, err.Error())
	}
	return sb.String()
}

// ValidFormats returns the accepted output formats.
func ValidFormats() []string {
	return []string{"text", "json", "yaml"}
}

// ValidLogLevels returns the accepted log levels.
func ValidLogLevels() []string {
	return []string{"debug", "info", "warn", "error"}
}

// Validate checks the Config and returns every problem found, or nil.
// Filter types are checked against the built-in codecs.
func (c *Config) Validate() ValidationErrors {
	var errs ValidationErrors

	// Declarations can only name built-in types.
	builtins, _ := codec.NewRegistry()

	seen := make(map[string]bool, len(c.Filters))
	for i, f := range c.Filters {
		field := fmt.Sprintf("filters[%d]", i)
		switch {
		case strings.TrimSpace(f.Name) == "":
			errs = append(errs, ValidationError{Field: field + ".name", Value: f.Name, Message: "name is required"})
		case seen[f.Name]:
			errs = append(errs, ValidationError{Field: field + ".name", Value: f.Name, Message: "duplicate filter name"})
		}
		seen[f.Name] = true

		if !builtins.Has(codec.Type(f.Type)) {
			errs = append(errs, ValidationError{Field: field + ".type", Value: f.Type, Message: "unknown filter type"})
		}
	}

	if !slices.Contains(ValidFormats(), c.Output.Format) {
		errs = append(errs, ValidationError{
			Field:   "output.format",
			Value:   c.Output.Format,
			Message: "must be one of " + strings.Join(ValidFormats(), ", "),
		})
	}
	if !slices.Contains(ValidLogLevels(), c.Log.Level) {
		errs = append(errs, ValidationError{
			Field:   "log.level",
			Value:   c.Log.Level,
			Message: "must be one of " + strings.Join(ValidLogLevels(), ", "),
		})
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}

// Check wraps Validate's result in a FilterError, or returns nil.
func (c *Config) Check() error {
	errs := c.Validate()
	if errs == nil {
		return nil
	}
	return errors.New(errors.CodeInvalidConfig).
		WithDetail(strings.TrimSpace(errs.Error())).
		WithSuggestion("Fix the listed fields in " + describe(c.configPath))
}
