package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/vango-dev/filterkit/internal/config"
	"github.com/vango-dev/filterkit/internal/errors"
	"github.com/vango-dev/filterkit/pkg/codec"
	"github.com/vango-dev/filterkit/pkg/qs"
)

// parseSets turns repeated --set name=value flags into typed values keyed by
// filter name. Names must be declared.
func parseSets(cfg *config.Config, sets []string) (map[string]any, error) {
	values := make(map[string]any, len(sets))
	for _, set := range sets {
		name, raw, ok := strings.Cut(set, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, errors.New(errors.CodeInvalidInput).
				WithDetail(fmt.Sprintf("--set %q is not name=value", set)).
				WithSuggestion("Write --set q=shoes")
		}

		decl, found := cfg.Lookup(name)
		if !found {
			return nil, errors.New(errors.CodeInvalidInput).
				WithDetail(fmt.Sprintf("filter %q is not declared", name)).
				WithSuggestion("Add it to the filters list of the declaration file")
		}

		v, err := parseValue(codec.Type(decl.Type).OrDefault(), raw)
		if err != nil {
			return nil, errors.New(errors.CodeInvalidInput).
				WithDetail(fmt.Sprintf("filter %q: %v", name, err)).
				Wrap(err)
		}
		values[name] = v
	}
	return values, nil
}

// parseValue converts a command-line string into the value the type's codec
// serializes. An empty string clears the filter.
func parseValue(t codec.Type, raw string) (any, error) {
	if raw == "" {
		return nil, nil
	}
	switch t {
	case codec.Multiple, codec.Radio:
		parts := strings.Split(raw, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		return parts, nil
	case codec.Boolean:
		switch {
		case strings.EqualFold(raw, codec.Yes):
			return true, nil
		case strings.EqualFold(raw, codec.No):
			return false, nil
		}
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("%q is not a boolean", raw)
		}
		return b, nil
	case codec.Record:
		m, err := qs.Decode(raw)
		if err != nil {
			return nil, err
		}
		return m, nil
	default:
		// text, number and date codecs accept strings.
		return raw, nil
	}
}
