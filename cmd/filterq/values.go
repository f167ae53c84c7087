package main

import (
	"fmt"
	"io"
	"math"
	"text/tabwriter"
	"time"

	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/vango-dev/filterkit/internal/errors"
	"github.com/vango-dev/filterkit/pkg/codec"
	"github.com/vango-dev/filterkit/pkg/filter"
	"github.com/vango-dev/filterkit/pkg/qs"
)

// valueRow is one set filter as printed by the values command.
type valueRow struct {
	Key    string `json:"key" yaml:"key"`
	Label  string `json:"label" yaml:"label"`
	Stored string `json:"stored" yaml:"stored"`
	Value  any    `json:"value" yaml:"value"`
}

func valuesCmd(a *app) *cobra.Command {
	var (
		sets   []string
		format string
	)

	cmd := &cobra.Command{
		Use:   "values",
		Short: "Print the stored and typed value of every set filter",
		Long: `Register the declared filters, apply --set values and print every
filter that holds a value, with its stored string and its typed value.

Formats:
  text   aligned columns (default)
  json   array of {key, label, stored, value}
  yaml   same as json, in YAML`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if format == "" {
				format = a.cfg.Output.Format
			}

			s, err := a.apply(sets)
			if err != nil {
				return err
			}
			rows, err := collectRows(s)
			if err != nil {
				return err
			}
			if err := writeRows(cmd.OutOrStdout(), format, rows, a.cfg.Output.Label); err != nil {
				return err
			}
			return a.finish(cmd.ErrOrStderr())
		},
	}

	cmd.Flags().StringArrayVar(&sets, "set", nil, "set a filter, name=value (repeatable)")
	cmd.Flags().StringVarP(&format, "format", "f", "", "output format: text, json or yaml (default from config)")

	return cmd
}

// collectRows zips the serialized and deserialized views, which list the
// same filters in the same order.
func collectRows(s *filter.Session) ([]valueRow, error) {
	typed, err := s.DeserializedValues()
	if err != nil {
		return nil, err
	}
	stored := s.SerializedValues()

	rows := make([]valueRow, len(stored))
	for i, out := range stored {
		rows[i] = valueRow{Key: out.Key, Label: out.Label, Stored: out.Value}
		if i < len(typed) {
			rows[i].Value = printable(typed[i].Value)
		}
	}
	return rows, nil
}

// printable makes typed values safe for every encoder: JSON has no NaN and
// dates print in their stored layout.
func printable(v any) any {
	switch val := v.(type) {
	case float64:
		if math.IsNaN(val) || math.IsInf(val, 0) {
			return qs.FormatScalar(val)
		}
	case time.Time:
		return val.Format(codec.DateLayout)
	}
	return v
}

func writeRows(w io.Writer, format string, rows []valueRow, label bool) error {
	switch format {
	case "json":
		data, err := json.MarshalIndent(rows, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(w, "%s\n", data)
		return err
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(rows); err != nil {
			return err
		}
		return enc.Close()
	case "text":
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		for _, r := range rows {
			name := r.Key
			if label {
				name = r.Label
			}
			fmt.Fprintf(tw, "%s\t%s\t%v\n", name, r.Stored, r.Value)
		}
		return tw.Flush()
	default:
		return errors.New(errors.CodeInvalidInput).
			WithDetail(fmt.Sprintf("unknown format %q", format)).
			WithSuggestion("Use --format text, json or yaml")
	}
}
