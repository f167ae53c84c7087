package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/vango-dev/filterkit/internal/errors"
)

func explainCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "explain [code]",
		Short: "Describe an error code",
		Long: `Print the category, message and explanation registered for an error
code such as F002. Without a code, list every code.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			if len(args) == 0 {
				tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
				for _, code := range errors.Codes() {
					tmpl, _ := errors.Lookup(code)
					fmt.Fprintf(tw, "%s\t%s\t%s\n", code, tmpl.Category, tmpl.Message)
				}
				return tw.Flush()
			}

			code := strings.ToUpper(args[0])
			tmpl, ok := errors.Lookup(code)
			if !ok {
				return errors.New(errors.CodeInvalidInput).
					WithDetail(fmt.Sprintf("no error code %q", args[0])).
					WithSuggestion("Run filterq explain to list the codes")
			}
			fmt.Fprintf(w, "%s [%s] %s\n", code, tmpl.Category, tmpl.Message)
			if tmpl.Detail != "" {
				fmt.Fprintf(w, "\n%s\n", tmpl.Detail)
			}
			return nil
		},
	}
}
