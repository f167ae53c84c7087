package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vango-dev/filterkit/pkg/filter"
)

func queryCmd(a *app) *cobra.Command {
	var sets []string

	cmd := &cobra.Command{
		Use:   "query",
		Short: "Print the search string of the declared filters",
		Long: `Register the declared filters, apply --set values and print the
resulting search string. Unset filters are left out.

Examples:
  filterq query                              # defaults only
  filterq query --set q=shoes --set active=yes
  filterq query --set tags=red,blue          # multiple / radio
  filterq query --set 'sort=field=price&dir=asc'`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.apply(sets)
			if err != nil {
				return err
			}
			search, err := s.SearchString()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), search)
			return a.finish(cmd.ErrOrStderr())
		},
	}

	cmd.Flags().StringArrayVar(&sets, "set", nil, "set a filter, name=value (repeatable)")

	return cmd
}

// apply builds a session and applies the --set values in one SetValues call.
func (a *app) apply(sets []string) (*filter.Session, error) {
	s, err := a.session()
	if err != nil {
		return nil, err
	}
	if len(sets) == 0 {
		return s, nil
	}
	values, err := parseSets(a.cfg, sets)
	if err != nil {
		return nil, err
	}
	if err := s.SetValues(values); err != nil {
		return nil, err
	}
	return s, nil
}
