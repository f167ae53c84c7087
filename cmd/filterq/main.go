package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/vango-dev/filterkit/internal/config"
	"github.com/vango-dev/filterkit/internal/errors"
	"github.com/vango-dev/filterkit/pkg/filter"
	"github.com/vango-dev/filterkit/pkg/observe"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// app is the state shared by subcommands, filled in by the root command's
// PersistentPreRunE.
type app struct {
	configPath  string
	verbose     bool
	noColor     bool
	metrics     bool
	errorFormat string

	cfg      *config.Config
	logger   *slog.Logger
	registry *prometheus.Registry
}

func main() {
	a := &app{}
	if err := a.rootCmd().Execute(); err != nil {
		errors.Print(os.Stderr, err, a.errorFormat)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	return (&app{}).rootCmd()
}

func (a *app) rootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "filterq",
		Short: "Inspect filter forms from the command line",
		Long: `filterq loads a filter declaration file (filterq.yaml), applies values
and prints what a form bound to those filters would hold.

Examples:
  filterq query --set q=shoes --set tags=red,blue
  filterq values --format json
  filterq values -c shop.yaml --set sort='field=price&dir=asc'`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(errors.Styles(), a.errorFormat) {
				return errors.Newf(errors.CategoryCLI, "unknown error format %q", a.errorFormat).
					WithSuggestion("Use --error-format " + strings.Join(errors.Styles(), ", "))
			}
			switch cmd.Name() {
			case "version", "explain":
				return nil
			}
			return a.init(cmd.ErrOrStderr())
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&a.configPath, "config", "c", "", "declaration file (default: ./filterq.yaml)")
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "log session operations")
	flags.BoolVar(&a.noColor, "no-color", false, "disable colored error output")
	flags.BoolVar(&a.metrics, "metrics", false, "print operation metrics after the command")
	flags.StringVar(&a.errorFormat, "error-format", errors.StyleText, "error output: text, compact or json")

	rootCmd.AddCommand(
		queryCmd(a),
		valuesCmd(a),
		explainCmd(),
		versionCmd(),
	)

	return rootCmd
}

func (a *app) init(stderr io.Writer) error {
	if a.noColor {
		errors.DisableColors()
	}

	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if err := cfg.Check(); err != nil {
		return err
	}
	a.cfg = cfg

	level := parseLevel(cfg.Log.Level)
	if a.verbose {
		level = slog.LevelDebug
	}
	a.logger = slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))
	if cfg.Path() != "" {
		a.logger.Debug("loaded declarations", "path", cfg.Path(), "filters", len(cfg.Filters))
	}

	if a.metrics {
		a.registry = prometheus.NewRegistry()
	}
	return nil
}

// session creates a session and registers every declared filter.
func (a *app) session() (*filter.Session, error) {
	opts := []filter.Option{filter.WithLogger(a.logger)}
	if a.registry != nil {
		opts = append(opts, filter.WithObserver(observe.Prometheus(observe.WithRegistry(a.registry))))
	}

	s, err := filter.New(opts...)
	if err != nil {
		return nil, err
	}
	for _, props := range a.cfg.RegisterProps() {
		if _, err := s.Register(props); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// finish prints the metrics when --metrics was given.
func (a *app) finish(w io.Writer) error {
	if a.registry == nil {
		return nil
	}
	return writeMetrics(w, a.registry)
}

func parseLevel(s string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelWarn
	}
	return level
}

func versionCmd() *cobra.Command {
	var short bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			w := cmd.OutOrStdout()
			if short {
				fmt.Fprintln(w, version)
				return
			}
			fmt.Fprintf(w, "filterq %s (commit %s, built %s)\n", version, commit, date)
		},
	}

	cmd.Flags().BoolVarP(&short, "short", "s", false, "Print only version number")

	return cmd
}
