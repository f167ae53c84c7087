package config

import (
	stderrors "errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/vango-dev/filterkit/internal/errors"
	"github.com/vango-dev/filterkit/pkg/codec"
	"github.com/vango-dev/filterkit/pkg/filter"
)

const (
	// ConfigName is the base name of the declaration file, without extension.
	ConfigName = "filterq"

	// EnvPrefix prefixes environment overrides, e.g. FILTERQ_OUTPUT_FORMAT.
	EnvPrefix = "FILTERQ"

	// DefaultFormat is the default output format of the values command.
	DefaultFormat = "text"

	// DefaultLogLevel is the default CLI log level.
	DefaultLogLevel = "warn"
)

// Config is the filterq declaration file.
type Config struct {
	// Filters declares the form, in registration order.
	Filters []FilterConfig `mapstructure:"filters"`

	// Output controls how the values command prints.
	Output OutputConfig `mapstructure:"output"`

	// Log controls CLI logging.
	Log LogConfig `mapstructure:"log"`

	// configPath stores the path the config was loaded from.
	configPath string
}

// FilterConfig declares one field.
type FilterConfig struct {
	Name        string `mapstructure:"name"`
	Type        string `mapstructure:"type"`
	Default     any    `mapstructure:"default"`
	DisplayName string `mapstructure:"displayName"`
}

// OutputConfig configures the values command.
type OutputConfig struct {
	// Format is text, json or yaml.
	Format string `mapstructure:"format"`

	// Label prints display names instead of filter names.
	Label bool `mapstructure:"label"`
}

// LogConfig configures CLI logging.
type LogConfig struct {
	// Level is debug, info, warn or error.
	Level string `mapstructure:"level"`
}

// New creates a Config with default values and no filters.
func New() *Config {
	return &Config{
		Output: OutputConfig{
			Format: DefaultFormat,
			Label:  false,
		},
		Log: LogConfig{
			Level: DefaultLogLevel,
		},
	}
}

// SetDefaults registers the defaults with v so env-only configs work.
func SetDefaults(v *viper.Viper) {
	defaults := New()

	v.SetDefault("output.format", defaults.Output.Format)
	v.SetDefault("output.label", defaults.Output.Label)
	v.SetDefault("log.level", defaults.Log.Level)
}

// Load reads the declaration file at path. With an empty path it searches
// the working directory and ~/.config/filterq for filterq.{yaml,json,toml};
// a missing file is not an error and yields the defaults.
// Environment variables override file values: FILTERQ_OUTPUT_FORMAT=json.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	SetDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(ConfigName)
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", ConfigName))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !stderrors.As(err, &notFound) {
			return nil, errors.New(errors.CodeInvalidConfig).
				WithDetail("Failed to read " + describe(path)).
				WithSuggestion("Check that the file exists and is valid YAML, JSON or TOML").
				Wrap(err)
		}
	}

	cfg := New()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, errors.New(errors.CodeInvalidConfig).
			WithDetail("Failed to decode " + describe(v.ConfigFileUsed())).
			Wrap(err)
	}
	cfg.configPath = v.ConfigFileUsed()
	cfg.applyDefaults()

	return cfg, nil
}

func describe(path string) string {
	if path == "" {
		return "filterq configuration"
	}
	return path
}

// applyDefaults normalizes case and fills in empty fields.
func (c *Config) applyDefaults() {
	c.Output.Format = strings.ToLower(strings.TrimSpace(c.Output.Format))
	if c.Output.Format == "" {
		c.Output.Format = DefaultFormat
	}
	c.Log.Level = strings.ToLower(strings.TrimSpace(c.Log.Level))
	if c.Log.Level == "" {
		c.Log.Level = DefaultLogLevel
	}
	for i := range c.Filters {
		c.Filters[i].Type = strings.ToLower(strings.TrimSpace(c.Filters[i].Type))
	}
}

// Path returns the path the config was loaded from, or "" when no file was
// found.
func (c *Config) Path() string {
	return c.configPath
}

// RegisterProps converts the declared filters into registration props.
func (c *Config) RegisterProps() []filter.RegisterProps {
	props := make([]filter.RegisterProps, len(c.Filters))
	for i, f := range c.Filters {
		props[i] = filter.RegisterProps{
			Name:         f.Name,
			Type:         codec.Type(f.Type),
			DefaultValue: f.Default,
			DisplayName:  f.DisplayName,
		}
	}
	return props
}

// Lookup returns the declaration for name.
func (c *Config) Lookup(name string) (FilterConfig, bool) {
	for _, f := range c.Filters {
		if f.Name == name {
			return f, true
		}
	}
	return FilterConfig{}, false
}
