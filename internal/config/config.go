package config

import (
	"fmt"
	"log/slog"
	"os"
	"slices"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/kolah/swagcheck/internal/report"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// DefaultFile is read from the working directory when --config is not given.
const DefaultFile = "swagcheck.yaml"

type Config struct {
	Spec      string          `koanf:"spec"`
	Templates TemplatesConfig `koanf:"templates"`
	Output    OutputConfig    `koanf:"output"`
	Log       LogConfig       `koanf:"log"`
	Template  TemplateConfig  `koanf:"template"`
	Loader    LoaderConfig    `koanf:"loader"`
}

type TemplatesConfig struct {
	Dir string `koanf:"dir"`
}

type OutputConfig struct {
	Format string `koanf:"format"`
	Color  bool   `koanf:"color"`
}

type LogConfig struct {
	Level string `koanf:"level"`
}

type TemplateConfig struct {
	ReservedParameters []string `koanf:"reserved-parameters"`
	Concurrency        int      `koanf:"concurrency"`
}

type LoaderConfig struct {
	Validate bool `koanf:"validate"`
}

var validLogLevels = []string{"debug", "info", "warn", "error"}

func defaults() map[string]any {
	return map[string]any{
		"output.format":                report.FormatText,
		"output.color":                 true,
		"log.level":                    "warn",
		"template.reserved-parameters": []string{"X-Fields"},
		"template.concurrency":         1,
		"loader.validate":              false,
	}
}

// BindFlags binds the configuration flags shared by every command.
func BindFlags(cmd *cobra.Command) {
	flags := cmd.PersistentFlags()

	flags.StringP("config", "c", "", "Config file path (default: "+DefaultFile+")")
	flags.StringP("spec", "s", "", "Swagger/OpenAPI document path")
	flags.String("templates", "", "Custom report templates directory")
	flags.StringP("format", "f", "", "Output format: "+strings.Join(report.Formats, ", "))
	flags.Bool("no-color", false, "Disable coloured output")
	flags.String("log-level", "", "Log level: "+strings.Join(validLogLevels, ", "))
	flags.StringSlice("reserved-param", nil, "Parameter names skipped rather than templated")
	flags.Int("concurrency", 0, "Operations templated in parallel")
	flags.Bool("validate", false, "Validate the document before templating (OpenAPI 3.x)")
}

// Load merges defaults, the config file and flags, in that order.
func Load(cmd *cobra.Command) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("loading defaults: %w", err)
	}

	configFile := getString(cmd, "config")
	if configFile == "" {
		if _, err := os.Stat(DefaultFile); err == nil {
			configFile = DefaultFile
		}
	}

	if configFile != "" {
		if err := k.Load(file.Provider(configFile), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	flagsMap := buildFlagsMap(cmd)
	if len(flagsMap) > 0 {
		if err := k.Load(confmap.Provider(flagsMap, "."), nil); err != nil {
			return nil, fmt.Errorf("loading flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func getString(cmd *cobra.Command, name string) string {
	if v, err := cmd.Flags().GetString(name); err == nil && v != "" {
		return v
	}
	if v, err := cmd.PersistentFlags().GetString(name); err == nil && v != "" {
		return v
	}
	return ""
}

// lookup reads a flag from the local set, falling back to the persistent one.
func lookup[T any](cmd *cobra.Command, name string, get func(*pflag.FlagSet, string) (T, error)) T {
	if v, err := get(cmd.Flags(), name); err == nil {
		return v
	}
	v, _ := get(cmd.PersistentFlags(), name)
	return v
}

func buildFlagsMap(cmd *cobra.Command) map[string]any {
	m := make(map[string]any)

	changed := func(name string) bool {
		return cmd.Flags().Changed(name) || cmd.PersistentFlags().Changed(name)
	}

	if v := getString(cmd, "spec"); v != "" {
		m["spec"] = v
	}
	if v := getString(cmd, "templates"); v != "" {
		m["templates.dir"] = v
	}
	if v := getString(cmd, "format"); v != "" {
		m["output.format"] = v
	}
	if v := getString(cmd, "log-level"); v != "" {
		m["log.level"] = v
	}
	if changed("no-color") {
		m["output.color"] = !lookup(cmd, "no-color", (*pflag.FlagSet).GetBool)
	}
	if changed("reserved-param") {
		m["template.reserved-parameters"] = lookup(cmd, "reserved-param", (*pflag.FlagSet).GetStringSlice)
	}
	if changed("concurrency") {
		m["template.concurrency"] = lookup(cmd, "concurrency", (*pflag.FlagSet).GetInt)
	}
	if changed("validate") {
		m["loader.validate"] = lookup(cmd, "validate", (*pflag.FlagSet).GetBool)
	}

	return m
}

func (c *Config) Validate() error {
	if c.Spec == "" {
		return fmt.Errorf("spec file is required")
	}
	if !slices.Contains(report.Formats, c.Output.Format) {
		return fmt.Errorf("invalid output format: %s (valid: %s)", c.Output.Format, strings.Join(report.Formats, ", "))
	}
	if _, err := c.LogLevel(); err != nil {
		return err
	}
	if c.Template.Concurrency < 0 {
		return fmt.Errorf("invalid concurrency: %d (must not be negative)", c.Template.Concurrency)
	}
	return nil
}

// LogLevel returns the configured slog level. An empty level means warn.
func (c *Config) LogLevel() (slog.Level, error) {
	switch strings.ToLower(c.Log.Level) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "", "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("invalid log level: %s (valid: %s)", c.Log.Level, strings.Join(validLogLevels, ", "))
	}
}
