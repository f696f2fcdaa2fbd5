// Package config loads tmux-window-name configuration.
//
// Precedence (highest to lowest):
//  1. Environment variables (TMUX_WINDOW_NAME_*, OTEL_EXPORTER_OTLP_*)
//  2. tmux options (@tmux_window_name_*)
//  3. Config file
//  4. Built-in defaults
//
// Config file search order:
//  1. --config flag
//  2. .tmux-window-name.yaml in current directory
//  3. $XDG_CONFIG_HOME/tmux-window-name/config.yaml
//  4. ~/.config/tmux-window-name/config.yaml
package config

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/timvw/tmux-window-name/internal/model"
	"github.com/timvw/tmux-window-name/internal/naming"
)

// OptionPrefix is prepended to every option name when stored in tmux.
const OptionPrefix = "@tmux_window_name_"

// Config holds all tmux-window-name configuration.
type Config struct {
	Shells          []string
	DirPrograms     []string
	IgnoredPrograms []string
	MaxNameLen      int
	UseTilde        bool
	IconStyle       model.IconStyle
	CustomIcons     map[string]string
	ShowProgramArgs bool

	SubstituteSets    []naming.SubstitutionRule
	DirSubstituteSets []naming.SubstitutionRule

	LogLevel string

	// OTEL
	OTELEndpoint string
	OTELHeaders  string // Comma-separated key=value pairs

	// ConfigFile is the path to the config file that was loaded (empty if none).
	ConfigFile string
}

// fileConfig is the on-disk shape. Pointers distinguish "unset" from zero.
type fileConfig struct {
	Shells            *[]string          `yaml:"shells"`
	DirPrograms       *[]string          `yaml:"dir_programs"`
	IgnoredPrograms   *[]string          `yaml:"ignored_programs"`
	MaxNameLen        *int               `yaml:"max_name_len"`
	UseTilde          *bool              `yaml:"use_tilde"`
	IconStyle         *model.IconStyle   `yaml:"icon_style"`
	CustomIcons       *map[string]string `yaml:"custom_icons"`
	ShowProgramArgs   *bool              `yaml:"show_program_args"`
	SubstituteSets    *[][]string        `yaml:"substitute_sets"`
	DirSubstituteSets *[][]string        `yaml:"dir_substitute_sets"`
	LogLevel          string             `yaml:"log_level"`
	OTELEndpoint      string             `yaml:"otel_endpoint"`
	OTELHeaders       string             `yaml:"otel_headers"`
}

// OptionReader reads global tmux options. mux.Multiplexer satisfies it.
type OptionReader interface {
	GlobalOption(ctx context.Context, name string) (string, bool, error)
}

// Defaults returns a Config with all default values.
func Defaults() *Config {
	return &Config{
		Shells:          []string{"bash", "fish", "sh", "zsh"},
		DirPrograms:     []string{"nvim", "vim", "vi", "git"},
		IgnoredPrograms: []string{},
		MaxNameLen:      20,
		IconStyle:       model.IconStyleName,
		CustomIcons:     map[string]string{},
		ShowProgramArgs: true,
		SubstituteSets:  naming.DefaultSubstituteSets(),
		LogLevel:        "WARNING",
	}
}

// Load reads configuration from the config file and environment. tmux
// options are layered in between by ApplyTmuxOptions, which needs a server.
// An explicit path that cannot be read is an error; a missing default
// file is not.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	var data []byte
	var err error
	if path != "" {
		if data, err = os.ReadFile(path); err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	} else {
		path, data, err = findConfigFile()
	}
	if err == nil {
		var fileCfg fileConfig
		if err := yaml.Unmarshal(data, &fileCfg); err != nil {
			return nil, fmt.Errorf("parsing config file %s: %w", path, err)
		}
		cfg.ConfigFile = path
		if err := mergeFile(cfg, &fileCfg); err != nil {
			return nil, fmt.Errorf("config file %s: %w", path, err)
		}
	}

	mergeEnv(cfg)
	return cfg, nil
}

// findConfigFile searches for a config file and returns its path and contents.
func findConfigFile() (string, []byte, error) {
	if data, err := os.ReadFile(".tmux-window-name.yaml"); err == nil {
		return ".tmux-window-name.yaml", data, nil
	}

	var dirs []string
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		dirs = append(dirs, xdg)
	}
	if home, err := os.UserHomeDir(); err == nil {
		dirs = append(dirs, filepath.Join(home, ".config"))
	}
	for _, dir := range dirs {
		path := filepath.Join(dir, "tmux-window-name", "config.yaml")
		if data, err := os.ReadFile(path); err == nil {
			return path, data, nil
		}
	}

	return "", nil, fmt.Errorf("no config file found")
}

// mergeFile applies set file values onto cfg.
func mergeFile(cfg *Config, file *fileConfig) error {
	if file.Shells != nil {
		cfg.Shells = *file.Shells
	}
	if file.DirPrograms != nil {
		cfg.DirPrograms = *file.DirPrograms
	}
	if file.IgnoredPrograms != nil {
		cfg.IgnoredPrograms = *file.IgnoredPrograms
	}
	if file.MaxNameLen != nil {
		if *file.MaxNameLen <= 0 {
			return fmt.Errorf("max_name_len must be positive, got %d", *file.MaxNameLen)
		}
		cfg.MaxNameLen = *file.MaxNameLen
	}
	if file.UseTilde != nil {
		cfg.UseTilde = *file.UseTilde
	}
	if file.IconStyle != nil {
		cfg.IconStyle = *file.IconStyle
	}
	if file.CustomIcons != nil {
		cfg.CustomIcons = *file.CustomIcons
	}
	if file.ShowProgramArgs != nil {
		cfg.ShowProgramArgs = *file.ShowProgramArgs
	}
	if file.SubstituteSets != nil {
		rules, err := CompileRules(*file.SubstituteSets)
		if err != nil {
			return fmt.Errorf("substitute_sets: %w", err)
		}
		cfg.SubstituteSets = rules
	}
	if file.DirSubstituteSets != nil {
		rules, err := CompileRules(*file.DirSubstituteSets)
		if err != nil {
			return fmt.Errorf("dir_substitute_sets: %w", err)
		}
		cfg.DirSubstituteSets = rules
	}
	if file.LogLevel != "" {
		lvl, err := ParseLogLevel(file.LogLevel)
		if err != nil {
			return err
		}
		cfg.LogLevel = lvl
	}
	if file.OTELEndpoint != "" {
		cfg.OTELEndpoint = file.OTELEndpoint
	}
	if file.OTELHeaders != "" {
		cfg.OTELHeaders = file.OTELHeaders
	}
	return nil
}

// mergeEnv applies environment variables onto cfg. Env always wins.
func mergeEnv(cfg *Config) {
	if v := os.Getenv("TMUX_WINDOW_NAME_LOG_LEVEL"); v != "" {
		if lvl, err := ParseLogLevel(v); err == nil {
			cfg.LogLevel = lvl
		}
	}
	if v := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"); v != "" {
		cfg.OTELEndpoint = v
	}
	if v := os.Getenv("OTEL_EXPORTER_OTLP_HEADERS"); v != "" {
		cfg.OTELHeaders = v
	}
}

// option binds a tmux option name to the parser that applies it.
type option struct {
	name  string
	apply func(cfg *Config, raw string) error
}

var options = []option{
	{"shells", func(c *Config, raw string) (err error) {
		c.Shells, err = keep(c.Shells, ParseStringList, raw)
		return err
	}},
	{"dir_programs", func(c *Config, raw string) (err error) {
		c.DirPrograms, err = keep(c.DirPrograms, ParseStringList, raw)
		return err
	}},
	{"ignored_programs", func(c *Config, raw string) (err error) {
		c.IgnoredPrograms, err = keep(c.IgnoredPrograms, ParseStringList, raw)
		return err
	}},
	{"max_name_len", func(c *Config, raw string) (err error) {
		c.MaxNameLen, err = keep(c.MaxNameLen, ParsePositiveInt, raw)
		return err
	}},
	{"use_tilde", func(c *Config, raw string) (err error) {
		c.UseTilde, err = keep(c.UseTilde, ParseBool, raw)
		return err
	}},
	// An unknown style falls back to the plain name style, not the file's.
	{"icon_style", func(c *Config, raw string) (err error) {
		c.IconStyle, err = keep(model.IconStyleName, ParseIconStyle, raw)
		return err
	}},
	{"custom_icons", func(c *Config, raw string) (err error) {
		c.CustomIcons, err = keep(c.CustomIcons, ParseStringMap, raw)
		return err
	}},
	{"show_program_args", func(c *Config, raw string) (err error) {
		c.ShowProgramArgs, err = keep(c.ShowProgramArgs, ParseBool, raw)
		return err
	}},
	{"substitute_sets", func(c *Config, raw string) (err error) {
		c.SubstituteSets, err = keep(c.SubstituteSets, ParseRules, raw)
		return err
	}},
	{"dir_substitute_sets", func(c *Config, raw string) (err error) {
		c.DirSubstituteSets, err = keep(c.DirSubstituteSets, ParseRules, raw)
		return err
	}},
	{"log_level", func(c *Config, raw string) (err error) {
		c.LogLevel, err = keep(c.LogLevel, ParseLogLevel, raw)
		return err
	}},
}

// keep returns the parsed value, or cur unchanged when parsing fails.
func keep[T any](cur T, parse func(string) (T, error), raw string) (T, error) {
	v, err := parse(raw)
	if err != nil {
		return cur, err
	}
	return v, nil
}

// ApplyTmuxOptions overlays @tmux_window_name_* options read from tmux.
// A malformed value keeps the current setting (icon_style resets to name)
// and logs a warning. Only a
// failure to talk to tmux is returned. Environment variables are
// re-applied afterwards so they keep the highest precedence.
func ApplyTmuxOptions(ctx context.Context, cfg *Config, src OptionReader) error {
	for _, opt := range options {
		name := OptionPrefix + opt.name
		raw, ok, err := src.GlobalOption(ctx, name)
		if err != nil {
			return fmt.Errorf("reading %s: %w", name, err)
		}
		if !ok {
			continue
		}
		if err := opt.apply(cfg, raw); err != nil {
			slog.Warn("ignoring malformed option, keeping previous value",
				slog.String("option", name),
				slog.String("value", raw),
				slog.String("error", err.Error()))
		}
	}
	mergeEnv(cfg)
	return nil
}

// NamingOptions builds the engine options. home is used for tilde
// substitution.
func (c *Config) NamingOptions(home string) naming.Options {
	return naming.Options{
		Resolve: naming.ResolveOptions{
			Shells:          c.Shells,
			IgnoredPrograms: c.IgnoredPrograms,
			ShowProgramArgs: c.ShowProgramArgs,
			SelfToken:       naming.DefaultSelfToken,
		},
		Label: naming.LabelOptions{
			IconStyle:   c.IconStyle,
			CustomIcons: c.CustomIcons,
			MaxNameLen:  c.MaxNameLen,
		},
		DirPrograms:       c.DirPrograms,
		SubstituteSets:    c.SubstituteSets,
		DirSubstituteSets: c.DirSubstituteSets,
		UseTilde:          c.UseTilde,
		HomeDir:           home,
	}
}

// SlogLevel maps LogLevel onto a slog level.
func (c *Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "DEBUG":
		return slog.LevelDebug
	case "INFO":
		return slog.LevelInfo
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}
