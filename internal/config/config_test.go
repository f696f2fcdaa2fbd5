package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/timvw/tmux-window-name/internal/model"
	"github.com/timvw/tmux-window-name/internal/naming"
)

// mockOptions implements OptionReader for testing.
type mockOptions struct {
	values map[string]string
	err    error
}

func (m *mockOptions) GlobalOption(_ context.Context, name string) (string, bool, error) {
	if m.err != nil {
		return "", false, m.err
	}
	v, ok := m.values[name]
	return v, ok, nil
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"TMUX_WINDOW_NAME_LOG_LEVEL",
		"OTEL_EXPORTER_OTLP_ENDPOINT", "OTEL_EXPORTER_OTLP_HEADERS",
	} {
		t.Setenv(key, "")
	}
}

func TestDefaults(t *testing.T) {
	cfg := Defaults()

	if !reflect.DeepEqual(cfg.Shells, []string{"bash", "fish", "sh", "zsh"}) {
		t.Errorf("Shells: got %v", cfg.Shells)
	}
	if !reflect.DeepEqual(cfg.DirPrograms, []string{"nvim", "vim", "vi", "git"}) {
		t.Errorf("DirPrograms: got %v", cfg.DirPrograms)
	}
	if cfg.MaxNameLen != 20 {
		t.Errorf("MaxNameLen: got %d, want 20", cfg.MaxNameLen)
	}
	if cfg.UseTilde {
		t.Error("UseTilde: got true, want false")
	}
	if !cfg.ShowProgramArgs {
		t.Error("ShowProgramArgs: got false, want true")
	}
	if cfg.IconStyle != model.IconStyleName {
		t.Errorf("IconStyle: got %v, want name", cfg.IconStyle)
	}
	if len(cfg.SubstituteSets) != len(naming.DefaultSubstituteSets()) {
		t.Errorf("SubstituteSets: got %d rules", len(cfg.SubstituteSets))
	}
	if cfg.LogLevel != "WARNING" {
		t.Errorf("LogLevel: got %q, want WARNING", cfg.LogLevel)
	}
}

func TestLoadFromFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `shells: [bash, zsh]
max_name_len: 30
use_tilde: true
show_program_args: false
icon_style: name_and_icon
custom_icons:
  k9s: "K"
substitute_sets:
  - ['^(/usr)?/bin/(.+)', '\g<2>']
dir_substitute_sets:
  - ['^/srv/', '']
log_level: debug
otel_endpoint: http://collector:4318
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.ConfigFile != path {
		t.Errorf("ConfigFile: got %q, want %q", cfg.ConfigFile, path)
	}
	if !reflect.DeepEqual(cfg.Shells, []string{"bash", "zsh"}) {
		t.Errorf("Shells: got %v", cfg.Shells)
	}
	if !reflect.DeepEqual(cfg.DirPrograms, []string{"nvim", "vim", "vi", "git"}) {
		t.Errorf("DirPrograms should keep default, got %v", cfg.DirPrograms)
	}
	if cfg.MaxNameLen != 30 {
		t.Errorf("MaxNameLen: got %d, want 30", cfg.MaxNameLen)
	}
	if !cfg.UseTilde || cfg.ShowProgramArgs {
		t.Errorf("booleans: use_tilde=%v show_program_args=%v", cfg.UseTilde, cfg.ShowProgramArgs)
	}
	if cfg.IconStyle != model.IconStyleNameAndIcon {
		t.Errorf("IconStyle: got %v", cfg.IconStyle)
	}
	if cfg.CustomIcons["k9s"] != "K" {
		t.Errorf("CustomIcons: got %v", cfg.CustomIcons)
	}
	if len(cfg.SubstituteSets) != 1 {
		t.Fatalf("SubstituteSets: got %d rules, want 1", len(cfg.SubstituteSets))
	}
	if got := naming.Substitute("/usr/bin/htop", cfg.SubstituteSets); got != "htop" {
		t.Errorf("file rule: got %q, want htop", got)
	}
	if got := naming.Substitute("/srv/app", cfg.DirSubstituteSets); got != "app" {
		t.Errorf("dir rule: got %q, want app", got)
	}
	if cfg.LogLevel != "DEBUG" {
		t.Errorf("LogLevel: got %q", cfg.LogLevel)
	}
	if cfg.OTELEndpoint != "http://collector:4318" {
		t.Errorf("OTELEndpoint: got %q", cfg.OTELEndpoint)
	}
}

func TestLoadFromFile_Errors(t *testing.T) {
	clearEnv(t)
	tests := []struct {
		name    string
		content string
	}{
		{"bad yaml", "shells: [bash"},
		{"non-positive length", "max_name_len: 0"},
		{"bad icon style", "icon_style: emoji"},
		{"bad regex", "substitute_sets:\n  - ['(', 'x']"},
		{"rule arity", "substitute_sets:\n  - ['a']"},
		{"bad log level", "log_level: loud"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			if err := os.WriteFile(path, []byte(tt.content), 0644); err != nil {
				t.Fatal(err)
			}
			if _, err := Load(path); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestLoadMissingExplicitFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing explicit config file")
	}
}

func TestLoadSearchesCurrentDirectory(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, ".tmux-window-name.yaml"), []byte("max_name_len: 12\n"), 0644); err != nil {
		t.Fatal(err)
	}
	t.Chdir(dir)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.MaxNameLen != 12 {
		t.Errorf("MaxNameLen: got %d, want 12", cfg.MaxNameLen)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("log_level: ERROR\notel_endpoint: http://file:4318\n"), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("TMUX_WINDOW_NAME_LOG_LEVEL", "info")
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "http://env:4318")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.LogLevel != "INFO" {
		t.Errorf("LogLevel: got %q, want INFO (env should override file)", cfg.LogLevel)
	}
	if cfg.OTELEndpoint != "http://env:4318" {
		t.Errorf("OTELEndpoint: got %q (env should override file)", cfg.OTELEndpoint)
	}
}

func TestApplyTmuxOptions(t *testing.T) {
	clearEnv(t)
	cfg := Defaults()
	src := &mockOptions{values: map[string]string{
		"@tmux_window_name_shells":            "['bash', 'zsh']",
		"@tmux_window_name_max_name_len":      "12",
		"@tmux_window_name_use_tilde":         "True",
		"@tmux_window_name_show_program_args": "0",
		"@tmux_window_name_icon_style":        "'icon'",
		"@tmux_window_name_custom_icons":      `{"k9s": "K"}`,
		"@tmux_window_name_substitute_sets":   `[('.+ipython([32])', r'ipython\g<1>'), ('^/usr/bin/(.+)', '\\1')]`,
		"@tmux_window_name_ignored_programs":  "['sqlite3']",
	}}

	if err := ApplyTmuxOptions(context.Background(), cfg, src); err != nil {
		t.Fatalf("ApplyTmuxOptions: %v", err)
	}

	if !reflect.DeepEqual(cfg.Shells, []string{"bash", "zsh"}) {
		t.Errorf("Shells: got %v", cfg.Shells)
	}
	if cfg.MaxNameLen != 12 {
		t.Errorf("MaxNameLen: got %d", cfg.MaxNameLen)
	}
	if !cfg.UseTilde || cfg.ShowProgramArgs {
		t.Errorf("booleans: use_tilde=%v show_program_args=%v", cfg.UseTilde, cfg.ShowProgramArgs)
	}
	if cfg.IconStyle != model.IconStyleIcon {
		t.Errorf("IconStyle: got %v", cfg.IconStyle)
	}
	if cfg.CustomIcons["k9s"] != "K" {
		t.Errorf("CustomIcons: got %v", cfg.CustomIcons)
	}
	if !reflect.DeepEqual(cfg.IgnoredPrograms, []string{"sqlite3"}) {
		t.Errorf("IgnoredPrograms: got %v", cfg.IgnoredPrograms)
	}
	if got := naming.Substitute("/usr/bin/python3 -m ipython3", cfg.SubstituteSets); got != "ipython3" {
		t.Errorf("ipython rule: got %q", got)
	}
	if got := naming.Substitute("/usr/bin/htop", cfg.SubstituteSets); got != "htop" {
		t.Errorf("\\1 rule: got %q", got)
	}
}

func TestApplyTmuxOptions_MalformedKeepsPrevious(t *testing.T) {
	clearEnv(t)
	cfg := Defaults()
	cfg.MaxNameLen = 30 // as if set by the config file
	src := &mockOptions{values: map[string]string{
		"@tmux_window_name_max_name_len":    "-3",
		"@tmux_window_name_shells":          "['bash'",
		"@tmux_window_name_icon_style":      "emoji",
		"@tmux_window_name_use_tilde":       "maybe",
		"@tmux_window_name_substitute_sets": "[('(', 'x')]",
	}}

	if err := ApplyTmuxOptions(context.Background(), cfg, src); err != nil {
		t.Fatalf("ApplyTmuxOptions: %v", err)
	}

	if cfg.MaxNameLen != 30 {
		t.Errorf("MaxNameLen: got %d, want 30", cfg.MaxNameLen)
	}
	if len(cfg.Shells) != 4 {
		t.Errorf("Shells: got %v, want defaults", cfg.Shells)
	}
	if cfg.IconStyle != model.IconStyleName {
		t.Errorf("IconStyle: got %v, want name", cfg.IconStyle)
	}
	if cfg.UseTilde {
		t.Error("UseTilde: got true, want false")
	}
	if len(cfg.SubstituteSets) != len(naming.DefaultSubstituteSets()) {
		t.Errorf("SubstituteSets: got %d rules, want defaults", len(cfg.SubstituteSets))
	}
}

func TestApplyTmuxOptions_UnknownIconStyleFallsBackToName(t *testing.T) {
	clearEnv(t)
	cfg := Defaults()
	cfg.IconStyle = model.IconStyleIcon // as if set by the config file
	src := &mockOptions{values: map[string]string{"@tmux_window_name_icon_style": "'emoji'"}}

	if err := ApplyTmuxOptions(context.Background(), cfg, src); err != nil {
		t.Fatalf("ApplyTmuxOptions: %v", err)
	}
	if cfg.IconStyle != model.IconStyleName {
		t.Errorf("IconStyle: got %v, want name", cfg.IconStyle)
	}
}

func TestApplyTmuxOptions_EnvWins(t *testing.T) {
	clearEnv(t)
	t.Setenv("TMUX_WINDOW_NAME_LOG_LEVEL", "DEBUG")
	cfg := Defaults()
	src := &mockOptions{values: map[string]string{"@tmux_window_name_log_level": "ERROR"}}

	if err := ApplyTmuxOptions(context.Background(), cfg, src); err != nil {
		t.Fatalf("ApplyTmuxOptions: %v", err)
	}
	if cfg.LogLevel != "DEBUG" {
		t.Errorf("LogLevel: got %q, want DEBUG", cfg.LogLevel)
	}
}

func TestApplyTmuxOptions_ReadError(t *testing.T) {
	boom := errors.New("no server")
	err := ApplyTmuxOptions(context.Background(), Defaults(), &mockOptions{err: boom})
	if !errors.Is(err, boom) {
		t.Errorf("expected wrapped read error, got %v", err)
	}
}

func TestNamingOptions(t *testing.T) {
	cfg := Defaults()
	cfg.UseTilde = true
	opts := cfg.NamingOptions("/home/u")

	if opts.HomeDir != "/home/u" || !opts.UseTilde {
		t.Errorf("tilde settings: got home=%q use=%v", opts.HomeDir, opts.UseTilde)
	}
	if opts.Label.MaxNameLen != 20 || opts.Label.IconStyle != model.IconStyleName {
		t.Errorf("label options: got %+v", opts.Label)
	}
	if opts.Resolve.SelfToken != naming.DefaultSelfToken || !opts.Resolve.ShowProgramArgs {
		t.Errorf("resolve options: got %+v", opts.Resolve)
	}
	if !reflect.DeepEqual(opts.DirPrograms, cfg.DirPrograms) {
		t.Errorf("DirPrograms: got %v", opts.DirPrograms)
	}
}

func TestSlogLevel(t *testing.T) {
	tests := []struct {
		level string
		want  string
	}{
		{"DEBUG", "DEBUG"},
		{"INFO", "INFO"},
		{"WARNING", "WARN"},
		{"ERROR", "ERROR"},
		{"", "WARN"},
	}
	for _, tt := range tests {
		cfg := &Config{LogLevel: tt.level}
		if got := cfg.SlogLevel().String(); got != tt.want {
			t.Errorf("SlogLevel(%q) = %s, want %s", tt.level, got, tt.want)
		}
	}
}
