package cmd

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestEnvOrDefault(t *testing.T) {
	t.Setenv("TMUX_WINDOW_NAME_TEST", "")
	if got := envOrDefault("TMUX_WINDOW_NAME_TEST", "fallback"); got != "fallback" {
		t.Errorf("unset: got %q", got)
	}
	t.Setenv("TMUX_WINDOW_NAME_TEST", "set")
	if got := envOrDefault("TMUX_WINDOW_NAME_TEST", "fallback"); got != "set" {
		t.Errorf("set: got %q", got)
	}
}

func TestVersionCommand(t *testing.T) {
	var buf bytes.Buffer
	versionCmd.SetOut(&buf)
	versionCmd.Run(versionCmd, nil)
	if strings.TrimSpace(buf.String()) != Version {
		t.Errorf("version output: got %q, want %q", buf.String(), Version)
	}
}

func TestCommandsRegistered(t *testing.T) {
	want := []string{"print-programs", "hook", "post-restore", "version"}
	for _, name := range want {
		found := false
		for _, c := range rootCmd.Commands() {
			if c.Name() == name {
				found = true
			}
		}
		if !found {
			t.Errorf("command %q not registered", name)
		}
	}

	var hooks []string
	for _, c := range hookCmd.Commands() {
		hooks = append(hooks, c.Name())
	}
	if strings.Join(hooks, ",") != "disable,enable" {
		t.Errorf("hook subcommands: got %v", hooks)
	}
}

func TestOpenLog(t *testing.T) {
	prev := slog.Default()
	defer slog.SetDefault(prev)

	dir := t.TempDir()
	t.Setenv("TMPDIR", dir)

	logs, err := openLog(slog.LevelWarn)
	if err != nil {
		t.Fatalf("openLog: %v", err)
	}
	slog.Info("hidden at warn level")
	logs.SetLevel(slog.LevelDebug)
	slog.Debug("visible after level change")
	logs.Close()

	data, err := os.ReadFile(filepath.Join(dir, logFileName))
	if err != nil {
		t.Fatal(err)
	}
	out := string(data)
	if strings.Contains(out, "hidden at warn level") {
		t.Errorf("info record written at warn level: %s", out)
	}
	if !strings.Contains(out, "visible after level change") {
		t.Errorf("debug record missing after SetLevel: %s", out)
	}
}

func TestLogSinkNilSafe(t *testing.T) {
	var s *logSink
	s.SetLevel(slog.LevelDebug)
	s.Close()
}
