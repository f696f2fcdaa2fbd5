package cmd

import (
	"log/slog"
	"os"
	"path/filepath"
)

// logFileName is created in the temp dir. The program usually runs from a
// tmux hook where stderr goes nowhere, so logs go to a file.
const logFileName = "tmux-window-name"

// logSink is the default slog destination.
type logSink struct {
	level *slog.LevelVar
	file  *os.File
}

// openLog installs a text logger writing to $TMPDIR/tmux-window-name. If
// the file cannot be opened the logger writes to stderr and the error is
// returned; the sink is usable either way.
func openLog(level slog.Level) (*logSink, error) {
	s := &logSink{level: new(slog.LevelVar)}
	s.level.Set(level)

	path := filepath.Join(os.TempDir(), logFileName)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	out := os.Stderr
	if err == nil {
		s.file = f
		out = f
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{Level: s.level})))
	return s, err
}

// SetLevel changes the level of the installed logger.
func (s *logSink) SetLevel(level slog.Level) {
	if s == nil {
		return
	}
	s.level.Set(level)
}

// Close closes the log file, if any.
func (s *logSink) Close() {
	if s == nil || s.file == nil {
		return
	}
	_ = s.file.Close()
}
