package mux

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/timvw/tmux-window-name/internal/model"
)

// paneFormat lists the pane fields read by ActivePanes. The working
// directory comes last so that it may contain tabs.
const paneFormat = "#{window_id}\t#{pane_id}\t#{pane_active}\t#{pane_pid}\t#{pane_current_path}"

// SocketName returns the server socket name from a $TMUX value
// ("/tmp/tmux-1000/default,4242,0" -> "default"), or "" outside tmux.
func SocketName(tmuxEnv string) string {
	sock, _, _ := strings.Cut(tmuxEnv, ",")
	if sock == "" {
		return ""
	}
	return filepath.Base(sock)
}

// Tmux implements the Multiplexer interface for tmux.
type Tmux struct{}

// NewTmux creates a new tmux multiplexer.
func NewTmux() *Tmux {
	return &Tmux{}
}

// Name returns "tmux".
func (t *Tmux) Name() string {
	return "tmux"
}

// CurrentSession returns the id of the attached session (e.g., "$0").
func (t *Tmux) CurrentSession(ctx context.Context) (string, error) {
	out, err := t.run(ctx, "display-message", "-p", "#{session_id}")
	if err != nil {
		return "", fmt.Errorf("tmux display-message: %w", err)
	}
	if out == "" {
		return "", fmt.Errorf("tmux display-message: empty session id")
	}
	return out, nil
}

// ActivePanes returns the active pane of every window in the session.
func (t *Tmux) ActivePanes(ctx context.Context, session string) ([]model.PaneInfo, error) {
	out, err := t.run(ctx, "list-panes", "-s", "-t", session, "-F", paneFormat)
	if err != nil {
		return nil, fmt.Errorf("tmux list-panes: %w", err)
	}
	return parseActivePanes(out), nil
}

// parseActivePanes parses list-panes output in paneFormat, keeping only
// active panes. A pane whose pid does not parse keeps PID 0.
func parseActivePanes(out string) []model.PaneInfo {
	var panes []model.PaneInfo
	for _, line := range strings.Split(out, "\n") {
		if line == "" {
			continue
		}
		parts := strings.SplitN(line, "\t", 5)
		if len(parts) != 5 {
			continue
		}
		if parts[2] != "1" {
			continue
		}
		pid, _ := strconv.Atoi(parts[3])
		panes = append(panes, model.PaneInfo{
			WindowID:    parts[0],
			PaneID:      parts[1],
			PID:         pid,
			CurrentPath: parts[4],
		})
	}
	return panes
}

// ListWindows returns the ids of all windows on the server.
func (t *Tmux) ListWindows(ctx context.Context) ([]string, error) {
	out, err := t.run(ctx, "list-windows", "-a", "-F", "#{window_id}")
	if err != nil {
		return nil, fmt.Errorf("tmux list-windows: %w", err)
	}
	var ids []string
	for _, line := range strings.Split(out, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			ids = append(ids, line)
		}
	}
	return ids, nil
}

// RenameWindow renames a window.
func (t *Tmux) RenameWindow(ctx context.Context, windowID, name string) error {
	if _, err := t.run(ctx, "rename-window", "-t", windowID, "--", name); err != nil {
		return fmt.Errorf("tmux rename-window -t %s: %w", windowID, err)
	}
	return nil
}

// GlobalOption reads a global (user) option.
func (t *Tmux) GlobalOption(ctx context.Context, name string) (string, bool, error) {
	out, err := t.run(ctx, "show-option", "-gqv", name)
	if err != nil {
		return "", false, fmt.Errorf("tmux show-option %s: %w", name, err)
	}
	return out, out != "", nil
}

// SetGlobalOption writes a global option.
func (t *Tmux) SetGlobalOption(ctx context.Context, name, value string) error {
	if _, err := t.run(ctx, "set-option", "-g", name, value); err != nil {
		return fmt.Errorf("tmux set-option %s: %w", name, err)
	}
	return nil
}

// WindowOption reads a window option. An empty windowID targets the
// current window.
func (t *Tmux) WindowOption(ctx context.Context, windowID, name string) (string, bool, error) {
	args := []string{"show-option", "-wqv"}
	if windowID != "" {
		args = append(args, "-t", windowID)
	}
	out, err := t.run(ctx, append(args, name)...)
	if err != nil {
		return "", false, fmt.Errorf("tmux show-option -w %s: %w", name, err)
	}
	return out, out != "", nil
}

// SetWindowOption writes a window option.
func (t *Tmux) SetWindowOption(ctx context.Context, windowID, name, value string) error {
	args := []string{"set-option", "-wq"}
	if windowID != "" {
		args = append(args, "-t", windowID)
	}
	if _, err := t.run(ctx, append(args, name, value)...); err != nil {
		return fmt.Errorf("tmux set-option -w %s: %w", name, err)
	}
	return nil
}

// SetHook installs a global hook, e.g. "after-rename-window[8921]".
func (t *Tmux) SetHook(ctx context.Context, hook, command string) error {
	if _, err := t.run(ctx, "set-hook", "-g", hook, command); err != nil {
		return fmt.Errorf("tmux set-hook %s: %w", hook, err)
	}
	return nil
}

// UnsetHook removes a global hook.
func (t *Tmux) UnsetHook(ctx context.Context, hook string) error {
	if _, err := t.run(ctx, "set-hook", "-ug", hook); err != nil {
		return fmt.Errorf("tmux set-hook -u %s: %w", hook, err)
	}
	return nil
}

// run executes a tmux command and returns its trimmed stdout.
// The -u flag forces UTF-8 so icon glyphs survive any locale.
func (t *Tmux) run(ctx context.Context, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "tmux", append([]string{"-u"}, args...)...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return "", wrapError(err, stderr.String())
	}
	return strings.TrimRight(stdout.String(), "\n"), nil
}

// wrapError maps tmux's stderr to ErrNoServer where possible.
func wrapError(err error, stderr string) error {
	stderr = strings.TrimSpace(stderr)
	if strings.Contains(stderr, "no server running") ||
		strings.Contains(stderr, "error connecting to") ||
		strings.Contains(stderr, "no current client") {
		return ErrNoServer
	}
	if stderr != "" {
		return fmt.Errorf("%w: %s", err, stderr)
	}
	return err
}
