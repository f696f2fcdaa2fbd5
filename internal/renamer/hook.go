package renamer

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/timvw/tmux-window-name/internal/config"
	"github.com/timvw/tmux-window-name/internal/mux"
)

// HookIndex is the array index of our after-rename-window hook. A fixed
// index keeps it from clobbering hooks installed by other plugins.
const HookIndex = 8921

// EnabledOption is the per-window opt-out flag. "0" means the user named
// the window by hand and it must be left alone.
const EnabledOption = config.OptionPrefix + "enabled"

// RenameHook is the hook name passed to set-hook.
var RenameHook = fmt.Sprintf("after-rename-window[%d]", HookIndex)

// HookCommand returns the tmux command run after a window is renamed.
// A non-empty name means the user renamed the window, so it is disabled.
// Renaming to the empty string hands the window back to us.
func HookCommand(exe string) string {
	return fmt.Sprintf(`if-shell "[ #{n:window_name} -gt 0 ]" "set -w %s 0" "set -w %s 1; run-shell \"%s\""`,
		EnabledOption, EnabledOption, shellQuote(exe))
}

func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

// EnableHook installs the rename hook.
func EnableHook(ctx context.Context, m mux.Multiplexer, exe string) error {
	return m.SetHook(ctx, RenameHook, HookCommand(exe))
}

// DisableHook removes the rename hook.
func DisableHook(ctx context.Context, m mux.Multiplexer) error {
	return m.UnsetHook(ctx, RenameHook)
}

// PostRestore runs after a session restore (tmux-resurrect). Restored
// windows carry their automatic-rename setting but not our enabled flag, so
// the flag is derived from it before the hook is reinstalled.
func PostRestore(ctx context.Context, m mux.Multiplexer, exe string) error {
	windows, err := m.ListWindows(ctx)
	if err != nil {
		return err
	}
	for _, id := range windows {
		auto, ok, err := m.WindowOption(ctx, id, "automatic-rename")
		if err != nil {
			return err
		}
		enabled := "1"
		if ok && auto != "on" {
			enabled = "0"
		}
		if err := m.SetWindowOption(ctx, id, EnabledOption, enabled); err != nil {
			return err
		}
		slog.Debug("restored window flag", slog.String("window", id), slog.String("enabled", enabled))
	}
	return EnableHook(ctx, m, exe)
}
