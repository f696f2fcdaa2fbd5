package renamer

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"

	"github.com/timvw/tmux-window-name/internal/config"
	"github.com/timvw/tmux-window-name/internal/mux"
)

// RunningOption is set to "1" on the server while a pass is in progress.
const RunningOption = config.OptionPrefix + "running"

// Guard keeps rename passes from overlapping. Renaming a window fires
// after-rename-window, which would start another pass, so the hook is
// removed while a pass runs and reinstalled afterwards.
//
// Mutual exclusion comes from an flock on LockPath. The running option is
// still maintained so other tools can see a pass in progress.
type Guard struct {
	Mux      mux.Multiplexer
	LockPath string
	Exe      string // program the reinstalled hook runs
}

// DefaultLockPath returns the lock file for the tmux server named in
// tmuxEnv (the $TMUX value "socket,pid,session"). Each server gets its own
// lock so passes on different servers do not block each other.
func DefaultLockPath(tmpDir, tmuxEnv string) string {
	name := "tmux-window-name"
	if sock := mux.SocketName(tmuxEnv); sock != "" {
		name += "-" + sock
	}
	return filepath.Join(tmpDir, name+".lock")
}

// Acquire takes the guard. ok is false when another pass holds it; the
// caller should then do nothing. On success release must be called, and it
// restores the hook and clears the running flag even if ctx was cancelled.
func (g *Guard) Acquire(ctx context.Context) (release func(), ok bool, err error) {
	lock := flock.New(g.LockPath)
	locked, err := lock.TryLock()
	if err != nil {
		return nil, false, fmt.Errorf("acquiring lock %s: %w", g.LockPath, err)
	}
	if !locked {
		slog.Debug("another pass is running", slog.String("lock", g.LockPath))
		return nil, false, nil
	}

	if v, _, err := g.Mux.GlobalOption(ctx, RunningOption); err != nil {
		_ = lock.Unlock()
		return nil, false, err
	} else if v == "1" {
		slog.Warn("clearing stale running flag left by an interrupted pass")
	}

	if err := g.Mux.SetGlobalOption(ctx, RunningOption, "1"); err != nil {
		_ = lock.Unlock()
		return nil, false, err
	}
	if err := DisableHook(ctx, g.Mux); err != nil {
		slog.Warn("disabling rename hook", slog.String("error", err.Error()))
	}

	release = func() {
		cleanup := context.WithoutCancel(ctx)
		if err := EnableHook(cleanup, g.Mux, g.Exe); err != nil {
			slog.Warn("re-enabling rename hook", slog.String("error", err.Error()))
		}
		if err := g.Mux.SetGlobalOption(cleanup, RunningOption, "0"); err != nil {
			slog.Warn("clearing running flag", slog.String("error", err.Error()))
		}
		if err := lock.Unlock(); err != nil {
			slog.Warn("releasing lock", slog.String("lock", g.LockPath), slog.String("error", err.Error()))
		}
	}
	return release, true, nil
}

// Executable returns the path the rename hook should run.
func Executable() string {
	exe, err := os.Executable()
	if err != nil {
		return "tmux-window-name"
	}
	return exe
}
