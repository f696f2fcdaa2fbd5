package naming

import (
	"errors"
	"fmt"
	"log/slog"
	"path"
	"slices"
	"strings"

	"github.com/timvw/tmux-window-name/internal/model"
)

var (
	// ErrPaneLookup means a pane cannot be matched against the process
	// table at all. It indicates an inconsistent snapshot and aborts the run.
	ErrPaneLookup = errors.New("pane process lookup failed")
	// ErrNoForegroundProcess means no usable child of the pane process exists.
	ErrNoForegroundProcess = errors.New("no foreground process")
)

// DefaultSelfToken identifies this tool's own process in the process table.
const DefaultSelfToken = "tmux-window-name"

// maxShellDepth bounds how far the resolver descends through nested shells.
const maxShellDepth = 5

// ResolveOptions controls how a foreground command becomes a program name.
type ResolveOptions struct {
	Shells          []string
	IgnoredPrograms []string
	ShowProgramArgs bool
	// SelfToken is matched against the base name of a candidate's program or
	// script so that the hook invocation of this tool is never reported as the
	// foreground program. SelfPath, when set, is matched exactly.
	SelfToken string
	SelfPath  string
}

// StripProgramPath removes well-known interpreter path prefixes
// (/bin, /usr/bin, NixOS system and user profiles) from a program token.
func StripProgramPath(program string) string {
	for _, r := range pathRemovers {
		program = r.Pattern.ReplaceAllString(program, r.Replacement)
	}
	return program
}

// ResolveProgram finds the foreground program of a pane: the first process,
// in snapshot order, whose parent is the pane process.
//
// It returns ErrNoForegroundProcess when no candidate survives filtering and
// ErrPaneLookup when the pane has no process id to look up.
// A nil program with a nil error is a bare shell.
func ResolveProgram(pane model.PaneInfo, procs []model.ProcessRecord, opts ResolveOptions) (*string, error) {
	if pane.PID <= 0 {
		return nil, fmt.Errorf("%w: pane %s has no pid", ErrPaneLookup, pane.PaneID)
	}
	slog.Debug("searching for foreground child", slog.String("pane", pane.PaneID), slog.Int("pid", pane.PID))

	children := indexChildren(procs)
	return resolveChild(pane.PID, children, opts, 0)
}

func indexChildren(procs []model.ProcessRecord) map[int][]model.ProcessRecord {
	children := make(map[int][]model.ProcessRecord)
	for _, p := range procs {
		if len(p.Command) == 0 {
			continue
		}
		children[p.PPID] = append(children[p.PPID], p)
	}
	return children
}

func resolveChild(pid int, children map[int][]model.ProcessRecord, opts ResolveOptions, depth int) (*string, error) {
	selfToken := opts.SelfToken
	if selfToken == "" {
		selfToken = DefaultSelfToken
	}

	for _, proc := range children[pid] {
		cmd := proc.Command
		stripped := StripProgramPath(cmd[0])

		if isSelf(cmd, selfToken, opts.SelfPath) {
			slog.Debug("skipping own invocation", slog.String("command", proc.CommandLine()))
			continue
		}
		if slices.Contains(opts.IgnoredPrograms, stripped) {
			slog.Debug("skipping ignored program", slog.String("program", stripped))
			continue
		}

		if slices.Contains(opts.Shells, stripped) {
			if !runsScript(cmd) && depth < maxShellDepth && len(children[proc.PID]) > 0 {
				prog, err := resolveChild(proc.PID, children, opts, depth+1)
				if !errors.Is(err, ErrNoForegroundProcess) {
					return prog, err
				}
			}
			prog := parseShellCommand(cmd)
			slog.Debug("shell without foreground child", slog.String("shell", stripped), slog.Any("program", prog))
			return prog, nil
		}

		if !opts.ShowProgramArgs {
			return &cmd[0], nil
		}
		line := proc.CommandLine()
		return &line, nil
	}
	return nil, ErrNoForegroundProcess
}

// isSelf reports whether cmd runs this tool, directly, as an interpreter's
// script or through run-shell's "sh -c '<exe>'".
func isSelf(cmd []string, token, exe string) bool {
	match := func(arg string) bool {
		arg = strings.Trim(arg, `'"`)
		return (exe != "" && arg == exe) || path.Base(arg) == token
	}
	if match(cmd[0]) {
		return true
	}
	if len(cmd) < 2 {
		return false
	}
	if cmd[1] == "-c" && len(cmd) > 2 {
		return match(cmd[2])
	}
	return match(cmd[1])
}

// runsScript reports whether a shell was started on a script file. Such a
// shell is labeled after the script even while the script has children.
func runsScript(cmd []string) bool {
	return len(cmd) > 1 && !strings.HasPrefix(cmd[1], "-")
}

// parseShellCommand turns "bash /path/to/script.sh -x" into "script.sh -x".
// A bare shell yields nil.
func parseShellCommand(cmd []string) *string {
	if len(cmd) <= 1 {
		return nil
	}
	parts := append([]string{path.Base(cmd[1])}, cmd[2:]...)
	s := strings.Join(parts, " ")
	return &s
}
