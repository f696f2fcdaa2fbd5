// Package naming derives window labels from the programs and working
// directories of tmux panes.
//
// The engine is a pure function of one pane snapshot and one process table
// snapshot: it issues no tmux commands and keeps no state between runs.
package naming

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/timvw/tmux-window-name/internal/model"
)

// Label sources reported in WindowLabel.Source.
const (
	SourceProgram = "program"
	SourcePath    = "path"
)

// Options is the full set of naming options.
type Options struct {
	Resolve ResolveOptions
	Label   LabelOptions

	// DirPrograms are programs labeled as "<program>:<dir>" (e.g., editors).
	DirPrograms       []string
	SubstituteSets    []SubstitutionRule
	DirSubstituteSets []SubstitutionRule

	// UseTilde replaces HomeDir with "~" in working directories.
	UseTilde bool
	HomeDir  string
}

// WindowLabel is the final label for one window.
type WindowLabel struct {
	WindowID string `json:"window_id"`
	PaneID   string `json:"pane_id"`
	Label    string `json:"label"`
	Source   string `json:"source"`
}

// ProgramLabel pairs a raw program with the label it produces.
type ProgramLabel struct {
	WindowID string `json:"window_id"`
	Raw      string `json:"raw"`
	Label    string `json:"label"`
}

// Result is the outcome of one naming run.
type Result struct {
	// Labels holds one entry per pane, in pane order.
	Labels []WindowLabel
	// Programs lists raw programs and their decorated names, untruncated.
	Programs []ProgramLabel
}

// Engine computes window labels.
type Engine struct {
	Options Options
}

// NewEngine creates an engine with the given options.
func NewEngine(opts Options) *Engine {
	return &Engine{Options: opts}
}

// Resolve finds the foreground program of every pane. Panes without a
// foreground process resolve to a nil program.
func (e *Engine) Resolve(panes []model.PaneInfo, procs []model.ProcessRecord) ([]model.ResolvedPane, error) {
	if len(procs) == 0 {
		slog.Warn("process table is empty, labeling every pane by directory")
	}
	resolved := make([]model.ResolvedPane, 0, len(panes))
	for _, p := range panes {
		prog, err := ResolveProgram(p, procs, e.Options.Resolve)
		if err != nil && !errors.Is(err, ErrNoForegroundProcess) {
			return nil, fmt.Errorf("window %s: %w", p.WindowID, err)
		}
		resolved = append(resolved, model.ResolvedPane{Info: e.fixPath(p), Program: prog})
	}
	return resolved, nil
}

// Name resolves all panes and computes their labels.
func (e *Engine) Name(panes []model.PaneInfo, procs []model.ProcessRecord) (*Result, error) {
	resolved, err := e.Resolve(panes, procs)
	if err != nil {
		return nil, err
	}
	return e.Label(resolved), nil
}

// Label computes labels for already resolved panes.
func (e *Engine) Label(resolved []model.ResolvedPane) *Result {
	opts := e.Options
	labels := make([]WindowLabel, len(resolved))
	res := &Result{}

	var dirPanes []model.ResolvedPane
	var dirIdx []int
	for i, p := range resolved {
		if !p.HasProgram() {
			dirPanes = append(dirPanes, p)
			dirIdx = append(dirIdx, i)
			continue
		}

		raw := *p.Program
		res.Programs = append(res.Programs, ProgramLabel{
			WindowID: p.Info.WindowID,
			Raw:      raw,
			Label:    ApplyIcon(Substitute(raw, opts.SubstituteSets), opts.Label),
		})

		if e.isDirProgram(raw) {
			slog.Debug("dir program", slog.String("program", raw))
			dirPanes = append(dirPanes, p)
			dirIdx = append(dirIdx, i)
			continue
		}

		name := Substitute(raw, opts.SubstituteSets)
		labels[i] = WindowLabel{
			WindowID: p.Info.WindowID,
			PaneID:   p.Info.PaneID,
			Label:    ComposeLabel(name, opts.Label),
			Source:   SourceProgram,
		}
	}

	for k, pp := range ExclusivePaths(dirPanes) {
		display := Substitute(pp.DisplayPath, opts.DirSubstituteSets)
		if pp.Pane.HasProgram() {
			display = Substitute(*pp.Pane.Program, opts.SubstituteSets) + ":" + display
		}
		labels[dirIdx[k]] = WindowLabel{
			WindowID: pp.Pane.Info.WindowID,
			PaneID:   pp.Pane.Info.PaneID,
			Label:    ComposeLabel(display, opts.Label),
			Source:   SourcePath,
		}
	}

	res.Labels = labels
	return res
}

func (e *Engine) isDirProgram(program string) bool {
	fields := strings.Fields(program)
	if len(fields) == 0 {
		return false
	}
	return slices.Contains(e.Options.DirPrograms, StripProgramPath(fields[0]))
}

// fixPath applies tilde substitution to the pane's working directory.
func (e *Engine) fixPath(p model.PaneInfo) model.PaneInfo {
	home := strings.TrimRight(e.Options.HomeDir, "/")
	if !e.Options.UseTilde || home == "" {
		return p
	}
	if p.CurrentPath == home {
		p.CurrentPath = "~"
	} else if strings.HasPrefix(p.CurrentPath, home+"/") {
		p.CurrentPath = "~" + strings.TrimPrefix(p.CurrentPath, home)
	}
	return p
}
