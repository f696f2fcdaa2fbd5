package model

import (
	"fmt"
	"strings"
)

// ProcessRecord is one row of a process table snapshot.
type ProcessRecord struct {
	// PID is the process ID.
	PID int `json:"pid"`
	// PPID is the parent process ID.
	PPID int `json:"ppid"`
	// Command is the command line split into whitespace-separated tokens.
	Command []string `json:"command"`
}

// CommandLine returns the space-joined command line.
func (p ProcessRecord) CommandLine() string {
	return strings.Join(p.Command, " ")
}

// PaneInfo describes the active pane of a window at invocation time.
type PaneInfo struct {
	// WindowID is the tmux window identifier (e.g., "@3").
	WindowID string `json:"window_id"`
	// PaneID is the tmux pane identifier (e.g., "%7").
	PaneID string `json:"pane_id"`
	// PID is the pane's controlling process (usually the login shell).
	PID int `json:"pid"`
	// CurrentPath is the pane's working directory.
	CurrentPath string `json:"current_path"`
}

// ResolvedPane pairs a pane with the program found running in it.
// A nil Program means the pane is labeled by its working directory.
type ResolvedPane struct {
	Info    PaneInfo `json:"info"`
	Program *string  `json:"program,omitempty"`
}

// HasProgram reports whether a foreground program was resolved.
func (r ResolvedPane) HasProgram() bool {
	return r.Program != nil
}

// ProgramOr returns the resolved program or fallback when there is none.
func (r ResolvedPane) ProgramOr(fallback string) string {
	if r.Program == nil {
		return fallback
	}
	return *r.Program
}

func (r ResolvedPane) String() string {
	return fmt.Sprintf("%s(%s) program=%q path=%q", r.Info.WindowID, r.Info.PaneID, r.ProgramOr(""), r.Info.CurrentPath)
}

// IconStyle selects how a window label is decorated with a program icon.
type IconStyle int

const (
	// IconStyleName shows only the name.
	IconStyleName IconStyle = iota
	// IconStyleIcon shows only the icon, falling back to the name.
	IconStyleIcon
	// IconStyleNameAndIcon shows "<icon> <name>".
	IconStyleNameAndIcon
)

// ParseIconStyle maps the option spelling to an IconStyle.
func ParseIconStyle(s string) (IconStyle, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "name":
		return IconStyleName, nil
	case "icon":
		return IconStyleIcon, nil
	case "name_and_icon":
		return IconStyleNameAndIcon, nil
	default:
		return IconStyleName, fmt.Errorf("unknown icon style %q (supported: name, icon, name_and_icon)", s)
	}
}

func (s IconStyle) String() string {
	switch s {
	case IconStyleIcon:
		return "icon"
	case IconStyleNameAndIcon:
		return "name_and_icon"
	default:
		return "name"
	}
}

// MarshalYAML writes the option spelling.
func (s IconStyle) MarshalYAML() (any, error) {
	return s.String(), nil
}

// UnmarshalYAML accepts the option spelling.
func (s *IconStyle) UnmarshalYAML(unmarshal func(any) error) error {
	var raw string
	if err := unmarshal(&raw); err != nil {
		return err
	}
	v, err := ParseIconStyle(raw)
	if err != nil {
		return err
	}
	*s = v
	return nil
}
