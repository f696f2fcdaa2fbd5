// Package render prints naming results for humans. Colors are only emitted
// when the writer is a terminal that supports them.
package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/timvw/tmux-window-name/internal/naming"
)

// Programs writes one "<raw> -> <label>" line per program.
func Programs(w io.Writer, programs []naming.ProgramLabel, t Theme) error {
	s := newStyles(lipgloss.NewRenderer(w), t)
	for _, p := range programs {
		if _, err := fmt.Fprintf(w, "%s %s %s\n",
			s.raw.Render(p.Raw), s.arrow.Render("->"), s.label.Render(p.Label)); err != nil {
			return err
		}
	}
	return nil
}

// Labels writes one line per window: id, label and where the label came
// from. Windows listed in disabled are marked as left alone.
func Labels(w io.Writer, labels []naming.WindowLabel, disabled []string, t Theme) error {
	s := newStyles(lipgloss.NewRenderer(w), t)
	off := make(map[string]bool, len(disabled))
	for _, id := range disabled {
		off[id] = true
	}

	idWidth := 0
	for _, l := range labels {
		idWidth = max(idWidth, lipgloss.Width(l.WindowID))
	}

	for _, l := range labels {
		source := s.program.Render(l.Source)
		if l.Source == naming.SourcePath {
			source = s.path.Render(l.Source)
		}
		if off[l.WindowID] {
			source = s.disabled.Render("disabled")
		}
		id := l.WindowID + strings.Repeat(" ", idWidth-lipgloss.Width(l.WindowID))
		if _, err := fmt.Fprintf(w, "%s  %s  %s\n", s.window.Render(id), s.label.Render(l.Label), source); err != nil {
			return err
		}
	}
	return nil
}
