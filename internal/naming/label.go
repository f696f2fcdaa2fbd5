package naming

import (
	"log/slog"

	"github.com/timvw/tmux-window-name/internal/model"
)

// LabelOptions controls how a name is decorated and shortened.
type LabelOptions struct {
	IconStyle   model.IconStyle
	CustomIcons map[string]string
	// MaxNameLen is the label length in characters. Zero disables truncation.
	MaxNameLen int
}

// ApplyIcon decorates name according to the icon style. Names without a
// known icon are returned unchanged.
func ApplyIcon(name string, opts LabelOptions) string {
	if opts.IconStyle == model.IconStyleName {
		return name
	}
	icon := ProgramIcon(name, opts.CustomIcons)
	if icon == "" {
		return name
	}
	switch opts.IconStyle {
	case model.IconStyleIcon:
		return icon
	case model.IconStyleNameAndIcon:
		return icon + " " + name
	}
	return name
}

// Truncate cuts s to at most n characters.
func Truncate(s string, n int) string {
	if n <= 0 {
		return s
	}
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

// ComposeLabel produces the final window label.
func ComposeLabel(name string, opts LabelOptions) string {
	label := Truncate(ApplyIcon(name, opts), opts.MaxNameLen)
	slog.Debug("composed label", slog.String("name", name), slog.String("label", label))
	return label
}
