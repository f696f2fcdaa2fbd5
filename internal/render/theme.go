package render

import "github.com/charmbracelet/lipgloss"

// Theme defines the colors used for terminal output.
// Use DarkTheme() or LightTheme() to get a pre-built theme,
// or construct a custom Theme.
type Theme struct {
	Primary   lipgloss.Color // labels
	Secondary lipgloss.Color // raw program lines
	Success   lipgloss.Color // program-derived labels
	Warning   lipgloss.Color // windows left alone
	Info      lipgloss.Color // path-derived labels
	TextMuted lipgloss.Color // window ids, arrows
}

// DarkTheme returns the default dark theme.
func DarkTheme() Theme {
	return Theme{
		Primary:   lipgloss.Color("#fab283"),
		Secondary: lipgloss.Color("#5c9cf5"),
		Success:   lipgloss.Color("#7fd88f"),
		Warning:   lipgloss.Color("#f5a742"),
		Info:      lipgloss.Color("#56b6c2"),
		TextMuted: lipgloss.Color("#808080"),
	}
}

// LightTheme returns a light theme for bright terminal backgrounds.
func LightTheme() Theme {
	return Theme{
		Primary:   lipgloss.Color("#b35c00"),
		Secondary: lipgloss.Color("#0550ae"),
		Success:   lipgloss.Color("#116329"),
		Warning:   lipgloss.Color("#bf8700"),
		Info:      lipgloss.Color("#0969da"),
		TextMuted: lipgloss.Color("#656d76"),
	}
}

// ThemeByName returns a theme by name. Defaults to dark.
func ThemeByName(name string) Theme {
	switch name {
	case "light":
		return LightTheme()
	default:
		return DarkTheme()
	}
}

// styles holds all lipgloss styles derived from a Theme.
type styles struct {
	window lipgloss.Style
	raw    lipgloss.Style
	arrow  lipgloss.Style
	label  lipgloss.Style

	program  lipgloss.Style
	path     lipgloss.Style
	disabled lipgloss.Style
}

// newStyles builds all styles from a theme for one renderer.
func newStyles(r *lipgloss.Renderer, t Theme) styles {
	return styles{
		window: r.NewStyle().Foreground(t.TextMuted),
		raw:    r.NewStyle().Foreground(t.Secondary),
		arrow:  r.NewStyle().Foreground(t.TextMuted),
		label:  r.NewStyle().Bold(true).Foreground(t.Primary),

		program:  r.NewStyle().Foreground(t.Success),
		path:     r.NewStyle().Foreground(t.Info),
		disabled: r.NewStyle().Foreground(t.Warning),
	}
}
