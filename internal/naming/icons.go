package naming

import (
	"log/slog"
	"strconv"
	"strings"
)

// DefaultProgramIcons maps program names to nerd-font glyphs.
var DefaultProgramIcons = map[string]string{
	"nvim":    "\ue62b", // nf-dev-vim
	"vim":     "\ue62b",
	"vi":      "\ue62b",
	"git":     "\ue702", // nf-dev-git
	"python":  "\ue606", // nf-dev-python
	"node":    "\ue718", // nf-dev-nodejs
	"npm":     "\ue718",
	"yarn":    "\ue718",
	"docker":  "\ue7b0", // nf-dev-docker
	"kubectl": "\ue7b7",
	"go":      "\ue627",
	"rust":    "\ue7a8", // nf-dev-rust
	"cargo":   "\ue7a8",
	"php":     "\ue608",
	"ruby":    "\ue739",
	"java":    "\ue738",
	"mvn":     "\ue738",
	"gradle":  "\ue738",
	"bash":    "\ue7a2", // nf-dev-terminal
	"zsh":     "\ue7a2",
	"fish":    "\ue7a2",
	"sh":      "\ue7a2",
}

// iconBaseName reduces "/usr/bin/nvim -u NONE" or "nvim:src" to "nvim".
func iconBaseName(program string) string {
	fields := strings.Fields(program)
	if len(fields) == 0 {
		return ""
	}
	base := fields[0]
	if i := strings.LastIndex(base, "/"); i >= 0 {
		base = base[i+1:]
	}
	if i := strings.Index(base, ":"); i >= 0 {
		base = base[:i]
	}
	return base
}

// ProgramIcon returns the icon for a program, preferring custom over the
// built-in table. Unknown programs have no icon.
func ProgramIcon(program string, custom map[string]string) string {
	base := iconBaseName(program)
	icon := custom[base]
	if icon == "" {
		icon = DefaultProgramIcons[base]
	}
	icon = decodeEscapes(icon)
	slog.Debug("icon lookup", slog.String("program", program), slog.String("base", base), slog.String("icon", icon))
	return icon
}

// decodeEscapes turns a literal \ue62b stored in a tmux option into the
// glyph itself.
func decodeEscapes(icon string) string {
	if !strings.HasPrefix(icon, `\u`) && !strings.HasPrefix(icon, `\U`) {
		return icon
	}
	quoted := `"` + strings.ReplaceAll(icon, `"`, `\"`) + `"`
	decoded, err := strconv.Unquote(quoted)
	if err != nil {
		return icon
	}
	return decoded
}
