package config

import (
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/timvw/tmux-window-name/internal/model"
	"github.com/timvw/tmux-window-name/internal/naming"
)

// Option values stored in tmux are written in Python literal syntax by most
// existing configs, e.g.
//
//	set -g @tmux_window_name_shells "['bash', 'zsh']"
//	set -g @tmux_window_name_substitute_sets "[('.+ipython([32])', r'ipython\g<1>')]"
//
// Each option has its own parser below. Structured values go through
// literalToYAML and are then decoded into a concrete Go type; nothing is
// ever evaluated.

// ParseStringList parses "['bash', 'zsh']".
func ParseStringList(raw string) ([]string, error) {
	var out []string
	if err := decodeLiteral(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ParseStringMap parses "{'vim': '\ue62b'}".
func ParseStringMap(raw string) (map[string]string, error) {
	var out map[string]string
	if err := decodeLiteral(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ParseRules parses a list of (pattern, replacement) pairs and compiles them.
func ParseRules(raw string) ([]naming.SubstitutionRule, error) {
	var pairs [][]string
	if err := decodeLiteral(raw, &pairs); err != nil {
		return nil, err
	}
	return CompileRules(pairs)
}

// CompileRules compiles (pattern, replacement) pairs in order.
func CompileRules(pairs [][]string) ([]naming.SubstitutionRule, error) {
	rules := make([]naming.SubstitutionRule, 0, len(pairs))
	for i, p := range pairs {
		if len(p) != 2 {
			return nil, fmt.Errorf("rule %d: want (pattern, replacement), got %d elements", i, len(p))
		}
		r, err := naming.NewRule(p[0], p[1])
		if err != nil {
			return nil, fmt.Errorf("rule %d: %w", i, err)
		}
		rules = append(rules, r)
	}
	return rules, nil
}

// ParsePositiveInt parses a strictly positive integer.
func ParsePositiveInt(raw string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(unquote(raw)))
	if err != nil {
		return 0, fmt.Errorf("invalid integer %q", raw)
	}
	if n <= 0 {
		return 0, fmt.Errorf("invalid length %d: must be positive", n)
	}
	return n, nil
}

// ParseBool accepts the spellings found in tmux configs: 1/0, true/false
// (any case), on/off and yes/no.
func ParseBool(raw string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(unquote(raw))) {
	case "1", "true", "on", "yes":
		return true, nil
	case "0", "false", "off", "no":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean %q", raw)
	}
}

// ParseIconStyle accepts the style name, quoted or bare.
func ParseIconStyle(raw string) (model.IconStyle, error) {
	return model.ParseIconStyle(unquote(strings.TrimSpace(raw)))
}

// ParseLogLevel normalises a log level name to DEBUG, INFO, WARNING or ERROR.
func ParseLogLevel(raw string) (string, error) {
	switch lvl := strings.ToUpper(strings.TrimSpace(unquote(raw))); lvl {
	case "DEBUG", "INFO", "ERROR":
		return lvl, nil
	case "WARNING", "WARN":
		return "WARNING", nil
	default:
		return "", fmt.Errorf("invalid log level %q", raw)
	}
}

func decodeLiteral(raw string, out any) error {
	doc, err := literalToYAML(raw)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal([]byte(doc), out); err != nil {
		return fmt.Errorf("invalid value %q: %w", raw, err)
	}
	return nil
}

// unquote strips one pair of matching outer quotes.
func unquote(s string) string {
	if len(s) >= 2 && (s[0] == '\'' || s[0] == '"') && s[len(s)-1] == s[0] {
		return s[1 : len(s)-1]
	}
	return s
}

// literalToYAML rewrites a Python list/tuple/dict literal into a YAML flow
// document. Tuples become sequences and string literals are decoded
// (honouring the r prefix) and re-emitted single-quoted, so regular
// expressions keep their backslashes verbatim.
func literalToYAML(raw string) (string, error) {
	var b strings.Builder
	s := strings.TrimSpace(raw)
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case (c == 'r' || c == 'R') && i+1 < len(s) && (s[i+1] == '\'' || s[i+1] == '"') && !identByte(s, i-1):
			lit, n, err := readString(s[i+1:], true)
			if err != nil {
				return "", fmt.Errorf("invalid value %q: %w", raw, err)
			}
			b.WriteString(yamlQuote(lit))
			i += n
		case c == '\'' || c == '"':
			lit, n, err := readString(s[i:], false)
			if err != nil {
				return "", fmt.Errorf("invalid value %q: %w", raw, err)
			}
			b.WriteString(yamlQuote(lit))
			i += n - 1
		case c == '(':
			b.WriteByte('[')
		case c == ')':
			b.WriteByte(']')
		default:
			b.WriteByte(c)
		}
	}
	return b.String(), nil
}

func identByte(s string, i int) bool {
	if i < 0 {
		return false
	}
	c := s[i]
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

// readString decodes the string literal at the start of s and returns its
// value and the number of bytes consumed.
func readString(s string, raw bool) (string, int, error) {
	quote := s[0]
	var b strings.Builder
	for i := 1; i < len(s); i++ {
		c := s[i]
		if c == quote {
			return b.String(), i + 1, nil
		}
		if c != '\\' || i+1 >= len(s) {
			b.WriteByte(c)
			continue
		}
		next := s[i+1]
		if raw {
			// A raw string still cannot end on an escaped quote.
			b.WriteByte(c)
			b.WriteByte(next)
			i++
			continue
		}
		switch next {
		case '\\', '\'', '"':
			b.WriteByte(next)
		case 'n':
			b.WriteByte('\n')
		case 't':
			b.WriteByte('\t')
		default:
			// Unknown escapes (\d, \g, \u...) are kept as written.
			b.WriteByte(c)
			b.WriteByte(next)
		}
		i++
	}
	return "", 0, fmt.Errorf("unterminated string literal")
}

func yamlQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
