package naming

import (
	"fmt"
	"log/slog"
	"regexp"
	"strings"
)

// SubstitutionRule rewrites a name with a regular expression.
type SubstitutionRule struct {
	Pattern     *regexp.Regexp
	Replacement string
}

// legacyGroupRef matches Python-style group references: \g<1>, \g<name>, \1.
var legacyGroupRef = regexp.MustCompile(`\\g<(\w+)>|\\(\d+)`)

// NewRule compiles a pattern/replacement pair. The replacement may use Go's
// ${1} syntax or the \g<1> and \1 forms found in existing tmux configs.
// Any other $ is literal text.
func NewRule(pattern, replacement string) (SubstitutionRule, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return SubstitutionRule{}, fmt.Errorf("invalid substitution pattern %q: %w", pattern, err)
	}
	return SubstitutionRule{Pattern: re, Replacement: normalizeReplacement(replacement)}, nil
}

// MustRule is NewRule for static rule tables.
func MustRule(pattern, replacement string) SubstitutionRule {
	r, err := NewRule(pattern, replacement)
	if err != nil {
		panic(err)
	}
	return r
}

func normalizeReplacement(s string) string {
	s = escapeBareDollars(s)
	return legacyGroupRef.ReplaceAllStringFunc(s, func(m string) string {
		sub := legacyGroupRef.FindStringSubmatch(m)
		if sub[1] != "" {
			return "${" + sub[1] + "}"
		}
		return "${" + sub[2] + "}"
	})
}

// escapeBareDollars doubles every $ that does not open a ${name} reference.
func escapeBareDollars(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == '$' && (i+1 == len(s) || s[i+1] != '{') {
			b.WriteString("$$")
			continue
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

func (r SubstitutionRule) String() string {
	return fmt.Sprintf("%s -> %s", r.Pattern, r.Replacement)
}

// Substitute applies every rule in order, each one rewriting the output of
// the previous one.
func Substitute(name string, rules []SubstitutionRule) string {
	for _, r := range rules {
		name = r.Pattern.ReplaceAllString(name, r.Replacement)
		slog.Debug("substitute", slog.String("pattern", r.Pattern.String()), slog.String("result", name))
	}
	return name
}

// Interpreter path removers. They are also used by the resolver to reduce a
// command to its bare program name.
var (
	usrBinRemover     = MustRule(`^(/usr)?/bin/(.+)`, `${2}`)
	curSystemRemover  = MustRule(`^/run/current-system/sw/bin/(.+)`, `${1}`)
	nixProfileRemover = MustRule(`^/home/[a-zA-Z]*/.nix-profile/bin/(.+)`, `${1}`)
	nixStoreRemover   = MustRule(`^/nix/store/[^/]+/.nix-profile/bin/(.+)`, `${1}`)
)

var pathRemovers = []SubstitutionRule{usrBinRemover, curSystemRemover, nixProfileRemover, nixStoreRemover}

// DefaultSubstituteSets returns the default program substitution rules.
func DefaultSubstituteSets() []SubstitutionRule {
	return []SubstitutionRule{
		MustRule(`.+ipython([32])`, `ipython${1}`),
		usrBinRemover,
		curSystemRemover,
		nixProfileRemover,
		nixStoreRemover,
		MustRule(`(bash) (.+)/(.+[ $])(.+)`, `${3}${4}`),
		MustRule(`.+poetry shell`, `poetry`),
	}
}
