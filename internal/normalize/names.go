package normalize

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"complaint-dashboard/internal/catalog"
)

var staffSeparator = regexp.MustCompile(`(?i)\s*[,&]\s*|\s+dan\s+`)

type unitRule struct {
	pattern *regexp.Regexp
	display string
}

// Normalizer canonicalizes the free-text staff and unit fields.
// It is safe for concurrent use.
type Normalizer struct {
	aliases map[string]string
	rules   []unitRule
}

// New compiles the catalog's alias table and unit rules.
// The catalog is expected to have passed Validate.
func New(cat catalog.Catalog) *Normalizer {
	aliases := make(map[string]string, len(cat.StaffAliases))
	for k, v := range cat.StaffAliases {
		aliases[k] = v
	}

	rules := make([]unitRule, 0, len(cat.UnitRules))
	for _, r := range cat.UnitRules {
		re, err := regexp.Compile(r.Pattern)
		if err != nil {
			continue
		}
		rules = append(rules, unitRule{pattern: re, display: r.Display})
	}

	return &Normalizer{aliases: aliases, rules: rules}
}

// Staff splits a staff string on commas, ampersands and the word "dan",
// maps each token through the alias table, drops repeats and joins the
// result with ", ". Alias values are not split again, so a composite alias
// can still produce a repeated name.
func (n *Normalizer) Staff(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}

	seen := make(map[string]bool)
	var out []string
	for _, token := range staffSeparator.Split(raw, -1) {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}
		name := token
		if alias, ok := n.aliases[token]; ok {
			name = alias
		}
		if seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, name)
	}
	return strings.Join(out, ", ")
}

// Unit returns the display name of a raw unit string.
func (n *Normalizer) Unit(raw string) string {
	for _, r := range n.rules {
		if r.pattern.MatchString(raw) {
			return r.display
		}
	}
	return capitalizeFirst(strings.ToLower(raw))
}

func capitalizeFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
