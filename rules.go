package tailwindify

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"gitlab.com/tozd/go/errors"
)

// Default markers surrounding rewrites that need a manual look.
// Upper-case so no rule pattern can match inside them.
const (
	DefaultWarnPrefix = "__MANUAL_REVIEW>"
	DefaultWarnSuffix = "<MANUAL_REVIEW__"
)

// Markers wrap ambiguous rewrites so reviewers can grep for them.
type Markers struct {
	Prefix string
	Suffix string
}

// DefaultMarkers returns the markers used when none are configured.
func DefaultMarkers() Markers {
	return Markers{Prefix: DefaultWarnPrefix, Suffix: DefaultWarnSuffix}
}

// Wrap surrounds s with the prefix and suffix.
func (m Markers) Wrap(s string) string {
	return m.Prefix + s + m.Suffix
}

// Rewriter turns one pattern match into its replacement.
// groups[0] is the whole match, followed by the capture groups; unmatched
// optional groups are empty strings. flagged reports that the replacement
// was wrapped in markers.
type Rewriter interface {
	Rewrite(groups []string) (replacement string, flagged bool)
}

// Rule is a named pattern with its rewriter.
type Rule struct {
	Name     string
	Pattern  *regexp.Regexp
	Rewriter Rewriter
	Policy   string // human readable flagging policy, shown by `tailwindify rules`
}

// ruleDef is the uncompiled form of a Rule.
type ruleDef struct {
	name    string
	pattern string
	policy  string
	build   func(Markers) Rewriter
}

// ruleTable is ordered: each pass sees the output of the passes before it.
var ruleTable = []ruleDef{
	{
		name:    "spacing",
		pattern: `(m|p)(t|r|b|l)(\d+)(r?)`,
		policy:  "flag when the r unit is present",
		build:   func(m Markers) Rewriter { return spacingRewriter{markers: m} },
	},
	{
		name:    "font-size",
		pattern: `fs-?(\d+)(r)?`,
		policy:  "flag when the r unit is present",
		build:   func(m Markers) Rewriter { return fontSizeRewriter{markers: m} },
	},
	{
		name:    "font-weight",
		pattern: `font-weight-(\d+)`,
		policy:  "never",
		build:   func(Markers) Rewriter { return fontWeightRewriter{} },
	},
	{
		name:    "line-height",
		pattern: `(lh|line-height)-?(\d+)(p|r)?`,
		policy:  "flag when the r unit is present",
		build:   func(m Markers) Rewriter { return unitRewriter{utility: "leading", markers: m} },
	},
	{
		name:    "border-radius",
		pattern: `(border-radius-|br)-?(\d+)(p|r)?`,
		policy:  "flag when the r unit is present",
		build:   func(m Markers) Rewriter { return unitRewriter{utility: "rounded", markers: m} },
	},
	{
		name:    "opacity",
		pattern: `opacity-(\d+)`,
		policy:  "always",
		build:   func(m Markers) Rewriter { return alwaysFlagRewriter{utility: "opacity", markers: m} },
	},
	{
		// Matches any c + 3/6 hex digits, so words like "cafe" are rewritten too.
		name:    "color",
		pattern: `c-?([A-Fa-f0-9]{6}|[A-Fa-f0-9]{3})`,
		policy:  "never",
		build:   func(Markers) Rewriter { return colorRewriter{} },
	},
	{
		// No Tailwind equivalent.
		name:    "grid-columns",
		pattern: `grid-template-columns-(\d+)`,
		policy:  "always",
		build: func(m Markers) Rewriter {
			return alwaysFlagRewriter{utility: "grid-template-columns", markers: m}
		},
	},
}

// mt4 -> mt-4, mt4r -> <prefix>mt-4r<suffix>
type spacingRewriter struct{ markers Markers }

func (r spacingRewriter) Rewrite(g []string) (string, bool) {
	out := g[1] + g[2] + "-" + g[3] + g[4]
	if g[4] != "" {
		return r.markers.Wrap(out), true
	}
	return out, false
}

// fs14 -> text-14, fs14r -> <prefix>text-14r<suffix>
type fontSizeRewriter struct{ markers Markers }

func (r fontSizeRewriter) Rewrite(g []string) (string, bool) {
	out := "text-" + g[1] + g[2]
	if g[2] == "r" {
		return r.markers.Wrap(out), true
	}
	return out, false
}

type fontWeightRewriter struct{}

func (fontWeightRewriter) Rewrite(g []string) (string, bool) {
	return "font-" + g[1], false
}

// unitRewriter handles the "<name><n><p|r>" families: p becomes %, r is flagged.
type unitRewriter struct {
	utility string
	markers Markers
}

func (r unitRewriter) Rewrite(g []string) (string, bool) {
	size, unit := g[2], g[3]
	switch unit {
	case "r":
		return r.markers.Wrap(r.utility + "-" + size + "r"), true
	case "p":
		return r.utility + "-" + size + "%", false
	default:
		return r.utility + "-" + size, false
	}
}

// alwaysFlagRewriter keeps the utility name and always asks for review.
type alwaysFlagRewriter struct {
	utility string
	markers Markers
}

func (r alwaysFlagRewriter) Rewrite(g []string) (string, bool) {
	return r.markers.Wrap(r.utility + "-" + g[1]), true
}

type colorRewriter struct{}

func (colorRewriter) Rewrite(g []string) (string, bool) {
	return "text-#" + g[1], false
}

// RuleOption configures NewRuleSet.
type RuleOption func(*ruleOptions)

type ruleOptions struct {
	disabled []string
}

// WithDisabled drops the named rules from the set. Order of the remaining
// rules is unchanged.
func WithDisabled(names ...string) RuleOption {
	return func(o *ruleOptions) {
		o.disabled = append(o.disabled, names...)
	}
}

// RuleSet is an ordered, immutable list of rules. It is safe for concurrent use.
type RuleSet struct {
	rules []Rule
}

// Result is the outcome of applying a RuleSet to one document.
type Result struct {
	Content      string
	Changed      bool
	Replacements int
	Flagged      int
}

// NewRuleSet compiles the rule table with the given markers. It is the only
// place markers are read.
func NewRuleSet(markers Markers, opts ...RuleOption) (*RuleSet, error) {
	var o ruleOptions
	for _, opt := range opts {
		opt(&o)
	}

	defs, err := filterRules(ruleTable, o.disabled)
	if err != nil {
		return nil, err
	}
	return compileRules(defs, markers)
}

// RuleNames lists every known rule name in application order.
func RuleNames() []string {
	names := make([]string, len(ruleTable))
	for i, def := range ruleTable {
		names[i] = def.name
	}
	return names
}

func filterRules(defs []ruleDef, disabled []string) ([]ruleDef, error) {
	if len(disabled) == 0 {
		return defs, nil
	}

	skip := make(map[string]bool, len(disabled))
	for _, name := range disabled {
		if name = strings.TrimSpace(name); name != "" {
			skip[name] = true
		}
	}

	kept := make([]ruleDef, 0, len(defs))
	for _, def := range defs {
		if skip[def.name] {
			delete(skip, def.name)
			continue
		}
		kept = append(kept, def)
	}

	if len(skip) > 0 {
		unknown := make([]string, 0, len(skip))
		for name := range skip {
			unknown = append(unknown, name)
		}
		sort.Strings(unknown)
		return nil, errors.Errorf("unknown rule(s) %s (known: %s)",
			strings.Join(unknown, ", "), strings.Join(RuleNames(), ", "))
	}
	return kept, nil
}

func compileRules(defs []ruleDef, markers Markers) (*RuleSet, error) {
	rules := make([]Rule, 0, len(defs))
	for _, def := range defs {
		re, err := regexp.Compile(def.pattern)
		if err != nil {
			return nil, errors.WithStack(&RuleCompileError{Pattern: def.pattern, Err: err})
		}
		rules = append(rules, Rule{
			Name:     def.name,
			Pattern:  re,
			Rewriter: def.build(markers),
			Policy:   def.policy,
		})
	}
	return &RuleSet{rules: rules}, nil
}

// Rules returns a copy of the ordered rules.
func (rs *RuleSet) Rules() []Rule {
	out := make([]Rule, len(rs.rules))
	copy(out, rs.rules)
	return out
}

// Len returns the number of rules.
func (rs *RuleSet) Len() int {
	return len(rs.rules)
}

// Apply runs every rule, in order, as a replace-all pass over the output of
// the previous pass. Marker text inserted by one rule is plain text to the
// rules after it.
func (rs *RuleSet) Apply(content string) Result {
	res := Result{Content: content}
	for _, rule := range rs.rules {
		next, replaced, flagged := replaceAll(rule, res.Content)
		if replaced == 0 {
			continue
		}
		res.Replacements += replaced
		res.Flagged += flagged
		if next != res.Content {
			res.Changed = true
			res.Content = next
		}
	}
	return res
}

// replaceAll replaces every non-overlapping match of rule.Pattern in s.
func replaceAll(rule Rule, s string) (string, int, int) {
	matches := rule.Pattern.FindAllStringSubmatchIndex(s, -1)
	if len(matches) == 0 {
		return s, 0, 0
	}

	var (
		b       strings.Builder
		last    int
		flagged int
	)
	b.Grow(len(s))
	groups := make([]string, rule.Pattern.NumSubexp()+1)

	for _, m := range matches {
		for i := range groups {
			start, end := m[2*i], m[2*i+1]
			if start < 0 {
				groups[i] = ""
				continue
			}
			groups[i] = s[start:end]
		}

		out, flag := rule.Rewriter.Rewrite(groups)
		if flag {
			flagged++
		}
		b.WriteString(s[last:m[0]])
		b.WriteString(out)
		last = m[1]
	}
	b.WriteString(s[last:])

	return b.String(), len(matches), flagged
}

// String renders the rule for logs.
func (r Rule) String() string {
	return fmt.Sprintf("%s %s", r.Name, r.Pattern)
}
