package scene

import (
	"regexp"
)

// RewriteRule maps one stale Manim name to its current equivalent.
type RewriteRule struct {
	Name        string
	Pattern     string
	Replacement string

	re *regexp.Regexp
}

// RuleSet is an ordered, versioned list of rewrite rules applied in a single pass.
type RuleSet struct {
	Version int
	Rules   []RewriteRule
}

// Compat is the rule set applied to externally generated scripts.
// Order matters: method-call forms are rewritten before bare forms.
var Compat = NewRuleSet(2, []RewriteRule{
	{Name: "ParametricCurve", Pattern: `\bParametricCurve\b`, Replacement: "ParametricFunction"},
	{Name: "axes.get_graph(", Pattern: `\.get_graph\(`, Replacement: ".plot("},
	{Name: "get_graph(", Pattern: `\bget_graph\(`, Replacement: "plot("},
	{Name: "runtime=", Pattern: `\bruntime\s*=\s*`, Replacement: "run_time="},
	{Name: "ease_in", Pattern: `\b(rate_functions\.)?ease_in\b`, Replacement: "${1}smooth"},
	{Name: "ease_out", Pattern: `\b(rate_functions\.)?ease_out\b`, Replacement: "${1}smooth"},
	{Name: "ShowCreation", Pattern: `\bShowCreation\b`, Replacement: "Create"},
	{Name: "TextMobject", Pattern: `\bTextMobject\b`, Replacement: "Text"},
	{Name: "TexMobject", Pattern: `\bTexMobject\b`, Replacement: "MathTex"},
})

// NewRuleSet compiles the rule patterns. It panics on an invalid pattern,
// rule sets are package data.
func NewRuleSet(version int, rules []RewriteRule) RuleSet {
	compiled := make([]RewriteRule, len(rules))
	for i, r := range rules {
		r.re = regexp.MustCompile(r.Pattern)
		compiled[i] = r
	}
	return RuleSet{Version: version, Rules: compiled}
}

// Apply rewrites every deprecated name in code.
func (rs RuleSet) Apply(code string) string {
	for _, r := range rs.Rules {
		code = r.re.ReplaceAllString(code, r.Replacement)
	}
	return code
}

// Find returns the names of the rules that still match code.
func (rs RuleSet) Find(code string) []string {
	var found []string
	for _, r := range rs.Rules {
		if r.re.MatchString(code) {
			found = append(found, r.Name)
		}
	}
	return found
}
