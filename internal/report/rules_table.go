package report

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/yacobolo/tailwindify"
)

// PrintRules lists the rules in application order.
func PrintRules(w io.Writer, rules *tailwindify.RuleSet, useColors bool) {
	nameWidth := 0
	for _, rule := range rules.Rules() {
		nameWidth = max(nameWidth, lipgloss.Width(rule.Name))
	}

	fmt.Fprintln(w, RenderStyle(StyleCyan, "Rules (applied in order)", useColors))
	for i, rule := range rules.Rules() {
		fmt.Fprintf(w, "%d. %-*s  %s  %s\n",
			i+1,
			nameWidth, rule.Name,
			rule.Pattern.String(),
			RenderStyle(StyleGray, "flag: "+rule.Policy, useColors))
	}
}
