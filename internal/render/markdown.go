// Package render turns comparison reports into the markdown narrative the
// analysis is read through, and converts that markdown to HTML for the web
// server.
package render

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"

	"goequity/domain/equity"
)

// ReportMarkdown renders one comparison report as a markdown section.
func ReportMarkdown(r *equity.ComparisonReport) string {
	var b strings.Builder

	fmt.Fprintf(&b, "### %s by %s\n\n", r.Measure, r.Category)

	for _, ex := range r.Exclusions {
		fmt.Fprintf(&b, "❕ **Excluded %q: %s (count %d).**\n\n", ex.Label, ex.Reason, ex.Count)
	}

	if !r.Comparable {
		b.WriteString("❌ **Not comparable: fewer than two groups with sufficient data.**\n\n")
		writeDescriptives(&b, r)
		return b.String()
	}

	fmt.Fprintf(&b, "Hypothesis: the difference in %s by %s is not statistically significant.\n\n",
		r.Measure, r.Category)

	if r.Omnibus != nil {
		if r.Omnibus.Significant {
			fmt.Fprintf(&b, "❌ **Hypothesis rejected: there is a significant difference (%s). P value: %s**\n\n",
				r.Omnibus.Test, numToString(r.Omnibus.PValue))
		} else {
			fmt.Fprintf(&b, "✅ **Hypothesis upheld: difference is not significant (%s). P value: %s**\n\n",
				r.Omnibus.Test, numToString(r.Omnibus.PValue))
		}
		if r.Omnibus.Effect != nil {
			fmt.Fprintf(&b, "❕ **Effect size: %s, %s**\n\n",
				numToString(r.Omnibus.Effect.D), r.Omnibus.Effect.Magnitude)
		}
	}

	writeDescriptives(&b, r)

	if len(r.Pairwise) > 0 {
		b.WriteString("| Label 1 | Label 2 | Stat | p Value | Low CI | High CI | Effect Size |\n")
		b.WriteString("|---|---|---|---|---|---|---|\n")
		for _, p := range sortedByP(r.Pairwise) {
			low, high := "", ""
			if p.CI != nil {
				low, high = numToString(p.CI.Low), numToString(p.CI.High)
			}
			effect := "n/a"
			if p.Effect != nil {
				effect = fmt.Sprintf("%s (%s)", numToString(p.Effect.D), p.Effect.Magnitude)
			}
			fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s | %s |\n",
				p.GroupA, p.GroupB, numToString(p.Statistic), numToString(p.PValue), low, high, effect)
		}
		b.WriteString("\n")
	}

	return b.String()
}

// SweepMarkdown renders a full sweep as one document.
func SweepMarkdown(level equity.OrgLevel, reports []*equity.ComparisonReport) string {
	var b strings.Builder
	fmt.Fprintf(&b, "## Equity Analysis (%s level)\n\n", level)
	for _, r := range reports {
		b.WriteString(ReportMarkdown(r))
	}
	return b.String()
}

// ToHTML converts report markdown to HTML for the web UI.
func ToHTML(md string) []byte {
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.Tables)
	renderer := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags})
	return markdown.ToHTML([]byte(md), p, renderer)
}

func writeDescriptives(b *strings.Builder, r *equity.ComparisonReport) {
	b.WriteString("| Label | Count | Mean | StD | Min | Max |\n")
	b.WriteString("|---|---|---|---|---|---|\n")
	fmt.Fprintf(b, "| %s | %d | %s | %s | %s | %s |\n",
		"(all students)", r.Overall.Count, numToString(r.Overall.Mean),
		numToString(r.Overall.StdDev), numToString(r.Overall.Min), numToString(r.Overall.Max))
	for _, g := range r.Groups {
		fmt.Fprintf(b, "| %s | %d | %s | %s | %s | %s |\n",
			g.Label, g.Count, numToString(g.Mean), numToString(g.StdDev),
			numToString(g.Min), numToString(g.Max))
	}
	b.WriteString("\n")
}

// sortedByP orders pairwise results by ascending p-value, NaN last.
func sortedByP(results []equity.TestResult) []equity.TestResult {
	out := make([]equity.TestResult, len(results))
	copy(out, results)
	sort.SliceStable(out, func(i, j int) bool {
		pi, pj := out[i].PValue, out[j].PValue
		if math.IsNaN(pi) {
			return false
		}
		if math.IsNaN(pj) {
			return true
		}
		return pi < pj
	})
	return out
}

func numToString(v float64) string {
	if math.IsNaN(v) {
		return "NaN"
	}
	return fmt.Sprintf("%.3f", v)
}
