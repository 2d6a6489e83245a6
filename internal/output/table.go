// Package output provides terminal output utilities for cartlift.
//
// This package includes:
//   - Table rendering for association rules, recommendations and training runs
//   - The cross-selling insights report
//   - Progress bars for downloads and spinners for long training steps
//
// Rendering functions return strings and never write to stdout themselves.
// Colour is emitted only when stdout is a terminal and NO_COLOR is unset.
package output

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"

	"github.com/blackwell-systems/cartlift/internal/analyzer"
	"github.com/blackwell-systems/cartlift/internal/retail"
	"github.com/blackwell-systems/cartlift/internal/store"
)

// ANSI color codes for lift strength display
const (
	colorReset  = "\033[0m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorGray   = "\033[90m"
	colorBold   = "\033[1m"
)

const productWidth = 36

// IsColorEnabled returns true if ANSI color codes should be emitted.
// It checks that os.Stdout is a TTY and that the NO_COLOR env var is not set.
func IsColorEnabled() bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	return isatty.IsTerminal(os.Stdout.Fd())
}

// colorize wraps text in the given ANSI color code if color is enabled,
// otherwise returns the plain text.
func colorize(color, text string) string {
	if IsColorEnabled() {
		return color + text + colorReset
	}
	return text
}

// RenderRuleTable renders association rules in the given order.
func RenderRuleTable(rules []analyzer.Rule) string {
	if len(rules) == 0 {
		return "No associations found.\n"
	}

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("%-*s %-*s %8s %9s %9s %7s %7s\n",
		productWidth, "Product A", productWidth, "Product B",
		"Support", "Conf A→B", "Conf B→A", "Lift", "Count"))
	sb.WriteString(strings.Repeat("─", 2*productWidth+48))
	sb.WriteString("\n")

	for _, r := range rules {
		sb.WriteString(fmt.Sprintf("%-*s %-*s %8.3f %9.3f %9.3f %s %7s\n",
			productWidth, truncate(r.ProductA, productWidth),
			productWidth, truncate(r.ProductB, productWidth),
			r.Support,
			r.ConfidenceAToB,
			r.ConfidenceBToA,
			formatLift(r.Lift, 7),
			humanize.Comma(int64(r.Count))))
	}

	return sb.String()
}

// RenderRecommendations renders the ranked results of a recommendation query.
func RenderRecommendations(product string, recs []analyzer.Recommendation) string {
	if len(recs) == 0 {
		return fmt.Sprintf("No recommendations found for product: '%s'\n", product)
	}

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Customers who bought %q also bought:\n\n", product))
	sb.WriteString(fmt.Sprintf("%-3s %-*s %8s %10s %7s %7s %s\n",
		"#", productWidth, "Product", "Support", "Confidence", "Lift", "Count", "Dir"))
	sb.WriteString(strings.Repeat("─", productWidth+48))
	sb.WriteString("\n")

	for i, r := range recs {
		sb.WriteString(fmt.Sprintf("%-3d %-*s %8.3f %10.3f %s %7s %s\n",
			i+1,
			productWidth, truncate(r.RecommendedProduct, productWidth),
			r.Support,
			r.Confidence,
			formatLift(r.Lift, 7),
			humanize.Comma(int64(r.Count)),
			r.Direction))
	}

	return sb.String()
}

// RenderTopProducts renders the most frequent products of a sample.
func RenderTopProducts(freqs []retail.ProductFrequency) string {
	if len(freqs) == 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Top %d products:\n", len(freqs)))
	for i, f := range freqs {
		sb.WriteString(fmt.Sprintf("%2d. %-50s (%s times)\n",
			i+1, truncate(f.Description, 50), humanize.Comma(int64(f.Lines))))
	}
	return sb.String()
}

// RenderCleanReport renders the row count left after each cleaning step.
func RenderCleanReport(r retail.CleanReport) string {
	steps := []struct {
		label string
		rows  int
	}{
		{"Original", r.Original},
		{"After removing missing customer", r.WithCustomer},
		{"After removing returns", r.WithoutReturns},
		{"After removing non-positive quantities", r.PositiveQuantity},
		{"After cleaning descriptions", r.WithDescription},
	}

	var sb strings.Builder
	for _, s := range steps {
		sb.WriteString(fmt.Sprintf("%-40s %12s rows\n", s.label+":", humanize.Comma(int64(s.rows))))
	}
	return sb.String()
}

// RenderSampleReport renders the size of the training sample.
func RenderSampleReport(r retail.SampleReport) string {
	return fmt.Sprintf("Sample: %s lines, %s invoices, %s products\n",
		humanize.Comma(int64(r.Lines)),
		humanize.Comma(int64(r.Invoices)),
		humanize.Comma(int64(r.UniqueProducts)))
}

// RenderCountsSummary renders the basket statistics of a training pass.
func RenderCountsSummary(c *analyzer.Counts, rules int) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Multi-item baskets:    %s\n", humanize.Comma(int64(c.TotalBaskets))))
	sb.WriteString(fmt.Sprintf("Unique products:       %s\n", humanize.Comma(int64(len(c.Products)))))
	sb.WriteString(fmt.Sprintf("Unique product pairs:  %s\n", humanize.Comma(int64(len(c.Pairs)))))
	sb.WriteString(fmt.Sprintf("Associations found:    %s\n", humanize.Comma(int64(rules))))
	return sb.String()
}

// RenderRunTable renders training runs, newest first as given.
func RenderRunTable(runs []*store.TrainingRun) string {
	if len(runs) == 0 {
		return "No training runs found.\n"
	}

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("%-10s %-17s %10s %10s %10s %s\n",
		"Run", "Trained", "Baskets", "Products", "Rules", "Source"))
	sb.WriteString(strings.Repeat("─", 90))
	sb.WriteString("\n")

	for _, run := range runs {
		sb.WriteString(fmt.Sprintf("%-10s %-17s %10s %10s %10s %s\n",
			truncate(run.ID, 8),
			formatRelativeTime(run.CreatedAt),
			humanize.Comma(int64(run.TotalBaskets)),
			humanize.Comma(int64(run.UniqueProducts)),
			humanize.Comma(int64(run.RuleCount)),
			truncate(run.Source, 40)))
	}

	return sb.String()
}

// formatLift right-aligns lift in width columns, coloured by strength.
func formatLift(lift float64, width int) string {
	text := fmt.Sprintf("%*.3f", width, lift)
	return colorize(liftColor(lift), text)
}

// liftColor returns the ANSI color code for a lift value.
func liftColor(lift float64) string {
	switch {
	case lift >= 3:
		return colorGreen
	case lift >= analyzer.StrongMinLift:
		return colorYellow
	default:
		return colorGray
	}
}

// formatRelativeTime converts a timestamp to relative time (e.g., "2 days ago").
func formatRelativeTime(t time.Time) string {
	if t.IsZero() {
		return "never"
	}
	if time.Since(t) < time.Minute {
		return "just now"
	}
	return humanize.Time(t)
}

// formatPercent renders a fraction as a percentage with one decimal.
func formatPercent(f float64) string {
	return fmt.Sprintf("%.1f%%", f*100)
}

// truncate truncates a string to maxLen runes, adding "..." if truncated.
func truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(r[:maxLen])
	}
	return string(r[:maxLen-3]) + "..."
}
