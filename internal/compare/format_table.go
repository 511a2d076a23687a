package compare

import (
	"fmt"
	"strings"

	"github.com/rdgo/drawdown-calculator/internal/domain"
	"github.com/shopspring/decimal"
)

// TableFormatter renders a strategy comparison as a console table.
type TableFormatter struct{}

// Format generates the full ranking table with a verdict line at the top.
func (tf *TableFormatter) Format(result *domain.ComparisonResult) string {
	var sb strings.Builder

	sb.WriteString("WITHDRAWAL STRATEGY COMPARISON\n")
	sb.WriteString(strings.Repeat("=", 96) + "\n")
	if best := result.Best(); best != nil {
		sb.WriteString(fmt.Sprintf("Best after estate taxes: %s\n", best.Label))
	}
	sb.WriteString("\n")

	nameWidth := 22
	numWidth := 16

	sb.WriteString(fmt.Sprintf("%-*s %*s %*s %*s %*s %s\n",
		nameWidth, "Strategy",
		numWidth, "Ending Balance",
		numWidth, "Estate Taxes",
		numWidth, "After Estate",
		numWidth, "Lifetime Taxes",
		"Depleted"))
	sb.WriteString(strings.Repeat("-", 96) + "\n")

	for i, summary := range result.Rankings {
		sb.WriteString(tf.formatRow(summary, i == 0, nameWidth, numWidth))
	}
	sb.WriteString(strings.Repeat("=", 96) + "\n")

	return sb.String()
}

func (tf *TableFormatter) formatRow(summary domain.StrategySummary, best bool, nameWidth, numWidth int) string {
	name := summary.Label
	if best {
		name += " *"
	}

	depleted := "never"
	if summary.DepletedAge != nil {
		depleted = fmt.Sprintf("age %d", *summary.DepletedAge)
	}

	return fmt.Sprintf("%-*s %*s %*s %*s %*s %s\n",
		nameWidth, tf.truncate(name, nameWidth),
		numWidth, "$"+tf.formatDecimal(summary.EndingBalance),
		numWidth, "$"+tf.formatDecimal(summary.EstateTaxes),
		numWidth, "$"+tf.formatDecimal(summary.EndingBalanceAfterEstateTaxes),
		numWidth, "$"+tf.formatDecimal(summary.LifetimeTaxes),
		depleted)
}

// formatDecimal abbreviates large dollar figures for display.
func (tf *TableFormatter) formatDecimal(d decimal.Decimal) string {
	if d.Abs().GreaterThanOrEqual(decimal.NewFromInt(1000000)) {
		return d.Div(decimal.NewFromInt(1000000)).StringFixed(2) + "M"
	} else if d.Abs().GreaterThanOrEqual(decimal.NewFromInt(1000)) {
		return d.Div(decimal.NewFromInt(1000)).StringFixed(1) + "K"
	}
	return d.StringFixed(0)
}

func (tf *TableFormatter) truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

// FormatCompact renders the ranking as a single line, best first.
func (tf *TableFormatter) FormatCompact(result *domain.ComparisonResult) string {
	var sb strings.Builder

	for i, summary := range result.Rankings {
		if i > 0 {
			sb.WriteString(" | ")
		}
		sb.WriteString(fmt.Sprintf("%d. %s: $%s after estate",
			i+1, summary.Label, tf.formatDecimal(summary.EndingBalanceAfterEstateTaxes)))
	}

	return sb.String()
}
