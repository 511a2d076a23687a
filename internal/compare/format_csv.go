package compare

import (
	"encoding/csv"
	"fmt"
	"strings"

	"github.com/rdgo/drawdown-calculator/internal/domain"
)

// CSVFormatter renders a strategy comparison as CSV, one row per strategy in
// ranking order.
type CSVFormatter struct{}

// Format generates CSV output for the comparison.
func (cf *CSVFormatter) Format(result *domain.ComparisonResult) (string, error) {
	var sb strings.Builder
	writer := csv.NewWriter(&sb)

	header := []string{
		"Rank",
		"Strategy",
		"Label",
		"Ending Balance",
		"Estate Taxes",
		"Ending Balance After Estate Taxes",
		"Lifetime Taxes",
		"Depleted Age",
		"Total CPP",
		"Total OAS",
		"Total Pension",
	}
	if err := writer.Write(header); err != nil {
		return "", err
	}

	for i, summary := range result.Rankings {
		if err := writer.Write(cf.formatRow(i+1, summary)); err != nil {
			return "", err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return "", err
	}

	return sb.String(), nil
}

func (cf *CSVFormatter) formatRow(rank int, summary domain.StrategySummary) []string {
	depleted := ""
	if summary.DepletedAge != nil {
		depleted = fmt.Sprintf("%d", *summary.DepletedAge)
	}

	return []string{
		fmt.Sprintf("%d", rank),
		string(summary.ID),
		summary.Label,
		summary.EndingBalance.StringFixed(2),
		summary.EstateTaxes.StringFixed(2),
		summary.EndingBalanceAfterEstateTaxes.StringFixed(2),
		summary.LifetimeTaxes.StringFixed(2),
		depleted,
		summary.TotalCPPIncome.StringFixed(2),
		summary.TotalOASIncome.StringFixed(2),
		summary.TotalPensionIncome.StringFixed(2),
	}
}
