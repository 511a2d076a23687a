package output

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/rdgo/drawdown-calculator/internal/domain"
	"github.com/shopspring/decimal"
)

// ReportGenerator renders projections in the supported output formats.
type ReportGenerator struct{}

// NewReportGenerator creates a new report generator.
func NewReportGenerator() *ReportGenerator {
	return &ReportGenerator{}
}

// GenerateReport writes a projection to w in the specified format.
func GenerateReport(w io.Writer, projection *domain.Projection, format string) error {
	generator := NewReportGenerator()

	switch format {
	case "console":
		return generator.GenerateConsoleReport(w, projection)
	case "json":
		return generator.GenerateJSONReport(w, projection)
	case "csv":
		return generator.GenerateCSVReport(w, projection)
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
}

// GenerateConsoleReport writes the plan summary and the year-by-year table.
func (rg *ReportGenerator) GenerateConsoleReport(w io.Writer, projection *domain.Projection) error {
	fmt.Fprintln(w, strings.Repeat("=", 100))
	fmt.Fprintln(w, "RETIREMENT DRAWDOWN ANALYSIS")
	fmt.Fprintln(w, strings.Repeat("=", 100))
	fmt.Fprintln(w)

	fmt.Fprintf(w, "Strategy:              %s\n", projection.StrategyLabel)
	fmt.Fprintf(w, "Years to retirement:   %d\n", projection.YearsToRetirement)
	fmt.Fprintf(w, "Retirement start age:  %d\n", projection.RetirementStartAge)
	fmt.Fprintf(w, "Balance at retirement: %s\n", FormatCurrency(projection.BalanceAtRetirement))
	fmt.Fprintln(w)

	summary := projection.Summary
	fmt.Fprintln(w, "PLAN SUMMARY")
	fmt.Fprintln(w, strings.Repeat("=", 40))
	fmt.Fprintf(w, "Lifetime taxes:              %s\n", FormatCurrency(summary.LifetimeTaxes))
	fmt.Fprintf(w, "Ending balance:              %s\n", FormatCurrency(summary.EndingBalance))
	fmt.Fprintf(w, "Estate taxes:                %s\n", FormatCurrency(summary.EstateTaxes))
	fmt.Fprintf(w, "Ending balance after estate: %s\n", FormatCurrency(summary.EndingBalanceAfterEstateTaxes))
	if summary.DepletedAge != nil {
		fmt.Fprintf(w, "Portfolio depleted:          age %d\n", *summary.DepletedAge)
	} else {
		fmt.Fprintf(w, "Portfolio depleted:          never\n")
	}
	fmt.Fprintf(w, "Total CPP received:          %s\n", FormatCurrency(summary.TotalCPPIncome))
	fmt.Fprintf(w, "Total OAS received (net):    %s\n", FormatCurrency(summary.TotalOASIncome))
	fmt.Fprintf(w, "Total pension received:      %s\n", FormatCurrency(summary.TotalPensionIncome))
	fmt.Fprintln(w)

	fmt.Fprintln(w, "YEAR BY YEAR")
	fmt.Fprintln(w, strings.Repeat("=", 100))
	fmt.Fprintf(w, "%4s %11s %11s %11s %11s %11s %11s %12s\n",
		"Age", "RRIF Draw", "TFSA Draw", "NonReg Draw", "Benefits", "Total Tax", "Net Income", "End Balance")
	fmt.Fprintln(w, strings.Repeat("-", 100))

	for _, record := range projection.Years {
		marker := ""
		if record.Depleted {
			marker = " *"
		}
		fmt.Fprintf(w, "%4d %11s %11s %11s %11s %11s %11s %12s%s\n",
			record.Age,
			record.RRIFWithdrawal.StringFixed(0),
			record.TFSAWithdrawal.StringFixed(0),
			record.NonRegisteredWithdrawal.StringFixed(0),
			record.GovernmentBenefits.StringFixed(0),
			record.TotalTax.StringFixed(0),
			record.NetIncome.StringFixed(0),
			record.TotalBalance.StringFixed(0),
			marker)
	}
	fmt.Fprintln(w, strings.Repeat("=", 100))
	if summary.DepletedAge != nil {
		fmt.Fprintln(w, "* drawable portfolio exhausted; benefits only from this year on")
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "ASSUMPTIONS")
	fmt.Fprintln(w, strings.Repeat("-", 40))
	for _, assumption := range DefaultAssumptions {
		fmt.Fprintf(w, "  - %s\n", assumption)
	}

	return nil
}

// GenerateJSONReport writes the full projection as indented JSON.
func (rg *ReportGenerator) GenerateJSONReport(w io.Writer, projection *domain.Projection) error {
	jsonData, err := json.MarshalIndent(projection, "", "  ")
	if err != nil {
		return err
	}
	_, err = w.Write(append(jsonData, '\n'))
	return err
}

// GenerateCSVReport writes every year record as a CSV row.
func (rg *ReportGenerator) GenerateCSVReport(w io.Writer, projection *domain.Projection) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()

	header := []string{
		"Year", "Age",
		"RRIF Withdrawal", "TFSA Withdrawal", "NonRegistered Withdrawal", "Total Withdrawal",
		"CPP", "OAS Gross", "OAS Clawback", "OAS Net", "Pension", "Government Benefits",
		"Taxable Income", "Income Tax", "Capital Gains Tax", "Total Tax",
		"Average Tax Rate", "Marginal Tax Rate",
		"Post Tax Target", "Gross Income Target", "Net Income",
		"RRIF Balance", "TFSA Balance", "NonRegistered Balance", "Appreciating Assets", "Total Balance",
		"Depleted",
	}
	if err := writer.Write(header); err != nil {
		return err
	}

	for _, record := range projection.Years {
		row := []string{
			strconv.Itoa(record.Year),
			strconv.Itoa(record.Age),
			record.RRIFWithdrawal.StringFixed(2),
			record.TFSAWithdrawal.StringFixed(2),
			record.NonRegisteredWithdrawal.StringFixed(2),
			record.TotalWithdrawal.StringFixed(2),
			record.CPPIncome.StringFixed(2),
			record.OASGross.StringFixed(2),
			record.OASClawback.StringFixed(2),
			record.OASNet.StringFixed(2),
			record.PensionIncome.StringFixed(2),
			record.GovernmentBenefits.StringFixed(2),
			record.TaxableIncome.StringFixed(2),
			record.IncomeTax.StringFixed(2),
			record.CapitalGainsTax.StringFixed(2),
			record.TotalTax.StringFixed(2),
			record.AverageTaxRate.StringFixed(2),
			record.MarginalTaxRate.StringFixed(2),
			record.PostTaxTarget.StringFixed(2),
			record.GrossIncomeTarget.StringFixed(2),
			record.NetIncome.StringFixed(2),
			record.RRIFBalance.StringFixed(2),
			record.TFSABalance.StringFixed(2),
			record.NonRegisteredBalance.StringFixed(2),
			record.AppreciatingAssets.StringFixed(2),
			record.TotalBalance.StringFixed(2),
			strconv.FormatBool(record.Depleted),
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}

	return nil
}

// FormatCurrency formats a decimal as currency.
func FormatCurrency(amount decimal.Decimal) string {
	return "$" + amount.StringFixed(2)
}

// FormatPercentage formats a decimal as percentage.
func FormatPercentage(amount decimal.Decimal) string {
	return amount.StringFixed(2) + "%"
}
