package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/rdgo/drawdown-calculator/internal/domain"
)

// GenerateStressReport writes a stress sweep in the specified format.
func GenerateStressReport(w io.Writer, result *domain.StressResult, format string) error {
	switch format {
	case "console":
		return generateStressConsole(w, result)
	case "json":
		jsonData, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return err
		}
		_, err = w.Write(append(jsonData, '\n'))
		return err
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
}

func generateStressConsole(w io.Writer, result *domain.StressResult) error {
	fmt.Fprintln(w, strings.Repeat("=", 100))
	fmt.Fprintln(w, "STRESS SWEEP")
	fmt.Fprintln(w, strings.Repeat("=", 100))
	fmt.Fprintln(w)

	fmt.Fprintf(w, "Strategy:  %s\n", result.Strategy.Label())
	fmt.Fprintf(w, "Scenarios: %d\n", result.Scenarios)
	if result.Degenerate {
		fmt.Fprintln(w, "Warning:   grid too small for percentiles; bands mirror the single scenario")
	}
	fmt.Fprintln(w)

	stressBandTable(w, "PORTFOLIO BALANCE BANDS", result.Ages, result.TotalBalance)
	stressBandTable(w, "NET INCOME BANDS", result.Ages, result.NetIncome)
	stressBandTable(w, "TOTAL TAX BANDS", result.Ages, result.TotalTax)
	return nil
}

func stressBandTable(w io.Writer, title string, ages []int, bands domain.BandSeries) {
	fmt.Fprintln(w, title)
	fmt.Fprintln(w, strings.Repeat("-", 52))
	fmt.Fprintf(w, "%4s %15s %15s %15s\n", "Age", "P10", "P50", "P90")
	for i, age := range ages {
		if i >= len(bands.P10) || i >= len(bands.P50) || i >= len(bands.P90) {
			break
		}
		fmt.Fprintf(w, "%4d %15s %15s %15s\n",
			age,
			bands.P10[i].StringFixed(0),
			bands.P50[i].StringFixed(0),
			bands.P90[i].StringFixed(0))
	}
	fmt.Fprintln(w)
}
