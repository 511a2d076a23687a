package domain

import "github.com/shopspring/decimal"

// AssumptionRange sweeps a rate from Min to Max in Step increments, endpoints
// included. A range with Min == Max is a single point and needs no step.
type AssumptionRange struct {
	Min  decimal.Decimal `json:"min"`
	Max  decimal.Decimal `json:"max"`
	Step decimal.Decimal `json:"step"`
}

// PointRange returns a single-value range, useful for holding one axis fixed.
func PointRange(value decimal.Decimal) AssumptionRange {
	return AssumptionRange{Min: value, Max: value}
}

// Validate checks the range shape. maxSteps bounds the number of values so a
// pathological step cannot explode the grid.
func (r AssumptionRange) Validate(field string, maxSteps int) error {
	if r.Max.LessThan(r.Min) {
		return NewValidationError(field, "max must be at or above min")
	}
	if r.Min.Equal(r.Max) {
		return nil
	}
	if r.Step.LessThanOrEqual(decimal.Zero) {
		return NewValidationError(field, "step must be positive when max exceeds min")
	}
	if r.Count() > maxSteps {
		return NewValidationError(field, "step produces too many grid points")
	}
	return nil
}

// Count returns how many values the range produces.
func (r AssumptionRange) Count() int {
	if r.Min.Equal(r.Max) || r.Step.LessThanOrEqual(decimal.Zero) {
		return 1
	}
	span := r.Max.Sub(r.Min)
	return int(span.Div(r.Step).IntPart()) + 1
}

// Values enumerates the swept values in ascending order. The last value never
// exceeds Max even when the span is not an exact multiple of Step.
func (r AssumptionRange) Values() []decimal.Decimal {
	count := r.Count()
	values := make([]decimal.Decimal, 0, count)
	for i := 0; i < count; i++ {
		values = append(values, r.Min.Add(r.Step.Mul(decimal.NewFromInt(int64(i)))))
	}
	return values
}

// BandSeries holds the low, median and high percentile paths for one plotted
// metric, aligned by year index.
type BandSeries struct {
	P10 []decimal.Decimal `json:"p10"`
	P50 []decimal.Decimal `json:"p50"`
	P90 []decimal.Decimal `json:"p90"`
}

// StressResult is the aggregated outcome of a return/inflation grid sweep for
// one strategy. It is recomputed from scratch whenever inputs or strategy
// change; nothing is cached between calls.
type StressResult struct {
	Strategy     StrategyID `json:"strategy"`
	Ages         []int      `json:"ages"`
	TotalBalance BandSeries `json:"totalBalance"`
	NetIncome    BandSeries `json:"netIncome"`
	TotalTax     BandSeries `json:"totalTax"`
	Scenarios    int        `json:"scenarios"`
	// Degenerate flags a grid too small for meaningful percentiles. The bands
	// then all equal the single scenario and the result stands as a warning,
	// not an error.
	Degenerate bool `json:"degenerate"`
}
