package sequencing

import (
	"github.com/rdgo/drawdown-calculator/internal/domain"
	"github.com/shopspring/decimal"
)

// smoothingAnchorFraction keeps the smoothed taxable target a little under
// the low-bracket ceiling so ordinary years stay out of the next bracket.
var smoothingAnchorFraction = decimal.NewFromFloat(0.85)

// TaxSmoothingStrategy levels taxable income across the remaining horizon
// instead of letting RRIF income spike early or late. Each year it aims
// taxable income at the largest of three targets: a low-bracket anchor, last
// year's taxable income carried forward with inflation, and the level draw
// that spreads the current RRIF balance evenly over the years left.
type TaxSmoothingStrategy struct{}

// NewTaxSmoothingStrategy creates the strategy.
func NewTaxSmoothingStrategy() *TaxSmoothingStrategy { return &TaxSmoothingStrategy{} }

// ID returns the strategy identifier.
func (s *TaxSmoothingStrategy) ID() domain.StrategyID { return domain.StrategyTaxSmoothing }

// Split converts the smoothed taxable-income target into an RRIF tranche.
// The horizon arrives in ctx.YearsRemaining; the strategy itself carries no
// state between years.
func (s *TaxSmoothingStrategy) Split(need decimal.Decimal, balances Balances, ctx Context) WithdrawalSplit {
	years := ctx.YearsRemaining
	if years < 1 {
		years = 1
	}

	anchor := ctx.LowBracketCeiling.Mul(smoothingAnchorFraction)
	carried := ctx.PriorTaxableIncome.Mul(decimal.NewFromInt(1).Add(ctx.InflationRate))
	levelDraw := balances.RRIF.Div(decimal.NewFromInt(int64(years))).Add(ctx.TaxableBenefits)

	desired := decimal.Max(anchor, carried, levelDraw)
	target := clampTarget(desired.Sub(ctx.TaxableBenefits), ctx.RRIFFloor, balances.RRIF)
	return sequentialSplit(need, target, balances)
}
