package sequencing

import (
	"github.com/rdgo/drawdown-calculator/internal/domain"
	"github.com/shopspring/decimal"
)

// BracketFillStrategy uses up the cheap tax room each year: it draws RRIF
// income until taxable income reaches the top of the lowest bracket with
// headroom above the year's benefits, then falls back to non-registered and
// TFSA money. RRIF beyond the ceiling is a last resort.
type BracketFillStrategy struct{}

// NewBracketFillStrategy creates the strategy.
func NewBracketFillStrategy() *BracketFillStrategy { return &BracketFillStrategy{} }

// ID returns the strategy identifier.
func (s *BracketFillStrategy) ID() domain.StrategyID { return domain.StrategyBracketFill }

// Split sizes the RRIF tranche to the headroom between taxable benefits and
// the bracket ceiling, never below the mandatory floor.
func (s *BracketFillStrategy) Split(need decimal.Decimal, balances Balances, ctx Context) WithdrawalSplit {
	headroom := ctx.BracketCeiling.Sub(ctx.TaxableBenefits)
	target := clampTarget(headroom, ctx.RRIFFloor, balances.RRIF)
	return sequentialSplit(need, target, balances)
}
