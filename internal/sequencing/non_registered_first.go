package sequencing

import (
	"github.com/rdgo/drawdown-calculator/internal/domain"
	"github.com/shopspring/decimal"
)

// NonRegisteredFirstStrategy spends taxable savings before registered money,
// deferring RRIF tax as long as possible: non-registered, then TFSA, with
// extra RRIF only as the last resort. The mandatory minimum still comes out
// of the RRIF every year regardless.
type NonRegisteredFirstStrategy struct{}

// NewNonRegisteredFirstStrategy creates the strategy.
func NewNonRegisteredFirstStrategy() *NonRegisteredFirstStrategy {
	return &NonRegisteredFirstStrategy{}
}

// ID returns the strategy identifier.
func (s *NonRegisteredFirstStrategy) ID() domain.StrategyID {
	return domain.StrategyNonRegisteredFirst
}

// Split limits the first RRIF tranche to the mandatory floor, so everything
// beyond it comes from non-registered and TFSA money while they last.
func (s *NonRegisteredFirstStrategy) Split(need decimal.Decimal, balances Balances, ctx Context) WithdrawalSplit {
	return sequentialSplit(need, ctx.RRIFFloor, balances)
}
