package sequencing

import (
	"github.com/rdgo/drawdown-calculator/internal/domain"
	"github.com/shopspring/decimal"
)

// RRIFFirstStrategy drains the RRIF before anything else, paying tax early to
// empty the registered account while rates are known, then non-registered,
// keeping the TFSA for last.
type RRIFFirstStrategy struct{}

// NewRRIFFirstStrategy creates the strategy.
func NewRRIFFirstStrategy() *RRIFFirstStrategy { return &RRIFFirstStrategy{} }

// ID returns the strategy identifier.
func (s *RRIFFirstStrategy) ID() domain.StrategyID { return domain.StrategyRRIFFirst }

// Split sends the whole request at the RRIF first. The mandatory floor sits
// inside the tranche by construction.
func (s *RRIFFirstStrategy) Split(need decimal.Decimal, balances Balances, ctx Context) WithdrawalSplit {
	return sequentialSplit(need, balances.RRIF, balances)
}
