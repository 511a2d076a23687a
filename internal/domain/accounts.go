package domain

import "github.com/shopspring/decimal"

// AccountState tracks the household balances as the projection advances. It is
// a value type: each run copies the starting balances out of Inputs and works
// on its own state, so concurrent runs never share mutable data. Balances are
// clipped at zero, never negative.
type AccountState struct {
	RRIF decimal.Decimal `json:"rrif"`
	// RRSP exists only during accumulation. It folds into the RRIF when the
	// retirement simulation starts.
	RRSP               decimal.Decimal `json:"rrsp"`
	TFSA               decimal.Decimal `json:"tfsa"`
	NonRegistered      decimal.Decimal `json:"nonRegistered"`
	AppreciatingAssets decimal.Decimal `json:"appreciatingAssets"`
}

// NewAccountState copies the starting balances out of the inputs.
func NewAccountState(in Inputs) AccountState {
	return AccountState{
		RRIF:               in.RRIFBalance,
		RRSP:               in.RRSPBalance,
		TFSA:               in.TFSABalance,
		NonRegistered:      in.NonRegisteredBalance,
		AppreciatingAssets: in.AppreciatingAssets,
	}
}

// Grow compounds every balance by one year of growth at the given rate.
func (s *AccountState) Grow(rate decimal.Decimal) {
	factor := decimal.NewFromInt(1).Add(rate)
	s.RRIF = s.RRIF.Mul(factor)
	s.RRSP = s.RRSP.Mul(factor)
	s.TFSA = s.TFSA.Mul(factor)
	s.NonRegistered = s.NonRegistered.Mul(factor)
	s.AppreciatingAssets = s.AppreciatingAssets.Mul(factor)
}

// Contribute adds the annual accumulation-phase contributions.
func (s *AccountState) Contribute(rrsp, tfsa, nonRegistered decimal.Decimal) {
	s.RRSP = s.RRSP.Add(rrsp)
	s.TFSA = s.TFSA.Add(tfsa)
	s.NonRegistered = s.NonRegistered.Add(nonRegistered)
}

// FoldRRSP collapses the RRSP into the RRIF at retirement start.
func (s *AccountState) FoldRRSP() {
	s.RRIF = s.RRIF.Add(s.RRSP)
	s.RRSP = decimal.Zero
}

// Withdraw reduces the drawable balances, clipping each at zero.
func (s *AccountState) Withdraw(rrif, tfsa, nonRegistered decimal.Decimal) {
	s.RRIF = decimal.Max(decimal.Zero, s.RRIF.Sub(rrif))
	s.TFSA = decimal.Max(decimal.Zero, s.TFSA.Sub(tfsa))
	s.NonRegistered = decimal.Max(decimal.Zero, s.NonRegistered.Sub(nonRegistered))
}

// DrawableTotal returns the portion of the portfolio that can fund income.
// Appreciating assets are held to the end of the plan and excluded.
func (s AccountState) DrawableTotal() decimal.Decimal {
	return s.RRIF.Add(s.TFSA).Add(s.NonRegistered)
}

// Total returns every balance, appreciating assets included.
func (s AccountState) Total() decimal.Decimal {
	return s.DrawableTotal().Add(s.RRSP).Add(s.AppreciatingAssets)
}

// ZeroDrawable empties the drawable accounts once the portfolio depletes, so
// later records report clean zeros instead of rounding residue.
func (s *AccountState) ZeroDrawable() {
	s.RRIF = decimal.Zero
	s.TFSA = decimal.Zero
	s.NonRegistered = decimal.Zero
}
