package sequencing

import (
	"github.com/rdgo/drawdown-calculator/internal/domain"
	"github.com/shopspring/decimal"
)

// Balances is the drawable account state offered to a strategy, already grown
// for the year.
type Balances struct {
	RRIF          decimal.Decimal
	TFSA          decimal.Decimal
	NonRegistered decimal.Decimal
}

// Total returns the full drawable amount.
func (b Balances) Total() decimal.Decimal {
	return b.RRIF.Add(b.TFSA).Add(b.NonRegistered)
}

// WithdrawalSplit is the per-account allocation of one year's gross
// withdrawal. Components are never negative and never exceed the
// corresponding balance.
type WithdrawalSplit struct {
	RRIF          decimal.Decimal
	TFSA          decimal.Decimal
	NonRegistered decimal.Decimal
}

// Total returns the gross amount across all accounts.
func (s WithdrawalSplit) Total() decimal.Decimal {
	return s.RRIF.Add(s.TFSA).Add(s.NonRegistered)
}

// Context carries the year's tax landscape into a strategy decision. The
// engine rebuilds it every year; strategies hold no state of their own.
type Context struct {
	// RRIFFloor is the mandatory minimum withdrawal, already capped at the
	// RRIF balance. Every split includes at least this much RRIF money.
	RRIFFloor decimal.Decimal
	// TaxableBenefits is CPP + OAS gross + pension for the year, indexed.
	TaxableBenefits decimal.Decimal
	// BracketCeiling is the first indexed bracket boundary above
	// TaxableBenefits, the cheap room a filler aims for.
	BracketCeiling decimal.Decimal
	// LowBracketCeiling is the indexed top of the lowest positive-rate
	// bracket.
	LowBracketCeiling decimal.Decimal
	// PriorTaxableIncome is last year's taxable income, zero in the first
	// retirement year.
	PriorTaxableIncome decimal.Decimal
	InflationRate      decimal.Decimal
	// YearsRemaining counts the current year through the final plan year,
	// always at least 1.
	YearsRemaining int
}

// Strategy decides which accounts fund a requested gross withdrawal. The
// engine guarantees need >= ctx.RRIFFloor and need <= balances.Total();
// implementations must allocate exactly min(need, total) and honor the floor.
type Strategy interface {
	ID() domain.StrategyID
	Split(need decimal.Decimal, balances Balances, ctx Context) WithdrawalSplit
}

// sequentialSplit fills the request from an initial RRIF tranche, then
// non-registered, then TFSA, then any remaining RRIF. Every strategy reduces
// to this fill with a different first-tranche target.
func sequentialSplit(need, rrifTarget decimal.Decimal, balances Balances) WithdrawalSplit {
	need = decimal.Max(need, decimal.Zero)
	split := WithdrawalSplit{}

	split.RRIF = decimal.Min(need, decimal.Min(rrifTarget, balances.RRIF))
	remaining := need.Sub(split.RRIF)

	split.NonRegistered = decimal.Min(remaining, balances.NonRegistered)
	remaining = remaining.Sub(split.NonRegistered)

	split.TFSA = decimal.Min(remaining, balances.TFSA)
	remaining = remaining.Sub(split.TFSA)

	if remaining.GreaterThan(decimal.Zero) {
		extra := decimal.Min(remaining, balances.RRIF.Sub(split.RRIF))
		split.RRIF = split.RRIF.Add(extra)
	}
	return split
}

// clampTarget bounds a desired RRIF tranche between the mandatory floor and
// the available balance.
func clampTarget(desired, floor, balance decimal.Decimal) decimal.Decimal {
	target := decimal.Max(desired, floor)
	return decimal.Min(target, balance)
}
