package calculation

import "github.com/shopspring/decimal"

// RRIFConversionAge is the age at which mandatory minimum withdrawals begin.
const RRIFConversionAge = 71

// rrifFinalTableAge is the last tabulated age; the factor holds constant
// beyond it.
const rrifFinalTableAge = 95

// CRA prescribed RRIF factors (post-2015 schedule), fraction of the balance
// that must be withdrawn at each age.
var rrifMinimumFactors = map[int]decimal.Decimal{
	71: decimal.NewFromFloat(0.0528),
	72: decimal.NewFromFloat(0.0540),
	73: decimal.NewFromFloat(0.0553),
	74: decimal.NewFromFloat(0.0567),
	75: decimal.NewFromFloat(0.0582),
	76: decimal.NewFromFloat(0.0598),
	77: decimal.NewFromFloat(0.0617),
	78: decimal.NewFromFloat(0.0636),
	79: decimal.NewFromFloat(0.0658),
	80: decimal.NewFromFloat(0.0682),
	81: decimal.NewFromFloat(0.0708),
	82: decimal.NewFromFloat(0.0738),
	83: decimal.NewFromFloat(0.0771),
	84: decimal.NewFromFloat(0.0808),
	85: decimal.NewFromFloat(0.0851),
	86: decimal.NewFromFloat(0.0899),
	87: decimal.NewFromFloat(0.0955),
	88: decimal.NewFromFloat(0.1021),
	89: decimal.NewFromFloat(0.1099),
	90: decimal.NewFromFloat(0.1192),
	91: decimal.NewFromFloat(0.1306),
	92: decimal.NewFromFloat(0.1449),
	93: decimal.NewFromFloat(0.1634),
	94: decimal.NewFromFloat(0.1879),
	95: decimal.NewFromFloat(0.2000),
}

// MinimumWithdrawalRule computes the mandatory RRIF withdrawal floor. With the
// rule disabled every minimum is zero and withdrawals become fully
// discretionary.
type MinimumWithdrawalRule struct {
	Enabled bool
}

// NewMinimumWithdrawalRule creates the rule with the given toggle.
func NewMinimumWithdrawalRule(enabled bool) *MinimumWithdrawalRule {
	return &MinimumWithdrawalRule{Enabled: enabled}
}

// MinimumFraction returns the mandated fraction of the RRIF balance for the
// given age: zero before the conversion age, the CRA factor thereafter,
// constant past the end of the table, and never above 1.
func (r *MinimumWithdrawalRule) MinimumFraction(age int) decimal.Decimal {
	if !r.Enabled || age < RRIFConversionAge {
		return decimal.Zero
	}
	lookupAge := age
	if lookupAge > rrifFinalTableAge {
		lookupAge = rrifFinalTableAge
	}
	factor, ok := rrifMinimumFactors[lookupAge]
	if !ok {
		return decimal.Zero
	}
	return decimal.Min(factor, decimal.NewFromInt(1))
}

// MinimumWithdrawal returns the dollar floor for the year, capped at the
// available balance.
func (r *MinimumWithdrawalRule) MinimumWithdrawal(age int, rrifBalance decimal.Decimal) decimal.Decimal {
	if rrifBalance.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	minimum := rrifBalance.Mul(r.MinimumFraction(age))
	return decimal.Min(minimum, rrifBalance)
}
