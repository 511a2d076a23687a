package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Modeling guardrails applied at the input boundary. Rates are fractions, so
// 0.05 means five percent.
var (
	minReturnRate    = decimal.NewFromFloat(-0.50)
	maxReturnRate    = decimal.NewFromFloat(0.50)
	minInflationRate = decimal.NewFromFloat(-0.10)
	maxInflationRate = decimal.NewFromFloat(0.20)
)

// Inputs holds the complete household description for one projection run. A
// populated Inputs value is treated as immutable: the engine copies balances
// into its own working state and never writes back.
type Inputs struct {
	CurrentAge     int `json:"currentAge"`
	RetirementAge  int `json:"retirementAge"`
	LifeExpectancy int `json:"lifeExpectancy"`

	RRIFBalance          decimal.Decimal `json:"rrif"`
	RRSPBalance          decimal.Decimal `json:"rrsp"`
	TFSABalance          decimal.Decimal `json:"tfsa"`
	NonRegisteredBalance decimal.Decimal `json:"nonRegistered"`
	AppreciatingAssets   decimal.Decimal `json:"appreciatingAssets"`

	TargetRetirementIncome decimal.Decimal `json:"targetRetirementIncome"`
	AnnualReturnRate       decimal.Decimal `json:"annualReturnRate"`
	InflationRate          decimal.Decimal `json:"inflationRate"`

	AnnualCPP       decimal.Decimal `json:"annualCPP"`
	AnnualOAS       decimal.Decimal `json:"annualOAS"`
	AnnualPension   decimal.Decimal `json:"annualPension"`
	CPPStartAge     int             `json:"cppStartAge"`
	OASStartAge     int             `json:"oasStartAge"`
	PensionStartAge int             `json:"pensionStartAge"`

	AnnualRRSPContribution          decimal.Decimal `json:"annualRRSPContribution"`
	AnnualTFSAContribution          decimal.Decimal `json:"annualTFSAContribution"`
	AnnualNonRegisteredContribution decimal.Decimal `json:"annualNonRegisteredContribution"`

	// TaxableNonRegisteredShare is the fraction of each non-registered
	// withdrawal that realizes capital gains, in [0, 1].
	TaxableNonRegisteredShare decimal.Decimal `json:"taxableNonRegisteredShare"`

	ApplyOASClawback         bool `json:"applyOASClawback"`
	ApplyRRIFMinimums        bool `json:"applyMinimumRRIFWithdrawals"`
	ApplyPensionIncomeCredit bool `json:"applyPensionIncomeTaxCredit"`
}

// Validate checks every invariant the projection depends on. It returns a
// ValidationError describing the first violation found.
func (in Inputs) Validate() error {
	if in.CurrentAge < 1 {
		return NewValidationError("currentAge", "must be at least 1")
	}
	if in.RetirementAge < in.CurrentAge {
		return NewValidationError("retirementAge", fmt.Sprintf("must be at or above current age %d", in.CurrentAge))
	}
	if in.LifeExpectancy <= in.RetirementAge {
		return NewValidationError("lifeExpectancy", fmt.Sprintf("must be above retirement age %d", in.RetirementAge))
	}
	if in.TargetRetirementIncome.LessThanOrEqual(decimal.Zero) {
		return NewValidationError("targetRetirementIncome", "must be positive")
	}

	balances := []struct {
		field string
		value decimal.Decimal
	}{
		{"rrif", in.RRIFBalance},
		{"rrsp", in.RRSPBalance},
		{"tfsa", in.TFSABalance},
		{"nonRegistered", in.NonRegisteredBalance},
		{"appreciatingAssets", in.AppreciatingAssets},
		{"annualCPP", in.AnnualCPP},
		{"annualOAS", in.AnnualOAS},
		{"annualPension", in.AnnualPension},
		{"annualRRSPContribution", in.AnnualRRSPContribution},
		{"annualTFSAContribution", in.AnnualTFSAContribution},
		{"annualNonRegisteredContribution", in.AnnualNonRegisteredContribution},
	}
	for _, b := range balances {
		if b.value.IsNegative() {
			return NewValidationError(b.field, "must not be negative")
		}
	}

	if in.AnnualReturnRate.LessThan(minReturnRate) || in.AnnualReturnRate.GreaterThan(maxReturnRate) {
		return NewValidationError("annualReturnRate", "must be between -0.50 and 0.50")
	}
	if in.InflationRate.LessThan(minInflationRate) || in.InflationRate.GreaterThan(maxInflationRate) {
		return NewValidationError("inflationRate", "must be between -0.10 and 0.20")
	}
	if in.TaxableNonRegisteredShare.IsNegative() || in.TaxableNonRegisteredShare.GreaterThan(decimal.NewFromInt(1)) {
		return NewValidationError("taxableNonRegisteredShare", "must be between 0 and 1")
	}

	for _, s := range []struct {
		field string
		value int
	}{
		{"cppStartAge", in.CPPStartAge},
		{"oasStartAge", in.OASStartAge},
		{"pensionStartAge", in.PensionStartAge},
	} {
		if s.value < 0 {
			return NewValidationError(s.field, "must not be negative")
		}
	}

	return nil
}

// YearsToRetirement returns the number of accumulation years before the
// retirement simulation starts.
func (in Inputs) YearsToRetirement() int {
	if in.RetirementAge <= in.CurrentAge {
		return 0
	}
	return in.RetirementAge - in.CurrentAge
}

// RetirementYears returns the number of simulated retirement years. The
// projection is inclusive of both endpoints, so retiring at 65 with a life
// expectancy of 90 yields 26 records.
func (in Inputs) RetirementYears() int {
	return in.LifeExpectancy - in.RetirementAge + 1
}

// InflationFactor returns (1+inflation)^yearIndex for a retirement-year offset.
func (in Inputs) InflationFactor(yearIndex int) decimal.Decimal {
	if yearIndex <= 0 {
		return decimal.NewFromInt(1)
	}
	one := decimal.NewFromInt(1)
	return one.Add(in.InflationRate).Pow(decimal.NewFromInt(int64(yearIndex)))
}

// NestEgg returns the investable balance at the start of the plan, excluding
// appreciating assets that are never drawn.
func (in Inputs) NestEgg() decimal.Decimal {
	return in.RRIFBalance.Add(in.RRSPBalance).Add(in.TFSABalance).Add(in.NonRegisteredBalance)
}
