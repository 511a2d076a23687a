package api

import (
	"github.com/rdgo/drawdown-calculator/internal/domain"
	"github.com/shopspring/decimal"
)

// AnalyzeRequest mirrors the JSON payload of the analysis endpoint. Rates and
// the taxable share arrive as percentages; pointer fields distinguish omitted
// values from explicit zeroes so defaults only fill real gaps.
type AnalyzeRequest struct {
	CurrentAge             int      `json:"currentAge"`
	RetirementAge          int      `json:"retirementAge"`
	LifeExpectancy         *int     `json:"lifeExpectancy"`
	TargetRetirementIncome float64  `json:"targetRetirementIncome"`
	ARR                    float64  `json:"arr"`
	Inflation              float64  `json:"inflation"`

	RRIF                float64 `json:"rrif"`
	RRSP                float64 `json:"rrsp"`
	TFSA                float64 `json:"tfsa"`
	FHSA                float64 `json:"fhsa"`
	RESP                float64 `json:"resp"`
	IndividualTaxable   float64 `json:"individualTaxable"`
	JointTaxable        float64 `json:"jointTaxable"`
	CorporateInvestment float64 `json:"corporateInvestment"`
	AppreciatingAssets  float64 `json:"appreciatingAssets"`

	AnnualRRSPContribution          float64 `json:"annualRRSPContribution"`
	AnnualTFSAContribution          float64 `json:"annualTFSAContribution"`
	AnnualNonRegisteredContribution float64 `json:"annualNonRegisteredContribution"`

	TaxableNonRegisteredWithdrawalPercent *float64 `json:"taxableNonRegisteredWithdrawalPercent"`

	ApplyOASClawback            *bool `json:"applyOASClawback"`
	ApplyMinimumRRIFWithdrawals *bool `json:"applyMinimumRRIFWithdrawals"`
	ApplyPensionIncomeTaxCredit *bool `json:"applyPensionIncomeTaxCredit"`

	AnnualOAS       float64 `json:"annualOAS"`
	AnnualCPP       float64 `json:"annualCPP"`
	AnnualPension   float64 `json:"annualPension"`
	OASStartAge     *int    `json:"oasStartAge"`
	CPPStartAge     *int    `json:"cppStartAge"`
	PensionStartAge *int    `json:"pensionStartAge"`

	WithdrawalStrategy string `json:"withdrawalStrategy"`
}

// Inputs converts the request into projection inputs. The TFSA is carried on
// its own account; the remaining non-RRIF vehicles pool into the non-registered
// balance.
func (r *AnalyzeRequest) Inputs() domain.Inputs {
	percent := 100.0
	if r.TaxableNonRegisteredWithdrawalPercent != nil {
		percent = *r.TaxableNonRegisteredWithdrawalPercent
	}
	share := decimal.NewFromFloat(percent).Div(decimal.NewFromInt(100))
	share = decimal.Min(decimal.NewFromInt(1), decimal.Max(decimal.Zero, share))

	nonRegistered := r.FHSA + r.RESP + r.IndividualTaxable + r.JointTaxable + r.CorporateInvestment

	return domain.Inputs{
		CurrentAge:     r.CurrentAge,
		RetirementAge:  r.RetirementAge,
		LifeExpectancy: intOrDefault(r.LifeExpectancy, 95),

		RRIFBalance:          decimal.NewFromFloat(r.RRIF),
		RRSPBalance:          decimal.NewFromFloat(r.RRSP),
		TFSABalance:          decimal.NewFromFloat(r.TFSA),
		NonRegisteredBalance: decimal.NewFromFloat(nonRegistered),
		AppreciatingAssets:   decimal.NewFromFloat(r.AppreciatingAssets),

		TargetRetirementIncome: decimal.NewFromFloat(r.TargetRetirementIncome),
		AnnualReturnRate:       decimal.NewFromFloat(r.ARR).Div(decimal.NewFromInt(100)),
		InflationRate:          decimal.NewFromFloat(r.Inflation).Div(decimal.NewFromInt(100)),

		AnnualCPP:       decimal.NewFromFloat(r.AnnualCPP),
		AnnualOAS:       decimal.NewFromFloat(r.AnnualOAS),
		AnnualPension:   decimal.NewFromFloat(r.AnnualPension),
		CPPStartAge:     intOrDefault(r.CPPStartAge, 65),
		OASStartAge:     intOrDefault(r.OASStartAge, 65),
		PensionStartAge: intOrDefault(r.PensionStartAge, 65),

		AnnualRRSPContribution:          decimal.NewFromFloat(r.AnnualRRSPContribution),
		AnnualTFSAContribution:          decimal.NewFromFloat(r.AnnualTFSAContribution),
		AnnualNonRegisteredContribution: decimal.NewFromFloat(r.AnnualNonRegisteredContribution),

		TaxableNonRegisteredShare: share,

		ApplyOASClawback:         boolOrDefault(r.ApplyOASClawback, true),
		ApplyRRIFMinimums:        boolOrDefault(r.ApplyMinimumRRIFWithdrawals, true),
		ApplyPensionIncomeCredit: boolOrDefault(r.ApplyPensionIncomeTaxCredit, false),
	}
}

// Strategy resolves the requested withdrawal strategy, defaulting to
// RRIF-first.
func (r *AnalyzeRequest) Strategy() (domain.StrategyID, error) {
	if r.WithdrawalStrategy == "" {
		return domain.StrategyRRIFFirst, nil
	}
	return domain.ParseStrategyID(r.WithdrawalStrategy)
}

// RangeRequest is one sweep axis of a stress request, in percentage points.
type RangeRequest struct {
	Min  float64 `json:"min"`
	Max  float64 `json:"max"`
	Step float64 `json:"step"`
}

// ToRange converts the percentage axis into a fractional assumption range.
func (rr *RangeRequest) ToRange() domain.AssumptionRange {
	hundred := decimal.NewFromInt(100)
	return domain.AssumptionRange{
		Min:  decimal.NewFromFloat(rr.Min).Div(hundred),
		Max:  decimal.NewFromFloat(rr.Max).Div(hundred),
		Step: decimal.NewFromFloat(rr.Step).Div(hundred),
	}
}

// StressRequest is an analysis payload plus the sweep axes. A missing axis
// holds that assumption fixed at its base value.
type StressRequest struct {
	AnalyzeRequest
	ARRRange       *RangeRequest `json:"arrRange"`
	InflationRange *RangeRequest `json:"inflationRange"`
}

// Ranges resolves both sweep axes against the base assumptions.
func (r *StressRequest) Ranges(inputs domain.Inputs) (returns, inflation domain.AssumptionRange) {
	returns = domain.PointRange(inputs.AnnualReturnRate)
	if r.ARRRange != nil {
		returns = r.ARRRange.ToRange()
	}
	inflation = domain.PointRange(inputs.InflationRate)
	if r.InflationRange != nil {
		inflation = r.InflationRange.ToRange()
	}
	return returns, inflation
}

func intOrDefault(value *int, fallback int) int {
	if value == nil {
		return fallback
	}
	return *value
}

func boolOrDefault(value *bool, fallback bool) bool {
	if value == nil {
		return fallback
	}
	return *value
}
