package calculation

import (
	"github.com/rdgo/drawdown-calculator/internal/domain"
	"github.com/shopspring/decimal"
)

// OASClawbackThreshold2025 is the base-year net income level where the OAS
// recovery tax starts. It indexes with plan inflation.
var OASClawbackThreshold2025 = decimal.NewFromInt(93454)

// OASClawbackRate is the recovery rate on income above the threshold.
var OASClawbackRate = decimal.NewFromFloat(0.15)

// BenefitIncome is the government and employer income arriving in one year,
// before any recovery tax.
type BenefitIncome struct {
	CPP      decimal.Decimal
	OASGross decimal.Decimal
	Pension  decimal.Decimal
}

// Total returns all benefit income including gross OAS.
func (b BenefitIncome) Total() decimal.Decimal {
	return b.CPP.Add(b.OASGross).Add(b.Pension)
}

// ExcludingOAS returns the benefit income counted when testing the OAS
// clawback, which must not include OAS itself.
func (b BenefitIncome) ExcludingOAS() decimal.Decimal {
	return b.CPP.Add(b.Pension)
}

// BenefitProjector produces CPP, OAS and employer pension income per
// retirement year. Every benefit indexes with inflation from the first
// retirement year and pays nothing before its start age.
type BenefitProjector struct {
	AnnualCPP       decimal.Decimal
	AnnualOAS       decimal.Decimal
	AnnualPension   decimal.Decimal
	CPPStartAge     int
	OASStartAge     int
	PensionStartAge int

	Inflation         decimal.Decimal
	ApplyClawback     bool
	ClawbackThreshold decimal.Decimal
	ClawbackRate      decimal.Decimal
}

// NewBenefitProjector builds the projector from validated inputs.
func NewBenefitProjector(in domain.Inputs) *BenefitProjector {
	return &BenefitProjector{
		AnnualCPP:         in.AnnualCPP,
		AnnualOAS:         in.AnnualOAS,
		AnnualPension:     in.AnnualPension,
		CPPStartAge:       in.CPPStartAge,
		OASStartAge:       in.OASStartAge,
		PensionStartAge:   in.PensionStartAge,
		Inflation:         in.InflationRate,
		ApplyClawback:     in.ApplyOASClawback,
		ClawbackThreshold: OASClawbackThreshold2025,
		ClawbackRate:      OASClawbackRate,
	}
}

// BenefitsForYear returns the indexed benefit income for the given age and
// retirement-year offset.
func (p *BenefitProjector) BenefitsForYear(age, yearIndex int) BenefitIncome {
	factor := compoundFactor(p.Inflation, yearIndex)
	income := BenefitIncome{}
	if age >= p.CPPStartAge {
		income.CPP = p.AnnualCPP.Mul(factor)
	}
	if age >= p.OASStartAge {
		income.OASGross = p.AnnualOAS.Mul(factor)
	}
	if age >= p.PensionStartAge {
		income.Pension = p.AnnualPension.Mul(factor)
	}
	return income
}

// OASClawback returns the recovery tax for the year. incomeExcludingOAS is
// the household's net income test base with OAS itself excluded, a one-step
// approximation of the circular definition. The result never exceeds the OAS
// actually paid.
func (p *BenefitProjector) OASClawback(oasGross, incomeExcludingOAS decimal.Decimal, yearIndex int) decimal.Decimal {
	if !p.ApplyClawback || oasGross.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	threshold := p.ClawbackThreshold.Mul(compoundFactor(p.Inflation, yearIndex))
	excess := incomeExcludingOAS.Sub(threshold)
	if excess.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	clawback := excess.Mul(p.ClawbackRate)
	return decimal.Min(clawback, oasGross)
}

func compoundFactor(rate decimal.Decimal, years int) decimal.Decimal {
	if years <= 0 {
		return decimal.NewFromInt(1)
	}
	return decimal.NewFromInt(1).Add(rate).Pow(decimal.NewFromInt(int64(years)))
}
