package calculation

import (
	"github.com/rdgo/drawdown-calculator/internal/domain"
	"github.com/shopspring/decimal"
)

// EstateTaxEstimator values the deemed disposition of a household's assets in
// the year of death. Registered RRIF money collapses into income in full,
// non-registered holdings and appreciating assets surface capital gains at the
// inclusion rate, and the TFSA passes to the estate untouched.
type EstateTaxEstimator struct {
	Schedule                  *TaxSchedule
	TaxableShare              decimal.Decimal
	CapitalGainsInclusionRate decimal.Decimal
}

// NewEstateTaxEstimator creates an estimator for the given schedule. The
// taxable share is clamped to [0, 1] so a malformed input cannot invert the
// gains calculation.
func NewEstateTaxEstimator(schedule *TaxSchedule, taxableShare decimal.Decimal) *EstateTaxEstimator {
	share := decimal.Min(decimal.NewFromInt(1), decimal.Max(decimal.Zero, taxableShare))
	return &EstateTaxEstimator{
		Schedule:                  schedule,
		TaxableShare:              share,
		CapitalGainsInclusionRate: DefaultCapitalGainsInclusionRate,
	}
}

// EstateResult carries the death-year tax estimate alongside the balance the
// estate keeps once that tax is settled.
type EstateResult struct {
	DeemedIncome                  decimal.Decimal `json:"deemedIncome"`
	EstateTaxes                   decimal.Decimal `json:"estateTaxes"`
	EndingBalanceAfterEstateTaxes decimal.Decimal `json:"endingBalanceAfterEstateTaxes"`
}

// Estimate computes the tax owed on the final year's balances using the
// bracket boundaries indexed to that year. The RRIF balance is ordinary
// income; the taxable slice of the non-registered account and the whole of
// the appreciating assets are treated as unrealized gains.
func (e *EstateTaxEstimator) Estimate(final domain.YearRecord, yearIndex int) EstateResult {
	includedGains := final.NonRegisteredBalance.Mul(e.TaxableShare).Mul(e.CapitalGainsInclusionRate)
	includedGains = includedGains.Add(final.AppreciatingAssets.Mul(e.CapitalGainsInclusionRate))

	deemedIncome := final.RRIFBalance.Add(includedGains)
	estateTaxes := decimal.Max(decimal.Zero, e.Schedule.Tax(deemedIncome, yearIndex))
	endingAfter := decimal.Max(decimal.Zero, final.TotalBalance.Sub(estateTaxes))

	return EstateResult{
		DeemedIncome:                  deemedIncome,
		EstateTaxes:                   estateTaxes,
		EndingBalanceAfterEstateTaxes: endingAfter,
	}
}
