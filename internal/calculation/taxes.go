package calculation

import "github.com/shopspring/decimal"

// TAX CALCULATION ASSUMPTIONS:
//
// 1. Combined Brackets: single filer, federal + Ontario 2025 combined marginal
//    rates, with a 0% bracket standing in for the basic personal amounts
// 2. Indexing: bracket boundaries compound with the plan inflation rate each
//    projection year; rates never change
// 3. Capital Gains: 50% inclusion, taxed as the incremental tax of stacking
//    the included gains on top of ordinary income
// 4. Pension Income Credit: flat credit at the lowest combined positive rate
//    on up to $2,000 of eligible pension income; RRIF withdrawals become
//    eligible at age 65
//
// No provincial surtax or health premium modeling beyond the combined rates.

// TaxBracket is one marginal bracket. Lower is the first dollar taxed at
// Rate; the bracket runs up to the next bracket's Lower. The last bracket is
// unbounded.
type TaxBracket struct {
	Lower decimal.Decimal `json:"lower"`
	Rate  decimal.Decimal `json:"rate"`
}

// PensionIncomeCreditCeiling caps the pension income eligible for the credit.
var PensionIncomeCreditCeiling = decimal.NewFromInt(2000)

// DefaultCapitalGainsInclusionRate is the fraction of a realized gain added to
// taxable income.
var DefaultCapitalGainsInclusionRate = decimal.NewFromFloat(0.50)

// TaxSchedule produces the bracket table for any projection year. Year zero is
// the base table; later years compound every boundary by (1+inflation)^year
// while rates stay fixed.
type TaxSchedule struct {
	BaseYear  int
	Brackets  []TaxBracket // ascending by Lower, first Lower is zero
	Inflation decimal.Decimal
}

// NewOntarioCombinedSchedule2025 builds the combined federal + Ontario 2025
// schedule indexed by the given inflation rate.
func NewOntarioCombinedSchedule2025(inflation decimal.Decimal) *TaxSchedule {
	return &TaxSchedule{
		BaseYear:  2025,
		Inflation: inflation,
		Brackets: []TaxBracket{
			{decimal.Zero, decimal.Zero},
			{decimal.NewFromInt(16258), decimal.NewFromFloat(0.2005)},
			{decimal.NewFromInt(52886), decimal.NewFromFloat(0.2415)},
			{decimal.NewFromInt(57375), decimal.NewFromFloat(0.2965)},
			{decimal.NewFromInt(105775), decimal.NewFromFloat(0.3148)},
			{decimal.NewFromInt(109727), decimal.NewFromFloat(0.3389)},
			{decimal.NewFromInt(114750), decimal.NewFromFloat(0.3791)},
			{decimal.NewFromInt(150000), decimal.NewFromFloat(0.4341)},
			{decimal.NewFromInt(177882), decimal.NewFromFloat(0.4497)},
			{decimal.NewFromInt(220000), decimal.NewFromFloat(0.4829)},
			{decimal.NewFromInt(253414), decimal.NewFromFloat(0.5353)},
		},
	}
}

// NewTaxScheduleWithBrackets builds a schedule from a custom table. An empty
// table falls back to the 2025 defaults so the schedule is never empty.
func NewTaxScheduleWithBrackets(baseYear int, brackets []TaxBracket, inflation decimal.Decimal) *TaxSchedule {
	if len(brackets) == 0 {
		ts := NewOntarioCombinedSchedule2025(inflation)
		ts.BaseYear = baseYear
		return ts
	}
	return &TaxSchedule{BaseYear: baseYear, Brackets: brackets, Inflation: inflation}
}

// InflationFactor returns (1+inflation)^yearIndex, clamped at year zero.
func (ts *TaxSchedule) InflationFactor(yearIndex int) decimal.Decimal {
	if yearIndex <= 0 {
		return decimal.NewFromInt(1)
	}
	return decimal.NewFromInt(1).Add(ts.Inflation).Pow(decimal.NewFromInt(int64(yearIndex)))
}

// BracketsForYear returns the indexed bracket table for a projection year.
// The result is a fresh slice; callers may hold it without aliasing the base
// table.
func (ts *TaxSchedule) BracketsForYear(yearIndex int) []TaxBracket {
	factor := ts.InflationFactor(yearIndex)
	indexed := make([]TaxBracket, len(ts.Brackets))
	for i, bracket := range ts.Brackets {
		indexed[i] = TaxBracket{Lower: bracket.Lower.Mul(factor), Rate: bracket.Rate}
	}
	return indexed
}

// Tax computes the progressive tax on taxable income for a projection year.
// Negative income is treated as zero.
func (ts *TaxSchedule) Tax(income decimal.Decimal, yearIndex int) decimal.Decimal {
	return bracketTax(income, ts.BracketsForYear(yearIndex))
}

// MarginalRate returns the rate applied to the next dollar of income.
func (ts *TaxSchedule) MarginalRate(income decimal.Decimal, yearIndex int) decimal.Decimal {
	brackets := ts.BracketsForYear(yearIndex)
	rate := brackets[0].Rate
	for _, bracket := range brackets {
		if income.GreaterThan(bracket.Lower) {
			rate = bracket.Rate
		} else {
			break
		}
	}
	return rate
}

// LowestTaxedCeiling returns the indexed top of the first positive-rate
// bracket, the cheap tax room a filler strategy aims at.
func (ts *TaxSchedule) LowestTaxedCeiling(yearIndex int) decimal.Decimal {
	brackets := ts.BracketsForYear(yearIndex)
	for i, bracket := range brackets {
		if bracket.Rate.GreaterThan(decimal.Zero) && i+1 < len(brackets) {
			return brackets[i+1].Lower
		}
	}
	return brackets[len(brackets)-1].Lower
}

// CeilingAbove returns the first indexed bracket boundary strictly above the
// given income. Income already in the unbounded top bracket has no boundary
// above it, so the income itself comes back and headroom is zero.
func (ts *TaxSchedule) CeilingAbove(income decimal.Decimal, yearIndex int) decimal.Decimal {
	income = decimal.Max(income, decimal.Zero)
	for _, bracket := range ts.BracketsForYear(yearIndex) {
		if bracket.Lower.GreaterThan(income) {
			return bracket.Lower
		}
	}
	return income
}

// BracketReference is one row of the published bracket table in upper-bound
// form. UpTo is nil for the unbounded top bracket.
type BracketReference struct {
	UpTo *decimal.Decimal `json:"upTo"`
	Rate decimal.Decimal  `json:"rate"`
}

// Reference returns the base-year table in upper-bound form: each row carries
// its rate and the boundary it runs up to, matching how the brackets are
// usually published.
func (ts *TaxSchedule) Reference() []BracketReference {
	reference := make([]BracketReference, len(ts.Brackets))
	for i, bracket := range ts.Brackets {
		row := BracketReference{Rate: bracket.Rate}
		if i+1 < len(ts.Brackets) {
			upTo := ts.Brackets[i+1].Lower
			row.UpTo = &upTo
		}
		reference[i] = row
	}
	return reference
}

// LowestPositiveRate returns the first nonzero bracket rate, used for the
// pension income credit.
func (ts *TaxSchedule) LowestPositiveRate() decimal.Decimal {
	for _, bracket := range ts.Brackets {
		if bracket.Rate.GreaterThan(decimal.Zero) {
			return bracket.Rate
		}
	}
	return decimal.Zero
}

func bracketTax(income decimal.Decimal, brackets []TaxBracket) decimal.Decimal {
	if income.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	total := decimal.Zero
	for i, bracket := range brackets {
		if income.LessThanOrEqual(bracket.Lower) {
			break
		}
		upper := income
		if i+1 < len(brackets) {
			upper = decimal.Min(income, brackets[i+1].Lower)
		}
		slice := upper.Sub(bracket.Lower)
		if slice.GreaterThan(decimal.Zero) {
			total = total.Add(slice.Mul(bracket.Rate))
		}
	}
	return total
}

// TaxCalculator applies the schedule to a household's yearly income, handling
// the capital gains split and the pension income credit.
type TaxCalculator struct {
	Schedule                  *TaxSchedule
	ApplyPensionIncomeCredit  bool
	CapitalGainsInclusionRate decimal.Decimal
}

// NewTaxCalculator creates a calculator over a schedule with the default
// capital gains inclusion rate.
func NewTaxCalculator(schedule *TaxSchedule, applyPensionCredit bool) *TaxCalculator {
	return &TaxCalculator{
		Schedule:                  schedule,
		ApplyPensionIncomeCredit:  applyPensionCredit,
		CapitalGainsInclusionRate: DefaultCapitalGainsInclusionRate,
	}
}

// IncludedGains converts a non-registered withdrawal into the taxable income
// it adds: withdrawal x taxable share x inclusion rate.
func (tc *TaxCalculator) IncludedGains(nonRegisteredWithdrawal, taxableShare decimal.Decimal) decimal.Decimal {
	return nonRegisteredWithdrawal.Mul(taxableShare).Mul(tc.CapitalGainsInclusionRate)
}

// IncomeTax computes the tax on ordinary income, net of the pension income
// credit when enabled. Never negative.
func (tc *TaxCalculator) IncomeTax(ordinaryIncome, eligiblePensionIncome decimal.Decimal, yearIndex int) decimal.Decimal {
	tax := tc.Schedule.Tax(ordinaryIncome, yearIndex)
	credit := tc.PensionIncomeCredit(eligiblePensionIncome)
	return decimal.Max(decimal.Zero, tax.Sub(credit))
}

// CapitalGainsTax computes the extra tax from stacking included gains on top
// of ordinary income.
func (tc *TaxCalculator) CapitalGainsTax(ordinaryIncome, includedGains decimal.Decimal, yearIndex int) decimal.Decimal {
	if includedGains.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	onTotal := tc.Schedule.Tax(ordinaryIncome.Add(includedGains), yearIndex)
	onOrdinary := tc.Schedule.Tax(ordinaryIncome, yearIndex)
	return decimal.Max(decimal.Zero, onTotal.Sub(onOrdinary))
}

// PensionIncomeCredit returns the credit for the given eligible pension
// income, zero when the toggle is off or nothing qualifies.
func (tc *TaxCalculator) PensionIncomeCredit(eligiblePensionIncome decimal.Decimal) decimal.Decimal {
	if !tc.ApplyPensionIncomeCredit || eligiblePensionIncome.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	creditable := decimal.Min(eligiblePensionIncome, PensionIncomeCreditCeiling)
	return creditable.Mul(tc.Schedule.LowestPositiveRate())
}
