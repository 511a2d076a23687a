package domain

import "github.com/shopspring/decimal"

// YearRecord captures one simulated retirement year. Records are append-only:
// the engine builds each one, stores it, and never revisits it.
type YearRecord struct {
	Year int `json:"year"` // offset from the retirement start year
	Age  int `json:"age"`

	RRIFWithdrawal          decimal.Decimal `json:"rrifWithdrawal"`
	TFSAWithdrawal          decimal.Decimal `json:"tfsaWithdrawal"`
	NonRegisteredWithdrawal decimal.Decimal `json:"nonRegisteredWithdrawal"`
	TotalWithdrawal         decimal.Decimal `json:"totalWithdrawal"`

	CPPIncome          decimal.Decimal `json:"cppIncome"`
	OASGross           decimal.Decimal `json:"oasGross"`
	OASClawback        decimal.Decimal `json:"oasClawback"`
	OASNet             decimal.Decimal `json:"oasNet"`
	PensionIncome      decimal.Decimal `json:"pensionIncome"`
	GovernmentBenefits decimal.Decimal `json:"governmentBenefits"` // CPP + OAS gross + pension

	TaxableIncome   decimal.Decimal `json:"taxableIncome"`
	IncomeTax       decimal.Decimal `json:"incomeTax"`
	CapitalGainsTax decimal.Decimal `json:"capitalGainsTax"`
	TotalTax        decimal.Decimal `json:"totalTax"`
	AverageTaxRate  decimal.Decimal `json:"averageTaxRate"`  // percent of gross income
	MarginalTaxRate decimal.Decimal `json:"marginalTaxRate"` // percent

	PostTaxTarget     decimal.Decimal `json:"postTaxTarget"`
	GrossIncomeTarget decimal.Decimal `json:"grossIncomeTarget"`
	NetIncome         decimal.Decimal `json:"netIncome"`

	RRIFBalance          decimal.Decimal `json:"rrifBalance"`
	TFSABalance          decimal.Decimal `json:"tfsaBalance"`
	NonRegisteredBalance decimal.Decimal `json:"nonRegisteredBalance"`
	AppreciatingAssets   decimal.Decimal `json:"appreciatingAssets"`
	TotalBalance         decimal.Decimal `json:"totalBalance"`

	Depleted bool `json:"depleted"`
}

// NonRRIFBalance returns the combined TFSA and non-registered balance at year
// end.
func (r YearRecord) NonRRIFBalance() decimal.Decimal {
	return r.TFSABalance.Add(r.NonRegisteredBalance)
}

// GrossIncome returns all cash received during the year before tax.
func (r YearRecord) GrossIncome() decimal.Decimal {
	return r.GovernmentBenefits.Add(r.TotalWithdrawal)
}

// StrategySummary condenses a full projection into the comparison metrics.
// Summaries are replaced wholesale whenever inputs change.
type StrategySummary struct {
	ID                            StrategyID      `json:"id"`
	Label                         string          `json:"label"`
	LifetimeTaxes                 decimal.Decimal `json:"lifetimeTaxes"`
	DepletedAge                   *int            `json:"depletedAge"`
	EndingBalance                 decimal.Decimal `json:"endingBalance"`
	EstateTaxes                   decimal.Decimal `json:"estateTaxes"`
	EndingBalanceAfterEstateTaxes decimal.Decimal `json:"endingBalanceAfterEstateTaxes"`
	TotalCPPIncome                decimal.Decimal `json:"totalCPPIncome"`
	TotalOASIncome                decimal.Decimal `json:"totalOASIncome"` // net of clawback
	TotalPensionIncome            decimal.Decimal `json:"totalPensionIncome"`
}

// Projection is the full simulated plan for one strategy and one assumption
// set.
type Projection struct {
	Strategy            StrategyID      `json:"strategy"`
	StrategyLabel       string          `json:"strategyLabel"`
	YearsToRetirement   int             `json:"yearsToRetirement"`
	RetirementStartAge  int             `json:"retirementStartAge"`
	BalanceAtRetirement decimal.Decimal `json:"balanceAtRetirement"`
	Years               []YearRecord    `json:"years"`
	Summary             StrategySummary `json:"summary"`
}

// FinalRecord returns the last simulated year, or nil for an empty projection.
func (p *Projection) FinalRecord() *YearRecord {
	if len(p.Years) == 0 {
		return nil
	}
	return &p.Years[len(p.Years)-1]
}

// DepletedAge returns the age at which the drawable portfolio first hit zero,
// or nil if it lasted the whole plan.
func (p *Projection) DepletedAge() *int {
	return p.Summary.DepletedAge
}

// Ages returns the simulated ages in order, one per year record.
func (p *Projection) Ages() []int {
	ages := make([]int, len(p.Years))
	for i, yr := range p.Years {
		ages[i] = yr.Age
	}
	return ages
}

// ComparisonResult ranks every strategy for one input set. Rankings and
// Projections share the same order: best ending balance after estate taxes
// first, lifetime taxes as the tie-break.
type ComparisonResult struct {
	Rankings    []StrategySummary `json:"rankings"`
	Projections []*Projection     `json:"-"`
}

// Best returns the top-ranked summary, or nil when the comparison is empty.
func (c *ComparisonResult) Best() *StrategySummary {
	if len(c.Rankings) == 0 {
		return nil
	}
	return &c.Rankings[0]
}

// ProjectionFor returns the ranked projection for the given strategy, or nil.
func (c *ComparisonResult) ProjectionFor(id StrategyID) *Projection {
	for _, p := range c.Projections {
		if p.Strategy == id {
			return p
		}
	}
	return nil
}
