package api

import (
	"github.com/rdgo/drawdown-calculator/internal/calculation"
	"github.com/rdgo/drawdown-calculator/internal/domain"
	"github.com/shopspring/decimal"
)

// Chart axes get headroom above the largest plotted value so lines never touch
// the frame. Rates get a little more because they move in a narrow band.
var (
	chartHeadroom = decimal.NewFromFloat(1.10)
	rateHeadroom  = decimal.NewFromFloat(1.15)
	chartFloor    = decimal.NewFromInt(1)
)

// StrategyRow is one entry of the ranked comparison table.
type StrategyRow struct {
	ID                            string  `json:"id"`
	Label                         string  `json:"label"`
	LifetimeTaxes                 float64 `json:"lifetimeTaxes"`
	DepletedAge                   *int    `json:"depletedAge"`
	EndingBalance                 float64 `json:"endingBalance"`
	EstateTaxes                   float64 `json:"estateTaxes"`
	EndingBalanceAfterEstateTaxes float64 `json:"endingBalanceAfterEstateTaxes"`
}

// ChartRanges gives the front end stable y-axis maxima computed across every
// strategy, so switching strategies never rescales the charts.
type ChartRanges struct {
	PortfolioMax float64 `json:"portfolioMax"`
	IncomeMax    float64 `json:"incomeMax"`
	TaxAmountMax float64 `json:"taxAmountMax"`
	TaxRateMax   float64 `json:"taxRateMax"`
}

// BracketRow is one published tax bracket; UpTo is null for the unbounded top
// bracket.
type BracketRow struct {
	UpTo *float64 `json:"upTo"`
	Rate float64  `json:"rate"`
}

// AnalyzeResponse is the full analysis payload: the selected projection as
// chartable series, the all-strategy comparison, and the bracket reference.
type AnalyzeResponse struct {
	SelectedStrategy      string                  `json:"selectedStrategy"`
	SelectedStrategyLabel string                  `json:"selectedStrategyLabel"`
	StrategyOptions       []domain.StrategyOption `json:"strategyOptions"`
	StrategyComparison    []StrategyRow           `json:"strategyComparison"`
	ChartRanges           ChartRanges             `json:"chartRanges"`

	YearsToRetirement   int     `json:"yearsToRetirement"`
	RetirementStartAge  int     `json:"retirementStartAge"`
	BalanceAtRetirement float64 `json:"balanceAtRetirement"`
	DepletedAge         *int    `json:"depletedAge"`
	LifeExpectancy      int     `json:"lifeExpectancy"`
	NestEgg             float64 `json:"nestEgg"`
	RRIFAtStart         float64 `json:"rrifAtStart"`
	NonRRIFAtStart      float64 `json:"nonRrifAtStart"`

	Years                                  []int     `json:"years"`
	TotalBalances                          []float64 `json:"totalBalances"`
	RRIFBalances                           []float64 `json:"rrifBalances"`
	NonRRIFBalances                        []float64 `json:"nonRrifBalances"`
	TFSARetirementBalances                 []float64 `json:"tfsaRetirementBalances"`
	TaxableNonRegisteredRetirementBalances []float64 `json:"taxableNonRegisteredRetirementBalances"`
	AppreciatingAssets                     []float64 `json:"appreciatingAssets"`
	PortfolioWithdrawals                   []float64 `json:"portfolioWithdrawals"`
	RRIFWithdrawals                        []float64 `json:"rrifWithdrawals"`
	TFSAWithdrawals                        []float64 `json:"tfsaWithdrawals"`
	TaxableNonRegisteredWithdrawals        []float64 `json:"taxableNonRegisteredWithdrawals"`
	GrossIncomeTargets                     []float64 `json:"grossIncomeTargets"`
	GovernmentBenefits                     []float64 `json:"governmentBenefits"`
	NetRetirementIncomes                   []float64 `json:"netRetirementIncomes"`
	IncomeTaxes                            []float64 `json:"incomeTaxes"`
	CapitalGainsTaxes                      []float64 `json:"capitalGainsTaxes"`
	OASClawbacks                           []float64 `json:"oasClawbacks"`
	TotalTaxes                             []float64 `json:"totalTaxes"`
	AverageTaxRates                        []float64 `json:"averageTaxRates"`
	MarginalTaxRates                       []float64 `json:"marginalTaxRates"`
	PostTaxIncomeTargets                   []float64 `json:"postTaxIncomeTargets"`

	TaxBrackets map[string][]BracketRow `json:"taxBrackets"`
}

// NewAnalyzeResponse assembles the analysis payload from a ranked comparison.
func NewAnalyzeResponse(inputs domain.Inputs, selected domain.StrategyID, result *domain.ComparisonResult, schedule *calculation.TaxSchedule) *AnalyzeResponse {
	projection := result.ProjectionFor(selected)

	resp := &AnalyzeResponse{
		SelectedStrategy:      string(selected),
		SelectedStrategyLabel: selected.Label(),
		StrategyOptions:       domain.StrategyOptions(),
		StrategyComparison:    comparisonRows(result),
		ChartRanges:           chartRangesFor(result.Projections),

		YearsToRetirement:   projection.YearsToRetirement,
		RetirementStartAge:  projection.RetirementStartAge,
		BalanceAtRetirement: projection.BalanceAtRetirement.InexactFloat64(),
		DepletedAge:         projection.Summary.DepletedAge,
		LifeExpectancy:      inputs.LifeExpectancy,
		NestEgg:             inputs.NestEgg().InexactFloat64(),
		RRIFAtStart:         inputs.RRIFBalance.InexactFloat64(),
		NonRRIFAtStart:      inputs.TFSABalance.Add(inputs.NonRegisteredBalance).InexactFloat64(),

		TaxBrackets: bracketReference(schedule),
	}
	resp.fillSeries(projection.Years)
	return resp
}

func comparisonRows(result *domain.ComparisonResult) []StrategyRow {
	rows := make([]StrategyRow, 0, len(result.Rankings))
	for _, summary := range result.Rankings {
		rows = append(rows, StrategyRow{
			ID:                            string(summary.ID),
			Label:                         summary.Label,
			LifetimeTaxes:                 summary.LifetimeTaxes.InexactFloat64(),
			DepletedAge:                   summary.DepletedAge,
			EndingBalance:                 summary.EndingBalance.InexactFloat64(),
			EstateTaxes:                   summary.EstateTaxes.InexactFloat64(),
			EndingBalanceAfterEstateTaxes: summary.EndingBalanceAfterEstateTaxes.InexactFloat64(),
		})
	}
	return rows
}

func chartRangesFor(projections []*domain.Projection) ChartRanges {
	portfolio, income, taxAmount, taxRate := decimal.Zero, decimal.Zero, decimal.Zero, decimal.Zero
	for _, projection := range projections {
		for _, record := range projection.Years {
			portfolio = decimal.Max(portfolio,
				record.TotalBalance, record.RRIFBalance, record.TFSABalance,
				record.NonRegisteredBalance, record.AppreciatingAssets)
			income = decimal.Max(income,
				record.RRIFWithdrawal, record.TFSAWithdrawal, record.NonRegisteredWithdrawal,
				record.GovernmentBenefits, record.NetIncome)
			taxAmount = decimal.Max(taxAmount,
				record.IncomeTax, record.CapitalGainsTax, record.OASClawback, record.TotalTax)
			taxRate = decimal.Max(taxRate, record.AverageTaxRate, record.MarginalTaxRate)
		}
	}
	return ChartRanges{
		PortfolioMax: decimal.Max(chartFloor, portfolio).Mul(chartHeadroom).InexactFloat64(),
		IncomeMax:    decimal.Max(chartFloor, income).Mul(chartHeadroom).InexactFloat64(),
		TaxAmountMax: decimal.Max(chartFloor, taxAmount).Mul(chartHeadroom).InexactFloat64(),
		TaxRateMax:   decimal.Max(chartFloor, taxRate).Mul(rateHeadroom).InexactFloat64(),
	}
}

func bracketReference(schedule *calculation.TaxSchedule) map[string][]BracketRow {
	reference := schedule.Reference()
	rows := make([]BracketRow, 0, len(reference))
	for _, entry := range reference {
		row := BracketRow{Rate: entry.Rate.InexactFloat64()}
		if entry.UpTo != nil {
			upTo := entry.UpTo.InexactFloat64()
			row.UpTo = &upTo
		}
		rows = append(rows, row)
	}
	return map[string][]BracketRow{"combinedOntario": rows}
}

func (resp *AnalyzeResponse) fillSeries(records []domain.YearRecord) {
	n := len(records)
	resp.Years = make([]int, 0, n)
	resp.TotalBalances = make([]float64, 0, n)
	resp.RRIFBalances = make([]float64, 0, n)
	resp.NonRRIFBalances = make([]float64, 0, n)
	resp.TFSARetirementBalances = make([]float64, 0, n)
	resp.TaxableNonRegisteredRetirementBalances = make([]float64, 0, n)
	resp.AppreciatingAssets = make([]float64, 0, n)
	resp.PortfolioWithdrawals = make([]float64, 0, n)
	resp.RRIFWithdrawals = make([]float64, 0, n)
	resp.TFSAWithdrawals = make([]float64, 0, n)
	resp.TaxableNonRegisteredWithdrawals = make([]float64, 0, n)
	resp.GrossIncomeTargets = make([]float64, 0, n)
	resp.GovernmentBenefits = make([]float64, 0, n)
	resp.NetRetirementIncomes = make([]float64, 0, n)
	resp.IncomeTaxes = make([]float64, 0, n)
	resp.CapitalGainsTaxes = make([]float64, 0, n)
	resp.OASClawbacks = make([]float64, 0, n)
	resp.TotalTaxes = make([]float64, 0, n)
	resp.AverageTaxRates = make([]float64, 0, n)
	resp.MarginalTaxRates = make([]float64, 0, n)
	resp.PostTaxIncomeTargets = make([]float64, 0, n)

	for _, record := range records {
		resp.Years = append(resp.Years, record.Age)
		resp.TotalBalances = append(resp.TotalBalances, record.TotalBalance.InexactFloat64())
		resp.RRIFBalances = append(resp.RRIFBalances, record.RRIFBalance.InexactFloat64())
		resp.NonRRIFBalances = append(resp.NonRRIFBalances, record.NonRRIFBalance().InexactFloat64())
		resp.TFSARetirementBalances = append(resp.TFSARetirementBalances, record.TFSABalance.InexactFloat64())
		resp.TaxableNonRegisteredRetirementBalances = append(resp.TaxableNonRegisteredRetirementBalances, record.NonRegisteredBalance.InexactFloat64())
		resp.AppreciatingAssets = append(resp.AppreciatingAssets, record.AppreciatingAssets.InexactFloat64())
		resp.PortfolioWithdrawals = append(resp.PortfolioWithdrawals, record.TotalWithdrawal.InexactFloat64())
		resp.RRIFWithdrawals = append(resp.RRIFWithdrawals, record.RRIFWithdrawal.InexactFloat64())
		resp.TFSAWithdrawals = append(resp.TFSAWithdrawals, record.TFSAWithdrawal.InexactFloat64())
		resp.TaxableNonRegisteredWithdrawals = append(resp.TaxableNonRegisteredWithdrawals, record.NonRegisteredWithdrawal.InexactFloat64())
		resp.GrossIncomeTargets = append(resp.GrossIncomeTargets, record.GrossIncomeTarget.InexactFloat64())
		resp.GovernmentBenefits = append(resp.GovernmentBenefits, record.GovernmentBenefits.InexactFloat64())
		resp.NetRetirementIncomes = append(resp.NetRetirementIncomes, record.NetIncome.InexactFloat64())
		resp.IncomeTaxes = append(resp.IncomeTaxes, record.IncomeTax.InexactFloat64())
		resp.CapitalGainsTaxes = append(resp.CapitalGainsTaxes, record.CapitalGainsTax.InexactFloat64())
		resp.OASClawbacks = append(resp.OASClawbacks, record.OASClawback.InexactFloat64())
		resp.TotalTaxes = append(resp.TotalTaxes, record.TotalTax.InexactFloat64())
		resp.AverageTaxRates = append(resp.AverageTaxRates, record.AverageTaxRate.InexactFloat64())
		resp.MarginalTaxRates = append(resp.MarginalTaxRates, record.MarginalTaxRate.InexactFloat64())
		resp.PostTaxIncomeTargets = append(resp.PostTaxIncomeTargets, record.PostTaxTarget.InexactFloat64())
	}
}

// BandSeriesJSON is one stress metric's percentile paths as plain numbers.
type BandSeriesJSON struct {
	P10 []float64 `json:"p10"`
	P50 []float64 `json:"p50"`
	P90 []float64 `json:"p90"`
}

// StressResponse is the stress sweep payload.
type StressResponse struct {
	Strategy     string         `json:"strategy"`
	Ages         []int          `json:"ages"`
	TotalBalance BandSeriesJSON `json:"totalBalance"`
	NetIncome    BandSeriesJSON `json:"netIncome"`
	TotalTax     BandSeriesJSON `json:"totalTax"`
	Scenarios    int            `json:"scenarios"`
	Degenerate   bool           `json:"degenerate"`
}

// NewStressResponse converts a stress result into the wire shape.
func NewStressResponse(result *domain.StressResult) *StressResponse {
	return &StressResponse{
		Strategy:     string(result.Strategy),
		Ages:         result.Ages,
		TotalBalance: bandSeriesJSON(result.TotalBalance),
		NetIncome:    bandSeriesJSON(result.NetIncome),
		TotalTax:     bandSeriesJSON(result.TotalTax),
		Scenarios:    result.Scenarios,
		Degenerate:   result.Degenerate,
	}
}

func bandSeriesJSON(bands domain.BandSeries) BandSeriesJSON {
	return BandSeriesJSON{
		P10: floats(bands.P10),
		P50: floats(bands.P50),
		P90: floats(bands.P90),
	}
}

func floats(values []decimal.Decimal) []float64 {
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = v.InexactFloat64()
	}
	return out
}
