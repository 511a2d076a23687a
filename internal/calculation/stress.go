package calculation

import (
	"context"
	"runtime"
	"sort"

	"github.com/rdgo/drawdown-calculator/internal/domain"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat"
)

// MaxAxisSteps bounds each swept axis, keeping a grid at no more than
// MaxAxisSteps squared projections.
const MaxAxisSteps = 25

// StressGrid sweeps return and inflation assumptions over a cartesian grid,
// reprojecting the plan for every cell and collapsing the outcomes into
// percentile bands per retirement year.
type StressGrid struct {
	engine *Engine
	logger zerolog.Logger
}

// NewStressGrid creates a silent grid runner over the given engine.
func NewStressGrid(engine *Engine) *StressGrid {
	return &StressGrid{engine: engine, logger: zerolog.Nop()}
}

// NewStressGridWithLogger creates a grid runner that traces its sweeps.
func NewStressGridWithLogger(engine *Engine, logger zerolog.Logger) *StressGrid {
	return &StressGrid{engine: engine, logger: logger}
}

// Run executes the full grid for one strategy. Cells run concurrently and any
// cell failure aborts the sweep. Every cell shares the same retirement
// horizon, so the percentile bands align year by year.
func (g *StressGrid) Run(ctx context.Context, inputs domain.Inputs, strategyID domain.StrategyID, returns, inflation domain.AssumptionRange) (*domain.StressResult, error) {
	if err := inputs.Validate(); err != nil {
		return nil, err
	}
	if _, err := domain.ParseStrategyID(string(strategyID)); err != nil {
		return nil, err
	}
	if err := returns.Validate("annualReturnRate", MaxAxisSteps); err != nil {
		return nil, err
	}
	if err := inflation.Validate("inflationRate", MaxAxisSteps); err != nil {
		return nil, err
	}

	scenarios := buildScenarios(inputs, returns, inflation)

	g.logger.Debug().
		Str("strategy", string(strategyID)).
		Int("cells", len(scenarios)).
		Msg("stress grid started")

	projections := make([]*domain.Projection, len(scenarios))
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(runtime.GOMAXPROCS(0))
	for i := range scenarios {
		eg.Go(func() error {
			projection, err := g.engine.Run(egCtx, scenarios[i], strategyID)
			if err != nil {
				return err
			}
			projections[i] = projection
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	result := &domain.StressResult{
		Strategy:   strategyID,
		Ages:       projections[0].Ages(),
		Scenarios:  len(projections),
		Degenerate: len(projections) < 2,
	}
	if result.Degenerate {
		g.logger.Warn().
			Str("strategy", string(strategyID)).
			Msg("stress grid has a single cell; percentile bands collapse onto one path")
	}

	years := inputs.RetirementYears()
	result.TotalBalance = bandsFor(projections, years, func(r domain.YearRecord) decimal.Decimal { return r.TotalBalance })
	result.NetIncome = bandsFor(projections, years, func(r domain.YearRecord) decimal.Decimal { return r.NetIncome })
	result.TotalTax = bandsFor(projections, years, func(r domain.YearRecord) decimal.Decimal { return r.TotalTax })
	return result, nil
}

// buildScenarios copies the base inputs once per grid cell with the swept
// rates substituted in.
func buildScenarios(base domain.Inputs, returns, inflation domain.AssumptionRange) []domain.Inputs {
	returnValues := returns.Values()
	inflationValues := inflation.Values()
	scenarios := make([]domain.Inputs, 0, len(returnValues)*len(inflationValues))
	for _, arr := range returnValues {
		for _, rate := range inflationValues {
			scenario := base
			scenario.AnnualReturnRate = arr
			scenario.InflationRate = rate
			scenarios = append(scenarios, scenario)
		}
	}
	return scenarios
}

// bandsFor extracts one metric across all cells and reduces it to 10th, 50th
// and 90th percentile paths. A single-cell grid copies the path untouched so
// the bands match that projection exactly.
func bandsFor(projections []*domain.Projection, years int, metric func(domain.YearRecord) decimal.Decimal) domain.BandSeries {
	bands := domain.BandSeries{
		P10: make([]decimal.Decimal, years),
		P50: make([]decimal.Decimal, years),
		P90: make([]decimal.Decimal, years),
	}

	if len(projections) == 1 {
		for year := 0; year < years; year++ {
			value := metric(projections[0].Years[year])
			bands.P10[year] = value
			bands.P50[year] = value
			bands.P90[year] = value
		}
		return bands
	}

	values := make([]float64, len(projections))
	for year := 0; year < years; year++ {
		for i, projection := range projections {
			values[i] = metric(projection.Years[year]).InexactFloat64()
		}
		sort.Float64s(values)
		bands.P10[year] = decimal.NewFromFloat(stat.Quantile(0.10, stat.LinInterp, values, nil))
		bands.P50[year] = decimal.NewFromFloat(stat.Quantile(0.50, stat.LinInterp, values, nil))
		bands.P90[year] = decimal.NewFromFloat(stat.Quantile(0.90, stat.LinInterp, values, nil))
	}
	return bands
}
