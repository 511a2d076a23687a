package calculation

import (
	"context"

	"github.com/rdgo/drawdown-calculator/internal/domain"
	"github.com/rdgo/drawdown-calculator/internal/sequencing"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// RRIFEligiblePensionAge is the age from which RRIF withdrawals count as
// eligible pension income for the pension income credit.
const RRIFEligiblePensionAge = 65

// The gross-up solver bisects between the mandatory minimum and the whole
// drawable portfolio until two candidate withdrawals land within a cent.
const solverMaxIterations = 50

var solverTolerance = decimal.NewFromFloat(0.01)

// Engine orchestrates a full drawdown projection: accumulation to retirement,
// then one simulated year per age through end of plan.
type Engine struct {
	logger zerolog.Logger
}

// NewEngine creates a silent engine.
func NewEngine() *Engine {
	return &Engine{logger: zerolog.Nop()}
}

// NewEngineWithLogger creates an engine that traces its runs.
func NewEngineWithLogger(logger zerolog.Logger) *Engine {
	return &Engine{logger: logger}
}

// Run validates the inputs and projects the household plan under one
// withdrawal strategy. The returned projection carries a record for every age
// from retirement through life expectancy inclusive.
func (e *Engine) Run(ctx context.Context, inputs domain.Inputs, strategyID domain.StrategyID) (*domain.Projection, error) {
	if err := inputs.Validate(); err != nil {
		return nil, err
	}
	strategy, err := sequencing.ForStrategy(strategyID)
	if err != nil {
		return nil, err
	}

	run := newProjectionRun(inputs, strategy, e.logger)

	for year := 0; year < inputs.YearsToRetirement(); year++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		run.accumulateYear()
	}
	run.state.FoldRRSP()
	balanceAtRetirement := run.state.DrawableTotal()

	years := make([]domain.YearRecord, 0, inputs.RetirementYears())
	for offset := 0; offset < inputs.RetirementYears(); offset++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		years = append(years, run.simulateYear(offset))
	}

	projection := &domain.Projection{
		Strategy:            strategy.ID(),
		StrategyLabel:       strategy.ID().Label(),
		YearsToRetirement:   inputs.YearsToRetirement(),
		RetirementStartAge:  inputs.RetirementAge,
		BalanceAtRetirement: balanceAtRetirement,
		Years:               years,
		Summary:             run.summarize(years),
	}

	e.logger.Debug().
		Str("strategy", string(strategy.ID())).
		Int("retirementYears", len(years)).
		Str("endingBalance", projection.Summary.EndingBalance.StringFixed(2)).
		Msg("projection complete")

	return projection, nil
}

// projectionRun holds the wired calculators and the mutable account state for
// a single strategy run.
type projectionRun struct {
	inputs   domain.Inputs
	strategy sequencing.Strategy
	logger   zerolog.Logger

	schedule   *TaxSchedule
	calculator *TaxCalculator
	projector  *BenefitProjector
	minimums   *MinimumWithdrawalRule
	estimator  *EstateTaxEstimator

	state        domain.AccountState
	priorTaxable decimal.Decimal
	depletedAge  *int
}

func newProjectionRun(inputs domain.Inputs, strategy sequencing.Strategy, logger zerolog.Logger) *projectionRun {
	schedule := NewOntarioCombinedSchedule2025(inputs.InflationRate)
	return &projectionRun{
		inputs:     inputs,
		strategy:   strategy,
		logger:     logger,
		schedule:   schedule,
		calculator: NewTaxCalculator(schedule, inputs.ApplyPensionIncomeCredit),
		projector:  NewBenefitProjector(inputs),
		minimums:   NewMinimumWithdrawalRule(inputs.ApplyRRIFMinimums),
		estimator:  NewEstateTaxEstimator(schedule, inputs.TaxableNonRegisteredShare),
		state:      domain.NewAccountState(inputs),
	}
}

// accumulateYear advances one pre-retirement year: growth on every account,
// then the annual contributions. The RRIF receives no contributions.
func (r *projectionRun) accumulateYear() {
	r.state.Grow(r.inputs.AnnualReturnRate)
	r.state.Contribute(
		r.inputs.AnnualRRSPContribution,
		r.inputs.AnnualTFSAContribution,
		r.inputs.AnnualNonRegisteredContribution,
	)
}

// withdrawalOutcome is one candidate withdrawal fully costed: the account
// split, every tax component, and the net income it delivers.
type withdrawalOutcome struct {
	split         sequencing.WithdrawalSplit
	incomeTax     decimal.Decimal
	gainsTax      decimal.Decimal
	clawback      decimal.Decimal
	totalTax      decimal.Decimal
	netIncome     decimal.Decimal
	taxableIncome decimal.Decimal
}

// simulateYear runs one retirement year: growth, benefits, the withdrawal
// solve, taxes, and the depletion check. Balances in the returned record are
// year-end, after the withdrawal.
func (r *projectionRun) simulateYear(offset int) domain.YearRecord {
	age := r.inputs.RetirementAge + offset
	r.state.Grow(r.inputs.AnnualReturnRate)

	benefits := r.projector.BenefitsForYear(age, offset)
	target := r.inputs.TargetRetirementIncome.Mul(r.inputs.InflationFactor(offset))
	available := r.state.DrawableTotal()
	floor := r.minimums.MinimumWithdrawal(age, r.state.RRIF)

	var outcome withdrawalOutcome
	if available.LessThanOrEqual(decimal.Zero) {
		outcome = r.benefitsOnlyYear(benefits, offset)
	} else {
		outcome = r.solveWithdrawal(benefits, target, floor, available, age, offset)
	}

	r.state.Withdraw(outcome.split.RRIF, outcome.split.TFSA, outcome.split.NonRegistered)

	if r.state.DrawableTotal().LessThanOrEqual(decimal.Zero) && r.depletedAge == nil {
		depletedAt := age
		r.depletedAge = &depletedAt
		r.state.ZeroDrawable()
		r.logger.Debug().
			Str("strategy", string(r.strategy.ID())).
			Int("age", age).
			Msg("drawable portfolio depleted")
	}

	record := r.buildRecord(age, offset, benefits, target, outcome)
	r.priorTaxable = outcome.taxableIncome
	return record
}

// benefitsOnlyYear covers years with nothing left to withdraw. Benefits still
// arrive, are still taxed, and the income target keeps indexing even though
// the portfolio cannot meet it.
func (r *projectionRun) benefitsOnlyYear(benefits BenefitIncome, offset int) withdrawalOutcome {
	incomeTax := r.calculator.IncomeTax(benefits.Total(), benefits.Pension, offset)
	clawback := r.projector.OASClawback(benefits.OASGross, benefits.ExcludingOAS(), offset)
	totalTax := incomeTax.Add(clawback)
	return withdrawalOutcome{
		incomeTax:     incomeTax,
		clawback:      clawback,
		totalTax:      totalTax,
		netIncome:     benefits.Total().Sub(totalTax),
		taxableIncome: benefits.Total(),
	}
}

// solveWithdrawal finds the smallest withdrawal in [floor, available] whose
// net income meets the target. When even the whole portfolio falls short, the
// whole portfolio it is.
func (r *projectionRun) solveWithdrawal(benefits BenefitIncome, target, floor, available decimal.Decimal, age, offset int) withdrawalOutcome {
	balances := sequencing.Balances{
		RRIF:          r.state.RRIF,
		TFSA:          r.state.TFSA,
		NonRegistered: r.state.NonRegistered,
	}
	seqCtx := sequencing.Context{
		RRIFFloor:          floor,
		TaxableBenefits:    benefits.Total(),
		BracketCeiling:     r.schedule.CeilingAbove(benefits.Total(), offset),
		LowBracketCeiling:  r.schedule.LowestTaxedCeiling(offset),
		PriorTaxableIncome: r.priorTaxable,
		InflationRate:      r.inputs.InflationRate,
		YearsRemaining:     r.inputs.LifeExpectancy - age + 1,
	}

	evaluate := func(total decimal.Decimal) withdrawalOutcome {
		split := r.strategy.Split(total, balances, seqCtx)
		ordinary := benefits.Total().Add(split.RRIF)
		gains := r.calculator.IncludedGains(split.NonRegistered, r.inputs.TaxableNonRegisteredShare)

		eligiblePension := benefits.Pension
		if age >= RRIFEligiblePensionAge {
			eligiblePension = eligiblePension.Add(split.RRIF)
		}

		incomeTax := r.calculator.IncomeTax(ordinary, eligiblePension, offset)
		gainsTax := r.calculator.CapitalGainsTax(ordinary, gains, offset)
		clawback := r.projector.OASClawback(benefits.OASGross, ordinary.Sub(benefits.OASGross).Add(gains), offset)
		totalTax := incomeTax.Add(gainsTax).Add(clawback)

		return withdrawalOutcome{
			split:         split,
			incomeTax:     incomeTax,
			gainsTax:      gainsTax,
			clawback:      clawback,
			totalTax:      totalTax,
			netIncome:     benefits.Total().Add(split.Total()).Sub(totalTax),
			taxableIncome: ordinary.Add(gains),
		}
	}

	atFloor := evaluate(floor)
	if atFloor.netIncome.GreaterThanOrEqual(target) {
		return atFloor
	}
	atMax := evaluate(available)
	if atMax.netIncome.LessThan(target) {
		return atMax
	}

	low, high := floor, available
	two := decimal.NewFromInt(2)
	for i := 0; i < solverMaxIterations && high.Sub(low).GreaterThan(solverTolerance); i++ {
		mid := low.Add(high).Div(two)
		if evaluate(mid).netIncome.GreaterThanOrEqual(target) {
			high = mid
		} else {
			low = mid
		}
	}
	return evaluate(high)
}

func (r *projectionRun) buildRecord(age, offset int, benefits BenefitIncome, target decimal.Decimal, outcome withdrawalOutcome) domain.YearRecord {
	withdrawal := outcome.split.Total()

	averageRate := decimal.Zero
	grossIncome := benefits.Total().Add(withdrawal)
	if grossIncome.GreaterThan(decimal.Zero) {
		averageRate = outcome.totalTax.Div(grossIncome).Mul(decimal.NewFromInt(100))
	}

	return domain.YearRecord{
		Year: offset,
		Age:  age,

		RRIFWithdrawal:          outcome.split.RRIF,
		TFSAWithdrawal:          outcome.split.TFSA,
		NonRegisteredWithdrawal: outcome.split.NonRegistered,
		TotalWithdrawal:         withdrawal,

		CPPIncome:          benefits.CPP,
		OASGross:           benefits.OASGross,
		OASClawback:        outcome.clawback,
		OASNet:             benefits.OASGross.Sub(outcome.clawback),
		PensionIncome:      benefits.Pension,
		GovernmentBenefits: benefits.Total(),

		TaxableIncome:   outcome.taxableIncome,
		IncomeTax:       outcome.incomeTax,
		CapitalGainsTax: outcome.gainsTax,
		TotalTax:        outcome.totalTax,
		AverageTaxRate:  averageRate,
		MarginalTaxRate: r.schedule.MarginalRate(outcome.taxableIncome, offset).Mul(decimal.NewFromInt(100)),

		PostTaxTarget:     target,
		GrossIncomeTarget: target.Add(outcome.totalTax),
		NetIncome:         outcome.netIncome,

		RRIFBalance:          r.state.RRIF,
		TFSABalance:          r.state.TFSA,
		NonRegisteredBalance: r.state.NonRegistered,
		AppreciatingAssets:   r.state.AppreciatingAssets,
		TotalBalance:         r.state.Total(),

		Depleted: r.depletedAge != nil,
	}
}

// summarize folds the year records into the comparison metrics, including the
// estate settlement on the final year's balances.
func (r *projectionRun) summarize(years []domain.YearRecord) domain.StrategySummary {
	summary := domain.StrategySummary{
		ID:          r.strategy.ID(),
		Label:       r.strategy.ID().Label(),
		DepletedAge: r.depletedAge,
	}
	for _, record := range years {
		summary.LifetimeTaxes = summary.LifetimeTaxes.Add(record.TotalTax)
		summary.TotalCPPIncome = summary.TotalCPPIncome.Add(record.CPPIncome)
		summary.TotalOASIncome = summary.TotalOASIncome.Add(record.OASNet)
		summary.TotalPensionIncome = summary.TotalPensionIncome.Add(record.PensionIncome)
	}
	if len(years) == 0 {
		return summary
	}

	final := years[len(years)-1]
	estate := r.estimator.Estimate(final, len(years)-1)
	summary.EndingBalance = final.TotalBalance
	summary.EstateTaxes = estate.EstateTaxes
	summary.EndingBalanceAfterEstateTaxes = estate.EndingBalanceAfterEstateTaxes
	return summary
}
