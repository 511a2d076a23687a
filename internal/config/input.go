package config

import (
	"fmt"
	"os"

	"github.com/rdgo/drawdown-calculator/internal/domain"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Defaults applied to omitted plan file fields.
var (
	defaultLifeExpectancy  = 95
	defaultBenefitStartAge = 65
	defaultTaxableShare    = decimal.NewFromInt(1)
)

// PlanFile mirrors the YAML layout of a saved plan. Pointer fields distinguish
// "omitted" from explicit zero values so defaults only fill real gaps.
type PlanFile struct {
	Plan          PlanSection          `yaml:"plan"`
	Accounts      AccountsSection      `yaml:"accounts"`
	Contributions ContributionsSection `yaml:"contributions"`
	Assumptions   AssumptionsSection   `yaml:"assumptions"`
	Benefits      BenefitsSection      `yaml:"benefits"`
	Rules         RulesSection         `yaml:"rules"`
}

// PlanSection holds the ages, income target and default strategy.
type PlanSection struct {
	CurrentAge             int             `yaml:"current_age"`
	RetirementAge          int             `yaml:"retirement_age"`
	LifeExpectancy         *int            `yaml:"life_expectancy"`
	TargetRetirementIncome decimal.Decimal `yaml:"target_retirement_income"`
	Strategy               string          `yaml:"strategy"`
}

// AccountsSection holds the opening balances.
type AccountsSection struct {
	RRIF               decimal.Decimal `yaml:"rrif"`
	RRSP               decimal.Decimal `yaml:"rrsp"`
	TFSA               decimal.Decimal `yaml:"tfsa"`
	NonRegistered      decimal.Decimal `yaml:"non_registered"`
	AppreciatingAssets decimal.Decimal `yaml:"appreciating_assets"`
}

// ContributionsSection holds annual pre-retirement contributions per account.
type ContributionsSection struct {
	RRSP          decimal.Decimal `yaml:"rrsp"`
	TFSA          decimal.Decimal `yaml:"tfsa"`
	NonRegistered decimal.Decimal `yaml:"non_registered"`
}

// AssumptionsSection holds the market and tax assumptions.
type AssumptionsSection struct {
	AnnualReturnRate          decimal.Decimal  `yaml:"annual_return_rate"`
	InflationRate             decimal.Decimal  `yaml:"inflation_rate"`
	TaxableNonRegisteredShare *decimal.Decimal `yaml:"taxable_non_registered_share"`
}

// BenefitsSection holds government and employer benefit amounts and start ages.
type BenefitsSection struct {
	AnnualCPP       decimal.Decimal `yaml:"annual_cpp"`
	CPPStartAge     *int            `yaml:"cpp_start_age"`
	AnnualOAS       decimal.Decimal `yaml:"annual_oas"`
	OASStartAge     *int            `yaml:"oas_start_age"`
	AnnualPension   decimal.Decimal `yaml:"annual_pension"`
	PensionStartAge *int            `yaml:"pension_start_age"`
}

// RulesSection toggles the optional tax rules.
type RulesSection struct {
	ApplyOASClawback         *bool `yaml:"apply_oas_clawback"`
	ApplyRRIFMinimums        *bool `yaml:"apply_minimum_rrif_withdrawals"`
	ApplyPensionIncomeCredit *bool `yaml:"apply_pension_income_tax_credit"`
}

// Plan is a parsed and validated plan file.
type Plan struct {
	Inputs   domain.Inputs
	Strategy domain.StrategyID
}

// InputParser handles parsing of plan configuration files.
type InputParser struct{}

// NewInputParser creates a new input parser.
func NewInputParser() *InputParser {
	return &InputParser{}
}

// LoadFromFile loads and validates a plan from a YAML file.
func (ip *InputParser) LoadFromFile(filename string) (*Plan, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}

	var file PlanFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	return ip.Resolve(&file)
}

// Resolve applies defaults and validates the plan file contents.
func (ip *InputParser) Resolve(file *PlanFile) (*Plan, error) {
	inputs := file.ToInputs()
	if err := inputs.Validate(); err != nil {
		return nil, fmt.Errorf("plan validation failed: %w", err)
	}

	strategy, err := file.StrategyID()
	if err != nil {
		return nil, fmt.Errorf("plan validation failed: %w", err)
	}

	return &Plan{Inputs: inputs, Strategy: strategy}, nil
}

// ToInputs converts the file into projection inputs, filling defaults for
// every omitted field.
func (pf *PlanFile) ToInputs() domain.Inputs {
	return domain.Inputs{
		CurrentAge:     pf.Plan.CurrentAge,
		RetirementAge:  pf.Plan.RetirementAge,
		LifeExpectancy: intOrDefault(pf.Plan.LifeExpectancy, defaultLifeExpectancy),

		RRIFBalance:          pf.Accounts.RRIF,
		RRSPBalance:          pf.Accounts.RRSP,
		TFSABalance:          pf.Accounts.TFSA,
		NonRegisteredBalance: pf.Accounts.NonRegistered,
		AppreciatingAssets:   pf.Accounts.AppreciatingAssets,

		TargetRetirementIncome: pf.Plan.TargetRetirementIncome,
		AnnualReturnRate:       pf.Assumptions.AnnualReturnRate,
		InflationRate:          pf.Assumptions.InflationRate,

		AnnualCPP:       pf.Benefits.AnnualCPP,
		AnnualOAS:       pf.Benefits.AnnualOAS,
		AnnualPension:   pf.Benefits.AnnualPension,
		CPPStartAge:     intOrDefault(pf.Benefits.CPPStartAge, defaultBenefitStartAge),
		OASStartAge:     intOrDefault(pf.Benefits.OASStartAge, defaultBenefitStartAge),
		PensionStartAge: intOrDefault(pf.Benefits.PensionStartAge, defaultBenefitStartAge),

		AnnualRRSPContribution:          pf.Contributions.RRSP,
		AnnualTFSAContribution:          pf.Contributions.TFSA,
		AnnualNonRegisteredContribution: pf.Contributions.NonRegistered,

		TaxableNonRegisteredShare: decimalOrDefault(pf.Assumptions.TaxableNonRegisteredShare, defaultTaxableShare),

		ApplyOASClawback:         boolOrDefault(pf.Rules.ApplyOASClawback, true),
		ApplyRRIFMinimums:        boolOrDefault(pf.Rules.ApplyRRIFMinimums, true),
		ApplyPensionIncomeCredit: boolOrDefault(pf.Rules.ApplyPensionIncomeCredit, false),
	}
}

// StrategyID resolves the plan's withdrawal strategy, defaulting to RRIF-first.
func (pf *PlanFile) StrategyID() (domain.StrategyID, error) {
	if pf.Plan.Strategy == "" {
		return domain.StrategyRRIFFirst, nil
	}
	return domain.ParseStrategyID(pf.Plan.Strategy)
}

// SaveToFile writes a plan file as YAML.
func SaveToFile(file *PlanFile, filename string) error {
	data, err := yaml.Marshal(file)
	if err != nil {
		return fmt.Errorf("failed to marshal plan: %w", err)
	}
	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("failed to write file %s: %w", filename, err)
	}
	return nil
}

// ExamplePlan returns a fully populated starter plan for the init command.
func ExamplePlan() *PlanFile {
	lifeExpectancy := 95
	startAge := 65
	share := decimal.NewFromInt(1)
	on := true
	off := false

	return &PlanFile{
		Plan: PlanSection{
			CurrentAge:             60,
			RetirementAge:          65,
			LifeExpectancy:         &lifeExpectancy,
			TargetRetirementIncome: decimal.NewFromInt(60000),
			Strategy:               string(domain.StrategyRRIFFirst),
		},
		Accounts: AccountsSection{
			RRIF:          decimal.NewFromInt(100000),
			RRSP:          decimal.NewFromInt(400000),
			TFSA:          decimal.NewFromInt(100000),
			NonRegistered: decimal.NewFromInt(150000),
		},
		Contributions: ContributionsSection{
			RRSP: decimal.NewFromInt(10000),
			TFSA: decimal.NewFromInt(7000),
		},
		Assumptions: AssumptionsSection{
			AnnualReturnRate:          decimal.NewFromFloat(0.05),
			InflationRate:             decimal.NewFromFloat(0.02),
			TaxableNonRegisteredShare: &share,
		},
		Benefits: BenefitsSection{
			AnnualCPP:       decimal.NewFromInt(15000),
			CPPStartAge:     &startAge,
			AnnualOAS:       decimal.NewFromInt(8500),
			OASStartAge:     &startAge,
			AnnualPension:   decimal.Zero,
			PensionStartAge: &startAge,
		},
		Rules: RulesSection{
			ApplyOASClawback:         &on,
			ApplyRRIFMinimums:        &on,
			ApplyPensionIncomeCredit: &off,
		},
	}
}

func intOrDefault(value *int, fallback int) int {
	if value == nil {
		return fallback
	}
	return *value
}

func decimalOrDefault(value *decimal.Decimal, fallback decimal.Decimal) decimal.Decimal {
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
