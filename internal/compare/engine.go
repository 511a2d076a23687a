package compare

import (
	"context"
	"fmt"
	"sort"

	"github.com/rdgo/drawdown-calculator/internal/calculation"
	"github.com/rdgo/drawdown-calculator/internal/domain"
)

// CompareEngine projects every withdrawal strategy over the same inputs and
// ranks the outcomes.
type CompareEngine struct {
	Calc *calculation.Engine
}

// NewCompareEngine creates a comparison engine over a calculation engine.
func NewCompareEngine(calc *calculation.Engine) *CompareEngine {
	return &CompareEngine{Calc: calc}
}

// RunAll projects the household plan under every strategy. Each projection is
// identical to a standalone run of that strategy; the comparison only adds the
// ranking. Rankings order by ending balance after estate taxes, highest
// first, with lifetime taxes breaking ties.
func (ce *CompareEngine) RunAll(ctx context.Context, inputs domain.Inputs) (*domain.ComparisonResult, error) {
	if err := inputs.Validate(); err != nil {
		return nil, err
	}

	strategies := domain.AllStrategies()
	projections := make([]*domain.Projection, 0, len(strategies))
	for _, id := range strategies {
		projection, err := ce.Calc.Run(ctx, inputs, id)
		if err != nil {
			return nil, fmt.Errorf("projecting %s: %w", id, err)
		}
		projections = append(projections, projection)
	}

	sort.SliceStable(projections, func(i, j int) bool {
		a, b := projections[i].Summary, projections[j].Summary
		if cmp := a.EndingBalanceAfterEstateTaxes.Cmp(b.EndingBalanceAfterEstateTaxes); cmp != 0 {
			return cmp > 0
		}
		return a.LifetimeTaxes.LessThan(b.LifetimeTaxes)
	})

	result := &domain.ComparisonResult{
		Rankings:    make([]domain.StrategySummary, len(projections)),
		Projections: projections,
	}
	for i, projection := range projections {
		result.Rankings[i] = projection.Summary
	}
	return result, nil
}
