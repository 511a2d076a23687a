package sequencing

import (
	"fmt"

	"github.com/rdgo/drawdown-calculator/internal/domain"
)

// ForStrategy returns the implementation for a strategy id.
func ForStrategy(id domain.StrategyID) (Strategy, error) {
	switch id {
	case domain.StrategyRRIFFirst:
		return NewRRIFFirstStrategy(), nil
	case domain.StrategyNonRegisteredFirst:
		return NewNonRegisteredFirstStrategy(), nil
	case domain.StrategyBracketFill:
		return NewBracketFillStrategy(), nil
	case domain.StrategyTaxSmoothing:
		return NewTaxSmoothingStrategy(), nil
	default:
		return nil, domain.NewValidationError("strategy", fmt.Sprintf("unsupported strategy %q", id))
	}
}

// All returns one instance of every strategy in presentation order.
func All() []Strategy {
	return []Strategy{
		NewRRIFFirstStrategy(),
		NewNonRegisteredFirstStrategy(),
		NewBracketFillStrategy(),
		NewTaxSmoothingStrategy(),
	}
}
