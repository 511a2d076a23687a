package domain

import "fmt"

// StrategyID identifies a withdrawal sequencing strategy.
type StrategyID string

const (
	// StrategyRRIFFirst drains the RRIF before touching other accounts.
	StrategyRRIFFirst StrategyID = "rrif_first"
	// StrategyNonRegisteredFirst spends taxable money first, preserving registered growth.
	StrategyNonRegisteredFirst StrategyID = "non_registered_first"
	// StrategyBracketFill fills the lowest open tax bracket with RRIF income each year.
	StrategyBracketFill StrategyID = "bracket_fill"
	// StrategyTaxSmoothing levels taxable income across the remaining horizon.
	StrategyTaxSmoothing StrategyID = "tax_smoothing"
)

var strategyLabels = map[StrategyID]string{
	StrategyRRIFFirst:          "RRIF-first",
	StrategyNonRegisteredFirst: "Non-registered-first",
	StrategyBracketFill:        "Bracket-fill",
	StrategyTaxSmoothing:       "Tax-smoothing",
}

// AllStrategies returns every supported strategy in presentation order.
func AllStrategies() []StrategyID {
	return []StrategyID{
		StrategyRRIFFirst,
		StrategyNonRegisteredFirst,
		StrategyBracketFill,
		StrategyTaxSmoothing,
	}
}

// Valid reports whether the id names a supported strategy.
func (s StrategyID) Valid() bool {
	_, ok := strategyLabels[s]
	return ok
}

// Label returns the human-readable strategy name.
func (s StrategyID) Label() string {
	if label, ok := strategyLabels[s]; ok {
		return label
	}
	return string(s)
}

// ParseStrategyID validates a raw strategy string.
func ParseStrategyID(raw string) (StrategyID, error) {
	id := StrategyID(raw)
	if !id.Valid() {
		return "", NewValidationError("strategy", fmt.Sprintf("unsupported strategy %q", raw))
	}
	return id, nil
}

// StrategyOption pairs an id with its label for listing endpoints.
type StrategyOption struct {
	ID    StrategyID `json:"id"`
	Label string     `json:"label"`
}

// StrategyOptions returns the id/label pairs for every supported strategy.
func StrategyOptions() []StrategyOption {
	ids := AllStrategies()
	options := make([]StrategyOption, 0, len(ids))
	for _, id := range ids {
		options = append(options, StrategyOption{ID: id, Label: id.Label()})
	}
	return options
}
