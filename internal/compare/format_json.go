package compare

import (
	"encoding/json"

	"github.com/rdgo/drawdown-calculator/internal/domain"
)

// JSONFormatter renders a strategy comparison as JSON.
type JSONFormatter struct {
	Pretty bool // If true, format with indentation
}

// Format generates JSON output for the comparison rankings.
func (jf *JSONFormatter) Format(result *domain.ComparisonResult) (string, error) {
	return jf.FormatAny(result)
}

// FormatAny marshals an arbitrary value with the formatter's indentation setting.
func (jf *JSONFormatter) FormatAny(v interface{}) (string, error) {
	var data []byte
	var err error

	if jf.Pretty {
		data, err = json.MarshalIndent(v, "", "  ")
	} else {
		data, err = json.Marshal(v)
	}

	if err != nil {
		return "", err
	}

	return string(data), nil
}
