package bankcsv

import (
	"strings"

	"github.com/shopspring/decimal"
)

// parseDecimalAmount parses an amount string in either plain
// ("1234.56", "-588.74") or European ("1.234,56") notation. A comma
// anywhere marks the European form, where dots are thousand separators.
func parseDecimalAmount(s string) (float64, error) {
	clean := strings.ReplaceAll(s, " ", "")

	if strings.Contains(clean, ",") {
		clean = strings.ReplaceAll(clean, ".", "")
		clean = strings.ReplaceAll(clean, ",", ".")
	}

	d, err := decimal.NewFromString(clean)
	if err != nil {
		return 0, err
	}

	return d.InexactFloat64(), nil
}
