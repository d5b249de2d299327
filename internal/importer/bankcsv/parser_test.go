package bankcsv_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"

	"github.com/ebitner/pennyplan/internal/finance"
	"github.com/ebitner/pennyplan/internal/importer/bankcsv"
)

func date(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

func TestParser_SignedAmount(t *testing.T) {
	csv := `Account statement export - 2026-08-15
Account;0000 - Checking

Date,Description,Amount,Balance
2026-08-10,GROCERY MART,-58.74,4825.46
2026-08-01,ACME PAYROLL,2608.52,4884.20
`

	p := bankcsv.NewParser()
	params, err := p.Parse(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, params, 2)

	assert.Equal(t, date(2026, 8, 10), params[0].Date)
	assert.Equal(t, 58.74, params[0].Amount)
	assert.Equal(t, finance.TypeExpense, params[0].Type)
	assert.Equal(t, "GROCERY MART", params[0].Metadata["description"])

	assert.Equal(t, date(2026, 8, 1), params[1].Date)
	assert.Equal(t, 2608.52, params[1].Amount)
	assert.Equal(t, finance.TypeIncome, params[1].Type)
}

func TestParser_DebitCredit(t *testing.T) {
	csv := `Date,Description,Debit,Credit
2026-08-12,COFFEE HOUSE,4.20,
2026-08-05,REFUND STORE,,15.00
Total,,4.20,15.00
`

	p := bankcsv.NewParser()
	params, err := p.Parse(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, params, 2, "footer row is skipped")

	assert.Equal(t, 4.20, params[0].Amount)
	assert.Equal(t, finance.TypeExpense, params[0].Type)

	assert.Equal(t, 15.00, params[1].Amount)
	assert.Equal(t, finance.TypeIncome, params[1].Type)
}

func TestParser_EuropeanAmounts(t *testing.T) {
	csv := `Date,Description,Amount
13-02-2026,SUPPLIER PAYMENT,"-1.608,13"
04-02-2026,CLIENT INVOICE,"4.324,06"
`

	p := bankcsv.NewParser()
	params, err := p.Parse(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, params, 2)

	assert.Equal(t, date(2026, 2, 13), params[0].Date)
	assert.Equal(t, 1608.13, params[0].Amount)
	assert.Equal(t, finance.TypeExpense, params[0].Type)

	assert.Equal(t, 4324.06, params[1].Amount)
	assert.Equal(t, finance.TypeIncome, params[1].Type)
}

func TestParser_Windows1252Encoding(t *testing.T) {
	// "CAFÉ BISTRO" with é as a single 0xE9 byte.
	utf8csv := `Date,Description,Amount
2026-08-03,CAFÉ BISTRO,-9.50
`

	encoded, err := charmap.Windows1252.NewEncoder().String(utf8csv)
	require.NoError(t, err)

	p := bankcsv.NewParser()
	params, err := p.Parse(strings.NewReader(encoded))
	require.NoError(t, err)
	require.Len(t, params, 1)

	assert.Equal(t, "CAFÉ BISTRO", params[0].Metadata["description"])
}

func TestParser_MissingDescription(t *testing.T) {
	csv := `Date,Description,Amount
2026-08-10,,12.00
`

	p := bankcsv.NewParser()
	_, err := p.Parse(strings.NewReader(csv))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing description")
}

func TestParser_NoMatchingLayout(t *testing.T) {
	csv := `Foo,Bar
1,2
`

	p := bankcsv.NewParser()
	_, err := p.Parse(strings.NewReader(csv))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no matching statement layout")
}

func TestParser_ZeroAmountSkipped(t *testing.T) {
	csv := `Date,Description,Amount
2026-08-10,PENDING HOLD,0.00
2026-08-09,REAL CHARGE,-5.00
`

	p := bankcsv.NewParser()
	params, err := p.Parse(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, params, 1)
	assert.Equal(t, 5.00, params[0].Amount)
}
