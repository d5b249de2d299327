// Package bankcsv parses bank statement CSV exports into transaction
// parameters. It detects which export layout is in use by matching
// column headers against known profiles, and tolerates the preamble
// and footer rows banks put around the actual data.
package bankcsv

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/ebitner/pennyplan/internal/encoding"
	"github.com/ebitner/pennyplan/internal/finance"
	"github.com/ebitner/pennyplan/internal/transaction"
)

type Parser struct{}

func NewParser() *Parser {
	return &Parser{}
}

func (p *Parser) Parse(r io.Reader) ([]transaction.CreateParams, error) {
	utf8r, err := encoding.NewUTF8Reader(r)
	if err != nil {
		return nil, fmt.Errorf("detect encoding: %w", err)
	}

	reader := csv.NewReader(utf8r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}

	profile, cols, headerIdx := detectProfile(rows)
	if profile == nil {
		return nil, fmt.Errorf("no matching statement layout: expected date, description and amount columns")
	}

	return parseRows(profile, cols, rows[headerIdx+1:], headerIdx+1)
}

// colIndex maps column names to their index in the header row.
type colIndex map[string]int

// detectProfile scans rows for a header matching a known profile and
// returns the profile, the column index map and the header row index.
func detectProfile(rows [][]string) (*Profile, colIndex, int) {
	for rowIdx, row := range rows {
		cols := make(colIndex)

		for i, cell := range row {
			name := strings.TrimSpace(cell)
			if name != "" {
				cols[name] = i
			}
		}

		for i := range profiles {
			if matchesProfile(&profiles[i], cols) {
				return &profiles[i], cols, rowIdx
			}
		}
	}

	return nil, nil, 0
}

func matchesProfile(p *Profile, cols colIndex) bool {
	for _, name := range p.requiredCols() {
		if _, ok := cols[name]; !ok {
			return false
		}
	}

	return true
}

// parseRows extracts transactions from the data rows following the
// header. headerRowNum is the header's 0-based file index, used only
// for error messages.
func parseRows(p *Profile, cols colIndex, rows [][]string, headerRowNum int) ([]transaction.CreateParams, error) {
	dateIdx := cols[p.DateCol]
	descIdx := cols[p.DescCol]

	var params []transaction.CreateParams

	for i, row := range rows {
		rowNum := headerRowNum + i + 2 // 1-based, past the header

		date, ok := parseDate(row, dateIdx)
		if !ok {
			// Footer or summary row.
			continue
		}

		desc := cellValue(row, descIdx)
		if desc == "" {
			return nil, fmt.Errorf("row %d: missing description", rowNum)
		}

		amount, txType, ok := parseAmount(p, cols, row)
		if !ok {
			continue
		}

		params = append(params, transaction.CreateParams{
			Amount: amount,
			Type:   txType,
			Date:   date,
			Metadata: map[string]any{
				"description": desc,
				"source":      "csv_import",
			},
		})
	}

	return params, nil
}

// dateLayouts are tried in order; the first successful parse wins.
var dateLayouts = []string{
	"2006-01-02",
	"02-01-2006",
	"02/01/2006",
}

func parseDate(row []string, idx int) (time.Time, bool) {
	s := cellValue(row, idx)
	if s == "" {
		return time.Time{}, false
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}

	return time.Time{}, false
}

func parseAmount(p *Profile, cols colIndex, row []string) (float64, finance.TransactionType, bool) {
	switch p.AmountMode {
	case amountSigned:
		return parseSignedAmount(row, cols[p.AmountCol])
	case amountSplit:
		return parseSplitAmount(row, cols[p.DebitCol], cols[p.CreditCol])
	}

	return 0, "", false
}

// parseSignedAmount handles a single signed amount column. Negative
// values are expenses stored as absolute amounts.
func parseSignedAmount(row []string, idx int) (float64, finance.TransactionType, bool) {
	s := cellValue(row, idx)
	if s == "" {
		return 0, "", false
	}

	amount, err := parseDecimalAmount(s)
	if err != nil || amount == 0 {
		return 0, "", false
	}

	if amount < 0 {
		return -amount, finance.TypeExpense, true
	}

	return amount, finance.TypeIncome, true
}

// parseSplitAmount handles separate debit/credit columns.
func parseSplitAmount(row []string, debitIdx, creditIdx int) (float64, finance.TransactionType, bool) {
	if s := cellValue(row, debitIdx); s != "" {
		if amount, err := parseDecimalAmount(s); err == nil && amount != 0 {
			return abs(amount), finance.TypeExpense, true
		}
	}

	if s := cellValue(row, creditIdx); s != "" {
		if amount, err := parseDecimalAmount(s); err == nil && amount != 0 {
			return abs(amount), finance.TypeIncome, true
		}
	}

	return 0, "", false
}

func cellValue(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}

	return strings.TrimSpace(row[idx])
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}

	return v
}
