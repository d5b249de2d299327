package importer

import (
	"io"

	"github.com/ebitner/pennyplan/internal/transaction"
)

// Format names a supported statement file format.
type Format string

const (
	FormatBankCSV Format = "bank_csv"
)

type Importer interface {
	Parse(r io.Reader) ([]transaction.CreateParams, error)
}
