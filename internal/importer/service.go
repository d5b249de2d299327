package importer

import (
	"fmt"
	"io"

	"github.com/ebitner/pennyplan/internal/importer/bankcsv"
	"github.com/ebitner/pennyplan/internal/transaction"
)

type Service struct {
	bankCSV Importer
}

func NewService() *Service {
	return &Service{
		bankCSV: bankcsv.NewParser(),
	}
}

func (s *Service) Import(format Format, r io.Reader) ([]transaction.CreateParams, error) {
	var importer Importer

	switch format {
	case FormatBankCSV:
		importer = s.bankCSV
	default:
		return nil, fmt.Errorf("unknown import format: %s", format)
	}

	return importer.Parse(r)
}
