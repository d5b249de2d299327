// Package export writes a user's transaction history as a CSV
// statement, the inverse of the importer.
package export

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/ebitner/pennyplan/internal/finance"
	"github.com/ebitner/pennyplan/internal/transaction"
)

// TransactionLister is the slice of the transaction service the
// exporter needs.
type TransactionLister interface {
	List(ctx context.Context, userID uuid.UUID, filter transaction.ListFilter) ([]*finance.Transaction, error)
}

type Service struct {
	transactions TransactionLister
}

func NewService(transactions TransactionLister) *Service {
	return &Service{transactions: transactions}
}

var header = []string{"Date", "Description", "Category", "Type", "Amount"}

// WriteCSV streams the matching transactions to w as CSV, expenses as
// negative amounts. Returns the number of rows written.
func (s *Service) WriteCSV(ctx context.Context, userID uuid.UUID, filter transaction.ListFilter, w io.Writer) (int, error) {
	txs, err := s.transactions.List(ctx, userID, filter)
	if err != nil {
		return 0, fmt.Errorf("listing transactions: %w", err)
	}

	writer := csv.NewWriter(w)

	if err := writer.Write(header); err != nil {
		return 0, fmt.Errorf("writing header: %w", err)
	}

	for i, tx := range txs {
		amount := tx.Amount
		if tx.Type == finance.TypeExpense {
			amount = -amount
		}

		record := []string{
			tx.Date.Format(time.DateOnly),
			metadataString(tx.Metadata, "description"),
			categoryValue(tx.CategoryID),
			string(tx.Type),
			strconv.FormatFloat(amount, 'f', 2, 64),
		}

		if err := writer.Write(record); err != nil {
			return i, fmt.Errorf("writing row: %w", err)
		}
	}

	writer.Flush()

	if err := writer.Error(); err != nil {
		return len(txs), fmt.Errorf("flushing csv: %w", err)
	}

	return len(txs), nil
}

func metadataString(metadata map[string]any, key string) string {
	if metadata == nil {
		return ""
	}

	s, _ := metadata[key].(string)

	return s
}

func categoryValue(id *uuid.UUID) string {
	if id == nil {
		return ""
	}

	return id.String()
}
