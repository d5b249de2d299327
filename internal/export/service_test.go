package export

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ebitner/pennyplan/internal/finance"
	"github.com/ebitner/pennyplan/internal/transaction"
)

type stubLister struct {
	txs []*finance.Transaction
	err error
}

func (s *stubLister) List(ctx context.Context, userID uuid.UUID, filter transaction.ListFilter) ([]*finance.Transaction, error) {
	return s.txs, s.err
}

func TestService_WriteCSV(t *testing.T) {
	t.Parallel()

	categoryID := uuid.New()

	lister := &stubLister{
		txs: []*finance.Transaction{
			{
				Amount:     58.74,
				Type:       finance.TypeExpense,
				CategoryID: &categoryID,
				Date:       time.Date(2026, 8, 10, 0, 0, 0, 0, time.UTC),
				Metadata:   map[string]any{"description": "GROCERY MART"},
			},
			{
				Amount: 2608.52,
				Type:   finance.TypeIncome,
				Date:   time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
			},
		},
	}

	service := NewService(lister)

	var buf bytes.Buffer

	n, err := service.WriteCSV(context.Background(), uuid.New(), transaction.ListFilter{}, &buf)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)

	assert.Equal(t, "Date,Description,Category,Type,Amount", lines[0])
	assert.Equal(t, "2026-08-10,GROCERY MART,"+categoryID.String()+",expense,-58.74", lines[1])
	assert.Equal(t, "2026-08-01,,,income,2608.52", lines[2])
}

func TestService_WriteCSV_Empty(t *testing.T) {
	t.Parallel()

	service := NewService(&stubLister{})

	var buf bytes.Buffer

	n, err := service.WriteCSV(context.Background(), uuid.New(), transaction.ListFilter{}, &buf)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Equal(t, "Date,Description,Category,Type,Amount\n", buf.String())
}
