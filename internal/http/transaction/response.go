package transaction

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/ebitner/pennyplan/internal/finance"
)

type transactionResponse struct {
	ID         uuid.UUID               `json:"id"`
	CategoryID *uuid.UUID              `json:"category_id,omitempty"`
	Amount     float64                 `json:"amount"`
	Type       finance.TransactionType `json:"type"`
	Date       time.Time               `json:"date"`
	Metadata   map[string]any          `json:"metadata,omitempty"`
	CreatedAt  time.Time               `json:"created_at"`
	UpdatedAt  *time.Time              `json:"updated_at,omitempty"`
}

func toResponse(tx *finance.Transaction) transactionResponse {
	return transactionResponse{
		ID:         tx.ID,
		CategoryID: tx.CategoryID,
		Amount:     tx.Amount,
		Type:       tx.Type,
		Date:       tx.Date,
		Metadata:   tx.Metadata,
		CreatedAt:  tx.CreatedAt,
		UpdatedAt:  tx.UpdatedAt,
	}
}

func toResponseList(txs []*finance.Transaction) []transactionResponse {
	resp := make([]transactionResponse, len(txs))
	for i, tx := range txs {
		resp[i] = toResponse(tx)
	}

	return resp
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
