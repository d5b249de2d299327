package dashboard

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/ebitner/pennyplan/internal/auth"
	"github.com/ebitner/pennyplan/internal/dashboard"
	"github.com/ebitner/pennyplan/internal/finance"
)

type Handler struct {
	svc *dashboard.Service
}

func NewHandler(svc *dashboard.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/overview", h.overview)
	r.Get("/trends", h.trends)
	r.Get("/breakdown", h.breakdown)
}

func (h *Handler) overview(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthenticated", http.StatusUnauthorized)
		return
	}

	overview, err := h.svc.Overview(r.Context(), userID)
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, overview)
}

type trendPointResponse struct {
	Month    string  `json:"month"`
	Income   float64 `json:"income"`
	Expenses float64 `json:"expenses"`
	Net      float64 `json:"net"`
}

func (h *Handler) trends(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthenticated", http.StatusUnauthorized)
		return
	}

	months := 0

	if s := r.URL.Query().Get("months"); s != "" {
		parsed, err := strconv.Atoi(s)
		if err != nil {
			http.Error(w, "invalid months", http.StatusBadRequest)
			return
		}

		months = parsed
	}

	points, err := h.svc.Trends(r.Context(), userID, months)
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	resp := make([]trendPointResponse, len(points))
	for i, p := range points {
		resp[i] = trendPointResponse{
			Month:    p.Month,
			Income:   p.Income,
			Expenses: p.Expenses,
			Net:      p.Net,
		}
	}

	writeJSON(w, http.StatusOK, resp)
}

type breakdownEntryResponse struct {
	Category        finance.CategoryName `json:"category"`
	Allocated       float64              `json:"allocated"`
	Spent           float64              `json:"spent"`
	ShareOfSpendPct float64              `json:"share_of_spend_pct"`
}

func (h *Handler) breakdown(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthenticated", http.StatusUnauthorized)
		return
	}

	entries, err := h.svc.Breakdown(r.Context(), userID)
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	resp := make([]breakdownEntryResponse, len(entries))
	for i, e := range entries {
		resp[i] = breakdownEntryResponse{
			Category:        e.Category,
			Allocated:       e.Allocated,
			Spent:           e.Spent,
			ShareOfSpendPct: e.ShareOfSpendPct,
		}
	}

	writeJSON(w, http.StatusOK, resp)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
