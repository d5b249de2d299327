// Package calculation exposes the four calculators over HTTP.
package calculation

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/ebitner/pennyplan/internal/auth"
	"github.com/ebitner/pennyplan/internal/calc"
)

type Handler struct {
	svc *calc.Service
}

func NewHandler(svc *calc.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/budget", h.budget)
	r.Post("/scenarios", h.scenario)
	r.Get("/projections", h.projections)
	r.Get("/goals/progress", h.goalProgress)
}

func (h *Handler) budget(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthenticated", http.StatusUnauthorized)
		return
	}

	var opts calc.BudgetOptions

	if s := r.URL.Query().Get("timeframe_days"); s != "" {
		days, err := strconv.Atoi(s)
		if err != nil {
			http.Error(w, "invalid timeframe_days", http.StatusBadRequest)
			return
		}

		opts.TimeframeDays = days
	}

	summary, err := h.svc.BudgetSummary(r.Context(), userID, opts)
	if err != nil {
		if errors.Is(err, calc.ErrUserNotFound) {
			http.Error(w, "user not found", http.StatusNotFound)
			return
		}

		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	writeJSON(w, http.StatusOK, summary)
}

type scenarioRequest struct {
	Type calc.ScenarioType `json:"type"`
	Data json.RawMessage   `json:"data"`
}

func (h *Handler) scenario(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthenticated", http.StatusUnauthorized)
		return
	}

	var req scenarioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	result, err := h.svc.RunScenario(r.Context(), userID, req.Type, req.Data)
	if err != nil {
		switch {
		case errors.Is(err, calc.ErrUnsupportedScenario):
			http.Error(w, err.Error(), http.StatusBadRequest)
		case errors.Is(err, calc.ErrUserNotFound):
			http.Error(w, "user not found", http.StatusNotFound)
		default:
			http.Error(w, "internal error", http.StatusInternalServerError)
		}

		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (h *Handler) projections(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthenticated", http.StatusUnauthorized)
		return
	}

	var opts calc.ProjectionOptions

	if s := r.URL.Query().Get("period_months"); s != "" {
		months, err := strconv.Atoi(s)
		if err != nil {
			http.Error(w, "invalid period_months", http.StatusBadRequest)
			return
		}

		opts.PeriodMonths = months
	}

	if s := r.URL.Query().Get("income_growth"); s != "" {
		rate, err := strconv.ParseFloat(s, 64)
		if err != nil {
			http.Error(w, "invalid income_growth", http.StatusBadRequest)
			return
		}

		opts.IncomeGrowthRatePercent = new(rate)
	}

	if s := r.URL.Query().Get("expense_growth"); s != "" {
		rate, err := strconv.ParseFloat(s, 64)
		if err != nil {
			http.Error(w, "invalid expense_growth", http.StatusBadRequest)
			return
		}

		opts.ExpenseGrowthRatePercent = new(rate)
	}

	result, err := h.svc.Projections(r.Context(), userID, opts)
	if err != nil {
		switch {
		case errors.Is(err, calc.ErrInsufficientData):
			http.Error(w, "not enough transaction history for a projection", http.StatusUnprocessableEntity)
		case errors.Is(err, calc.ErrUserNotFound):
			http.Error(w, "user not found", http.StatusNotFound)
		default:
			http.Error(w, "internal error", http.StatusInternalServerError)
		}

		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (h *Handler) goalProgress(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthenticated", http.StatusUnauthorized)
		return
	}

	progress, err := h.svc.GoalProgressAll(r.Context(), userID)
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, progress)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
