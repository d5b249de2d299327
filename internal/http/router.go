package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/ebitner/pennyplan/internal/auth"
	"github.com/ebitner/pennyplan/internal/http/calculation"
	"github.com/ebitner/pennyplan/internal/http/category"
	"github.com/ebitner/pennyplan/internal/http/dashboard"
	"github.com/ebitner/pennyplan/internal/http/export"
	"github.com/ebitner/pennyplan/internal/http/goal"
	"github.com/ebitner/pennyplan/internal/http/importcsv"
	"github.com/ebitner/pennyplan/internal/http/matching"
	"github.com/ebitner/pennyplan/internal/http/profile"
	"github.com/ebitner/pennyplan/internal/http/transaction"
)

func New(
	verifier *auth.Verifier,
	calculationsV1 *calculation.Handler,
	transactionsV1 *transaction.Handler,
	categoriesV1 *category.Handler,
	goalsV1 *goal.Handler,
	dashboardV1 *dashboard.Handler,
	importV1 *importcsv.Handler,
	exportV1 *export.Handler,
	matchingV1 *matching.Handler,
	profileV1 *profile.Handler,
	allowedOrigins []string,
) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	router.Route("/api/v1", func(r chi.Router) {
		r.Use(verifier.Middleware)

		r.Route("/calculations", func(r chi.Router) {
			calculationsV1.Routes(r)
		})

		r.Route("/transactions", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			transactionsV1.Routes(r)
		})

		r.Route("/categories", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			categoriesV1.Routes(r)
		})

		r.Route("/goals", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			goalsV1.Routes(r)
		})

		r.Route("/dashboard", dashboardV1.Routes)

		r.Route("/import", importV1.Routes)

		r.Route("/export", exportV1.Routes)

		r.Route("/matching", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			matchingV1.Routes(r)
		})

		r.Route("/profile", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			profileV1.Routes(r)
		})
	})

	return router
}
