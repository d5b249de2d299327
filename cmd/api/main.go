package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/ebitner/pennyplan/internal/auth"
	"github.com/ebitner/pennyplan/internal/cache"
	"github.com/ebitner/pennyplan/internal/calc"
	calcStore "github.com/ebitner/pennyplan/internal/calc/store"
	"github.com/ebitner/pennyplan/internal/category"
	categoryStore "github.com/ebitner/pennyplan/internal/category/store"
	"github.com/ebitner/pennyplan/internal/config"
	"github.com/ebitner/pennyplan/internal/dashboard"
	"github.com/ebitner/pennyplan/internal/database"
	"github.com/ebitner/pennyplan/internal/export"
	"github.com/ebitner/pennyplan/internal/goal"
	goalStore "github.com/ebitner/pennyplan/internal/goal/store"
	pennyHttp "github.com/ebitner/pennyplan/internal/http"
	calculationHandler "github.com/ebitner/pennyplan/internal/http/calculation"
	categoryHandler "github.com/ebitner/pennyplan/internal/http/category"
	dashboardHandler "github.com/ebitner/pennyplan/internal/http/dashboard"
	exportHandler "github.com/ebitner/pennyplan/internal/http/export"
	goalHandler "github.com/ebitner/pennyplan/internal/http/goal"
	importHandler "github.com/ebitner/pennyplan/internal/http/importcsv"
	matchingHandler "github.com/ebitner/pennyplan/internal/http/matching"
	profileHandler "github.com/ebitner/pennyplan/internal/http/profile"
	txHandler "github.com/ebitner/pennyplan/internal/http/transaction"
	"github.com/ebitner/pennyplan/internal/importer"
	"github.com/ebitner/pennyplan/internal/matching"
	matchingStore "github.com/ebitner/pennyplan/internal/matching/store"
	"github.com/ebitner/pennyplan/internal/transaction"
	txStore "github.com/ebitner/pennyplan/internal/transaction/store"
	"github.com/ebitner/pennyplan/internal/user"
	userStore "github.com/ebitner/pennyplan/internal/user/store"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	db, err := database.New(context.Background(), cfg.ConnectionString())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	resultCache := cache.NewMemory()
	verifier := auth.NewVerifier(cfg.Auth.JWTSecret)

	var (
		calcService        = calc.NewService(calcStore.New(db), resultCache)
		transactionService = transaction.NewService(txStore.New(db), resultCache)
		categoryService    = category.NewService(categoryStore.New(db), resultCache)
		goalService        = goal.NewService(goalStore.New(db), resultCache)
		userService        = user.NewService(userStore.New(db), resultCache)
		importService      = importer.NewService()
		matchingService    = matching.NewService(matchingStore.New(db))
		exportService      = export.NewService(transactionService)
		dashboardService   = dashboard.NewService(calcService, categoryService, transactionService)
	)

	var (
		calculationH = calculationHandler.NewHandler(calcService)
		transactionH = txHandler.NewHandler(transactionService)
		categoryH    = categoryHandler.NewHandler(categoryService)
		goalH        = goalHandler.NewHandler(goalService)
		dashboardH   = dashboardHandler.NewHandler(dashboardService)
		importH      = importHandler.NewHandler(importService, transactionService, matchingService)
		exportH      = exportHandler.NewHandler(exportService)
		matchingH    = matchingHandler.NewHandler(matchingService)
		profileH     = profileHandler.NewHandler(userService)
	)

	router := pennyHttp.New(
		verifier,
		calculationH,
		transactionH,
		categoryH,
		goalH,
		dashboardH,
		importH,
		exportH,
		matchingH,
		profileH,
		cfg.Server.AllowedOrigins,
	)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	slog.Info("starting server", "app", cfg.App.Name, "port", port)

	if err := http.ListenAndServe(port, router); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
