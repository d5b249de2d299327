package main

import (
	"context"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/ebitner/pennyplan/cmd/tui/internal/view"
	"github.com/ebitner/pennyplan/internal/cache"
	"github.com/ebitner/pennyplan/internal/calc"
	calcStore "github.com/ebitner/pennyplan/internal/calc/store"
	"github.com/ebitner/pennyplan/internal/category"
	categoryStore "github.com/ebitner/pennyplan/internal/category/store"
	"github.com/ebitner/pennyplan/internal/config"
	"github.com/ebitner/pennyplan/internal/database"
	"github.com/ebitner/pennyplan/internal/user"
	userStore "github.com/ebitner/pennyplan/internal/user/store"
)

type model struct {
	calcService     *calc.Service
	categoryService *category.Service
	userID          uuid.UUID

	currentView View

	overviewView view.OverviewModel
	scenarioView view.ScenarioModel
}

type View int

const (
	ViewMenu     View = 0
	ViewOverview View = 1
	ViewScenario View = 2
)

func initialModel() model {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	if cfg.TUI.UserEmail == "" {
		slog.Error("TUI_USER_EMAIL must be set to the account to browse")
		os.Exit(1)
	}

	db, err := database.New(context.Background(), cfg.ConnectionString())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}

	resultCache := cache.NewMemory()
	calcSvc := calc.NewService(calcStore.New(db), resultCache)
	catSvc := category.NewService(categoryStore.New(db), resultCache)
	userSvc := user.NewService(userStore.New(db), resultCache)

	account, err := userSvc.GetByEmail(context.Background(), cfg.TUI.UserEmail)
	if err != nil {
		slog.Error("failed to load account", "email", cfg.TUI.UserEmail, "error", err)
		os.Exit(1)
	}

	return model{
		calcService:     calcSvc,
		categoryService: catSvc,
		userID:          account.ID,
		currentView:     ViewMenu,
		overviewView:    view.NewOverviewModel(calcSvc, catSvc, account.ID),
		scenarioView:    view.NewScenarioModel(calcSvc, account.ID),
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.currentView == ViewMenu {
			switch msg.String() {
			case "ctrl+c", "q":
				return m, tea.Quit
			case "1":
				m.currentView = ViewOverview
				m.overviewView = view.NewOverviewModel(m.calcService, m.categoryService, m.userID)

				return m, m.overviewView.Init()
			case "2":
				m.currentView = ViewScenario
				m.scenarioView = view.NewScenarioModel(m.calcService, m.userID)

				return m, m.scenarioView.Init()
			}
		}
	case view.BackMsg:
		m.currentView = ViewMenu
		return m, nil
	}

	switch m.currentView {
	case ViewOverview:
		var newModel tea.Model
		newModel, cmd = m.overviewView.Update(msg)
		m.overviewView = newModel.(view.OverviewModel)
	case ViewScenario:
		var newModel tea.Model
		newModel, cmd = m.scenarioView.Update(msg)
		m.scenarioView = newModel.(view.ScenarioModel)
	}

	return m, cmd
}

func (m model) View() string {
	switch m.currentView {
	case ViewMenu:
		return lipgloss.NewStyle().Padding(2).Render(
			"Pennyplan\n\n" +
				"1. Budget Overview\n" +
				"2. Run a Scenario\n\n" +
				"q. Quit",
		)
	case ViewOverview:
		return m.overviewView.View()
	case ViewScenario:
		return m.scenarioView.View()
	}

	return "Unknown View"
}

func main() {
	p := tea.NewProgram(initialModel())
	if _, err := p.Run(); err != nil {
		slog.Error("failed to run TUI", "error", err)
		os.Exit(1)
	}
}
