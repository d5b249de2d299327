package view

import (
	"fmt"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/ebitner/pennyplan/internal/calc"
	"github.com/ebitner/pennyplan/internal/category"
)

type OverviewModel struct {
	CommonModel
	calcService     *calc.Service
	categoryService *category.Service
	userID          uuid.UUID

	table   table.Model
	summary *calc.BudgetSummary
	loading bool
	err     error
}

func NewOverviewModel(calcSvc *calc.Service, catSvc *category.Service, userID uuid.UUID) OverviewModel {
	columns := []table.Column{
		{Title: "Category", Width: 24},
		{Title: "Allocated", Width: 12},
		{Title: "Spent", Width: 12},
		{Title: "Remaining", Width: 12},
		{Title: "Used", Width: 8},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(12),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(false)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return OverviewModel{
		calcService:     calcSvc,
		categoryService: catSvc,
		userID:          userID,
		table:           t,
		loading:         true,
	}
}

func (m OverviewModel) Title() string     { return "Budget Overview" }
func (m OverviewModel) ShortHelp() string { return "Esc: back | r: refresh" }

func (m OverviewModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m OverviewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadOverviewMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.summary = msg.summary
		m.refreshTable(msg.overview)
		return m, nil

	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, m.loadCmd()
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m OverviewModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading budget...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(fmt.Sprintf("Error: %v", m.err))
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		m.summaryPanel(),
		lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("240")).
			Render(m.table.View()),
		lipgloss.NewStyle().Faint(true).Render(m.ShortHelp()),
	)

	return lipgloss.NewStyle().Padding(1).Render(content)
}

func (m OverviewModel) summaryPanel() string {
	s := m.summary
	if s == nil {
		return ""
	}

	label := lipgloss.NewStyle().Faint(true).Render
	value := lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Render

	lines := fmt.Sprintf(
		"%s %s   %s %s   %s %s\n%s %s   %s %s",
		label("Income/mo:"), value(FormatAmount(s.Income.Monthly)),
		label("Expenses/mo:"), value(FormatAmount(s.Expenses.ReportedMonthly)),
		label("Disposable:"), value(FormatAmount(s.CashFlow.DisposableIncome)),
		label("Savings rate:"), value(FormatPercent(s.CashFlow.SavingsRate)),
		label("Emergency fund:"), value(FormatPercent(s.EmergencyFund.CompletionPercentage)),
	)

	return lipgloss.NewStyle().
		Padding(1, 2).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("63")).
		Render(lines)
}

func (m *OverviewModel) refreshTable(ov *category.Overview) {
	if ov == nil {
		return
	}

	rows := make([]table.Row, 0, len(ov.Categories))
	for _, cat := range ov.Categories {
		used := "-"
		if cat.BudgetAllocated > 0 {
			used = FormatPercent(cat.SpentAmount / cat.BudgetAllocated * 100)
		}
		rows = append(rows, table.Row{
			string(cat.Name),
			FormatAmount(cat.BudgetAllocated),
			FormatAmount(cat.SpentAmount),
			FormatAmount(cat.BudgetAllocated - cat.SpentAmount),
			used,
		})
	}
	m.table.SetRows(rows)
}

// Messages

type loadOverviewMsg struct {
	summary  *calc.BudgetSummary
	overview *category.Overview
	err      error
}

func (m OverviewModel) loadCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		summary, err := m.calcService.BudgetSummary(ctx, m.userID, calc.BudgetOptions{})
		if err != nil {
			return loadOverviewMsg{err: err}
		}

		overview, err := m.categoryService.Overview(ctx, m.userID)
		if err != nil {
			return loadOverviewMsg{err: err}
		}

		return loadOverviewMsg{summary: &summary, overview: overview}
	}
}
