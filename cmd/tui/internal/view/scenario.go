package view

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/ebitner/pennyplan/internal/calc"
)

type scenarioState int

const (
	scenarioStatePick scenarioState = iota
	scenarioStateParams
	scenarioStateRunning
	scenarioStateResult
)

// scenarioField describes one numeric parameter collected for a scenario.
// Optional fields left blank are omitted from the payload so the
// evaluator's defaults apply.
type scenarioField struct {
	key      string
	title    string
	optional bool
	integer  bool
}

var scenarioFields = map[calc.ScenarioType][]scenarioField{
	calc.ScenarioCanIAfford: {
		{key: "itemCost", title: "Item cost"},
		{key: "monthsToSave", title: "Months to save (default 6)", optional: true},
		{key: "upfrontContribution", title: "Upfront contribution (default 0)", optional: true},
		{key: "monthlyContribution", title: "Monthly contribution (default: disposable income)", optional: true},
	},
	calc.ScenarioExpenseProjection: {
		{key: "currentMonthlyExpense", title: "Current monthly expense"},
		{key: "growthRatePercent", title: "Growth rate % (default 2)", optional: true},
		{key: "periodMonths", title: "Period in months (default 12)", optional: true, integer: true},
	},
	calc.ScenarioHousingAffordability: {
		{key: "housingCost", title: "Monthly housing cost"},
		{key: "housingBudgetPercentage", title: "Housing budget % of income (default 30)", optional: true},
	},
	calc.ScenarioDebtPayoff: {
		{key: "currentDebt", title: "Current debt"},
		{key: "interestRatePercent", title: "Annual interest rate %"},
		{key: "monthlyPayment", title: "Monthly payment"},
	},
	calc.ScenarioSavingsGoal: {
		{key: "targetAmount", title: "Target amount"},
		{key: "currentAmount", title: "Current amount (default: bank balance)", optional: true},
		{key: "monthlyContribution", title: "Monthly contribution (default: disposable income)", optional: true},
	},
}

type ScenarioModel struct {
	CommonModel
	calcService *calc.Service
	userID      uuid.UUID

	state        scenarioState
	form         *huh.Form
	scenarioType string
	inputs       map[string]*string
	result       *calc.ScenarioResult
	err          error
}

func NewScenarioModel(calcSvc *calc.Service, userID uuid.UUID) ScenarioModel {
	m := ScenarioModel{
		calcService: calcSvc,
		userID:      userID,
	}
	m.form = m.pickForm()
	return m
}

func (m ScenarioModel) Title() string { return "Scenario Runner" }
func (m ScenarioModel) ShortHelp() string {
	if m.state == scenarioStateResult {
		return "Enter: run another | Esc: back"
	}
	return "Navigate form | Esc: back"
}

func (m ScenarioModel) Init() tea.Cmd {
	return m.form.Init()
}

func (m ScenarioModel) pickForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Key("type").
				Title("What do you want to check?").
				Options(
					huh.NewOption("Can I afford a purchase?", string(calc.ScenarioCanIAfford)),
					huh.NewOption("Project an expense forward", string(calc.ScenarioExpenseProjection)),
					huh.NewOption("Is this housing cost affordable?", string(calc.ScenarioHousingAffordability)),
					huh.NewOption("How long to pay off a debt?", string(calc.ScenarioDebtPayoff)),
					huh.NewOption("How long to reach a savings goal?", string(calc.ScenarioSavingsGoal)),
				),
		),
	).WithWidth(60).WithShowHelp(false)
}

func (m *ScenarioModel) paramsForm() *huh.Form {
	fields := scenarioFields[calc.ScenarioType(m.scenarioType)]
	m.inputs = make(map[string]*string, len(fields))

	huhFields := make([]huh.Field, 0, len(fields))
	for _, f := range fields {
		val := new("")
		m.inputs[f.key] = val

		huhFields = append(huhFields, huh.NewInput().
			Key(f.key).
			Title(f.title).
			Value(val).
			Validate(validateNumber(f)))
	}

	return huh.NewForm(huh.NewGroup(huhFields...)).WithWidth(60).WithShowHelp(false)
}

func validateNumber(f scenarioField) func(string) error {
	return func(s string) error {
		s = strings.TrimSpace(s)
		if s == "" {
			if f.optional {
				return nil
			}
			return fmt.Errorf("required")
		}
		if _, err := strconv.ParseFloat(s, 64); err != nil {
			return fmt.Errorf("must be a number")
		}
		return nil
	}
}

func (m ScenarioModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case scenarioResultMsg:
		m.state = scenarioStateResult
		m.result = msg.result
		m.err = msg.err
		return m, nil

	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyEsc {
			return m, Back
		}
		if m.state == scenarioStateResult && msg.Type == tea.KeyEnter {
			m.state = scenarioStatePick
			m.result = nil
			m.err = nil
			m.form = m.pickForm()
			return m, m.form.Init()
		}
	}

	if m.state != scenarioStatePick && m.state != scenarioStateParams {
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	switch m.state {
	case scenarioStatePick:
		m.scenarioType = m.form.GetString("type")
		m.state = scenarioStateParams
		m.form = m.paramsForm()
		return m, m.form.Init()
	case scenarioStateParams:
		m.state = scenarioStateRunning
		return m, m.runCmd()
	}

	return m, cmd
}

func (m ScenarioModel) View() string {
	switch m.state {
	case scenarioStateRunning:
		return lipgloss.NewStyle().Padding(2).Render("Evaluating scenario...")
	case scenarioStateResult:
		return m.resultView()
	}

	panel := lipgloss.NewStyle().
		Padding(1, 2).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("63")).
		Render(m.form.View())

	return lipgloss.NewStyle().Padding(1).Render(panel)
}

func (m ScenarioModel) resultView() string {
	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(fmt.Sprintf("Error: %v\n\nEsc: back", m.err))
	}

	r := m.result
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))

	var b strings.Builder
	b.WriteString(titleStyle.Render(r.Summary))
	b.WriteString("\n\n")

	if details, err := json.MarshalIndent(r.Details, "", "  "); err == nil {
		b.WriteString(lipgloss.NewStyle().Faint(true).Render(string(details)))
		b.WriteString("\n\n")
	}

	for _, rec := range r.Recommendations {
		b.WriteString("- " + rec + "\n")
	}

	panel := lipgloss.NewStyle().
		Padding(1, 2).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("63")).
		Width(70).
		Render(b.String())

	help := lipgloss.NewStyle().Faint(true).Render(m.ShortHelp())

	return lipgloss.NewStyle().Padding(1).Render(
		lipgloss.JoinVertical(lipgloss.Left, panel, help),
	)
}

// Messages

type scenarioResultMsg struct {
	result *calc.ScenarioResult
	err    error
}

func (m ScenarioModel) runCmd() tea.Cmd {
	typ := calc.ScenarioType(m.scenarioType)
	payload := m.buildPayload()

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		result, err := m.calcService.RunScenario(ctx, m.userID, typ, payload)
		if err != nil {
			return scenarioResultMsg{err: err}
		}

		return scenarioResultMsg{result: &result}
	}
}

func (m ScenarioModel) buildPayload() json.RawMessage {
	params := make(map[string]any)
	for _, f := range scenarioFields[calc.ScenarioType(m.scenarioType)] {
		s := strings.TrimSpace(*m.inputs[f.key])
		if s == "" {
			continue
		}

		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			continue
		}

		if f.integer {
			params[f.key] = int(v)
		} else {
			params[f.key] = v
		}
	}

	raw, _ := json.Marshal(params)
	return raw
}
