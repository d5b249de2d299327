package calc

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ebitner/pennyplan/internal/finance"
)

// EducationProgress is the time/skill-based branch of goal progress,
// active for education goals and any goal measured in hours.
type EducationProgress struct {
	HoursRemaining float64 `json:"hours_remaining"`
	// WeeklyHoursNeeded is nil when no valid future exam date exists.
	WeeklyHoursNeeded *float64 `json:"weekly_hours_needed"`
	NextMilestone     *string  `json:"next_milestone"`
	FocusAreas        []string `json:"focus_areas"`
	UpcomingDeadline  *string  `json:"upcoming_deadline"`
}

// GoalProgress is the normalized completion view of one goal.
type GoalProgress struct {
	ID                   uuid.UUID          `json:"id"`
	Name                 string             `json:"name"`
	GoalType             finance.GoalType   `json:"goal_type"`
	TargetAmount         float64            `json:"target_amount"`
	CurrentAmount        float64            `json:"current_amount"`
	CompletionPercentage float64            `json:"completion_percentage"`
	Status               finance.GoalStatus `json:"status"`
	Deadline             *time.Time         `json:"deadline"`
	MetricUnit           finance.MetricUnit `json:"metric_unit"`
	Metadata             map[string]any     `json:"metadata"`
	RemainingAmount      float64            `json:"remaining_amount"`
	TimeRemainingDays    *int               `json:"time_remaining_days"`
	Education            *EducationProgress `json:"education,omitempty"`
}

// BuildGoalProgress converts a stored goal into its progress view as of
// the reference instant.
func BuildGoalProgress(goal finance.Goal, now time.Time) GoalProgress {
	var completion float64
	if goal.TargetAmount > 0 {
		completion = goal.CurrentAmount / goal.TargetAmount * 100
	}

	metricUnit := goal.MetricUnit
	if metricUnit == "" {
		metricUnit = finance.UnitCurrency
	}

	var timeRemaining *int
	if goal.Deadline != nil {
		timeRemaining = new(daysUntil(*goal.Deadline, now))
	}

	return GoalProgress{
		ID:                   goal.ID,
		Name:                 goal.Name,
		GoalType:             goal.Type,
		TargetAmount:         round2(goal.TargetAmount),
		CurrentAmount:        round2(goal.CurrentAmount),
		CompletionPercentage: round2(completion),
		Status:               goal.Status,
		Deadline:             goal.Deadline,
		MetricUnit:           metricUnit,
		Metadata:             goal.Metadata,
		RemainingAmount:      round2(max(goal.TargetAmount-goal.CurrentAmount, 0)),
		TimeRemainingDays:    timeRemaining,
		Education:            educationProgress(goal, now),
	}
}

func daysUntil(deadline, now time.Time) int {
	return int(math.Ceil(deadline.Sub(now).Hours() / 24))
}

func educationProgress(goal finance.Goal, now time.Time) *EducationProgress {
	if goal.Type != finance.GoalEducation && goal.MetricUnit != finance.UnitHours {
		return nil
	}

	studyPlan := metaObject(goal.Metadata, "studyPlan")

	totalHours := metaNumber(studyPlan, "totalHours", goal.TargetAmount)
	completedHours := metaNumber(studyPlan, "completedHours", goal.CurrentAmount)
	hoursRemaining := max(totalHours-completedHours, 0)

	var (
		examDate    *time.Time
		weeklyHours *float64
	)

	if raw := strings.TrimSpace(metaString(goal.Metadata, "examDate")); raw != "" {
		if parsed, ok := parseFlexibleDate(raw); ok {
			examDate = &parsed

			if days := daysUntil(parsed, now); days > 0 {
				weeks := max(int(math.Ceil(float64(days)/7)), 1)
				weeklyHours = new(round1(hoursRemaining / float64(weeks)))
			}
		}
	}

	milestone, milestoneDue := upcomingMilestone(goal.Metadata, now)

	var focusAreas []string
	if plan, ok := studyPlan["upcomingFocusAreas"].([]any); ok {
		for _, item := range plan {
			if s, ok := item.(string); ok {
				focusAreas = append(focusAreas, s)
			}
		}
	}

	deadline := milestoneDue
	if deadline == nil && examDate != nil {
		deadline = new(examDate.Format(time.RFC3339))
	}

	return &EducationProgress{
		HoursRemaining:    round1(hoursRemaining),
		WeeklyHoursNeeded: weeklyHours,
		NextMilestone:     milestone,
		FocusAreas:        focusAreas,
		UpcomingDeadline:  deadline,
	}
}

// upcomingMilestone finds the goal's next actionable item: an explicit
// nextAction wins, otherwise the first milestone due today or later.
// Milestone list order is preserved; no sorting happens here.
func upcomingMilestone(metadata map[string]any, now time.Time) (title, dueDate *string) {
	if metadata == nil {
		return nil, nil
	}

	if action := strings.TrimSpace(metaString(metadata, "nextAction")); action != "" {
		var due *string
		if s := metaString(metadata, "nextActionDueDate"); s != "" {
			due = &s
		}

		return &action, due
	}

	// "Today or later" means calendar today, not this exact instant.
	startOfToday := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	milestones, _ := metadata["milestones"].([]any)
	for _, raw := range milestones {
		entry, ok := raw.(map[string]any)
		if !ok {
			continue
		}

		dueRaw := metaString(entry, "dueDate")
		if dueRaw == "" {
			continue
		}

		due, ok := parseFlexibleDate(dueRaw)
		if !ok || due.Before(startOfToday) {
			continue
		}

		if t := metaString(entry, "title"); t != "" {
			return &t, &dueRaw
		}

		return nil, nil
	}

	return nil, nil
}

// metaObject extracts a nested object from free-form metadata; missing
// or mistyped values read as nil, which is safe for lookups.
func metaObject(metadata map[string]any, key string) map[string]any {
	m, _ := metadata[key].(map[string]any)
	return m
}

// metaNumber reads a numeric metadata value, tolerating JSON numbers and
// numeric strings. The fallback applies only when the key is absent; a
// present but unparseable value reads as 0.
func metaNumber(metadata map[string]any, key string, fallback float64) float64 {
	v, ok := metadata[key]
	if !ok {
		return fallback
	}

	switch n := v.(type) {
	case float64:
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return 0
		}

		return n
	case int:
		return float64(n)
	case string:
		if parsed, err := strconv.ParseFloat(strings.TrimSpace(n), 64); err == nil {
			return parsed
		}
	}

	return 0
}

func metaString(metadata map[string]any, key string) string {
	s, _ := metadata[key].(string)
	return s
}
