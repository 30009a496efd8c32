package dashboard

import (
	"fmt"
	"math"
	"time"

	"github.com/shopspring/decimal"
)

// Module is a card-level summary for one tracked category.
type Module struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Subtitle    string `json:"subtitle"`
	MetricLabel string `json:"metricLabel"`
	MetricValue string `json:"metricValue"`
	PrimaryText string `json:"primaryText"`
}

// HeaderStat is one entry of the top-bar rollup.
type HeaderStat struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Overview carries scalar rollups for consumers beyond the card UI.
type Overview struct {
	CompletedExercises int     `json:"completedExercises"`
	CaloriesRemaining  float64 `json:"caloriesRemaining"`
	TotalSpent         float64 `json:"totalSpent"`
	TodosCompleted     int     `json:"todosCompleted"`
	TodosTotal         int     `json:"todosTotal"`
}

// Dashboard is the full derived-data shape for one day. Modules and Slices
// always hold exactly five entries in the fixed category order; HeaderStats
// always holds three.
type Dashboard struct {
	Today       DateKey      `json:"today"`
	Modules     []Module     `json:"modules"`
	Slices      []Slice      `json:"slices"`
	HeaderStats []HeaderStat `json:"headerStats"`
	Overview    Overview     `json:"overview"`
}

// Category color tokens, fixed per slice position.
const (
	colorFitness    = "#ff4fa3"
	colorCalories   = "#d6c8ff"
	colorExpenses   = "#ffa5d3"
	colorAttendance = "#ff7dc2"
	colorTodos      = "#c7b8ff"
)

// Build derives the daily dashboard from a snapshot of the five
// collections, a partial targets document and the caller's current time.
// It is pure and never fails: malformed records degrade to zeros and
// invalid targets fall back to defaults.
func Build(data Collections, partialTargets map[string]any, now time.Time) Dashboard {
	return BuildWithDefaults(data, partialTargets, DefaultTargets, now)
}

// BuildWithDefaults is Build with an explicit default-target set, so tests
// can substitute alternates.
func BuildWithDefaults(data Collections, partialTargets map[string]any, defaults Targets, now time.Time) Dashboard {
	targets := ResolveTargets(partialTargets, defaults)
	today := DayKey(now)

	todayFitness := DedupFitnessLogs(filterFitness(data.FitnessLogs, today))
	todayCalories := filterCalories(data.CalorieData, today)
	todayExpenses := filterExpenses(data.ExpenseData, today)
	todayTodos := filterTodos(data.TodoData, today)

	fitness := CalculateFitnessMetrics(todayFitness, targets)
	calories := CalculateCalorieMetrics(todayCalories, targets)
	expenses := CalculateExpenseMetrics(todayExpenses, targets)
	todos := CalculateTodoMetrics(todayTodos, targets)
	attendance := CalculateAttendanceMetrics(data.AttendanceData, today)

	movesText := fmt.Sprintf("%d/%s moves", fitness.CompletedExercises, formatCount(fitness.Goal))

	expenseRemaining := decimal.NewFromFloat(expenses.Remaining)
	expenseDetail := fmt.Sprintf("%s left", formatRupees(expenseRemaining))
	if expenseRemaining.IsNegative() {
		expenseDetail = fmt.Sprintf("%s over", formatRupees(expenseRemaining.Neg()))
	}

	attendanceDetail := "Mark attendance"
	if attendance.Today {
		attendanceDetail = "Present"
	}

	slices := NormalizeSlices([]CategoryScore{
		{
			ID:     "fitness",
			Label:  "Fitness Energy",
			Score:  fitness.Progress,
			Detail: movesText,
			Color:  colorFitness,
		},
		{
			ID:     "calories",
			Label:  "Calorie Balance",
			Score:  calories.Progress,
			Detail: fmt.Sprintf("%d kcal left", int(math.Max(0, math.Round(calories.Remaining)))),
			Color:  colorCalories,
		},
		{
			ID:     "expenses",
			Label:  "Spend Bliss",
			Score:  expenses.Progress,
			Detail: expenseDetail,
			Color:  colorExpenses,
		},
		{
			ID:     "attendance",
			Label:  "Office Glow",
			Score:  attendance.Progress,
			Detail: attendanceDetail,
			Color:  colorAttendance,
		},
		{
			ID:     "todos",
			Label:  "Task Magic",
			Score:  todos.Progress,
			Detail: fmt.Sprintf("%d/%s done", todos.Completed, formatCount(todos.Target)),
			Color:  colorTodos,
		},
	})

	fitnessPrimary := movesText
	if len(fitness.CompletedNames) > 0 {
		fitnessPrimary = joinWithEllipsis(fitness.CompletedNames, 3)
	}

	attendancePrimary := "Yet to log"
	if attendance.Today {
		attendancePrimary = "You're checked in"
	}

	spendText := fmt.Sprintf("%s / %s",
		formatRupees(decimal.NewFromFloat(math.Max(expenses.TotalSpent, 0))),
		formatRupees(decimal.NewFromFloat(expenses.DailyBudget)))

	modules := []Module{
		{
			ID:          "fitness",
			Title:       "Fitness",
			Subtitle:    fitness.Subtitle,
			MetricLabel: fitness.MetricLabel,
			MetricValue: fitness.MetricValue,
			PrimaryText: fitnessPrimary,
		},
		{
			ID:          "calories",
			Title:       "Calories",
			Subtitle:    calories.Subtitle,
			MetricLabel: calories.MetricLabel,
			MetricValue: calories.MetricValue,
			PrimaryText: fmt.Sprintf("%d/%d kcal", int(math.Round(calories.TotalCalories)), int(math.Round(calories.Goal))),
		},
		{
			ID:          "expenses",
			Title:       "Expenses",
			Subtitle:    expenses.Subtitle,
			MetricLabel: expenses.MetricLabel,
			MetricValue: expenses.MetricValue,
			PrimaryText: fmt.Sprintf("%s / %s", formatRupees(decimal.NewFromFloat(expenses.TotalSpent)), formatRupees(decimal.NewFromFloat(expenses.DailyBudget))),
		},
		{
			ID:          "attendance",
			Title:       "Attendance",
			Subtitle:    attendance.Subtitle,
			MetricLabel: attendance.MetricLabel,
			MetricValue: attendance.MetricValue,
			PrimaryText: attendancePrimary,
		},
		{
			ID:          "todos",
			Title:       "To-Dos",
			Subtitle:    todos.Subtitle,
			MetricLabel: todos.MetricLabel,
			MetricValue: todos.MetricValue,
			PrimaryText: fmt.Sprintf("%d/%s complete", todos.Completed, formatCount(todos.Target)),
		},
	}

	headerStats := []HeaderStat{
		{Label: "Workout", Value: movesText},
		{
			Label: "Calories",
			Value: fmt.Sprintf("%d/%d kcal", int(math.Max(0, math.Round(calories.TotalCalories))), int(math.Round(calories.Goal))),
		},
		{Label: "Spend", Value: spendText},
	}

	return Dashboard{
		Today:       today,
		Modules:     modules,
		Slices:      slices,
		HeaderStats: headerStats,
		Overview: Overview{
			CompletedExercises: fitness.CompletedExercises,
			CaloriesRemaining:  calories.Remaining,
			TotalSpent:         expenses.TotalSpent,
			TodosCompleted:     todos.Completed,
			TodosTotal:         todos.Total,
		},
	}
}

func filterFitness(logs []FitnessLog, day DateKey) []FitnessLog {
	out := make([]FitnessLog, 0, len(logs))
	for _, log := range logs {
		if key, ok := recordDay(log.Date, log.Timestamp); ok && key == day {
			out = append(out, log)
		}
	}
	return out
}

func filterCalories(entries []CalorieEntry, day DateKey) []CalorieEntry {
	out := make([]CalorieEntry, 0, len(entries))
	for _, e := range entries {
		if key, ok := recordDay(e.Date, e.Timestamp); ok && key == day {
			out = append(out, e)
		}
	}
	return out
}

func filterExpenses(entries []ExpenseEntry, day DateKey) []ExpenseEntry {
	out := make([]ExpenseEntry, 0, len(entries))
	for _, e := range entries {
		if key, ok := recordDay(e.Date, e.Timestamp); ok && key == day {
			out = append(out, e)
		}
	}
	return out
}

// filterTodos keeps to-dos due today, falling back to the creation date
// for undated items.
func filterTodos(todos []TodoItem, day DateKey) []TodoItem {
	out := make([]TodoItem, 0, len(todos))
	for _, t := range todos {
		if key, ok := recordDay(t.DueDate, t.CreatedAt); ok && key == day {
			out = append(out, t)
		}
	}
	return out
}
