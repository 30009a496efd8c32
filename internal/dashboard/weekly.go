package dashboard

import (
	"fmt"
	"math"
	"time"

	"github.com/montanaflynn/stats"
	"github.com/shopspring/decimal"
)

// Weekly reference values. These are deliberately separate from the daily
// targets: the weekly view grades against its own thresholds.
const (
	weeklyFitnessGoal  = 5
	weeklyCalorieGoal  = 2200
	weeklyBudgetRupees = 7000
	officeDaysPerWeek  = 5
)

// WeeklyInsight is one category's seven-day trend line.
type WeeklyInsight struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Detail string `json:"detail"`
	Trend  string `json:"trend"`
	Color  string `json:"color"`
}

// MonthlySummary is the calendar-month expense rollup against the monthly
// budget target.
type MonthlySummary struct {
	Month      string  `json:"month"`
	TotalSpent float64 `json:"totalSpent"`
	Budget     float64 `json:"budget"`
	Remaining  float64 `json:"remaining"`
	Progress   float64 `json:"progress"`
}

// WeeklyReport is the seven-day rollup across all five categories plus an
// overall weighted score.
type WeeklyReport struct {
	Days         []DateKey       `json:"days"`
	OverallScore int             `json:"overallScore"`
	Insights     []WeeklyInsight `json:"insights"`
	MonthlySpend MonthlySummary  `json:"monthlySpend"`
}

// lastNDays returns the N calendar days ending today, oldest first.
func lastNDays(now time.Time, n int) []DateKey {
	days := make([]DateKey, 0, n)
	for i := n - 1; i >= 0; i-- {
		days = append(days, DayKey(now.AddDate(0, 0, -i)))
	}
	return days
}

// BuildWeeklyInsights derives the seven-day trend summaries. Like the
// daily build it is pure and degrades silently on malformed records.
func BuildWeeklyInsights(data Collections, partialTargets map[string]any, now time.Time) WeeklyReport {
	targets := ResolveTargets(partialTargets, DefaultTargets)
	days := lastNDays(now, 7)
	inWeek := map[DateKey]bool{}
	for _, d := range days {
		inWeek[d] = true
	}

	weeklyWorkouts := 0
	for _, log := range data.FitnessLogs {
		if key, ok := recordDay(log.Date, log.Timestamp); ok && inWeek[key] {
			weeklyWorkouts++
		}
	}
	fitnessPct := math.Min(float64(weeklyWorkouts)/weeklyFitnessGoal*100, 100)

	// Per-day calorie totals feed a mean so quiet days count as zeros.
	calorieByDay := map[DateKey]float64{}
	for _, e := range data.CalorieData {
		if key, ok := recordDay(e.Date, e.Timestamp); ok && inWeek[key] {
			calorieByDay[key] += safeNumber(e.Calories)
		}
	}
	dailyTotals := make([]float64, len(days))
	for i, d := range days {
		dailyTotals[i] = calorieByDay[d]
	}
	avgDailyCalories := 0.0
	if mean, err := stats.Mean(dailyTotals); err == nil {
		avgDailyCalories = math.Round(mean)
	}

	weeklySpent := decimal.Zero
	for _, e := range data.ExpenseData {
		if key, ok := recordDay(e.Date, e.Timestamp); ok && inWeek[key] {
			weeklySpent = weeklySpent.Add(decimal.NewFromFloat(safeNumber(e.Amount)))
		}
	}
	weeklySpentF, _ := weeklySpent.Float64()
	budgetPct := math.Min(weeklySpentF/weeklyBudgetRupees*100, 100)

	completedTodos, totalTodos := 0, len(data.TodoData)
	for _, t := range data.TodoData {
		if t.Completed {
			completedTodos++
		}
	}
	todoRate := 0.0
	if totalTodos > 0 {
		todoRate = math.Round(float64(completedTodos) / float64(totalTodos) * 100)
	}

	weeklyAttendance := 0
	for _, d := range data.AttendanceData.Dates {
		if key, ok := ToDateKey(d); ok && inWeek[key] {
			weeklyAttendance++
		}
	}
	attendancePct := float64(weeklyAttendance) / officeDaysPerWeek * 100

	overall := int(math.Round(
		fitnessPct*0.25 +
			math.Min(avgDailyCalories/weeklyCalorieGoal*100, 100)*0.2 +
			(100-budgetPct)*0.2 +
			todoRate*0.2 +
			attendancePct*0.15))

	calorieTrend := "Meeting daily goal"
	if avgDailyCalories < weeklyCalorieGoal {
		calorieTrend = "Below daily goal"
	}

	spendTrend := "Over budget"
	if weeklySpentF < weeklyBudgetRupees {
		left := decimal.NewFromFloat(weeklyBudgetRupees).Sub(weeklySpent)
		spendTrend = fmt.Sprintf("%s left", formatRupees(left))
	}

	insights := []WeeklyInsight{
		{
			ID:     "fitness",
			Title:  "Fitness Activity",
			Detail: fmt.Sprintf("%d %s logged", weeklyWorkouts, plural(weeklyWorkouts, "workout", "workouts")),
			Trend:  fmt.Sprintf("%.0f%% of weekly goal", fitnessPct),
			Color:  "#ff6b9d",
		},
		{
			ID:     "calories",
			Title:  "Calorie Balance",
			Detail: fmt.Sprintf("Avg %d cal/day", int(avgDailyCalories)),
			Trend:  calorieTrend,
			Color:  "#c084fc",
		},
		{
			ID:     "expenses",
			Title:  "Spending Tracker",
			Detail: fmt.Sprintf("%s spent", formatRupees(weeklySpent)),
			Trend:  spendTrend,
			Color:  "#fbbf24",
		},
		{
			ID:     "todos",
			Title:  "Task Completion",
			Detail: fmt.Sprintf("%d of %d tasks done", completedTodos, totalTodos),
			Trend:  fmt.Sprintf("%.0f%% completion rate", todoRate),
			Color:  "#a78bfa",
		},
		{
			ID:     "attendance",
			Title:  "Office Attendance",
			Detail: fmt.Sprintf("%d %s attended", weeklyAttendance, plural(weeklyAttendance, "day", "days")),
			Trend:  fmt.Sprintf("%.0f%% attendance", attendancePct),
			Color:  "#34d399",
		},
	}

	return WeeklyReport{
		Days:         days,
		OverallScore: overall,
		Insights:     insights,
		MonthlySpend: MonthlySpend(data.ExpenseData, targets, now),
	}
}

// MonthlySpend totals the current calendar month's expenses against the
// monthly budget target. Month membership is the "YYYY-MM" prefix of the
// record's date key.
func MonthlySpend(entries []ExpenseEntry, targets Targets, now time.Time) MonthlySummary {
	month := monthPrefix(DayKey(now))
	total := decimal.Zero
	for _, e := range entries {
		if key, ok := recordDay(e.Date, e.Timestamp); ok && monthPrefix(key) == month {
			total = total.Add(decimal.NewFromFloat(safeNumber(e.Amount)))
		}
	}
	budget := decimal.NewFromFloat(targets.ExpenseMonthlyBudget)
	remaining := budget.Sub(total)

	totalF, _ := total.Float64()
	remainingF, _ := remaining.Float64()
	return MonthlySummary{
		Month:      month,
		TotalSpent: totalF,
		Budget:     targets.ExpenseMonthlyBudget,
		Remaining:  remainingF,
		Progress:   clampRatio(totalF, targets.ExpenseMonthlyBudget),
	}
}
