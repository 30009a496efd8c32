package dashboard

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// FitnessMetrics summarizes today's workout logs against the daily
// exercise goal.
type FitnessMetrics struct {
	CompletedExercises int      `json:"completedExercises"`
	CompletedNames     []string `json:"completedNames,omitempty"`
	Notes              []string `json:"notes,omitempty"`
	Goal               float64  `json:"goal"`
	Progress           float64  `json:"progress"`
	Subtitle           string   `json:"subtitle"`
	MetricLabel        string   `json:"metricLabel"`
	MetricValue        string   `json:"metricValue"`
}

type CalorieMetrics struct {
	TotalCalories float64 `json:"totalCalories"`
	Remaining     float64 `json:"remaining"`
	Goal          float64 `json:"goal"`
	Progress      float64 `json:"progress"`
	Subtitle      string  `json:"subtitle"`
	MetricLabel   string  `json:"metricLabel"`
	MetricValue   string  `json:"metricValue"`
}

type ExpenseMetrics struct {
	TotalSpent  float64 `json:"totalSpent"`
	Remaining   float64 `json:"remaining"`
	TopCategory string  `json:"topCategory,omitempty"`
	DailyBudget float64 `json:"dailyBudget"`
	Progress    float64 `json:"progress"`
	Subtitle    string  `json:"subtitle"`
	MetricLabel string  `json:"metricLabel"`
	MetricValue string  `json:"metricValue"`
}

type TodoMetrics struct {
	Completed   int     `json:"completed"`
	Total       int     `json:"total"`
	Target      float64 `json:"target"`
	Progress    float64 `json:"progress"`
	Subtitle    string  `json:"subtitle"`
	MetricLabel string  `json:"metricLabel"`
	MetricValue string  `json:"metricValue"`
}

type AttendanceMetrics struct {
	Today       bool    `json:"today"`
	Streak      int     `json:"streak"`
	Progress    float64 `json:"progress"`
	Subtitle    string  `json:"subtitle"`
	MetricLabel string  `json:"metricLabel"`
	MetricValue string  `json:"metricValue"`
}

// clampRatio is value/target clamped to [0,1], and 0 for a non-positive
// target so a bad denominator can never produce NaN or Inf.
func clampRatio(value, target float64) float64 {
	if target <= 0 {
		return 0
	}
	return math.Min(value/target, 1)
}

// safeNumber guards against NaN/Inf sneaking in through store payloads.
func safeNumber(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

func recordDay(date, timestamp any) (DateKey, bool) {
	if key, ok := ToDateKey(date); ok {
		return key, true
	}
	return ToDateKey(timestamp)
}

// recency resolves the instant used for "most recent" ordering, preferring
// the precise timestamp over the day field.
func recency(date, timestamp any) time.Time {
	if t, ok := ToTime(timestamp); ok {
		return t
	}
	if t, ok := ToTime(date); ok {
		return t
	}
	return time.Time{}
}

// DedupFitnessLogs collapses multiple logs sharing a calendar day down to
// the most recent one; with missing or equal timestamps the later-listed
// log wins. Logs without any resolvable day are dropped.
func DedupFitnessLogs(logs []FitnessLog) []FitnessLog {
	type kept struct {
		index int
		at    time.Time
	}
	byDay := map[DateKey]kept{}
	order := make([]DateKey, 0, len(logs))
	for i, log := range logs {
		day, ok := recordDay(log.Date, log.Timestamp)
		if !ok {
			continue
		}
		at := recency(log.Date, log.Timestamp)
		prev, seen := byDay[day]
		if !seen {
			byDay[day] = kept{index: i, at: at}
			order = append(order, day)
			continue
		}
		if !at.Before(prev.at) {
			byDay[day] = kept{index: i, at: at}
		}
	}
	out := make([]FitnessLog, 0, len(order))
	for _, day := range order {
		out = append(out, logs[byDay[day].index])
	}
	return out
}

// CalculateFitnessMetrics aggregates today's (already deduplicated)
// fitness logs.
func CalculateFitnessMetrics(todayLogs []FitnessLog, targets Targets) FitnessMetrics {
	goal := targets.FitnessDailyExercises
	completed := 0
	var notes []string
	for _, log := range todayLogs {
		for _, ex := range log.Exercises {
			if ex.Completed {
				completed++
			}
		}
		if log.Notes != "" && len(notes) < 2 {
			notes = append(notes, log.Notes)
		}
	}

	var names []string
	if recent, ok := mostRecentFitnessLog(todayLogs); ok {
		for _, ex := range recent.Exercises {
			if ex.Completed {
				names = append(names, ex.Name)
			}
		}
	}

	subtitle := "No workouts logged yet"
	switch {
	case len(names) > 0:
		subtitle = joinWithEllipsis(names, 3)
	case completed > 0:
		subtitle = fmt.Sprintf("%d %s logged", completed, plural(completed, "exercise", "exercises"))
	}

	return FitnessMetrics{
		CompletedExercises: completed,
		CompletedNames:     names,
		Notes:              notes,
		Goal:               goal,
		Progress:           clampRatio(float64(completed), goal),
		Subtitle:           subtitle,
		MetricLabel:        "Goal",
		MetricValue:        fmt.Sprintf("%d/%s", completed, formatCount(goal)),
	}
}

func mostRecentFitnessLog(logs []FitnessLog) (FitnessLog, bool) {
	if len(logs) == 0 {
		return FitnessLog{}, false
	}
	best := 0
	bestAt := recency(logs[0].Date, logs[0].Timestamp)
	for i := 1; i < len(logs); i++ {
		at := recency(logs[i].Date, logs[i].Timestamp)
		if !at.Before(bestAt) {
			best, bestAt = i, at
		}
	}
	return logs[best], true
}

// CalculateCalorieMetrics totals today's entries against the daily goal.
// Remaining stays signed when the goal is exceeded.
func CalculateCalorieMetrics(todayEntries []CalorieEntry, targets Targets) CalorieMetrics {
	goal := targets.CalorieDailyGoal
	total := 0.0
	for _, e := range todayEntries {
		total += safeNumber(e.Calories)
	}
	remaining := goal - total

	subtitle := "No meals logged yet"
	if recent, ok := mostRecentCalorieEntry(todayEntries); ok {
		subtitle = fmt.Sprintf("%s · %d kcal", recent.FoodName, int(math.Round(safeNumber(recent.Calories))))
	}

	label, value := "Remaining", fmt.Sprintf("%d kcal", int(math.Max(0, math.Round(remaining))))
	if remaining < 0 {
		label, value = "Over by", fmt.Sprintf("%d kcal", int(math.Round(-remaining)))
	}

	return CalorieMetrics{
		TotalCalories: total,
		Remaining:     remaining,
		Goal:          goal,
		Progress:      clampRatio(total, goal),
		Subtitle:      subtitle,
		MetricLabel:   label,
		MetricValue:   value,
	}
}

func mostRecentCalorieEntry(entries []CalorieEntry) (CalorieEntry, bool) {
	if len(entries) == 0 {
		return CalorieEntry{}, false
	}
	best := 0
	bestAt := recency(entries[0].Date, entries[0].Timestamp)
	for i := 1; i < len(entries); i++ {
		at := recency(entries[i].Date, entries[i].Timestamp)
		if !at.Before(bestAt) {
			best, bestAt = i, at
		}
	}
	return entries[best], true
}

// CalculateExpenseMetrics totals today's spend, finds the top category
// (ties go to the category seen first) and keeps remaining signed.
func CalculateExpenseMetrics(todayEntries []ExpenseEntry, targets Targets) ExpenseMetrics {
	budget := decimal.NewFromFloat(targets.ExpenseDailyBudget)
	total := decimal.Zero

	type catTotal struct {
		firstSeen int
		amount    decimal.Decimal
	}
	categories := map[string]*catTotal{}
	for i, e := range todayEntries {
		amount := decimal.NewFromFloat(safeNumber(e.Amount))
		total = total.Add(amount)
		cat := e.Category
		if cat == "" {
			cat = "other"
		}
		if existing, ok := categories[cat]; ok {
			existing.amount = existing.amount.Add(amount)
		} else {
			categories[cat] = &catTotal{firstSeen: i, amount: amount}
		}
	}

	topCategory := ""
	for cat, ct := range categories {
		if topCategory == "" {
			topCategory = cat
			continue
		}
		best := categories[topCategory]
		if ct.amount.GreaterThan(best.amount) ||
			(ct.amount.Equal(best.amount) && ct.firstSeen < best.firstSeen) {
			topCategory = cat
		}
	}

	remaining := budget.Sub(total)

	subtitle := "No expenses tracked yet"
	if recent, ok := mostRecentExpenseEntry(todayEntries); ok {
		subtitle = fmt.Sprintf("%s · %s", recent.Description, formatRupees(decimal.NewFromFloat(safeNumber(recent.Amount))))
		if topCategory != "" {
			subtitle += fmt.Sprintf(" · Top: %s", topCategory)
		}
	}

	label, value := "Budget left", formatRupees(remaining)
	if remaining.IsNegative() {
		label, value = "Over spend", formatRupees(remaining.Neg())
	}

	totalF, _ := total.Float64()
	remainingF, _ := remaining.Float64()

	return ExpenseMetrics{
		TotalSpent:  totalF,
		Remaining:   remainingF,
		TopCategory: topCategory,
		DailyBudget: targets.ExpenseDailyBudget,
		Progress:    clampRatio(totalF, targets.ExpenseDailyBudget),
		Subtitle:    subtitle,
		MetricLabel: label,
		MetricValue: value,
	}
}

func mostRecentExpenseEntry(entries []ExpenseEntry) (ExpenseEntry, bool) {
	if len(entries) == 0 {
		return ExpenseEntry{}, false
	}
	best := 0
	bestAt := recency(entries[0].Date, entries[0].Timestamp)
	for i := 1; i < len(entries); i++ {
		at := recency(entries[i].Date, entries[i].Timestamp)
		if !at.Before(bestAt) {
			best, bestAt = i, at
		}
	}
	return entries[best], true
}

// CalculateTodoMetrics counts completion among today's to-dos. Progress is
// measured against the daily target, not today's total.
func CalculateTodoMetrics(todayTodos []TodoItem, targets Targets) TodoMetrics {
	target := targets.TodoDailyTarget
	total := len(todayTodos)
	completed := 0
	for _, t := range todayTodos {
		if t.Completed {
			completed++
		}
	}

	subtitle := "No tasks scheduled today"
	if total > 0 {
		subtitle = fmt.Sprintf("%d of %d complete", completed, total)
	}

	return TodoMetrics{
		Completed:   completed,
		Total:       total,
		Target:      target,
		Progress:    clampRatio(float64(completed), target),
		Subtitle:    subtitle,
		MetricLabel: "Daily target",
		MetricValue: fmt.Sprintf("%d/%s", completed, formatCount(target)),
	}
}

// CalculateAttendanceMetrics checks today's presence and the consecutive
// streak ending today. A missing today resets the streak to zero no matter
// how long the prior run was.
func CalculateAttendanceMetrics(attendance AttendanceData, today DateKey) AttendanceMetrics {
	present := map[DateKey]bool{}
	for _, d := range attendance.Dates {
		if key, ok := ToDateKey(d); ok {
			present[key] = true
		}
	}

	streak := 0
	for day := today; day != "" && present[day]; day = prevDay(day) {
		streak++
	}

	attended := present[today]
	progress := 0.0
	subtitle := "Not logged yet"
	if attended {
		progress = 1
		subtitle = "Checked in"
	}

	return AttendanceMetrics{
		Today:       attended,
		Streak:      streak,
		Progress:    progress,
		Subtitle:    subtitle,
		MetricLabel: "Streak",
		MetricValue: fmt.Sprintf("%d %s", streak, plural(streak, "day", "days")),
	}
}

func plural(n int, singular, pluralForm string) string {
	if n == 1 {
		return singular
	}
	return pluralForm
}

func joinWithEllipsis(items []string, max int) string {
	if len(items) <= max {
		return strings.Join(items, ", ")
	}
	return strings.Join(items[:max], ", ") + "…"
}

// formatCount renders a target value without trailing decimals ("4", "2.5").
func formatCount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// formatRupees renders a rounded rupee amount. Indian digit grouping kicks
// in from five digits (₹2000, ₹30,000, ₹1,23,456).
func formatRupees(d decimal.Decimal) string {
	rounded := d.Round(0)
	sign := ""
	if rounded.IsNegative() {
		sign = "-"
		rounded = rounded.Neg()
	}
	digits := rounded.String()
	if len(digits) < 5 {
		return "₹" + sign + digits
	}
	grouped := digits[len(digits)-3:]
	rest := digits[:len(digits)-3]
	for len(rest) > 2 {
		grouped = rest[len(rest)-2:] + "," + grouped
		rest = rest[:len(rest)-2]
	}
	if rest != "" {
		grouped = rest + "," + grouped
	}
	return "₹" + sign + grouped
}
