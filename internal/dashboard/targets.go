package dashboard

import (
	"encoding/json"
	"math"
	"strconv"
)

// Targets holds the per-category goal thresholds. All values are
// strictly positive once resolved.
type Targets struct {
	FitnessDailyExercises float64 `json:"fitnessDailyExercises"`
	CalorieDailyGoal      float64 `json:"calorieDailyGoal"`
	ExpenseDailyBudget    float64 `json:"expenseDailyBudget"`
	ExpenseMonthlyBudget  float64 `json:"expenseMonthlyBudget"`
	TodoDailyTarget       float64 `json:"todoDailyTarget"`
}

// DefaultTargets are the fallback goals applied whenever a user override
// is missing or invalid. Callers pass them into ResolveTargets explicitly,
// so tests can substitute alternates.
var DefaultTargets = Targets{
	FitnessDailyExercises: 4,
	CalorieDailyGoal:      1900,
	ExpenseDailyBudget:    2000,
	ExpenseMonthlyBudget:  30000,
	TodoDailyTarget:       5,
}

// ResolveTargets merges a partial settings document with defaults.
// An override wins only if it coerces to a finite number > 0; unknown
// keys are ignored.
func ResolveTargets(partial map[string]any, defaults Targets) Targets {
	resolved := defaults
	pick := func(key string, fallback float64) float64 {
		raw, ok := partial[key]
		if !ok {
			return fallback
		}
		n, ok := coerceNumber(raw)
		if !ok || n <= 0 || math.IsNaN(n) || math.IsInf(n, 0) {
			return fallback
		}
		return n
	}
	resolved.FitnessDailyExercises = pick("fitnessDailyExercises", defaults.FitnessDailyExercises)
	resolved.CalorieDailyGoal = pick("calorieDailyGoal", defaults.CalorieDailyGoal)
	resolved.ExpenseDailyBudget = pick("expenseDailyBudget", defaults.ExpenseDailyBudget)
	resolved.ExpenseMonthlyBudget = pick("expenseMonthlyBudget", defaults.ExpenseMonthlyBudget)
	resolved.TodoDailyTarget = pick("todoDailyTarget", defaults.TodoDailyTarget)
	return resolved
}

// coerceNumber accepts the numeric shapes a settings document can carry:
// JSON numbers decoded as float64 or json.Number, Go ints from in-process
// callers, and numeric strings (the settings form stores raw input).
func coerceNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(n, 64)
		return f, err == nil
	default:
		return 0, false
	}
}
