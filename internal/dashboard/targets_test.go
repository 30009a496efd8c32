package dashboard

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveTargetsFallsBackOnInvalidValues(t *testing.T) {
	resolved := ResolveTargets(map[string]any{
		"calorieDailyGoal":      -5.0,
		"fitnessDailyExercises": 0.0,
		"expenseDailyBudget":    math.NaN(),
		"todoDailyTarget":       "not a number",
	}, DefaultTargets)

	assert.Equal(t, 1900.0, resolved.CalorieDailyGoal)
	assert.Equal(t, 4.0, resolved.FitnessDailyExercises)
	assert.Equal(t, 2000.0, resolved.ExpenseDailyBudget)
	assert.Equal(t, 30000.0, resolved.ExpenseMonthlyBudget)
	assert.Equal(t, 5.0, resolved.TodoDailyTarget)
}

func TestResolveTargetsAcceptsValidOverrides(t *testing.T) {
	resolved := ResolveTargets(map[string]any{
		"calorieDailyGoal":     2200.0,
		"todoDailyTarget":      3,
		"expenseDailyBudget":   "1500",
		"expenseMonthlyBudget": 45000.0,
	}, DefaultTargets)

	assert.Equal(t, 2200.0, resolved.CalorieDailyGoal)
	assert.Equal(t, 3.0, resolved.TodoDailyTarget)
	assert.Equal(t, 1500.0, resolved.ExpenseDailyBudget)
	assert.Equal(t, 45000.0, resolved.ExpenseMonthlyBudget)
	assert.Equal(t, 4.0, resolved.FitnessDailyExercises)
}

func TestResolveTargetsIgnoresUnknownKeys(t *testing.T) {
	resolved := ResolveTargets(map[string]any{
		"waterDailyGoal": 8.0,
	}, DefaultTargets)
	assert.Equal(t, DefaultTargets, resolved)
}

func TestResolveTargetsUsesInjectedDefaults(t *testing.T) {
	alt := Targets{
		FitnessDailyExercises: 6,
		CalorieDailyGoal:      2500,
		ExpenseDailyBudget:    100,
		ExpenseMonthlyBudget:  3000,
		TodoDailyTarget:       2,
	}
	resolved := ResolveTargets(nil, alt)
	assert.Equal(t, alt, resolved)
}
