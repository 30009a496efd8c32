package main

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dida/internal/dashboard"
	"dida/internal/db"
)

// jsonKeys marshals a record and returns its JSON keys, minus the
// store-assigned id.
func jsonKeys(t *testing.T, v any) []string {
	t.Helper()
	raw, err := json.Marshal(v)
	require.NoError(t, err)
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))

	keys := make([]string, 0, len(decoded))
	for k := range decoded {
		if k == "id" {
			continue
		}
		keys = append(keys, k)
	}
	return keys
}

func schemaFields(t *testing.T, name string) map[string]bool {
	t.Helper()
	for _, c := range collections() {
		if c.Name != name {
			continue
		}
		fields := make(map[string]bool, len(c.Fields))
		for _, f := range c.Fields {
			fields[f.Name] = true
		}
		return fields
	}
	t.Fatalf("no schema for collection %s", name)
	return nil
}

// Every field the loaders read back must exist in the provisioned schema,
// under the same name, or records come back with the field empty.
func TestSchemasCoverRecordFields(t *testing.T) {
	cases := []struct {
		collection string
		record     any
	}{
		{db.CollectionFitness, dashboard.FitnessLog{
			Date:      "2025-10-22",
			Timestamp: "2025-10-22 07:00:00.000Z",
			Exercises: []dashboard.Exercise{{Name: "Squats", Completed: true}},
			Notes:     "leg day",
		}},
		{db.CollectionCalories, dashboard.CalorieEntry{
			Date:      "2025-10-22",
			Timestamp: "2025-10-22 08:00:00.000Z",
			FoodName:  "Oats",
			Calories:  450,
			Portion:   "1 bowl",
			MealType:  "breakfast",
		}},
		{db.CollectionExpenses, dashboard.ExpenseEntry{
			Date:        "2025-10-22",
			Timestamp:   "2025-10-22 09:00:00.000Z",
			Description: "Lunch",
			Amount:      250,
			Category:    "food",
			Notes:       "team outing",
		}},
		{db.CollectionTodos, dashboard.TodoItem{
			Title:       "Ship report",
			Description: "quarterly numbers",
			Category:    "work",
			Priority:    "high",
			DueDate:     "2025-10-22",
			Completed:   true,
			CreatedAt:   "2025-10-21 18:00:00.000Z",
		}},
	}

	for _, tc := range cases {
		fields := schemaFields(t, tc.collection)
		for _, key := range jsonKeys(t, tc.record) {
			assert.True(t, fields[key], "collection %s missing field %s", tc.collection, key)
		}
	}
}

func TestSchemasCoverSupportCollections(t *testing.T) {
	attendance := schemaFields(t, db.CollectionAttendance)
	assert.True(t, attendance["date"])
	assert.True(t, attendance["note"])

	settings := schemaFields(t, db.CollectionSettings)
	assert.True(t, settings["key"])
	assert.True(t, settings["value"])

	tokens := schemaFields(t, db.CollectionTokens)
	assert.True(t, tokens["token"])
	assert.True(t, tokens["platform"])
}
