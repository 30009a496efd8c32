package db

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager(t *testing.T, handler http.HandlerFunc) *Manager {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewManager(server.URL, "admin@example.com", "secret")
}

func authOK(w http.ResponseWriter) {
	json.NewEncoder(w).Encode(map[string]any{"token": "tok-1"})
}

func TestAuthenticate(t *testing.T) {
	var gotIdentity string
	manager := newTestManager(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, loginEndpoint, r.URL.Path)
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		gotIdentity = body["identity"]
		authOK(w)
	})

	require.NoError(t, manager.Authenticate())
	assert.Equal(t, "tok-1", manager.AuthToken)
	assert.Equal(t, "admin@example.com", gotIdentity)
}

func TestListRecordsRefreshesExpiredToken(t *testing.T) {
	listCalls := 0
	manager := newTestManager(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case loginEndpoint:
			authOK(w)
		case "/api/collections/todos/records":
			listCalls++
			if r.Header.Get("Authorization") != "tok-1" {
				w.WriteHeader(http.StatusUnauthorized)
				json.NewEncoder(w).Encode(map[string]any{"code": 401, "message": "expired"})
				return
			}
			json.NewEncoder(w).Encode(map[string]any{
				"items":      []map[string]any{{"id": "a"}, {"id": "b"}},
				"totalItems": 2,
			})
		default:
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
	})

	manager.AuthToken = "stale"
	items, err := manager.ListRecords("todos", nil)
	require.NoError(t, err)
	assert.Len(t, items, 2)
	assert.Equal(t, 2, listCalls)
	assert.Equal(t, "tok-1", manager.AuthToken)
}

func TestGetTargetsMissingDocument(t *testing.T) {
	manager := newTestManager(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"items": []any{}, "totalItems": 0})
	})
	manager.AuthToken = "tok-1"

	targets, err := manager.GetTargets()
	require.NoError(t, err)
	assert.Empty(t, targets)
}

func TestGetRemindersFallsBackToDefaults(t *testing.T) {
	manager := newTestManager(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"items": []any{}, "totalItems": 0})
	})
	manager.AuthToken = "tok-1"

	reminders, err := manager.GetReminders()
	require.NoError(t, err)
	assert.Equal(t, DefaultReminders, reminders)
}

func TestSaveSettingsUpserts(t *testing.T) {
	var created, patched bool
	manager := newTestManager(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet:
			if created {
				json.NewEncoder(w).Encode(map[string]any{
					"items": []map[string]any{
						{"id": "rec1", "key": "targets", "value": map[string]any{}},
					},
					"totalItems": 1,
				})
				return
			}
			json.NewEncoder(w).Encode(map[string]any{"items": []any{}, "totalItems": 0})
		case r.Method == http.MethodPost:
			created = true
			json.NewEncoder(w).Encode(map[string]any{"id": "rec1"})
		case r.Method == http.MethodPatch:
			patched = true
			w.WriteHeader(http.StatusOK)
		}
	})
	manager.AuthToken = "tok-1"

	require.NoError(t, manager.SaveTargets(map[string]any{"fitnessDailyGoal": 6}))
	assert.True(t, created)
	assert.False(t, patched)

	require.NoError(t, manager.SaveTargets(map[string]any{"fitnessDailyGoal": 7}))
	assert.True(t, patched)
}

func TestGetAttendanceAssemblesNotes(t *testing.T) {
	manager := newTestManager(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"items": []map[string]any{
				{"id": "1", "date": "2025-10-21"},
				{"id": "2", "date": "2025-10-22", "note": "WFH half day"},
				{"id": "3", "date": ""},
			},
			"totalItems": 3,
		})
	})
	manager.AuthToken = "tok-1"

	data, err := manager.GetAttendance()
	require.NoError(t, err)
	assert.Equal(t, []string{"2025-10-21", "2025-10-22"}, data.Dates)
	assert.Equal(t, map[string]string{"2025-10-22": "WFH half day"}, data.Notes)
}
