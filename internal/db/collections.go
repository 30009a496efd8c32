package db

import (
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/charmbracelet/log"

	"dida/internal/dashboard"
)

// Collection names in the document store.
const (
	CollectionFitness    = "fitness_logs"
	CollectionCalories   = "calorie_entries"
	CollectionExpenses   = "expense_entries"
	CollectionTodos      = "todos"
	CollectionAttendance = "attendance"
	CollectionSettings   = "settings"
	CollectionTokens     = "notification_tokens"
)

// Settings document keys.
const (
	SettingsTargets   = "targets"
	SettingsReminders = "reminders"
)

// attendanceRecord is the stored form of one attended day.
type attendanceRecord struct {
	ID   string `json:"id"`
	Date string `json:"date"`
	Note string `json:"note,omitempty"`
}

// TokenRecord is one registered push notification token.
type TokenRecord struct {
	ID       string `json:"id"`
	Token    string `json:"token"`
	Platform string `json:"platform,omitempty"`
}

// settingsRecord wraps a keyed settings document.
type settingsRecord struct {
	ID    string          `json:"id"`
	Key   string          `json:"key"`
	Value json.RawMessage `json:"value"`
}

func listQuery() url.Values {
	q := url.Values{}
	q.Set("perPage", "500")
	return q
}

func listInto[T any](m *Manager, collection string, query url.Values) ([]T, error) {
	items, err := m.ListRecords(collection, query)
	if err != nil {
		return nil, err
	}
	out := make([]T, 0, len(items))
	for _, raw := range items {
		var v T
		if err := json.Unmarshal(raw, &v); err != nil {
			log.Warn("Skipping malformed record", "collection", collection, "error", err)
			continue
		}
		out = append(out, v)
	}
	return out, nil
}

// GetFitnessLogs loads all fitness logs, newest first.
func (m *Manager) GetFitnessLogs() ([]dashboard.FitnessLog, error) {
	q := listQuery()
	q.Set("sort", "-timestamp")
	return listInto[dashboard.FitnessLog](m, CollectionFitness, q)
}

// GetCalorieEntries loads all calorie entries, newest first.
func (m *Manager) GetCalorieEntries() ([]dashboard.CalorieEntry, error) {
	q := listQuery()
	q.Set("sort", "-timestamp")
	return listInto[dashboard.CalorieEntry](m, CollectionCalories, q)
}

// GetExpenseEntries loads all expense entries, newest first.
func (m *Manager) GetExpenseEntries() ([]dashboard.ExpenseEntry, error) {
	q := listQuery()
	q.Set("sort", "-timestamp")
	return listInto[dashboard.ExpenseEntry](m, CollectionExpenses, q)
}

// GetTodos loads all to-do items.
func (m *Manager) GetTodos() ([]dashboard.TodoItem, error) {
	return listInto[dashboard.TodoItem](m, CollectionTodos, listQuery())
}

// GetAttendance assembles the attendance records into the collection form
// the aggregation consumes (date set + notes).
func (m *Manager) GetAttendance() (dashboard.AttendanceData, error) {
	records, err := listInto[attendanceRecord](m, CollectionAttendance, listQuery())
	if err != nil {
		return dashboard.AttendanceData{}, err
	}
	data := dashboard.AttendanceData{
		Dates: make([]string, 0, len(records)),
		Notes: map[string]string{},
	}
	for _, r := range records {
		if r.Date == "" {
			continue
		}
		data.Dates = append(data.Dates, r.Date)
		if r.Note != "" {
			data.Notes[r.Date] = r.Note
		}
	}
	return data, nil
}

// LoadSnapshot fetches all five tracker collections for one aggregation
// pass. A failure in any collection fails the snapshot; the aggregation
// itself only ever sees fully-materialized data.
func (m *Manager) LoadSnapshot() (dashboard.Collections, error) {
	var snapshot dashboard.Collections
	var err error

	if snapshot.FitnessLogs, err = m.GetFitnessLogs(); err != nil {
		return snapshot, fmt.Errorf("fitness logs: %w", err)
	}
	if snapshot.CalorieData, err = m.GetCalorieEntries(); err != nil {
		return snapshot, fmt.Errorf("calorie entries: %w", err)
	}
	if snapshot.ExpenseData, err = m.GetExpenseEntries(); err != nil {
		return snapshot, fmt.Errorf("expense entries: %w", err)
	}
	if snapshot.TodoData, err = m.GetTodos(); err != nil {
		return snapshot, fmt.Errorf("todos: %w", err)
	}
	if snapshot.AttendanceData, err = m.GetAttendance(); err != nil {
		return snapshot, fmt.Errorf("attendance: %w", err)
	}
	return snapshot, nil
}

// getSettings loads a keyed settings document. A missing document is not
// an error; ok reports whether it exists.
func (m *Manager) getSettings(key string) (settingsRecord, bool, error) {
	q := url.Values{}
	q.Set("filter", fmt.Sprintf("key = '%s'", key))
	q.Set("perPage", "1")
	records, err := listInto[settingsRecord](m, CollectionSettings, q)
	if err != nil {
		return settingsRecord{}, false, err
	}
	if len(records) == 0 {
		return settingsRecord{}, false, nil
	}
	return records[0], true, nil
}

// saveSettings upserts a keyed settings document.
func (m *Manager) saveSettings(key string, value any) error {
	encoded, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal settings value: %w", err)
	}
	existing, ok, err := m.getSettings(key)
	if err != nil {
		return err
	}
	data := map[string]any{"key": key, "value": json.RawMessage(encoded)}
	if ok {
		return m.UpdateRecord(CollectionSettings, existing.ID, data)
	}
	_, err = m.CreateRecord(CollectionSettings, data)
	return err
}

// GetTargets loads the partial targets document. Missing documents yield
// an empty map; target resolution applies the defaults downstream.
func (m *Manager) GetTargets() (map[string]any, error) {
	record, ok, err := m.getSettings(SettingsTargets)
	if err != nil {
		return nil, err
	}
	if !ok {
		return map[string]any{}, nil
	}
	var targets map[string]any
	if err := json.Unmarshal(record.Value, &targets); err != nil {
		log.Warn("Malformed targets document, falling back to defaults", "error", err)
		return map[string]any{}, nil
	}
	return targets, nil
}

// SaveTargets upserts the targets settings document.
func (m *Manager) SaveTargets(targets map[string]any) error {
	return m.saveSettings(SettingsTargets, targets)
}

// GetNotificationTokens returns all registered push tokens.
func (m *Manager) GetNotificationTokens() ([]TokenRecord, error) {
	return listInto[TokenRecord](m, CollectionTokens, listQuery())
}

// DeleteNotificationToken removes a token record, used to prune tokens the
// push gateway reported as invalid.
func (m *Manager) DeleteNotificationToken(recordID string) error {
	return m.DeleteRecord(CollectionTokens, recordID)
}
