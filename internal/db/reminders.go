package db

import (
	"encoding/json"

	"github.com/charmbracelet/log"
)

// ReminderRecord is one scheduled reminder in the reminders settings
// document. Time is "HH:MM" in the reminder timezone; an empty Date means
// the reminder fires daily, otherwise it is a one-shot for that day.
type ReminderRecord struct {
	ID      string `json:"id"`
	Time    string `json:"time"`
	Label   string `json:"label"`
	Date    string `json:"date,omitempty"`
	Enabled bool   `json:"enabled"`
}

// DefaultReminders seed a fresh account before the user customizes
// anything.
var DefaultReminders = []ReminderRecord{
	{ID: "morning", Time: "07:30", Label: "Morning Glow", Enabled: true},
	{ID: "midday", Time: "13:00", Label: "Midday Boost", Enabled: true},
	{ID: "evening", Time: "20:30", Label: "Wind-down Wrap", Enabled: true},
}

// GetReminders loads the reminder list. A missing or malformed document
// falls back to the defaults, matching the client behavior.
func (m *Manager) GetReminders() ([]ReminderRecord, error) {
	record, ok, err := m.getSettings(SettingsReminders)
	if err != nil {
		return nil, err
	}
	if !ok {
		return append([]ReminderRecord(nil), DefaultReminders...), nil
	}
	var reminders []ReminderRecord
	if err := json.Unmarshal(record.Value, &reminders); err != nil {
		log.Warn("Malformed reminders document, using defaults", "error", err)
		return append([]ReminderRecord(nil), DefaultReminders...), nil
	}
	return reminders, nil
}

// SaveReminders replaces the stored reminder list.
func (m *Manager) SaveReminders(reminders []ReminderRecord) error {
	return m.saveSettings(SettingsReminders, reminders)
}
