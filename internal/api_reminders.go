package dida

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"dida/internal/db"
)

// RemindersHandler handles GET /api/reminders and POST /api/reminders
func (s *Server) RemindersHandler(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		reminders, err := s.DBManager.GetReminders()
		if err != nil {
			log.Error("Failed to load reminders", "error", err)
			http.Error(w, "Failed to load reminders", http.StatusInternalServerError)
			return
		}
		writeJSON(w, reminders)

	case http.MethodPost:
		var reminder db.ReminderRecord
		if err := json.NewDecoder(r.Body).Decode(&reminder); err != nil {
			http.Error(w, "Invalid JSON", http.StatusBadRequest)
			return
		}
		if !validReminderTime(reminder.Time) {
			http.Error(w, "Time must be HH:MM", http.StatusBadRequest)
			return
		}
		if reminder.ID == "" {
			reminder.ID = uuid.NewString()
		}

		reminders, err := s.DBManager.GetReminders()
		if err != nil {
			log.Error("Failed to load reminders", "error", err)
			http.Error(w, "Failed to load reminders", http.StatusInternalServerError)
			return
		}
		reminders = append(reminders, reminder)
		if err := s.DBManager.SaveReminders(reminders); err != nil {
			log.Error("Failed to save reminders", "error", err)
			http.Error(w, "Failed to save reminders", http.StatusInternalServerError)
			return
		}
		go s.BroadcastDashboard()
		writeJSON(w, reminder)

	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// ReminderByIDHandler handles PUT/DELETE /api/reminders/{id} and
// POST /api/reminders/{id}/trigger
func (s *Server) ReminderByIDHandler(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/reminders/")
	parts := strings.SplitN(path, "/", 2)

	if len(parts) == 0 || parts[0] == "" {
		http.Error(w, "Reminder ID required", http.StatusBadRequest)
		return
	}

	reminderID := parts[0]
	action := ""
	if len(parts) == 2 {
		action = parts[1]
	}

	switch {
	case action == "trigger" && r.Method == http.MethodPost:
		s.triggerReminder(w, reminderID)
	case action == "" && r.Method == http.MethodPut:
		s.updateReminder(w, r, reminderID)
	case action == "" && r.Method == http.MethodDelete:
		s.deleteReminder(w, reminderID)
	default:
		http.Error(w, "Not found", http.StatusNotFound)
	}
}

func (s *Server) triggerReminder(w http.ResponseWriter, reminderID string) {
	log.Info("Manually triggering reminder", "reminder_id", reminderID)

	if s.Scheduler == nil {
		http.Error(w, "Push delivery not configured", http.StatusServiceUnavailable)
		return
	}

	reminders, err := s.DBManager.GetReminders()
	if err != nil {
		log.Error("Failed to load reminders", "error", err)
		http.Error(w, "Failed to load reminders", http.StatusInternalServerError)
		return
	}
	for _, reminder := range reminders {
		if reminder.ID != reminderID {
			continue
		}
		if err := s.Scheduler.Send(context.Background(), reminder); err != nil {
			log.Error("Reminder trigger failed", "reminder_id", reminderID, "error", err)
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, map[string]string{"status": "ok"})
		return
	}

	http.Error(w, "Reminder not found", http.StatusNotFound)
}

func (s *Server) updateReminder(w http.ResponseWriter, r *http.Request, reminderID string) {
	var updated db.ReminderRecord
	if err := json.NewDecoder(r.Body).Decode(&updated); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}
	if !validReminderTime(updated.Time) {
		http.Error(w, "Time must be HH:MM", http.StatusBadRequest)
		return
	}
	updated.ID = reminderID

	reminders, err := s.DBManager.GetReminders()
	if err != nil {
		log.Error("Failed to load reminders", "error", err)
		http.Error(w, "Failed to load reminders", http.StatusInternalServerError)
		return
	}
	for i, reminder := range reminders {
		if reminder.ID != reminderID {
			continue
		}
		reminders[i] = updated
		if err := s.DBManager.SaveReminders(reminders); err != nil {
			log.Error("Failed to save reminders", "error", err)
			http.Error(w, "Failed to save reminders", http.StatusInternalServerError)
			return
		}
		go s.BroadcastDashboard()
		writeJSON(w, updated)
		return
	}

	http.Error(w, "Reminder not found", http.StatusNotFound)
}

func (s *Server) deleteReminder(w http.ResponseWriter, reminderID string) {
	reminders, err := s.DBManager.GetReminders()
	if err != nil {
		log.Error("Failed to load reminders", "error", err)
		http.Error(w, "Failed to load reminders", http.StatusInternalServerError)
		return
	}

	kept := reminders[:0]
	found := false
	for _, reminder := range reminders {
		if reminder.ID == reminderID {
			found = true
			continue
		}
		kept = append(kept, reminder)
	}
	if !found {
		http.Error(w, "Reminder not found", http.StatusNotFound)
		return
	}

	if err := s.DBManager.SaveReminders(kept); err != nil {
		log.Error("Failed to save reminders", "error", err)
		http.Error(w, "Failed to save reminders", http.StatusInternalServerError)
		return
	}
	go s.BroadcastDashboard()
	writeJSON(w, map[string]string{"status": "ok"})
}

// validReminderTime checks the "HH:MM" shape the scheduler matches on.
func validReminderTime(t string) bool {
	if len(t) != 5 || t[2] != ':' {
		return false
	}
	hh := t[:2]
	mm := t[3:]
	for _, c := range hh + mm {
		if c < '0' || c > '9' {
			return false
		}
	}
	return hh <= "23" && mm <= "59"
}
