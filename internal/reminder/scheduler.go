package reminder

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"

	"dida/internal/db"
	"dida/internal/push"
)

const defaultBody = "Time to track your progress!"

// Store is the slice of the database manager the scheduler needs.
type Store interface {
	GetReminders() ([]db.ReminderRecord, error)
	GetNotificationTokens() ([]db.TokenRecord, error)
	DeleteNotificationToken(recordID string) error
}

// Notifier delivers one message to a set of device tokens.
type Notifier interface {
	SendMulticast(ctx context.Context, tokens []string, msg push.Message) (push.Result, error)
}

// Scheduler checks the reminder list once a minute and multicasts a push
// for every reminder whose HH:MM matches the current time in the
// configured timezone.
type Scheduler struct {
	store    Store
	notifier Notifier
	loc      *time.Location
	stop     chan struct{}
}

// NewScheduler builds a scheduler. The timezone comes from REMINDER_TZ
// and falls back to the process's local zone.
func NewScheduler(store Store, notifier Notifier) *Scheduler {
	loc := time.Local
	if tz := os.Getenv("REMINDER_TZ"); tz != "" {
		parsed, err := time.LoadLocation(tz)
		if err != nil {
			log.Warn("Invalid REMINDER_TZ, using local timezone", "tz", tz, "error", err)
		} else {
			loc = parsed
		}
	}
	return &Scheduler{
		store:    store,
		notifier: notifier,
		loc:      loc,
		stop:     make(chan struct{}),
	}
}

// Start launches the per-minute check loop, aligned to minute boundaries.
func (s *Scheduler) Start() {
	go func() {
		// Sleep to the top of the next minute so HH:MM matching is exact.
		now := time.Now().In(s.loc)
		next := now.Truncate(time.Minute).Add(time.Minute)
		timer := time.NewTimer(next.Sub(now))
		defer timer.Stop()

		select {
		case <-timer.C:
		case <-s.stop:
			return
		}

		ticker := time.NewTicker(time.Minute)
		defer ticker.Stop()

		s.RunOnce(time.Now().In(s.loc))
		for {
			select {
			case t := <-ticker.C:
				s.RunOnce(t.In(s.loc))
			case <-s.stop:
				return
			}
		}
	}()
	log.Info("Reminder scheduler started", "tz", s.loc.String())
}

// Stop terminates the check loop.
func (s *Scheduler) Stop() {
	close(s.stop)
}

// Due reports whether a reminder should fire at the given instant:
// enabled, HH:MM equal, and for one-shot reminders the date must match
// the instant's calendar day.
func Due(r db.ReminderRecord, now time.Time) bool {
	if !r.Enabled {
		return false
	}
	if r.Time != now.Format("15:04") {
		return false
	}
	if r.Date != "" && r.Date != now.Format("2006-01-02") {
		return false
	}
	return true
}

// RunOnce performs a single reminder check for the given instant.
func (s *Scheduler) RunOnce(now time.Time) {
	reminders, err := s.store.GetReminders()
	if err != nil {
		log.Error("Failed to load reminders", "error", err)
		return
	}

	var due []db.ReminderRecord
	for _, r := range reminders {
		if Due(r, now) {
			due = append(due, r)
		}
	}
	if len(due) == 0 {
		return
	}

	log.Info("Reminders due", "count", len(due), "time", now.Format("15:04"))
	for _, r := range due {
		if err := s.Send(context.Background(), r); err != nil {
			log.Error("Failed to send reminder", "reminder_id", r.ID, "error", err)
		}
	}
}

// Send multicasts one reminder to every registered token and prunes the
// tokens the gateway rejected.
func (s *Scheduler) Send(ctx context.Context, r db.ReminderRecord) error {
	tokens, err := s.store.GetNotificationTokens()
	if err != nil {
		return fmt.Errorf("failed to load tokens: %w", err)
	}
	if len(tokens) == 0 {
		log.Info("No notification tokens registered, skipping reminder", "reminder_id", r.ID)
		return nil
	}

	title := r.Label
	if title == "" {
		title = "Dida Reminder"
	}

	tokenValues := make([]string, len(tokens))
	recordByToken := make(map[string]string, len(tokens))
	for i, t := range tokens {
		tokenValues[i] = t.Token
		recordByToken[t.Token] = t.ID
	}

	result, err := s.notifier.SendMulticast(ctx, tokenValues, push.Message{
		Title: title,
		Body:  defaultBody,
		Data: map[string]string{
			"type":       "scheduled_reminder",
			"reminderId": r.ID,
			"time":       r.Time,
		},
	})
	if err != nil {
		return err
	}

	log.Info("Reminder sent", "reminder_id", r.ID,
		"success", result.SuccessCount, "failures", result.FailureCount)

	for _, token := range result.FailedTokens {
		recordID, ok := recordByToken[token]
		if !ok {
			continue
		}
		if err := s.store.DeleteNotificationToken(recordID); err != nil {
			log.Warn("Failed to prune invalid token", "record_id", recordID, "error", err)
		}
	}
	return nil
}
