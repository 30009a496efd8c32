package dida

import (
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"dida/internal/dashboard"
	"dida/internal/db"
	"dida/internal/push"
	"dida/internal/reminder"
)

// Server encapsulates all the state and handlers for the dashboard service
type Server struct {
	State     *State
	DBManager *db.Manager
	Scheduler *reminder.Scheduler
	upgrader  websocket.Upgrader
}

// NewServer creates and initializes a new server instance
func NewServer() (*Server, error) {
	server := &Server{
		State: &State{},
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}

	dbManager, err := db.InitManager()
	if err != nil {
		return nil, err
	}
	server.DBManager = dbManager

	// Push is optional; without it reminders only show up in the API.
	pushClient, err := push.NewClient()
	if err != nil {
		log.Warn("Push client not available, reminders won't be delivered", "error", err)
	} else {
		server.Scheduler = reminder.NewScheduler(dbManager, pushClient)
		server.Scheduler.Start()
	}

	return server, nil
}

// corsMiddleware adds CORS headers to all responses
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// SetupRoutes configures all HTTP routes for the server
func (s *Server) SetupRoutes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", s.HealthHandler)
	mux.HandleFunc("/connect", s.WebsocketHandler)
	mux.HandleFunc("/api/dashboard", s.DashboardHandler)
	mux.HandleFunc("/api/weekly", s.WeeklyHandler)
	mux.HandleFunc("/api/targets", s.TargetsHandler)
	mux.HandleFunc("/api/reminders", s.RemindersHandler)
	mux.HandleFunc("/api/reminders/", s.ReminderByIDHandler)

	return corsMiddleware(mux)
}

// buildDashboard assembles the current dashboard from a fresh data
// snapshot and the stored targets.
func (s *Server) buildDashboard() (dashboard.Dashboard, error) {
	snapshot, err := s.DBManager.LoadSnapshot()
	if err != nil {
		return dashboard.Dashboard{}, err
	}
	targets, err := s.DBManager.GetTargets()
	if err != nil {
		return dashboard.Dashboard{}, err
	}
	return dashboard.Build(snapshot, targets, time.Now()), nil
}

// BroadcastDashboard pushes a freshly-built dashboard to every
// connected client.
func (s *Server) BroadcastDashboard() {
	d, err := s.buildDashboard()
	if err != nil {
		log.Error("Failed to build dashboard for broadcast", "error", err)
		return
	}

	message := struct {
		Event     string              `json:"event"`
		Dashboard dashboard.Dashboard `json:"dashboard"`
	}{
		Event:     "dashboard",
		Dashboard: d,
	}
	s.State.BroadcastToClients(message)
}
