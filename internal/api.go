package dida

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/charmbracelet/log"

	"dida/internal/dashboard"
)

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("Failed to encode response", "error", err)
	}
}

// @Summary Health check endpoint
// @Description Returns the health status of the API
// @Tags health
// @Produce plain
// @Success 200 {string} string "Healthy"
// @Router /health [get]
func (s *Server) HealthHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("Healthy"))
}

// @Summary Daily dashboard
// @Description Aggregates today's tracker data into the dashboard view
// @Tags dashboard
// @Produce json
// @Success 200 {object} dashboard.Dashboard
// @Failure 500 {string} string "Internal server error"
// @Router /api/dashboard [get]
func (s *Server) DashboardHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	d, err := s.buildDashboard()
	if err != nil {
		log.Error("Failed to build dashboard", "error", err)
		http.Error(w, "Failed to build dashboard", http.StatusInternalServerError)
		return
	}
	writeJSON(w, d)
}

// @Summary Weekly insights
// @Description Aggregates the trailing seven days into weekly insight cards
// @Tags dashboard
// @Produce json
// @Success 200 {object} dashboard.WeeklyReport
// @Failure 500 {string} string "Internal server error"
// @Router /api/weekly [get]
func (s *Server) WeeklyHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	snapshot, err := s.DBManager.LoadSnapshot()
	if err != nil {
		log.Error("Failed to load snapshot", "error", err)
		http.Error(w, "Failed to load data", http.StatusInternalServerError)
		return
	}
	targets, err := s.DBManager.GetTargets()
	if err != nil {
		log.Error("Failed to load targets", "error", err)
		http.Error(w, "Failed to load targets", http.StatusInternalServerError)
		return
	}

	writeJSON(w, dashboard.BuildWeeklyInsights(snapshot, targets, time.Now()))
}

// @Summary Get or update daily targets
// @Description GET returns the stored target overrides merged over the defaults. PUT replaces the overrides; invalid values fall back to defaults.
// @Tags targets
// @Accept json
// @Produce json
// @Success 200 {object} dashboard.Targets
// @Failure 400 {string} string "Bad request"
// @Failure 500 {string} string "Internal server error"
// @Router /api/targets [get]
// @Router /api/targets [put]
func (s *Server) TargetsHandler(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		partial, err := s.DBManager.GetTargets()
		if err != nil {
			log.Error("Failed to load targets", "error", err)
			http.Error(w, "Failed to load targets", http.StatusInternalServerError)
			return
		}
		writeJSON(w, dashboard.ResolveTargets(partial, dashboard.DefaultTargets))

	case http.MethodPut:
		var partial map[string]any
		if err := json.NewDecoder(r.Body).Decode(&partial); err != nil {
			http.Error(w, "Invalid JSON", http.StatusBadRequest)
			return
		}
		if err := s.DBManager.SaveTargets(partial); err != nil {
			log.Error("Failed to save targets", "error", err)
			http.Error(w, "Failed to save targets", http.StatusInternalServerError)
			return
		}
		go s.BroadcastDashboard()
		writeJSON(w, dashboard.ResolveTargets(partial, dashboard.DefaultTargets))

	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// @Summary WebSocket connection endpoint
// @Description Establishes a WebSocket connection for real-time dashboard updates
// @Tags websocket
// @Accept json
// @Produce json
// @Success 101 {string} string "Switching Protocols to WebSocket"
// @Failure 400 {string} string "Bad Request"
// @Router /connect [get]
func (s *Server) WebsocketHandler(w http.ResponseWriter, r *http.Request) {
	log.Info("Client connected")
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error(err)
		return
	}

	s.State.AddClient(conn)

	defer func() {
		conn.Close()
		s.State.RemoveClient(conn)
	}()

	for {
		_, p, err := conn.ReadMessage()
		if err != nil {
			log.Error(err)
			return
		}
		if string(p) == "get_dashboard" {
			go s.BroadcastDashboard()
		}
	}
}
