package dida

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dida/internal/db"
)

// fakeStoreManager fronts a stub document store: every list is empty and
// every write succeeds.
func fakeStoreManager(t *testing.T) *db.Manager {
	t.Helper()
	store := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			json.NewEncoder(w).Encode(map[string]any{"items": []any{}, "totalItems": 0})
		case http.MethodPost:
			json.NewEncoder(w).Encode(map[string]any{"id": "rec1"})
		default:
			w.WriteHeader(http.StatusOK)
		}
	}))
	t.Cleanup(store.Close)

	manager := db.NewManager(store.URL, "admin@example.com", "secret")
	manager.AuthToken = "tok-1"
	return manager
}

func newTestAPI(t *testing.T) (*Server, *httptest.Server) {
	t.Helper()
	s := &Server{State: &State{}, DBManager: fakeStoreManager(t)}
	api := httptest.NewServer(s.SetupRoutes())
	t.Cleanup(api.Close)
	return s, api
}

func dialWebsocket(t *testing.T, s *Server, api *httptest.Server) *websocket.Conn {
	t.Helper()
	wsURL := "ws" + strings.TrimPrefix(api.URL, "http") + "/connect"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	// The handler registers the client after the handshake returns.
	require.Eventually(t, func() bool {
		return s.State.ClientCount() == 1
	}, time.Second, 10*time.Millisecond)
	return conn
}

func readDashboardEvent(t *testing.T, conn *websocket.Conn) json.RawMessage {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, msg, err := conn.ReadMessage()
	require.NoError(t, err)

	var event struct {
		Event     string          `json:"event"`
		Dashboard json.RawMessage `json:"dashboard"`
	}
	require.NoError(t, json.Unmarshal(msg, &event))
	assert.Equal(t, "dashboard", event.Event)
	return event.Dashboard
}

func TestReminderCreateBroadcastsDashboard(t *testing.T) {
	s, api := newTestAPI(t)
	conn := dialWebsocket(t, s, api)

	resp, err := http.Post(api.URL+"/api/reminders", "application/json",
		strings.NewReader(`{"time":"08:15","label":"Stretch","enabled":true}`))
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	assert.NotEmpty(t, readDashboardEvent(t, conn))
}

func TestReminderDeleteBroadcastsDashboard(t *testing.T) {
	s, api := newTestAPI(t)
	conn := dialWebsocket(t, s, api)

	// "morning" exists in the seeded defaults the empty store falls back to.
	req, err := http.NewRequest(http.MethodDelete, api.URL+"/api/reminders/morning", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	assert.NotEmpty(t, readDashboardEvent(t, conn))
}

func TestTargetsUpdateBroadcastsDashboard(t *testing.T) {
	s, api := newTestAPI(t)
	conn := dialWebsocket(t, s, api)

	req, err := http.NewRequest(http.MethodPut, api.URL+"/api/targets",
		strings.NewReader(`{"fitnessDailyGoal":6}`))
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	assert.NotEmpty(t, readDashboardEvent(t, conn))
}
