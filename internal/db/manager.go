package db

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
)

const (
	loginEndpoint = "/api/collections/_superusers/auth-with-password"
	envFile       = ".env"
)

// AuthResponse represents the authentication response from PocketBase
type AuthResponse struct {
	Token string `json:"token"`
	Admin struct {
		ID    string `json:"id"`
		Email string `json:"email"`
	} `json:"admin"`
}

// ErrorResponse represents an error response from PocketBase
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data"`
}

// Manager handles document store operations and authentication
type Manager struct {
	BaseURL   string
	AuthToken string
	Client    *http.Client
	email     string
	password  string
}

// InitManager initializes a new database manager.
// It loads credentials from the .env file and authenticates with PocketBase.
func InitManager() (*Manager, error) {
	if err := godotenv.Load(envFile); err != nil {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	pbURL := os.Getenv("PB_URL")
	pbEmail := os.Getenv("PB_EMAIL")
	pbPassword := os.Getenv("PB_PASSWORD")

	if pbURL == "" || pbEmail == "" || pbPassword == "" {
		return nil, fmt.Errorf("missing required environment variables: PB_URL, PB_EMAIL, PB_PASSWORD")
	}

	baseURL := pbURL
	if !strings.HasPrefix(baseURL, "http") {
		baseURL = "http://" + baseURL
	}
	baseURL = strings.TrimRight(baseURL, "/")

	manager := NewManager(baseURL, pbEmail, pbPassword)

	if err := manager.Authenticate(); err != nil {
		return nil, fmt.Errorf("authentication failed: %w", err)
	}

	log.Info("Database manager initialized successfully")
	return manager, nil
}

// NewManager builds a manager against an already-known endpoint. Tests and
// the bootstrap tool use it directly; the server goes through InitManager.
func NewManager(baseURL, email, password string) *Manager {
	return &Manager{
		BaseURL:  strings.TrimRight(baseURL, "/"),
		Client:   &http.Client{Timeout: 10 * time.Second},
		email:    email,
		password: password,
	}
}

// Authenticate logs in and stores the auth token.
func (m *Manager) Authenticate() error {
	token, err := m.authenticate()
	if err != nil {
		return err
	}
	m.AuthToken = token
	return nil
}

// DoRequest executes an HTTP request with auth token and automatic token
// refresh on 401/403.
func (m *Manager) DoRequest(req *http.Request) (*http.Response, error) {
	return m.doRequestWithRetry(req, true)
}

func (m *Manager) doRequestWithRetry(req *http.Request, canRetry bool) (*http.Response, error) {
	req.Header.Set("Authorization", m.AuthToken)

	resp, err := m.Client.Do(req)
	if err != nil {
		return nil, err
	}

	if (resp.StatusCode == 401 || resp.StatusCode == 403) && canRetry {
		resp.Body.Close()
		log.Info("Auth token expired, refreshing...")
		token, err := m.authenticate()
		if err != nil {
			return nil, fmt.Errorf("failed to refresh token: %w", err)
		}
		m.AuthToken = token
		log.Info("Token refreshed, retrying request")
		req.Header.Set("Authorization", m.AuthToken)
		return m.doRequestWithRetry(req, false)
	}

	return resp, nil
}

// ListRecords fetches a collection's records with optional query
// parameters (filter, sort, perPage) and returns the raw items.
func (m *Manager) ListRecords(collection string, query url.Values) ([]json.RawMessage, error) {
	baseEndpoint := fmt.Sprintf("%s/api/collections/%s/records", m.BaseURL, collection)
	u, err := url.Parse(baseEndpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to parse URL: %w", err)
	}
	if query != nil {
		u.RawQuery = query.Encode()
	}

	req, err := http.NewRequest("GET", u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := m.DoRequest(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var errResp ErrorResponse
		if err := json.Unmarshal(body, &errResp); err != nil {
			return nil, fmt.Errorf("request failed with status %d: %s", resp.StatusCode, string(body))
		}
		return nil, fmt.Errorf("request failed: %s", errResp.Message)
	}

	var result struct {
		Items      []json.RawMessage `json:"items"`
		TotalItems int               `json:"totalItems"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	return result.Items, nil
}

// CreateRecord creates a record in a collection and returns the record ID.
func (m *Manager) CreateRecord(collection string, data map[string]any) (string, error) {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return "", fmt.Errorf("failed to marshal data: %w", err)
	}

	endpoint := fmt.Sprintf("%s/api/collections/%s/records", m.BaseURL, collection)
	req, err := http.NewRequest("POST", endpoint, strings.NewReader(string(jsonData)))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.DoRequest(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("create failed with status %d: %s", resp.StatusCode, string(body))
	}

	var record struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(body, &record); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}

	return record.ID, nil
}

// UpdateRecord patches a record in a collection.
func (m *Manager) UpdateRecord(collection, recordID string, data map[string]any) error {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal data: %w", err)
	}

	endpoint := fmt.Sprintf("%s/api/collections/%s/records/%s", m.BaseURL, collection, recordID)
	req, err := http.NewRequest("PATCH", endpoint, strings.NewReader(string(jsonData)))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.DoRequest(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("update failed with status %d: %s", resp.StatusCode, string(body))
	}

	return nil
}

// DeleteRecord removes a record from a collection.
func (m *Manager) DeleteRecord(collection, recordID string) error {
	endpoint := fmt.Sprintf("%s/api/collections/%s/records/%s", m.BaseURL, collection, recordID)
	req, err := http.NewRequest("DELETE", endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := m.DoRequest(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("delete failed with status %d: %s", resp.StatusCode, string(body))
	}

	return nil
}

func (m *Manager) authenticate() (string, error) {
	data := map[string]string{
		"identity": m.email,
		"password": m.password,
	}
	jsonData, err := json.Marshal(data)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequest("POST", m.BaseURL+loginEndpoint, strings.NewReader(string(jsonData)))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.Client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	if resp.StatusCode != http.StatusOK {
		var errResp ErrorResponse
		if err := json.Unmarshal(body, &errResp); err != nil {
			return "", fmt.Errorf("authentication failed with status %d: %s", resp.StatusCode, string(body))
		}
		return "", fmt.Errorf("authentication failed: %s", errResp.Message)
	}

	var authResp AuthResponse
	if err := json.Unmarshal(body, &authResp); err != nil {
		return "", err
	}

	return authResp.Token, nil
}
