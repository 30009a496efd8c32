package push

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"
)

// Client talks to the push gateway that fans notifications out to device
// tokens.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// Message is one notification payload. Data entries ride along for the
// client app to route on.
type Message struct {
	Title string            `json:"title"`
	Body  string            `json:"body"`
	Data  map[string]string `json:"data,omitempty"`
}

// Result reports the outcome of a multicast send. FailedTokens holds the
// tokens the gateway rejected (unregistered or expired) so callers can
// prune them.
type Result struct {
	SuccessCount int
	FailureCount int
	FailedTokens []string
}

// NewClient reads the gateway endpoint from the environment. A missing
// configuration is an error so the caller can run without push support.
func NewClient() (*Client, error) {
	baseURL := os.Getenv("PUSH_URL")
	apiKey := os.Getenv("PUSH_KEY")

	if baseURL == "" || apiKey == "" {
		return nil, fmt.Errorf("missing required environment variables: PUSH_URL, PUSH_KEY")
	}

	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}, nil
}

type multicastRequest struct {
	Tokens       []string          `json:"tokens"`
	Notification Message           `json:"notification"`
	Data         map[string]string `json:"data,omitempty"`
}

type multicastResponse struct {
	SuccessCount int `json:"successCount"`
	FailureCount int `json:"failureCount"`
	Responses    []struct {
		Success bool   `json:"success"`
		Error   string `json:"error,omitempty"`
	} `json:"responses"`
}

// SendMulticast delivers one message to every token in a single gateway
// call. Per-token failures are reported in the result, not as an error.
func (c *Client) SendMulticast(ctx context.Context, tokens []string, msg Message) (Result, error) {
	if len(tokens) == 0 {
		return Result{}, nil
	}

	payload, err := json.Marshal(multicastRequest{
		Tokens:       tokens,
		Notification: msg,
		Data:         msg.Data,
	})
	if err != nil {
		return Result{}, fmt.Errorf("failed to marshal multicast request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/messages/multicast", bytes.NewReader(payload))
	if err != nil {
		return Result{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Result{}, fmt.Errorf("failed to send multicast: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Result{}, fmt.Errorf("push gateway returned status %d", resp.StatusCode)
	}

	var mr multicastResponse
	if err := json.NewDecoder(resp.Body).Decode(&mr); err != nil {
		return Result{}, fmt.Errorf("failed to decode multicast response: %w", err)
	}

	result := Result{
		SuccessCount: mr.SuccessCount,
		FailureCount: mr.FailureCount,
	}
	for i, r := range mr.Responses {
		if !r.Success && i < len(tokens) {
			result.FailedTokens = append(result.FailedTokens, tokens[i])
		}
	}
	return result, nil
}
