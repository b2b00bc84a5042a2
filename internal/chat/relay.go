package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Timeouts are fixed per call type: standard turns get 30s, long-form
// input is tolerated up to 60s. Neither is configurable at runtime.
const (
	relayTimeout     = 30 * time.Second
	relayTimeoutLong = 60 * time.Second

	// longMessageThreshold is the message length (bytes) above which the
	// longer timeout applies.
	longMessageThreshold = 1000

	// fallbackReply is returned when the webhook answers successfully but
	// omits the reply field.
	fallbackReply = "I received your message but couldn't generate a response."
)

// ErrTimeout is returned when the webhook does not answer within the
// fixed deadline. There is exactly one attempt per call, never a retry.
var ErrTimeout = errors.New("webhook timeout")

// Relay packages one chat turn into a single POST against the external
// automation webhook and maps the outcome.
type Relay struct {
	url        string
	httpClient *http.Client
}

func NewRelay(url string) *Relay {
	return &Relay{url: strings.TrimRight(url, "/"), httpClient: &http.Client{}}
}

type webhookRequest struct {
	Message   string `json:"message"`
	SessionID string `json:"session_id"`
	UserID    string `json:"user_id"`
}

type webhookResponse struct {
	Success bool `json:"success"`
	Data    struct {
		Message string `json:"message"`
	} `json:"data"`
	Error string `json:"error"`
}

// Send issues one webhook request and returns the assistant's reply text.
func (c *Relay) Send(ctx context.Context, message, sessionID, userID string) (string, error) {
	timeout := relayTimeout
	if len(message) > longMessageThreshold {
		timeout = relayTimeoutLong
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	body, _ := json.Marshal(webhookRequest{Message: message, SessionID: sessionID, UserID: userID})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return "", ErrTimeout
		}
		return "", fmt.Errorf("webhook request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		upstream, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("webhook returned %d: %s", resp.StatusCode, string(upstream))
	}

	var result webhookResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("webhook decode: %w", err)
	}
	if !result.Success {
		return "", fmt.Errorf("webhook error: %s", result.Error)
	}
	if result.Data.Message == "" {
		return fallbackReply, nil
	}
	return result.Data.Message, nil
}
