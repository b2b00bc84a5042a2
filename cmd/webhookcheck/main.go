// Command webhookcheck exercises the chat webhook with a fixed battery of
// manual integration checks. It is meant to be run by hand against a
// freshly configured automation workflow:
//
//	WEBHOOK_URL=https://... go run ./cmd/webhookcheck
package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
)

type payload struct {
	Message   string `json:"message"`
	SessionID string `json:"session_id,omitempty"`
	UserID    string `json:"user_id,omitempty"`
}

type check struct {
	name string
	run  func(url string) error
}

func post(url string, body any, timeout time.Duration) (*http.Response, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}
	client := &http.Client{Timeout: timeout}
	return client.Post(url, "application/json", bytes.NewReader(data))
}

func checkAvailability(url string) error {
	resp, err := post(url, map[string]string{"test": "ping"}, 5*time.Second)
	if err != nil {
		return fmt.Errorf("webhook unreachable: %w", err)
	}
	resp.Body.Close()
	return nil
}

func checkBasicChat(url string) error {
	resp, err := post(url, payload{
		Message:   "What is Vexa?",
		SessionID: uuid.New().String(),
		UserID:    uuid.New().String(),
	}, 30*time.Second)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("expected 200, got %d", resp.StatusCode)
	}
	var out struct {
		Success bool `json:"success"`
		Data    struct {
			Message string `json:"message"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	if !out.Success {
		return errors.New("webhook reported success=false")
	}
	return nil
}

// An empty message must be rejected by the workflow's validation node.
func checkEmptyMessage(url string) error {
	resp, err := post(url, payload{
		Message:   "",
		SessionID: uuid.New().String(),
		UserID:    uuid.New().String(),
	}, 30*time.Second)
	if err != nil {
		return nil // connection-level rejection counts as rejected
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusOK {
		return errors.New("empty message was accepted, expected rejection")
	}
	return nil
}

func checkMissingFields(url string) error {
	resp, err := post(url, payload{Message: "Test message"}, 30*time.Second)
	if err != nil {
		return nil
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusOK {
		return errors.New("missing session_id/user_id accepted, expected rejection")
	}
	return nil
}

func checkLongMessage(url string) error {
	long := strings.Repeat("What is Vexa? ", 100)
	resp, err := post(url, payload{
		Message:   long,
		SessionID: uuid.New().String(),
		UserID:    uuid.New().String(),
	}, 60*time.Second)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("expected 200, got %d", resp.StatusCode)
	}
	return nil
}

func checkSessionContinuity(url string) error {
	sessionID := uuid.New().String()
	userID := uuid.New().String()
	messages := []string{
		"What is Vexa?",
		"Tell me more about its features",
		"How can I get started?",
	}
	for i, msg := range messages {
		resp, err := post(url, payload{Message: msg, SessionID: sessionID, UserID: userID}, 30*time.Second)
		if err != nil {
			return fmt.Errorf("message %d: %w", i+1, err)
		}
		status := resp.StatusCode
		resp.Body.Close()
		if status != http.StatusOK {
			return fmt.Errorf("message %d: expected 200, got %d", i+1, status)
		}
	}
	return nil
}

func main() {
	url := os.Getenv("WEBHOOK_URL")
	if url == "" {
		fmt.Fprintln(os.Stderr, "WEBHOOK_URL is not set")
		os.Exit(2)
	}

	checks := []check{
		{"webhook availability", checkAvailability},
		{"basic chat", checkBasicChat},
		{"empty message validation", checkEmptyMessage},
		{"missing fields validation", checkMissingFields},
		{"long message", checkLongMessage},
		{"session continuity", checkSessionContinuity},
	}

	fmt.Printf("webhook check suite — %s\n", url)
	passed := 0
	for _, c := range checks {
		if err := c.run(url); err != nil {
			fmt.Printf("FAIL  %-28s %v\n", c.name, err)
			continue
		}
		fmt.Printf("PASS  %s\n", c.name)
		passed++
	}

	fmt.Printf("\n%d/%d checks passed\n", passed, len(checks))
	if passed != len(checks) {
		os.Exit(1)
	}
}
