package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
)

const resendBaseURL = "https://api.resend.com"

// ResendTransport delivers mail through the Resend HTTP API.
type ResendTransport struct {
	apiKey     string
	from       string
	baseURL    string
	httpClient *http.Client
}

// NewResendTransport creates a transport using the given API key and From
// address.
func NewResendTransport(apiKey, from string) *ResendTransport {
	return &ResendTransport{
		apiKey:     apiKey,
		from:       from,
		baseURL:    resendBaseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func (r *ResendTransport) Name() string { return "resend" }

func (r *ResendTransport) Send(ctx context.Context, msg Message) error {
	reqBody := map[string]interface{}{
		"from":    r.from,
		"to":      []string{msg.To},
		"subject": msg.Subject,
		"html":    msg.BodyHTML,
		"text":    msg.BodyText,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", r.baseURL+"/emails", bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+r.apiKey)
	req.Header.Set("Content-Type", "application/json")
	// Resend dedupes retried requests on this key.
	req.Header.Set("Idempotency-Key", uuid.New().String())

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("resend returned status %d: %s", resp.StatusCode, string(body))
	}

	return nil
}
