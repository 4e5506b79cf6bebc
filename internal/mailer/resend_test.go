package mailer

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestResendTransportSend(t *testing.T) {
	var gotAuth, gotIdem string
	var gotBody map[string]interface{}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/emails" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		gotAuth = r.Header.Get("Authorization")
		gotIdem = r.Header.Get("Idempotency-Key")
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	tr := NewResendTransport("test-key", "TaskFlow <noreply@taskflow.app>")
	tr.baseURL = srv.URL

	err := tr.Send(context.Background(), Message{
		To:       "u@example.com",
		Subject:  "TaskFlow: 2 outstanding tasks",
		BodyHTML: "<p>hi</p>",
		BodyText: "hi",
	})
	if err != nil {
		t.Fatalf("Send: %v", err)
	}

	if gotAuth != "Bearer test-key" {
		t.Errorf("Authorization = %q", gotAuth)
	}
	if gotIdem == "" {
		t.Errorf("missing Idempotency-Key")
	}
	if gotBody["subject"] != "TaskFlow: 2 outstanding tasks" {
		t.Errorf("subject = %v", gotBody["subject"])
	}
	to, _ := gotBody["to"].([]interface{})
	if len(to) != 1 || to[0] != "u@example.com" {
		t.Errorf("to = %v", gotBody["to"])
	}
}

func TestResendTransportSendErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"invalid api key"}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	tr := NewResendTransport("bad-key", "TaskFlow <noreply@taskflow.app>")
	tr.baseURL = srv.URL

	err := tr.Send(context.Background(), Message{To: "u@example.com"})
	if err == nil {
		t.Fatalf("expected error on non-200 response")
	}
	if !strings.Contains(err.Error(), "401") {
		t.Errorf("error should carry the status code: %v", err)
	}
}
