package notifier

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func sampleAlert() Alert {
	return Alert{
		RecipientEmail: "buyer@example.com",
		ProductName:    "Acme Phone",
		ProductURL:     "https://www.flipkart.com/acme-phone/p/itm123",
		OldPrice:       14999,
		NewPrice:       9999,
	}
}

func TestWebhookSenderPostsPayload(t *testing.T) {
	var got webhookPayload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Content-Type") != "application/json" {
			t.Errorf("content type %q", r.Header.Get("Content-Type"))
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode body: %v", err)
		}
	}))
	defer srv.Close()

	s := &WebhookSender{URL: srv.URL, HTTP: srv.Client()}
	if err := s.Notify(context.Background(), sampleAlert()); err != nil {
		t.Fatalf("Notify: %v", err)
	}
	if got.Event != "price_drop" || got.Recipient != "buyer@example.com" {
		t.Fatalf("payload %+v", got)
	}
	if got.OldPrice != 14999 || got.NewPrice != 9999 {
		t.Fatalf("prices %d -> %d", got.OldPrice, got.NewPrice)
	}
	if !strings.Contains(got.Message, "Acme Phone") {
		t.Fatalf("message missing product name: %q", got.Message)
	}
}

func TestWebhookSenderReportsHTTPFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	s := &WebhookSender{URL: srv.URL, HTTP: srv.Client()}
	if err := s.Notify(context.Background(), sampleAlert()); err == nil {
		t.Fatalf("expected error on non-2xx response")
	}
}

func TestWebhookSenderRequiresURL(t *testing.T) {
	s := &WebhookSender{}
	if err := s.Notify(context.Background(), sampleAlert()); err == nil {
		t.Fatalf("expected error when URL is empty")
	}
}

func writeTokenFile(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "token.json")
	if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
		t.Fatalf("write token file: %v", err)
	}
	return path
}

func TestGmailSenderSendsRawMIME(t *testing.T) {
	var gotAuth string
	var gotRaw string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		body, _ := io.ReadAll(r.Body)
		var req gmailSendRequest
		if err := json.Unmarshal(body, &req); err != nil {
			t.Errorf("decode body: %v", err)
		}
		gotRaw = req.Raw
		_, _ = w.Write([]byte(`{"id":"msg-1"}`))
	}))
	defer srv.Close()

	s := &GmailSender{
		Endpoint:  srv.URL,
		TokenFile: writeTokenFile(t, `{"token":"tok-abc"}`),
		From:      "alerts@example.com",
		HTTP:      srv.Client(),
	}
	if err := s.Notify(context.Background(), sampleAlert()); err != nil {
		t.Fatalf("Notify: %v", err)
	}
	if gotAuth != "Bearer tok-abc" {
		t.Fatalf("authorization %q", gotAuth)
	}

	decoded, err := base64.URLEncoding.DecodeString(gotRaw)
	if err != nil {
		t.Fatalf("raw is not url-safe base64: %v", err)
	}
	msg := string(decoded)
	for _, want := range []string{
		"To: buyer@example.com\r\n",
		"From: alerts@example.com\r\n",
		"Subject: Price Drop Alert!\r\n",
		"Acme Phone",
	} {
		if !strings.Contains(msg, want) {
			t.Fatalf("mime message missing %q:\n%s", want, msg)
		}
	}
}

func TestGmailSenderAcceptsAccessTokenField(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok-alt" {
			t.Errorf("authorization %q", r.Header.Get("Authorization"))
		}
	}))
	defer srv.Close()

	s := &GmailSender{
		Endpoint:  srv.URL,
		TokenFile: writeTokenFile(t, `{"access_token":"tok-alt"}`),
		HTTP:      srv.Client(),
	}
	if err := s.Notify(context.Background(), sampleAlert()); err != nil {
		t.Fatalf("Notify: %v", err)
	}
}

func TestGmailSenderMissingTokenFileIsSendFailure(t *testing.T) {
	s := &GmailSender{TokenFile: filepath.Join(t.TempDir(), "absent.json")}
	err := s.Notify(context.Background(), sampleAlert())
	if err == nil || !strings.Contains(err.Error(), "token") {
		t.Fatalf("expected token error, got %v", err)
	}
}

func TestGmailSenderClearsTokenOnAuthFailure(t *testing.T) {
	var hits int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	path := writeTokenFile(t, `{"token":"stale"}`)
	s := &GmailSender{Endpoint: srv.URL, TokenFile: path, HTTP: srv.Client()}
	if err := s.Notify(context.Background(), sampleAlert()); err == nil {
		t.Fatalf("expected auth failure")
	}

	// Rotated token on disk must be picked up by the next send.
	if err := os.WriteFile(path, []byte(`{"token":"fresh"}`), 0o600); err != nil {
		t.Fatalf("rotate token: %v", err)
	}
	srv2 := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer fresh" {
			t.Errorf("authorization %q", r.Header.Get("Authorization"))
		}
	}))
	defer srv2.Close()
	s.Endpoint = srv2.URL
	s.HTTP = srv2.Client()
	if err := s.Notify(context.Background(), sampleAlert()); err != nil {
		t.Fatalf("Notify after rotation: %v", err)
	}
	if hits != 1 {
		t.Fatalf("first endpoint hit %d times", hits)
	}
}

func TestLogSenderNeverFails(t *testing.T) {
	s := &LogSender{}
	if err := s.Notify(context.Background(), sampleAlert()); err != nil {
		t.Fatalf("Notify: %v", err)
	}
}

func TestAlertBodyMentionsPrices(t *testing.T) {
	body := alertBody(sampleAlert())
	for _, want := range []string{"14999", "9999", "https://www.flipkart.com/acme-phone/p/itm123"} {
		if !strings.Contains(body, want) {
			t.Fatalf("body missing %q:\n%s", want, body)
		}
	}
}
