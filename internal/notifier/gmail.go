package notifier

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"
)

// GmailSender posts a raw MIME message to the Gmail REST API using a bearer
// token minted elsewhere (token acquisition and refresh are out of scope).
// A missing or rejected token is an ordinary send failure, never a crash.
type GmailSender struct {
	Endpoint  string
	TokenFile string
	From      string
	HTTP      *http.Client

	mu    sync.Mutex
	token string
}

type gmailTokenFile struct {
	Token       string `json:"token"`
	AccessToken string `json:"access_token"`
}

type gmailSendRequest struct {
	Raw string `json:"raw"`
}

func (s *GmailSender) Notify(ctx context.Context, alert Alert) error {
	token, err := s.loadToken()
	if err != nil {
		return err
	}
	endpoint := strings.TrimSpace(s.Endpoint)
	if endpoint == "" {
		endpoint = "https://gmail.googleapis.com/gmail/v1/users/me/messages/send"
	}

	raw := base64.URLEncoding.EncodeToString(mimeMessage(s.From, alert))
	body, err := json.Marshal(gmailSendRequest{Raw: raw})
	if err != nil {
		return err
	}

	client := s.HTTP
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
		if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
			// Token expired or revoked; force a re-read on the next send.
			s.mu.Lock()
			s.token = ""
			s.mu.Unlock()
		}
		return fmt.Errorf("gmail send http %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
	}
	return nil
}

func (s *GmailSender) loadToken() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.token != "" {
		return s.token, nil
	}
	path := strings.TrimSpace(s.TokenFile)
	if path == "" {
		return "", errors.New("gmail token file not configured")
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("gmail token unavailable: %w", err)
	}
	var tf gmailTokenFile
	if err := json.Unmarshal(raw, &tf); err != nil {
		return "", fmt.Errorf("gmail token unreadable: %w", err)
	}
	token := strings.TrimSpace(tf.Token)
	if token == "" {
		token = strings.TrimSpace(tf.AccessToken)
	}
	if token == "" {
		return "", errors.New("gmail token file has no token")
	}
	s.token = token
	return token, nil
}

func mimeMessage(from string, alert Alert) []byte {
	var b bytes.Buffer
	if strings.TrimSpace(from) != "" {
		fmt.Fprintf(&b, "From: %s\r\n", from)
	}
	fmt.Fprintf(&b, "To: %s\r\n", alert.RecipientEmail)
	fmt.Fprintf(&b, "Subject: %s\r\n", alertSubject())
	b.WriteString("Content-Type: text/plain; charset=\"utf-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(alertBody(alert))
	return b.Bytes()
}
