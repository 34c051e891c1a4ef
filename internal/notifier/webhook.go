package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"
)

type WebhookSender struct {
	URL  string
	HTTP *http.Client
}

type webhookPayload struct {
	Event     string `json:"event"`
	Recipient string `json:"recipient"`
	Product   string `json:"product"`
	URL       string `json:"url"`
	OldPrice  int64  `json:"old_price"`
	NewPrice  int64  `json:"new_price"`
	Message   string `json:"message"`
}

func (s *WebhookSender) Notify(ctx context.Context, alert Alert) error {
	if s.URL == "" {
		return errors.New("webhook url not configured")
	}
	b, err := json.Marshal(webhookPayload{
		Event:     "price_drop",
		Recipient: alert.RecipientEmail,
		Product:   alert.ProductName,
		URL:       alert.ProductURL,
		OldPrice:  alert.OldPrice,
		NewPrice:  alert.NewPrice,
		Message:   alertBody(alert),
	})
	if err != nil {
		return err
	}
	client := s.HTTP
	if client == nil {
		client = &http.Client{Timeout: 5 * time.Second}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.URL, bytes.NewReader(b))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &httpError{StatusCode: resp.StatusCode}
	}
	return nil
}

type httpError struct {
	StatusCode int
}

func (e *httpError) Error() string {
	return "webhook http status " + http.StatusText(e.StatusCode)
}
