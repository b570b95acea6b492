// Package webhook delivers queued webhook deliveries to subscriber URLs.
package webhook

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/bizdesk/erp/internal/domain/integration"
)

// Header names sent with every delivery
const (
	HeaderEvent     = "X-Event"
	HeaderDelivery  = "X-Webhook-Delivery"
	HeaderSignature = "X-Signature"
)

// Sign returns the signature header value for body
func Sign(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return "sha256=" + hex.EncodeToString(mac.Sum(nil))
}

// HTTPSender posts delivery bodies to subscriber endpoints
type HTTPSender struct {
	client *http.Client
}

// NewHTTPSender creates a sender whose requests time out after timeout
func NewHTTPSender(timeout time.Duration) *HTTPSender {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &HTTPSender{client: &http.Client{Timeout: timeout}}
}

// Send posts the delivery and returns the response status code. Non-2xx
// responses are returned as errors together with their status code.
func (s *HTTPSender) Send(ctx context.Context, d *integration.Delivery, secret string) (int, error) {
	body := []byte(d.Body)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.URL, bytes.NewReader(body))
	if err != nil {
		return 0, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "bizdesk-webhooks/1.0")
	req.Header.Set(HeaderEvent, d.Event)
	req.Header.Set(HeaderDelivery, d.ID.String())
	if secret != "" {
		req.Header.Set(HeaderSignature, Sign(secret, body))
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return resp.StatusCode, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return resp.StatusCode, nil
}
