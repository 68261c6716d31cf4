package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/josiahuma/ovipoint/internal/metrics"
	"golang.org/x/time/rate"
)

// SMSSender posts messages to a txtlocal-style HTTP gateway. Sends are
// rate limited so a burst of bookings cannot flood the gateway.
type SMSSender struct {
	apiURL     string
	apiKey     string
	sender     string
	httpClient *http.Client
	limiter    *rate.Limiter
}

func NewSMSSender(apiURL, apiKey, sender string) *SMSSender {
	return &SMSSender{
		apiURL:     apiURL,
		apiKey:     apiKey,
		sender:     sender,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		limiter:    rate.NewLimiter(rate.Limit(5), 10),
	}
}

func (s *SMSSender) Send(ctx context.Context, to, message string) error {
	to = strings.ReplaceAll(strings.TrimSpace(to), " ", "")
	if to == "" {
		return nil
	}

	if err := s.limiter.Wait(ctx); err != nil {
		return err
	}

	form := url.Values{}
	form.Set("apikey", s.apiKey)
	form.Set("numbers", to)
	form.Set("sender", s.sender)
	form.Set("message", message)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.apiURL, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		metrics.IncSMSSent("error")
		return err
	}
	defer resp.Body.Close()

	var body struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		metrics.IncSMSSent("error")
		return fmt.Errorf("decode sms gateway response: %w", err)
	}
	if body.Status != "success" {
		metrics.IncSMSSent("failed")
		return fmt.Errorf("sms gateway returned status %q", body.Status)
	}

	metrics.IncSMSSent("success")
	return nil
}
