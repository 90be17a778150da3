package twilio

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sony/gobreaker"

	"github.com/sandevgo/loopbot/internal/config"
	"github.com/sandevgo/loopbot/pkg/log"
)

const (
	apiVersion     = "2010-04-01"
	requestTimeout = 30 * time.Second

	VoicePath         = "/twilio/voice"
	ProcessSpeechPath = "/twilio/process-speech"
)

var (
	ErrPhoneNotFound = errors.New("phone number not found in this account")
	ErrUnavailable   = errors.New("twilio api temporarily unavailable")
)

// APIError is the error body Twilio returns on 4xx/5xx.
type APIError struct {
	Status  int    `json:"status"`
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("twilio error %d (code %d): %s", e.Status, e.Code, e.Message)
}

type PhoneNumber struct {
	SID         string `json:"sid"`
	PhoneNumber string `json:"phone_number"`
	VoiceURL    string `json:"voice_url"`
	VoiceMethod string `json:"voice_method"`
}

type phoneNumberList struct {
	IncomingPhoneNumbers []PhoneNumber `json:"incoming_phone_numbers"`
}

// Client talks to the IncomingPhoneNumbers resource. Calls go through a
// circuit breaker so a failing API is not hammered by repeated commands.
type Client struct {
	accountSID string
	authToken  string
	baseURL    string
	http       *http.Client
	breaker    *gobreaker.CircuitBreaker
}

func NewClient(ctx context.Context, cfg *config.TwilioConfig) *Client {
	logger := log.FromCtx(ctx)
	return &Client{
		accountSID: cfg.AccountSID,
		authToken:  cfg.AuthToken,
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		http:       &http.Client{Timeout: requestTimeout},
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        "twilio",
			MaxRequests: 1,
			Interval:    time.Minute,
			Timeout:     30 * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= 3
			},
			IsSuccessful: func(err error) bool {
				// Client errors say nothing about the health of the API.
				var apiErr *APIError
				if errors.As(err, &apiErr) {
					return apiErr.Status < 500
				}
				return err == nil || errors.Is(err, ErrPhoneNotFound)
			},
			OnStateChange: func(name string, from, to gobreaker.State) {
				logger.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("circuit breaker state changed")
			},
		}),
	}
}

// FindPhoneSID resolves an E.164 number to its PN SID.
func (c *Client) FindPhoneSID(ctx context.Context, number string) (string, error) {
	q := url.Values{}
	q.Set("PhoneNumber", number)
	q.Set("PageSize", "20")

	var list phoneNumberList
	if err := c.call(ctx, http.MethodGet, c.numbersURL()+".json?"+q.Encode(), nil, &list); err != nil {
		return "", fmt.Errorf("failed to list phone numbers: %w", err)
	}
	for _, n := range list.IncomingPhoneNumbers {
		if n.PhoneNumber == number {
			return n.SID, nil
		}
	}
	return "", fmt.Errorf("%s: %w", number, ErrPhoneNotFound)
}

// UpdateVoiceWebhook points the number's incoming-call webhook at voiceURL.
func (c *Client) UpdateVoiceWebhook(ctx context.Context, phoneSID, voiceURL string) (*PhoneNumber, error) {
	form := url.Values{}
	form.Set("VoiceUrl", voiceURL)
	form.Set("VoiceMethod", http.MethodPost)

	var updated PhoneNumber
	target := fmt.Sprintf("%s/%s.json", c.numbersURL(), url.PathEscape(phoneSID))
	if err := c.call(ctx, http.MethodPost, target, form, &updated); err != nil {
		return nil, fmt.Errorf("failed to update voice webhook: %w", err)
	}
	return &updated, nil
}

func (c *Client) numbersURL() string {
	return fmt.Sprintf("%s/%s/Accounts/%s/IncomingPhoneNumbers", c.baseURL, apiVersion, url.PathEscape(c.accountSID))
}

func (c *Client) call(ctx context.Context, method, target string, form url.Values, out any) error {
	_, err := c.breaker.Execute(func() (interface{}, error) {
		return nil, c.do(ctx, method, target, form, out)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return err
}

func (c *Client) do(ctx context.Context, method, target string, form url.Values, out any) error {
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.SetBasicAuth(c.accountSID, c.authToken)
	req.Header.Set("Accept", "application/json")
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		apiErr := &APIError{Status: resp.StatusCode}
		if err := json.NewDecoder(resp.Body).Decode(apiErr); err != nil || apiErr.Message == "" {
			apiErr.Message = http.StatusText(resp.StatusCode)
		}
		apiErr.Status = resp.StatusCode
		return apiErr
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// WebhookURLs derives the voice and gather endpoints from a public base URL.
func WebhookURLs(publicURL string) (voice, process string, err error) {
	base := strings.TrimRight(strings.TrimSpace(publicURL), "/")
	if !strings.HasPrefix(base, "http://") && !strings.HasPrefix(base, "https://") {
		return "", "", fmt.Errorf("public url must start with http or https: %q", publicURL)
	}
	return base + VoicePath, base + ProcessSpeechPath, nil
}
