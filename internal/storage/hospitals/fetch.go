package hospitals

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/inbucket/html2text"

	"github.com/sandevgo/loopbot/internal/core"
	"github.com/sandevgo/loopbot/pkg/retry"
)

const (
	maxDatasetSize      = 32 << 20 // 32MB limit
	defaultFetchTimeout = 30 * time.Second
	htmlPreviewLength   = 200
)

// ErrNotCSV is returned when the dataset URL serves an HTML page.
var ErrNotCSV = errors.New("dataset url returned html instead of csv")

type Fetcher struct {
	client  *http.Client
	retrier *retry.Retrier
}

func NewFetcherWithTimeout(timeout time.Duration, retryCfg *retry.Config) *Fetcher {
	if retryCfg == nil {
		retryCfg = retry.NewDefaultConfig()
	}
	return &Fetcher{
		client: &http.Client{
			Timeout: timeout,
		},
		retrier: retry.NewRetrier(retryCfg),
	}
}

func NewFetcher() *Fetcher {
	return NewFetcherWithTimeout(defaultFetchTimeout, nil)
}

// Fetch downloads a CSV dataset and returns the raw bytes with the parsed
// records. Server errors and transport failures are retried.
func (f *Fetcher) Fetch(ctx context.Context, url string) ([]byte, []core.HospitalRecord, error) {
	var body []byte
	err := f.retrier.Do(ctx, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("User-Agent", core.LoopUserAgent)
		req.Header.Set("Accept", "text/csv, text/plain;q=0.9, */*;q=0.5")

		resp, err := f.client.Do(req)
		if err != nil {
			return fmt.Errorf("failed to fetch dataset: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests {
			return fmt.Errorf("HTTP %d: %s", resp.StatusCode, resp.Status)
		}
		if resp.StatusCode >= 400 {
			return retry.Permanent(fmt.Errorf("HTTP %d: %s", resp.StatusCode, resp.Status))
		}

		body, err = io.ReadAll(io.LimitReader(resp.Body, maxDatasetSize))
		if err != nil {
			return fmt.Errorf("failed to read body: %w", err)
		}

		if strings.Contains(resp.Header.Get("Content-Type"), "text/html") {
			return retry.Permanent(htmlError(body))
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	records, err := Parse(bytes.NewReader(body))
	if err != nil {
		return nil, nil, err
	}
	return body, records, nil
}

// htmlError renders a short plain-text preview of an HTML page, usually a
// login wall or a sharing page served instead of the export link.
func htmlError(body []byte) error {
	text, err := html2text.FromReader(bytes.NewReader(body), html2text.Options{OmitLinks: true})
	if err != nil {
		return ErrNotCSV
	}
	text = strings.Join(strings.Fields(text), " ")
	if len(text) > htmlPreviewLength {
		text = text[:htmlPreviewLength] + "..."
	}
	return fmt.Errorf("%w: %s", ErrNotCSV, text)
}
