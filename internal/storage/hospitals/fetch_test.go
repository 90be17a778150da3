package hospitals

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sandevgo/loopbot/pkg/retry"
)

func fastRetry() *retry.Config {
	return &retry.Config{
		MaxRetries:    2,
		BackoffFactor: 1,
		InitialDelay:  time.Millisecond,
		MaxDelay:      5 * time.Millisecond,
	}
}

func TestFetcher_Fetch(t *testing.T) {
	const dataset = "HOSPITAL NAME,CITY,Address\nManipal Hospital,Bengaluru,Old Airport Road\n"

	tests := []struct {
		name         string
		handler      func(calls *atomic.Int32) http.HandlerFunc
		wantErr      bool
		wantErrIs    error
		wantCalls    int32
		wantRecords  int
		wantContains string
	}{
		{
			name: "csv dataset",
			handler: func(calls *atomic.Int32) http.HandlerFunc {
				return func(w http.ResponseWriter, r *http.Request) {
					calls.Add(1)
					w.Header().Set("Content-Type", "text/csv")
					fmt.Fprint(w, dataset)
				}
			},
			wantCalls:   1,
			wantRecords: 1,
		},
		{
			name: "server error is retried",
			handler: func(calls *atomic.Int32) http.HandlerFunc {
				return func(w http.ResponseWriter, r *http.Request) {
					if calls.Add(1) == 1 {
						w.WriteHeader(http.StatusServiceUnavailable)
						return
					}
					fmt.Fprint(w, dataset)
				}
			},
			wantCalls:   2,
			wantRecords: 1,
		},
		{
			name: "not found is permanent",
			handler: func(calls *atomic.Int32) http.HandlerFunc {
				return func(w http.ResponseWriter, r *http.Request) {
					calls.Add(1)
					w.WriteHeader(http.StatusNotFound)
				}
			},
			wantErr:      true,
			wantCalls:    1,
			wantContains: "HTTP 404",
		},
		{
			name: "html page is rejected",
			handler: func(calls *atomic.Int32) http.HandlerFunc {
				return func(w http.ResponseWriter, r *http.Request) {
					calls.Add(1)
					w.Header().Set("Content-Type", "text/html; charset=utf-8")
					fmt.Fprint(w, `<html><body><h1>Sign in</h1><p>to continue to Sheets</p></body></html>`)
				}
			},
			wantErr:      true,
			wantErrIs:    ErrNotCSV,
			wantCalls:    1,
			wantContains: "continue to Sheets",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls atomic.Int32
			server := httptest.NewServer(tt.handler(&calls))
			defer server.Close()

			f := NewFetcherWithTimeout(time.Second, fastRetry())
			raw, records, err := f.Fetch(context.Background(), server.URL)

			assert.Equal(t, tt.wantCalls, calls.Load())
			if tt.wantErr {
				require.Error(t, err)
				if tt.wantErrIs != nil {
					assert.ErrorIs(t, err, tt.wantErrIs)
				}
				assert.Contains(t, err.Error(), tt.wantContains)
				return
			}
			require.NoError(t, err)
			assert.Len(t, records, tt.wantRecords)
			assert.Equal(t, dataset, string(raw))
		})
	}
}
