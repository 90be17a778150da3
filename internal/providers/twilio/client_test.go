package twilio

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sandevgo/loopbot/internal/config"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	ts := httptest.NewServer(h)
	t.Cleanup(ts.Close)
	return NewClient(context.Background(), &config.TwilioConfig{
		AccountSID: "AC123",
		AuthToken:  "secret",
		BaseURL:    ts.URL,
	})
}

func TestClient_FindPhoneSID(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "AC123", user)
		assert.Equal(t, "secret", pass)
		assert.Equal(t, "/2010-04-01/Accounts/AC123/IncomingPhoneNumbers.json", r.URL.Path)
		assert.Equal(t, "+12025551234", r.URL.Query().Get("PhoneNumber"))

		json.NewEncoder(w).Encode(phoneNumberList{IncomingPhoneNumbers: []PhoneNumber{
			{SID: "PN1", PhoneNumber: "+12025551234"},
		}})
	})

	sid, err := c.FindPhoneSID(context.Background(), "+12025551234")
	require.NoError(t, err)
	assert.Equal(t, "PN1", sid)
}

func TestClient_FindPhoneSID_NotFound(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"incoming_phone_numbers":[]}`))
	})

	_, err := c.FindPhoneSID(context.Background(), "+1999")
	assert.ErrorIs(t, err, ErrPhoneNotFound)
}

func TestClient_UpdateVoiceWebhook(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/2010-04-01/Accounts/AC123/IncomingPhoneNumbers/PN1.json", r.URL.Path)
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "https://example.com/twilio/voice", r.PostForm.Get("VoiceUrl"))
		assert.Equal(t, "POST", r.PostForm.Get("VoiceMethod"))

		json.NewEncoder(w).Encode(PhoneNumber{SID: "PN1", PhoneNumber: "+1202", VoiceURL: r.PostForm.Get("VoiceUrl")})
	})

	updated, err := c.UpdateVoiceWebhook(context.Background(), "PN1", "https://example.com/twilio/voice")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/twilio/voice", updated.VoiceURL)
}

func TestClient_APIError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"code":20404,"message":"The requested resource was not found","status":404}`))
	})

	_, err := c.UpdateVoiceWebhook(context.Background(), "PNx", "https://example.com/twilio/voice")
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, 20404, apiErr.Code)
	assert.Equal(t, http.StatusNotFound, apiErr.Status)
}

func TestClient_BreakerOpensOnServerErrors(t *testing.T) {
	var hits atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	})

	for i := 0; i < 3; i++ {
		_, err := c.FindPhoneSID(context.Background(), "+1")
		require.Error(t, err)
	}
	_, err := c.FindPhoneSID(context.Background(), "+1")
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.Equal(t, int32(3), hits.Load())
}

func TestWebhookURLs(t *testing.T) {
	voice, process, err := WebhookURLs("https://abc.ngrok-free.app/")
	require.NoError(t, err)
	assert.Equal(t, "https://abc.ngrok-free.app/twilio/voice", voice)
	assert.Equal(t, "https://abc.ngrok-free.app/twilio/process-speech", process)

	_, _, err = WebhookURLs("abc.ngrok-free.app")
	assert.Error(t, err)
}
