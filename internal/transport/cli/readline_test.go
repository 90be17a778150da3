package cli

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sandevgo/loopbot/internal/core"
)

type echoConversation struct {
	last core.Request
}

func (e *echoConversation) Converse(ctx context.Context, req core.Request) core.Response {
	e.last = req
	total := 12
	return core.Response{
		SessionID:    req.SessionID,
		Speech:       "You said " + req.Text,
		Hospitals:    make([]core.HospitalRecord, 3),
		TotalMatches: &total,
		Intent:       core.IntentCityQuantityQuery,
	}
}

type helpOnly struct{}

func (helpOnly) Execute(ctx context.Context, sessionID, input string) (string, bool) {
	if input == "/help" {
		return "commands\n", true
	}
	return "", false
}

func (helpOnly) ListCommands() []core.Command { return nil }

func TestRespond(t *testing.T) {
	conv := &echoConversation{}

	var out bytes.Buffer
	Respond(context.Background(), &out, conv, helpOnly{}, "hospitals in Pune", false)
	assert.Equal(t, "loop> You said hospitals in Pune\n", out.String())
	assert.Equal(t, defaultSessionID, conv.last.SessionID)

	out.Reset()
	Respond(context.Background(), &out, conv, helpOnly{}, "next", true)
	assert.Contains(t, out.String(), "[city_quantity_query] 3 shown of 12")

	out.Reset()
	conv.last = core.Request{}
	Respond(context.Background(), &out, conv, helpOnly{}, "/help", false)
	assert.Equal(t, "commands\n", out.String())
	assert.Empty(t, conv.last.Text)
}
