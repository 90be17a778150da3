package telegram

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	tele "gopkg.in/telebot.v3"

	"github.com/sandevgo/loopbot/internal/core"
	"github.com/sandevgo/loopbot/pkg/retry"
)

type stubConversation struct {
	got  []core.Request
	resp core.Response
}

func (s *stubConversation) Converse(ctx context.Context, req core.Request) core.Response {
	s.got = append(s.got, req)
	return s.resp
}

type stubRouter struct{}

func (stubRouter) Execute(ctx context.Context, sessionID, input string) (string, bool) {
	if input == "/reset" {
		return "reset " + sessionID, true
	}
	return "", false
}

func (stubRouter) ListCommands() []core.Command { return nil }

func TestReply(t *testing.T) {
	yes := true
	conv := &stubConversation{resp: core.Response{
		Speech:             "I found 7 hospitals in Chennai. Here are 5 of them: St_John *Care*.",
		NeedsClarification: &yes,
	}}

	out := Reply(context.Background(), stubRouter{}, conv, SessionID(99), "/reset")
	assert.Equal(t, "reset telegram-99", out)
	assert.Empty(t, conv.got)

	out = Reply(context.Background(), stubRouter{}, conv, SessionID(99), "all hospitals in chennai")
	assert.Len(t, conv.got, 1)
	assert.Equal(t, "telegram-99", conv.got[0].SessionID)
	assert.Contains(t, out, `St\_John \*Care\*`)
	assert.Contains(t, out, "yes")
}

func TestReply_NoRouter(t *testing.T) {
	conv := &stubConversation{resp: core.Response{Speech: "Hello!"}}
	out := Reply(context.Background(), nil, conv, "telegram-1", "/reset")
	assert.Equal(t, "Hello!", out)
	assert.Equal(t, "/reset", conv.got[0].Text)
}

func TestClassifySendError(t *testing.T) {
	assert.NoError(t, classifySendError(nil))

	blocked := classifySendError(tele.ErrBlockedByUser)
	assert.ErrorIs(t, blocked, tele.ErrBlockedByUser)

	calls := 0
	r := retry.NewRetrier(&retry.Config{MaxRetries: 3})
	err := r.Do(context.Background(), func() error {
		calls++
		return classifySendError(tele.ErrBlockedByUser)
	})
	assert.Error(t, err)
	assert.Equal(t, 1, calls)

	network := errors.New("connection reset")
	assert.Equal(t, network, classifySendError(network))
}

func TestSplitHTML(t *testing.T) {
	short := "hello"
	assert.Equal(t, []string{short}, splitHTML(short, 10))

	text := strings.Repeat("a", 8) + "\n" + strings.Repeat("b", 8)
	chunks := splitHTML(text, 10)
	assert.Equal(t, []string{strings.Repeat("a", 8), strings.Repeat("b", 8)}, chunks)

	long := strings.Repeat("x", 25)
	chunks = splitHTML(long, 10)
	assert.Len(t, chunks, 3)
	assert.Equal(t, long, strings.Join(chunks, ""))
}
