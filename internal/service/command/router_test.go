package command

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sandevgo/loopbot/internal/core"
)

type fakeSessions struct {
	live  int
	reset map[string]bool
}

func (f *fakeSessions) Reset(id string) bool {
	if f.reset[id] {
		delete(f.reset, id)
		return true
	}
	return false
}

func (f *fakeSessions) Len() int { return f.live }

type fakeDataset int

func (d fakeDataset) Len() int { return int(d) }

type fakeTranscripts struct {
	turns  []core.Turn
	counts map[core.Intent]int
	err    error
}

func (f *fakeTranscripts) AddTurn(ctx context.Context, sessionID string, turn core.Turn) error {
	f.turns = append(f.turns, turn)
	return nil
}

func (f *fakeTranscripts) GetTurns(ctx context.Context, sessionID string, limit int) ([]core.Turn, error) {
	if f.err != nil {
		return nil, f.err
	}
	if len(f.turns) > limit {
		return f.turns[len(f.turns)-limit:], nil
	}
	return f.turns, nil
}

func (f *fakeTranscripts) IntentCounts(ctx context.Context) (map[core.Intent]int, error) {
	return f.counts, f.err
}

func newTestRouter(sessions *fakeSessions, transcripts *fakeTranscripts) *Router {
	var repo core.TranscriptRepository
	var counter core.IntentCounter
	if transcripts != nil {
		repo, counter = transcripts, transcripts
	}
	return New(NewCommands(sessions, fakeDataset(42), repo, counter))
}

func TestRouter_NotACommand(t *testing.T) {
	r := newTestRouter(&fakeSessions{}, nil)

	out, handled := r.Execute(context.Background(), "s1", "hospitals in Pune")
	assert.False(t, handled)
	assert.Empty(t, out)
}

func TestRouter_Unknown(t *testing.T) {
	r := newTestRouter(&fakeSessions{}, nil)

	out, handled := r.Execute(context.Background(), "s1", "/model gpt")
	assert.True(t, handled)
	assert.Equal(t, "Unknown command: /model. Try /help.", out)
}

func TestRouter_Help(t *testing.T) {
	r := newTestRouter(&fakeSessions{}, &fakeTranscripts{})

	out, handled := r.Execute(context.Background(), "s1", "/help")
	require.True(t, handled)
	for _, name := range []string{"/help", "/history", "/reset", "/stats"} {
		assert.Contains(t, out, name)
	}

	names := make([]string, 0)
	for _, cmd := range r.ListCommands() {
		names = append(names, cmd.Name())
	}
	assert.Equal(t, []string{"help", "history", "reset", "stats"}, names)
}

func TestRouter_HistoryOnlyWithArchive(t *testing.T) {
	r := newTestRouter(&fakeSessions{}, nil)

	out, handled := r.Execute(context.Background(), "s1", "/history")
	assert.True(t, handled)
	assert.Contains(t, out, "Unknown command")
}

func TestRouter_BotSuffix(t *testing.T) {
	sessions := &fakeSessions{reset: map[string]bool{"telegram-1": true}}
	r := newTestRouter(sessions, nil)

	out, handled := r.Execute(context.Background(), "telegram-1", "/Reset@loop_bot")
	assert.True(t, handled)
	assert.Contains(t, out, "Conversation reset")
}

func TestResetCommand(t *testing.T) {
	sessions := &fakeSessions{reset: map[string]bool{"s1": true}}
	cmd := NewResetCommand(sessions)

	out, err := cmd.Execute(context.Background(), "s1", nil)
	require.NoError(t, err)
	assert.Contains(t, out, "Conversation reset")

	out, err = cmd.Execute(context.Background(), "s1", nil)
	require.NoError(t, err)
	assert.Contains(t, out, "nothing to forget")
}

func TestStatsCommand(t *testing.T) {
	transcripts := &fakeTranscripts{counts: map[core.Intent]int{
		core.IntentGratitude:      2,
		core.IntentFallbackSearch: 5,
		core.IntentPagination:     2,
	}}
	cmd := NewStatsCommand(&fakeSessions{live: 3}, fakeDataset(42), transcripts)

	out, err := cmd.Execute(context.Background(), "s1", nil)
	require.NoError(t, err)
	assert.Contains(t, out, "**Hospitals loaded**  ›  `42`")
	assert.Contains(t, out, "**Live sessions**  ›  `3`")

	fallback := strings.Index(out, string(core.IntentFallbackSearch))
	gratitude := strings.Index(out, string(core.IntentGratitude))
	pagination := strings.Index(out, string(core.IntentPagination))
	require.True(t, fallback >= 0 && gratitude >= 0 && pagination >= 0)
	assert.Less(t, fallback, gratitude)
	assert.Less(t, gratitude, pagination)
}

func TestStatsCommand_Error(t *testing.T) {
	r := New([]core.Command{NewStatsCommand(&fakeSessions{}, fakeDataset(1), &fakeTranscripts{err: errors.New("db closed")})})

	out, handled := r.Execute(context.Background(), "s1", "/stats")
	assert.True(t, handled)
	assert.Contains(t, out, "/stats failed")
	assert.Contains(t, out, "db closed")
}

func TestHistoryCommand(t *testing.T) {
	at := time.Date(2024, 3, 4, 15, 30, 0, 0, time.UTC)
	transcripts := &fakeTranscripts{}
	for _, q := range []string{"hi", "hospitals in Pune", "next", "thanks"} {
		transcripts.turns = append(transcripts.turns, core.Turn{User: q, Intent: core.IntentFallbackSearch, At: at})
	}
	cmd := NewHistoryCommand(transcripts)

	out, err := cmd.Execute(context.Background(), "s1", []string{"2"})
	require.NoError(t, err)
	assert.NotContains(t, out, "hospitals in Pune")
	assert.Contains(t, out, "15:30 `fallback_search` next")
	assert.Contains(t, out, "thanks")

	out, err = cmd.Execute(context.Background(), "s1", []string{"x"})
	require.NoError(t, err)
	assert.Contains(t, out, "/history [count]")
}
