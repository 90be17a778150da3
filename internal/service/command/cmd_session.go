package command

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/sandevgo/loopbot/internal/core"
)

const (
	defaultHistory = 5
	maxHistory     = 20
)

type ResetCommand struct {
	sessions  core.SessionAdmin
	formatter *ResponseFormatter
}

func NewResetCommand(sessions core.SessionAdmin) *ResetCommand {
	return &ResetCommand{
		sessions:  sessions,
		formatter: NewResponseFormatter(),
	}
}

func (c *ResetCommand) Name() string {
	return "reset"
}

func (c *ResetCommand) Description() string {
	return "Forget the current conversation"
}

func (c *ResetCommand) Execute(ctx context.Context, sessionID string, args []string) (string, error) {
	if !c.sessions.Reset(sessionID) {
		return c.formatter.Combine(
			c.formatter.Info("Reset"),
			c.formatter.Label("Status", "nothing to forget"),
		), nil
	}
	return c.formatter.Success("Conversation reset. Ask me about any city or hospital."), nil
}

type HistoryCommand struct {
	transcripts core.TranscriptRepository
	formatter   *ResponseFormatter
}

func NewHistoryCommand(transcripts core.TranscriptRepository) *HistoryCommand {
	return &HistoryCommand{
		transcripts: transcripts,
		formatter:   NewResponseFormatter(),
	}
}

func (c *HistoryCommand) Name() string {
	return "history"
}

func (c *HistoryCommand) Description() string {
	return "Show the last questions of this chat"
}

func (c *HistoryCommand) Execute(ctx context.Context, sessionID string, args []string) (string, error) {
	limit := defaultHistory
	if len(args) > 0 {
		n, err := strconv.Atoi(args[0])
		if err != nil || n <= 0 {
			return c.formatter.Combine(
				c.formatter.Usage("/history [count]"),
				c.formatter.Examples([]string{"/history", "/history 10"}),
			), nil
		}
		limit = min(n, maxHistory)
	}

	turns, err := c.transcripts.GetTurns(ctx, sessionID, limit)
	if err != nil {
		return "", fmt.Errorf("failed to load history: %w", err)
	}
	if len(turns) == 0 {
		return c.formatter.Combine(
			c.formatter.Info("History"),
			c.formatter.Label("Status", "no archived turns yet"),
		), nil
	}

	items := make([]string, len(turns))
	for i, t := range turns {
		items[i] = fmt.Sprintf("%s `%s` %s", t.At.Format("15:04"), t.Intent, strings.TrimSpace(t.User))
	}
	return c.formatter.Combine(
		c.formatter.Info("History"),
		c.formatter.List(items),
	), nil
}
