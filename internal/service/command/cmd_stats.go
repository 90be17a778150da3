package command

import (
	"context"
	"fmt"
	"sort"
	"strconv"

	"github.com/sandevgo/loopbot/internal/core"
)

type StatsCommand struct {
	sessions  core.SessionAdmin
	dataset   core.DatasetInfo
	counter   core.IntentCounter
	formatter *ResponseFormatter
}

func NewStatsCommand(sessions core.SessionAdmin, dataset core.DatasetInfo, counter core.IntentCounter) *StatsCommand {
	return &StatsCommand{
		sessions:  sessions,
		dataset:   dataset,
		counter:   counter,
		formatter: NewResponseFormatter(),
	}
}

func (c *StatsCommand) Name() string {
	return "stats"
}

func (c *StatsCommand) Description() string {
	return "Show dataset and conversation statistics"
}

func (c *StatsCommand) Execute(ctx context.Context, sessionID string, args []string) (string, error) {
	sections := []string{
		c.formatter.Info("Statistics"),
		c.formatter.Label("Hospitals loaded", strconv.Itoa(c.dataset.Len())),
		c.formatter.Label("Live sessions", strconv.Itoa(c.sessions.Len())),
	}

	if c.counter == nil {
		return c.formatter.Combine(sections...), nil
	}

	counts, err := c.counter.IntentCounts(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to count intents: %w", err)
	}
	if len(counts) == 0 {
		return c.formatter.Combine(sections...), nil
	}

	intents := make([]core.Intent, 0, len(counts))
	for intent := range counts {
		intents = append(intents, intent)
	}
	sort.Slice(intents, func(i, j int) bool {
		if counts[intents[i]] != counts[intents[j]] {
			return counts[intents[i]] > counts[intents[j]]
		}
		return intents[i] < intents[j]
	})

	items := make([]string, len(intents))
	for i, intent := range intents {
		items[i] = fmt.Sprintf("`%s` %d", intent, counts[intent])
	}
	sections = append(sections, c.formatter.Section("📊", "Archived turns by intent", c.formatter.List(items)))
	return c.formatter.Combine(sections...), nil
}
