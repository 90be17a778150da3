package core

import "context"

// CommandRouter handles slash commands typed into chat transports before
// the text reaches the conversation.
type CommandRouter interface {
	Execute(ctx context.Context, sessionID, input string) (string, bool)
	ListCommands() []Command
}

type Command interface {
	Name() string
	Description() string
	Execute(ctx context.Context, sessionID string, args []string) (string, error)
}

// IntentCounter reports archived turns per intent.
type IntentCounter interface {
	IntentCounts(ctx context.Context) (map[Intent]int, error)
}
