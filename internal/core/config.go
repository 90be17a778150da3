package core

import "context"

type AppConfig interface {
	GetRuntimePath() string
	GetDatabasePath() string
	GetDatasetPath() string
	IsTelegramSelected() bool
	IsHTTPSelected() bool
	IsCLISelected() bool
}

// Conversation is the orchestrator as seen by transports.
type Conversation interface {
	Converse(ctx context.Context, req Request) Response
}

// SessionAdmin exposes session housekeeping to chat commands.
type SessionAdmin interface {
	Reset(sessionID string) bool
	Len() int
}

// DatasetInfo exposes dataset statistics to chat commands and health checks.
type DatasetInfo interface {
	Len() int
}
