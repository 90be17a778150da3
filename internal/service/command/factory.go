package command

import (
	"github.com/sandevgo/loopbot/internal/core"
)

// NewCommands builds the chat command set. transcripts may be nil when the
// archive is disabled, which drops /history and the archive part of /stats.
func NewCommands(
	sessions core.SessionAdmin,
	dataset core.DatasetInfo,
	transcripts core.TranscriptRepository,
	counter core.IntentCounter,
) []core.Command {
	cmds := []core.Command{
		NewResetCommand(sessions),
		NewStatsCommand(sessions, dataset, counter),
	}
	if transcripts != nil {
		cmds = append(cmds, NewHistoryCommand(transcripts))
	}
	return cmds
}
