package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"

	"github.com/sandevgo/loopbot/internal/core"
	"github.com/sandevgo/loopbot/pkg/log"
)

const (
	defaultSessionID = "cli-local"

	ansiDim   = "\033[38;5;240m"
	ansiReset = "\033[0m"
)

type ReadLine struct {
	conv   core.Conversation
	router core.CommandRouter
	rl     *readline.Instance
	// showMeta prints the intent and match count under every answer.
	showMeta bool
}

func NewReadLine(conv core.Conversation, router core.CommandRouter, runtimePath string, showMeta bool) (*ReadLine, error) {
	// Ensure runtime directory exists
	if err := os.MkdirAll(runtimePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create runtime directory: %w", err)
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "you> ",
		HistoryFile:     filepath.Join(runtimePath, "input_history"),
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return nil, err
	}

	return &ReadLine{
		conv:     conv,
		router:   router,
		rl:       rl,
		showMeta: showMeta,
	}, nil
}

func (r *ReadLine) Start(ctx context.Context) error {
	logger := log.FromCtx(ctx)
	logger.Info().Msg("ReadLine chat started. Type 'exit' to quit.")

	for {
		// Check context before blocking read
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		line, err := r.rl.Readline()
		if err != nil {
			if err == readline.ErrInterrupt {
				if len(line) == 0 {
					return nil // Exit on Ctrl+C
				}
				continue
			} else if err == io.EOF {
				return nil
			}
			return err
		}

		line = strings.TrimSpace(line)
		if line == "exit" {
			return nil
		}
		if line == "" {
			continue
		}

		Respond(ctx, r.rl.Stdout(), r.conv, r.router, line, r.showMeta)
	}
}

func (r *ReadLine) Shutdown(ctx context.Context) error {
	if r.rl != nil {
		return r.rl.Close()
	}
	return nil
}

// Respond answers one line of input on out.
func Respond(ctx context.Context, out io.Writer, conv core.Conversation, router core.CommandRouter, line string, showMeta bool) {
	if router != nil {
		if res, ok := router.Execute(ctx, defaultSessionID, line); ok {
			fmt.Fprintf(out, "%s\n", strings.TrimSpace(res))
			return
		}
	}

	resp := conv.Converse(ctx, core.Request{Text: line, SessionID: defaultSessionID})
	fmt.Fprintf(out, "loop> %s\n", resp.Speech)

	if showMeta {
		meta := fmt.Sprintf("[%s] %d shown", orDash(string(resp.Intent)), len(resp.Hospitals))
		if resp.TotalMatches != nil {
			meta += fmt.Sprintf(" of %d", *resp.TotalMatches)
		}
		fmt.Fprintf(out, "%s%s%s\n", ansiDim, meta, ansiReset)
	}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
