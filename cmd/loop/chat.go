package main

import (
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/sandevgo/loopbot/internal/transport/cli"
	"github.com/sandevgo/loopbot/pkg/log"
	"github.com/sandevgo/loopbot/pkg/srv"
)

var showMeta bool

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Talk to Loop in the terminal",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		var flushLog func()
		ctx, flushLog = setupLogger(ctx)
		defer flushLog()

		logger := log.FromCtx(ctx)

		a := newApp(ctx)
		rl, err := cli.NewReadLine(a.agent, a.router, a.cfg.GetRuntimePath(), showMeta || debug)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to initialize terminal chat")
		}
		services := append(a.services, &stopOnExit{Service: rl, stop: stop})

		srv.StartServices(ctx, services)
		srv.ShutdownServices(ctx, services)
		return nil
	},
}

func init() {
	chatCmd.Flags().BoolVar(&showMeta, "meta", false, "print intent and session after each answer")
	rootCmd.AddCommand(chatCmd)
}
