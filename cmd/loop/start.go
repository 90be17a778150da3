package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/sandevgo/loopbot/pkg/log"
	"github.com/sandevgo/loopbot/pkg/srv"
)

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the Loop services",
	Long:  `Loads the hospital list and starts the configured transports (HTTP + Twilio voice, Telegram, terminal) with session eviction in the background.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		// logger setup
		var flushLog func()
		ctx, flushLog = setupLogger(ctx)
		defer flushLog()

		logger := log.FromCtx(ctx)
		logger.Info().Msg("starting loop")

		a := newApp(ctx)
		transports, err := initTransports(ctx, a, stop)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to initialize transports")
		}
		if len(transports) == 0 {
			logger.Warn().Msg("no transport enabled, set LOOP_ENABLE_HTTP, LOOP_ENABLE_TELEGRAM or LOOP_ENABLE_CLI")
		}
		services := append(a.services, transports...)

		// Start services
		srv.StartServices(ctx, services)

		// Wait for shutdown signal
		srv.ShutdownServices(ctx, services)
		logger.Info().Msg("loop has been shut down gracefully")

		return nil
	},
}

func init() {
	rootCmd.AddCommand(startCmd)
}
