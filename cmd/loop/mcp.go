package main

import (
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/sandevgo/loopbot/internal/transport/mcp"
	"github.com/sandevgo/loopbot/pkg/log"
	"github.com/sandevgo/loopbot/pkg/srv"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve hospital search and conversation as MCP tools over stdio",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		// stdout carries the protocol
		var flushLog func()
		ctx, flushLog = setupStderrLogger(ctx)
		defer flushLog()

		log.FromCtx(ctx).Info().Msg("starting loop mcp server")

		a := newApp(ctx)
		server := mcp.NewServer(a.hospitals, a.agent, a.sessions)
		services := append(a.services, &stopOnExit{Service: server, stop: stop})

		srv.StartServices(ctx, services)
		srv.ShutdownServices(ctx, services)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
