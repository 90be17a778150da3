package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/sandevgo/loopbot/internal/config"
	"github.com/sandevgo/loopbot/internal/service/ui"
	"github.com/sandevgo/loopbot/pkg/log"
)

var (
	debug bool
)

var rootCmd = &cobra.Command{
	Use:   "loop",
	Short: "Loop — hospital network assistant",
	Long:  `Loop answers questions about the hospitals in a network over HTTP, Twilio voice, Telegram and the terminal.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	// Global flags available to all subcommands
	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", config.IsDebug(), "enable debug logging")
}

// setupLogger loads the runtime .env first so LOOP_DEBUG and LOOP_LOG_FILE
// written by the installer take effect.
func setupLogger(ctx context.Context) (context.Context, func()) {
	loadEnvFile(config.GetRuntimePath())
	return log.NewContextWithOptions(ctx, log.Options{
		Debug: debug || config.IsDebug(),
		File:  os.Getenv("LOOP_LOG_FILE"),
	})
}

// setupStderrLogger keeps stdout free for protocols that own it.
func setupStderrLogger(ctx context.Context) (context.Context, func()) {
	loadEnvFile(config.GetRuntimePath())
	return log.NewContextWithOptions(ctx, log.Options{
		Debug: debug || config.IsDebug(),
		File:  os.Getenv("LOOP_LOG_FILE"),
		Out:   os.Stderr,
	})
}

func CustomizeHelp(rootCmd *cobra.Command) {

	cobra.AddTemplateFunc("StyleTitle", func(s string) string { return ui.TitleStyle.Render(s) })
	cobra.AddTemplateFunc("StyleUsage", func(s string) string { return ui.UsageStyle.Render(s) })
	cobra.AddTemplateFunc("StyleFlag", func(s string) string { return ui.FlagStyle.Render(s) })
	cobra.AddTemplateFunc("StyleDesc", func(s string) string { return ui.DescStyle.Render(s) })

	template := `
{{StyleTitle "USAGE"}}
  {{.UseLine}}
{{if gt (len .Commands) 0}}{{StyleTitle "AVAILABLE COMMANDS"}}
{{range .Commands}}{{if (or .IsAvailableCommand (eq .Name "help"))}}
  {{rpad .Name .NamePadding}} {{StyleDesc .Short}}{{end}}
{{end}}{{end}}
{{if .HasAvailableLocalFlags}}{{StyleTitle "FLAGS"}}
{{.LocalFlags.FlagUsages | trimTrailingWhitespaces}}
{{end}}
`
	rootCmd.SetHelpTemplate(template)
}
