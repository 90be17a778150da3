package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/sandevgo/loopbot/internal/config"
	"github.com/sandevgo/loopbot/internal/service/ui"
	"github.com/sandevgo/loopbot/internal/storage/sqlite"
)

var olderThan time.Duration

var pruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete archived transcripts older than a cutoff",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, flushLog := setupLogger(cmd.Context())
		defer flushLog()

		cfg, err := config.ParseAppConfig()
		if err != nil {
			return err
		}

		db, err := sqlite.NewDB(ctx, cfg.GetDatabasePath())
		if err != nil {
			return err
		}
		defer db.Close()

		removed, err := sqlite.NewTranscriptRepo(db).Prune(ctx, time.Now().Add(-olderThan))
		if err != nil {
			return err
		}

		fmt.Println(ui.UsageStyle.Render(fmt.Sprintf("Removed %d turns older than %s", removed, olderThan)))
		return nil
	},
}

func init() {
	pruneCmd.Flags().DurationVar(&olderThan, "older-than", 30*24*time.Hour, "age of the oldest turn to keep")
	rootCmd.AddCommand(pruneCmd)
}
