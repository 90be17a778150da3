package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sandevgo/loopbot/internal/config"
	"github.com/sandevgo/loopbot/internal/service/ui"
	"github.com/sandevgo/loopbot/internal/storage/hospitals"
)

var importCmd = &cobra.Command{
	Use:   "import <csv file|url>",
	Short: "Validate a hospital CSV and make it the local dataset",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, flushLog := setupLogger(cmd.Context())
		defer flushLog()

		cfg, err := config.ParseAppConfig()
		if err != nil {
			return err
		}

		source := args[0]
		var data []byte
		var records int
		if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
			body, parsed, err := hospitals.NewFetcher().Fetch(ctx, source)
			if err != nil {
				return err
			}
			data, records = body, len(parsed)
		} else {
			parsed, err := hospitals.LoadFile(source)
			if err != nil {
				return err
			}
			if data, err = os.ReadFile(source); err != nil {
				return err
			}
			records = len(parsed)
		}

		dst := cfg.GetDatasetPath()
		if err := hospitals.WriteFile(dst, data); err != nil {
			return err
		}

		fmt.Println(ui.TitleStyle.Render(fmt.Sprintf("Imported %d hospitals", records)))
		fmt.Println(ui.DescStyle.Render(dst))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(importCmd)
}
