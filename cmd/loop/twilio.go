package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sandevgo/loopbot/internal/config"
	"github.com/sandevgo/loopbot/internal/providers/twilio"
	"github.com/sandevgo/loopbot/internal/service/ui"
)

var (
	publicURL   string
	phoneNumber string
	phoneSID    string
)

var twilioCmd = &cobra.Command{
	Use:   "twilio-webhook",
	Short: "Point a Twilio number's voice webhook at this server",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, flushLog := setupLogger(cmd.Context())
		defer flushLog()

		if publicURL == "" {
			publicURL = os.Getenv("LOOP_HTTP_PUBLIC_URL")
		}
		voiceURL, processURL, err := twilio.WebhookURLs(publicURL)
		if err != nil {
			return err
		}
		if phoneSID == "" && phoneNumber == "" {
			return errors.New("either --phone-number or --phone-sid is required")
		}

		client := twilio.NewClient(ctx, config.NewTwilioConfig(ctx))

		sid := phoneSID
		if sid == "" {
			if sid, err = client.FindPhoneSID(ctx, phoneNumber); err != nil {
				return err
			}
		}

		updated, err := client.UpdateVoiceWebhook(ctx, sid, voiceURL)
		if err != nil {
			return err
		}

		fmt.Println(ui.TitleStyle.Render("Twilio webhook updated"))
		fmt.Printf("  %s %s\n", ui.FlagStyle.Render("number "), updated.PhoneNumber)
		fmt.Printf("  %s %s (%s)\n", ui.FlagStyle.Render("voice  "), updated.VoiceURL, updated.VoiceMethod)
		fmt.Printf("  %s %s\n", ui.FlagStyle.Render("speech "), processURL)
		return nil
	},
}

func init() {
	twilioCmd.Flags().StringVar(&publicURL, "public-url", "", "public base URL of the HTTP server (default LOOP_HTTP_PUBLIC_URL)")
	twilioCmd.Flags().StringVar(&phoneNumber, "phone-number", "", "Twilio number in E.164 format")
	twilioCmd.Flags().StringVar(&phoneSID, "phone-sid", "", "Twilio phone number SID, skips the lookup")
	rootCmd.AddCommand(twilioCmd)
}
