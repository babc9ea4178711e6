package main

import (
	"fmt"

	"github.com/sandevgo/aimee/internal/config"
	"github.com/sandevgo/aimee/internal/providers/sms"
	"github.com/spf13/cobra"
)

var (
	sendTo   string
	sendBody string
)

var sendCmd = &cobra.Command{
	Use:   "send",
	Short: "Send a one-off SMS",
	Long:  `Sends a single outbound message through Twilio. Useful for checking the setup.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, flushLog := setupLogger(cmd.Context())
		defer flushLog()

		twilioCfg := config.NewTwilioConfig(ctx)
		if missing := twilioCfg.Missing(); len(missing) > 0 {
			return fmt.Errorf("missing twilio configuration: %v", missing)
		}

		sender := sms.NewTwilio(twilioCfg)
		if err := sender.Send(ctx, sendTo, sendBody); err != nil {
			return err
		}

		fmt.Printf("sent to %s\n", sendTo)
		return nil
	},
}

func init() {
	sendCmd.Flags().StringVar(&sendTo, "to", "", "recipient phone number (E.164)")
	sendCmd.Flags().StringVar(&sendBody, "body", "", "message text")
	_ = sendCmd.MarkFlagRequired("to")
	_ = sendCmd.MarkFlagRequired("body")
	rootCmd.AddCommand(sendCmd)
}
