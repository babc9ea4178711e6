package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sandevgo/aimee/internal/config"
	"github.com/spf13/cobra"
)

var modeCmd = &cobra.Command{
	Use:   "mode [testing|production]",
	Short: "Show or switch the AI operating mode",
	Long:  `Talks to the admin endpoint of a running instance. Without an argument, prints the current mode.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, flushLog := setupLogger(cmd.Context())
		defer flushLog()

		appCfg := config.NewAppConfig(ctx)
		endpoint := fmt.Sprintf("http://localhost:%d/admin/mode", appCfg.Port)
		client := &http.Client{Timeout: 5 * time.Second}

		var resp *http.Response
		var err error
		if len(args) == 0 {
			resp, err = client.Get(endpoint)
		} else {
			payload, _ := json.Marshal(map[string]string{"mode": args[0]})
			resp, err = client.Post(endpoint, "application/json", bytes.NewReader(payload))
		}
		if err != nil {
			return fmt.Errorf("is aimee running? %w", err)
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return err
		}
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("mode request failed: %s", string(body))
		}

		fmt.Println(string(bytes.TrimSpace(body)))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(modeCmd)
}
