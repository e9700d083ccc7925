package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/doodlesbykumbi/toggler/pkg/client"
)

// waitCmd represents the wait command
var waitCmd = &cobra.Command{
	Use:   "wait",
	Short: "Wait for the server to be ready",
	Long: `Wait for the server to be ready by polling the status endpoint.

This command checks GET /status with exponential backoff until the server
reports "ok", the retries are used up or the timeout elapses.

Example:
  togglectl wait
  togglectl wait --url http://localhost:3000 --retries 60`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		url, _ := cmd.Flags().GetString("url")
		if url == "" {
			url = cfg.APIURL
		}
		retries, _ := cmd.Flags().GetUint64("retries")
		timeout, _ := cmd.Flags().GetDuration("timeout")

		if err := waitForServer(cmd.Context(), url, retries, timeout); err != nil {
			fmt.Fprintf(os.Stderr, "Server did not become ready: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("Server is ready")
	},
}

func init() {
	rootCmd.AddCommand(waitCmd)
	waitCmd.Flags().String("url", "", "server URL to check (default: api_url from configuration)")
	waitCmd.Flags().Uint64P("retries", "r", 0, "maximum number of status checks (0: no limit)")
	waitCmd.Flags().Duration("timeout", client.DefaultWaitConfig().MaxElapsedTime, "give up after this long")
}

func waitForServer(ctx context.Context, url string, retries uint64, timeout time.Duration) error {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg := client.DefaultWaitConfig()
	cfg.MaxAttempts = retries
	cfg.MaxElapsedTime = timeout
	cfg.OnRetry = func(attempt uint64, err error, delay time.Duration) {
		fmt.Fprintf(os.Stderr, "attempt %d: %v (retrying in %v)\n", attempt, err, delay.Round(time.Millisecond))
	}

	fmt.Printf("Waiting for %s to be ready...\n", url)
	return client.New(url, client.WithTimeout(2*time.Second)).WaitReady(ctx, cfg)
}
