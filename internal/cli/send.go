package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/Keerthi1012/Agentic-HoneyPot-ScamDetection/internal/config"
	"github.com/Keerthi1012/Agentic-HoneyPot-ScamDetection/internal/domain"
	"github.com/spf13/cobra"
)

func newSendCmd() *cobra.Command {
	var (
		server string
		sender string
		token  string
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "send <session-id> [message]",
		Short: "Send a message to a running honeypot and print the result",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			sessionID := args[0]
			text := strings.Join(args[1:], " ")

			cfg, err := config.Load(paths.Config)
			if err != nil {
				cfg = config.Defaults()
			}
			if server == "" {
				server = fmt.Sprintf("http://%s:%d", cfg.Gateway.Host, cfg.Gateway.Port)
			}
			if token == "" {
				token = cfg.Gateway.IngestToken
			}

			body, err := json.Marshal(map[string]any{
				"sessionId": sessionID,
				"message": map[string]any{
					"sender":    sender,
					"text":      text,
					"timestamp": time.Now().UTC(),
				},
			})
			if err != nil {
				return fmt.Errorf("failed to encode message: %w", err)
			}

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			req, err := http.NewRequestWithContext(ctx, http.MethodPost,
				strings.TrimRight(server, "/")+"/api/v1/ingest", bytes.NewReader(body))
			if err != nil {
				return err
			}
			req.Header.Set("Content-Type", "application/json")
			if token != "" {
				req.Header.Set("Authorization", "Bearer "+token)
			}

			client := &http.Client{Timeout: 60 * time.Second}
			resp, err := client.Do(req)
			if err != nil {
				return fmt.Errorf("failed to reach honeypot at %s: %w", server, err)
			}
			defer resp.Body.Close()

			if asJSON {
				_, err = io.Copy(os.Stdout, resp.Body)
				fmt.Println()
				return err
			}

			if resp.StatusCode != http.StatusOK {
				data, _ := io.ReadAll(resp.Body)
				return fmt.Errorf("honeypot returned %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
			}

			var result domain.EngagementResult
			if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
				return fmt.Errorf("failed to decode response: %w", err)
			}

			fmt.Printf("Session:    %s (%d messages)\n", result.SessionID, result.TotalMessages)
			fmt.Printf("Decision:   %s (confidence %.2f)\n", result.Decision, result.Confidence)
			if len(result.Signals) > 0 {
				fmt.Printf("Signals:    %s\n", strings.Join(result.Signals, ", "))
			}
			fmt.Printf("Status:     %s stage=%s\n", result.Status, result.AgentStage)
			if result.CurrentGoal != "" {
				fmt.Printf("Goal:       %s\n", result.CurrentGoal)
			}
			if result.AgentReply != "" {
				fmt.Printf("\nagent> %s\n", result.AgentReply)
			}
			if result.CallbackFired {
				fmt.Println("\n(final intelligence report dispatched)")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&server, "server", "", "base URL of the running honeypot (default from config)")
	cmd.Flags().StringVar(&sender, "sender", "cli", "sender identifier for the message")
	cmd.Flags().StringVar(&token, "token", "", "bearer token for the ingest endpoint")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the raw JSON response")

	return cmd
}
