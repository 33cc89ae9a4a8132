package cli

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/Keerthi1012/Agentic-HoneyPot-ScamDetection/internal/config"
	"github.com/Keerthi1012/Agentic-HoneyPot-ScamDetection/internal/llm"
	"github.com/Keerthi1012/Agentic-HoneyPot-ScamDetection/internal/version"
	"github.com/spf13/cobra"
)

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show honeypot status and configuration summary",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Printf("honeypot %s (commit %s)\n\n", version.Version, version.Commit)

			// Show paths
			fmt.Printf("Config:  %s\n", paths.Config)
			fmt.Printf("Data:    %s\n", paths.Data)
			fmt.Printf("Logs:    %s\n", paths.Logs)
			fmt.Println()

			// Load config; missing files fall back to defaults
			cfg, err := config.Load(paths.Config)
			if err != nil {
				fmt.Printf("Config:  error loading: %v\n", err)
				return nil
			}

			auth := []string{}
			if cfg.Gateway.AuthToken != "" {
				auth = append(auth, "operator")
			}
			if cfg.Gateway.IngestToken != "" {
				auth = append(auth, "ingest")
			}
			authDesc := "open"
			if len(auth) > 0 {
				authDesc = strings.Join(auth, "+")
			}
			fmt.Printf("Gateway:   %s:%d auth=%s rateLimit=%.0f/s\n",
				cfg.Gateway.Host, cfg.Gateway.Port, authDesc, cfg.Gateway.RateLimit)

			// Store backend
			if cfg.Store.Backend == "sqlite" {
				dbPath := cfg.Store.Path
				if dbPath == "" {
					dbPath = paths.DefaultDBPath()
				}
				fmt.Printf("Store:     sqlite path=%s\n", dbPath)
			} else {
				fmt.Printf("Store:     memory\n")
			}

			fmt.Printf("Detection: scam>=%.2f uncertain>=%.2f ensemble=%v\n",
				cfg.Detection.ScamThreshold, cfg.Detection.UncertainThreshold,
				cfg.Detection.Ensemble.Enabled)

			// LLM providers
			registry := llm.NewRegistryFromConfig(cfg.LLM, log)
			fmt.Printf("LLM:       primary=%s model=%s available=%s\n",
				cfg.LLM.Provider, cfg.LLM.Model, strings.Join(registry.List(), ", "))

			if cfg.Callback.URL != "" {
				fmt.Printf("Callback:  %s retries=%d\n", cfg.Callback.URL, cfg.Callback.Retries)
			} else {
				fmt.Println("Callback:  (not configured)")
			}

			if cfg.Session.TTLMinutes > 0 {
				fmt.Printf("Session:   ttl=%dm sweep=%dm\n",
					cfg.Session.TTLMinutes, cfg.Session.SweepIntervalMinutes)
			} else {
				fmt.Println("Session:   no idle eviction")
			}

			// Probe the gateway
			base := fmt.Sprintf("http://%s:%d", cfg.Gateway.Host, cfg.Gateway.Port)
			client := &http.Client{Timeout: 2 * time.Second}
			resp, err := client.Get(base + "/health")
			if err != nil {
				fmt.Printf("\nServer:    not running at %s\n", base)
			} else {
				resp.Body.Close()
				fmt.Printf("\nServer:    up at %s (%d)\n", base, resp.StatusCode)
			}

			// Validation
			issues := config.Validate(&cfg)
			if len(issues) > 0 {
				fmt.Printf("\nValidation issues (%d):\n", len(issues))
				for _, issue := range issues {
					fmt.Printf("  - %s: %s\n", issue.Path, issue.Message)
				}
			}

			return nil
		},
	}
}
