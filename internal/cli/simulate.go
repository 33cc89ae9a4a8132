package cli

import (
	"bufio"
	"context"
	"fmt"
	"os/signal"
	"sort"
	"strings"
	"syscall"
	"time"

	"github.com/Keerthi1012/Agentic-HoneyPot-ScamDetection/internal/agent"
	"github.com/Keerthi1012/Agentic-HoneyPot-ScamDetection/internal/config"
	"github.com/Keerthi1012/Agentic-HoneyPot-ScamDetection/internal/detect"
	"github.com/Keerthi1012/Agentic-HoneyPot-ScamDetection/internal/domain"
	"github.com/Keerthi1012/Agentic-HoneyPot-ScamDetection/internal/hooks"
	"github.com/Keerthi1012/Agentic-HoneyPot-ScamDetection/internal/llm"
	"github.com/Keerthi1012/Agentic-HoneyPot-ScamDetection/internal/store"
	"github.com/spf13/cobra"
)

func newSimulateCmd() *cobra.Command {
	var (
		sessionID string
		provider  string
	)

	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Run a scam conversation against the engine without a server",
		Long: "Simulate reads scammer messages from stdin and runs them through the\n" +
			"full engine loop (scoring, extraction, goal selection, reply generation)\n" +
			"against an in-memory session, printing what a caller would receive.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(paths.Config)
			if err != nil {
				cfg = config.Defaults()
			}
			if provider != "" {
				cfg.LLM.Provider = provider
			}

			registry := llm.NewRegistryFromConfig(cfg.LLM, log)

			var scorer detect.Scorer = detect.NewRuleScorer(
				cfg.Detection.ScamThreshold,
				cfg.Detection.UncertainThreshold,
			)
			if cfg.Detection.Ensemble.Enabled {
				scorer = detect.NewEnsembleScorer(
					scorer,
					detect.NewSeedClassifier(),
					cfg.Detection.Ensemble.Weight,
					cfg.Detection.ScamThreshold,
					cfg.Detection.UncertainThreshold,
				)
			}

			sessions := store.NewMemoryStore()
			engine := agent.NewController(
				agent.Config{
					Provider:        cfg.LLM.Provider,
					Fallbacks:       cfg.LLM.Fallbacks,
					MaxTokens:       cfg.LLM.MaxTokens,
					Temperature:     cfg.LLM.Temperature,
					LLMTimeout:      time.Duration(cfg.LLM.TimeoutSeconds) * time.Second,
					ContinueCeiling: cfg.Engagement.ContinueCeiling,
					HardCeiling:     cfg.Engagement.HardCeiling,
					GoalWindow:      cfg.Engagement.GoalWindow,
					EngageWindow:    cfg.Engagement.EngageWindow,
				},
				sessions,
				scorer,
				registry,
				nil, // no callback dispatch in simulation
				hooks.NewManager(log),
				log,
			)

			if sessionID == "" {
				sessionID = fmt.Sprintf("sim-%d", time.Now().Unix())
			}

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			fmt.Printf("Simulating session %q with provider %q. Type scammer messages, Ctrl-D to quit.\n\n",
				sessionID, cfg.LLM.Provider)

			scanner := bufio.NewScanner(cmd.InOrStdin())
			for {
				fmt.Print("scammer> ")
				if !scanner.Scan() {
					break
				}
				text := strings.TrimSpace(scanner.Text())
				if text == "" {
					continue
				}

				result, err := engine.HandleMessage(ctx, domain.InboundMessage{
					SessionID: sessionID,
					Sender:    "simulator",
					Text:      text,
					Timestamp: time.Now().UTC(),
				})
				if err != nil {
					if ctx.Err() != nil {
						return nil
					}
					log.Error().Err(err).Msg("engine error")
					continue
				}

				fmt.Printf("  [%s %.2f", result.Decision, result.Confidence)
				if len(result.Signals) > 0 {
					fmt.Printf(" %s", strings.Join(result.Signals, ","))
				}
				fmt.Print("]")
				if result.CurrentGoal != "" {
					fmt.Printf(" goal=%s", result.CurrentGoal)
				}
				fmt.Printf(" stage=%s\n", result.AgentStage)

				if result.AgentReply != "" {
					fmt.Printf("agent>   %s\n", result.AgentReply)
				}
				if result.CallbackFired {
					fmt.Println("\nSession closed: enough intelligence collected.")
					printSummary(sessions, sessionID)
					return nil
				}
			}
			if err := scanner.Err(); err != nil {
				return err
			}

			fmt.Println()
			printSummary(sessions, sessionID)
			return nil
		},
	}

	cmd.Flags().StringVar(&sessionID, "session", "", "session ID to simulate (default generated)")
	cmd.Flags().StringVar(&provider, "provider", "", "override the LLM provider (openai, ollama, mock)")

	return cmd
}

// printSummary dumps whatever intelligence the session collected.
func printSummary(st store.Store, sessionID string) {
	intel, err := st.SerializedIntelligence(sessionID)
	if err != nil {
		return
	}

	categories := make([]string, 0, len(intel))
	for category := range intel {
		if len(intel[category]) > 0 {
			categories = append(categories, category)
		}
	}
	if len(categories) == 0 {
		fmt.Println("No intelligence extracted.")
		return
	}
	sort.Strings(categories)

	fmt.Println("Extracted intelligence:")
	for _, category := range categories {
		fmt.Printf("  %-22s %s\n", category, strings.Join(intel[category], ", "))
	}
}
