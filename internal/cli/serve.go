package cli

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/Keerthi1012/Agentic-HoneyPot-ScamDetection/internal/agent"
	"github.com/Keerthi1012/Agentic-HoneyPot-ScamDetection/internal/callback"
	"github.com/Keerthi1012/Agentic-HoneyPot-ScamDetection/internal/config"
	"github.com/Keerthi1012/Agentic-HoneyPot-ScamDetection/internal/detect"
	"github.com/Keerthi1012/Agentic-HoneyPot-ScamDetection/internal/gateway"
	"github.com/Keerthi1012/Agentic-HoneyPot-ScamDetection/internal/hooks"
	"github.com/Keerthi1012/Agentic-HoneyPot-ScamDetection/internal/jobs"
	"github.com/Keerthi1012/Agentic-HoneyPot-ScamDetection/internal/llm"
	"github.com/Keerthi1012/Agentic-HoneyPot-ScamDetection/internal/logging"
	"github.com/Keerthi1012/Agentic-HoneyPot-ScamDetection/internal/store"
	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	var (
		port int
		host string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the honeypot gateway server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(paths.Config)
			if err != nil {
				return err
			}

			if port != 0 {
				cfg.Gateway.Port = port
			}
			if host != "" {
				cfg.Gateway.Host = host
			}

			issues := config.Validate(&cfg)
			if len(issues) > 0 {
				for _, issue := range issues {
					log.Error().Str("path", issue.Path).Msg(issue.Message)
				}
				return fmt.Errorf("config validation failed with %d issue(s)", len(issues))
			}

			// The --log-level flag wins; otherwise the config level applies.
			if logLevel == "" && cfg.Logging.Level != "" {
				log = logging.New(nil, cfg.Logging.Level)
			}

			// Initialize hook manager
			hookMgr := hooks.NewManager(log)

			// Initialize session store (SQLite or in-memory)
			var sessions store.Store
			if cfg.Store.Backend == "sqlite" {
				dbPath := cfg.Store.Path
				if dbPath == "" {
					dbPath = paths.DefaultDBPath()
				}
				db, err := store.Open(dbPath, log)
				if err != nil {
					return fmt.Errorf("failed to open database: %w", err)
				}
				defer db.Close()
				sessions = store.NewSQLiteStore(db)
				log.Info().Str("path", dbPath).Msg("using SQLite session store")
			} else {
				sessions = store.NewMemoryStore()
				log.Info().Msg("using in-memory session store")
			}

			// Risk scorer, optionally blended with the seeded classifier
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
				log.Info().Float64("weight", cfg.Detection.Ensemble.Weight).Msg("ensemble scoring enabled")
			}

			// Initialize LLM provider registry
			registry := llm.NewRegistryFromConfig(cfg.LLM, log)
			log.Info().
				Strs("providers", registry.List()).
				Str("primary", cfg.LLM.Provider).
				Msg("LLM providers available")

			notifier := callback.New(cfg.Callback, log)
			if !notifier.Enabled() {
				log.Warn().Msg("no callback URL configured — final reports will not be dispatched")
			}

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
				notifier,
				hookMgr,
				log,
			)

			// Block until SIGINT/SIGTERM
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			// Idle-session sweeper; releases engine locks for evicted sessions
			sweeper, err := jobs.NewSweeper(cfg.Session, sessions, hookMgr, log)
			if err != nil {
				return fmt.Errorf("failed to create session sweeper: %w", err)
			}
			if sweeper.Enabled() {
				sweeper.OnExpire(engine.ForgetSession)
				sweeper.Start()
				defer sweeper.Stop()
			}

			srv := gateway.New(cfg.Gateway, engine, sessions, hookMgr, log)
			return srv.Start(ctx)
		},
	}

	cmd.Flags().IntVar(&port, "port", 0, "override gateway port")
	cmd.Flags().StringVar(&host, "host", "", "override gateway bind host")

	return cmd
}
