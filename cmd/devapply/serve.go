package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/devapply/devapply/internal/ai"
	"github.com/devapply/devapply/internal/config"
	"github.com/devapply/devapply/internal/db"
	"github.com/devapply/devapply/internal/fetch"
	"github.com/devapply/devapply/internal/llm"
	"github.com/devapply/devapply/internal/logger"
	"github.com/devapply/devapply/internal/mockinterview"
	"github.com/devapply/devapply/internal/server"
	"github.com/devapply/devapply/internal/server/ratelimit"
	"github.com/spf13/cobra"
)

var (
	servePort int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  `Start an HTTP server that exposes the DevApply REST API.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (defaults to PORT or 3001)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.LoadServerConfig()
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("port") {
		cfg.Port = servePort
	}

	log, err := logger.New(cfg.LogMode)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	database, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer database.Close()

	llmClient, err := llm.NewClient(ctx, llmConfig(cfg), cfg.APIKey())
	if err != nil {
		return fmt.Errorf("failed to create LLM client: %w", err)
	}
	defer func() { _ = llmClient.Close() }()
	aiService := ai.NewService(llmClient, database, log.With("component", "ai"))

	sessions, closeSessions, err := sessionStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeSessions()

	jwtConfig, err := config.NewJWTConfig()
	if err != nil {
		return err
	}
	passwords, err := config.NewPasswordConfig()
	if err != nil {
		return err
	}

	srv, err := server.New(server.Config{
		Port:        cfg.Port,
		AllowOrigin: cfg.AllowOrigin,
	}, server.Deps{
		Store:     database,
		AI:        aiService,
		Sessions:  mockinterview.NewManager(sessions, aiService, log.With("component", "mockinterview")),
		Fetcher:   fetch.New(fetch.Options{Timeout: cfg.FetchTimeout, UseBrowser: cfg.UseBrowser}, log.With("component", "fetch")),
		JWT:       server.NewJWTService(jwtConfig),
		Passwords: passwords,
		Limiter:   ratelimit.NewLimiter(ratelimit.LoadConfig()),
		Log:       log,
	})
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	return srv.Start(ctx)
}

// llmConfig picks the model table for the configured provider.
func llmConfig(cfg *config.ServerConfig) *llm.Config {
	if cfg.LLMProvider == config.ProviderGemini {
		return llm.DefaultGeminiConfig()
	}
	c := llm.DefaultOpenAIConfig()
	c.Models[llm.TierStandard] = cfg.OpenAIModel
	c.Models[llm.TierAdvanced] = cfg.OpenAIModel
	return c
}

// sessionStore uses Redis when REDIS_URL is set and process memory otherwise.
func sessionStore(ctx context.Context, cfg *config.ServerConfig) (mockinterview.Store, func(), error) {
	if cfg.RedisURL == "" {
		return mockinterview.NewMemoryStore(cfg.SessionTTL), func() {}, nil
	}
	client, err := mockinterview.NewRedisClient(ctx, cfg.RedisURL)
	if err != nil {
		return nil, nil, err
	}
	return mockinterview.NewRedisStore(client, cfg.SessionTTL), func() { _ = client.Close() }, nil
}
