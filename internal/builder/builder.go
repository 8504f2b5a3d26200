package builder

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/futig/support-bot/internal/api"
	chatapi "github.com/futig/support-bot/internal/api/chat"
	"github.com/futig/support-bot/internal/config"
	"github.com/futig/support-bot/internal/faq"
	"github.com/futig/support-bot/internal/integration/gemini"
	"github.com/futig/support-bot/internal/pkg/formatter"
	"github.com/futig/support-bot/internal/pkg/validator"
	"github.com/futig/support-bot/internal/repository"
	"github.com/futig/support-bot/internal/telegram/bot"
	"github.com/futig/support-bot/internal/usecase/chat"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

func Build() (*App, error) {
	ctx := context.Background()

	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := setupLogger(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("setup logger: %w", err)
	}

	logger.Info("Building application",
		zap.String("environment", cfg.Environment),
		zap.String("server_addr", cfg.ServerAddr),
	)

	db, err := setupDatabase(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("setup database: %w", err)
	}

	logger.Info("Running database migrations")
	if err := repository.RunMigrations(cfg.DatabaseURL); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	logger.Info("Database migrations completed successfully")

	chatUC, err := buildChatUsecase(ctx, cfg, db, logger)
	if err != nil {
		db.Close()
		return nil, err
	}

	chatValidator := validator.NewValidator(cfg.MaxMessageLength)

	chatHandler := chatapi.NewHandler(chatUC, chatValidator, cfg.HistoryPageLimit)
	logger.Info("API handlers initialized")

	router := api.SetupRouter(chatHandler, logger)
	logger.Info("HTTP router configured")

	server := &http.Server{
		Addr:         cfg.ServerAddr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	logger.Info("Application built successfully",
		zap.String("environment", cfg.Environment),
	)

	return &App{
		server: server,
		db:     db,
		logger: logger,
	}, nil
}

// BuildTelegramBot creates and initializes the Telegram bot
func BuildTelegramBot() (*bot.Bot, *zap.Logger, error) {
	ctx := context.Background()

	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := setupLogger(cfg.LogLevel)
	if err != nil {
		return nil, nil, fmt.Errorf("setup logger: %w", err)
	}

	logger.Info("Building Telegram bot",
		zap.String("environment", cfg.Environment),
	)

	if cfg.TelegramCfg.BotToken == "" {
		return nil, nil, fmt.Errorf("TELEGRAM_BOT_TOKEN must be set")
	}

	db, err := setupDatabase(ctx, cfg, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("setup database: %w", err)
	}

	logger.Info("Running database migrations")
	if err := repository.RunMigrations(cfg.DatabaseURL); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("run migrations: %w", err)
	}
	logger.Info("Database migrations completed successfully")

	chatUC, err := buildChatUsecase(ctx, cfg, db, logger)
	if err != nil {
		db.Close()
		return nil, nil, err
	}

	tgBot, err := bot.New(&cfg.TelegramCfg, chatUC, logger)
	if err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("initialize telegram bot: %w", err)
	}

	logger.Info("Telegram bot built successfully",
		zap.String("environment", cfg.Environment),
	)

	return tgBot, logger, nil
}

// buildChatUsecase wires the shared conversation pipeline: repository,
// provider connector, FAQ index and formatters. The same connector instance
// serves completion and embedding, so stored and query embeddings stay in
// one vector space.
func buildChatUsecase(
	ctx context.Context,
	cfg *config.Config,
	db *pgxpool.Pool,
	logger *zap.Logger,
) (*chat.ChatUsecase, error) {
	conversationRepo := repository.NewConversationPostgres(db)
	logger.Info("Repositories initialized")

	var llmConnector chat.LLMConnector
	var embedder faq.Embedder

	if cfg.EnableMocks {
		logger.Info("Using mock connector for the completion/embedding provider")
		mock := gemini.NewMockConnector(logger)
		llmConnector = mock
		embedder = mock
	} else {
		logger.Info("Using real connector for the completion/embedding provider")
		connector := gemini.NewConnector(cfg.GeminiCfg, logger)
		llmConnector = connector
		embedder = connector
	}

	logger.Info("Loading FAQ corpus", zap.String("path", cfg.FAQPath))
	index, err := faq.NewIndex(ctx, cfg.FAQPath, embedder, cfg.FAQSimilarityThreshold, cfg.FAQQueryCacheTTL)
	if err != nil {
		return nil, fmt.Errorf("build FAQ index: %w", err)
	}
	logger.Info("FAQ corpus loaded", zap.Int("entries", index.Size()))

	chatUC := chat.NewUsecase(
		conversationRepo,
		index,
		llmConnector,
		formatter.NewFactory(),
		cfg.ChatHistoryLimit,
		logger,
	)
	logger.Info("Use cases initialized")

	return chatUC, nil
}
