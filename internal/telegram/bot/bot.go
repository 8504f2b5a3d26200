package bot

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/futig/support-bot/internal/config"
	"github.com/futig/support-bot/internal/entity"
	"github.com/futig/support-bot/internal/telegram/middleware"
	"github.com/futig/support-bot/internal/usecase/chat"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

const helpText = `Available commands:

/start - Start a conversation
/help - Show this help
/clear - Forget the conversation so far
/export - Download the conversation transcript

Just type a question and I will answer it from our FAQ.`

// ChatUsecase is the conversation pipeline the bot drives
type ChatUsecase interface {
	GetResponse(ctx context.Context, sessionID, userMessage string) string
	SaveTurn(ctx context.Context, sessionID string, sender entity.Sender, message string) error
	ClearHistory(ctx context.Context, sessionID string) error
	ExportTranscript(ctx context.Context, sessionID string, format entity.ResultFormat, limit int) (*entity.TranscriptFile, error)
}

// Bot serves the support chat over Telegram
type Bot struct {
	api         *tgbotapi.BotAPI
	cfg         *config.TelegramConfig
	usecase     ChatUsecase
	logger      *zap.Logger
	loggingMW   *middleware.LoggingMiddleware
	recoveryMW  *middleware.RecoveryMiddleware
	rateLimitMW *middleware.RateLimiterMiddleware
	updatesChan tgbotapi.UpdatesChannel
	stopChan    chan struct{}
	wg          sync.WaitGroup
}

// New creates a new Telegram bot
func New(
	cfg *config.TelegramConfig,
	usecase ChatUsecase,
	logger *zap.Logger,
) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		return nil, fmt.Errorf("create bot API: %w", err)
	}

	api.Debug = false

	logger.Info("telegram bot authorized",
		zap.String("username", api.Self.UserName),
		zap.Int64("id", api.Self.ID),
	)

	bot := &Bot{
		api:      api,
		cfg:      cfg,
		usecase:  usecase,
		logger:   logger,
		stopChan: make(chan struct{}),
	}

	bot.loggingMW = middleware.NewLoggingMiddleware(logger)
	bot.recoveryMW = middleware.NewRecoveryMiddleware(logger, api, chat.FallbackReply)
	bot.rateLimitMW = middleware.NewRateLimiterMiddleware(
		cfg.RateLimitPerMinute,
		cfg.RateLimitBurst,
		logger,
		api,
	)

	return bot, nil
}

// Start starts the bot
func (b *Bot) Start(ctx context.Context) error {
	b.logger.Info("starting telegram bot")

	u := tgbotapi.NewUpdate(0)
	u.Timeout = b.cfg.UpdateTimeout

	b.updatesChan = b.api.GetUpdatesChan(u)

	ctx = ctxzap.ToContext(ctx, b.logger)
	go b.processUpdates(ctx)

	b.logger.Info("telegram bot started successfully")
	return nil
}

// Stop stops the bot gracefully with timeout
func (b *Bot) Stop() error {
	b.logger.Info("stopping telegram bot")

	close(b.stopChan)
	b.api.StopReceivingUpdates()

	done := make(chan struct{})
	go func() {
		b.wg.Wait()
		close(done)
	}()

	shutdownTimeout := time.Duration(b.cfg.ShutdownTimeout) * time.Second
	select {
	case <-done:
		b.logger.Info("all handlers completed gracefully")
	case <-time.After(shutdownTimeout):
		b.logger.Warn("shutdown timeout exceeded, some handlers may not have completed",
			zap.Duration("timeout", shutdownTimeout),
		)
		return fmt.Errorf("shutdown timeout exceeded")
	}

	b.logger.Info("telegram bot stopped successfully")
	return nil
}

// processUpdates processes incoming updates
func (b *Bot) processUpdates(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			ctxzap.Info(ctx, "context cancelled, stopping update processing")
			return
		case <-b.stopChan:
			ctxzap.Info(ctx, "stop signal received, stopping update processing")
			return
		case update := <-b.updatesChan:
			b.wg.Add(1)
			go func(u tgbotapi.Update) {
				defer b.wg.Done()
				b.handleUpdateWithMiddleware(u)
			}(update)
		}
	}
}

// handleUpdateWithMiddleware processes update through middleware chain
func (b *Bot) handleUpdateWithMiddleware(update tgbotapi.Update) {
	b.rateLimitMW.Handle(update, func(u tgbotapi.Update) {
		b.loggingMW.Handle(u, func(u2 tgbotapi.Update) {
			b.recoveryMW.Handle(u2, func(u3 tgbotapi.Update) {
				b.handleUpdate(u3)
			})
		})
	})
}

// handleUpdate routes update to the message handler
func (b *Bot) handleUpdate(update tgbotapi.Update) {
	ctx := ctxzap.ToContext(context.Background(), b.logger)

	if update.Message != nil {
		b.handleMessage(ctx, update.Message)
	}
}

// sessionID maps a Telegram chat to a conversation session
func sessionID(chatID int64) string {
	return fmt.Sprintf("tg-%d", chatID)
}

// handleMessage handles incoming messages
func (b *Bot) handleMessage(ctx context.Context, message *tgbotapi.Message) {
	if message.IsCommand() {
		b.handleCommand(ctx, message)
		return
	}

	if message.Text == "" {
		b.sendText(ctx, message.Chat.ID, "I can only answer text messages.")
		return
	}

	session := sessionID(message.Chat.ID)

	// Same best-effort persistence as the HTTP path: a failed write is
	// logged, the user still gets a reply.
	if err := b.usecase.SaveTurn(ctx, session, entity.SenderUser, message.Text); err != nil {
		ctxzap.Error(ctx, "save user message", zap.Error(err))
	}

	reply := b.usecase.GetResponse(ctx, session, message.Text)

	if err := b.usecase.SaveTurn(ctx, session, entity.SenderBot, reply); err != nil {
		ctxzap.Error(ctx, "save bot message", zap.Error(err))
	}

	b.sendText(ctx, message.Chat.ID, reply)
}

// handleCommand handles bot commands
func (b *Bot) handleCommand(ctx context.Context, message *tgbotapi.Message) {
	command := message.Command()
	chatID := message.Chat.ID

	ctxzap.Info(ctx, "command received",
		zap.String("command", command),
		zap.Int64("chat_id", chatID),
	)

	switch command {
	case "start":
		b.sendText(ctx, chatID, chat.GreetingReply)
	case "help":
		b.sendText(ctx, chatID, helpText)
	case "clear":
		if err := b.usecase.ClearHistory(ctx, sessionID(chatID)); err != nil {
			ctxzap.Error(ctx, "clear history", zap.Error(err))
			b.sendText(ctx, chatID, chat.FallbackReply)
			return
		}
		b.sendText(ctx, chatID, "Conversation history cleared.")
	case "export":
		b.handleExportCommand(ctx, chatID)
	default:
		b.sendText(ctx, chatID, "Unknown command. Use /help to see what I can do.")
	}
}

// handleExportCommand sends the conversation transcript as a document
func (b *Bot) handleExportCommand(ctx context.Context, chatID int64) {
	file, err := b.usecase.ExportTranscript(ctx, sessionID(chatID), entity.FormatMarkdown, 0)
	if err != nil {
		ctxzap.Error(ctx, "export transcript", zap.Error(err))
		b.sendText(ctx, chatID, chat.FallbackReply)
		return
	}

	doc := tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{
		Name:  file.Filename,
		Bytes: file.Content,
	})
	if _, err := b.api.Send(doc); err != nil {
		ctxzap.Error(ctx, "send transcript document",
			zap.Error(err),
			zap.Int64("chat_id", chatID),
		)
		b.sendText(ctx, chatID, chat.FallbackReply)
	}
}

// sendText sends a plain text message to chat
func (b *Bot) sendText(ctx context.Context, chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.api.Send(msg); err != nil {
		ctxzap.Error(ctx, "failed to send message",
			zap.Error(err),
			zap.Int64("chat_id", chatID),
		)
	}
}
