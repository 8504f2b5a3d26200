package middleware

import (
	"runtime/debug"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// RecoveryMiddleware recovers from panics in update handlers
type RecoveryMiddleware struct {
	logger        *zap.Logger
	api           *tgbotapi.BotAPI
	fallbackReply string
}

// NewRecoveryMiddleware creates a new recovery middleware
func NewRecoveryMiddleware(logger *zap.Logger, api *tgbotapi.BotAPI, fallbackReply string) *RecoveryMiddleware {
	return &RecoveryMiddleware{
		logger:        logger,
		api:           api,
		fallbackReply: fallbackReply,
	}
}

// Handle recovers from panics and replies with the fallback text
func (m *RecoveryMiddleware) Handle(update tgbotapi.Update, next func(tgbotapi.Update)) {
	defer func() {
		if r := recover(); r != nil {
			m.logger.Error("panic recovered in telegram handler",
				zap.Any("panic", r),
				zap.String("stack", string(debug.Stack())),
				zap.Int("update_id", update.UpdateID),
			)

			if update.Message == nil {
				return
			}

			msg := tgbotapi.NewMessage(update.Message.Chat.ID, m.fallbackReply)
			if _, err := m.api.Send(msg); err != nil {
				m.logger.Error("failed to send fallback message",
					zap.Error(err),
					zap.Int64("chat_id", update.Message.Chat.ID),
				)
			}
		}
	}()

	next(update)
}
