package chat

import (
	"context"

	"github.com/futig/support-bot/internal/entity"
)

type ChatUsecase interface {
	GetResponse(ctx context.Context, sessionID, userMessage string) string
	SaveTurn(ctx context.Context, sessionID string, sender entity.Sender, message string) error
	History(ctx context.Context, sessionID string, limit int) ([]*entity.Message, error)
	ClearHistory(ctx context.Context, sessionID string) error
	ExportTranscript(ctx context.Context, sessionID string, format entity.ResultFormat, limit int) (*entity.TranscriptFile, error)
}
