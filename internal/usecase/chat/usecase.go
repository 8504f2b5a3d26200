package chat

import (
	"context"
	"fmt"
	"strings"

	"github.com/futig/support-bot/internal/entity"
	"github.com/futig/support-bot/internal/faq"
	"github.com/futig/support-bot/internal/pkg/formatter"
	"github.com/futig/support-bot/internal/pkg/logger"
	"github.com/futig/support-bot/internal/repository"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

const (
	// EscalationReply is returned to the user when the model signals it
	// cannot answer from the FAQ context, or when the completion call fails.
	EscalationReply = "I'm sorry, I can't seem to find the answer. I will escalate this to a human agent for you."

	// FallbackReply covers failures outside the normal pipeline, e.g. a
	// recovered panic in a front end.
	FallbackReply = "I'm sorry, something went wrong on my end. Please try again in a moment."
)

// ChatUsecase implements the retrieval-augmented response pipeline
type ChatUsecase struct {
	conversationRepo repository.ConversationRepository
	retriever        Retriever
	llmConnector     LLMConnector
	formatterFactory *formatter.Factory
	historyLimit     int
	logger           *zap.Logger
}

// NewUsecase creates a new chat use case
func NewUsecase(
	conversationRepo repository.ConversationRepository,
	retriever Retriever,
	llmConnector LLMConnector,
	formatterFactory *formatter.Factory,
	historyLimit int,
	logger *zap.Logger,
) *ChatUsecase {
	if historyLimit <= 0 {
		historyLimit = 10
	}
	return &ChatUsecase{
		conversationRepo: conversationRepo,
		retriever:        retriever,
		llmConnector:     llmConnector,
		formatterFactory: formatterFactory,
		historyLimit:     historyLimit,
		logger:           logger,
	}
}

// GetResponse runs one conversation turn: greeting short-circuit, history
// fetch, FAQ retrieval, prompt build, completion and escalation check. It
// never returns an error; the result goes straight back to a chat user, so
// every internal failure degrades to natural-language text.
func (uc *ChatUsecase) GetResponse(ctx context.Context, sessionID, userMessage string) string {
	ctx = logger.WithSession(ctx, sessionID)

	if IsGreeting(userMessage) {
		ctxzap.Info(ctx, "greeting short-circuit")
		return GreetingReply
	}

	history, err := uc.conversationRepo.GetHistory(ctx, sessionID, uc.historyLimit)
	if err != nil {
		// Lost history degrades answer quality but does not end the turn.
		ctxzap.Error(ctx, "fetch history", zap.Error(err))
		history = nil
	}

	faqContext := faq.NoMatchText
	result, err := uc.retriever.Search(ctx, userMessage)
	if err != nil {
		// Without usable context the prompt contract forces an escalation.
		ctxzap.Error(ctx, "search FAQ corpus", zap.Error(err))
	} else {
		faqContext = result.Text
		ctxzap.Info(ctx, "FAQ corpus searched",
			zap.Bool("matched", result.Matched),
			zap.Float64("score", result.Score),
		)
	}

	prompt := BuildPrompt(history, faqContext, userMessage)

	completion, err := uc.llmConnector.Complete(ctx, prompt)
	if err != nil {
		ctxzap.Error(ctx, "completion failed", zap.Error(err))
		return EscalationReply
	}

	// Substring, not equality: the model may wrap the phrase in chatter.
	if strings.Contains(completion, EscalationPhrase) {
		ctxzap.Info(ctx, "escalation phrase detected")
		return EscalationReply
	}

	return completion
}

// SaveTurn persists one side of a conversation turn. Callers on the chat
// path treat failures as best-effort and keep serving the reply.
func (uc *ChatUsecase) SaveTurn(ctx context.Context, sessionID string, sender entity.Sender, message string) error {
	if _, err := uc.conversationRepo.SaveMessage(ctx, sessionID, sender, message); err != nil {
		return fmt.Errorf("save turn: %w", err)
	}
	return nil
}

// History returns up to limit stored turns in chronological order.
func (uc *ChatUsecase) History(ctx context.Context, sessionID string, limit int) ([]*entity.Message, error) {
	messages, err := uc.conversationRepo.GetHistory(ctx, sessionID, limit)
	if err != nil {
		return nil, fmt.Errorf("get history: %w", err)
	}
	return messages, nil
}

// ClearHistory removes every stored turn for the session.
func (uc *ChatUsecase) ClearHistory(ctx context.Context, sessionID string) error {
	if err := uc.conversationRepo.ClearHistory(ctx, sessionID); err != nil {
		return fmt.Errorf("clear history: %w", err)
	}
	return nil
}

// fullTranscriptLimit caps exports requested without an explicit limit.
const fullTranscriptLimit = 1000

// ExportTranscript renders the stored conversation in the requested format.
// A non-positive limit exports the whole conversation, up to
// fullTranscriptLimit turns.
func (uc *ChatUsecase) ExportTranscript(ctx context.Context, sessionID string, format entity.ResultFormat, limit int) (*entity.TranscriptFile, error) {
	if limit <= 0 {
		limit = fullTranscriptLimit
	}

	messages, err := uc.conversationRepo.GetHistory(ctx, sessionID, limit)
	if err != nil {
		return nil, fmt.Errorf("get history: %w", err)
	}

	f, err := uc.formatterFactory.Create(format)
	if err != nil {
		return nil, err
	}

	content, err := f.Format(messages)
	if err != nil {
		return nil, fmt.Errorf("format transcript: %w", err)
	}

	return &entity.TranscriptFile{
		Content:     content,
		ContentType: f.ContentType(),
		Filename:    "transcript-" + sessionID + f.FileExtension(),
	}, nil
}
