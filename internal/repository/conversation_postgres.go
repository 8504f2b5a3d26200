package repository

import (
	"context"
	"fmt"

	"github.com/futig/support-bot/internal/entity"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ConversationRepository defines the interface for the per-session
// append-only message log
type ConversationRepository interface {
	SaveMessage(ctx context.Context, sessionID string, sender entity.Sender, message string) (*entity.Message, error)
	GetHistory(ctx context.Context, sessionID string, limit int) ([]*entity.Message, error)
	ClearHistory(ctx context.Context, sessionID string) error
}

var _ ConversationRepository = &ConversationPostgres{}

// ConversationPostgres implements ConversationRepository using PostgreSQL
type ConversationPostgres struct {
	db *pgxpool.Pool
}

func NewConversationPostgres(db *pgxpool.Pool) *ConversationPostgres {
	return &ConversationPostgres{
		db: db,
	}
}

func (r *ConversationPostgres) SaveMessage(
	ctx context.Context,
	sessionID string,
	sender entity.Sender,
	message string,
) (*entity.Message, error) {
	if err := sender.Validate(); err != nil {
		return nil, fmt.Errorf("save message: %w", err)
	}

	row := r.db.QueryRow(ctx, `
		INSERT INTO conversation_messages (id, session_id, sender, message)
		VALUES ($1, $2, $3, $4)
		RETURNING id, session_id, sender, message, created_at`,
		uuid.New().String(), sessionID, string(sender), message,
	)

	var msg entity.Message
	if err := row.Scan(&msg.ID, &msg.SessionID, &msg.Sender, &msg.Message, &msg.CreatedAt); err != nil {
		return nil, fmt.Errorf("save message: %w", err)
	}

	return &msg, nil
}

// GetHistory returns up to limit most recent messages for the session in
// chronological order. The query takes the newest rows first and the result
// is reversed, so the window always ends at the latest turn.
func (r *ConversationPostgres) GetHistory(
	ctx context.Context,
	sessionID string,
	limit int,
) ([]*entity.Message, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, session_id, sender, message, created_at
		FROM conversation_messages
		WHERE session_id = $1
		ORDER BY seq DESC
		LIMIT $2`,
		sessionID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("get history: %w", err)
	}
	defer rows.Close()

	var messages []*entity.Message
	for rows.Next() {
		var msg entity.Message
		if err := rows.Scan(&msg.ID, &msg.SessionID, &msg.Sender, &msg.Message, &msg.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		messages = append(messages, &msg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("get history: %w", err)
	}

	// Rows are newest first; reverse into chronological order.
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}

	return messages, nil
}

func (r *ConversationPostgres) ClearHistory(ctx context.Context, sessionID string) error {
	if _, err := r.db.Exec(ctx, `
		DELETE FROM conversation_messages
		WHERE session_id = $1`,
		sessionID,
	); err != nil {
		return fmt.Errorf("clear history: %w", err)
	}

	return nil
}
