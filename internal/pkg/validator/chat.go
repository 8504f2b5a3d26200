package validator

import (
	"fmt"
	"strings"

	"github.com/futig/support-bot/internal/entity"
)

// ValidateChat validates ChatRequest
func (v *Validator) ValidateChat(req *entity.ChatRequest) error {
	if err := v.ValidateSessionID(req.SessionID); err != nil {
		return err
	}

	if strings.TrimSpace(req.Message) == "" {
		return fmt.Errorf("%w: message", entity.ErrMissingField)
	}

	if v.maxMessageLength > 0 && len(req.Message) > v.maxMessageLength {
		return fmt.Errorf("%w: message exceeds %d bytes", entity.ErrMessageTooLong, v.maxMessageLength)
	}

	return nil
}

// ValidateSessionID validates an opaque caller-supplied session identifier
func (v *Validator) ValidateSessionID(sessionID string) error {
	if strings.TrimSpace(sessionID) == "" {
		return fmt.Errorf("%w: session_id", entity.ErrMissingField)
	}

	return nil
}
