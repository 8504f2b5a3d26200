package validator

import (
	"errors"
	"strings"
	"testing"

	"github.com/futig/support-bot/internal/entity"
)

func TestValidateChat(t *testing.T) {
	v := NewValidator(20)

	tests := []struct {
		name    string
		req     entity.ChatRequest
		wantErr error
	}{
		{"valid", entity.ChatRequest{SessionID: "s1", Message: "hello"}, nil},
		{"missing session", entity.ChatRequest{Message: "hello"}, entity.ErrMissingField},
		{"blank session", entity.ChatRequest{SessionID: "  ", Message: "hello"}, entity.ErrMissingField},
		{"missing message", entity.ChatRequest{SessionID: "s1"}, entity.ErrMissingField},
		{"blank message", entity.ChatRequest{SessionID: "s1", Message: " \t"}, entity.ErrMissingField},
		{"too long", entity.ChatRequest{SessionID: "s1", Message: strings.Repeat("a", 21)}, entity.ErrMessageTooLong},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidateChat(&tt.req)
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestValidateChat_NoLengthCap(t *testing.T) {
	v := NewValidator(0)
	req := entity.ChatRequest{SessionID: "s1", Message: strings.Repeat("a", 100000)}
	if err := v.ValidateChat(&req); err != nil {
		t.Errorf("zero cap should disable the length check: %v", err)
	}
}
