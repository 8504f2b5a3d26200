package chat

import (
	"strings"
	"testing"

	"github.com/futig/support-bot/internal/entity"
)

func TestFormatHistory_Empty(t *testing.T) {
	if got := FormatHistory(nil); got != "No history available." {
		t.Errorf("unexpected empty history text: %q", got)
	}
}

func TestFormatHistory_LabelsSenders(t *testing.T) {
	history := []*entity.Message{
		{Sender: entity.SenderUser, Message: "hi"},
		{Sender: entity.SenderBot, Message: "hello"},
	}

	want := "Human: hi\nAI: hello"
	if got := FormatHistory(history); got != want {
		t.Errorf("FormatHistory = %q, want %q", got, want)
	}
}

func TestBuildPrompt_ContainsAllSections(t *testing.T) {
	history := []*entity.Message{
		{Sender: entity.SenderUser, Message: "earlier question"},
	}

	prompt := BuildPrompt(history, "Some FAQ context", "live question")

	for _, fragment := range []string{
		EscalationPhrase,
		"Human: earlier question",
		"FAQ Context:\nSome FAQ context",
		"User Question:\nlive question",
	} {
		if !strings.Contains(prompt, fragment) {
			t.Errorf("prompt missing %q", fragment)
		}
	}
}
