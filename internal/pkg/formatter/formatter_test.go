package formatter

import (
	"strings"
	"testing"

	"github.com/futig/support-bot/internal/entity"
)

func sampleMessages() []*entity.Message {
	return []*entity.Message{
		{Sender: entity.SenderUser, Message: "What are your hours?"},
		{Sender: entity.SenderBot, Message: "We are open 9 to 5."},
	}
}

func TestFactory_CreatesAllFormats(t *testing.T) {
	factory := NewFactory()

	tests := []struct {
		format      entity.ResultFormat
		extension   string
		contentType string
	}{
		{entity.FormatMarkdown, ".md", "text/markdown; charset=utf-8"},
		{entity.FormatPDF, ".pdf", "application/pdf"},
		{entity.FormatDOCX, ".docx", "application/vnd.openxmlformats-officedocument.wordprocessingml.document"},
	}

	for _, tt := range tests {
		f, err := factory.Create(tt.format)
		if err != nil {
			t.Fatalf("create %s formatter: %v", tt.format, err)
		}
		if f.FileExtension() != tt.extension {
			t.Errorf("%s: unexpected extension %q", tt.format, f.FileExtension())
		}
		if f.ContentType() != tt.contentType {
			t.Errorf("%s: unexpected content type %q", tt.format, f.ContentType())
		}
	}
}

func TestFactory_RejectsUnknownFormat(t *testing.T) {
	if _, err := NewFactory().Create("xlsx"); err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestMarkdownFormatter_RendersTurns(t *testing.T) {
	content, err := NewMarkdownFormatter().Format(sampleMessages())
	if err != nil {
		t.Fatalf("format: %v", err)
	}

	body := string(content)
	if !strings.HasPrefix(body, "# Conversation Transcript\n") {
		t.Errorf("missing title: %q", body)
	}
	if !strings.Contains(body, "- Human: What are your hours?\n") {
		t.Errorf("missing user turn: %q", body)
	}
	if !strings.Contains(body, "- AI: We are open 9 to 5.\n") {
		t.Errorf("missing bot turn: %q", body)
	}
}

func TestMarkdownFormatter_EmptyHistory(t *testing.T) {
	content, err := NewMarkdownFormatter().Format(nil)
	if err != nil {
		t.Fatalf("format: %v", err)
	}
	if !strings.Contains(string(content), "# Conversation Transcript") {
		t.Error("empty transcript should still carry the title")
	}
}
