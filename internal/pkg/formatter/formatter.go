package formatter

import (
	"fmt"

	"github.com/futig/support-bot/internal/entity"
)

const transcriptTitle = "Conversation Transcript"

// Formatter renders a conversation transcript into a downloadable document.
type Formatter interface {
	Format(messages []*entity.Message) ([]byte, error)
	ContentType() string
	FileExtension() string
}

type Factory struct{}

func NewFactory() *Factory {
	return &Factory{}
}

func (f *Factory) Create(format entity.ResultFormat) (Formatter, error) {
	switch format {
	case entity.FormatMarkdown:
		return NewMarkdownFormatter(), nil
	case entity.FormatDOCX:
		return NewDOCXFormatter(), nil
	case entity.FormatPDF:
		return NewPDFFormatter(), nil
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}

// transcriptLines renders one labeled line per stored turn, chronological.
func transcriptLines(messages []*entity.Message) []string {
	lines := make([]string, 0, len(messages))
	for _, msg := range messages {
		label := "AI"
		if msg.Sender == entity.SenderUser {
			label = "Human"
		}
		lines = append(lines, fmt.Sprintf("%s: %s", label, msg.Message))
	}
	return lines
}
