package entity

import (
	"fmt"
	"time"
)

// Sender identifies which side of the conversation produced a message.
type Sender string

const (
	SenderUser Sender = "user"
	SenderBot  Sender = "bot"
)

func (s Sender) Validate() error {
	switch s {
	case SenderUser, SenderBot:
		return nil
	default:
		return fmt.Errorf("unknown sender: %s", s)
	}
}

// Message is a single stored conversation turn.
type Message struct {
	ID        string    `json:"id"`
	SessionID string    `json:"session_id"`
	Sender    Sender    `json:"sender"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

// FAQEntry is one question/answer pair from the corpus. Combined is the
// question and answer joined with a single space; entry embeddings are
// computed over Combined, never over the parts separately.
type FAQEntry struct {
	Question string
	Answer   string
	Combined string
}

// SearchResult is the outcome of a corpus similarity lookup.
type SearchResult struct {
	Text    string
	Score   float64
	Matched bool
}

// ResultFormat selects the transcript export document type.
type ResultFormat string

const (
	FormatMarkdown ResultFormat = "md"
	FormatPDF      ResultFormat = "pdf"
	FormatDOCX     ResultFormat = "docx"
)

func (f ResultFormat) Validate() error {
	switch f {
	case FormatMarkdown, FormatPDF, FormatDOCX:
		return nil
	default:
		return fmt.Errorf("%w: unknown result format %q", ErrInvalidFormat, string(f))
	}
}

// TranscriptFile is a rendered conversation transcript ready for download.
type TranscriptFile struct {
	Content     []byte
	ContentType string
	Filename    string
}
