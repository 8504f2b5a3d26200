package chat

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/futig/support-bot/internal/entity"
	"github.com/futig/support-bot/internal/faq"
	"github.com/futig/support-bot/internal/pkg/formatter"
	"go.uber.org/zap"
)

// mockRepo implements repository.ConversationRepository in memory
type mockRepo struct {
	messages   []*entity.Message
	historyErr error
	saveErr    error
}

func (m *mockRepo) SaveMessage(_ context.Context, sessionID string, sender entity.Sender, message string) (*entity.Message, error) {
	if m.saveErr != nil {
		return nil, m.saveErr
	}
	msg := &entity.Message{
		SessionID: sessionID,
		Sender:    sender,
		Message:   message,
		CreatedAt: time.Now(),
	}
	m.messages = append(m.messages, msg)
	return msg, nil
}

func (m *mockRepo) GetHistory(_ context.Context, sessionID string, limit int) ([]*entity.Message, error) {
	if m.historyErr != nil {
		return nil, m.historyErr
	}
	var out []*entity.Message
	for _, msg := range m.messages {
		if msg.SessionID == sessionID {
			out = append(out, msg)
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[len(out)-limit:]
	}
	return out, nil
}

func (m *mockRepo) ClearHistory(_ context.Context, sessionID string) error {
	var kept []*entity.Message
	for _, msg := range m.messages {
		if msg.SessionID != sessionID {
			kept = append(kept, msg)
		}
	}
	m.messages = kept
	return nil
}

// mockRetriever implements Retriever with a fixed result
type mockRetriever struct {
	result *entity.SearchResult
	err    error
	calls  int
}

func (m *mockRetriever) Search(_ context.Context, _ string) (*entity.SearchResult, error) {
	m.calls++
	return m.result, m.err
}

// mockLLM implements LLMConnector and records the last prompt
type mockLLM struct {
	completion string
	err        error
	calls      int
	lastPrompt string
}

func (m *mockLLM) Complete(_ context.Context, prompt string) (string, error) {
	m.calls++
	m.lastPrompt = prompt
	if m.err != nil {
		return "", m.err
	}
	return m.completion, nil
}

func newTestUsecase(repo *mockRepo, retriever *mockRetriever, llm *mockLLM) *ChatUsecase {
	return NewUsecase(repo, retriever, llm, formatter.NewFactory(), 10, zap.NewNop())
}

func TestGetResponse_GreetingSkipsPipeline(t *testing.T) {
	retriever := &mockRetriever{}
	llm := &mockLLM{}
	uc := newTestUsecase(&mockRepo{}, retriever, llm)

	got := uc.GetResponse(context.Background(), "s1", "Hello!")

	if got != GreetingReply {
		t.Errorf("expected greeting reply, got %q", got)
	}
	if retriever.calls != 0 || llm.calls != 0 {
		t.Error("greeting must not hit retrieval or the model")
	}
}

func TestGetResponse_ReturnsCompletion(t *testing.T) {
	retriever := &mockRetriever{result: &entity.SearchResult{
		Text: "Hours? 9 to 5.", Score: 0.9, Matched: true,
	}}
	llm := &mockLLM{completion: "We are open 9 to 5."}
	uc := newTestUsecase(&mockRepo{}, retriever, llm)

	got := uc.GetResponse(context.Background(), "s1", "when are you open?")

	if got != "We are open 9 to 5." {
		t.Errorf("unexpected response: %q", got)
	}
	if !strings.Contains(llm.lastPrompt, "Hours? 9 to 5.") {
		t.Error("retrieved context missing from prompt")
	}
}

func TestGetResponse_EscalationPhraseTriggersHandoff(t *testing.T) {
	retriever := &mockRetriever{result: &entity.SearchResult{
		Text: faq.NoMatchText, Score: 0.1, Matched: false,
	}}
	llm := &mockLLM{completion: "Well, " + EscalationPhrase}
	uc := newTestUsecase(&mockRepo{}, retriever, llm)

	got := uc.GetResponse(context.Background(), "s1", "something obscure")

	if got != EscalationReply {
		t.Errorf("expected escalation reply, got %q", got)
	}
}

func TestGetResponse_CompletionErrorEscalates(t *testing.T) {
	retriever := &mockRetriever{result: &entity.SearchResult{
		Text: "context", Score: 0.9, Matched: true,
	}}
	llm := &mockLLM{err: errors.New("provider down")}
	uc := newTestUsecase(&mockRepo{}, retriever, llm)

	got := uc.GetResponse(context.Background(), "s1", "a question")

	if got != EscalationReply {
		t.Errorf("expected escalation reply on completion failure, got %q", got)
	}
}

func TestGetResponse_HistoryErrorDoesNotEndTurn(t *testing.T) {
	repo := &mockRepo{historyErr: errors.New("db down")}
	retriever := &mockRetriever{result: &entity.SearchResult{
		Text: "context", Score: 0.9, Matched: true,
	}}
	llm := &mockLLM{completion: "an answer"}
	uc := newTestUsecase(repo, retriever, llm)

	got := uc.GetResponse(context.Background(), "s1", "a question")

	if got != "an answer" {
		t.Errorf("history failure must not block the turn, got %q", got)
	}
	if !strings.Contains(llm.lastPrompt, "No history available.") {
		t.Error("lost history should render as the empty-history text")
	}
}

func TestGetResponse_SearchErrorUsesNoMatchContext(t *testing.T) {
	retriever := &mockRetriever{err: errors.New("embed failed")}
	llm := &mockLLM{completion: EscalationPhrase}
	uc := newTestUsecase(&mockRepo{}, retriever, llm)

	got := uc.GetResponse(context.Background(), "s1", "a question")

	if got != EscalationReply {
		t.Errorf("expected escalation reply, got %q", got)
	}
	if !strings.Contains(llm.lastPrompt, faq.NoMatchText) {
		t.Error("failed search should render the no-match context")
	}
}

func TestGetResponse_HistoryFlowsIntoPrompt(t *testing.T) {
	repo := &mockRepo{}
	retriever := &mockRetriever{result: &entity.SearchResult{
		Text: "context", Score: 0.9, Matched: true,
	}}
	llm := &mockLLM{completion: "ok"}
	uc := newTestUsecase(repo, retriever, llm)

	if err := uc.SaveTurn(context.Background(), "s1", entity.SenderUser, "first question"); err != nil {
		t.Fatalf("save turn: %v", err)
	}
	if err := uc.SaveTurn(context.Background(), "s1", entity.SenderBot, "first answer"); err != nil {
		t.Fatalf("save turn: %v", err)
	}

	uc.GetResponse(context.Background(), "s1", "second question")

	if !strings.Contains(llm.lastPrompt, "Human: first question") {
		t.Error("user turn missing from prompt history")
	}
	if !strings.Contains(llm.lastPrompt, "AI: first answer") {
		t.Error("bot turn missing from prompt history")
	}
}

func TestClearHistory_RemovesSessionOnly(t *testing.T) {
	repo := &mockRepo{}
	uc := newTestUsecase(repo, &mockRetriever{result: &entity.SearchResult{}}, &mockLLM{})

	uc.SaveTurn(context.Background(), "s1", entity.SenderUser, "one")
	uc.SaveTurn(context.Background(), "s2", entity.SenderUser, "two")

	if err := uc.ClearHistory(context.Background(), "s1"); err != nil {
		t.Fatalf("clear history: %v", err)
	}

	h1, _ := uc.History(context.Background(), "s1", 10)
	h2, _ := uc.History(context.Background(), "s2", 10)
	if len(h1) != 0 {
		t.Errorf("expected cleared session, got %d messages", len(h1))
	}
	if len(h2) != 1 {
		t.Errorf("other sessions must be untouched, got %d messages", len(h2))
	}
}

func TestExportTranscript_Markdown(t *testing.T) {
	repo := &mockRepo{}
	uc := newTestUsecase(repo, &mockRetriever{result: &entity.SearchResult{}}, &mockLLM{})

	uc.SaveTurn(context.Background(), "s1", entity.SenderUser, "a question")
	uc.SaveTurn(context.Background(), "s1", entity.SenderBot, "an answer")

	file, err := uc.ExportTranscript(context.Background(), "s1", entity.FormatMarkdown, 0)
	if err != nil {
		t.Fatalf("export transcript: %v", err)
	}

	if file.Filename != "transcript-s1.md" {
		t.Errorf("unexpected filename: %s", file.Filename)
	}
	body := string(file.Content)
	if !strings.Contains(body, "Human: a question") || !strings.Contains(body, "AI: an answer") {
		t.Errorf("transcript missing turns: %q", body)
	}
}
