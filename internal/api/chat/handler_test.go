package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/futig/support-bot/internal/entity"
	"github.com/futig/support-bot/internal/pkg/validator"
	"github.com/go-chi/chi/v5"
)

// mockUsecase implements ChatUsecase with canned responses
type mockUsecase struct {
	response    string
	history     []*entity.Message
	historyErr  error
	savedTurns  []string
	clearedID   string
	exportedFmt entity.ResultFormat
}

func (m *mockUsecase) GetResponse(_ context.Context, _, _ string) string {
	return m.response
}

func (m *mockUsecase) SaveTurn(_ context.Context, _ string, sender entity.Sender, message string) error {
	m.savedTurns = append(m.savedTurns, string(sender)+":"+message)
	return nil
}

func (m *mockUsecase) History(_ context.Context, _ string, _ int) ([]*entity.Message, error) {
	return m.history, m.historyErr
}

func (m *mockUsecase) ClearHistory(_ context.Context, sessionID string) error {
	m.clearedID = sessionID
	return nil
}

func (m *mockUsecase) ExportTranscript(_ context.Context, sessionID string, format entity.ResultFormat, _ int) (*entity.TranscriptFile, error) {
	m.exportedFmt = format
	return &entity.TranscriptFile{
		Content:     []byte("transcript body"),
		ContentType: "text/markdown; charset=utf-8",
		Filename:    "transcript-" + sessionID + ".md",
	}, nil
}

func newTestRouter(uc ChatUsecase) http.Handler {
	r := chi.NewRouter()
	RegisterRoutes(r, NewHandler(uc, validator.NewValidator(100), 50))
	return r
}

func TestChat_ReturnsBotResponse(t *testing.T) {
	uc := &mockUsecase{response: "We are open 9 to 5."}
	router := newTestRouter(uc)

	body, _ := json.Marshal(entity.ChatRequest{SessionID: "s1", Message: "when are you open?"})
	req := httptest.NewRequest(http.MethodPost, "/chat", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp entity.ChatResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Response != "We are open 9 to 5." {
		t.Errorf("unexpected response: %q", resp.Response)
	}
}

func TestChat_PersistsBothTurns(t *testing.T) {
	uc := &mockUsecase{response: "an answer"}
	router := newTestRouter(uc)

	body, _ := json.Marshal(entity.ChatRequest{SessionID: "s1", Message: "a question"})
	req := httptest.NewRequest(http.MethodPost, "/chat", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if len(uc.savedTurns) != 2 {
		t.Fatalf("expected 2 saved turns, got %d", len(uc.savedTurns))
	}
	if uc.savedTurns[0] != "user:a question" {
		t.Errorf("first saved turn should be the user message, got %q", uc.savedTurns[0])
	}
	if uc.savedTurns[1] != "bot:an answer" {
		t.Errorf("second saved turn should be the bot reply, got %q", uc.savedTurns[1])
	}
}

func TestChat_RejectsInvalidBody(t *testing.T) {
	router := newTestRouter(&mockUsecase{})

	req := httptest.NewRequest(http.MethodPost, "/chat", bytes.NewReader([]byte("{not json")))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestChat_RejectsMissingFields(t *testing.T) {
	router := newTestRouter(&mockUsecase{})

	tests := []entity.ChatRequest{
		{SessionID: "", Message: "a question"},
		{SessionID: "s1", Message: ""},
		{SessionID: "  ", Message: "a question"},
	}

	for _, tt := range tests {
		body, _ := json.Marshal(tt)
		req := httptest.NewRequest(http.MethodPost, "/chat", bytes.NewReader(body))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("request %+v: expected 400, got %d", tt, rec.Code)
		}
	}
}

func TestChat_RejectsOversizedMessage(t *testing.T) {
	router := newTestRouter(&mockUsecase{})

	long := make([]byte, 101)
	for i := range long {
		long[i] = 'a'
	}
	body, _ := json.Marshal(entity.ChatRequest{SessionID: "s1", Message: string(long)})
	req := httptest.NewRequest(http.MethodPost, "/chat", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestGetHistory_ReturnsMessages(t *testing.T) {
	uc := &mockUsecase{history: []*entity.Message{
		{Sender: entity.SenderUser, Message: "a question"},
		{Sender: entity.SenderBot, Message: "an answer"},
	}}
	router := newTestRouter(uc)

	req := httptest.NewRequest(http.MethodGet, "/history/s1", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var items []entity.HistoryItemDTO
	if err := json.Unmarshal(rec.Body.Bytes(), &items); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	if items[0].Sender != entity.SenderUser || items[0].Message != "a question" {
		t.Errorf("unexpected first item: %+v", items[0])
	}
}

func TestGetHistory_EmptySessionReturnsEmptyList(t *testing.T) {
	router := newTestRouter(&mockUsecase{})

	req := httptest.NewRequest(http.MethodGet, "/history/unknown", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if body := rec.Body.String(); body != "[]\n" {
		t.Errorf("expected empty JSON array, got %q", body)
	}
}

func TestGetHistory_RepositoryError(t *testing.T) {
	uc := &mockUsecase{historyErr: errors.New("db down")}
	router := newTestRouter(uc)

	req := httptest.NewRequest(http.MethodGet, "/history/s1", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", rec.Code)
	}
}

func TestClearHistory_ReturnsNoContent(t *testing.T) {
	uc := &mockUsecase{}
	router := newTestRouter(uc)

	req := httptest.NewRequest(http.MethodDelete, "/history/s1", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if uc.clearedID != "s1" {
		t.Errorf("expected session s1 cleared, got %q", uc.clearedID)
	}
}

func TestExportHistory_DefaultsToMarkdown(t *testing.T) {
	uc := &mockUsecase{}
	router := newTestRouter(uc)

	req := httptest.NewRequest(http.MethodGet, "/history/s1/export", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if uc.exportedFmt != entity.FormatMarkdown {
		t.Errorf("expected markdown format, got %q", uc.exportedFmt)
	}
	if cd := rec.Header().Get("Content-Disposition"); cd != `attachment; filename="transcript-s1.md"` {
		t.Errorf("unexpected content disposition: %q", cd)
	}
}

func TestExportHistory_RejectsUnknownFormat(t *testing.T) {
	router := newTestRouter(&mockUsecase{})

	req := httptest.NewRequest(http.MethodGet, "/history/s1/export?format=xlsx", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}
