package chat

import (
	"encoding/json"
	"net/http"

	"github.com/futig/support-bot/internal/entity"
	"github.com/futig/support-bot/internal/pkg/logger"
	"github.com/futig/support-bot/internal/pkg/response"
	"github.com/futig/support-bot/internal/pkg/validator"
	"github.com/go-chi/chi/v5"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

type Handler struct {
	usecase      ChatUsecase
	validator    *validator.Validator
	historyLimit int
}

func NewHandler(
	usecase ChatUsecase,
	validator *validator.Validator,
	historyLimit int,
) *Handler {
	return &Handler{
		usecase:      usecase,
		validator:    validator,
		historyLimit: historyLimit,
	}
}

// Chat handles POST /chat - one full conversation turn
func (h *Handler) Chat(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "Chat")

	var req entity.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		ctxzap.Error(ctx, "failed to decode request body", zap.Error(err))
		response.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.validator.ValidateChat(&req); err != nil {
		ctxzap.Error(ctx, "failed to validate request", zap.Error(err))
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx = logger.WithSession(ctx, req.SessionID)

	// Persistence is best-effort: the user still gets an answer when a
	// write fails, but later turns will miss this one in their history.
	if err := h.usecase.SaveTurn(ctx, req.SessionID, entity.SenderUser, req.Message); err != nil {
		ctxzap.Error(ctx, "save user message", zap.Error(err))
	}

	botResponse := h.usecase.GetResponse(ctx, req.SessionID, req.Message)

	if err := h.usecase.SaveTurn(ctx, req.SessionID, entity.SenderBot, botResponse); err != nil {
		ctxzap.Error(ctx, "save bot message", zap.Error(err))
	}

	response.Success(w, entity.ChatResponse{Response: botResponse})
}

// GetHistory handles GET /history/{session_id}
func (h *Handler) GetHistory(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "GetHistory")

	sessionID := chi.URLParam(r, "session_id")
	if err := h.validator.ValidateSessionID(sessionID); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	messages, err := h.usecase.History(ctx, sessionID, h.historyLimit)
	if err != nil {
		ctxzap.Error(ctx, "failed to load history", zap.Error(err))
		response.Error(w, http.StatusInternalServerError, "failed to load history")
		return
	}

	response.Success(w, toHistoryDTO(messages))
}

// ClearHistory handles DELETE /history/{session_id}
func (h *Handler) ClearHistory(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "ClearHistory")

	sessionID := chi.URLParam(r, "session_id")
	if err := h.validator.ValidateSessionID(sessionID); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.usecase.ClearHistory(ctx, sessionID); err != nil {
		ctxzap.Error(ctx, "failed to clear history", zap.Error(err))
		response.Error(w, http.StatusInternalServerError, "failed to clear history")
		return
	}

	response.NoContent(w)
}

// ExportHistory handles GET /history/{session_id}/export?format=md|pdf|docx
func (h *Handler) ExportHistory(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "ExportHistory")

	sessionID := chi.URLParam(r, "session_id")
	if err := h.validator.ValidateSessionID(sessionID); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	format := entity.ResultFormat(r.URL.Query().Get("format"))
	if format == "" {
		format = entity.FormatMarkdown
	}
	if err := format.Validate(); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	file, err := h.usecase.ExportTranscript(ctx, sessionID, format, h.historyLimit)
	if err != nil {
		ctxzap.Error(ctx, "failed to export transcript", zap.Error(err))
		response.Error(w, http.StatusInternalServerError, "failed to export transcript")
		return
	}

	response.Attachment(w, file.Filename, file.ContentType, file.Content)
}
