package entity

// ChatRequest is the POST /chat request body.
type ChatRequest struct {
	SessionID string `json:"session_id"`
	Message   string `json:"message"`
}

// ChatResponse is the POST /chat response body.
type ChatResponse struct {
	Response string `json:"response"`
}

// HistoryItemDTO is one conversation turn as exposed by GET /history.
type HistoryItemDTO struct {
	Sender  Sender `json:"sender"`
	Message string `json:"message"`
}
