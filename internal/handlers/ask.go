package handlers

import (
	"encoding/json"
	"net/http"

	"diary-recall/internal/contextutil"
	"diary-recall/internal/rag"
)

// AskHandler handles HTTP requests for diary questions.
type AskHandler struct {
	engine rag.Engine
}

// NewAskHandler creates a new AskHandler.
func NewAskHandler(engine rag.Engine) *AskHandler {
	return &AskHandler{engine: engine}
}

// AskRequest is the HTTP request payload for diary questions.
type AskRequest struct {
	Question string `json:"question"`
}

// AskResponse is the HTTP response payload for diary questions.
type AskResponse struct {
	Answer  string       `json:"answer"`
	Mode    string       `json:"mode"`
	Results []rag.Result `json:"results,omitempty"`
}

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

func (h *AskHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if r.Method != http.MethodPost {
		logger.WarnContext(ctx, "method not allowed", "method", r.Method)
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req AskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.WarnContext(ctx, "invalid request body", "error", err)
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Question == "" {
		logger.WarnContext(ctx, "empty question in request")
		writeError(w, http.StatusBadRequest, "Question is required")
		return
	}

	resp, err := h.engine.Ask(ctx, rag.AskRequest{Question: req.Question})
	if err != nil {
		logger.ErrorContext(ctx, "failed to answer question", "error", err)
		writeError(w, http.StatusBadGateway, "Failed to answer question")
		return
	}

	writeJSON(ctx, w, http.StatusOK, AskResponse{
		Answer:  resp.Answer,
		Mode:    string(resp.Mode),
		Results: resp.Results,
	})
}
