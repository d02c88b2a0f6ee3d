package handlers_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"diary-recall/internal/handlers"
	"diary-recall/internal/rag"
	rag_mocks "diary-recall/internal/rag/mocks"

	"go.uber.org/mock/gomock"
)

func TestAskHandler(t *testing.T) {
	tests := []struct {
		name       string
		method     string
		body       string
		setup      func(engine *rag_mocks.MockEngine)
		wantStatus int
		wantAnswer string
		wantMode   string
	}{
		{
			name:   "successful question",
			method: http.MethodPost,
			body:   `{"question":"我去了广州吗"}`,
			setup: func(engine *rag_mocks.MockEngine) {
				engine.EXPECT().
					Ask(gomock.Any(), rag.AskRequest{Question: "我去了广州吗"}).
					Return(rag.AskResponse{Answer: "去了。", Mode: rag.ModeTrip}, nil)
			},
			wantStatus: http.StatusOK,
			wantAnswer: "去了。",
			wantMode:   "trip",
		},
		{
			name:       "empty question",
			method:     http.MethodPost,
			body:       `{"question":""}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "invalid body",
			method:     http.MethodPost,
			body:       `{not json`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "wrong method",
			method:     http.MethodGet,
			body:       "",
			wantStatus: http.StatusMethodNotAllowed,
		},
		{
			name:   "engine failure",
			method: http.MethodPost,
			body:   `{"question":"问题"}`,
			setup: func(engine *rag_mocks.MockEngine) {
				engine.EXPECT().
					Ask(gomock.Any(), gomock.Any()).
					Return(rag.AskResponse{}, errors.New("model server down"))
			},
			wantStatus: http.StatusBadGateway,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			engine := rag_mocks.NewMockEngine(ctrl)
			if tt.setup != nil {
				tt.setup(engine)
			}

			handler := handlers.NewAskHandler(engine)
			req := httptest.NewRequest(tt.method, "/api/ask", bytes.NewBufferString(tt.body))
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if tt.wantStatus != http.StatusOK {
				return
			}

			var resp handlers.AskResponse
			if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
				t.Fatalf("failed to decode response: %v", err)
			}
			if resp.Answer != tt.wantAnswer {
				t.Errorf("answer = %q, want %q", resp.Answer, tt.wantAnswer)
			}
			if resp.Mode != tt.wantMode {
				t.Errorf("mode = %q, want %q", resp.Mode, tt.wantMode)
			}
		})
	}
}
