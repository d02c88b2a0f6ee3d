package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestNewClient(t *testing.T) {
	client := NewClient("http://localhost:1234", "test-key", "test-model")
	if client == nil {
		t.Fatal("NewClient() returned nil")
	}
	if client.BaseURL != "http://localhost:1234" {
		t.Errorf("NewClient() BaseURL = %v, want http://localhost:1234", client.BaseURL)
	}
	if client.APIKey != "test-key" {
		t.Errorf("NewClient() APIKey = %v, want test-key", client.APIKey)
	}
	if client.Model != "test-model" {
		t.Errorf("NewClient() Model = %v, want test-model", client.Model)
	}
	if client.client == nil {
		t.Error("NewClient() client should not be nil")
	}
}

func TestClient_Complete(t *testing.T) {
	tests := []struct {
		name       string
		prompt     string
		serverResp func(t *testing.T, w http.ResponseWriter, r *http.Request)
		wantReply  string
		wantErr    bool
	}{
		{
			name:   "successful completion",
			prompt: "你好",
			serverResp: func(t *testing.T, w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodPost {
					t.Errorf("expected POST, got %s", r.Method)
				}
				if r.URL.Path != "/v1/chat/completions" {
					t.Errorf("expected /v1/chat/completions, got %s", r.URL.Path)
				}
				if !strings.Contains(r.Header.Get("Authorization"), "Bearer") {
					t.Error("missing Authorization header")
				}

				var req ChatRequest
				if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
					t.Fatalf("failed to decode request: %v", err)
				}
				if req.MaxTokens != 100 {
					t.Errorf("max_tokens = %d, want 100", req.MaxTokens)
				}
				if req.Temperature != 0.5 {
					t.Errorf("temperature = %v, want 0.5", req.Temperature)
				}
				if req.Stream {
					t.Error("stream should be false")
				}

				resp := ChatResponse{
					ID:     "test-id",
					Object: "chat.completion",
					Choices: []ChatChoice{
						{
							Index: 0,
							Message: ChatChoiceMessage{
								Role:    "assistant",
								Content: "  你好！  ",
							},
							FinishReason: "stop",
						},
					},
				}
				w.Header().Set("Content-Type", "application/json")
				_ = json.NewEncoder(w).Encode(resp)
			},
			wantReply: "你好！",
		},
		{
			name:   "no choices returned",
			prompt: "你好",
			serverResp: func(t *testing.T, w http.ResponseWriter, r *http.Request) {
				resp := ChatResponse{ID: "test-id", Object: "chat.completion"}
				w.Header().Set("Content-Type", "application/json")
				_ = json.NewEncoder(w).Encode(resp)
			},
			wantErr: true,
		},
		{
			name:   "server error",
			prompt: "你好",
			serverResp: func(t *testing.T, w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
				_, _ = w.Write([]byte("internal server error"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				tt.serverResp(t, w, r)
			}))
			defer server.Close()

			client := NewClient(server.URL, "test-key", "test-model")
			got, err := client.Complete(context.Background(), tt.prompt, 100, 0.5)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Complete() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.wantReply {
				t.Errorf("Complete() = %q, want %q", got, tt.wantReply)
			}
		})
	}
}

func TestClient_Complete_ContextCanceled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer server.Close()

	client := NewClient(server.URL, "", "test-model")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := client.Complete(ctx, "你好", 10, 0); err == nil {
		t.Fatal("Complete() with canceled context should fail")
	}
}
