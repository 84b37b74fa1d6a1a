package deepseek

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/agrostack/agridocs/internal/core/domain"
	"github.com/agrostack/agridocs/internal/infrastructure/resilience"
)

func testExecutor() *resilience.Executor {
	return resilience.NewExecutor(resilience.Config{
		MaxAttempts:    2,
		Backoff:        time.Millisecond,
		BreakerEnabled: false,
	}, nil)
}

func chatResponse(content, finishReason string) map[string]any {
	return map[string]any{
		"choices": []map[string]any{
			{
				"message":       map[string]string{"content": content},
				"finish_reason": finishReason,
			},
		},
		"usage": map[string]int{"prompt_tokens": 42, "completion_tokens": 7},
	}
}

func TestCompleteSuccess(t *testing.T) {
	var gotAuth string
	var gotPayload map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewDecoder(r.Body).Decode(&gotPayload)
		_ = json.NewEncoder(w).Encode(chatResponse("The report covers maize yields.", "stop"))
	}))
	defer server.Close()

	client := New(server.URL, "sk-test", "deepseek-chat", testExecutor())
	completion, err := client.Complete(context.Background(),
		[]domain.ChatMessage{{Role: "user", Content: "summarize"}}, 4000, 0.7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if completion.Text != "The report covers maize yields." {
		t.Fatalf("unexpected text: %q", completion.Text)
	}
	if completion.FinishReason != "stop" {
		t.Fatalf("unexpected finish reason: %q", completion.FinishReason)
	}
	if completion.PromptTokens != 42 || completion.CompletionTokens != 7 {
		t.Fatalf("unexpected usage: %+v", completion)
	}
	if gotAuth != "Bearer sk-test" {
		t.Fatalf("unexpected auth header: %q", gotAuth)
	}
	if gotPayload["model"] != "deepseek-chat" {
		t.Fatalf("unexpected model: %v", gotPayload["model"])
	}
	if gotPayload["max_tokens"].(float64) != 4000 {
		t.Fatalf("unexpected max_tokens: %v", gotPayload["max_tokens"])
	}
}

func TestCompleteMissingKeyIsConfigurationError(t *testing.T) {
	client := New("http://unused", "", "deepseek-chat", testExecutor())
	_, err := client.Complete(context.Background(), nil, 100, 0)
	if !domain.IsKind(err, domain.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}

func TestCompleteUnauthorizedIsConfigurationError(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		http.Error(w, "invalid key", http.StatusUnauthorized)
	}))
	defer server.Close()

	client := New(server.URL, "sk-bad", "deepseek-chat", testExecutor())
	_, err := client.Complete(context.Background(),
		[]domain.ChatMessage{{Role: "user", Content: "hi"}}, 100, 0)
	if !domain.IsKind(err, domain.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
	if calls != 1 {
		t.Fatalf("configuration errors must not be retried, got %d calls", calls)
	}
}

func TestCompleteRetriesServerErrorOnce(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			http.Error(w, "overloaded", http.StatusInternalServerError)
			return
		}
		_ = json.NewEncoder(w).Encode(chatResponse("ok", "stop"))
	}))
	defer server.Close()

	client := New(server.URL, "sk-test", "deepseek-chat", testExecutor())
	completion, err := client.Complete(context.Background(),
		[]domain.ChatMessage{{Role: "user", Content: "hi"}}, 100, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if completion.Text != "ok" || calls != 2 {
		t.Fatalf("expected success on retry, text=%q calls=%d", completion.Text, calls)
	}
}

func TestCompleteLengthFinishReasonSurfaces(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(chatResponse("partial answer", "length"))
	}))
	defer server.Close()

	client := New(server.URL, "sk-test", "deepseek-chat", testExecutor())
	completion, err := client.Complete(context.Background(),
		[]domain.ChatMessage{{Role: "user", Content: "hi"}}, 10, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if completion.FinishReason != "length" {
		t.Fatalf("finish reason must pass through, got %q", completion.FinishReason)
	}
}
