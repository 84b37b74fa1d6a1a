package speech

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/agrostack/agridocs/internal/core/domain"
	"github.com/agrostack/agridocs/internal/engine"
	"github.com/agrostack/agridocs/internal/infrastructure/resilience"
)

// OnlineEngine posts audio to a hosted transcription endpoint. Calls go
// through the resilience executor, so a transient failure is retried once
// and a persistently failing endpoint trips the breaker.
type OnlineEngine struct {
	url        string
	httpClient *http.Client
	executor   *resilience.Executor
}

func NewOnlineEngine(url string, executor *resilience.Executor) *OnlineEngine {
	return &OnlineEngine{
		url:        strings.TrimRight(url, "/"),
		httpClient: &http.Client{Timeout: 120 * time.Second},
		executor:   executor,
	}
}

func (e *OnlineEngine) Name() string { return engine.OnlineSpeech }

func (e *OnlineEngine) Transcribe(ctx context.Context, audio []byte) (string, error) {
	var text string
	err := e.executor.Do(ctx, "online_transcribe", func(ctx context.Context) error {
		result, err := e.transcribeOnce(ctx, audio)
		if err != nil {
			return err
		}
		text = result
		return nil
	}, func(err error) bool {
		return domain.IsKind(err, domain.ErrTransient)
	})
	return text, err
}

func (e *OnlineEngine) transcribeOnce(ctx context.Context, audio []byte) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.url+"/transcribe", bytes.NewReader(audio))
	if err != nil {
		return "", fmt.Errorf("create transcribe request: %w", err)
	}
	req.Header.Set("Content-Type", "application/octet-stream")

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return "", domain.WrapError(domain.ErrTransient, "online transcribe", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 500 {
		return "", domain.WrapError(domain.ErrTransient, "online transcribe",
			fmt.Errorf("status %s", resp.Status))
	}
	if resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return "", domain.WrapError(domain.ErrInvalidInput, "online transcribe",
			fmt.Errorf("status %s: %s", resp.Status, strings.TrimSpace(string(raw))))
	}

	var response struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return "", fmt.Errorf("decode transcribe response: %w", err)
	}
	return strings.TrimSpace(response.Text), nil
}
