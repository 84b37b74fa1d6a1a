// Package deepseek is the chat-completions client for the hosted model.
package deepseek

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/agrostack/agridocs/internal/core/domain"
	"github.com/agrostack/agridocs/internal/infrastructure/resilience"
)

type Client struct {
	apiURL     string
	apiKey     string
	model      string
	httpClient *http.Client
	executor   *resilience.Executor
}

func New(apiURL, apiKey, model string, executor *resilience.Executor) *Client {
	return &Client{
		apiURL:     apiURL,
		apiKey:     apiKey,
		model:      model,
		httpClient: &http.Client{Timeout: 120 * time.Second},
		executor:   executor,
	}
}

func (c *Client) Model() string { return c.model }

// Complete sends the conversation and returns the first choice. Transient
// failures (network, timeout, 5xx) are retried once through the executor;
// credential problems are configuration errors and never retried.
func (c *Client) Complete(
	ctx context.Context,
	messages []domain.ChatMessage,
	maxTokens int,
	temperature float64,
) (domain.Completion, error) {
	if c.apiKey == "" {
		return domain.Completion{}, domain.WrapError(domain.ErrConfiguration, "remote model",
			errors.New("DEEPSEEK_API_KEY is not set"))
	}

	var completion domain.Completion
	err := c.executor.Do(ctx, "deepseek_complete", func(ctx context.Context) error {
		result, err := c.completeOnce(ctx, messages, maxTokens, temperature)
		if err != nil {
			return err
		}
		completion = result
		return nil
	}, func(err error) bool {
		return domain.IsKind(err, domain.ErrTransient)
	})
	return completion, err
}

func (c *Client) completeOnce(
	ctx context.Context,
	messages []domain.ChatMessage,
	maxTokens int,
	temperature float64,
) (domain.Completion, error) {
	payload := map[string]any{
		"model":       c.model,
		"messages":    messages,
		"max_tokens":  maxTokens,
		"temperature": temperature,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return domain.Completion{}, fmt.Errorf("marshal completion request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, bytes.NewReader(body))
	if err != nil {
		return domain.Completion{}, fmt.Errorf("create completion request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.Completion{}, domain.WrapError(domain.ErrTransient, "remote model", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return domain.Completion{}, domain.WrapError(domain.ErrConfiguration, "remote model",
			errors.New("API key rejected"))
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return domain.Completion{}, domain.WrapError(domain.ErrTransient, "remote model",
			fmt.Errorf("status %s", resp.Status))
	case resp.StatusCode >= 300:
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return domain.Completion{}, domain.WrapError(domain.ErrInvalidInput, "remote model",
			fmt.Errorf("status %s: %s", resp.Status, strings.TrimSpace(string(raw))))
	}

	var response struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
			FinishReason string `json:"finish_reason"`
		} `json:"choices"`
		Usage struct {
			PromptTokens     int `json:"prompt_tokens"`
			CompletionTokens int `json:"completion_tokens"`
		} `json:"usage"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return domain.Completion{}, fmt.Errorf("decode completion response: %w", err)
	}
	if len(response.Choices) == 0 {
		return domain.Completion{}, domain.WrapError(domain.ErrTransient, "remote model",
			errors.New("empty choices in response"))
	}

	choice := response.Choices[0]
	return domain.Completion{
		Text:             choice.Message.Content,
		FinishReason:     choice.FinishReason,
		PromptTokens:     response.Usage.PromptTokens,
		CompletionTokens: response.Usage.CompletionTokens,
	}, nil
}
