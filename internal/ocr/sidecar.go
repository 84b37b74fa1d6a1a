package ocr

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/agrostack/agridocs/internal/core/domain"
	"github.com/agrostack/agridocs/internal/engine"
)

// SidecarEngine talks to the neural OCR inference sidecar. The model is
// heavy, so it is loaded lazily through /load on first use; recognition
// posts the image to /recognize.
type SidecarEngine struct {
	baseURL    string
	httpClient *http.Client
}

func NewSidecarEngine(baseURL string) *SidecarEngine {
	return &SidecarEngine{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 120 * time.Second},
	}
}

func (e *SidecarEngine) Name() string { return engine.NeuralOCR }

func (e *SidecarEngine) Load(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.baseURL+"/load", nil)
	if err != nil {
		return fmt.Errorf("create load request: %w", err)
	}
	resp, err := e.httpClient.Do(req)
	if err != nil {
		return domain.WrapError(domain.ErrUnavailable, "ocr sidecar load", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusInsufficientStorage || resp.StatusCode == http.StatusTooManyRequests:
		return domain.WrapError(domain.ErrResourceExhausted, "ocr sidecar load",
			fmt.Errorf("status %s", resp.Status))
	case resp.StatusCode >= 300:
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return domain.WrapError(domain.ErrUnavailable, "ocr sidecar load",
			fmt.Errorf("status %s: %s", resp.Status, strings.TrimSpace(string(raw))))
	}
	return nil
}

func (e *SidecarEngine) Recognize(ctx context.Context, imagePath string) ([]Fragment, error) {
	data, err := os.ReadFile(imagePath)
	if err != nil {
		return nil, fmt.Errorf("read image: %w", err)
	}

	payload := map[string]any{
		"image": base64.StdEncoding.EncodeToString(data),
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal recognize request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.baseURL+"/recognize", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create recognize request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return nil, domain.WrapError(domain.ErrTransient, "ocr sidecar recognize", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return nil, domain.WrapError(domain.ErrTransient, "ocr sidecar recognize",
			fmt.Errorf("status %s: %s", resp.Status, strings.TrimSpace(string(raw))))
	}

	var response struct {
		Fragments []Fragment `json:"fragments"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return nil, fmt.Errorf("decode recognize response: %w", err)
	}
	return response.Fragments, nil
}
