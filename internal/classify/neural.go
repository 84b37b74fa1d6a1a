package classify

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
	"github.com/agrostack/agridocs/internal/policy"
)

const MethodNeural = "neural"

// labelCategories maps the inference server's positional labels onto the
// canonical category order. Labels outside the table produce no result.
var labelCategories = map[string]domain.Category{
	"LABEL_0": domain.CategoryPlanting,
	"LABEL_1": domain.CategoryLivestock,
	"LABEL_2": domain.CategoryInputsSoil,
	"LABEL_3": domain.CategoryAgriFinance,
	"LABEL_4": domain.CategorySupplyChainStorage,
	"LABEL_5": domain.CategoryClimateRemoteSensing,
	"LABEL_6": domain.CategoryAgriIoT,
}

// NeuralStrategy calls a local text-classification inference sidecar. The
// model reads a bounded window from the head of the document.
type NeuralStrategy struct {
	baseURL    string
	httpClient *http.Client
	registry   *engine.Registry
}

func NewNeuralStrategy(baseURL string, registry *engine.Registry) *NeuralStrategy {
	return &NeuralStrategy{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
		registry:   registry,
	}
}

func (s *NeuralStrategy) Name() string { return MethodNeural }

func (s *NeuralStrategy) Available() bool {
	return s.baseURL != "" && s.registry.Available(engine.NeuralClassifier)
}

func (s *NeuralStrategy) Attempt(ctx context.Context, text string) (*domain.ClassificationResult, error) {
	window := text
	if runes := []rune(window); len(runes) > policy.NeuralWindowRunes {
		window = string(runes[:policy.NeuralWindowRunes])
	}

	payload := map[string]any{"text": window}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal classify request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/classify", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create classify request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, domain.WrapError(domain.ErrTransient, "neural classify", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return nil, domain.WrapError(domain.ErrTransient, "neural classify",
			fmt.Errorf("status %s: %s", resp.Status, strings.TrimSpace(string(raw))))
	}

	var response struct {
		Label string  `json:"label"`
		Score float64 `json:"score"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return nil, fmt.Errorf("decode classify response: %w", err)
	}

	category, ok := labelCategories[response.Label]
	if !ok {
		return nil, nil
	}
	return &domain.ClassificationResult{
		Category:     category,
		Confidence:   response.Score,
		Method:       MethodNeural,
		MatchedTerms: MatchedTerms(text, category),
	}, nil
}
