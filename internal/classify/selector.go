// Package classify assigns documents to the fixed category set by running
// an ordered cascade of strategies, strongest first.
package classify

import (
	"context"
	"log/slog"

	"github.com/agrostack/agridocs/internal/core/domain"
	"github.com/agrostack/agridocs/internal/policy"
)

// Strategy is one classification method in the cascade. Attempt returning
// (nil, nil) means "no answer" and moves the cascade along; an error does
// the same but is logged.
type Strategy interface {
	Name() string
	Available() bool
	Attempt(ctx context.Context, text string) (*domain.ClassificationResult, error)
}

type Selector struct {
	strategies []Strategy
	log        *slog.Logger
}

func NewSelector(log *slog.Logger, strategies ...Strategy) *Selector {
	if log == nil {
		log = slog.Default()
	}
	return &Selector{strategies: strategies, log: log}
}

// Classify runs the cascade in order and returns the first result at or
// above the confidence threshold. Sub-threshold answers are discarded, not
// returned: the terminal outcome is always the canonical Unclassified
// result, never a low-confidence guess.
func (s *Selector) Classify(ctx context.Context, text string) (domain.ClassificationResult, error) {
	for _, strategy := range s.strategies {
		if !strategy.Available() {
			continue
		}
		result, err := strategy.Attempt(ctx, text)
		if err != nil {
			s.log.Warn("classify_strategy_failed",
				"strategy", strategy.Name(),
				"error", err,
			)
			continue
		}
		if result == nil {
			continue
		}
		if result.Confidence < policy.MinClassifyConfidence {
			s.log.Debug("classify_below_threshold",
				"strategy", strategy.Name(),
				"category", string(result.Category),
				"confidence", result.Confidence,
			)
			continue
		}
		return *result, nil
	}
	return domain.Unclassified(), nil
}
