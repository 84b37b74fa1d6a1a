// Package summarize derives summaries and key phrases from extracted text.
// The remote model is used when configured; a rule-based sentence scorer
// covers every other case, so summarization never fails.
package summarize

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"unicode"

	"github.com/agrostack/agridocs/internal/classify"
	"github.com/agrostack/agridocs/internal/core/domain"
	"github.com/agrostack/agridocs/internal/core/ports"
	"github.com/agrostack/agridocs/internal/policy"
)

type Service struct {
	model ports.RemoteModel
	log   *slog.Logger

	importantTerms map[string]struct{}
}

func NewService(model ports.RemoteModel, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	terms := make(map[string]struct{})
	for _, term := range classify.Vocabulary() {
		terms[strings.ToLower(term)] = struct{}{}
	}
	return &Service{model: model, log: log, importantTerms: terms}
}

// KeyPhrases and Fields delegate to the package-level helpers so the
// service satisfies the full summarizer port.
func (s *Service) KeyPhrases(text string) []string {
	return KeyPhrases(text)
}

func (s *Service) Fields(text string) domain.AgronomyFields {
	return ExtractFields(text)
}

// Summarize prefers the remote model for texts long enough to warrant it
// and falls back to rule-based sentence scoring on any model problem.
func (s *Service) Summarize(ctx context.Context, text string) string {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return ""
	}

	if s.model != nil && len([]rune(trimmed)) >= policy.ModelSummaryMinRunes {
		if summary, ok := s.modelSummary(ctx, trimmed); ok {
			return summary
		}
	}
	return s.ruleSummary(trimmed)
}

func (s *Service) modelSummary(ctx context.Context, text string) (string, bool) {
	window := text
	if runes := []rune(window); len(runes) > policy.ModelSummaryWindow {
		window = string(runes[:policy.ModelSummaryWindow])
	}

	messages := []domain.ChatMessage{
		{Role: "system", Content: "You summarize agricultural documents in two or three plain sentences."},
		{Role: "user", Content: "Summarize this document:\n\n" + window},
	}
	completion, err := s.model.Complete(ctx, messages, 300, 0.3)
	if err != nil {
		s.log.Warn("model_summary_failed", "error", err)
		return "", false
	}
	summary := strings.TrimSpace(completion.Text)
	if summary == "" {
		return "", false
	}
	return capRunes(summary, policy.SummaryMaxRunes), true
}

// ruleSummary scores sentences by length, important-term hits, and
// position, then joins the top ones in document order.
func (s *Service) ruleSummary(text string) string {
	sentences := splitSentences(text)
	if len(sentences) == 0 {
		return capRunes(text, policy.SummaryMaxRunes)
	}

	type scored struct {
		index int
		score int
	}
	var candidates []scored
	for i, sentence := range sentences {
		runeLen := len([]rune(sentence))
		if runeLen < policy.SummarySentenceFloor {
			continue
		}
		score := runeLen
		for _, word := range tokenizeWords(sentence) {
			if _, ok := s.importantTerms[word]; ok {
				score += policy.SummaryKeywordBonus
			}
		}
		if i < 2 || i >= len(sentences)-2 {
			score += policy.SummaryPositionBonus
		}
		candidates = append(candidates, scored{index: i, score: score})
	}
	if len(candidates) == 0 {
		return capRunes(text, policy.SummaryMaxRunes)
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})
	if len(candidates) > policy.SummaryTopSentences {
		candidates = candidates[:policy.SummaryTopSentences]
	}
	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].index < candidates[j].index
	})

	parts := make([]string, 0, len(candidates))
	for _, c := range candidates {
		parts = append(parts, sentences[c.index])
	}
	return capRunes(strings.Join(parts, ". "), policy.SummaryMaxRunes)
}

func splitSentences(text string) []string {
	raw := strings.FieldsFunc(text, func(r rune) bool {
		switch r {
		case '.', '!', '?', '\n', '。', '！', '？':
			return true
		}
		return false
	})
	sentences := make([]string, 0, len(raw))
	for _, s := range raw {
		s = strings.TrimSpace(s)
		if s != "" {
			sentences = append(sentences, s)
		}
	}
	return sentences
}

func tokenizeWords(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
}

func capRunes(text string, limit int) string {
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit])
}
