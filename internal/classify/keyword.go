package classify

import (
	"context"
	"strings"
	"unicode"

	"github.com/agrostack/agridocs/internal/core/domain"
	"github.com/agrostack/agridocs/internal/policy"
)

const MethodKeyword = "keyword"

// KeywordStrategy scores documents against fixed per-category vocabularies.
// Always available; serves as the cascade's floor.
type KeywordStrategy struct {
	extendedLangs bool
}

func NewKeywordStrategy(extendedLangs bool) *KeywordStrategy {
	return &KeywordStrategy{extendedLangs: extendedLangs}
}

func (s *KeywordStrategy) Name() string    { return MethodKeyword }
func (s *KeywordStrategy) Available() bool { return true }

// Attempt scores every category and returns the best one. Score per
// category: one point per distinct keyword present, half per synonym, plus
// a small bonus per repeat beyond the first occurrence. Confidence divides
// by the keyword-table size so sparse matches stay below threshold. Ties
// resolve to the earlier category in canonical order.
func (s *KeywordStrategy) Attempt(_ context.Context, text string) (*domain.ClassificationResult, error) {
	normalized := strings.ToLower(text)
	if strings.TrimSpace(normalized) == "" {
		return nil, nil
	}
	wordCounts := countWords(normalized)

	var best *domain.ClassificationResult
	var bestScore float64

	for _, category := range domain.Categories {
		table := englishTerms[category]
		score, matched := s.scoreCategory(normalized, wordCounts, category, table)
		if score <= 0 {
			continue
		}
		confidence := score / (float64(len(table.Keywords)) * policy.ConfidenceDivisor)
		if confidence > 1.0 {
			confidence = 1.0
		}
		if best == nil || score > bestScore {
			bestScore = score
			best = &domain.ClassificationResult{
				Category:     category,
				Confidence:   confidence,
				Method:       MethodKeyword,
				MatchedTerms: matched,
			}
		}
	}
	return best, nil
}

func (s *KeywordStrategy) scoreCategory(
	text string,
	wordCounts map[string]int,
	category domain.Category,
	table termTable,
) (float64, []string) {
	var score float64
	var matched []string

	scoreTerms := func(terms []string, weight float64) {
		for _, term := range terms {
			count := countTerm(text, wordCounts, term)
			if count == 0 {
				continue
			}
			score += weight
			if count > 1 {
				score += policy.RepeatWeight * float64(count-1)
			}
			matched = append(matched, term)
		}
	}

	scoreTerms(table.Keywords, 1.0)
	scoreTerms(table.Synonyms, policy.SynonymWeight)
	if s.extendedLangs {
		extra := chineseTerms[category]
		scoreTerms(extra.Keywords, 1.0)
		scoreTerms(extra.Synonyms, policy.SynonymWeight)
	}
	return score, matched
}

// MatchedTerms reports which of a category's terms appear in the text,
// for display alongside a classification.
func MatchedTerms(text string, category domain.Category) []string {
	normalized := strings.ToLower(text)
	wordCounts := countWords(normalized)

	var matched []string
	table := englishTerms[category]
	for _, term := range append(append([]string{}, table.Keywords...), table.Synonyms...) {
		if countTerm(normalized, wordCounts, term) > 0 {
			matched = append(matched, term)
		}
	}
	return matched
}

// countTerm counts whole-word occurrences for single ASCII words and falls
// back to substring counting for phrases and non-Latin terms.
func countTerm(text string, wordCounts map[string]int, term string) int {
	if isSimpleWord(term) {
		return wordCounts[term]
	}
	return strings.Count(text, term)
}

func isSimpleWord(term string) bool {
	for _, r := range term {
		if r == ' ' || r > unicode.MaxASCII {
			return false
		}
	}
	return true
}

func countWords(text string) map[string]int {
	counts := make(map[string]int)
	for _, word := range strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	}) {
		counts[word]++
	}
	return counts
}
