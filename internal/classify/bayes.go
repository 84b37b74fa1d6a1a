package classify

import (
	"context"
	"strings"
	"unicode"

	"github.com/jbrukh/bayesian"

	"github.com/agrostack/agridocs/internal/core/domain"
	"github.com/agrostack/agridocs/internal/policy"
)

const MethodBayes = "bayes"

// BayesStrategy is a naive-bayes classifier trained in-process at startup
// from the category vocabularies. It answers only when the document shares
// vocabulary with the training set; otherwise the posterior is noise and
// the strategy passes.
type BayesStrategy struct {
	classifier *bayesian.Classifier
	classes    []bayesian.Class
	vocabulary map[string]struct{}
}

func NewBayesStrategy(extendedLangs bool) *BayesStrategy {
	classes := make([]bayesian.Class, 0, len(domain.Categories))
	for _, category := range domain.Categories {
		classes = append(classes, bayesian.Class(category))
	}

	s := &BayesStrategy{
		classifier: bayesian.NewClassifier(classes...),
		classes:    classes,
		vocabulary: make(map[string]struct{}),
	}
	for i, category := range domain.Categories {
		doc := trainingTokens(englishTerms[category])
		if extendedLangs {
			doc = append(doc, trainingTokens(chineseTerms[category])...)
		}
		s.classifier.Learn(doc, classes[i])
		for _, token := range doc {
			s.vocabulary[token] = struct{}{}
		}
	}
	return s
}

func (s *BayesStrategy) Name() string    { return MethodBayes }
func (s *BayesStrategy) Available() bool { return s.classifier != nil }

func (s *BayesStrategy) Attempt(_ context.Context, text string) (*domain.ClassificationResult, error) {
	tokens := tokenize(text)
	if len([]rune(text)) < policy.BayesMinTextRunes {
		return nil, nil
	}

	known := tokens[:0:0]
	for _, token := range tokens {
		if _, ok := s.vocabulary[token]; ok {
			known = append(known, token)
		}
	}
	if len(known) == 0 {
		return nil, nil
	}

	scores, best, _ := s.classifier.ProbScores(known)
	if best < 0 || best >= len(s.classes) {
		return nil, nil
	}
	// A posterior near uniform carries no signal even when some tokens are
	// known.
	if scores[best] <= 1.0/float64(len(s.classes))+0.01 {
		return nil, nil
	}

	category := domain.Category(s.classes[best])
	return &domain.ClassificationResult{
		Category:     category,
		Confidence:   scores[best],
		Method:       MethodBayes,
		MatchedTerms: MatchedTerms(text, category),
	}, nil
}

func trainingTokens(table termTable) []string {
	var tokens []string
	for _, term := range append(append([]string{}, table.Keywords...), table.Synonyms...) {
		tokens = append(tokens, tokenize(term)...)
	}
	return tokens
}

func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
}
