package summarize

import (
	"sort"

	"github.com/agrostack/agridocs/internal/policy"
)

var stopwords = map[string]struct{}{
	"the": {}, "and": {}, "for": {}, "are": {}, "was": {}, "were": {},
	"with": {}, "that": {}, "this": {}, "from": {}, "have": {}, "has": {},
	"had": {}, "not": {}, "but": {}, "its": {}, "per": {}, "into": {},
	"will": {}, "been": {}, "than": {}, "they": {}, "their": {}, "our": {},
	"all": {}, "can": {}, "also": {}, "more": {}, "after": {}, "before": {},
	"during": {}, "about": {}, "over": {}, "under": {}, "between": {},
}

// KeyPhrases returns the most frequent meaningful words, most frequent
// first, ties broken alphabetically for stable output.
func KeyPhrases(text string) []string {
	counts := make(map[string]int)
	for _, word := range tokenizeWords(text) {
		if len([]rune(word)) < 3 {
			continue
		}
		if _, ok := stopwords[word]; ok {
			continue
		}
		counts[word]++
	}
	if len(counts) == 0 {
		return nil
	}

	words := make([]string, 0, len(counts))
	for word := range counts {
		words = append(words, word)
	}
	sort.Slice(words, func(i, j int) bool {
		if counts[words[i]] != counts[words[j]] {
			return counts[words[i]] > counts[words[j]]
		}
		return words[i] < words[j]
	})

	if len(words) > policy.KeyPhraseTopK {
		words = words[:policy.KeyPhraseTopK]
	}
	return words
}
