// Package policy centralizes the tuning constants of the analysis pipeline
// so tests and tuning touch one place.
package policy

const (
	// MinClassifyConfidence is the floor below which a strategy's result
	// counts as "no answer" and the cascade escalates.
	MinClassifyConfidence = 0.1
	// LowConfidenceRouting marks folder routing as advisory: below this the
	// file is still routed but the outcome is annotated low-confidence.
	LowConfidenceRouting = 0.2

	// Keyword scoring weights.
	SynonymWeight     = 0.5
	RepeatWeight      = 0.2
	ConfidenceDivisor = 1.5
	NeuralWindowRunes = 512
	BayesMinTextRunes = 20

	// OCR input bounds. Oversized inputs are downscaled before recognition;
	// unscaled huge images are a primary cause of process termination.
	MaxImageDimensionPx = 2000
	MaxImageFileBytes   = 5 * 1024 * 1024
	MaxPDFOCRPages      = 10
	MaxPageImageBytes   = 10 * 1024 * 1024

	// Default soft RSS ceiling (MB) before a heavy engine load is skipped.
	DefaultMemoryBudgetMB = 1500

	// Summarization.
	SummaryMaxRunes      = 200
	SummarySentenceFloor = 10
	SummaryKeywordBonus  = 20
	SummaryPositionBonus = 10
	SummaryTopSentences  = 3
	KeyPhraseTopK        = 10
	ModelSummaryMinRunes = 50
	ModelSummaryWindow   = 1024

	// Remote model prompt/response bounds.
	PromptContentRunes = 8000
	AskMaxTokens       = 4000
	AskTemperature     = 0.7

	// Cap on extracted text persisted with an analysis record.
	StoredTextRunes = 1000
)

// TruncationNote is appended verbatim to answers the remote model cut short.
const TruncationNote = "\n\n[Note: Response may be incomplete due to token limit]"
