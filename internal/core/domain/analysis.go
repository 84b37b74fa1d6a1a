package domain

import "time"

// AnalysisRecord is an immutable snapshot of one analysis run. Records are
// insert-only: a new analysis supersedes the previous one by CreatedAt, older
// rows are kept as history and never updated in place.
type AnalysisRecord struct {
	ID             string               `json:"id"`
	FileID         string               `json:"file_id"`
	ExtractedText  string               `json:"extracted_text"`
	KeyPhrases     []string             `json:"key_phrases"`
	Summary        string               `json:"summary"`
	Classification ClassificationResult `json:"classification"`
	OCRContent     string               `json:"ocr_content,omitempty"`
	Fields         AgronomyFields       `json:"fields"`
	CreatedAt      time.Time            `json:"created_at"`
}

// AgronomyFields are structured values pulled out of the document text.
// Empty fields mean the text did not mention them.
type AgronomyFields struct {
	Crop       string `json:"crop,omitempty"`
	Area       string `json:"area,omitempty"`
	Date       string `json:"date,omitempty"`
	Fertilizer string `json:"fertilizer,omitempty"`
	Irrigation string `json:"irrigation,omitempty"`
	Yield      string `json:"yield,omitempty"`
}

// AnalysisOutcome is what the orchestrator hands back to callers: the record
// plus routing information.
type AnalysisOutcome struct {
	Record        AnalysisRecord `json:"record"`
	FolderID      string         `json:"folder_id,omitempty"`
	LowConfidence bool           `json:"low_confidence"`
}

type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Completion is the remote model's reply. FinishReason "length" means the
// model truncated its own output.
type Completion struct {
	Text             string `json:"text"`
	FinishReason     string `json:"finish_reason"`
	PromptTokens     int    `json:"prompt_tokens,omitempty"`
	CompletionTokens int    `json:"completion_tokens,omitempty"`
}
