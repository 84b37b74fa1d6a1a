package ports

import (
	"context"
	"io"

	"github.com/agrostack/agridocs/internal/core/domain"
)

// DocumentRepository persists and reads document state.
type DocumentRepository interface {
	Create(ctx context.Context, doc *domain.Document) error
	GetByID(ctx context.Context, id string) (*domain.Document, error)
	UpdateStatus(ctx context.Context, id string, status domain.DocumentStatus, errMessage string) error
	SetFolder(ctx context.Context, id, folderID string) error
	ListByFolder(ctx context.Context, folderID string) ([]domain.Document, error)
}

// AnalysisRepository stores insert-only analysis history.
type AnalysisRepository interface {
	Insert(ctx context.Context, record *domain.AnalysisRecord) error
	LatestByFileID(ctx context.Context, fileID string) (*domain.AnalysisRecord, error)
}

// FolderRepository manages the canonical category folders.
type FolderRepository interface {
	EnsureByName(ctx context.Context, name string) (*domain.Folder, error)
	List(ctx context.Context) ([]domain.Folder, error)
}

// ObjectStorage stores source documents. PathFor exposes the on-disk
// location for engines that operate on files rather than streams.
type ObjectStorage interface {
	Save(ctx context.Context, key string, data io.Reader) error
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	PathFor(key string) string
}

// MessageQueue publishes/consumes upload events.
type MessageQueue interface {
	PublishDocumentUploaded(ctx context.Context, documentID string) error
	SubscribeDocumentUploaded(ctx context.Context, handler func(context.Context, string) error) error
}

// ExtractedContent is what the text extractor yields for one document.
type ExtractedContent struct {
	Text       string
	OCRContent string
}

// TextExtractor converts a stored file into plain text, delegating
// image/scanned-PDF content to the OCR selector.
type TextExtractor interface {
	Extract(ctx context.Context, doc *domain.Document) (ExtractedContent, error)
}

// DocumentClassifier classifies extracted text.
type DocumentClassifier interface {
	Classify(ctx context.Context, text string) (domain.ClassificationResult, error)
}

// Summarizer derives the human-readable parts of an analysis: summary (via
// the remote model when available, rule-based fallback otherwise), key
// phrases, and structured agronomy fields. None of these fail.
type Summarizer interface {
	Summarize(ctx context.Context, text string) string
	KeyPhrases(text string) []string
	Fields(text string) domain.AgronomyFields
}

// RemoteModel is the opaque chat-completions collaborator.
type RemoteModel interface {
	Complete(ctx context.Context, messages []domain.ChatMessage, maxTokens int, temperature float64) (domain.Completion, error)
}

// SpeechTranscriber converts audio bytes into free text. An empty string
// with a nil error means "no speech detected", distinct from engine failure.
type SpeechTranscriber interface {
	Transcribe(ctx context.Context, audio []byte) (string, error)
}
