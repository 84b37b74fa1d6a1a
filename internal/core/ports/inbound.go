package ports

import (
	"context"
	"io"

	"github.com/agrostack/agridocs/internal/core/domain"
)

// DocumentIngestor is the inbound contract for document upload orchestration.
type DocumentIngestor interface {
	Upload(ctx context.Context, filename, mimeType string, body io.Reader) (*domain.Document, error)
}

// DocumentAnalyzer runs the full extraction/classification/summarization
// pipeline for one stored document.
type DocumentAnalyzer interface {
	AnalyzeByID(ctx context.Context, documentID string) (*domain.AnalysisOutcome, error)
}

// QuestionAnswerer forwards document content plus a user question to the
// remote model.
type QuestionAnswerer interface {
	Ask(ctx context.Context, documentID, question string) (string, error)
}

// DocumentReader is the inbound read model for document metadata/state.
type DocumentReader interface {
	GetByID(ctx context.Context, id string) (*domain.Document, error)
}
