package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/agrostack/agridocs/internal/core/domain"
	"github.com/agrostack/agridocs/internal/core/ports"
	"github.com/agrostack/agridocs/internal/policy"
)

// AnalyzeDocumentUseCase runs the full pipeline for one document:
// extract, classify, summarize, persist a fresh analysis record, and
// route the file into its category folder. Extraction strictly precedes
// classification, which precedes summarization and persistence.
type AnalyzeDocumentUseCase struct {
	repo       ports.DocumentRepository
	analyses   ports.AnalysisRepository
	folders    ports.FolderRepository
	extractor  ports.TextExtractor
	classifier ports.DocumentClassifier
	summarizer ports.Summarizer
}

func NewAnalyzeDocumentUseCase(
	repo ports.DocumentRepository,
	analyses ports.AnalysisRepository,
	folders ports.FolderRepository,
	extractor ports.TextExtractor,
	classifier ports.DocumentClassifier,
	summarizer ports.Summarizer,
) *AnalyzeDocumentUseCase {
	return &AnalyzeDocumentUseCase{
		repo:       repo,
		analyses:   analyses,
		folders:    folders,
		extractor:  extractor,
		classifier: classifier,
		summarizer: summarizer,
	}
}

func (uc *AnalyzeDocumentUseCase) AnalyzeByID(ctx context.Context, documentID string) (*domain.AnalysisOutcome, error) {
	if err := uc.markStatus(ctx, documentID, domain.StatusAnalyzing, ""); err != nil {
		return nil, fmt.Errorf("set status=analyzing: %w", err)
	}

	outcome, err := uc.runPipeline(ctx, documentID)
	if err != nil {
		if failErr := uc.markFailed(ctx, documentID, err); failErr != nil {
			return nil, fmt.Errorf("%w; mark failed status: %v", err, failErr)
		}
		return nil, err
	}

	if err := uc.markStatus(ctx, documentID, domain.StatusAnalyzed, ""); err != nil {
		return nil, fmt.Errorf("set status=analyzed: %w", err)
	}
	return outcome, nil
}

func (uc *AnalyzeDocumentUseCase) runPipeline(ctx context.Context, documentID string) (*domain.AnalysisOutcome, error) {
	doc, err := uc.loadDocument(ctx, documentID)
	if err != nil {
		return nil, err
	}

	content, err := uc.extract(ctx, doc)
	if err != nil {
		return nil, err
	}

	classification, err := uc.classify(ctx, content.Text)
	if err != nil {
		return nil, err
	}

	record := uc.buildRecord(ctx, doc, content, classification)
	if err := uc.persistRecord(ctx, record); err != nil {
		return nil, err
	}

	folderID, err := uc.route(ctx, doc, classification.Category)
	if err != nil {
		return nil, err
	}

	return &domain.AnalysisOutcome{
		Record:   *record,
		FolderID: folderID,
		LowConfidence: classification.Category != domain.CategoryUnclassified &&
			classification.Confidence < policy.LowConfidenceRouting,
	}, nil
}

func (uc *AnalyzeDocumentUseCase) loadDocument(ctx context.Context, documentID string) (*domain.Document, error) {
	doc, err := uc.repo.GetByID(ctx, documentID)
	if err != nil {
		return nil, fmt.Errorf("fetch document by id: %w", err)
	}
	return doc, nil
}

func (uc *AnalyzeDocumentUseCase) extract(ctx context.Context, doc *domain.Document) (ports.ExtractedContent, error) {
	content, err := uc.extractor.Extract(ctx, doc)
	if err != nil {
		return ports.ExtractedContent{}, fmt.Errorf("extract text: %w", err)
	}
	if content.Text == "" && content.OCRContent == "" {
		return ports.ExtractedContent{}, domain.WrapError(domain.ErrInvalidInput, "extract text",
			errors.New("empty extracted text"))
	}
	return content, nil
}

func (uc *AnalyzeDocumentUseCase) classify(ctx context.Context, text string) (domain.ClassificationResult, error) {
	classification, err := uc.classifier.Classify(ctx, text)
	if err != nil {
		return domain.ClassificationResult{}, fmt.Errorf("classify document: %w", err)
	}
	return classification, nil
}

// buildRecord assembles the immutable analysis snapshot. Stored text is
// capped; the full text only feeds the in-flight summarization.
func (uc *AnalyzeDocumentUseCase) buildRecord(
	ctx context.Context,
	doc *domain.Document,
	content ports.ExtractedContent,
	classification domain.ClassificationResult,
) *domain.AnalysisRecord {
	return &domain.AnalysisRecord{
		ID:             uuid.NewString(),
		FileID:         doc.ID,
		ExtractedText:  capRunes(content.Text, policy.StoredTextRunes),
		KeyPhrases:     uc.summarizer.KeyPhrases(content.Text),
		Summary:        uc.summarizer.Summarize(ctx, content.Text),
		Classification: classification,
		OCRContent:     capRunes(content.OCRContent, policy.StoredTextRunes),
		Fields:         uc.summarizer.Fields(content.Text),
		CreatedAt:      time.Now().UTC(),
	}
}

func (uc *AnalyzeDocumentUseCase) persistRecord(ctx context.Context, record *domain.AnalysisRecord) error {
	if err := uc.analyses.Insert(ctx, record); err != nil {
		return fmt.Errorf("insert analysis record: %w", err)
	}
	return nil
}

// route files the document into its canonical category folder, creating
// the folder on first use. Low confidence does not block routing.
func (uc *AnalyzeDocumentUseCase) route(ctx context.Context, doc *domain.Document, category domain.Category) (string, error) {
	folder, err := uc.folders.EnsureByName(ctx, "AI_"+string(category))
	if err != nil {
		return "", fmt.Errorf("ensure category folder: %w", err)
	}
	if err := uc.repo.SetFolder(ctx, doc.ID, folder.ID); err != nil {
		return "", fmt.Errorf("move document to folder: %w", err)
	}
	return folder.ID, nil
}

func (uc *AnalyzeDocumentUseCase) markStatus(ctx context.Context, documentID string, status domain.DocumentStatus, errMessage string) error {
	return uc.repo.UpdateStatus(ctx, documentID, status, errMessage)
}

func (uc *AnalyzeDocumentUseCase) markFailed(ctx context.Context, documentID string, analyzeErr error) error {
	if analyzeErr == nil {
		return nil
	}
	return uc.markStatus(ctx, documentID, domain.StatusFailed, analyzeErr.Error())
}

func capRunes(text string, limit int) string {
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit])
}
