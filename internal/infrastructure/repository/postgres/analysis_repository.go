package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/agrostack/agridocs/internal/core/domain"
)

// AnalysisRepository stores analysis runs as immutable history. There is no
// update path: each run inserts a fresh row and the latest row by
// created_at is the current analysis.
type AnalysisRepository struct {
	db *sql.DB
}

func NewAnalysisRepository(db *sql.DB) *AnalysisRepository {
	return &AnalysisRepository{db: db}
}

func (r *AnalysisRepository) Insert(ctx context.Context, record *domain.AnalysisRecord) error {
	phrasesJSON, err := json.Marshal(record.KeyPhrases)
	if err != nil {
		return fmt.Errorf("marshal key phrases: %w", err)
	}
	termsJSON, err := json.Marshal(record.Classification.MatchedTerms)
	if err != nil {
		return fmt.Errorf("marshal matched terms: %w", err)
	}
	fieldsJSON, err := json.Marshal(record.Fields)
	if err != nil {
		return fmt.Errorf("marshal fields: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
INSERT INTO analyses (
	id, file_id, extracted_text, key_phrases, summary, category, confidence, method, matched_terms, ocr_content, fields, created_at
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
`,
		record.ID, record.FileID, record.ExtractedText, phrasesJSON, record.Summary,
		string(record.Classification.Category), record.Classification.Confidence,
		record.Classification.Method, termsJSON, record.OCRContent, fieldsJSON, record.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert analysis: %w", err)
	}
	return nil
}

func (r *AnalysisRepository) LatestByFileID(ctx context.Context, fileID string) (*domain.AnalysisRecord, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT id, file_id, extracted_text, key_phrases, summary, category, confidence, method, matched_terms, ocr_content, fields, created_at
FROM analyses
WHERE file_id = $1
ORDER BY created_at DESC
LIMIT 1
`, fileID)

	var record domain.AnalysisRecord
	var phrasesRaw, termsRaw, fieldsRaw []byte
	var category string

	err := row.Scan(
		&record.ID, &record.FileID, &record.ExtractedText, &phrasesRaw, &record.Summary,
		&category, &record.Classification.Confidence, &record.Classification.Method,
		&termsRaw, &record.OCRContent, &fieldsRaw, &record.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.WrapError(domain.ErrDocumentNotFound, "get analysis",
				fmt.Errorf("no analysis for file %s", fileID))
		}
		return nil, fmt.Errorf("scan analysis: %w", err)
	}

	record.Classification.Category = domain.Category(category)
	if err := json.Unmarshal(phrasesRaw, &record.KeyPhrases); err != nil {
		return nil, fmt.Errorf("unmarshal key phrases: %w", err)
	}
	if err := json.Unmarshal(termsRaw, &record.Classification.MatchedTerms); err != nil {
		return nil, fmt.Errorf("unmarshal matched terms: %w", err)
	}
	if err := json.Unmarshal(fieldsRaw, &record.Fields); err != nil {
		return nil, fmt.Errorf("unmarshal fields: %w", err)
	}
	return &record, nil
}
