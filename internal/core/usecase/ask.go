package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/agrostack/agridocs/internal/core/domain"
	"github.com/agrostack/agridocs/internal/core/ports"
	"github.com/agrostack/agridocs/internal/policy"
)

// AskDocumentUseCase answers free-form questions about an analyzed
// document by grounding the remote model on its extracted content.
type AskDocumentUseCase struct {
	repo     ports.DocumentRepository
	analyses ports.AnalysisRepository
	model    ports.RemoteModel
}

func NewAskDocumentUseCase(
	repo ports.DocumentRepository,
	analyses ports.AnalysisRepository,
	model ports.RemoteModel,
) *AskDocumentUseCase {
	return &AskDocumentUseCase{
		repo:     repo,
		analyses: analyses,
		model:    model,
	}
}

// Ask grounds the question on the latest analysis of the document. OCR
// content wins over plain extracted text when both exist, since for
// scans it is the only faithful rendition of the page.
func (uc *AskDocumentUseCase) Ask(ctx context.Context, documentID, question string) (string, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return "", domain.WrapError(domain.ErrInvalidInput, "ask", errors.New("empty question"))
	}
	if uc.model == nil {
		return "", domain.WrapError(domain.ErrConfiguration, "ask",
			errors.New("remote model is not configured; set MODEL_API_KEY"))
	}

	doc, err := uc.repo.GetByID(ctx, documentID)
	if err != nil {
		return "", fmt.Errorf("fetch document by id: %w", err)
	}

	record, err := uc.analyses.LatestByFileID(ctx, doc.ID)
	if err != nil {
		return "", fmt.Errorf("fetch latest analysis: %w", err)
	}

	content := record.ExtractedText
	if record.OCRContent != "" {
		content = record.OCRContent
	}
	content = capRunes(content, policy.PromptContentRunes)

	messages := []domain.ChatMessage{
		{
			Role: "system",
			Content: "You answer questions about a single agricultural document. " +
				"Use only the document content provided. If the document does not " +
				"contain the answer, say so.",
		},
		{
			Role:    "user",
			Content: fmt.Sprintf("Document content:\n%s\n\nQuestion: %s", content, question),
		},
	}

	completion, err := uc.model.Complete(ctx, messages, policy.AskMaxTokens, policy.AskTemperature)
	if err != nil {
		return "", fmt.Errorf("model completion: %w", err)
	}

	answer := completion.Text
	if completion.FinishReason == "length" {
		answer += policy.TruncationNote
	}
	return answer, nil
}
