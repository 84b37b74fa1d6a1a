package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/agrostack/agridocs/internal/core/domain"
	"github.com/agrostack/agridocs/internal/policy"
)

type fakeModel struct {
	completion domain.Completion
	err        error

	lastMessages []domain.ChatMessage
	lastMax      int
}

func (m *fakeModel) Complete(_ context.Context, messages []domain.ChatMessage, maxTokens int, _ float64) (domain.Completion, error) {
	m.lastMessages = messages
	m.lastMax = maxTokens
	if m.err != nil {
		return domain.Completion{}, m.err
	}
	return m.completion, nil
}

func TestAskGroundsOnLatestAnalysis(t *testing.T) {
	repo := newFakeDocumentRepo(&domain.Document{ID: "doc-1"})
	analyses := &fakeAnalysisRepo{latest: &domain.AnalysisRecord{
		FileID:        "doc-1",
		ExtractedText: "maize planted on 12 hectares",
	}}
	model := &fakeModel{completion: domain.Completion{Text: "12 hectares", FinishReason: "stop"}}
	uc := NewAskDocumentUseCase(repo, analyses, model)

	answer, err := uc.Ask(context.Background(), "doc-1", "How big is the field?")
	if err != nil {
		t.Fatalf("Ask: %v", err)
	}
	if answer != "12 hectares" {
		t.Errorf("answer = %q", answer)
	}
	if model.lastMax != policy.AskMaxTokens {
		t.Errorf("maxTokens = %d", model.lastMax)
	}
	if len(model.lastMessages) != 2 {
		t.Fatalf("messages = %d, want 2", len(model.lastMessages))
	}
	if !strings.Contains(model.lastMessages[1].Content, "maize planted") {
		t.Error("prompt missing document content")
	}
}

func TestAskPrefersOCRContent(t *testing.T) {
	repo := newFakeDocumentRepo(&domain.Document{ID: "doc-1"})
	analyses := &fakeAnalysisRepo{latest: &domain.AnalysisRecord{
		FileID:        "doc-1",
		ExtractedText: "plain text version",
		OCRContent:    "scanned invoice: 40 tons of fertilizer",
	}}
	model := &fakeModel{completion: domain.Completion{Text: "ok", FinishReason: "stop"}}
	uc := NewAskDocumentUseCase(repo, analyses, model)

	if _, err := uc.Ask(context.Background(), "doc-1", "What was bought?"); err != nil {
		t.Fatalf("Ask: %v", err)
	}
	prompt := model.lastMessages[1].Content
	if !strings.Contains(prompt, "scanned invoice") {
		t.Error("prompt does not use OCR content")
	}
	if strings.Contains(prompt, "plain text version") {
		t.Error("prompt includes superseded plain text")
	}
}

func TestAskAppendsTruncationNote(t *testing.T) {
	repo := newFakeDocumentRepo(&domain.Document{ID: "doc-1"})
	analyses := &fakeAnalysisRepo{latest: &domain.AnalysisRecord{FileID: "doc-1", ExtractedText: "text"}}
	model := &fakeModel{completion: domain.Completion{Text: "partial answer", FinishReason: "length"}}
	uc := NewAskDocumentUseCase(repo, analyses, model)

	answer, err := uc.Ask(context.Background(), "doc-1", "Summarize everything")
	if err != nil {
		t.Fatalf("Ask: %v", err)
	}
	if !strings.HasSuffix(answer, policy.TruncationNote) {
		t.Errorf("answer %q lacks truncation note", answer)
	}
	if !strings.HasPrefix(answer, "partial answer") {
		t.Errorf("answer %q lost model text", answer)
	}
}

func TestAskEmptyQuestionRejected(t *testing.T) {
	uc := NewAskDocumentUseCase(newFakeDocumentRepo(), &fakeAnalysisRepo{}, &fakeModel{})
	_, err := uc.Ask(context.Background(), "doc-1", "   ")
	if !domain.IsKind(err, domain.ErrInvalidInput) {
		t.Fatalf("err = %v, want invalid input", err)
	}
}

func TestAskMissingModelIsConfigurationError(t *testing.T) {
	uc := NewAskDocumentUseCase(newFakeDocumentRepo(), &fakeAnalysisRepo{}, nil)
	_, err := uc.Ask(context.Background(), "doc-1", "anything")
	if !domain.IsKind(err, domain.ErrConfiguration) {
		t.Fatalf("err = %v, want configuration error", err)
	}
}

func TestAskUnknownDocument(t *testing.T) {
	uc := NewAskDocumentUseCase(newFakeDocumentRepo(), &fakeAnalysisRepo{}, &fakeModel{})
	_, err := uc.Ask(context.Background(), "missing", "anything")
	if !errors.Is(err, domain.ErrDocumentNotFound) {
		t.Fatalf("err = %v, want document not found", err)
	}
}

func TestAskCapsPromptContent(t *testing.T) {
	repo := newFakeDocumentRepo(&domain.Document{ID: "doc-1"})
	analyses := &fakeAnalysisRepo{latest: &domain.AnalysisRecord{
		FileID:        "doc-1",
		ExtractedText: strings.Repeat("x", policy.PromptContentRunes+500),
	}}
	model := &fakeModel{completion: domain.Completion{Text: "ok", FinishReason: "stop"}}
	uc := NewAskDocumentUseCase(repo, analyses, model)

	if _, err := uc.Ask(context.Background(), "doc-1", "q"); err != nil {
		t.Fatalf("Ask: %v", err)
	}
	prompt := model.lastMessages[1].Content
	if got := strings.Count(prompt, "x"); got != policy.PromptContentRunes {
		t.Errorf("prompt content runes = %d, want %d", got, policy.PromptContentRunes)
	}
}
