package summarize

import (
	"context"
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/agrostack/agridocs/internal/core/domain"
	"github.com/agrostack/agridocs/internal/policy"
)

type stubModel struct {
	completion domain.Completion
	err        error
	calls      int
}

func (m *stubModel) Complete(context.Context, []domain.ChatMessage, int, float64) (domain.Completion, error) {
	m.calls++
	return m.completion, m.err
}

const longReport = "The maize harvest this season exceeded expectations across all plots. " +
	"Rainfall was below average but drip irrigation kept the crop stable. " +
	"The cooperative stored the grain in the new silo near the warehouse. " +
	"Next season the plan is to expand the sorghum area by ten hectares. " +
	"Workers also repaired the fence along the northern boundary."

func TestSummarizeUsesModelWhenAvailable(t *testing.T) {
	model := &stubModel{completion: domain.Completion{Text: "  A strong maize harvest.  "}}
	s := NewService(model, nil)

	summary := s.Summarize(context.Background(), longReport)
	if summary != "A strong maize harvest." {
		t.Fatalf("unexpected summary: %q", summary)
	}
	if model.calls != 1 {
		t.Fatalf("expected one model call, got %d", model.calls)
	}
}

func TestSummarizeFallsBackOnModelError(t *testing.T) {
	model := &stubModel{err: errors.New("api down")}
	s := NewService(model, nil)

	summary := s.Summarize(context.Background(), longReport)
	if summary == "" {
		t.Fatal("fallback summary must not be empty")
	}
	if !strings.Contains(summary, "maize") {
		t.Fatalf("expected keyword-bearing sentence in summary, got %q", summary)
	}
}

func TestSummarizeShortTextSkipsModel(t *testing.T) {
	model := &stubModel{completion: domain.Completion{Text: "model output"}}
	s := NewService(model, nil)

	short := "Brief note."
	summary := s.Summarize(context.Background(), short)
	if model.calls != 0 {
		t.Fatal("model must not run for short texts")
	}
	if summary == "" {
		t.Fatal("expected a rule-based summary")
	}
}

func TestSummarizeWithoutModel(t *testing.T) {
	s := NewService(nil, nil)

	summary := s.Summarize(context.Background(), longReport)
	if summary == "" {
		t.Fatal("expected rule-based summary")
	}
	if utf8.RuneCountInString(summary) > policy.SummaryMaxRunes {
		t.Fatalf("summary exceeds cap: %d runes", utf8.RuneCountInString(summary))
	}
}

func TestSummarizeEmptyText(t *testing.T) {
	s := NewService(nil, nil)
	if got := s.Summarize(context.Background(), "   \n  "); got != "" {
		t.Fatalf("expected empty summary, got %q", got)
	}
}

func TestRuleSummaryPreservesDocumentOrder(t *testing.T) {
	s := NewService(nil, nil)
	summary := s.ruleSummary(longReport)

	maizeIdx := strings.Index(summary, "maize")
	siloIdx := strings.Index(summary, "silo")
	if maizeIdx >= 0 && siloIdx >= 0 && maizeIdx > siloIdx {
		t.Fatalf("sentences must keep document order: %q", summary)
	}
}

func TestKeyPhrases(t *testing.T) {
	text := "maize maize maize irrigation irrigation the the the and warehouse"
	phrases := KeyPhrases(text)

	if len(phrases) == 0 {
		t.Fatal("expected key phrases")
	}
	if phrases[0] != "maize" {
		t.Fatalf("expected most frequent word first, got %v", phrases)
	}
	for _, p := range phrases {
		if p == "the" || p == "and" {
			t.Fatalf("stopword leaked into key phrases: %v", phrases)
		}
	}
}

func TestKeyPhrasesCap(t *testing.T) {
	var sb strings.Builder
	for _, w := range []string{
		"alpha", "bravo", "charlie", "delta", "echo", "foxtrot",
		"golf", "hotel", "india", "juliet", "kilo", "lima",
	} {
		sb.WriteString(w + " ")
	}
	phrases := KeyPhrases(sb.String())
	if len(phrases) != policy.KeyPhraseTopK {
		t.Fatalf("expected %d phrases, got %d", policy.KeyPhraseTopK, len(phrases))
	}
}

func TestExtractFields(t *testing.T) {
	text := "Applied NPK 15-15-15 on 2026-03-12 across 4.5 ha of maize under drip irrigation; yield was 5 t/ha."
	fields := ExtractFields(text)

	if fields.Crop != "maize" {
		t.Fatalf("crop: %q", fields.Crop)
	}
	if !strings.Contains(fields.Area, "4.5") {
		t.Fatalf("area: %q", fields.Area)
	}
	if fields.Date != "2026-03-12" {
		t.Fatalf("date: %q", fields.Date)
	}
	if !strings.HasPrefix(fields.Fertilizer, "npk") {
		t.Fatalf("fertilizer: %q", fields.Fertilizer)
	}
	if fields.Irrigation != "drip irrigation" {
		t.Fatalf("irrigation: %q", fields.Irrigation)
	}
	if !strings.Contains(fields.Yield, "5") {
		t.Fatalf("yield: %q", fields.Yield)
	}
}

func TestExtractFieldsEmpty(t *testing.T) {
	fields := ExtractFields("meeting minutes with no agronomy data")
	if fields != (domain.AgronomyFields{}) {
		t.Fatalf("expected zero fields, got %+v", fields)
	}
}
