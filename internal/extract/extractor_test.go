package extract

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/agrostack/agridocs/internal/core/domain"
	"github.com/agrostack/agridocs/internal/ocr"
)

type dirStorage struct {
	root string
}

func (s dirStorage) Save(_ context.Context, key string, data io.Reader) error {
	f, err := os.Create(filepath.Join(s.root, key))
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = io.Copy(f, data)
	return err
}

func (s dirStorage) Open(_ context.Context, key string) (io.ReadCloser, error) {
	return os.Open(filepath.Join(s.root, key))
}

func (s dirStorage) PathFor(key string) string {
	return filepath.Join(s.root, key)
}

type stubRecognizer struct {
	fragments []ocr.Fragment
	calls     int
	paths     []string
}

func (r *stubRecognizer) Recognize(_ context.Context, imagePath string) []ocr.Fragment {
	r.calls++
	r.paths = append(r.paths, imagePath)
	return r.fragments
}

func testDoc(kind domain.FileKind, filename, key string) *domain.Document {
	return &domain.Document{
		ID:          "doc-1",
		Filename:    filename,
		Kind:        kind,
		StoragePath: key,
		Status:      domain.StatusUploaded,
	}
}

func TestExtractPlainText(t *testing.T) {
	storage := dirStorage{root: t.TempDir()}
	if err := storage.Save(context.Background(), "report.txt",
		strings.NewReader("maize yield 5 t/ha, rainfall 120mm")); err != nil {
		t.Fatal(err)
	}

	e := NewExtractor(storage, nil, nil)
	content, err := e.Extract(context.Background(), testDoc(domain.KindText, "report.txt", "report.txt"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(content.Text, "maize yield") {
		t.Fatalf("unexpected text: %q", content.Text)
	}
	if content.OCRContent != "" {
		t.Fatal("plain text must carry no OCR content")
	}
}

func TestExtractTextSanitizesInvalidUTF8(t *testing.T) {
	storage := dirStorage{root: t.TempDir()}
	if err := storage.Save(context.Background(), "mixed.txt",
		strings.NewReader("valid\xff\xfetail")); err != nil {
		t.Fatal(err)
	}

	e := NewExtractor(storage, nil, nil)
	content, err := e.Extract(context.Background(), testDoc(domain.KindText, "mixed.txt", "mixed.txt"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(content.Text, "valid") || !strings.Contains(content.Text, "tail") {
		t.Fatalf("expected sanitized text, got %q", content.Text)
	}
}

func TestExtractCSV(t *testing.T) {
	storage := dirStorage{root: t.TempDir()}
	if err := storage.Save(context.Background(), "inputs.csv",
		strings.NewReader("item,qty\nfertilizer,40\nseed,12\n")); err != nil {
		t.Fatal(err)
	}

	e := NewExtractor(storage, nil, nil)
	content, err := e.Extract(context.Background(), testDoc(domain.KindSpreadsheet, "inputs.csv", "inputs.csv"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(content.Text, "fertilizer\t40") {
		t.Fatalf("expected tab-joined rows, got %q", content.Text)
	}
}

func TestExtractImageUsesOCR(t *testing.T) {
	storage := dirStorage{root: t.TempDir()}
	recognizer := &stubRecognizer{fragments: []ocr.Fragment{{Text: "soil analysis"}}}

	e := NewExtractor(storage, recognizer, nil)
	content, err := e.Extract(context.Background(), testDoc(domain.KindImage, "scan.png", "scan.png"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if content.Text != "soil analysis" || content.OCRContent != "soil analysis" {
		t.Fatalf("expected OCR text in both fields, got %+v", content)
	}
	if recognizer.calls != 1 {
		t.Fatalf("expected one OCR call, got %d", recognizer.calls)
	}
}

func TestExtractScannedPDFFallsBackToOCR(t *testing.T) {
	storage := dirStorage{root: t.TempDir()}
	recognizer := &stubRecognizer{fragments: []ocr.Fragment{{Text: "page text"}}}

	e := NewExtractor(storage, recognizer, nil)
	e.pageImages = func(string) ([]string, func(), error) {
		return []string{"p1.png", "p2.png"}, func() {}, nil
	}

	content, err := e.Extract(context.Background(), testDoc(domain.KindPdf, "scan.pdf", "scan.pdf"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if recognizer.calls != 2 {
		t.Fatalf("expected OCR per page image, got %d calls", recognizer.calls)
	}
	if content.Text != "page text\npage text" {
		t.Fatalf("unexpected text: %q", content.Text)
	}
	if content.OCRContent != content.Text {
		t.Fatal("scanned PDF must record OCR content")
	}
}

func TestExtractAudioIsInvalidInput(t *testing.T) {
	e := NewExtractor(dirStorage{root: t.TempDir()}, nil, nil)
	_, err := e.Extract(context.Background(), testDoc(domain.KindAudio, "note.mp3", "note.mp3"))
	if !domain.IsKind(err, domain.ErrInvalidInput) {
		t.Fatalf("expected invalid input error, got %v", err)
	}
}

func TestExtractUnknownKindIsInvalidInput(t *testing.T) {
	e := NewExtractor(dirStorage{root: t.TempDir()}, nil, nil)
	_, err := e.Extract(context.Background(), testDoc(domain.KindUnknown, "data.bin", "data.bin"))
	if !domain.IsKind(err, domain.ErrInvalidInput) {
		t.Fatalf("expected invalid input error, got %v", err)
	}
}
