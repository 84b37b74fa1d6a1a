// Package extract converts stored documents into plain text for the
// analysis pipeline.
package extract

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/xuri/excelize/v2"

	"github.com/agrostack/agridocs/internal/core/domain"
	"github.com/agrostack/agridocs/internal/core/ports"
	"github.com/agrostack/agridocs/internal/ocr"
)

// Recognizer is the OCR entry point used for images and scanned PDFs.
type Recognizer interface {
	Recognize(ctx context.Context, imagePath string) []ocr.Fragment
}

type Extractor struct {
	storage    ports.ObjectStorage
	recognizer Recognizer
	log        *slog.Logger

	// Replaceable in tests; defaults to the pdfcpu-backed implementation.
	pageImages func(pdfPath string) ([]string, func(), error)
}

func NewExtractor(storage ports.ObjectStorage, recognizer Recognizer, log *slog.Logger) *Extractor {
	if log == nil {
		log = slog.Default()
	}
	return &Extractor{
		storage:    storage,
		recognizer: recognizer,
		log:        log,
		pageImages: ocr.ExtractPageImages,
	}
}

// Extract dispatches on the document's kind. Every kind is handled
// explicitly; audio goes through the transcription endpoint instead.
func (e *Extractor) Extract(ctx context.Context, doc *domain.Document) (ports.ExtractedContent, error) {
	switch doc.Kind {
	case domain.KindText:
		return e.extractText(ctx, doc)
	case domain.KindSpreadsheet:
		return e.extractSpreadsheet(ctx, doc)
	case domain.KindPdf:
		return e.extractPDF(ctx, doc)
	case domain.KindImage:
		return e.extractImage(ctx, doc)
	case domain.KindAudio:
		return ports.ExtractedContent{}, domain.WrapError(domain.ErrInvalidInput, "extract",
			fmt.Errorf("audio files go through transcription, not text extraction"))
	case domain.KindUnknown:
		return ports.ExtractedContent{}, domain.WrapError(domain.ErrInvalidInput, "extract",
			fmt.Errorf("unsupported file type: %s", doc.Filename))
	default:
		return ports.ExtractedContent{}, domain.WrapError(domain.ErrInvalidInput, "extract",
			fmt.Errorf("unhandled file kind: %s", doc.Kind))
	}
}

func (e *Extractor) extractText(ctx context.Context, doc *domain.Document) (ports.ExtractedContent, error) {
	reader, err := e.storage.Open(ctx, doc.StoragePath)
	if err != nil {
		return ports.ExtractedContent{}, fmt.Errorf("open document: %w", err)
	}
	defer reader.Close()

	raw, err := io.ReadAll(reader)
	if err != nil {
		return ports.ExtractedContent{}, fmt.Errorf("read document: %w", err)
	}
	return ports.ExtractedContent{Text: strings.ToValidUTF8(string(raw), "")}, nil
}

func (e *Extractor) extractSpreadsheet(ctx context.Context, doc *domain.Document) (ports.ExtractedContent, error) {
	if strings.EqualFold(filepath.Ext(doc.Filename), ".csv") {
		return e.extractCSV(ctx, doc)
	}
	return e.extractWorkbook(e.storage.PathFor(doc.StoragePath))
}

func (e *Extractor) extractCSV(ctx context.Context, doc *domain.Document) (ports.ExtractedContent, error) {
	reader, err := e.storage.Open(ctx, doc.StoragePath)
	if err != nil {
		return ports.ExtractedContent{}, fmt.Errorf("open csv: %w", err)
	}
	defer reader.Close()

	r := csv.NewReader(reader)
	r.FieldsPerRecord = -1

	var sb strings.Builder
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return ports.ExtractedContent{}, domain.WrapError(domain.ErrInvalidInput, "parse csv", err)
		}
		sb.WriteString(strings.Join(record, "\t"))
		sb.WriteString("\n")
	}
	return ports.ExtractedContent{Text: sb.String()}, nil
}

func (e *Extractor) extractWorkbook(path string) (ports.ExtractedContent, error) {
	book, err := excelize.OpenFile(path)
	if err != nil {
		return ports.ExtractedContent{}, domain.WrapError(domain.ErrInvalidInput, "open workbook", err)
	}
	defer book.Close()

	var sb strings.Builder
	for _, sheet := range book.GetSheetList() {
		rows, err := book.GetRows(sheet)
		if err != nil {
			return ports.ExtractedContent{}, domain.WrapError(domain.ErrInvalidInput, "read sheet", err)
		}
		for _, row := range rows {
			line := strings.TrimSpace(strings.Join(row, "\t"))
			if line == "" {
				continue
			}
			sb.WriteString(line)
			sb.WriteString("\n")
		}
	}
	return ports.ExtractedContent{Text: sb.String()}, nil
}

// extractPDF reads the embedded text layer first; a PDF with no text layer
// is treated as scanned and goes through OCR page by page.
func (e *Extractor) extractPDF(ctx context.Context, doc *domain.Document) (ports.ExtractedContent, error) {
	path := e.storage.PathFor(doc.StoragePath)

	text, err := pdfTextLayer(path)
	if err != nil {
		e.log.Warn("pdf_text_layer_failed", "document_id", doc.ID, "error", err)
	}
	if strings.TrimSpace(text) != "" {
		return ports.ExtractedContent{Text: text}, nil
	}

	if e.recognizer == nil {
		return ports.ExtractedContent{}, domain.WrapError(domain.ErrUnavailable, "extract pdf",
			fmt.Errorf("no text layer and OCR is not available"))
	}

	paths, cleanup, err := e.pageImages(path)
	if err != nil {
		return ports.ExtractedContent{}, domain.WrapError(domain.ErrInvalidInput, "extract pdf", err)
	}
	defer cleanup()

	var sb strings.Builder
	for _, imagePath := range paths {
		fragments := e.recognizer.Recognize(ctx, imagePath)
		page := ocr.Text(fragments)
		if page == "" {
			continue
		}
		if sb.Len() > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(page)
	}
	recognized := sb.String()
	return ports.ExtractedContent{Text: recognized, OCRContent: recognized}, nil
}

func (e *Extractor) extractImage(ctx context.Context, doc *domain.Document) (ports.ExtractedContent, error) {
	if e.recognizer == nil {
		return ports.ExtractedContent{}, domain.WrapError(domain.ErrUnavailable, "extract image",
			fmt.Errorf("OCR is not available"))
	}
	fragments := e.recognizer.Recognize(ctx, e.storage.PathFor(doc.StoragePath))
	text := ocr.Text(fragments)
	return ports.ExtractedContent{Text: text, OCRContent: text}, nil
}

func pdfTextLayer(path string) (string, error) {
	f, reader, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}
	defer f.Close()

	plain, err := reader.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("read pdf text layer: %w", err)
	}
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(plain); err != nil {
		return "", fmt.Errorf("read pdf text: %w", err)
	}
	return buf.String(), nil
}
