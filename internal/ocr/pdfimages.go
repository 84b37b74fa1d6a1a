package ocr

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pdfcpu/pdfcpu/pkg/api"

	"github.com/agrostack/agridocs/internal/policy"
)

// ExtractPageImages pulls the embedded page images out of a scanned PDF
// into a temporary directory, bounded to the first pages. Page images over
// the size cap are dropped. The returned cleanup removes the directory.
func ExtractPageImages(pdfPath string) ([]string, func(), error) {
	noop := func() {}

	dir, err := os.MkdirTemp("", "pdf-pages-")
	if err != nil {
		return nil, noop, fmt.Errorf("create page image dir: %w", err)
	}
	cleanup := func() { os.RemoveAll(dir) }

	pages := []string{fmt.Sprintf("1-%d", policy.MaxPDFOCRPages)}
	if err := api.ExtractImagesFile(pdfPath, dir, pages, nil); err != nil {
		cleanup()
		return nil, noop, fmt.Errorf("extract pdf page images: %w", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		cleanup()
		return nil, noop, fmt.Errorf("read page image dir: %w", err)
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.Size() > policy.MaxPageImageBytes {
			continue
		}
		paths = append(paths, filepath.Join(dir, entry.Name()))
	}
	return paths, cleanup, nil
}
