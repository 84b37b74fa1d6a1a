package ocr

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/agrostack/agridocs/internal/engine"
)

// TesseractEngine shells out to the tesseract binary. It is the light
// engine: fast, no load phase, whole-page text without geometry.
type TesseractEngine struct {
	bin       string
	languages string
}

func NewTesseractEngine(bin string, extendedLangs bool) *TesseractEngine {
	languages := "eng"
	if extendedLangs {
		languages = "eng+chi_sim"
	}
	return &TesseractEngine{bin: bin, languages: languages}
}

func (e *TesseractEngine) Name() string { return engine.Tesseract }

func (e *TesseractEngine) Load(context.Context) error { return nil }

func (e *TesseractEngine) Recognize(ctx context.Context, imagePath string) ([]Fragment, error) {
	cmd := exec.CommandContext(ctx, e.bin, imagePath, "stdout", "-l", e.languages)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("tesseract: %w: %s", err, strings.TrimSpace(stderr.String()))
	}

	var fragments []Fragment
	for _, line := range strings.Split(stdout.String(), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		fragments = append(fragments, Fragment{Text: line})
	}
	return fragments, nil
}
