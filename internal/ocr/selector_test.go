package ocr

import (
	"context"
	"errors"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/agrostack/agridocs/internal/core/domain"
	"github.com/agrostack/agridocs/internal/engine"
)

type fakeEngine struct {
	name      string
	loadErr   error
	loadCalls int
	fragments []Fragment
	recErr    error
	recCalls  int
}

func (f *fakeEngine) Name() string { return f.name }
func (f *fakeEngine) Load(context.Context) error {
	f.loadCalls++
	return f.loadErr
}
func (f *fakeEngine) Recognize(context.Context, string) ([]Fragment, error) {
	f.recCalls++
	return f.fragments, f.recErr
}

type fixedGauge struct {
	rss uint64
	err error
}

func (g fixedGauge) ProcessRSS() (uint64, error) { return g.rss, g.err }

func registryWith(t *testing.T, available ...string) *engine.Registry {
	t.Helper()
	reg := engine.NewRegistry(nil)
	for _, name := range available {
		reg.Set(domain.Capability{Name: name, Kind: domain.CapOCR, Available: true})
	}
	return reg
}

func writeTestPNG(t *testing.T, w, h int) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, image.NewRGBA(image.Rect(0, 0, w, h))); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestSelectorUsesFirstAvailableEngine(t *testing.T) {
	light := &fakeEngine{name: engine.Tesseract, fragments: []Fragment{{Text: "hello"}}}
	heavy := &fakeEngine{name: engine.NeuralOCR, fragments: []Fragment{{Text: "unused"}}}

	sel := NewSelector(registryWith(t, engine.Tesseract, engine.NeuralOCR), nil, nil,
		SelectorOptions{}, light, heavy)

	fragments := sel.Recognize(context.Background(), writeTestPNG(t, 10, 10))
	if Text(fragments) != "hello" {
		t.Fatalf("expected light engine output, got %q", Text(fragments))
	}
	if heavy.recCalls != 0 {
		t.Fatal("heavy engine must not run when the light engine succeeds")
	}
}

func TestSelectorPreferredEngineOverride(t *testing.T) {
	light := &fakeEngine{name: engine.Tesseract, fragments: []Fragment{{Text: "light"}}}
	heavy := &fakeEngine{name: engine.NeuralOCR, fragments: []Fragment{{Text: "heavy"}}}

	sel := NewSelector(registryWith(t, engine.Tesseract, engine.NeuralOCR), nil, nil,
		SelectorOptions{PreferredEngine: engine.NeuralOCR}, light, heavy)

	fragments := sel.Recognize(context.Background(), writeTestPNG(t, 10, 10))
	if Text(fragments) != "heavy" {
		t.Fatalf("expected preferred engine output, got %q", Text(fragments))
	}
}

func TestSelectorLoadFailureIsPermanent(t *testing.T) {
	reg := registryWith(t, engine.NeuralOCR, engine.Tesseract)
	heavy := &fakeEngine{name: engine.NeuralOCR, loadErr: errors.New("out of memory")}
	light := &fakeEngine{name: engine.Tesseract, fragments: []Fragment{{Text: "fallback"}}}

	sel := NewSelector(reg, nil, nil,
		SelectorOptions{PreferredEngine: engine.NeuralOCR}, light, heavy)

	img := writeTestPNG(t, 10, 10)
	for i := 0; i < 3; i++ {
		fragments := sel.Recognize(context.Background(), img)
		if Text(fragments) != "fallback" {
			t.Fatalf("expected fallback output, got %q", Text(fragments))
		}
	}
	if heavy.loadCalls != 1 {
		t.Fatalf("failed engine must not be re-loaded, got %d load calls", heavy.loadCalls)
	}
	if reg.Available(engine.NeuralOCR) {
		t.Fatal("registry must mark the failed engine unavailable")
	}
}

func TestSelectorMemoryBudgetSkipsWithoutDowngrade(t *testing.T) {
	reg := registryWith(t, engine.NeuralOCR)
	heavy := &fakeEngine{name: engine.NeuralOCR, fragments: []Fragment{{Text: "heavy"}}}

	sel := NewSelector(reg, fixedGauge{rss: 2000 << 20}, nil,
		SelectorOptions{MemoryBudgetMB: 1500}, heavy)

	fragments := sel.Recognize(context.Background(), writeTestPNG(t, 10, 10))
	if fragments != nil {
		t.Fatalf("expected no fragments over budget, got %v", fragments)
	}
	if heavy.loadCalls != 0 {
		t.Fatal("engine must not load over budget")
	}
	if !reg.Available(engine.NeuralOCR) {
		t.Fatal("budget skip must not downgrade the engine")
	}
}

func TestSelectorLoadsOnceAndCaches(t *testing.T) {
	heavy := &fakeEngine{name: engine.NeuralOCR, fragments: []Fragment{{Text: "x"}}}
	sel := NewSelector(registryWith(t, engine.NeuralOCR), nil, nil, SelectorOptions{}, heavy)

	img := writeTestPNG(t, 10, 10)
	for i := 0; i < 3; i++ {
		sel.Recognize(context.Background(), img)
	}
	if heavy.loadCalls != 1 {
		t.Fatalf("expected a single load, got %d", heavy.loadCalls)
	}
	if heavy.recCalls != 3 {
		t.Fatalf("expected 3 recognitions, got %d", heavy.recCalls)
	}
}

func TestSelectorDisabled(t *testing.T) {
	light := &fakeEngine{name: engine.Tesseract, fragments: []Fragment{{Text: "x"}}}
	sel := NewSelector(registryWith(t, engine.Tesseract), nil, nil,
		SelectorOptions{Disabled: true}, light)

	if fragments := sel.Recognize(context.Background(), writeTestPNG(t, 10, 10)); fragments != nil {
		t.Fatalf("expected nil fragments when disabled, got %v", fragments)
	}
	if light.recCalls != 0 {
		t.Fatal("no engine may run when OCR is disabled")
	}
}

func TestSelectorRecognitionErrorFallsThrough(t *testing.T) {
	broken := &fakeEngine{name: engine.Tesseract, recErr: errors.New("exit 1")}
	working := &fakeEngine{name: engine.NeuralOCR, fragments: []Fragment{{Text: "ok"}}}

	sel := NewSelector(registryWith(t, engine.Tesseract, engine.NeuralOCR), nil, nil,
		SelectorOptions{}, broken, working)

	fragments := sel.Recognize(context.Background(), writeTestPNG(t, 10, 10))
	if Text(fragments) != "ok" {
		t.Fatalf("expected next engine output, got %q", Text(fragments))
	}
}

func TestPrepareImagePassThrough(t *testing.T) {
	path := writeTestPNG(t, 100, 80)
	prepared, cleanup, err := PrepareImage(path)
	defer cleanup()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if prepared != path {
		t.Fatalf("small image must pass through untouched, got %q", prepared)
	}
}

func TestPrepareImageDownscalesOversized(t *testing.T) {
	path := writeTestPNG(t, 2400, 1200)
	prepared, cleanup, err := PrepareImage(path)
	defer cleanup()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if prepared == path {
		t.Fatal("oversized image must be downscaled to a new file")
	}

	f, err := os.Open(prepared)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Width != 2000 || cfg.Height != 1000 {
		t.Fatalf("expected aspect-preserving downscale to 2000x1000, got %dx%d", cfg.Width, cfg.Height)
	}
}

func TestTextJoinsFragments(t *testing.T) {
	fragments := []Fragment{{Text: "line one"}, {Text: ""}, {Text: "line two"}}
	if got := Text(fragments); got != "line one\nline two" {
		t.Fatalf("unexpected joined text: %q", got)
	}
}
