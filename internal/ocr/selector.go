// Package ocr selects and drives the optical-character-recognition engines.
// A light engine (tesseract binary) is preferred; a heavier neural sidecar
// loads lazily and only within the memory budget.
package ocr

import (
	"context"
	"log/slog"
	"sync"

	"github.com/agrostack/agridocs/internal/engine"
)

// Fragment is one recognized region. The light engine yields whole-page
// text with no geometry, so BBox and Confidence are optional.
type Fragment struct {
	BBox       *[4]int  `json:"bbox,omitempty"`
	Text       string   `json:"text"`
	Confidence *float64 `json:"confidence,omitempty"`
}

// Engine is one OCR backend. Load is called once before first use; engines
// without a load phase return nil immediately.
type Engine interface {
	Name() string
	Load(ctx context.Context) error
	Recognize(ctx context.Context, imagePath string) ([]Fragment, error)
}

// MemoryGauge reports the current process resident set size.
type MemoryGauge interface {
	ProcessRSS() (uint64, error)
}

// Selector orders the engines, lazily loads them, and downgrades
// permanently on load failure. Recognition failures yield an empty
// fragment list; the caller never sees an engine error.
type Selector struct {
	registry    *engine.Registry
	gauge       MemoryGauge
	log         *slog.Logger
	disabled    bool
	preferred   string
	memBudgetMB int

	mu      sync.Mutex
	engines []Engine
	loaded  map[string]bool
}

type SelectorOptions struct {
	Disabled        bool
	PreferredEngine string
	MemoryBudgetMB  int
}

func NewSelector(
	registry *engine.Registry,
	gauge MemoryGauge,
	log *slog.Logger,
	opts SelectorOptions,
	engines ...Engine,
) *Selector {
	if log == nil {
		log = slog.Default()
	}
	return &Selector{
		registry:    registry,
		gauge:       gauge,
		log:         log,
		disabled:    opts.Disabled,
		preferred:   opts.PreferredEngine,
		memBudgetMB: opts.MemoryBudgetMB,
		engines:     orderEngines(engines, opts.PreferredEngine),
		loaded:      make(map[string]bool),
	}
}

func orderEngines(engines []Engine, preferred string) []Engine {
	if preferred == "" {
		return engines
	}
	ordered := make([]Engine, 0, len(engines))
	for _, e := range engines {
		if e.Name() == preferred {
			ordered = append(ordered, e)
		}
	}
	for _, e := range engines {
		if e.Name() != preferred {
			ordered = append(ordered, e)
		}
	}
	return ordered
}

// Recognize runs the image through the first usable engine. Oversized
// images are downscaled to a temporary file before recognition.
func (s *Selector) Recognize(ctx context.Context, imagePath string) []Fragment {
	if s.disabled {
		return nil
	}

	prepared, cleanup, err := PrepareImage(imagePath)
	if err != nil {
		s.log.Warn("ocr_prepare_failed", "path", imagePath, "error", err)
		return nil
	}
	defer cleanup()

	for _, eng := range s.engines {
		if !s.registry.Available(eng.Name()) {
			continue
		}
		if !s.ensureLoaded(ctx, eng) {
			continue
		}
		fragments, err := eng.Recognize(ctx, prepared)
		if err != nil {
			s.log.Warn("ocr_recognize_failed", "engine", eng.Name(), "error", err)
			continue
		}
		return fragments
	}
	return nil
}

// ensureLoaded loads an engine on first use. Exceeding the memory budget
// skips the load for this call; an actual load failure downgrades the
// engine for the rest of the process.
func (s *Selector) ensureLoaded(ctx context.Context, eng Engine) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.loaded[eng.Name()] {
		return true
	}
	if !s.withinMemoryBudget(eng.Name()) {
		return false
	}
	if err := eng.Load(ctx); err != nil {
		s.registry.MarkFailed(eng.Name(), err.Error())
		return false
	}
	s.loaded[eng.Name()] = true
	return true
}

func (s *Selector) withinMemoryBudget(engineName string) bool {
	if s.gauge == nil || s.memBudgetMB <= 0 {
		return true
	}
	rss, err := s.gauge.ProcessRSS()
	if err != nil {
		s.log.Warn("memory_gauge_failed", "error", err)
		return true
	}
	rssMB := rss / (1 << 20)
	if rssMB >= uint64(s.memBudgetMB) {
		s.log.Warn("ocr_engine_skipped_memory_budget",
			"engine", engineName,
			"rss_mb", rssMB,
			"budget_mb", s.memBudgetMB,
		)
		return false
	}
	return true
}

// Text flattens fragments into a single newline-joined string.
func Text(fragments []Fragment) string {
	out := ""
	for _, f := range fragments {
		if f.Text == "" {
			continue
		}
		if out != "" {
			out += "\n"
		}
		out += f.Text
	}
	return out
}
