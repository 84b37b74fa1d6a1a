// Package engine holds the process-wide capability table: which optional
// engines are usable, and which have permanently failed.
package engine

import (
	"log/slog"
	"sort"
	"sync"

	"github.com/agrostack/agridocs/internal/core/domain"
)

// Engine names used as capability keys across the selectors.
const (
	Tesseract        = "tesseract"
	NeuralOCR        = "neural-ocr"
	NeuralClassifier = "neural-classifier"
	BayesClassifier  = "bayes-classifier"
	Whisper          = "whisper"
	OnlineSpeech     = "online-speech"
	FFmpeg           = "ffmpeg"
	RemoteModel      = "remote-model"
)

// Registry is built once at startup by Probe and shared by reference with
// every selector. Availability only ever transitions one way: an engine
// marked failed stays failed for the remainder of the process.
type Registry struct {
	mu          sync.Mutex
	caps        map[string]*domain.Capability
	log         *slog.Logger
	onDowngrade func(name string)
}

func NewRegistry(log *slog.Logger) *Registry {
	if log == nil {
		log = slog.Default()
	}
	return &Registry{
		caps: make(map[string]*domain.Capability),
		log:  log,
	}
}

// OnDowngrade registers a callback fired once per runtime downgrade. Set
// during wiring, before the registry is shared with the selectors.
func (r *Registry) OnDowngrade(fn func(name string)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onDowngrade = fn
}

// Set records a probe outcome. Intended for Probe and test setup; runtime
// state changes go through MarkFailed.
func (r *Registry) Set(cap domain.Capability) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := cap
	r.caps[cap.Name] = &c
	r.log.Info("capability_probe",
		"engine", cap.Name,
		"kind", string(cap.Kind),
		"available", cap.Available,
		"reason", cap.Reason,
	)
}

// Available reports whether the engine is usable right now. Unknown engines
// are unavailable.
func (r *Registry) Available(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	cap, ok := r.caps[name]
	return ok && cap.Available
}

// MarkFailed permanently disables an engine for this process. Calling it on
// an already-failed engine is a no-op; there is no way back.
func (r *Registry) MarkFailed(name, reason string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cap, ok := r.caps[name]
	if !ok {
		cap = &domain.Capability{Name: name}
		r.caps[name] = cap
	}
	if !cap.Available && cap.Reason != "" {
		return
	}
	cap.Available = false
	cap.Reason = reason
	r.log.Warn("capability_failed", "engine", name, "reason", reason)
	if r.onDowngrade != nil {
		r.onDowngrade(name)
	}
}

// Snapshot returns a stable copy of the table for diagnostics.
func (r *Registry) Snapshot() []domain.Capability {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Capability, 0, len(r.caps))
	for _, cap := range r.caps {
		out = append(out, *cap)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
