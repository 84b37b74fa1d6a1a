package domain

import (
	"errors"
	"fmt"
)

// Error kinds, one per failure class the pipeline distinguishes.
var (
	// ErrUnavailable: engine not installed or not configured. Non-fatal,
	// moves the cascade to the next strategy.
	ErrUnavailable = errors.New("engine unavailable")
	// ErrResourceExhausted: engine load or run failed on memory. Causes a
	// one-way permanent downgrade of that engine for the process.
	ErrResourceExhausted = errors.New("resource exhausted")
	// ErrTransient: transcoding/network failure. Retried at most once with
	// an alternative path, then surfaced as "no result".
	ErrTransient = errors.New("transient failure")
	// ErrConfiguration: missing credentials or bad settings. Fatal to the
	// call, reported with an actionable message, never retried.
	ErrConfiguration = errors.New("configuration error")
	// ErrInvalidInput: corrupt or unsupported file content. Reported
	// per-file, no effect on global state.
	ErrInvalidInput = errors.New("invalid input")

	ErrDocumentNotFound = errors.New("document not found")
)

// WrapError preserves typed semantic errors with operation context.
func WrapError(kind error, operation string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w: %w", operation, kind, err)
}

func IsKind(err error, kind error) bool {
	return errors.Is(err, kind)
}
