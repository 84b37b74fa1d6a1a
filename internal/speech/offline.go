package speech

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"sync"

	"github.com/agrostack/agridocs/internal/core/domain"
	"github.com/agrostack/agridocs/internal/engine"
)

// WhisperEngine shells out to a whisper.cpp style binary. Model validation
// happens once; the validated handle is cached for subsequent calls.
// Sampling is pinned to temperature 0 so repeated runs on the same audio
// are stable.
type WhisperEngine struct {
	bin       string
	modelPath string

	loadOnce sync.Once
	loadErr  error
}

func NewWhisperEngine(bin, modelPath string) *WhisperEngine {
	return &WhisperEngine{bin: bin, modelPath: modelPath}
}

func (e *WhisperEngine) Name() string { return engine.Whisper }

func (e *WhisperEngine) Load(context.Context) error {
	e.loadOnce.Do(func() {
		if e.modelPath == "" {
			e.loadErr = domain.WrapError(domain.ErrUnavailable, "whisper load",
				fmt.Errorf("model path not configured"))
			return
		}
		info, err := os.Stat(e.modelPath)
		if err != nil {
			e.loadErr = domain.WrapError(domain.ErrUnavailable, "whisper load", err)
			return
		}
		if info.Size() == 0 {
			e.loadErr = domain.WrapError(domain.ErrInvalidInput, "whisper load",
				fmt.Errorf("model file is empty"))
		}
	})
	return e.loadErr
}

// Transcribe feeds WAV bytes to the binary and returns the raw transcript.
// An empty transcript with no error means the audio contained no speech.
func (e *WhisperEngine) Transcribe(ctx context.Context, wav []byte) (string, error) {
	if err := e.Load(ctx); err != nil {
		return "", err
	}

	tmp, err := os.CreateTemp("", "whisper-in-*.wav")
	if err != nil {
		return "", fmt.Errorf("create temp wav: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(wav); err != nil {
		tmp.Close()
		return "", fmt.Errorf("write temp wav: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("close temp wav: %w", err)
	}

	cmd := exec.CommandContext(ctx, e.bin,
		"-m", e.modelPath,
		"-f", tmp.Name(),
		"--no-timestamps",
		"--temperature", "0",
	)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		msg := lastLine(stderr.String())
		if strings.Contains(msg, "out of memory") || strings.Contains(msg, "failed to allocate") {
			return "", domain.WrapError(domain.ErrResourceExhausted, "whisper transcribe",
				fmt.Errorf("%w: %s", err, msg))
		}
		return "", domain.WrapError(domain.ErrTransient, "whisper transcribe",
			fmt.Errorf("%w: %s", err, msg))
	}
	return strings.TrimSpace(stdout.String()), nil
}
