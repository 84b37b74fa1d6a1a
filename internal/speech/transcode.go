package speech

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/agrostack/agridocs/internal/core/domain"
)

// Transcoder converts arbitrary audio into the mono 16kHz WAV the offline
// engine expects, round-tripping through temp files.
type Transcoder struct {
	bin string
}

func NewTranscoder(bin string) *Transcoder {
	return &Transcoder{bin: bin}
}

func (t *Transcoder) Transcode(ctx context.Context, audio []byte) ([]byte, error) {
	in, err := os.CreateTemp("", "audio-in-*")
	if err != nil {
		return nil, fmt.Errorf("create temp input: %w", err)
	}
	defer os.Remove(in.Name())

	if _, err := in.Write(audio); err != nil {
		in.Close()
		return nil, fmt.Errorf("write temp input: %w", err)
	}
	if err := in.Close(); err != nil {
		return nil, fmt.Errorf("close temp input: %w", err)
	}

	out, err := os.CreateTemp("", "audio-out-*.wav")
	if err != nil {
		return nil, fmt.Errorf("create temp output: %w", err)
	}
	outPath := out.Name()
	out.Close()
	defer os.Remove(outPath)

	cmd := exec.CommandContext(ctx, t.bin,
		"-y",
		"-i", in.Name(),
		"-ar", "16000",
		"-ac", "1",
		outPath,
	)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, domain.WrapError(domain.ErrTransient, "transcode audio",
			fmt.Errorf("%s: %w: %s", t.bin, err, lastLine(stderr.String())))
	}

	data, err := os.ReadFile(outPath)
	if err != nil {
		return nil, fmt.Errorf("read transcoded output: %w", err)
	}
	return data, nil
}

func lastLine(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	if len(lines) == 0 {
		return ""
	}
	return strings.TrimSpace(lines[len(lines)-1])
}
