package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/agrostack/agridocs/internal/core/domain"
	"github.com/agrostack/agridocs/internal/core/ports"
)

// TranscribeAudioUseCase exposes speech-to-text for ad-hoc audio that is
// not ingested as a document.
type TranscribeAudioUseCase struct {
	transcriber ports.SpeechTranscriber
}

func NewTranscribeAudioUseCase(transcriber ports.SpeechTranscriber) *TranscribeAudioUseCase {
	return &TranscribeAudioUseCase{transcriber: transcriber}
}

// Transcribe returns the recognized text. An empty string with a nil
// error means the audio contained no recognizable speech.
func (uc *TranscribeAudioUseCase) Transcribe(ctx context.Context, audio []byte) (string, error) {
	if len(audio) == 0 {
		return "", domain.WrapError(domain.ErrInvalidInput, "transcribe", errors.New("empty audio payload"))
	}
	text, err := uc.transcriber.Transcribe(ctx, audio)
	if err != nil {
		return "", fmt.Errorf("transcribe audio: %w", err)
	}
	return text, nil
}
