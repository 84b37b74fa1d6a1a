// Package speech turns uploaded audio into text, preferring the offline
// engine and falling back to the hosted one.
package speech

import (
	"context"
	"errors"
	"log/slog"

	"github.com/agrostack/agridocs/internal/core/domain"
	"github.com/agrostack/agridocs/internal/engine"
)

// OfflineEngine is the local transcription backend.
type OfflineEngine interface {
	Name() string
	Load(ctx context.Context) error
	Transcribe(ctx context.Context, wav []byte) (string, error)
}

// RemoteEngine is the hosted transcription backend.
type RemoteEngine interface {
	Name() string
	Transcribe(ctx context.Context, audio []byte) (string, error)
}

// AudioTranscoder normalizes arbitrary audio to WAV for the offline engine.
type AudioTranscoder interface {
	Transcode(ctx context.Context, audio []byte) ([]byte, error)
}

// Selector implements ports.SpeechTranscriber. Offline first (needs the
// whisper engine plus either RIFF input or a working transcoder), hosted
// engine second. An empty transcript with a nil error means the audio
// carried no speech; engine failure is an error.
type Selector struct {
	registry   *engine.Registry
	offline    OfflineEngine
	online     RemoteEngine
	transcoder AudioTranscoder
	log        *slog.Logger
	disabled   bool
}

func NewSelector(
	registry *engine.Registry,
	offline OfflineEngine,
	online RemoteEngine,
	transcoder AudioTranscoder,
	log *slog.Logger,
	disabled bool,
) *Selector {
	if log == nil {
		log = slog.Default()
	}
	return &Selector{
		registry:   registry,
		offline:    offline,
		online:     online,
		transcoder: transcoder,
		log:        log,
		disabled:   disabled,
	}
}

func (s *Selector) Transcribe(ctx context.Context, audio []byte) (string, error) {
	if s.disabled {
		return "", domain.WrapError(domain.ErrUnavailable, "transcribe",
			errors.New("speech recognition is disabled"))
	}
	if len(audio) == 0 {
		return "", domain.WrapError(domain.ErrInvalidInput, "transcribe",
			errors.New("empty audio payload"))
	}

	if text, ok := s.tryOffline(ctx, audio); ok {
		return text, nil
	}

	if s.online != nil && s.registry.Available(engine.OnlineSpeech) {
		text, err := s.online.Transcribe(ctx, audio)
		if err != nil {
			return "", err
		}
		return text, nil
	}

	return "", domain.WrapError(domain.ErrUnavailable, "transcribe",
		errors.New("no speech engine available"))
}

func (s *Selector) tryOffline(ctx context.Context, audio []byte) (string, bool) {
	if s.offline == nil || !s.registry.Available(engine.Whisper) {
		return "", false
	}

	wav, err := s.prepareWAV(ctx, audio)
	if err != nil {
		s.log.Warn("speech_prepare_failed", "error", err)
		return "", false
	}

	if err := s.offline.Load(ctx); err != nil {
		s.registry.MarkFailed(s.offline.Name(), err.Error())
		return "", false
	}

	text, err := s.offline.Transcribe(ctx, wav)
	if err != nil {
		if domain.IsKind(err, domain.ErrResourceExhausted) {
			s.registry.MarkFailed(s.offline.Name(), err.Error())
		}
		s.log.Warn("speech_offline_failed", "error", err)
		return "", false
	}
	return text, true
}

// prepareWAV hands RIFF input through untouched. Anything else goes
// through the transcoder; when transcoding fails the raw bytes get one
// final header check before the offline path is abandoned.
func (s *Selector) prepareWAV(ctx context.Context, audio []byte) ([]byte, error) {
	if IsRIFFWave(audio) {
		return audio, nil
	}
	if s.transcoder == nil || !s.registry.Available(engine.FFmpeg) {
		return nil, domain.WrapError(domain.ErrUnavailable, "prepare wav",
			errors.New("no transcoder for non-wav audio"))
	}
	wav, err := s.transcoder.Transcode(ctx, audio)
	if err != nil {
		if IsRIFFWave(audio) {
			return audio, nil
		}
		return nil, err
	}
	return wav, nil
}
