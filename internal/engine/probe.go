package engine

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/exec"
	"time"

	"github.com/agrostack/agridocs/internal/config"
	"github.com/agrostack/agridocs/internal/core/domain"
)

const probeTimeout = 2 * time.Second

// Probe builds the capability table with cheap, side-effect-free checks:
// binary presence on PATH, endpoint reachability, credential presence.
// No model is loaded here. Probe never fails; every problem becomes an
// unavailable entry with a reason.
func Probe(cfg config.Config, log *slog.Logger) *Registry {
	reg := NewRegistry(log)
	client := &http.Client{Timeout: probeTimeout}

	reg.Set(probeBinary(Tesseract, domain.CapOCR, cfg.TesseractBin, cfg.DisableOCR, "disabled by DISABLE_OCR"))
	reg.Set(probeEndpoint(NeuralOCR, domain.CapOCR, client, cfg.OCRSidecarURL, cfg.DisableOCR, "disabled by DISABLE_OCR"))
	reg.Set(probeEndpoint(NeuralClassifier, domain.CapClassifier, client, cfg.ClassifierURL, false, ""))
	reg.Set(probeBinary(FFmpeg, domain.CapTranscoder, cfg.FFmpegBin, false, ""))
	reg.Set(probeWhisper(cfg))
	reg.Set(probeEndpoint(OnlineSpeech, domain.CapSpeech, client, cfg.SpeechAPIURL, cfg.DisableSpeech, "disabled by DISABLE_SPEECH"))
	reg.Set(probeRemoteModel(cfg))

	// Trains in-process at startup; nothing external to check.
	reg.Set(domain.Capability{Name: BayesClassifier, Kind: domain.CapClassifier, Available: true})

	return reg
}

func probeBinary(name string, kind domain.CapabilityKind, bin string, disabled bool, disabledReason string) domain.Capability {
	cap := domain.Capability{Name: name, Kind: kind}
	if disabled {
		cap.Reason = disabledReason
		return cap
	}
	if bin == "" {
		cap.Reason = "binary not configured"
		return cap
	}
	if _, err := exec.LookPath(bin); err != nil {
		cap.Reason = fmt.Sprintf("%s not on PATH", bin)
		return cap
	}
	cap.Available = true
	return cap
}

func probeEndpoint(name string, kind domain.CapabilityKind, client *http.Client, url string, disabled bool, disabledReason string) domain.Capability {
	cap := domain.Capability{Name: name, Kind: kind}
	if disabled {
		cap.Reason = disabledReason
		return cap
	}
	if url == "" {
		cap.Reason = "endpoint not configured"
		return cap
	}
	resp, err := client.Get(url + "/health")
	if err != nil {
		cap.Reason = fmt.Sprintf("endpoint unreachable: %v", err)
		return cap
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		cap.Reason = fmt.Sprintf("endpoint health status %d", resp.StatusCode)
		return cap
	}
	cap.Available = true
	return cap
}

func probeWhisper(cfg config.Config) domain.Capability {
	cap := domain.Capability{Name: Whisper, Kind: domain.CapSpeech}
	if cfg.DisableSpeech {
		cap.Reason = "disabled by DISABLE_SPEECH"
		return cap
	}
	if _, err := exec.LookPath(cfg.WhisperBin); err != nil {
		cap.Reason = fmt.Sprintf("%s not on PATH", cfg.WhisperBin)
		return cap
	}
	if cfg.WhisperModelPath == "" {
		cap.Reason = "model path not configured"
		return cap
	}
	if _, err := os.Stat(cfg.WhisperModelPath); err != nil {
		cap.Reason = fmt.Sprintf("model file missing: %v", err)
		return cap
	}
	cap.Available = true
	return cap
}

func probeRemoteModel(cfg config.Config) domain.Capability {
	cap := domain.Capability{Name: RemoteModel, Kind: domain.CapClassifier}
	if cfg.DeepSeekAPIKey == "" {
		cap.Reason = "DEEPSEEK_API_KEY not set"
		return cap
	}
	cap.Available = true
	return cap
}
