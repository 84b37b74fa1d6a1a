package domain

type CapabilityKind string

const (
	CapClassifier CapabilityKind = "classifier"
	CapOCR        CapabilityKind = "ocr"
	CapSpeech     CapabilityKind = "speech"
	CapTranscoder CapabilityKind = "transcoder"
)

// Capability records whether one optional engine is usable. Entries are
// built once per process; the only mutation is the one-way transition to
// unavailable after a resource-exhaustion or load failure.
type Capability struct {
	Name      string         `json:"name"`
	Kind      CapabilityKind `json:"kind"`
	Available bool           `json:"available"`
	Reason    string         `json:"reason,omitempty"`
}
