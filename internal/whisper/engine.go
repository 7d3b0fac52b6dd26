package whisper

import "context"

type TranscriptionRequest struct {
	AudioPath string
	ModelPath string
	// Language is an ISO code or "auto" for detection.
	Language string
}

// Engine runs inference over a prepared 16 kHz mono WAV.
type Engine interface {
	Transcribe(ctx context.Context, req TranscriptionRequest) (string, error)
}
