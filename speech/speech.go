package speech

import (
	"context"
	"fmt"
	"log"

	"github.com/mohammad-safakhou/newscast/config"
	"github.com/mohammad-safakhou/newscast/speech/fal"
)

// Backend renders text to a hosted audio file.
type Backend interface {
	Synthesize(ctx context.Context, text string, debate bool) (string, error)
}

// Synthesizer makes speech best effort: a failed backend call is logged and reported
// as ok == false, never as an error.
type Synthesizer struct {
	backend Backend
	logger  *log.Logger
}

// NewSynthesizer wraps backend.
func NewSynthesizer(backend Backend, logger *log.Logger) *Synthesizer {
	if logger == nil {
		logger = log.New(log.Writer(), "[TTS] ", log.LstdFlags)
	}
	return &Synthesizer{backend: backend, logger: logger}
}

// Synthesize returns the audio URL and true, or "" and false when no audio is available.
func (s *Synthesizer) Synthesize(ctx context.Context, text string, debate bool) (string, bool) {
	if s == nil || s.backend == nil {
		return "", false
	}
	url, err := s.backend.Synthesize(ctx, text, debate)
	if err != nil {
		s.logger.Printf("TTS error (debate=%t): %v", debate, err)
		return "", false
	}
	return url, true
}

// NewBackend builds the configured TTS backend.
func NewBackend(cfg config.SpeechConfig, logger *log.Logger) (Backend, error) {
	switch cfg.Provider {
	case "fal":
		return fal.New(fal.Options{
			APIKey:         cfg.APIKey,
			SingleEndpoint: cfg.SingleEndpoint,
			DialogEndpoint: cfg.DialogEndpoint,
			Voice:          cfg.Voice,
			DebateVoices:   cfg.DebateVoices,
			Timeout:        cfg.Timeout,
			Logger:         logger,
		})
	default:
		return nil, fmt.Errorf("unsupported speech provider: %q", cfg.Provider)
	}
}
