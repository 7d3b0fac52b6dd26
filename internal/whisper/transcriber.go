package whisper

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/fmueller/transcribe/internal/audio"
	"github.com/fmueller/transcribe/internal/download"
	"go.uber.org/zap"
)

// Result is what a transcription produces. Callers that only want the words
// read Text.
type Result struct {
	Text  string
	Model string
}

type LoadOptions struct {
	ModelDir     string
	AutoDownload bool
	// VerifyChecksum hashes cached weights against the pinned digest before use.
	VerifyChecksum bool
	EnginePath     string
	FFmpegPath     string
	NoProgress     bool
	HTTPClient     *http.Client
	Logger         *zap.Logger

	// models replaces the built-in registry; nil means the registry.
	models map[string]Model
}

type Options struct {
	Language   string
	FFmpegPath string
	TempDir    string
	Logger     *zap.Logger
}

// Transcriber owns a loaded model. It holds no per-call state and can be
// reused for any number of files.
type Transcriber struct {
	engine Engine
	model  ResolvedModel
	opts   Options
}

func NewTranscriber(engine Engine, model ResolvedModel, opts Options) *Transcriber {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Language == "" {
		opts.Language = "auto"
	}
	return &Transcriber{engine: engine, model: model, opts: opts}
}

// Load resolves the named model, fetching its weights if needed, and locates
// the engine. Every failure is a *ModelLoadError.
func Load(ctx context.Context, name string, opts LoadOptions) (*Transcriber, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	models := opts.models
	if models == nil {
		models = registry
	}

	resolved, err := resolveModelIn(models, name, opts.ModelDir)
	if err != nil {
		return nil, &ModelLoadError{Model: name, Err: err}
	}

	if !resolved.NeedsDownload && opts.VerifyChecksum {
		if err := download.VerifyFileChecksum(resolved.Path, resolved.SHA256); err != nil {
			if !opts.AutoDownload {
				return nil, &ModelLoadError{Model: resolved.Name, Err: fmt.Errorf("cached weights at %s failed verification: %w", resolved.Path, err)}
			}
			logger.Warn("cached model failed verification; downloading fresh copy", zap.String("model", resolved.Name), zap.Error(err))
			resolved.NeedsDownload = true
		}
	}

	if resolved.NeedsDownload {
		if !opts.AutoDownload {
			return nil, &ModelLoadError{
				Model: resolved.Name,
				Err:   fmt.Errorf("weights missing at %s; rerun with --auto-download=true", resolved.Path),
			}
		}

		logger.Info("model not found, downloading", zap.String("model", resolved.Name), zap.String("destination", resolved.Path))
		started := time.Now()
		if err := download.File(ctx, download.Options{
			URL:         resolved.URL,
			Destination: resolved.Path,
			SHA256:      resolved.SHA256,
			Description: "downloading " + resolved.Name + " model",
			NoProgress:  opts.NoProgress,
			HTTPClient:  opts.HTTPClient,
			Logger:      logger,
		}); err != nil {
			return nil, &ModelLoadError{Model: resolved.Name, Err: fmt.Errorf("download weights: %w", err)}
		}
		logger.Info("model downloaded", zap.String("model", resolved.Name), zap.Duration("elapsed", time.Since(started)))
		resolved.NeedsDownload = false
	}

	engine, err := NewBundledEngine(opts.EnginePath, logger)
	if err != nil {
		return nil, &ModelLoadError{Model: resolved.Name, Err: err}
	}

	return NewTranscriber(engine, resolved, Options{FFmpegPath: opts.FFmpegPath, Logger: logger}), nil
}

func (t *Transcriber) Model() ResolvedModel {
	return t.model
}

// Transcribe decodes audioPath and runs the model over it. Decode failures
// are *AudioReadError, engine failures *ModelInferenceError.
func (t *Transcriber) Transcribe(ctx context.Context, audioPath string) (Result, error) {
	prepared, cleanup, err := audio.Prepare(ctx, audioPath, audio.PrepareOptions{
		FFmpegPath: t.opts.FFmpegPath,
		TempDir:    t.opts.TempDir,
		Logger:     t.opts.Logger,
	})
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return Result{}, err
		}
		return Result{}, &AudioReadError{Path: audioPath, Err: err}
	}
	defer cleanup()

	started := time.Now()
	text, err := t.engine.Transcribe(ctx, TranscriptionRequest{
		AudioPath: prepared,
		ModelPath: t.model.Path,
		Language:  t.opts.Language,
	})
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return Result{}, err
		}
		return Result{}, &ModelInferenceError{Model: t.model.Name, Err: err}
	}

	t.opts.Logger.Debug("inference finished", zap.String("model", t.model.Name), zap.Duration("elapsed", time.Since(started)))
	return Result{Text: text, Model: t.model.Name}, nil
}
