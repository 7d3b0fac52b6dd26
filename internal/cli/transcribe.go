package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/fmueller/transcribe/internal/platform"
	"github.com/fmueller/transcribe/internal/whisper"
	"go.uber.org/zap"
)

const (
	missingArgumentMessage = "Please provide a path to the audio file."
	fileNotFoundFormat     = "File not found: %s\n"
	transcribeErrorFormat  = "Error transcribing: %v\n"
)

// run is the whole program: check the argument, check the file, transcribe,
// print. Transcription failures are reported on stdout and still exit 0.
func (a *appState) run(ctx context.Context, out io.Writer, args []string) error {
	if len(args) == 0 {
		fmt.Fprintln(out, missingArgumentMessage)
		return &ExitError{Code: 1}
	}
	if len(args) > 1 {
		a.log().Debug("ignoring extra arguments", zap.Strings("args", args[1:]))
	}

	audioPath := args[0]
	if _, err := os.Stat(audioPath); err != nil {
		a.log().Debug("audio path check failed", zap.String("audio", audioPath), zap.Error(err))
		fmt.Fprintf(out, fileNotFoundFormat, audioPath)
		return &ExitError{Code: 1}
	}

	transcribeFn := a.transcribeFn
	if transcribeFn == nil {
		transcribeFn = a.transcribeAudio
	}

	transcript, err := transcribeFn(ctx, audioPath)
	if err != nil {
		a.log().Debug("transcription failed", zap.String("kind", errorKind(err)), zap.Error(err))
		fmt.Fprintf(out, transcribeErrorFormat, err)
		return nil
	}

	fmt.Fprintln(out, transcript)
	if !hasSpeech(transcript) {
		a.log().Warn(noSpeechMessage, zap.String("audio", audioPath))
	}
	return nil
}

func (a *appState) transcribeAudio(ctx context.Context, audioPath string) (string, error) {
	loadFn := a.loadFn
	if loadFn == nil {
		loadFn = a.loadTranscriber
	}

	tr, err := loadFn(ctx)
	if err != nil {
		return "", err
	}

	a.log().Info("transcribing...", zap.String("audio", audioPath), zap.String("model", modelName))
	stopSpinner := startSpinner(a.progressEnabled(), "Transcribing")
	started := time.Now()

	result, err := tr.Transcribe(ctx, audioPath)
	stopSpinner()
	if err != nil {
		return "", err
	}
	a.log().Info("transcription finished", zap.Duration("elapsed", time.Since(started)))

	return result.Text, nil
}

func (a *appState) loadTranscriber(ctx context.Context) (transcriber, error) {
	modelDir, err := platform.ResolveModelDir(a.modelDir)
	if err != nil {
		return nil, &whisper.ModelLoadError{Model: modelName, Err: err}
	}
	if err := os.MkdirAll(modelDir, 0o755); err != nil {
		return nil, &whisper.ModelLoadError{Model: modelName, Err: fmt.Errorf("create model directory %s: %w", modelDir, err)}
	}

	tr, err := whisper.Load(ctx, modelName, whisper.LoadOptions{
		ModelDir:       modelDir,
		AutoDownload:   a.autoDownload,
		VerifyChecksum: true,
		NoProgress:     a.noProgress,
		Logger:         a.log(),
	})
	if err != nil {
		return nil, err
	}
	return tr, nil
}

func errorKind(err error) string {
	var (
		loadErr  *whisper.ModelLoadError
		readErr  *whisper.AudioReadError
		inferErr *whisper.ModelInferenceError
	)

	switch {
	case errors.As(err, &loadErr):
		return "model_load"
	case errors.As(err, &readErr):
		return "audio_read"
	case errors.As(err, &inferErr):
		return "model_inference"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "canceled"
	default:
		return "unknown"
	}
}
