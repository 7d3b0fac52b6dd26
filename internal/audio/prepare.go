package audio

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// TargetSampleRate is the only rate whisper models accept.
const TargetSampleRate = 16000

// FFmpegPathEnv points at an ffmpeg binary when it is not on PATH.
const FFmpegPathEnv = "TRANSCRIBE_FFMPEG_PATH"

var ErrDecoderUnavailable = errors.New("ffmpeg not found; install ffmpeg or set " + FFmpegPathEnv + " to decode non-WAV audio")

type PrepareOptions struct {
	// FFmpegPath overrides TRANSCRIBE_FFMPEG_PATH and the PATH lookup.
	FFmpegPath string
	TempDir    string
	Logger     *zap.Logger
}

// Prepare returns a path to a 16 kHz mono PCM16 WAV rendering of path. The
// cleanup func removes any temporary file and is safe to call once.
func Prepare(ctx context.Context, path string, opts PrepareOptions) (string, func(), error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	noop := func() {}

	info, err := os.Stat(path)
	if err != nil {
		return "", noop, fmt.Errorf("stat audio: %w", err)
	}
	if info.IsDir() {
		return "", noop, fmt.Errorf("%s is a directory", path)
	}

	format, inspectErr := Inspect(path)
	if inspectErr == nil && format.EngineReady() {
		logger.Debug("audio already engine-ready", zap.String("audio", path))
		return path, noop, nil
	}
	if inspectErr != nil && !errors.Is(inspectErr, ErrInvalidWAV) && !errors.Is(inspectErr, ErrUnsupportedWAV) {
		return "", noop, inspectErr
	}

	ffmpeg, err := resolveFFmpeg(opts.FFmpegPath)
	if err != nil {
		return "", noop, err
	}

	out, err := os.CreateTemp(opts.TempDir, "transcribe-*.wav")
	if err != nil {
		return "", noop, fmt.Errorf("create temp wav: %w", err)
	}
	outPath := out.Name()
	_ = out.Close()
	cleanup := func() { _ = os.Remove(outPath) }

	logger.Debug("converting audio", zap.String("audio", path), zap.String("ffmpeg", ffmpeg), zap.String("output", outPath))
	if err := convert(ctx, ffmpeg, path, outPath); err != nil {
		cleanup()
		return "", noop, err
	}

	return outPath, cleanup, nil
}

func convert(ctx context.Context, ffmpeg, in, out string) error {
	args := []string{
		"-nostdin",
		"-hide_banner",
		"-loglevel", "error",
		"-y",
		"-threads", "0",
		"-i", in,
		"-vn",
		"-ac", "1",
		"-ar", fmt.Sprint(TargetSampleRate),
		"-c:a", "pcm_s16le",
		out,
	}

	cmd := exec.CommandContext(ctx, ffmpeg, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("decode audio with ffmpeg: %w (%s)", err, lastLine(stderr.String()))
	}
	return nil
}

func resolveFFmpeg(override string) (string, error) {
	if candidate := strings.TrimSpace(override); candidate != "" {
		return candidate, nil
	}
	if candidate := strings.TrimSpace(os.Getenv(FFmpegPathEnv)); candidate != "" {
		return candidate, nil
	}

	name := "ffmpeg"
	if filepath.Separator == '\\' {
		name = "ffmpeg.exe"
	}
	path, err := exec.LookPath(name)
	if err != nil {
		return "", ErrDecoderUnavailable
	}
	return path, nil
}

func lastLine(output string) string {
	trimmed := strings.TrimSpace(output)
	if trimmed == "" {
		return "no diagnostics"
	}
	lines := strings.Split(trimmed, "\n")
	return strings.TrimSpace(lines[len(lines)-1])
}
