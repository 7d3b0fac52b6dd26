package whisper

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"go.uber.org/zap"
)

// EnginePathEnv overrides engine discovery.
const EnginePathEnv = "TRANSCRIBE_WHISPER_PATH"

var ErrEngineNotFound = errors.New("whisper engine not found")

// BundledEngine shells out to a whisper.cpp whisper-cli executable.
type BundledEngine struct {
	Executable string
	TempDir    string
	Logger     *zap.Logger
}

// NewBundledEngine locates whisper-cli: the explicit path, then
// TRANSCRIBE_WHISPER_PATH, then next to this program, then PATH.
func NewBundledEngine(explicit string, logger *zap.Logger) (*BundledEngine, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	for _, override := range []struct{ source, path string }{
		{"engine path", explicit},
		{EnginePathEnv, os.Getenv(EnginePathEnv)},
	} {
		path := strings.TrimSpace(override.path)
		if path == "" {
			continue
		}
		if err := ensureExecutable(path); err != nil {
			return nil, fmt.Errorf("%s is not executable: %w", override.source, err)
		}
		return &BundledEngine{Executable: path, Logger: logger}, nil
	}

	self, err := os.Executable()
	if err != nil {
		return nil, fmt.Errorf("resolve program path: %w", err)
	}

	path, err := ResolveEnginePath(self)
	if err != nil {
		return nil, err
	}
	return &BundledEngine{Executable: path, Logger: logger}, nil
}

// ResolveEnginePath checks the install-relative candidates, then PATH.
func ResolveEnginePath(programPath string) (string, error) {
	for _, candidate := range EnginePathCandidates(programPath) {
		if err := ensureExecutable(candidate); err == nil {
			return candidate, nil
		}
	}

	for _, name := range []string{engineBinaryName(), "whisper-cpp"} {
		if path, err := exec.LookPath(name); err == nil {
			return path, nil
		}
	}

	return "", fmt.Errorf("%w near %s or on PATH; install whisper.cpp or set %s to a whisper-cli binary", ErrEngineNotFound, programPath, EnginePathEnv)
}

func EnginePathCandidates(programPath string) []string {
	binDir := filepath.Dir(programPath)
	name := engineBinaryName()

	return []string{
		filepath.Join(binDir, "..", "libexec", "whisper", name),
		filepath.Join(binDir, "libexec", "whisper", name),
		filepath.Join(binDir, name),
	}
}

func (b *BundledEngine) Transcribe(ctx context.Context, req TranscriptionRequest) (string, error) {
	if strings.TrimSpace(req.AudioPath) == "" {
		return "", errors.New("audio path is required")
	}
	if strings.TrimSpace(req.ModelPath) == "" {
		return "", errors.New("model path is required")
	}
	if err := ensureExecutable(b.Executable); err != nil {
		return "", fmt.Errorf("whisper engine missing or not executable: %w", err)
	}

	logger := b.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	outDir, err := os.MkdirTemp(b.TempDir, "transcribe-out-")
	if err != nil {
		return "", fmt.Errorf("create engine output directory: %w", err)
	}
	defer os.RemoveAll(outDir)
	outBase := filepath.Join(outDir, "transcript")

	lang := strings.TrimSpace(req.Language)
	if lang == "" {
		lang = "auto"
	}

	args := []string{"-m", req.ModelPath, "-f", req.AudioPath, "-l", lang, "-nt", "-np", "-otxt", "-of", outBase}

	cmd := exec.CommandContext(ctx, b.Executable, args...)
	var stderr bytes.Buffer
	cmd.Stdout = io.Discard
	cmd.Stderr = &stderr

	logger.Debug("running whisper engine", zap.String("engine", b.Executable), zap.Strings("args", args))
	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		errText := strings.TrimSpace(stderr.String())
		switch {
		case isMissingSharedLibraryError(errText):
			return "", fmt.Errorf("whisper engine at %s is missing required shared libraries (%s); rebuild whisper-cli with BUILD_SHARED_LIBS=OFF or fix the library path", b.Executable, errText)
		case isIllegalInstructionError(errText) || isIllegalInstructionError(err.Error()):
			return "", fmt.Errorf("whisper engine crashed with an illegal CPU instruction; " +
				"your CPU may lack required instruction set extensions; " +
				"set " + EnginePathEnv + " to a whisper-cli binary built for your CPU")
		}
		return "", fmt.Errorf("whisper-cli failed: %w (%s)", err, errText)
	}

	content, err := os.ReadFile(outBase + ".txt")
	if err != nil {
		return "", fmt.Errorf("read whisper output: %w", err)
	}

	return strings.TrimSpace(string(content)), nil
}

func engineBinaryName() string {
	if runtime.GOOS == "windows" {
		return "whisper-cli.exe"
	}
	return "whisper-cli"
}

func ensureExecutable(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory", path)
	}
	if runtime.GOOS != "windows" && info.Mode()&0o111 == 0 {
		return fmt.Errorf("%s is not executable", path)
	}
	return nil
}

func isMissingSharedLibraryError(stderr string) bool {
	value := strings.ToLower(strings.TrimSpace(stderr))
	if value == "" {
		return false
	}

	for _, pattern := range []string{
		"error while loading shared libraries",
		"cannot open shared object file",
		"dyld: library not loaded",
		"image not found",
	} {
		if strings.Contains(value, pattern) {
			return true
		}
	}
	return false
}

func isIllegalInstructionError(stderr string) bool {
	return strings.Contains(strings.ToLower(stderr), "illegal instruction")
}
