package platform

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

const appName = "transcribe"

// ModelDirEnv overrides the default model directory when no flag is given.
const ModelDirEnv = "TRANSCRIBE_MODEL_DIR"

type dirEnv struct {
	home         string
	xdgDataHome  string
	localAppData string
}

func DefaultModelDirFor(goos, homeDir, xdgDataHome string) (string, error) {
	dataDir, err := dataDirFor(goos, dirEnv{home: homeDir, xdgDataHome: xdgDataHome})
	if err != nil {
		return "", err
	}
	return filepath.Join(dataDir, "models"), nil
}

// ResolveModelDir picks the flag override, then TRANSCRIBE_MODEL_DIR, then the
// per-OS data directory.
func ResolveModelDir(override string) (string, error) {
	return resolveModelDir(override, runtime.GOOS, os.Getenv, os.UserHomeDir)
}

func resolveModelDir(override, goos string, getenv func(string) string, home func() (string, error)) (string, error) {
	if strings.TrimSpace(override) != "" {
		return filepath.Clean(override), nil
	}
	if fromEnv := strings.TrimSpace(getenv(ModelDirEnv)); fromEnv != "" {
		return filepath.Clean(fromEnv), nil
	}

	homeDir, err := home()
	if err != nil {
		return "", fmt.Errorf("resolve user home: %w", err)
	}

	dataDir, err := dataDirFor(goos, dirEnv{
		home:         homeDir,
		xdgDataHome:  getenv("XDG_DATA_HOME"),
		localAppData: getenv("LOCALAPPDATA"),
	})
	if err != nil {
		return "", err
	}
	return filepath.Join(dataDir, "models"), nil
}

func dataDirFor(goos string, env dirEnv) (string, error) {
	if env.home == "" {
		return "", errors.New("home directory is empty")
	}

	switch goos {
	case "darwin":
		return filepath.Join(env.home, "Library", "Application Support", appName), nil
	case "windows":
		if env.localAppData != "" {
			return filepath.Join(env.localAppData, appName), nil
		}
		return filepath.Join(env.home, "AppData", "Local", appName), nil
	case "linux", "freebsd", "openbsd", "netbsd":
		if env.xdgDataHome != "" {
			return filepath.Join(env.xdgDataHome, appName), nil
		}
		return filepath.Join(env.home, ".local", "share", appName), nil
	default:
		return "", fmt.Errorf("unsupported OS: %s", goos)
	}
}
