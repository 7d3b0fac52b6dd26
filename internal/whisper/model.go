package whisper

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

const DefaultModel = "base"

type Model struct {
	Name     string
	FileName string
	URL      string
	SHA256   string
}

type ResolvedModel struct {
	Name          string
	Path          string
	URL           string
	SHA256        string
	NeedsDownload bool
}

const ggmlBaseURL = "https://huggingface.co/ggerganov/whisper.cpp/resolve/main/"

var registry = map[string]Model{
	"tiny": {
		Name:     "tiny",
		FileName: "ggml-tiny.bin",
		URL:      ggmlBaseURL + "ggml-tiny.bin",
		SHA256:   "be07e048e1e599ad46341c8d2a135645097a538221678b7acdd1b1919c6e1b21",
	},
	"base": {
		Name:     "base",
		FileName: "ggml-base.bin",
		URL:      ggmlBaseURL + "ggml-base.bin",
		SHA256:   "60ed5bc3dd14eea856493d334349b405782ddcaf0028d4b5df4088345fba2efe",
	},
	"small": {
		Name:     "small",
		FileName: "ggml-small.bin",
		URL:      ggmlBaseURL + "ggml-small.bin",
		SHA256:   "1be3a9b2063867b937e64e2ec7483364a79917e157fa98c5d94b5c1fffea987b",
	},
	"medium": {
		Name:     "medium",
		FileName: "ggml-medium.bin",
		URL:      ggmlBaseURL + "ggml-medium.bin",
		SHA256:   "6c14d5adee5f86394037b4e4e8b59f1673b6cee10e3cf0b11bbdbee79c156208",
	},
	"large-v3": {
		Name:     "large-v3",
		FileName: "ggml-large-v3.bin",
		URL:      ggmlBaseURL + "ggml-large-v3.bin",
		SHA256:   "64d182b440b98d5203c4f9bd541544d84c605196c4f7b845dfa11fb23594d1e2",
	},
}

func ModelNames() []string {
	return sortedNames(registry)
}

func LookupModel(name string) (Model, bool) {
	return lookupIn(registry, name)
}

// ResolveModel maps a size selector to its weights file inside modelDir.
func ResolveModel(name, modelDir string) (ResolvedModel, error) {
	return resolveModelIn(registry, name, modelDir)
}

func resolveModelIn(models map[string]Model, name, modelDir string) (ResolvedModel, error) {
	if strings.TrimSpace(name) == "" {
		name = DefaultModel
	}

	model, ok := lookupIn(models, name)
	if !ok {
		return ResolvedModel{}, fmt.Errorf("unknown model %q (known models: %s)", name, strings.Join(sortedNames(models), ", "))
	}
	if strings.TrimSpace(modelDir) == "" {
		return ResolvedModel{}, errors.New("model directory must not be empty")
	}

	modelPath := filepath.Join(modelDir, model.FileName)
	info, err := os.Stat(modelPath)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return ResolvedModel{}, fmt.Errorf("stat model path: %w", err)
	case info.IsDir():
		return ResolvedModel{}, fmt.Errorf("model path %s is a directory", modelPath)
	}

	return ResolvedModel{
		Name:          model.Name,
		Path:          modelPath,
		URL:           model.URL,
		SHA256:        model.SHA256,
		NeedsDownload: err != nil,
	}, nil
}

func lookupIn(models map[string]Model, name string) (Model, bool) {
	model, ok := models[strings.ToLower(strings.TrimSpace(name))]
	return model, ok
}

func sortedNames(models map[string]Model) []string {
	names := make([]string, 0, len(models))
	for name := range models {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
