package whisper

import "fmt"

// ModelLoadError covers unknown model names, missing or corrupt weights, and a
// missing engine executable.
type ModelLoadError struct {
	Model string
	Err   error
}

func (e *ModelLoadError) Error() string {
	return fmt.Sprintf("load model %q: %v", e.Model, e.Err)
}

func (e *ModelLoadError) Unwrap() error { return e.Err }

// AudioReadError means the input could not be read or decoded into samples.
type AudioReadError struct {
	Path string
	Err  error
}

func (e *AudioReadError) Error() string {
	return fmt.Sprintf("read audio %s: %v", e.Path, e.Err)
}

func (e *AudioReadError) Unwrap() error { return e.Err }

// ModelInferenceError means the engine ran and failed.
type ModelInferenceError struct {
	Model string
	Err   error
}

func (e *ModelInferenceError) Error() string {
	return fmt.Sprintf("inference with model %q: %v", e.Model, e.Err)
}

func (e *ModelInferenceError) Unwrap() error { return e.Err }
