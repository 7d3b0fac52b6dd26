package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/fmueller/transcribe/internal/whisper"
	"github.com/stretchr/testify/require"
)

func runCommand(t *testing.T, args []string) (stdout string, stderr string, err error) {
	t.Helper()
	return runApp(t, newAppState(), args)
}

func runApp(t *testing.T, app *appState, args []string) (stdout string, stderr string, err error) {
	t.Helper()

	cmd := newRootCmd(app)
	outBuf := new(bytes.Buffer)
	errBuf := new(bytes.Buffer)

	cmd.SetOut(outBuf)
	cmd.SetErr(errBuf)
	cmd.SetArgs(args)

	err = cmd.ExecuteContext(context.Background())
	return outBuf.String(), errBuf.String(), err
}

type fakeTranscriber struct {
	result whisper.Result
	err    error
	paths  []string
}

func (f *fakeTranscriber) Transcribe(_ context.Context, audioPath string) (whisper.Result, error) {
	f.paths = append(f.paths, audioPath)
	return f.result, f.err
}

func appWithTranscriber(tr transcriber) *appState {
	app := newAppState()
	app.noProgress = true
	app.loadFn = func(context.Context) (transcriber, error) { return tr, nil }
	return app
}

type fakeEngine struct {
	text string
}

func (f fakeEngine) Transcribe(context.Context, whisper.TranscriptionRequest) (string, error) {
	return f.text, nil
}

func writeAudio(t *testing.T, name string, content []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, content, 0o644))
	return path
}

func requireExitCode(t *testing.T, err error, code int) {
	t.Helper()

	var exitErr *ExitError
	require.ErrorAs(t, err, &exitErr)
	require.Equal(t, code, exitErr.Code)
}
