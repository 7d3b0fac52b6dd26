package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/fmueller/transcribe/internal/logging"
	"github.com/fmueller/transcribe/internal/version"
	"github.com/fmueller/transcribe/internal/whisper"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/spf13/cobra"
)

// modelName is fixed; choosing a model size is not part of the CLI surface.
const modelName = whisper.DefaultModel

type transcriber interface {
	Transcribe(ctx context.Context, audioPath string) (whisper.Result, error)
}

type appState struct {
	verbose      bool
	jsonLogs     bool
	noProgress   bool
	modelDir     string
	autoDownload bool
	envFile      string

	logger *zap.Logger

	loadFn       func(ctx context.Context) (transcriber, error)
	transcribeFn func(ctx context.Context, audioPath string) (string, error)
}

func newAppState() *appState {
	app := &appState{autoDownload: true}
	app.loadFn = app.loadTranscriber
	app.transcribeFn = app.transcribeAudio
	return app
}

func NewRootCmd() *cobra.Command {
	return newRootCmd(newAppState())
}

func newRootCmd(app *appState) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "transcribe <audio-file>",
		Short: "Transcribe an audio file with a local whisper model",
		Long: "Transcribe an audio file with the whisper \"" + modelName + "\" model and print the text.\n\n" +
			"Model weights are downloaded on first use. Non-WAV input is decoded with ffmpeg.",
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       version.Resolve(),
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if app.envFile != "" {
				if err := godotenv.Load(app.envFile); err != nil {
					return fmt.Errorf("load env file %s: %w", app.envFile, err)
				}
			}

			logger, err := logging.New(logging.Options{Verbose: app.verbose, JSON: app.jsonLogs, Writer: cmd.ErrOrStderr()})
			if err != nil {
				return fmt.Errorf("initialize logger: %w", err)
			}
			app.logger = logger
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.run(cmd.Context(), cmd.OutOrStdout(), args)
		},
	}

	cmd.SetVersionTemplate("{{.Name}} v{{.Version}}\n")

	cmd.Flags().BoolVar(&app.verbose, "verbose", app.verbose, "Enable verbose logs")
	cmd.Flags().BoolVar(&app.jsonLogs, "json", app.jsonLogs, "Enable JSON logging")
	cmd.Flags().BoolVar(&app.noProgress, "no-progress", app.noProgress, "Disable progress indicators")
	cmd.Flags().StringVar(&app.modelDir, "model-dir", app.modelDir, "Directory where model weights are cached (default: $TRANSCRIBE_MODEL_DIR or the per-user data directory)")
	cmd.Flags().BoolVar(&app.autoDownload, "auto-download", app.autoDownload, "Automatically download missing model weights")
	cmd.Flags().StringVar(&app.envFile, "env-file", app.envFile, "Load KEY=value pairs from this file before reading TRANSCRIBE_* variables")

	return cmd
}

func (a *appState) log() *zap.Logger {
	if a.logger == nil {
		return zap.NewNop()
	}
	return a.logger
}

func (a *appState) progressEnabled() bool {
	if a.noProgress {
		return false
	}
	return term.IsTerminal(int(os.Stderr.Fd()))
}
