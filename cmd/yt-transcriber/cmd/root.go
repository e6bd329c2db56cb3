package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ytget/yt-transcriber/internal/config"
	"github.com/ytget/yt-transcriber/internal/logging"
)

var (
	configPath string
	verbose    bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "yt-transcriber",
	Short: "Download YouTube audio and transcribe it with Whisper",
	Long: `Download YouTube audio and transcribe it with Whisper.

- Audio is fetched with yt-dlp and converted to 16 kHz mono WAV with ffmpeg
- Speech is recognized with the local whisper.cpp CLI or the OpenAI Whisper API
- Transcripts are saved as text files and recorded in a local history database`,
	SilenceUsage:     true,
	TraverseChildren: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", config.DefaultConfigPath(), "config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "V", false, "verbose output")

	rootCmd.AddCommand(transcribeCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(modelsCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}

// runtime is the per-invocation settings and logger
type runtime struct {
	store    *config.FileStore
	settings *config.Settings
	logger   *zap.Logger
}

func newRuntime(cmd *cobra.Command) (*runtime, error) {
	if _, err := config.LoadEnv(); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "⚠️  %v\n", err)
	}

	store, err := config.LoadFileStore(configPath)
	if err != nil {
		return nil, err
	}

	logger := zap.NewNop()
	if verbose || logging.DevelopmentFromEnv() {
		if logger, err = logging.New(true); err != nil {
			return nil, err
		}
	}

	return &runtime{
		store:    store,
		settings: config.NewSettingsWithPreferences(store),
		logger:   logger,
	}, nil
}

func (r *runtime) close() {
	_ = r.logger.Sync()
}
