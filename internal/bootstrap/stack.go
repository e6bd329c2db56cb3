// Package bootstrap builds the service graph shared by the GUI and the CLI
// from the user's settings.
package bootstrap

import (
	"context"
	"fmt"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/ytget/yt-transcriber/internal/config"
	"github.com/ytget/yt-transcriber/internal/convert"
	"github.com/ytget/yt-transcriber/internal/download"
	"github.com/ytget/yt-transcriber/internal/history"
	"github.com/ytget/yt-transcriber/internal/logging"
	"github.com/ytget/yt-transcriber/internal/pipeline"
	"github.com/ytget/yt-transcriber/internal/platform"
	"github.com/ytget/yt-transcriber/internal/transcribe"
)

// Scratch subdirectories under the work directory
const (
	DownloadsDirName = "downloads"
	JobsDirName      = "jobs"
)

// Stack holds the wired services
type Stack struct {
	Pipeline *pipeline.Service
	History  *history.Store // nil when the database could not be opened
	Checker  *platform.DependencyChecker

	downloader download.Downloader
	whisperCPP *transcribe.WhisperCPP
	openAI     *transcribe.OpenAI
	logger     *zap.Logger
}

// InitializeStack wires download, conversion, transcription, history and the job pipeline
func InitializeStack(settings *config.Settings, logger *zap.Logger) (*Stack, error) {
	logger = logging.OrNop(logger)
	workDir := settings.GetWorkDirectory()

	downloader, err := download.NewService(filepath.Join(workDir, DownloadsDirName), logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize downloader: %w", err)
	}

	converter := convert.NewService(logger)
	whisperCPP := transcribe.NewWhisperCPP(whisperConfig(settings), logger)
	openAI := transcribe.NewOpenAI(settings.GetOpenAIAPIKey(), logger)
	transcriber := transcribe.NewService(converter, logger, whisperCPP, openAI)

	stack := &Stack{
		Checker:    platform.NewDependencyChecker(),
		downloader: downloader,
		whisperCPP: whisperCPP,
		openAI:     openAI,
		logger:     logger,
	}

	var recorder pipeline.Recorder
	if store, err := history.Open(settings.GetHistoryPath()); err != nil {
		logger.Warn("history disabled", zap.String("path", settings.GetHistoryPath()), zap.Error(err))
	} else {
		stack.History = store
		recorder = store
	}

	stack.Pipeline, err = pipeline.NewService(pipeline.Config{
		Downloader:  downloader,
		Converter:   converter,
		Transcriber: transcriber,
		History:     recorder,
		Playlists:   platform.NewPlaylistParser(),
		WorkDir:     filepath.Join(workDir, JobsDirName),
		MaxParallel: settings.GetMaxParallelJobs(),
		Logger:      logger,
	})
	if err != nil {
		stack.closeHistory()
		return nil, err
	}
	return stack, nil
}

// Reconfigure applies engine and concurrency settings to the running services
func (s *Stack) Reconfigure(settings *config.Settings) {
	s.whisperCPP.Configure(whisperConfig(settings))
	s.openAI.SetAPIKey(settings.GetOpenAIAPIKey())
	s.Pipeline.SetMaxParallel(settings.GetMaxParallelJobs())
	s.logger.Info("settings applied",
		zap.String("engine", string(settings.GetEngine())),
		zap.String("whisper_binary", settings.GetWhisperBinary()),
		zap.Int("max_parallel", settings.GetMaxParallelJobs()))
}

// Close stops running jobs, clears leftover downloads and closes the history database
func (s *Stack) Close(ctx context.Context) error {
	err := s.Pipeline.Shutdown(ctx)
	if cerr := s.downloader.Cleanup(); cerr != nil {
		s.logger.Warn("failed to clean download directory", zap.Error(cerr))
	}
	s.closeHistory()
	return err
}

func (s *Stack) closeHistory() {
	if s.History == nil {
		return
	}
	if err := s.History.Close(); err != nil {
		s.logger.Warn("failed to close history", zap.Error(err))
	}
}

func whisperConfig(settings *config.Settings) transcribe.WhisperCPPConfig {
	return transcribe.WhisperCPPConfig{
		Binary:    settings.GetWhisperBinary(),
		ModelsDir: settings.GetModelsDirectory(),
		AutoFetch: true,
	}
}
