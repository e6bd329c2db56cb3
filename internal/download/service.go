package download

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/ytget/yt-transcriber/internal/logging"
	"github.com/ytget/yt-transcriber/internal/model"
	"github.com/ytget/yt-transcriber/internal/platform"
)

// ErrInvalidURL is returned when a URL is not a reachable YouTube video
var ErrInvalidURL = errors.New("invalid YouTube URL")

// Retry policy for audio downloads
const (
	MaxRetries   = 1
	RetryBackoff = 2 * time.Second
)

// Progress messages
const (
	MsgDownloadComplete = "Download complete, processing audio..."
)

var _ Downloader = (*Service)(nil)

// Service handles download operations
type Service struct {
	workDir string
	runner  Runner
	logger  *zap.Logger
	backoff time.Duration

	mu sync.Mutex // guards workDir contents during Cleanup
}

// NewService creates a download service writing into workDir
func NewService(workDir string, logger *zap.Logger) (*Service, error) {
	return NewServiceWithRunner(workDir, NewYTDLPRunner(), logger)
}

// NewServiceWithRunner creates a download service over a custom Runner
func NewServiceWithRunner(workDir string, runner Runner, logger *zap.Logger) (*Service, error) {
	if err := platform.CreateDirectoryIfNotExists(workDir); err != nil {
		return nil, fmt.Errorf("failed to create work directory: %w", err)
	}
	return &Service{
		workDir: workDir,
		runner:  runner,
		logger:  logging.OrNop(logger).Named("download"),
		backoff: RetryBackoff,
	}, nil
}

// WorkDir returns the directory audio files are written to
func (s *Service) WorkDir() string {
	return s.workDir
}

// ValidateURL checks the URL shape and that yt-dlp can read its metadata
func (s *Service) ValidateURL(ctx context.Context, url string) error {
	url = platform.NormalizeURL(url)
	if err := platform.ValidateYouTubeURL(url); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	if _, err := s.GetVideoInfo(ctx, url); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	return nil
}

// GetVideoInfo reads video metadata without downloading media
func (s *Service) GetVideoInfo(ctx context.Context, url string) (*model.VideoInfo, error) {
	raw, err := s.runner.DumpJSON(ctx, platform.NormalizeURL(url))
	if err != nil {
		return nil, fmt.Errorf("failed to read video metadata: %w", err)
	}

	var info model.VideoInfo
	if err := json.Unmarshal(raw, &info); err != nil {
		return nil, fmt.Errorf("failed to parse video metadata: %w", err)
	}
	if info.ID == "" {
		info.ID = platform.ExtractVideoID(url)
	}
	return &info, nil
}

// DownloadAudio extracts the audio track as mp3 and returns its path
func (s *Service) DownloadAudio(ctx context.Context, url string, progress ProgressFunc) (string, error) {
	url = platform.NormalizeURL(url)
	videoID := platform.ExtractVideoID(url)
	if videoID == "" {
		info, err := s.GetVideoInfo(ctx, url)
		if err != nil {
			return "", err
		}
		videoID = info.ID
	}
	if videoID == "" {
		return "", fmt.Errorf("%w: cannot determine video id", ErrInvalidURL)
	}

	report := func(p float64, msg string) {
		if progress != nil {
			progress(p, msg)
		}
	}

	req := AudioRequest{
		URL:    url,
		Output: filepath.Join(s.workDir, videoID+".%(ext)s"),
		OnUpdate: func(downloaded, total int64, _ string) {
			if total <= 0 {
				return
			}
			p := float64(downloaded) / float64(total)
			if p > 1 {
				p = 1
			}
			report(p, fmt.Sprintf("Downloading: %.1f%%", p*100))
		},
	}

	if err := s.extractWithRetry(ctx, req); err != nil {
		return "", err
	}

	outPath := filepath.Join(s.workDir, videoID+"."+AudioFormat)
	if _, err := os.Stat(outPath); err != nil {
		return "", fmt.Errorf("audio file not found after download: %w", err)
	}

	report(1, MsgDownloadComplete)
	s.logger.Info("audio downloaded", zap.String("url", url), zap.String("path", outPath))
	return outPath, nil
}

// extractWithRetry attempts the extraction with retry logic
func (s *Service) extractWithRetry(ctx context.Context, req AudioRequest) error {
	var lastErr error

	for attempt := 0; attempt <= MaxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(s.backoff):
			case <-ctx.Done():
				return ctx.Err()
			}
			s.logger.Info("retrying download", zap.String("url", req.URL), zap.Int("attempt", attempt+1))
		}

		err := s.runner.ExtractAudio(ctx, req)
		if err == nil {
			return nil
		}

		lastErr = err
		s.logger.Warn("download attempt failed",
			zap.String("url", req.URL),
			zap.Int("attempt", attempt+1),
			zap.Error(err))

		if ctx.Err() != nil {
			return ctx.Err()
		}
	}

	return lastErr
}

// Cleanup removes and recreates the work directory
func (s *Service) Cleanup() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.RemoveAll(s.workDir); err != nil {
		return fmt.Errorf("failed to remove work directory: %w", err)
	}
	return platform.CreateDirectoryIfNotExists(s.workDir)
}
