package download

import (
	"context"

	"github.com/ytget/yt-transcriber/internal/model"
)

// ProgressFunc receives a fraction in [0, 1] and a status message
type ProgressFunc func(progress float64, message string)

// Downloader defines the interface for the download stage.
type Downloader interface {
	ValidateURL(ctx context.Context, url string) error
	GetVideoInfo(ctx context.Context, url string) (*model.VideoInfo, error)
	DownloadAudio(ctx context.Context, url string, progress ProgressFunc) (string, error)
	Cleanup() error
}

// AudioRequest describes one audio extraction run
type AudioRequest struct {
	URL      string
	Output   string // yt-dlp output template
	OnUpdate func(downloaded, total int64, title string)
}

// Runner executes yt-dlp. The default implementation uses go-ytdlp;
// tests substitute a fake.
type Runner interface {
	DumpJSON(ctx context.Context, url string) ([]byte, error)
	ExtractAudio(ctx context.Context, req AudioRequest) error
}
