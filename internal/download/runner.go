package download

import (
	"context"
	"fmt"
	"time"

	"github.com/lrstanley/go-ytdlp"
)

// Audio extraction settings
const (
	AudioFormat   = "mp3"
	AudioQuality  = "192K"
	FormatSpec    = "bestaudio/best"
	progressEvery = 500 * time.Millisecond
)

// ytdlpRunner runs the yt-dlp binary found on PATH
type ytdlpRunner struct{}

// NewYTDLPRunner returns the go-ytdlp backed Runner
func NewYTDLPRunner() Runner {
	return ytdlpRunner{}
}

func (ytdlpRunner) DumpJSON(ctx context.Context, url string) ([]byte, error) {
	result, err := ytdlp.New().
		DumpJSON().
		SkipDownload().
		NoPlaylist().
		Run(ctx, url)
	if err != nil {
		return nil, err
	}
	if result == nil || result.Stdout == "" {
		return nil, fmt.Errorf("yt-dlp returned no metadata")
	}
	return []byte(result.Stdout), nil
}

func (ytdlpRunner) ExtractAudio(ctx context.Context, req AudioRequest) error {
	dl := ytdlp.New().
		Format(FormatSpec).
		ExtractAudio().
		AudioFormat(AudioFormat).
		AudioQuality(AudioQuality).
		NoPlaylist().
		ForceOverwrites().
		Output(req.Output)

	if req.OnUpdate != nil {
		dl.ProgressFunc(progressEvery, func(update ytdlp.ProgressUpdate) {
			title := ""
			if update.Info != nil && update.Info.Title != nil {
				title = *update.Info.Title
			}
			req.OnUpdate(int64(update.DownloadedBytes), int64(update.TotalBytes), title)
		})
	}

	_, err := dl.Run(ctx, req.URL)
	return err
}
