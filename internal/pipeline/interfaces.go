package pipeline

import (
	"context"

	"github.com/ytget/yt-transcriber/internal/convert"
	"github.com/ytget/yt-transcriber/internal/download"
	"github.com/ytget/yt-transcriber/internal/model"
	"github.com/ytget/yt-transcriber/internal/transcribe"
)

// Downloader is the download stage
type Downloader interface {
	ValidateURL(ctx context.Context, url string) error
	GetVideoInfo(ctx context.Context, url string) (*model.VideoInfo, error)
	DownloadAudio(ctx context.Context, url string, progress download.ProgressFunc) (string, error)
}

// Converter turns downloaded audio into model input
type Converter interface {
	ToWAV(ctx context.Context, inputPath, outputPath string, progress convert.ProgressFunc) error
}

// Transcriber is the transcription stage
type Transcriber interface {
	Transcribe(ctx context.Context, req transcribe.Request, progress transcribe.ProgressFunc) (*model.Transcript, error)
}

// Recorder stores finished jobs
type Recorder interface {
	Record(job *model.Job) (int64, error)
}

// PlaylistExpander lists the videos of a playlist URL
type PlaylistExpander interface {
	ParsePlaylist(ctx context.Context, url string) (*model.Playlist, error)
}

// Runner defines the interface front-ends use to drive jobs.
type Runner interface {
	SetUpdateCallback(func(*model.Job))
	Submit(url string, opts model.JobOptions) (*model.Job, error)
	SubmitPlaylist(ctx context.Context, url string, opts model.JobOptions) ([]*model.Job, error)
	Get(id string) (*model.Job, bool)
	All() []*model.Job
	Stop(id string) error
	StopAll()
	Remove(id string) error
	Running() bool
	Wait(ctx context.Context, id string) (*model.Job, error)
	SaveAs(id, path string) error
	SetMaxParallel(max int)
}
