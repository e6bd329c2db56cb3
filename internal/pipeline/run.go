package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/ytget/yt-transcriber/internal/model"
	"github.com/ytget/yt-transcriber/internal/platform"
	"github.com/ytget/yt-transcriber/internal/transcribe"
)

// stageError carries the user-facing prefix of a failed stage
type stageError struct {
	prefix string
	err    error
}

func (e *stageError) Error() string {
	if e.err == nil {
		return e.prefix
	}
	return fmt.Sprintf("%s: %v", e.prefix, e.err)
}

func (e *stageError) Unwrap() error { return e.err }

func fail(prefix string, err error) error {
	return &stageError{prefix: prefix, err: err}
}

// runJob executes one job and releases its slot
func (s *Service) runJob(ctx context.Context, job *model.Job) {
	log := s.logger.With(zap.String("job_id", job.ID), zap.String("url", job.URL))
	jobDir := filepath.Join(s.workDir, job.ID)

	defer func() {
		s.jobsMutex.Lock()
		if cancel := s.cancels[job.ID]; cancel != nil {
			cancel()
		}
		delete(s.cancels, job.ID)
		s.activeCount--
		s.jobsMutex.Unlock()

		s.wg.Done()
		s.startNextPendingJobs()
	}()

	var err error
	func() {
		defer func() {
			if r := recover(); r != nil {
				log.Error("job panicked", zap.Any("panic", r))
				err = fail(ErrMsgUnexpected, fmt.Errorf("%v", r))
			}
		}()
		err = s.execute(ctx, job, jobDir, log)
	}()

	if rmErr := os.RemoveAll(jobDir); rmErr != nil {
		log.Warn("failed to remove job directory", zap.Error(rmErr))
	}

	s.finish(ctx, job, err, log)
}

// execute runs the stages in order
func (s *Service) execute(ctx context.Context, job *model.Job, jobDir string, log *zap.Logger) error {
	opts := job.Options

	// Validate
	s.update(job, func(j *model.Job) { j.SetProgress(0, MsgValidating) })
	if err := s.downloader.ValidateURL(ctx, job.URL); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		log.Warn("url rejected", zap.Error(err))
		return fail(ErrMsgInvalidURL, nil)
	}

	// Metadata
	s.update(job, func(j *model.Job) { j.SetProgress(0, MsgFetchingInfo) })
	info, err := s.downloader.GetVideoInfo(ctx, job.URL)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fail(ErrMsgVideoInfo, err)
	}
	s.update(job, func(j *model.Job) {
		j.Title = info.Title
		j.Duration = info.Duration
		if info.ID != "" {
			j.VideoID = info.ID
		}
	})

	// Download
	s.update(job, func(j *model.Job) { j.Status = model.JobStatusDownloading })
	audioPath, err := s.downloader.DownloadAudio(ctx, job.URL, func(p float64, msg string) {
		s.update(job, func(j *model.Job) { j.SetProgress(p*DownloadWeight, msg) })
	})
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fail(ErrMsgDownload, err)
	}
	defer func() {
		if rmErr := os.Remove(audioPath); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) {
			log.Warn("failed to remove downloaded audio", zap.Error(rmErr))
		}
	}()

	// Convert
	if err := platform.CreateDirectoryIfNotExists(jobDir); err != nil {
		return fail(ErrMsgTranscribe, err)
	}
	wavPath := filepath.Join(jobDir, wavFileName)
	s.update(job, func(j *model.Job) {
		j.Status = model.JobStatusConverting
		j.SetProgress(DownloadWeight, MsgConverting)
	})
	if err := s.converter.ToWAV(ctx, audioPath, wavPath, func(p float64, msg string) {
		s.update(job, func(j *model.Job) { j.SetProgress(DownloadWeight+p*ConvertShare*TranscribeWeight, msg) })
	}); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fail(ErrMsgTranscribe, err)
	}

	// Transcribe
	s.update(job, func(j *model.Job) { j.Status = model.JobStatusTranscribing })
	transcript, err := s.transcriber.Transcribe(ctx, transcribe.Request{
		AudioPath: wavPath,
		ChunkDir:  filepath.Join(jobDir, chunkDirName),
		Engine:    opts.Engine,
		Options:   transcribe.Options{Model: opts.Model, Language: opts.Language},
	}, func(p float64, msg string) {
		s.update(job, func(j *model.Job) { advanceProgress(j, DownloadWeight+p*TranscribeWeight, msg) })
	})
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fail(ErrMsgTranscribe, err)
	}

	text := transcript.Text
	if opts.IncludeTimestamps && len(transcript.Segments) > 0 {
		text = model.FormatWithTimestamps(transcript)
	}

	// Save
	s.update(job, func(j *model.Job) {
		j.Status = model.JobStatusSaving
		j.Language = transcript.Language
		j.Text = text
		j.Message = MsgSaving
	})
	if err := ctx.Err(); err != nil {
		return err
	}
	outPath, err := s.saveTranscript(opts.OutputDir, job.GetDisplayTitle(), text)
	if err != nil {
		return fail(ErrMsgSave, err)
	}
	s.update(job, func(j *model.Job) { j.OutputPath = outPath })

	log.Info("transcript saved", zap.String("path", outPath), zap.String("language", transcript.Language))
	return nil
}

// advanceProgress never moves the bar back below what conversion already reported
func advanceProgress(j *model.Job, progress float64, message string) {
	if progress < j.Progress {
		progress = j.Progress
	}
	j.SetProgress(progress, message)
}

// saveTranscript writes text to "<dir>/<title>.txt", picking a free name
func (s *Service) saveTranscript(dir, title, text string) (string, error) {
	if dir == "" {
		var err error
		if dir, err = platform.GetHomeDownloadsDir(); err != nil {
			return "", err
		}
	}
	if err := platform.CreateDirectoryIfNotExists(dir); err != nil {
		return "", err
	}
	path, err := platform.UniquePath(platform.TranscriptPath(dir, title))
	if err != nil {
		return "", err
	}
	if err := platform.WriteTextFile(path, text); err != nil {
		return "", err
	}
	return path, nil
}

// finish records the final state
func (s *Service) finish(ctx context.Context, job *model.Job, err error, log *zap.Logger) {
	s.jobsMutex.Lock()
	switch {
	case err == nil:
		job.Status = model.JobStatusCompleted
		job.SetProgress(1, MsgCompleted)
	case ctx.Err() != nil && errors.Is(err, context.Canceled):
		job.Status = model.JobStatusStopped
		job.Message = MsgStopped
	default:
		var se *stageError
		if !errors.As(err, &se) {
			err = fail(ErrMsgUnexpected, err)
		}
		job.Status = model.JobStatusError
		job.LastError = err.Error()
		job.Message = job.LastError
	}
	job.FinishedAt = time.Now()
	snapshot := job.Clone()
	s.jobsMutex.Unlock()

	switch snapshot.Status {
	case model.JobStatusCompleted:
		log.Info("job completed", zap.String("elapsed", snapshot.ElapsedString()))
	case model.JobStatusStopped:
		log.Info("job stopped")
	default:
		log.Error("job failed", zap.String("error", snapshot.LastError))
	}

	if s.history != nil && snapshot.Status != model.JobStatusStopped {
		if _, herr := s.history.Record(snapshot); herr != nil {
			log.Warn("failed to record history", zap.Error(herr))
		}
	}

	s.notify(snapshot)

	s.jobsMutex.Lock()
	s.closeDone(job.ID)
	s.jobsMutex.Unlock()
}
