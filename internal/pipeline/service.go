package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ytget/yt-transcriber/internal/logging"
	"github.com/ytget/yt-transcriber/internal/model"
	"github.com/ytget/yt-transcriber/internal/platform"
)

// Progress weights: download fills the first 40%, transcription the rest.
// Conversion runs at the start of the transcription share and covers ConvertShare of it.
const (
	DownloadWeight   = 0.4
	TranscribeWeight = 0.6
	ConvertShare     = 0.1
)

// Job ID prefix and limits
const (
	JobIDPrefix        = "job-"
	DefaultMaxParallel = 1
	MaxParallelLimit   = 4
	wavFileName        = "audio.wav"
	chunkDirName       = "chunks"
)

// Status messages
const (
	MsgQueued       = "Waiting to start..."
	MsgValidating   = "Validating URL..."
	MsgFetchingInfo = "Fetching video info..."
	MsgConverting   = "Converting audio..."
	MsgSaving       = "Saving transcript..."
	MsgCompleted    = "Transcription complete"
	MsgStopped      = "Stopped"
)

// User-facing error prefixes
const (
	ErrMsgInvalidURL = "Invalid YouTube URL"
	ErrMsgVideoInfo  = "Error fetching video info"
	ErrMsgDownload   = "Error downloading video"
	ErrMsgTranscribe = "Error during transcription"
	ErrMsgSave       = "Error saving transcript"
	ErrMsgUnexpected = "Unexpected error"
)

var (
	// ErrJobNotFound is returned for unknown job IDs
	ErrJobNotFound = errors.New("job not found")
	// ErrJobExists is returned when an unfinished job already targets the same video
	ErrJobExists = errors.New("job already exists for video")
	// ErrJobActive is returned when an operation needs a finished job
	ErrJobActive = errors.New("job is still active")
	// ErrJobNotActive is returned when stopping a job that is not running
	ErrJobNotActive = errors.New("job is not active")
	// ErrNoTranscript is returned by SaveAs before a transcript exists
	ErrNoTranscript = errors.New("job has no transcript")
)

// Config wires the stages into a Service
type Config struct {
	Downloader  Downloader
	Converter   Converter
	Transcriber Transcriber
	History     Recorder         // optional
	Playlists   PlaylistExpander // optional
	WorkDir     string           // root for per-job scratch directories
	MaxParallel int
	Logger      *zap.Logger
}

// Service orchestrates transcription jobs
type Service struct {
	jobs        map[string]*model.Job
	cancels     map[string]context.CancelFunc
	done        map[string]chan struct{}
	queue       []string // pending job IDs in submit order
	jobsMutex   sync.RWMutex
	maxParallel int
	activeCount int
	onUpdate    func(*model.Job) // callback for UI updates

	downloader  Downloader
	converter   Converter
	transcriber Transcriber
	history     Recorder
	playlists   PlaylistExpander
	workDir     string
	logger      *zap.Logger
	wg          sync.WaitGroup
}

// NewService creates a job service
func NewService(cfg Config) (*Service, error) {
	if cfg.Downloader == nil || cfg.Converter == nil || cfg.Transcriber == nil {
		return nil, errors.New("pipeline: downloader, converter and transcriber are required")
	}
	if cfg.WorkDir == "" {
		cfg.WorkDir = filepath.Join(os.TempDir(), "yt-transcriber")
	}
	if err := platform.CreateDirectoryIfNotExists(cfg.WorkDir); err != nil {
		return nil, fmt.Errorf("failed to create work directory: %w", err)
	}

	s := &Service{
		jobs:        make(map[string]*model.Job),
		cancels:     make(map[string]context.CancelFunc),
		done:        make(map[string]chan struct{}),
		downloader:  cfg.Downloader,
		converter:   cfg.Converter,
		transcriber: cfg.Transcriber,
		history:     cfg.History,
		playlists:   cfg.Playlists,
		workDir:     cfg.WorkDir,
		logger:      logging.OrNop(cfg.Logger).Named("pipeline"),
	}
	s.SetMaxParallel(cfg.MaxParallel)
	return s, nil
}

// SetUpdateCallback sets the callback function for job updates.
// It is invoked from worker goroutines with a copy of the job.
func (s *Service) SetUpdateCallback(callback func(*model.Job)) {
	s.jobsMutex.Lock()
	s.onUpdate = callback
	s.jobsMutex.Unlock()
}

// SetMaxParallel sets the maximum number of concurrently running jobs
func (s *Service) SetMaxParallel(max int) {
	if max < 1 {
		max = DefaultMaxParallel
	}
	if max > MaxParallelLimit {
		max = MaxParallelLimit
	}
	s.jobsMutex.Lock()
	s.maxParallel = max
	s.jobsMutex.Unlock()
	s.startNextPendingJobs()
}

// Submit queues a transcription job for a single video URL
func (s *Service) Submit(url string, opts model.JobOptions) (*model.Job, error) {
	url = platform.NormalizeURL(url)
	if url == "" {
		return nil, platform.ErrEmptyURL
	}

	videoID := platform.ExtractVideoID(url)

	s.jobsMutex.Lock()
	for _, job := range s.jobs {
		if job.Status.IsFinished() {
			continue
		}
		// different URL forms of one video share the downloaded audio file
		if job.URL == url || (videoID != "" && platform.ExtractVideoID(job.URL) == videoID) {
			s.jobsMutex.Unlock()
			return nil, fmt.Errorf("%w: %s", ErrJobExists, url)
		}
	}

	job := &model.Job{
		ID:        generateJobID(),
		URL:       url,
		Options:   opts.WithDefaults(),
		Status:    model.JobStatusPending,
		Message:   MsgQueued,
		VideoID:   videoID,
		StartedAt: time.Now(),
	}
	s.jobs[job.ID] = job
	s.done[job.ID] = make(chan struct{})
	s.queue = append(s.queue, job.ID)
	snapshot := job.Clone()
	s.jobsMutex.Unlock()

	s.logger.Info("job submitted", zap.String("job_id", job.ID), zap.String("url", url))
	s.notify(snapshot)
	s.startNextPendingJobs()
	return snapshot, nil
}

// SubmitPlaylist expands a playlist URL and submits one job per video
func (s *Service) SubmitPlaylist(ctx context.Context, url string, opts model.JobOptions) ([]*model.Job, error) {
	if s.playlists == nil {
		return nil, errors.New("playlist support is not configured")
	}
	playlist, err := s.playlists.ParsePlaylist(ctx, platform.NormalizeURL(url))
	if err != nil {
		return nil, fmt.Errorf("failed to expand playlist: %w", err)
	}

	urls := playlist.URLs()
	jobs := make([]*model.Job, 0, len(urls))
	for _, videoURL := range urls {
		job, err := s.Submit(videoURL, opts)
		if err != nil {
			if errors.Is(err, ErrJobExists) {
				continue
			}
			return jobs, err
		}
		jobs = append(jobs, job)
	}
	s.logger.Info("playlist submitted", zap.String("playlist", playlist.Title), zap.Int("jobs", len(jobs)))
	return jobs, nil
}

// Get returns a copy of a job by ID
func (s *Service) Get(id string) (*model.Job, bool) {
	s.jobsMutex.RLock()
	defer s.jobsMutex.RUnlock()
	job, exists := s.jobs[id]
	if !exists {
		return nil, false
	}
	return job.Clone(), true
}

// Snapshot returns a copy of a job, or nil when unknown
func (s *Service) Snapshot(id string) *model.Job {
	job, _ := s.Get(id)
	return job
}

// All returns copies of all jobs ordered by start time
func (s *Service) All() []*model.Job {
	s.jobsMutex.RLock()
	jobs := make([]*model.Job, 0, len(s.jobs))
	for _, job := range s.jobs {
		jobs = append(jobs, job.Clone())
	}
	s.jobsMutex.RUnlock()

	sort.SliceStable(jobs, func(i, j int) bool {
		if jobs[i].StartedAt.Equal(jobs[j].StartedAt) {
			return jobs[i].ID < jobs[j].ID
		}
		return jobs[i].StartedAt.Before(jobs[j].StartedAt)
	})
	return jobs
}

// Running reports whether any job is pending or active
func (s *Service) Running() bool {
	s.jobsMutex.RLock()
	defer s.jobsMutex.RUnlock()
	for _, job := range s.jobs {
		if !job.Status.IsFinished() {
			return true
		}
	}
	return false
}

// Stop cancels a pending or running job
func (s *Service) Stop(id string) error {
	s.jobsMutex.Lock()
	job, exists := s.jobs[id]
	if !exists {
		s.jobsMutex.Unlock()
		return fmt.Errorf("%w: %s", ErrJobNotFound, id)
	}

	switch {
	case job.Status == model.JobStatusPending:
		s.removeFromQueue(id)
		job.Status = model.JobStatusStopped
		job.Message = MsgStopped
		job.FinishedAt = time.Now()
		s.closeDone(id)
	case job.Status.IsActive():
		job.Status = model.JobStatusStopping
		if cancel := s.cancels[id]; cancel != nil {
			cancel()
		}
	default:
		s.jobsMutex.Unlock()
		return fmt.Errorf("%w: %s", ErrJobNotActive, job.Status)
	}
	snapshot := job.Clone()
	s.jobsMutex.Unlock()

	s.notify(snapshot)
	return nil
}

// StopAll stops every unfinished job
func (s *Service) StopAll() {
	s.jobsMutex.RLock()
	ids := make([]string, 0, len(s.jobs))
	for id, job := range s.jobs {
		if !job.Status.IsFinished() {
			ids = append(ids, id)
		}
	}
	s.jobsMutex.RUnlock()

	for _, id := range ids {
		if err := s.Stop(id); err != nil && !errors.Is(err, ErrJobNotActive) {
			s.logger.Warn("failed to stop job", zap.String("job_id", id), zap.Error(err))
		}
	}
}

// Shutdown stops all jobs and waits for their goroutines to exit
func (s *Service) Shutdown(ctx context.Context) error {
	s.StopAll()
	finished := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(finished)
	}()
	select {
	case <-finished:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Remove deletes a job that is not running
func (s *Service) Remove(id string) error {
	s.jobsMutex.Lock()
	defer s.jobsMutex.Unlock()

	job, exists := s.jobs[id]
	if !exists {
		return fmt.Errorf("%w: %s", ErrJobNotFound, id)
	}
	if job.Status.IsActive() {
		return fmt.Errorf("%w: %s", ErrJobActive, job.Status)
	}

	s.removeFromQueue(id)
	s.closeDone(id)
	delete(s.jobs, id)
	delete(s.done, id)
	return nil
}

// Wait blocks until the job finishes or ctx is done
func (s *Service) Wait(ctx context.Context, id string) (*model.Job, error) {
	s.jobsMutex.RLock()
	done, exists := s.done[id]
	s.jobsMutex.RUnlock()
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrJobNotFound, id)
	}

	select {
	case <-done:
		job, ok := s.Get(id)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrJobNotFound, id)
		}
		return job, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// SaveAs writes a finished job's transcript to a chosen path
func (s *Service) SaveAs(id, path string) error {
	job, ok := s.Get(id)
	if !ok {
		return fmt.Errorf("%w: %s", ErrJobNotFound, id)
	}
	if job.Text == "" {
		return ErrNoTranscript
	}
	if err := platform.WriteTextFile(path, job.Text); err != nil {
		return err
	}
	s.logger.Info("transcript saved", zap.String("job_id", id), zap.String("path", path))
	return nil
}

// startNextPendingJobs starts queued jobs while capacity allows
func (s *Service) startNextPendingJobs() {
	s.jobsMutex.Lock()
	defer s.jobsMutex.Unlock()

	for s.activeCount < s.maxParallel && len(s.queue) > 0 {
		id := s.queue[0]
		s.queue = s.queue[1:]

		job, exists := s.jobs[id]
		if !exists || job.Status != model.JobStatusPending {
			continue
		}

		ctx, cancel := context.WithCancel(context.Background())
		s.cancels[id] = cancel
		s.activeCount++
		job.Status = model.JobStatusStarting
		job.StartedAt = time.Now()

		s.wg.Add(1)
		go s.runJob(ctx, job)
	}
}

func (s *Service) removeFromQueue(id string) {
	for i, queued := range s.queue {
		if queued == id {
			s.queue = append(s.queue[:i], s.queue[i+1:]...)
			return
		}
	}
}

// closeDone closes a job's done channel once; caller holds jobsMutex
func (s *Service) closeDone(id string) {
	if ch, ok := s.done[id]; ok {
		select {
		case <-ch:
		default:
			close(ch)
		}
	}
}

// update mutates a job under the lock and notifies listeners.
// A stop request wins over stage transitions made afterwards.
func (s *Service) update(job *model.Job, fn func(j *model.Job)) {
	s.jobsMutex.Lock()
	stopping := job.Status == model.JobStatusStopping
	fn(job)
	if stopping {
		job.Status = model.JobStatusStopping
	}
	snapshot := job.Clone()
	s.jobsMutex.Unlock()
	s.notify(snapshot)
}

// notify calls the update callback if set
func (s *Service) notify(job *model.Job) {
	s.jobsMutex.RLock()
	cb := s.onUpdate
	s.jobsMutex.RUnlock()
	if cb != nil {
		cb(job)
	}
}

// generateJobID generates a unique, time-ordered job ID using UUID v7
func generateJobID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return fmt.Sprintf(JobIDPrefix+"%d", time.Now().UnixNano())
	}
	return JobIDPrefix + id.String()
}
