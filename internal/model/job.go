package model

import (
	"fmt"
	"strings"
	"time"
)

// Engine names a transcription backend
type Engine string

const (
	// EngineWhisperCPP runs the local whisper.cpp command line tool
	EngineWhisperCPP Engine = "whispercpp"

	// EngineOpenAI calls the hosted OpenAI Whisper API
	EngineOpenAI Engine = "openai"
)

// Whisper model sizes offered to the user
var WhisperModels = []string{"tiny", "base", "small", "medium", "large"}

// Option defaults
const (
	DefaultWhisperModel = "base"
	DefaultEngine       = EngineWhisperCPP
	AutoLanguage        = "auto"
)

// JobOptions holds user choices for a single transcription run
type JobOptions struct {
	Model             string // whisper model size (tiny..large)
	Engine            Engine
	Language          string // "auto" lets the model detect it
	IncludeTimestamps bool
	OutputDir         string
}

// WithDefaults fills empty option fields with defaults
func (o JobOptions) WithDefaults() JobOptions {
	if strings.TrimSpace(o.Model) == "" {
		o.Model = DefaultWhisperModel
	}
	if o.Engine == "" {
		o.Engine = DefaultEngine
	}
	if strings.TrimSpace(o.Language) == "" {
		o.Language = AutoLanguage
	}
	return o
}

// VideoInfo is the subset of remote video metadata the app uses
type VideoInfo struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Duration    float64 `json:"duration"` // seconds
	Description string  `json:"description"`
	Uploader    string  `json:"uploader"`
	ViewCount   int64   `json:"view_count"`
}

// Job represents a single URL-to-transcript run
type Job struct {
	ID         string
	URL        string
	Options    JobOptions
	Status     JobStatus
	Progress   float64 // 0.0 to 1.0
	Percent    int     // 0 to 100
	Message    string  // last progress message
	Title      string  // video title
	VideoID    string
	Duration   float64 // seconds
	Language   string  // detected or pinned language
	Text       string  // resulting transcript (formatted)
	OutputPath string  // saved transcript file
	LastError  string  // last error message if any
	StartedAt  time.Time
	FinishedAt time.Time
}

// Clone returns a copy safe to read without holding the owner's lock
func (j *Job) Clone() *Job {
	if j == nil {
		return nil
	}
	c := *j
	return &c
}

// SetProgress stores progress as fraction and percent, clamped to [0, 1]
func (j *Job) SetProgress(progress float64, message string) {
	if progress < 0 {
		progress = 0
	}
	if progress > 1 {
		progress = 1
	}
	j.Progress = progress
	j.Percent = int(progress * 100)
	if message != "" {
		j.Message = message
	}
}

// GetDisplayTitle returns title, filename, or URL in order of preference
func (j *Job) GetDisplayTitle() string {
	if j.Title != "" && !strings.HasPrefix(j.Title, "http") {
		return j.Title
	}

	if j.OutputPath != "" {
		parts := strings.FieldsFunc(j.OutputPath, func(r rune) bool {
			return r == '/' || r == '\\'
		})
		if len(parts) > 0 {
			filename := parts[len(parts)-1]
			if idx := strings.LastIndex(filename, "."); idx > 0 {
				filename = filename[:idx]
			}
			return filename
		}
	}

	return j.URL
}

// ElapsedString returns the run time formatted as mm:ss or hh:mm:ss, or "—" if not started
func (j *Job) ElapsedString() string {
	if j.StartedAt.IsZero() {
		return "—"
	}
	end := j.FinishedAt
	if end.IsZero() {
		end = time.Now()
	}
	secs := int(end.Sub(j.StartedAt).Seconds())
	if secs < 0 {
		secs = 0
	}

	hours := secs / 3600
	minutes := (secs % 3600) / 60
	seconds := secs % 60
	if hours > 0 {
		return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, seconds)
	}
	return fmt.Sprintf("%02d:%02d", minutes, seconds)
}
