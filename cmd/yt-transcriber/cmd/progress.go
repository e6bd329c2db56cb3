package cmd

import (
	"fmt"
	"io"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"

	"github.com/ytget/yt-transcriber/internal/model"
)

const (
	progressRefreshRate = 120 * time.Millisecond
	barTitleWidth       = 32
	percentTotal        = 100
)

// jobReporter renders job updates coming from the pipeline
type jobReporter interface {
	Update(job *model.Job)
	Wait()
}

func newJobReporter(w io.Writer, showBars bool) jobReporter {
	if showBars {
		return newBarReporter(w)
	}
	return &lineReporter{w: w, last: make(map[string]model.JobStatus)}
}

// isTTY reports whether w is an interactive terminal
func isTTY(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	stat, err := file.Stat()
	if err != nil {
		return false
	}
	return stat.Mode()&os.ModeCharDevice != 0
}

// barReporter draws one mpb bar per job
type barReporter struct {
	container *mpb.Progress
	mu        sync.Mutex
	bars      map[string]*jobBar
}

type jobBar struct {
	bar     *mpb.Bar
	message atomic.Value // string
	done    bool
}

func newBarReporter(w io.Writer) *barReporter {
	return &barReporter{
		container: mpb.New(
			mpb.WithOutput(w),
			mpb.WithRefreshRate(progressRefreshRate),
			mpb.WithWaitGroup(&sync.WaitGroup{}),
		),
		bars: make(map[string]*jobBar),
	}
}

func (r *barReporter) Update(job *model.Job) {
	r.mu.Lock()
	defer r.mu.Unlock()

	jb, ok := r.bars[job.ID]
	if !ok {
		jb = r.addBar(job)
		r.bars[job.ID] = jb
	}
	if jb.done {
		return
	}
	if job.Message != "" {
		jb.message.Store(job.Message)
	}

	switch job.Status {
	case model.JobStatusCompleted:
		jb.message.Store("saved to " + job.OutputPath)
		jb.bar.SetCurrent(percentTotal)
		jb.done = true
	case model.JobStatusError, model.JobStatusStopped:
		jb.bar.Abort(false)
		jb.done = true
	default:
		// 100% would complete the bar before the transcript is saved
		current := int64(job.Percent)
		if current >= percentTotal {
			current = percentTotal - 1
		}
		jb.bar.SetCurrent(current)
	}
}

func (r *barReporter) addBar(job *model.Job) *jobBar {
	jb := &jobBar{}
	jb.message.Store(job.Message)
	title := truncate(job.URL, barTitleWidth)

	jb.bar = r.container.AddBar(percentTotal,
		mpb.PrependDecorators(
			decor.Name(title, decor.WC{W: barTitleWidth + 1, C: decor.DindentRight}),
		),
		mpb.AppendDecorators(
			decor.NewPercentage("%d", decor.WCSyncSpace),
			decor.Any(func(decor.Statistics) string {
				msg, _ := jb.message.Load().(string)
				return " " + msg
			}),
		),
	)
	return jb
}

func (r *barReporter) Wait() {
	r.container.Wait()
}

// lineReporter prints one line per status change, for logs and pipes
type lineReporter struct {
	w    io.Writer
	mu   sync.Mutex
	last map[string]model.JobStatus
}

func (r *lineReporter) Update(job *model.Job) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.last[job.ID] == job.Status {
		return
	}
	r.last[job.ID] = job.Status
	fmt.Fprintf(r.w, "[%s] %-12s %3d%% %s\n", truncate(job.GetDisplayTitle(), barTitleWidth), job.Status, job.Percent, job.Message)
}

func (r *lineReporter) Wait() {}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-1]) + "…"
}
