package ui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ytget/yt-transcriber/internal/config"
	"github.com/ytget/yt-transcriber/internal/model"
	"github.com/ytget/yt-transcriber/internal/pipeline"
)

type submission struct {
	url  string
	opts model.JobOptions
}

type fakeRunner struct {
	mu          sync.Mutex
	callback    func(*model.Job)
	submitted   []submission
	submitErr   error
	running     bool
	stopAll     int
	saved       map[string]string
	removed     []string
	maxParallel int
}

func (f *fakeRunner) SetUpdateCallback(cb func(*model.Job)) { f.callback = cb }

func (f *fakeRunner) Submit(url string, opts model.JobOptions) (*model.Job, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.submitErr != nil {
		return nil, f.submitErr
	}
	f.submitted = append(f.submitted, submission{url: url, opts: opts})
	f.running = true
	return &model.Job{ID: fmt.Sprintf("job-%d", len(f.submitted)), URL: url, Options: opts, Status: model.JobStatusPending}, nil
}

func (f *fakeRunner) SubmitPlaylist(context.Context, string, model.JobOptions) ([]*model.Job, error) {
	return nil, nil
}

func (f *fakeRunner) Get(string) (*model.Job, bool) { return nil, false }
func (f *fakeRunner) All() []*model.Job            { return nil }
func (f *fakeRunner) Stop(string) error            { return nil }

func (f *fakeRunner) StopAll() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stopAll++
}

func (f *fakeRunner) Remove(id string) error {
	f.removed = append(f.removed, id)
	return nil
}

func (f *fakeRunner) Running() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.running
}

func (f *fakeRunner) Wait(context.Context, string) (*model.Job, error) { return nil, nil }

func (f *fakeRunner) SaveAs(id, path string) error {
	if f.saved == nil {
		f.saved = make(map[string]string)
	}
	f.saved[id] = path
	return nil
}

func (f *fakeRunner) SetMaxParallel(max int) { f.maxParallel = max }

func (f *fakeRunner) setRunning(running bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.running = running
}

var _ pipeline.Runner = (*fakeRunner)(nil)

func newTestUI(t *testing.T) (*RootUI, *fakeRunner, fyne.Window) {
	t.Helper()
	a := test.NewApp()
	w := a.NewWindow("test")
	w.Resize(fyne.NewSize(WindowWidth, WindowHeight))
	runner := &fakeRunner{}
	r := NewRootUI(w, a, Dependencies{Runner: runner, Settings: config.NewSettings(a)})
	r.outputDirEntry.SetText(filepath.Join(t.TempDir(), "out"))
	return r, runner, w
}

func TestRootUIInitialState(t *testing.T) {
	r, runner, w := newTestUI(t)

	assert.Equal(t, "YouTube Transcription App", w.Title())
	assert.NotNil(t, runner.callback)
	assert.Equal(t, "Ready", r.statusLabel.Text)
	assert.Equal(t, model.DefaultWhisperModel, r.modelSelect.Selected)
	assert.Equal(t, engineLabels[model.EngineWhisperCPP], r.engineSelect.Selected)
	assert.True(t, r.copyBtn.Disabled())
	assert.True(t, r.saveAsBtn.Disabled())
	assert.True(t, r.stopBtn.Disabled())
	assert.False(t, r.transcribeBtn.Disabled())
}

func TestRootUIEmptyURLDoesNotSubmit(t *testing.T) {
	r, runner, w := newTestUI(t)

	r.urlEntry.SetText("   ")
	test.Tap(r.transcribeBtn)

	assert.Empty(t, runner.submitted)
	assert.False(t, r.busy)
	assert.NotNil(t, w.Canvas().Overlays().Top(), "a warning dialog should be shown")
}

func TestRootUISubmitUsesFormOptions(t *testing.T) {
	r, runner, _ := newTestUI(t)
	outDir := r.outputDirEntry.Text

	r.urlEntry.SetText(" https://youtu.be/abc123 ")
	r.modelSelect.SetSelected("small")
	r.engineSelect.SetSelected(engineLabels[model.EngineOpenAI])
	r.timestampsCheck.SetChecked(true)
	test.Tap(r.transcribeBtn)

	require.Len(t, runner.submitted, 1)
	sub := runner.submitted[0]
	assert.Equal(t, "https://youtu.be/abc123", sub.url)
	assert.Equal(t, "small", sub.opts.Model)
	assert.Equal(t, model.EngineOpenAI, sub.opts.Engine)
	assert.True(t, sub.opts.IncludeTimestamps)
	assert.Equal(t, outDir, sub.opts.OutputDir)

	assert.DirExists(t, outDir)
	assert.True(t, r.busy)
	assert.True(t, r.transcribeBtn.Disabled())
	assert.True(t, r.urlEntry.Disabled())
	assert.False(t, r.stopBtn.Disabled())
	assert.Equal(t, "Starting...", r.statusLabel.Text)

	// Choices are remembered for the next launch
	assert.Equal(t, "small", r.settings.GetWhisperModel())
	assert.Equal(t, model.EngineOpenAI, r.settings.GetEngine())
	assert.True(t, r.settings.GetIncludeTimestamps())
}

func TestRootUIProgressAndCompletion(t *testing.T) {
	r, runner, _ := newTestUI(t)
	r.urlEntry.SetText("https://www.youtube.com/watch?v=abc123")
	test.Tap(r.transcribeBtn)
	require.True(t, r.busy)

	r.applyJobUpdate(&model.Job{ID: "job-1", Status: model.JobStatusDownloading, Progress: 0.2, Message: "Downloading: 50.0%"})
	assert.InDelta(t, 0.2, r.progressBar.Value, 1e-9)
	assert.Equal(t, "Downloading: 50.0%", r.statusLabel.Text)
	assert.True(t, r.busy)

	runner.setRunning(false)
	done := &model.Job{
		ID:         "job-1",
		Title:      "My Video",
		Status:     model.JobStatusCompleted,
		Progress:   1,
		Text:       "hello world",
		OutputPath: "/tmp/out/My Video.txt",
	}
	test.AssertNotificationSent(t, &fyne.Notification{
		Title:   "Transcription Complete",
		Content: "Transcription saved to: /tmp/out/My Video.txt",
	}, func() {
		r.applyJobUpdate(done)
	})

	assert.False(t, r.busy)
	assert.Equal(t, "hello world", r.outputText.Text)
	assert.InDelta(t, 1.0, r.progressBar.Value, 1e-9)
	assert.Equal(t, "Transcription saved to: /tmp/out/My Video.txt", r.statusLabel.Text)
	assert.False(t, r.copyBtn.Disabled())
	assert.False(t, r.saveAsBtn.Disabled())
	assert.False(t, r.transcribeBtn.Disabled())
	assert.True(t, r.stopBtn.Disabled())
}

func TestCompletionNotificationShowsSavedPath(t *testing.T) {
	r, _, _ := newTestUI(t)

	n := r.completionNotification(&model.Job{Title: "My Video", OutputPath: "/srv/out/My Video.txt"})
	assert.Equal(t, "Transcription Complete", n.Title)
	assert.Equal(t, "Transcription saved to: /srv/out/My Video.txt", n.Content)
}

func TestRootUIErrorResetsProgress(t *testing.T) {
	r, runner, _ := newTestUI(t)
	r.urlEntry.SetText("https://www.youtube.com/watch?v=abc123")
	test.Tap(r.transcribeBtn)

	r.applyJobUpdate(&model.Job{ID: "job-1", Status: model.JobStatusDownloading, Progress: 0.3})
	runner.setRunning(false)
	r.applyJobUpdate(&model.Job{ID: "job-1", Status: model.JobStatusError, LastError: pipeline.ErrMsgInvalidURL})

	assert.False(t, r.busy)
	assert.Equal(t, "Error: Invalid YouTube URL", r.statusLabel.Text)
	assert.Zero(t, r.progressBar.Value)
	assert.True(t, r.copyBtn.Disabled())
	assert.False(t, r.transcribeBtn.Disabled())
}

func TestRootUIIgnoresUpdatesWhenIdle(t *testing.T) {
	r, _, _ := newTestUI(t)

	r.applyJobUpdate(&model.Job{ID: "job-9", Status: model.JobStatusCompleted, Text: "stale"})

	assert.Empty(t, r.outputText.Text)
	assert.Equal(t, "Ready", r.statusLabel.Text)
}

func TestRootUISubmitErrorUnlocksForm(t *testing.T) {
	r, runner, _ := newTestUI(t)
	runner.submitErr = fmt.Errorf("%w: https://youtu.be/abc123", pipeline.ErrJobExists)

	r.urlEntry.SetText("https://youtu.be/abc123")
	test.Tap(r.transcribeBtn)

	assert.False(t, r.busy)
	assert.False(t, r.transcribeBtn.Disabled())
	assert.Contains(t, r.statusLabel.Text, "job already exists")
}

func TestRootUISaveOutput(t *testing.T) {
	r, runner, _ := newTestUI(t)
	r.urlEntry.SetText("https://youtu.be/abc123")
	test.Tap(r.transcribeBtn)
	runner.setRunning(false)
	r.applyJobUpdate(&model.Job{ID: "job-1", Status: model.JobStatusCompleted, Text: "text", OutputPath: "/tmp/a.txt"})

	target := filepath.Join(t.TempDir(), "copy.txt")
	r.saveOutputTo(target)
	assert.Equal(t, target, runner.saved["job-1"])
	assert.Equal(t, "Saved to: "+target, r.statusLabel.Text)

	// Transcripts loaded from history are written directly
	r.showTranscript("from history", "/tmp/old.txt")
	direct := filepath.Join(t.TempDir(), "direct.txt")
	r.saveOutputTo(direct)
	data, err := os.ReadFile(direct)
	require.NoError(t, err)
	assert.Equal(t, "from history", string(data))
}

func TestRootUINewBatchRemovesFinishedJobs(t *testing.T) {
	r, runner, _ := newTestUI(t)
	r.urlEntry.SetText("https://youtu.be/abc123")
	test.Tap(r.transcribeBtn)
	runner.setRunning(false)
	r.applyJobUpdate(&model.Job{ID: "job-1", Status: model.JobStatusStopped})
	assert.Equal(t, "Stopped", r.statusLabel.Text)

	r.urlEntry.SetText("https://youtu.be/def456")
	test.Tap(r.transcribeBtn)

	assert.Equal(t, []string{"job-1"}, runner.removed)
	assert.Len(t, runner.submitted, 2)
}

func TestRootUIStopButton(t *testing.T) {
	r, runner, _ := newTestUI(t)
	r.urlEntry.SetText("https://youtu.be/abc123")
	test.Tap(r.transcribeBtn)

	test.Tap(r.stopBtn)
	assert.Equal(t, 1, runner.stopAll)
}

func TestRootUILanguageChange(t *testing.T) {
	r, _, w := newTestUI(t)

	r.onLanguageChange("pt")

	assert.Equal(t, "Transcrever", r.transcribeBtn.Text)
	assert.Equal(t, "Transcrição do YouTube", w.Title())
	assert.Equal(t, "pt", r.settings.GetAppLanguage())
}

func TestRootUISettingsSaved(t *testing.T) {
	r, runner, _ := newTestUI(t)
	called := false
	r.onSettings = func() { called = true }

	r.settings.SetMaxParallelJobs(3)
	r.settings.SetAppLanguage("ru")
	r.onSettingsSaved()

	assert.Equal(t, 3, runner.maxParallel)
	assert.True(t, called)
	assert.Equal(t, "ru", r.localization.GetCurrentLanguage())
	assert.Equal(t, "Распознать", r.transcribeBtn.Text)
}

func TestEngineLabels(t *testing.T) {
	for _, engine := range []model.Engine{model.EngineWhisperCPP, model.EngineOpenAI} {
		assert.Equal(t, engine, engineFromLabel(engineLabels[engine]))
	}
	assert.Equal(t, model.DefaultEngine, engineFromLabel("unknown"))
}
