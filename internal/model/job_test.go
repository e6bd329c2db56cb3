package model

import (
	"testing"
	"time"
)

func TestJob_GetDisplayTitle(t *testing.T) {
	tests := []struct {
		title      string
		outputPath string
		url        string
		expected   string
	}{
		{"Video Title", "", "https://youtube.com/watch?v=123", "Video Title"},
		{"", "", "https://youtube.com/watch?v=123", "https://youtube.com/watch?v=123"},
		{"", "/out/My Talk.txt", "https://youtube.com/watch?v=456", "My Talk"},
		{"https://youtu.be/x", `C:\out\clip.txt`, "https://youtu.be/x", "clip"},
	}

	for _, test := range tests {
		job := &Job{Title: test.title, OutputPath: test.outputPath, URL: test.url}
		result := job.GetDisplayTitle()
		if result != test.expected {
			t.Errorf("GetDisplayTitle() with title='%s', output='%s' = '%s', expected '%s'",
				test.title, test.outputPath, result, test.expected)
		}
	}
}

func TestJob_SetProgressClamps(t *testing.T) {
	job := &Job{}

	job.SetProgress(0.425, "Downloading: 42.5%")
	if job.Percent != 42 || job.Message != "Downloading: 42.5%" {
		t.Errorf("unexpected progress state: %d %q", job.Percent, job.Message)
	}

	job.SetProgress(1.7, "")
	if job.Progress != 1 || job.Percent != 100 {
		t.Errorf("expected clamp to 1.0, got %v / %d", job.Progress, job.Percent)
	}
	if job.Message != "Downloading: 42.5%" {
		t.Errorf("empty message should keep the previous one, got %q", job.Message)
	}

	job.SetProgress(-1, "reset")
	if job.Progress != 0 || job.Percent != 0 {
		t.Errorf("expected clamp to 0, got %v / %d", job.Progress, job.Percent)
	}
}

func TestJob_ElapsedString(t *testing.T) {
	start := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)
	tests := []struct {
		finished time.Time
		expected string
	}{
		{start.Add(30 * time.Second), "00:30"},
		{start.Add(90 * time.Second), "01:30"},
		{start.Add(3661 * time.Second), "01:01:01"},
	}

	for _, test := range tests {
		job := &Job{StartedAt: start, FinishedAt: test.finished}
		if got := job.ElapsedString(); got != test.expected {
			t.Errorf("ElapsedString() = %s, expected %s", got, test.expected)
		}
	}

	if got := (&Job{}).ElapsedString(); got != "—" {
		t.Errorf("ElapsedString() for unstarted job = %s, expected —", got)
	}
}

func TestJobOptions_WithDefaults(t *testing.T) {
	opts := JobOptions{}.WithDefaults()
	if opts.Model != DefaultWhisperModel || opts.Engine != DefaultEngine || opts.Language != AutoLanguage {
		t.Errorf("unexpected defaults: %+v", opts)
	}

	custom := JobOptions{Model: "small", Engine: EngineOpenAI, Language: "de"}.WithDefaults()
	if custom.Model != "small" || custom.Engine != EngineOpenAI || custom.Language != "de" {
		t.Errorf("defaults overwrote explicit options: %+v", custom)
	}
}

func TestJob_CloneIsIndependent(t *testing.T) {
	job := &Job{ID: "job-1", Status: JobStatusDownloading}
	c := job.Clone()
	c.Status = JobStatusCompleted
	if job.Status != JobStatusDownloading {
		t.Error("mutating the clone changed the original")
	}
	if (*Job)(nil).Clone() != nil {
		t.Error("Clone of nil should be nil")
	}
}
