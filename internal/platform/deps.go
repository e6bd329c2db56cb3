package platform

import (
	"fmt"
	"os/exec"
	"time"
)

// External tools required by the pipeline
const (
	YTDLPCommand      = "yt-dlp"
	FFmpegCommand     = "ffmpeg"
	FFprobeCommand    = "ffprobe"
	WhisperCPPCommand = "whisper-cli"
)

// CheckStatus indicates whether a single startup check passed.
type CheckStatus string

const (
	CheckStatusPass CheckStatus = "pass"
	CheckStatusFail CheckStatus = "fail"
)

// DependencyItem is one tool lookup result with optional hint.
type DependencyItem struct {
	Name    string
	Status  CheckStatus
	Message string
	Hint    string
}

// DependencyReport aggregates tool checks for the UI and the CLI.
type DependencyReport struct {
	GeneratedAt time.Time
	HasFailures bool
	Items       []DependencyItem
}

// Failures returns only the failed items.
func (r DependencyReport) Failures() []DependencyItem {
	var failed []DependencyItem
	for _, item := range r.Items {
		if item.Status == CheckStatusFail {
			failed = append(failed, item)
		}
	}
	return failed
}

// DependencyChecker verifies external executables are reachable.
type DependencyChecker struct {
	lookPath func(string) (string, error)
}

// NewDependencyChecker builds a checker using exec.LookPath.
func NewDependencyChecker() *DependencyChecker {
	return &DependencyChecker{lookPath: exec.LookPath}
}

// NewDependencyCheckerWithLookPath builds a checker with a custom lookup, used by tests.
func NewDependencyCheckerWithLookPath(lookPath func(string) (string, error)) *DependencyChecker {
	return &DependencyChecker{lookPath: lookPath}
}

// Check looks up yt-dlp, ffmpeg, ffprobe and, when whisperBinary is non-empty, the whisper.cpp CLI.
func (c *DependencyChecker) Check(whisperBinary string) DependencyReport {
	tools := []struct {
		name string
		hint string
	}{
		{YTDLPCommand, "Install yt-dlp (https://github.com/yt-dlp/yt-dlp) and make sure it is on PATH."},
		{FFmpegCommand, "Install FFmpeg and ensure it's in your system PATH."},
		{FFprobeCommand, "ffprobe ships with FFmpeg; reinstall FFmpeg if it is missing."},
	}
	if whisperBinary != "" {
		tools = append(tools, struct {
			name string
			hint string
		}{whisperBinary, "Build whisper.cpp or set the whisper binary path in Settings."})
	}

	report := DependencyReport{GeneratedAt: time.Now().UTC()}
	for _, tool := range tools {
		item := DependencyItem{Name: tool.name}
		path, err := c.lookPath(tool.name)
		if err != nil {
			item.Status = CheckStatusFail
			item.Message = fmt.Sprintf("Tool not found in PATH: %s", tool.name)
			item.Hint = tool.hint
			report.HasFailures = true
		} else {
			item.Status = CheckStatusPass
			item.Message = fmt.Sprintf("Found at %s", path)
		}
		report.Items = append(report.Items, item)
	}
	return report
}
