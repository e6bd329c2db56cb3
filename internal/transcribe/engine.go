package transcribe

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"strings"

	"github.com/ytget/yt-transcriber/internal/model"
)

// Options are per-run engine settings
type Options struct {
	Model    string // whisper model size or model file path
	Language string // "auto" or empty lets the model detect it
}

// Engine transcribes one audio file
type Engine interface {
	Name() model.Engine
	Transcribe(ctx context.Context, audioPath string, opts Options) (*model.Transcript, error)
}

// normalizeLanguage maps "auto" and empty language to "".
func normalizeLanguage(raw string) string {
	lang := strings.TrimSpace(raw)
	if lang == "" || strings.EqualFold(lang, model.AutoLanguage) {
		return ""
	}
	return lang
}

// commandResult is an internal process execution response.
type commandResult struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// commandRunner abstracts process execution for testability.
type commandRunner interface {
	Run(ctx context.Context, name string, args ...string) (commandResult, error)
}

// execRunner executes commands via os/exec.
type execRunner struct{}

func (execRunner) Run(ctx context.Context, name string, args ...string) (commandResult, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	result := commandResult{Stdout: stdout.String(), Stderr: stderr.String()}
	if err != nil {
		result.ExitCode = -1
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			result.ExitCode = exitErr.ExitCode()
		}
		return result, err
	}
	return result, nil
}
