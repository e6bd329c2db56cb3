package transcribe

import (
	"errors"
	"fmt"
)

// Stages reported in StageError
const (
	StageModel      = "model"
	StageSplitting  = "splitting"
	StageTranscribe = "transcribing"
	StageParsing    = "parsing"
)

var (
	// ErrModelNotFound is returned when no model file exists for the requested name
	ErrModelNotFound = errors.New("whisper model not found")
	// ErrUnknownEngine is returned when no engine is registered under a name
	ErrUnknownEngine = errors.New("unknown transcription engine")
	// ErrMissingAPIKey is returned by the OpenAI engine when no key is configured
	ErrMissingAPIKey = errors.New("OpenAI API key is not configured")
)

// StageError is a stage-aware error with optional command output.
type StageError struct {
	Stage   string
	Message string
	Stderr  string
	Err     error
}

// Error formats stage failures for logs and UI.
func (e *StageError) Error() string {
	if e == nil {
		return ""
	}
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Stage, e.Message)
	}
	return fmt.Sprintf("%s: %s: %v", e.Stage, e.Message, e.Err)
}

// Unwrap exposes underlying error for errors.Is / errors.As.
func (e *StageError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}
