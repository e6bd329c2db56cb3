package convert

import (
	"context"
)

// ProgressFunc receives a fraction in [0, 1] and a status message
type ProgressFunc func(progress float64, message string)

// Chunk is one piece of audio with its position in the original recording
type Chunk struct {
	Path     string
	Offset   float64 // seconds from the start of the original
	Duration float64 // seconds
}

// Converter defines the interface for the conversion service.
type Converter interface {
	Duration(ctx context.Context, path string) (float64, error)
	ToWAV(ctx context.Context, inputPath, outputPath string, progress ProgressFunc) error
	Split(ctx context.Context, inputPath, dir string, segmentLength float64) ([]Chunk, error)
	RemoveChunks(chunks []Chunk, original string)
}

var _ Converter = (*Service)(nil)

// commandRunner executes external tools; tests substitute a fake.
type commandRunner interface {
	// Output runs the command and returns its stdout
	Output(ctx context.Context, name string, args ...string) ([]byte, error)
	// Stream runs the command, passing every stderr line to onLine
	Stream(ctx context.Context, name string, args []string, onLine func(line string)) error
}
