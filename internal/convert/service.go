package convert

import (
	"context"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/ytget/yt-transcriber/internal/logging"
	"github.com/ytget/yt-transcriber/internal/platform"
)

// FFmpeg constants for speech-model input
const (
	SampleRate  = "16000"
	Channels    = "1"
	AudioCodec  = "pcm_s16le"
	WAVExt      = ".wav"
	ChunkPrefix = "segment_"

	// DefaultSegmentLength is the longest chunk handed to a model, in seconds
	DefaultSegmentLength = 10 * 60.0

	FFprobeLogLevel     = "error"
	FFprobeShowEntries  = "format=duration"
	FFprobeOutputFormat = "csv=p=0"
	ProgressPipeTarget  = "pipe:2"
	ProgressTimePrefix  = "out_time_us="
)

// Service drives ffmpeg and ffprobe
type Service struct {
	runner  commandRunner
	ffmpeg  string
	ffprobe string
	logger  *zap.Logger
}

// NewService creates a conversion service using ffmpeg/ffprobe from PATH
func NewService(logger *zap.Logger) *Service {
	return newServiceWithRunner(execRunner{}, logger)
}

func newServiceWithRunner(runner commandRunner, logger *zap.Logger) *Service {
	return &Service{
		runner:  runner,
		ffmpeg:  platform.FFmpegCommand,
		ffprobe: platform.FFprobeCommand,
		logger:  logging.OrNop(logger).Named("convert"),
	}
}

// Duration returns the media duration in seconds
func (s *Service) Duration(ctx context.Context, path string) (float64, error) {
	out, err := s.runner.Output(ctx, s.ffprobe,
		"-v", FFprobeLogLevel,
		"-show_entries", FFprobeShowEntries,
		"-of", FFprobeOutputFormat,
		path)
	if err != nil {
		return 0, fmt.Errorf("failed to run ffprobe: %w", err)
	}

	durationStr := strings.TrimSpace(string(out))
	duration, err := strconv.ParseFloat(durationStr, 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse duration %q: %w", durationStr, err)
	}
	return duration, nil
}

// BuildWAVArgs builds ffmpeg arguments for a (possibly trimmed) WAV conversion.
// A zero length converts the whole input.
func BuildWAVArgs(inputPath, outputPath string, start, length float64) []string {
	args := []string{"-y", "-nostdin"}
	if start > 0 {
		args = append(args, "-ss", formatSeconds(start))
	}
	args = append(args, "-i", inputPath)
	if length > 0 {
		args = append(args, "-t", formatSeconds(length))
	}
	return append(args,
		"-vn",
		"-ac", Channels,
		"-ar", SampleRate,
		"-c:a", AudioCodec,
		"-progress", ProgressPipeTarget,
		"-nostats",
		outputPath,
	)
}

// ToWAV converts any audio file to 16 kHz mono PCM WAV
func (s *Service) ToWAV(ctx context.Context, inputPath, outputPath string, progress ProgressFunc) error {
	if _, err := os.Stat(inputPath); err != nil {
		return fmt.Errorf("input file does not exist: %s", inputPath)
	}

	// Duration is best effort; without it progress is reported only at the end
	total, err := s.Duration(ctx, inputPath)
	if err != nil {
		s.logger.Warn("duration unavailable", zap.String("path", inputPath), zap.Error(err))
	}

	onLine := func(line string) {
		if progress == nil || total <= 0 {
			return
		}
		if p, ok := parseProgressLine(line, total); ok {
			progress(p, fmt.Sprintf("Converting: %.1f%%", p*100))
		}
	}

	if err := s.runner.Stream(ctx, s.ffmpeg, BuildWAVArgs(inputPath, outputPath, 0, 0), onLine); err != nil {
		os.Remove(outputPath)
		return fmt.Errorf("failed to convert audio: %w", err)
	}

	if progress != nil {
		progress(1, "Conversion complete")
	}
	return nil
}

// Split cuts the input into WAV chunks no longer than segmentLength seconds.
// Short inputs are returned as a single chunk pointing at the input itself.
func (s *Service) Split(ctx context.Context, inputPath, dir string, segmentLength float64) ([]Chunk, error) {
	if segmentLength <= 0 {
		segmentLength = DefaultSegmentLength
	}

	duration, err := s.Duration(ctx, inputPath)
	if err != nil {
		return nil, err
	}

	if duration <= segmentLength {
		return []Chunk{{Path: inputPath, Offset: 0, Duration: duration}}, nil
	}

	if err := platform.CreateDirectoryIfNotExists(dir); err != nil {
		return nil, fmt.Errorf("failed to create chunk directory: %w", err)
	}

	count := int(math.Ceil(duration / segmentLength))
	chunks := make([]Chunk, 0, count)
	for i := 0; i < count; i++ {
		start := float64(i) * segmentLength
		end := math.Min(start+segmentLength, duration)
		out := filepath.Join(dir, ChunkName(start, end))

		if err := s.runner.Stream(ctx, s.ffmpeg, BuildWAVArgs(inputPath, out, start, end-start), nil); err != nil {
			s.RemoveChunks(chunks, inputPath)
			return nil, fmt.Errorf("failed to split audio at %s: %w", formatSeconds(start), err)
		}
		chunks = append(chunks, Chunk{Path: out, Offset: start, Duration: end - start})
	}

	s.logger.Debug("audio split", zap.String("path", inputPath), zap.Int("chunks", len(chunks)))
	return chunks, nil
}

// RemoveChunks deletes generated chunk files and their directory when empty.
// The original file is never removed.
func (s *Service) RemoveChunks(chunks []Chunk, original string) {
	dirs := make(map[string]struct{})
	for _, c := range chunks {
		if c.Path == "" || c.Path == original {
			continue
		}
		if err := os.Remove(c.Path); err != nil && !os.IsNotExist(err) {
			s.logger.Warn("failed to remove chunk", zap.String("path", c.Path), zap.Error(err))
		}
		dirs[filepath.Dir(c.Path)] = struct{}{}
	}
	for dir := range dirs {
		// os.Remove fails on non-empty directories, which is what we want
		_ = os.Remove(dir)
	}
}

// ChunkName returns segment_<startMs>_<endMs>.wav
func ChunkName(start, end float64) string {
	return fmt.Sprintf("%s%d_%d%s", ChunkPrefix, int64(start*1000), int64(end*1000), WAVExt)
}

// parseProgressLine parses "out_time_us=123456" into a fraction of total
func parseProgressLine(line string, total float64) (float64, bool) {
	if !strings.HasPrefix(line, ProgressTimePrefix) {
		return 0, false
	}
	us, err := strconv.ParseInt(strings.TrimPrefix(line, ProgressTimePrefix), 10, 64)
	if err != nil || us < 0 {
		return 0, false
	}
	p := float64(us) / 1000000.0 / total
	if p > 1 {
		p = 1
	}
	return p, true
}

func formatSeconds(sec float64) string {
	return strconv.FormatFloat(sec, 'f', 3, 64)
}
