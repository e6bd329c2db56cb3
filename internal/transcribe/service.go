package transcribe

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/ytget/yt-transcriber/internal/convert"
	"github.com/ytget/yt-transcriber/internal/logging"
	"github.com/ytget/yt-transcriber/internal/model"
)

// Progress messages
const (
	MsgTranscriptionComplete = "Transcription complete"
)

// ProgressFunc receives a fraction in [0, 1] and a status message
type ProgressFunc func(progress float64, message string)

// Splitter cuts long audio into chunks; convert.Service implements it
type Splitter interface {
	Split(ctx context.Context, inputPath, dir string, segmentLength float64) ([]convert.Chunk, error)
	RemoveChunks(chunks []convert.Chunk, original string)
}

// Request describes one transcription run
type Request struct {
	AudioPath string
	ChunkDir  string // where chunk files are written
	Engine    model.Engine
	Options   Options
}

// Service transcribes audio through a registered engine
type Service struct {
	mu            sync.RWMutex
	engines       map[model.Engine]Engine
	splitter      Splitter
	segmentLength float64
	logger        *zap.Logger
}

// NewService creates a transcription service over the given engines
func NewService(splitter Splitter, logger *zap.Logger, engines ...Engine) *Service {
	s := &Service{
		engines:       make(map[model.Engine]Engine, len(engines)),
		splitter:      splitter,
		segmentLength: convert.DefaultSegmentLength,
		logger:        logging.OrNop(logger).Named("transcribe"),
	}
	for _, e := range engines {
		s.Register(e)
	}
	return s
}

// Register adds or replaces an engine
func (s *Service) Register(e Engine) {
	s.mu.Lock()
	s.engines[e.Name()] = e
	s.mu.Unlock()
}

func (s *Service) engine(name model.Engine) (Engine, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if name == "" {
		name = model.DefaultEngine
	}
	e, ok := s.engines[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownEngine, name)
	}
	return e, nil
}

// Transcribe splits the audio, transcribes every chunk in order and joins the results
func (s *Service) Transcribe(ctx context.Context, req Request, progress ProgressFunc) (*model.Transcript, error) {
	report := func(p float64, msg string) {
		if progress != nil {
			progress(p, msg)
		}
	}

	engine, err := s.engine(req.Engine)
	if err != nil {
		return nil, err
	}

	chunks, err := s.splitter.Split(ctx, req.AudioPath, req.ChunkDir, s.segmentLength)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, &StageError{Stage: StageSplitting, Message: "cannot split audio", Err: err}
	}
	defer s.splitter.RemoveChunks(chunks, req.AudioPath)

	result := &model.Transcript{}
	texts := make([]string, 0, len(chunks))
	total := len(chunks)

	for i, chunk := range chunks {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		report(float64(i)/float64(total), fmt.Sprintf("Transcribing segment %d of %d", i+1, total))

		part, err := engine.Transcribe(ctx, chunk.Path, req.Options)
		if err != nil {
			return nil, err
		}

		part.Shift(chunk.Offset)
		result.Segments = append(result.Segments, part.Segments...)
		if text := strings.TrimSpace(part.Text); text != "" {
			texts = append(texts, text)
		}
		if result.Language == "" {
			result.Language = part.Language
		}

		s.logger.Debug("segment transcribed",
			zap.Int("segment", i+1),
			zap.Int("total", total),
			zap.Float64("offset", chunk.Offset))
	}

	result.Text = strings.TrimSpace(strings.Join(texts, " "))
	report(1, MsgTranscriptionComplete)
	return result, nil
}
