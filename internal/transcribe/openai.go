package transcribe

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/ytget/yt-transcriber/internal/logging"
	"github.com/ytget/yt-transcriber/internal/model"
)

// audioClient is the part of *openai.Client the engine calls
type audioClient interface {
	CreateTranscription(ctx context.Context, request openai.AudioRequest) (openai.AudioResponse, error)
}

// OpenAI transcribes through the hosted Whisper API
type OpenAI struct {
	mu        sync.RWMutex
	client    audioClient
	newClient func(apiKey string) audioClient
	logger    *zap.Logger
}

// NewOpenAI creates an OpenAI engine; an empty key fails at transcription time
func NewOpenAI(apiKey string, logger *zap.Logger) *OpenAI {
	o := &OpenAI{
		newClient: func(key string) audioClient { return openai.NewClient(key) },
		logger:    logging.OrNop(logger).Named("openai"),
	}
	o.SetAPIKey(apiKey)
	return o
}

// SetAPIKey rebuilds the API client for a new key
func (o *OpenAI) SetAPIKey(apiKey string) {
	apiKey = strings.TrimSpace(apiKey)
	o.mu.Lock()
	defer o.mu.Unlock()
	if apiKey == "" {
		o.client = nil
		return
	}
	o.client = o.newClient(apiKey)
}

// Name returns the engine identifier
func (o *OpenAI) Name() model.Engine {
	return model.EngineOpenAI
}

// Transcribe uploads one audio file and maps the verbose JSON response
func (o *OpenAI) Transcribe(ctx context.Context, audioPath string, opts Options) (*model.Transcript, error) {
	o.mu.RLock()
	client := o.client
	o.mu.RUnlock()
	if client == nil {
		return nil, &StageError{Stage: StageTranscribe, Message: "cannot call OpenAI", Err: ErrMissingAPIKey}
	}

	if _, err := os.Stat(audioPath); err != nil {
		return nil, &StageError{Stage: StageTranscribe, Message: fmt.Sprintf("input file not found: %s", audioPath), Err: err}
	}

	req := openai.AudioRequest{
		Model:    openai.Whisper1,
		FilePath: audioPath,
		Format:   openai.AudioResponseFormatVerboseJSON,
		Language: normalizeLanguage(opts.Language),
	}

	resp, err := client.CreateTranscription(ctx, req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, &StageError{Stage: StageTranscribe, Message: "createTranscription failed", Err: err}
	}

	t := &model.Transcript{
		Text:     strings.TrimSpace(resp.Text),
		Language: resp.Language,
	}
	for _, seg := range resp.Segments {
		t.Segments = append(t.Segments, model.Segment{
			Start: seg.Start,
			End:   seg.End,
			Text:  strings.TrimSpace(seg.Text),
		})
	}
	o.logger.Debug("openai transcription done", zap.String("path", audioPath), zap.Int("segments", len(t.Segments)))
	return t, nil
}
