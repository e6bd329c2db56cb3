package transcribe

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/ytget/yt-transcriber/internal/logging"
	"github.com/ytget/yt-transcriber/internal/model"
	"github.com/ytget/yt-transcriber/internal/platform"
)

// WhisperCPPConfig locates the whisper.cpp binary and its models
type WhisperCPPConfig struct {
	Binary    string
	ModelsDir string
	AutoFetch bool // download catalog models that are missing
}

// WhisperCPP runs the whisper.cpp command line tool
type WhisperCPP struct {
	mu     sync.RWMutex
	cfg    WhisperCPPConfig
	runner commandRunner
	fetch  func(ctx context.Context, name, dir string) (string, error)
	logger *zap.Logger
}

// NewWhisperCPP creates a whisper.cpp engine
func NewWhisperCPP(cfg WhisperCPPConfig, logger *zap.Logger) *WhisperCPP {
	if cfg.Binary == "" {
		cfg.Binary = platform.WhisperCPPCommand
	}
	w := &WhisperCPP{
		cfg:    cfg,
		runner: execRunner{},
		logger: logging.OrNop(logger).Named("whispercpp"),
	}
	w.fetch = func(ctx context.Context, name, dir string) (string, error) {
		w.logger.Info("downloading whisper model", zap.String("model", name), zap.String("dir", dir))
		return FetchModel(ctx, name, dir, nil)
	}
	return w
}

// Configure replaces the binary and models settings
func (w *WhisperCPP) Configure(cfg WhisperCPPConfig) {
	if cfg.Binary == "" {
		cfg.Binary = platform.WhisperCPPCommand
	}
	w.mu.Lock()
	w.cfg = cfg
	w.mu.Unlock()
}

func (w *WhisperCPP) config() WhisperCPPConfig {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.cfg
}

// Name returns the engine identifier
func (w *WhisperCPP) Name() model.Engine {
	return model.EngineWhisperCPP
}

// Transcribe runs whisper.cpp on a 16 kHz mono WAV file
func (w *WhisperCPP) Transcribe(ctx context.Context, audioPath string, opts Options) (*model.Transcript, error) {
	cfg := w.config()

	modelPath, err := ResolveModelPath(opts.Model, cfg.ModelsDir)
	if err != nil && cfg.AutoFetch && errors.Is(err, ErrModelNotFound) {
		if _, known := LookupModel(opts.Model); known {
			modelPath, err = w.fetch(ctx, opts.Model, cfg.ModelsDir)
		}
	}
	if err != nil {
		return nil, &StageError{Stage: StageModel, Message: "cannot resolve model", Err: err}
	}

	outBase := strings.TrimSuffix(audioPath, filepath.Ext(audioPath))
	jsonPath := outBase + ".json"
	defer os.Remove(jsonPath)

	args := buildWhisperArgs(modelPath, audioPath, outBase, opts.Language)
	res, runErr := w.runner.Run(ctx, cfg.Binary, args...)
	if runErr != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, &StageError{
			Stage:   StageTranscribe,
			Message: fmt.Sprintf("whisper.cpp failed (exit=%d)", res.ExitCode),
			Stderr:  res.Stderr,
			Err:     runErr,
		}
	}

	raw, err := os.ReadFile(jsonPath)
	if err != nil {
		return nil, &StageError{
			Stage:   StageParsing,
			Message: "whisper.cpp completed but JSON output is missing",
			Stderr:  res.Stderr,
			Err:     err,
		}
	}

	transcript, err := parseWhisperJSON(raw)
	if err != nil {
		return nil, &StageError{Stage: StageParsing, Message: "cannot parse whisper.cpp output", Err: err}
	}
	return transcript, nil
}

// buildWhisperArgs builds whisper.cpp args for JSON transcript export.
// whisper.cpp defaults to English, so automatic detection is requested explicitly.
func buildWhisperArgs(modelPath, audioPath, outBase, language string) []string {
	lang := normalizeLanguage(language)
	if lang == "" {
		lang = model.AutoLanguage
	}
	return []string{
		"-m", modelPath,
		"-f", audioPath,
		"-of", outBase,
		"-oj",
		"-l", lang,
		"-np",
	}
}

// whisperOutput mirrors the parts of whisper.cpp -oj output we read
type whisperOutput struct {
	Result struct {
		Language string `json:"language"`
	} `json:"result"`
	Transcription []struct {
		Offsets struct {
			From int64 `json:"from"` // milliseconds
			To   int64 `json:"to"`
		} `json:"offsets"`
		Text string `json:"text"`
	} `json:"transcription"`
}

func parseWhisperJSON(raw []byte) (*model.Transcript, error) {
	var out whisperOutput
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}

	t := &model.Transcript{Language: out.Result.Language}
	texts := make([]string, 0, len(out.Transcription))
	for _, item := range out.Transcription {
		text := strings.TrimSpace(item.Text)
		if text == "" {
			continue
		}
		t.Segments = append(t.Segments, model.Segment{
			Start: float64(item.Offsets.From) / 1000,
			End:   float64(item.Offsets.To) / 1000,
			Text:  text,
		})
		texts = append(texts, text)
	}
	t.Text = strings.Join(texts, " ")
	return t, nil
}
