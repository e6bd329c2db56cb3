package transcribe

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ytget/yt-transcriber/internal/convert"
	"github.com/ytget/yt-transcriber/internal/model"
)

type fakeSplitter struct {
	chunks  []convert.Chunk
	err     error
	removed bool
}

func (f *fakeSplitter) Split(context.Context, string, string, float64) ([]convert.Chunk, error) {
	return f.chunks, f.err
}

func (f *fakeSplitter) RemoveChunks([]convert.Chunk, string) {
	f.removed = true
}

type fakeEngine struct {
	name    model.Engine
	results map[string]*model.Transcript
	failOn  string
	calls   []string
}

func (f *fakeEngine) Name() model.Engine { return f.name }

func (f *fakeEngine) Transcribe(_ context.Context, path string, _ Options) (*model.Transcript, error) {
	f.calls = append(f.calls, path)
	if path == f.failOn {
		return nil, errors.New("engine exploded")
	}
	r := f.results[path]
	c := *r
	c.Segments = append([]model.Segment(nil), r.Segments...)
	return &c, nil
}

func twoChunkSetup() (*fakeSplitter, *fakeEngine) {
	splitter := &fakeSplitter{chunks: []convert.Chunk{
		{Path: "a.wav", Offset: 0, Duration: 600},
		{Path: "b.wav", Offset: 600, Duration: 120},
	}}
	engine := &fakeEngine{name: model.EngineWhisperCPP, results: map[string]*model.Transcript{
		"a.wav": {Text: " first part ", Language: "", Segments: []model.Segment{{Start: 1, End: 2, Text: "first part"}}},
		"b.wav": {Text: "second part", Language: "en", Segments: []model.Segment{{Start: 3, End: 4, Text: "second part"}}},
	}}
	return splitter, engine
}

func TestServiceTranscribeJoinsChunks(t *testing.T) {
	splitter, engine := twoChunkSetup()
	service := NewService(splitter, nil, engine)

	var messages []string
	var fractions []float64
	tr, err := service.Transcribe(context.Background(), Request{AudioPath: "in.wav", Engine: model.EngineWhisperCPP}, func(p float64, msg string) {
		fractions = append(fractions, p)
		messages = append(messages, msg)
	})
	require.NoError(t, err)

	assert.Equal(t, "first part second part", tr.Text)
	assert.Equal(t, "en", tr.Language)
	require.Len(t, tr.Segments, 2)
	assert.Equal(t, 603.0, tr.Segments[1].Start)
	assert.Equal(t, 604.0, tr.Segments[1].End)
	assert.Equal(t, 1.0, tr.Segments[0].Start)

	assert.Equal(t, []string{
		fmt.Sprintf("Transcribing segment %d of %d", 1, 2),
		fmt.Sprintf("Transcribing segment %d of %d", 2, 2),
		MsgTranscriptionComplete,
	}, messages)
	assert.Equal(t, []float64{0, 0.5, 1}, fractions)
	assert.True(t, splitter.removed)
}

func TestServiceTranscribeEngineError(t *testing.T) {
	splitter, engine := twoChunkSetup()
	engine.failOn = "b.wav"
	service := NewService(splitter, nil, engine)

	_, err := service.Transcribe(context.Background(), Request{AudioPath: "in.wav"}, nil)
	assert.EqualError(t, err, "engine exploded")
	assert.True(t, splitter.removed)
}

func TestServiceTranscribeUnknownEngine(t *testing.T) {
	splitter, engine := twoChunkSetup()
	service := NewService(splitter, nil, engine)

	_, err := service.Transcribe(context.Background(), Request{AudioPath: "in.wav", Engine: model.EngineOpenAI}, nil)
	assert.ErrorIs(t, err, ErrUnknownEngine)
}

func TestServiceTranscribeSplitError(t *testing.T) {
	service := NewService(&fakeSplitter{err: errors.New("ffprobe missing")}, nil, &fakeEngine{name: model.EngineWhisperCPP})

	_, err := service.Transcribe(context.Background(), Request{AudioPath: "in.wav"}, nil)
	var stageErr *StageError
	require.ErrorAs(t, err, &stageErr)
	assert.Equal(t, StageSplitting, stageErr.Stage)
}

func TestServiceTranscribeCanceled(t *testing.T) {
	splitter, engine := twoChunkSetup()
	service := NewService(splitter, nil, engine)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := service.Transcribe(ctx, Request{AudioPath: "in.wav"}, nil)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, engine.calls)
}

func TestStageErrorFormatting(t *testing.T) {
	inner := errors.New("boom")
	err := &StageError{Stage: StageTranscribe, Message: "whisper failed", Err: inner}
	assert.Equal(t, "transcribing: whisper failed: boom", err.Error())
	assert.ErrorIs(t, err, inner)

	bare := &StageError{Stage: StageModel, Message: "no model"}
	assert.Equal(t, "model: no model", bare.Error())
}
