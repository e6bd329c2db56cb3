package transcribe

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAudioClient struct {
	req  openai.AudioRequest
	resp openai.AudioResponse
	err  error
}

func (f *fakeAudioClient) CreateTranscription(_ context.Context, req openai.AudioRequest) (openai.AudioResponse, error) {
	f.req = req
	return f.resp, f.err
}

func newTestOpenAI(client *fakeAudioClient) *OpenAI {
	o := NewOpenAI("", nil)
	o.newClient = func(string) audioClient { return client }
	o.SetAPIKey("sk-test")
	return o
}

func writeAudio(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "chunk.wav")
	require.NoError(t, os.WriteFile(path, []byte("RIFF"), 0o644))
	return path
}

func TestOpenAITranscribe(t *testing.T) {
	client := &fakeAudioClient{}
	raw := `{"text":"  hola mundo ","language":"spanish","segments":[{"id":0,"start":0.5,"end":1.5,"text":" hola mundo"}]}`
	require.NoError(t, json.Unmarshal([]byte(raw), &client.resp))

	o := newTestOpenAI(client)
	audio := writeAudio(t)

	tr, err := o.Transcribe(context.Background(), audio, Options{Language: "es"})
	require.NoError(t, err)

	assert.Equal(t, openai.Whisper1, client.req.Model)
	assert.Equal(t, audio, client.req.FilePath)
	assert.Equal(t, openai.AudioResponseFormatVerboseJSON, client.req.Format)
	assert.Equal(t, "es", client.req.Language)

	assert.Equal(t, "hola mundo", tr.Text)
	assert.Equal(t, "spanish", tr.Language)
	require.Len(t, tr.Segments, 1)
	assert.Equal(t, 0.5, tr.Segments[0].Start)
	assert.Equal(t, "hola mundo", tr.Segments[0].Text)
}

func TestOpenAIAutoLanguageIsOmitted(t *testing.T) {
	client := &fakeAudioClient{}
	o := newTestOpenAI(client)

	_, err := o.Transcribe(context.Background(), writeAudio(t), Options{Language: "auto"})
	require.NoError(t, err)
	assert.Empty(t, client.req.Language)
}

func TestOpenAIMissingKey(t *testing.T) {
	o := NewOpenAI("", nil)
	_, err := o.Transcribe(context.Background(), writeAudio(t), Options{})
	assert.ErrorIs(t, err, ErrMissingAPIKey)
}

func TestOpenAIAPIError(t *testing.T) {
	o := newTestOpenAI(&fakeAudioClient{err: errors.New("rate limited")})

	_, err := o.Transcribe(context.Background(), writeAudio(t), Options{})
	var stageErr *StageError
	require.ErrorAs(t, err, &stageErr)
	assert.Contains(t, err.Error(), "rate limited")
}
