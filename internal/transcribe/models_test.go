package transcribe

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestModelFileName(t *testing.T) {
	tests := map[string]string{
		"tiny":     "ggml-tiny.bin",
		"base":     "ggml-base.bin",
		"large":    "ggml-large-v3.bin",
		"base.en":  "ggml-base.en.bin",
		" medium ": "ggml-medium.bin",
	}
	for in, want := range tests {
		assert.Equal(t, want, ModelFileName(in), in)
	}
}

func TestResolveModelPath(t *testing.T) {
	dir := t.TempDir()
	named := filepath.Join(dir, "ggml-small.bin")
	explicit := filepath.Join(dir, "custom.gguf")
	require.NoError(t, os.WriteFile(named, []byte("m"), 0o644))
	require.NoError(t, os.WriteFile(explicit, []byte("m"), 0o644))

	got, err := ResolveModelPath("small", dir)
	require.NoError(t, err)
	assert.Equal(t, named, got)

	got, err = ResolveModelPath(explicit, "/elsewhere")
	require.NoError(t, err)
	assert.Equal(t, explicit, got)

	_, err = ResolveModelPath("tiny", dir)
	assert.ErrorIs(t, err, ErrModelNotFound)

	_, err = ResolveModelPath("", dir)
	assert.Error(t, err)
}

func TestResolveModelPathIgnoresBareNamesInWorkingDir(t *testing.T) {
	wd := t.TempDir()
	t.Chdir(wd)
	require.NoError(t, os.WriteFile(filepath.Join(wd, "base"), []byte("not a model"), 0o644))

	modelsDir := t.TempDir()
	_, err := ResolveModelPath("base", modelsDir)
	assert.ErrorIs(t, err, ErrModelNotFound)

	named := filepath.Join(modelsDir, "ggml-base.bin")
	require.NoError(t, os.WriteFile(named, []byte("m"), 0o644))
	got, err := ResolveModelPath("base", modelsDir)
	require.NoError(t, err)
	assert.Equal(t, named, got)

	require.NoError(t, os.WriteFile(filepath.Join(wd, "local.bin"), []byte("m"), 0o644))
	got, err = ResolveModelPath("local.bin", modelsDir)
	require.NoError(t, err)
	assert.Equal(t, "local.bin", got)
}

func TestFetchModelFileConcurrent(t *testing.T) {
	payload := []byte("ggml model bytes")
	var hits atomic.Int32
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		<-release
		w.Write(payload)
	}))
	defer server.Close()

	target := filepath.Join(t.TempDir(), "ggml-tiny.bin")

	const workers = 4
	var wg sync.WaitGroup
	errs := make([]error, workers)
	paths := make([]string, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			paths[i], errs[i] = fetchModelFile(context.Background(), server.URL+"/ggml-tiny.bin", target, nil)
		}(i)
	}

	time.Sleep(100 * time.Millisecond)
	close(release)
	wg.Wait()

	for i := 0; i < workers; i++ {
		require.NoError(t, errs[i])
		assert.Equal(t, target, paths[i])
	}
	assert.EqualValues(t, 1, hits.Load())

	got, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, payload, got)

	leftovers, err := filepath.Glob(target + ".*.download")
	require.NoError(t, err)
	assert.Empty(t, leftovers)
}

func TestDownloadToFile(t *testing.T) {
	payload := []byte("ggml model bytes")
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/ggml-tiny.bin" {
			http.NotFound(w, r)
			return
		}
		w.Write(payload)
	}))
	defer server.Close()

	dest := filepath.Join(t.TempDir(), "models", "ggml-tiny.bin")
	var last int64
	err := downloadToFile(context.Background(), server.URL+"/ggml-tiny.bin", dest, func(done, _ int64) {
		last = done
	})
	require.NoError(t, err)

	got, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, payload, got)
	assert.EqualValues(t, len(payload), last)
	leftovers, err := filepath.Glob(dest + ".*.download")
	require.NoError(t, err)
	assert.Empty(t, leftovers)

	err = downloadToFile(context.Background(), server.URL+"/missing.bin", dest+"2", nil)
	assert.Error(t, err)
	assert.NoFileExists(t, dest+"2")
}

func TestFetchModelUnknown(t *testing.T) {
	_, err := FetchModel(context.Background(), "gigantic", t.TempDir(), nil)
	assert.Error(t, err)
}
