package transcribe

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

const (
	modelBaseURL         = "https://huggingface.co/ggerganov/whisper.cpp/resolve/main/"
	modelDownloadTimeout = 2 * time.Hour
)

// ModelOption describes one downloadable ggml model
type ModelOption struct {
	ID        string
	FileName  string
	URL       string
	SizeLabel string
}

// ModelCatalog lists the model sizes offered in the UI
var ModelCatalog = []ModelOption{
	{ID: "tiny", FileName: "ggml-tiny.bin", URL: modelBaseURL + "ggml-tiny.bin", SizeLabel: "~75 MB"},
	{ID: "base", FileName: "ggml-base.bin", URL: modelBaseURL + "ggml-base.bin", SizeLabel: "~142 MB"},
	{ID: "small", FileName: "ggml-small.bin", URL: modelBaseURL + "ggml-small.bin", SizeLabel: "~466 MB"},
	{ID: "medium", FileName: "ggml-medium.bin", URL: modelBaseURL + "ggml-medium.bin", SizeLabel: "~1.5 GB"},
	{ID: "large", FileName: "ggml-large-v3.bin", URL: modelBaseURL + "ggml-large-v3.bin", SizeLabel: "~2.9 GB"},
}

// LookupModel finds a catalog entry by ID
func LookupModel(id string) (ModelOption, bool) {
	id = strings.TrimSpace(id)
	for _, m := range ModelCatalog {
		if m.ID == id {
			return m, true
		}
	}
	return ModelOption{}, false
}

// ModelFileName maps a model size to its ggml file name
func ModelFileName(name string) string {
	if m, ok := LookupModel(name); ok {
		return m.FileName
	}
	return "ggml-" + strings.TrimSpace(name) + ".bin"
}

// ResolveModelPath returns a model file for a size name or explicit path
func ResolveModelPath(nameOrPath, modelsDir string) (string, error) {
	value := strings.TrimSpace(nameOrPath)
	if value == "" {
		return "", fmt.Errorf("model name is required")
	}

	if isModelFilePath(value) {
		if info, err := os.Stat(value); err == nil && !info.IsDir() {
			return value, nil
		}
	}

	candidate := filepath.Join(modelsDir, ModelFileName(value))
	if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
		return candidate, nil
	}
	return "", fmt.Errorf("%w: %s (looked for %s)", ErrModelNotFound, value, candidate)
}

// isModelFilePath reports whether value names a file rather than a catalog size
func isModelFilePath(value string) bool {
	if strings.ContainsAny(value, `/\`) {
		return true
	}
	switch strings.ToLower(filepath.Ext(value)) {
	case ".bin", ".gguf":
		return true
	}
	return false
}

// fetchLocks serializes downloads per destination file
var (
	fetchLocksMu sync.Mutex
	fetchLocks   = make(map[string]*sync.Mutex)
)

func lockFetch(target string) func() {
	fetchLocksMu.Lock()
	mu, ok := fetchLocks[target]
	if !ok {
		mu = &sync.Mutex{}
		fetchLocks[target] = mu
	}
	fetchLocksMu.Unlock()

	mu.Lock()
	return mu.Unlock
}

// FetchModel downloads a catalog model into dir and returns its path.
// progress, when set, receives bytes written and total size (-1 if unknown).
// Concurrent fetches of the same file wait for the first one and reuse its result.
func FetchModel(ctx context.Context, name, dir string, progress func(done, total int64)) (string, error) {
	m, ok := LookupModel(name)
	if !ok {
		return "", fmt.Errorf("unknown model id: %s", name)
	}
	target, err := fetchModelFile(ctx, m.URL, filepath.Join(dir, m.FileName), progress)
	if err != nil {
		return "", fmt.Errorf("download model %s: %w", m.ID, err)
	}
	return target, nil
}

func fetchModelFile(ctx context.Context, sourceURL, target string, progress func(done, total int64)) (string, error) {
	unlock := lockFetch(target)
	defer unlock()

	if info, err := os.Stat(target); err == nil && !info.IsDir() {
		return target, nil
	}
	if err := downloadToFile(ctx, sourceURL, target, progress); err != nil {
		return "", err
	}
	return target, nil
}

func downloadToFile(ctx context.Context, sourceURL, destinationPath string, progress func(done, total int64)) error {
	if err := os.MkdirAll(filepath.Dir(destinationPath), 0o755); err != nil {
		return fmt.Errorf("prepare destination directory: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, modelDownloadTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, sourceURL, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", "yt-transcriber")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("request download: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected HTTP status: %s", resp.Status)
	}

	file, err := os.CreateTemp(filepath.Dir(destinationPath), filepath.Base(destinationPath)+".*.download")
	if err != nil {
		return fmt.Errorf("create temporary file: %w", err)
	}
	tmpPath := file.Name()

	var w io.Writer = file
	if progress != nil {
		w = &progressWriter{w: file, total: resp.ContentLength, fn: progress}
	}
	_, copyErr := io.Copy(w, resp.Body)
	closeErr := file.Close()
	if copyErr != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("write destination file: %w", copyErr)
	}
	if closeErr != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("close destination file: %w", closeErr)
	}

	if err := os.Chmod(tmpPath, 0o644); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("set model file permissions: %w", err)
	}
	if err := os.Rename(tmpPath, destinationPath); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("move downloaded file into place: %w", err)
	}
	return nil
}

type progressWriter struct {
	w     io.Writer
	done  int64
	total int64
	fn    func(done, total int64)
}

func (p *progressWriter) Write(b []byte) (int, error) {
	n, err := p.w.Write(b)
	p.done += int64(n)
	p.fn(p.done, p.total)
	return n, err
}
