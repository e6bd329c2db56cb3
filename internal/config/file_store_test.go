package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStore_MissingFileIsEmpty(t *testing.T) {
	store, err := LoadFileStore(filepath.Join(t.TempDir(), "missing", "config.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "", store.String(KeyOutputDir))
	assert.Equal(t, 0, store.Int(KeyMaxParallel))
	assert.True(t, store.BoolWithFallback(KeyIncludeTimestamps, true))
}

func TestFileStore_SaveAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg", "config.yaml")
	store, err := LoadFileStore(path)
	require.NoError(t, err)

	settings := NewSettingsWithPreferences(store)
	settings.SetOutputDirectory("/srv/transcripts")
	settings.SetMaxParallelJobs(3)
	settings.SetIncludeTimestamps(true)
	require.NoError(t, store.Save())

	reloaded, err := LoadFileStore(path)
	require.NoError(t, err)
	again := NewSettingsWithPreferences(reloaded)

	assert.Equal(t, "/srv/transcripts", again.GetOutputDirectory())
	assert.Equal(t, 3, again.GetMaxParallelJobs())
	assert.True(t, again.GetIncludeTimestamps())
}

func TestFileStore_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("output_directory: [unclosed"), 0o644))

	_, err := LoadFileStore(path)
	assert.Error(t, err)
}

func TestFileStore_HandWrittenValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "whisper_model: large\nmax_parallel_jobs: 2\ninclude_timestamps: true\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	store, err := LoadFileStore(path)
	require.NoError(t, err)
	settings := NewSettingsWithPreferences(store)

	assert.Equal(t, "large", settings.GetWhisperModel())
	assert.Equal(t, 2, settings.GetMaxParallelJobs())
	assert.True(t, settings.GetIncludeTimestamps())
}
