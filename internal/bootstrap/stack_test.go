package bootstrap

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ytget/yt-transcriber/internal/config"
)

func testSettings(t *testing.T) (*config.Settings, string) {
	t.Helper()
	dir := t.TempDir()
	store, err := config.LoadFileStore(filepath.Join(dir, "config.yaml"))
	require.NoError(t, err)
	settings := config.NewSettingsWithPreferences(store)
	settings.SetWorkDirectory(filepath.Join(dir, "work"))
	settings.SetHistoryPath(filepath.Join(dir, "history.db"))
	settings.SetModelsDirectory(filepath.Join(dir, "models"))
	return settings, dir
}

func TestInitializeStack(t *testing.T) {
	settings, dir := testSettings(t)

	stack, err := InitializeStack(settings, nil)
	require.NoError(t, err)
	require.NotNil(t, stack.Pipeline)
	require.NotNil(t, stack.History)
	assert.NotNil(t, stack.Checker)

	assert.DirExists(t, filepath.Join(dir, "work", DownloadsDirName))
	assert.DirExists(t, filepath.Join(dir, "work", JobsDirName))
	assert.FileExists(t, filepath.Join(dir, "history.db"))

	settings.SetMaxParallelJobs(2)
	settings.SetOpenAIAPIKey("sk-test")
	stack.Reconfigure(settings)

	leftover := filepath.Join(dir, "work", DownloadsDirName, "old.mp3")
	require.NoError(t, os.WriteFile(leftover, []byte("x"), 0o644))

	require.NoError(t, stack.Close(context.Background()))
	assert.NoFileExists(t, leftover)
	assert.False(t, stack.Pipeline.Running())
}

func TestInitializeStackWithoutHistory(t *testing.T) {
	settings, dir := testSettings(t)

	blocker := filepath.Join(dir, "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("not a directory"), 0o644))
	settings.SetHistoryPath(filepath.Join(blocker, "history.db"))

	stack, err := InitializeStack(settings, nil)
	require.NoError(t, err)
	assert.Nil(t, stack.History)
	require.NoError(t, stack.Close(context.Background()))
}
