package config

import (
	"os"
	"path/filepath"
	"strings"

	"fyne.io/fyne/v2"

	"github.com/ytget/yt-transcriber/internal/model"
	"github.com/ytget/yt-transcriber/internal/platform"
)

// AppDirName names the per-user config and data directories
const AppDirName = "yt-transcriber"

// Settings keys shared by Fyne preferences and the YAML file store
const (
	KeyOutputDir         = "output_directory"
	KeyWhisperModel      = "whisper_model"
	KeyEngine            = "engine"
	KeyLanguage          = "language"
	KeyIncludeTimestamps = "include_timestamps"
	KeyAppLanguage       = "app_language"
	KeyWhisperBinary     = "whisper_binary"
	KeyModelsDir         = "models_directory"
	KeyOpenAIAPIKey      = "openai_api_key"
	KeyMaxParallel       = "max_parallel_jobs"
	KeyHistoryPath       = "history_path"
	KeyWorkDir           = "work_directory"
)

// Default values
const (
	DefaultMaxParallel       = 1
	MaxParallelLimit         = 4
	DefaultAppLanguage       = "system"
	DefaultIncludeTimestamps = false
	FallbackOutputDir        = "/tmp/transcripts"
)

// Preferences is the subset of fyne.Preferences the settings layer relies on.
// The CLI satisfies it with FileStore.
type Preferences interface {
	String(key string) string
	SetString(key string, value string)
	Int(key string) int
	SetInt(key string, value int)
	BoolWithFallback(key string, fallback bool) bool
	SetBool(key string, value bool)
}

// Settings manages application configuration
type Settings struct {
	prefs Preferences
}

// NewSettings creates a settings manager backed by the Fyne app preferences
func NewSettings(app fyne.App) *Settings {
	return &Settings{prefs: app.Preferences()}
}

// NewSettingsWithPreferences creates a settings manager over any Preferences store
func NewSettingsWithPreferences(prefs Preferences) *Settings {
	return &Settings{prefs: prefs}
}

// stringWithDefault returns the stored value, persisting def when unset
func (s *Settings) stringWithDefault(key, def string) string {
	value := s.prefs.String(key)
	if value == "" {
		s.prefs.SetString(key, def)
		return def
	}
	return value
}

// GetOutputDirectory returns where transcripts are saved (defaults to ~/Downloads)
func (s *Settings) GetOutputDirectory() string {
	dir := s.prefs.String(KeyOutputDir)
	if dir == "" {
		defaultDir, err := platform.GetHomeDownloadsDir()
		if err != nil {
			defaultDir = FallbackOutputDir
		}
		s.SetOutputDirectory(defaultDir)
		return defaultDir
	}
	return dir
}

// SetOutputDirectory sets the transcript output directory
func (s *Settings) SetOutputDirectory(dir string) {
	s.prefs.SetString(KeyOutputDir, strings.TrimSpace(dir))
}

// GetWhisperModel returns the configured model size
func (s *Settings) GetWhisperModel() string {
	return s.stringWithDefault(KeyWhisperModel, model.DefaultWhisperModel)
}

// SetWhisperModel sets the model size; unknown names fall back to the default
func (s *Settings) SetWhisperModel(name string) {
	for _, m := range model.WhisperModels {
		if m == name {
			s.prefs.SetString(KeyWhisperModel, name)
			return
		}
	}
	s.prefs.SetString(KeyWhisperModel, model.DefaultWhisperModel)
}

// GetEngine returns the configured transcription engine
func (s *Settings) GetEngine() model.Engine {
	return model.Engine(s.stringWithDefault(KeyEngine, string(model.DefaultEngine)))
}

// SetEngine sets the transcription engine; unknown names fall back to the default
func (s *Settings) SetEngine(engine model.Engine) {
	switch engine {
	case model.EngineWhisperCPP, model.EngineOpenAI:
		s.prefs.SetString(KeyEngine, string(engine))
	default:
		s.prefs.SetString(KeyEngine, string(model.DefaultEngine))
	}
}

// GetEngineOptions returns available engines
func (s *Settings) GetEngineOptions() []model.Engine {
	return []model.Engine{model.EngineWhisperCPP, model.EngineOpenAI}
}

// GetLanguage returns the spoken language hint ("auto" lets the model detect it)
func (s *Settings) GetLanguage() string {
	return s.stringWithDefault(KeyLanguage, model.AutoLanguage)
}

// SetLanguage sets the spoken language hint
func (s *Settings) SetLanguage(lang string) {
	lang = strings.TrimSpace(lang)
	if lang == "" {
		lang = model.AutoLanguage
	}
	s.prefs.SetString(KeyLanguage, lang)
}

// GetIncludeTimestamps returns whether transcripts include segment timestamps
func (s *Settings) GetIncludeTimestamps() bool {
	return s.prefs.BoolWithFallback(KeyIncludeTimestamps, DefaultIncludeTimestamps)
}

// SetIncludeTimestamps sets whether transcripts include segment timestamps
func (s *Settings) SetIncludeTimestamps(include bool) {
	s.prefs.SetBool(KeyIncludeTimestamps, include)
}

// GetAppLanguage returns the UI language
func (s *Settings) GetAppLanguage() string {
	return s.stringWithDefault(KeyAppLanguage, DefaultAppLanguage)
}

// SetAppLanguage sets the UI language
func (s *Settings) SetAppLanguage(lang string) {
	s.prefs.SetString(KeyAppLanguage, lang)
}

// GetAppLanguageOptions returns available UI language options
func (s *Settings) GetAppLanguageOptions() map[string]string {
	return map[string]string{
		"system": "System Default",
		"en":     "English",
		"ru":     "Русский",
		"pt":     "Português",
	}
}

// GetWhisperBinary returns the whisper.cpp executable name or path
func (s *Settings) GetWhisperBinary() string {
	return s.stringWithDefault(KeyWhisperBinary, platform.WhisperCPPCommand)
}

// SetWhisperBinary sets the whisper.cpp executable
func (s *Settings) SetWhisperBinary(path string) {
	path = strings.TrimSpace(path)
	if path == "" {
		path = platform.WhisperCPPCommand
	}
	s.prefs.SetString(KeyWhisperBinary, path)
}

// GetModelsDirectory returns where ggml model files live
func (s *Settings) GetModelsDirectory() string {
	return s.stringWithDefault(KeyModelsDir, defaultModelsDir())
}

// SetModelsDirectory sets where ggml model files live
func (s *Settings) SetModelsDirectory(dir string) {
	s.prefs.SetString(KeyModelsDir, strings.TrimSpace(dir))
}

// GetOpenAIAPIKey returns the stored key, falling back to OPENAI_API_KEY
func (s *Settings) GetOpenAIAPIKey() string {
	if key := strings.TrimSpace(s.prefs.String(KeyOpenAIAPIKey)); key != "" {
		return key
	}
	return strings.TrimSpace(os.Getenv(EnvOpenAIAPIKey))
}

// SetOpenAIAPIKey stores the OpenAI API key
func (s *Settings) SetOpenAIAPIKey(key string) {
	s.prefs.SetString(KeyOpenAIAPIKey, strings.TrimSpace(key))
}

// GetMaxParallelJobs returns the maximum number of concurrent jobs
func (s *Settings) GetMaxParallelJobs() int {
	value := s.prefs.Int(KeyMaxParallel)
	if value <= 0 {
		s.SetMaxParallelJobs(DefaultMaxParallel)
		return DefaultMaxParallel
	}
	return value
}

// SetMaxParallelJobs sets the maximum number of concurrent jobs
func (s *Settings) SetMaxParallelJobs(count int) {
	if count < 1 {
		count = 1
	}
	if count > MaxParallelLimit {
		count = MaxParallelLimit
	}
	s.prefs.SetInt(KeyMaxParallel, count)
}

// GetHistoryPath returns the SQLite history database path
func (s *Settings) GetHistoryPath() string {
	return s.stringWithDefault(KeyHistoryPath, filepath.Join(DefaultConfigDir(), "history.db"))
}

// SetHistoryPath sets the SQLite history database path
func (s *Settings) SetHistoryPath(path string) {
	s.prefs.SetString(KeyHistoryPath, strings.TrimSpace(path))
}

// GetWorkDirectory returns the scratch directory for downloaded audio
func (s *Settings) GetWorkDirectory() string {
	return s.stringWithDefault(KeyWorkDir, filepath.Join(os.TempDir(), AppDirName))
}

// SetWorkDirectory sets the scratch directory for downloaded audio
func (s *Settings) SetWorkDirectory(dir string) {
	s.prefs.SetString(KeyWorkDir, strings.TrimSpace(dir))
}

// JobOptions assembles job options from the current settings
func (s *Settings) JobOptions() model.JobOptions {
	return model.JobOptions{
		Model:             s.GetWhisperModel(),
		Engine:            s.GetEngine(),
		Language:          s.GetLanguage(),
		IncludeTimestamps: s.GetIncludeTimestamps(),
		OutputDir:         s.GetOutputDirectory(),
	}
}

// DefaultConfigDir returns the per-user config directory for the app
func DefaultConfigDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return filepath.Join(".", "."+AppDirName)
	}
	return filepath.Join(dir, AppDirName)
}

func defaultModelsDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, "."+AppDirName, "models")
}
