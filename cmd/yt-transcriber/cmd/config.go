package cmd

import (
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ytget/yt-transcriber/internal/config"
	"github.com/ytget/yt-transcriber/internal/model"
)

// settingField binds a config key to its Settings accessors
type settingField struct {
	key string
	get func(s *config.Settings) string
	set func(s *config.Settings, value string) error
}

var settingFields = []settingField{
	{
		key: config.KeyOutputDir,
		get: func(s *config.Settings) string { return s.GetOutputDirectory() },
		set: func(s *config.Settings, v string) error { s.SetOutputDirectory(v); return nil },
	},
	{
		key: config.KeyWhisperModel,
		get: func(s *config.Settings) string { return s.GetWhisperModel() },
		set: func(s *config.Settings, v string) error {
			if !slices.Contains(model.WhisperModels, v) {
				return fmt.Errorf("unknown model %q, expected one of %v", v, model.WhisperModels)
			}
			s.SetWhisperModel(v)
			return nil
		},
	},
	{
		key: config.KeyEngine,
		get: func(s *config.Settings) string { return string(s.GetEngine()) },
		set: func(s *config.Settings, v string) error {
			engine := model.Engine(v)
			if !slices.Contains(s.GetEngineOptions(), engine) {
				return fmt.Errorf("unknown engine %q, expected one of %v", v, s.GetEngineOptions())
			}
			s.SetEngine(engine)
			return nil
		},
	},
	{
		key: config.KeyLanguage,
		get: func(s *config.Settings) string { return s.GetLanguage() },
		set: func(s *config.Settings, v string) error { s.SetLanguage(v); return nil },
	},
	{
		key: config.KeyIncludeTimestamps,
		get: func(s *config.Settings) string { return strconv.FormatBool(s.GetIncludeTimestamps()) },
		set: func(s *config.Settings, v string) error {
			include, err := strconv.ParseBool(v)
			if err != nil {
				return fmt.Errorf("expected true or false, got %q", v)
			}
			s.SetIncludeTimestamps(include)
			return nil
		},
	},
	{
		key: config.KeyAppLanguage,
		get: func(s *config.Settings) string { return s.GetAppLanguage() },
		set: func(s *config.Settings, v string) error {
			if _, ok := s.GetAppLanguageOptions()[v]; !ok {
				return fmt.Errorf("unknown app language %q", v)
			}
			s.SetAppLanguage(v)
			return nil
		},
	},
	{
		key: config.KeyWhisperBinary,
		get: func(s *config.Settings) string { return s.GetWhisperBinary() },
		set: func(s *config.Settings, v string) error { s.SetWhisperBinary(v); return nil },
	},
	{
		key: config.KeyModelsDir,
		get: func(s *config.Settings) string { return s.GetModelsDirectory() },
		set: func(s *config.Settings, v string) error { s.SetModelsDirectory(v); return nil },
	},
	{
		key: config.KeyOpenAIAPIKey,
		get: func(s *config.Settings) string { return maskSecret(s.GetOpenAIAPIKey()) },
		set: func(s *config.Settings, v string) error { s.SetOpenAIAPIKey(v); return nil },
	},
	{
		key: config.KeyMaxParallel,
		get: func(s *config.Settings) string { return strconv.Itoa(s.GetMaxParallelJobs()) },
		set: func(s *config.Settings, v string) error {
			count, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("expected a number, got %q", v)
			}
			s.SetMaxParallelJobs(count)
			return nil
		},
	},
	{
		key: config.KeyHistoryPath,
		get: func(s *config.Settings) string { return s.GetHistoryPath() },
		set: func(s *config.Settings, v string) error { s.SetHistoryPath(v); return nil },
	},
	{
		key: config.KeyWorkDir,
		get: func(s *config.Settings) string { return s.GetWorkDirectory() },
		set: func(s *config.Settings, v string) error { s.SetWorkDirectory(v); return nil },
	},
}

func lookupSettingField(key string) (settingField, bool) {
	for _, f := range settingFields {
		if f.key == key {
			return f, true
		}
	}
	return settingField{}, false
}

func settingKeys() []string {
	keys := make([]string, 0, len(settingFields))
	for _, f := range settingFields {
		keys = append(keys, f.key)
	}
	return keys
}

// maskSecret keeps the first and last four characters of a key
func maskSecret(secret string) string {
	if secret == "" {
		return ""
	}
	if len(secret) <= 8 {
		return strings.Repeat("*", len(secret))
	}
	return secret[:4] + strings.Repeat("*", len(secret)-8) + secret[len(secret)-4:]
}

func writeSettings(w io.Writer, settings *config.Settings) {
	for _, f := range settingFields {
		fmt.Fprintf(w, "%-20s %s\n", f.key+":", f.get(settings))
	}
}

// applySetting validates and stores one key; the caller persists the store
func applySetting(settings *config.Settings, key, value string) error {
	field, ok := lookupSettingField(key)
	if !ok {
		return fmt.Errorf("unknown key %q, expected one of: %s", key, strings.Join(settingKeys(), ", "))
	}
	return field.set(settings, strings.TrimSpace(value))
}

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or change stored settings",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective settings",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		rt, err := newRuntime(cmd)
		if err != nil {
			return err
		}
		defer rt.close()

		fmt.Fprintf(cmd.OutOrStdout(), "# %s\n", rt.store.Path())
		writeSettings(cmd.OutOrStdout(), rt.settings)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set KEY VALUE",
	Short: "Store a setting in the config file",
	Long: `Store a setting in the config file

Keys: ` + strings.Join(settingKeys(), ", "),
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := newRuntime(cmd)
		if err != nil {
			return err
		}
		defer rt.close()

		if err := applySetting(rt.settings, args[0], args[1]); err != nil {
			return err
		}
		if err := rt.store.Save(); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s updated in %s\n", args[0], rt.store.Path())
		return nil
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}
