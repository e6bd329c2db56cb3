package cmd

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/ytget/yt-transcriber/internal/config"
	"github.com/ytget/yt-transcriber/internal/model"
	"github.com/ytget/yt-transcriber/internal/platform"
	"github.com/ytget/yt-transcriber/internal/transcribe"
)

// checkCmd represents the check command
var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify external tools, model files and API credentials",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		rt, err := newRuntime(cmd)
		if err != nil {
			return err
		}
		defer rt.close()

		failures := runChecks(cmd.OutOrStdout(), rt.settings, platform.NewDependencyChecker())
		if failures > 0 {
			return fmt.Errorf("%d check(s) failed", failures)
		}
		return nil
	},
}

// runChecks prints one line per check and returns the number of failures
func runChecks(w io.Writer, settings *config.Settings, checker *platform.DependencyChecker) int {
	engine := settings.GetEngine()

	whisperBinary := ""
	if engine == model.EngineWhisperCPP {
		whisperBinary = settings.GetWhisperBinary()
	}

	report := checker.Check(whisperBinary)
	failures := len(report.Failures())
	for _, item := range report.Items {
		printCheck(w, item.Status == platform.CheckStatusPass, item.Name, item.Message, item.Hint)
	}

	switch engine {
	case model.EngineWhisperCPP:
		name := settings.GetWhisperModel()
		path, err := transcribe.ResolveModelPath(name, settings.GetModelsDirectory())
		switch {
		case err == nil:
			printCheck(w, true, "model "+name, "Found at "+path, "")
		case errors.Is(err, transcribe.ErrModelNotFound):
			// the engine fetches missing models on first use
			printCheck(w, true, "model "+name, "Not downloaded yet", "Run `yt-transcriber models download "+name+"` to fetch it now.")
		default:
			failures++
			printCheck(w, false, "model "+name, err.Error(), "")
		}
	case model.EngineOpenAI:
		if settings.GetOpenAIAPIKey() == "" {
			failures++
			printCheck(w, false, "OpenAI API key", "Not configured", "Set OPENAI_API_KEY or run `yt-transcriber config set openai_api_key KEY`.")
		} else {
			printCheck(w, true, "OpenAI API key", "Configured", "")
		}
	}
	return failures
}

func printCheck(w io.Writer, ok bool, name, message, hint string) {
	mark := "✓"
	if !ok {
		mark = "✗"
	}
	fmt.Fprintf(w, "%s %-16s %s\n", mark, name, message)
	if hint != "" {
		fmt.Fprintf(w, "  %s\n", hint)
	}
}
