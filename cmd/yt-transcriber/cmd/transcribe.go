package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"slices"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ytget/yt-transcriber/internal/bootstrap"
	"github.com/ytget/yt-transcriber/internal/model"
	"github.com/ytget/yt-transcriber/internal/pipeline"
	"github.com/ytget/yt-transcriber/internal/platform"
)

const shutdownTimeout = 10 * time.Second

var (
	flagModel      string
	flagEngine     string
	flagLanguage   string
	flagTimestamps bool
	flagOutputDir  string
	flagNoProgress bool
	flagParallel   int
)

func init() {
	transcribeCmd.Flags().StringVarP(&flagModel, "model", "m", "", "whisper model: tiny, base, small, medium or large")
	transcribeCmd.Flags().StringVarP(&flagEngine, "engine", "e", "", "transcription engine: whispercpp or openai")
	transcribeCmd.Flags().StringVarP(&flagLanguage, "language", "l", "", `spoken language code, "auto" to detect`)
	transcribeCmd.Flags().BoolVarP(&flagTimestamps, "timestamps", "t", false, "prefix each segment with [HH:MM:SS --> HH:MM:SS]")
	transcribeCmd.Flags().StringVarP(&flagOutputDir, "output-dir", "o", "", "directory for transcript files")
	transcribeCmd.Flags().BoolVar(&flagNoProgress, "no-progress", false, "print status lines instead of progress bars")
	transcribeCmd.Flags().IntVarP(&flagParallel, "parallel", "p", 0, "number of videos processed at once")
}

// transcribeCmd represents the transcribe command
var transcribeCmd = &cobra.Command{
	Use:   "transcribe URL...",
	Short: "Transcribe one or more YouTube videos or playlists",
	Long: `Transcribe one or more YouTube videos or playlists

- Each URL is downloaded, converted and transcribed as its own job
- Playlist URLs are expanded into one job per video
- Flags override the values stored in the config file for this run only`,
	Args: cobra.MinimumNArgs(1),
	RunE: runTranscribe,
}

func runTranscribe(cmd *cobra.Command, args []string) error {
	rt, err := newRuntime(cmd)
	if err != nil {
		return err
	}
	defer rt.close()

	opts, err := transcribeOptions(cmd, rt.settings.JobOptions())
	if err != nil {
		return err
	}
	if flagParallel > 0 {
		rt.settings.SetMaxParallelJobs(flagParallel)
	}

	stack, err := bootstrap.InitializeStack(rt.settings, rt.logger)
	if err != nil {
		return err
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := stack.Close(ctx); err != nil {
			rt.logger.Warn("shutdown incomplete", zap.Error(err))
		}
	}()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	out := cmd.ErrOrStderr()
	reporter := newJobReporter(out, !flagNoProgress && isTTY(out))
	stack.Pipeline.SetUpdateCallback(reporter.Update)

	jobs, submitErrs := submitAll(ctx, stack.Pipeline, args, opts)
	for _, err := range submitErrs {
		fmt.Fprintf(out, "✗ %v\n", err)
	}

	go func() {
		<-ctx.Done()
		stack.Pipeline.StopAll()
	}()

	results := make([]*model.Job, 0, len(jobs))
	for _, job := range jobs {
		final, err := stack.Pipeline.Wait(context.Background(), job.ID)
		if err != nil {
			return err
		}
		results = append(results, final)
	}
	reporter.Wait()

	failed := printSummary(cmd, results) + len(submitErrs)
	if failed > 0 {
		return fmt.Errorf("%d of %d jobs did not complete", failed, len(results)+len(submitErrs))
	}
	return nil
}

// transcribeOptions applies changed flags on top of the stored defaults
func transcribeOptions(cmd *cobra.Command, opts model.JobOptions) (model.JobOptions, error) {
	flags := cmd.Flags()
	if flags.Changed("model") {
		if !slices.Contains(model.WhisperModels, flagModel) {
			return opts, fmt.Errorf("unknown model %q, expected one of %v", flagModel, model.WhisperModels)
		}
		opts.Model = flagModel
	}
	if flags.Changed("engine") {
		engine := model.Engine(flagEngine)
		if engine != model.EngineWhisperCPP && engine != model.EngineOpenAI {
			return opts, fmt.Errorf("unknown engine %q, expected %s or %s", flagEngine, model.EngineWhisperCPP, model.EngineOpenAI)
		}
		opts.Engine = engine
	}
	if flags.Changed("language") {
		opts.Language = flagLanguage
	}
	if flags.Changed("timestamps") {
		opts.IncludeTimestamps = flagTimestamps
	}
	if flags.Changed("output-dir") {
		opts.OutputDir = flagOutputDir
	}
	return opts.WithDefaults(), nil
}

// submitAll queues every argument, expanding playlists
func submitAll(ctx context.Context, runner pipeline.Runner, urls []string, opts model.JobOptions) ([]*model.Job, []error) {
	var jobs []*model.Job
	var errs []error
	for _, url := range urls {
		if platform.IsPlaylistURL(url) {
			playlistJobs, err := runner.SubmitPlaylist(ctx, url, opts)
			jobs = append(jobs, playlistJobs...)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", url, err))
			}
			continue
		}

		job, err := runner.Submit(url, opts)
		if err != nil {
			if errors.Is(err, pipeline.ErrJobExists) {
				continue
			}
			errs = append(errs, fmt.Errorf("%s: %w", url, err))
			continue
		}
		jobs = append(jobs, job)
	}
	return jobs, errs
}

// printSummary writes one line per finished job and returns how many did not complete
func printSummary(cmd *cobra.Command, jobs []*model.Job) int {
	failed := 0
	for _, job := range jobs {
		switch job.Status {
		case model.JobStatusCompleted:
			fmt.Fprintf(cmd.OutOrStdout(), "✓ %s -> %s (%s)\n", job.GetDisplayTitle(), job.OutputPath, job.ElapsedString())
		case model.JobStatusStopped:
			failed++
			fmt.Fprintf(cmd.ErrOrStderr(), "■ %s: stopped\n", job.GetDisplayTitle())
		default:
			failed++
			fmt.Fprintf(cmd.ErrOrStderr(), "✗ %s: %s\n", job.GetDisplayTitle(), job.LastError)
		}
	}
	return failed
}
