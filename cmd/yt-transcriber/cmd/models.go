package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"

	"github.com/ytget/yt-transcriber/internal/transcribe"
)

// modelsCmd represents the models command
var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List whisper.cpp models and whether they are downloaded",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		rt, err := newRuntime(cmd)
		if err != nil {
			return err
		}
		defer rt.close()

		return writeModels(cmd.OutOrStdout(), rt.settings.GetModelsDirectory())
	},
}

var modelsDownloadCmd = &cobra.Command{
	Use:   "download NAME",
	Short: "Download a ggml model into the models directory",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := newRuntime(cmd)
		if err != nil {
			return err
		}
		defer rt.close()

		option, ok := transcribe.LookupModel(args[0])
		if !ok {
			return fmt.Errorf("unknown model %q", args[0])
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		out := cmd.ErrOrStderr()
		progress := func(done, total int64) {}
		var container *mpb.Progress
		var bar *mpb.Bar
		if isTTY(out) {
			container = mpb.New(mpb.WithOutput(out), mpb.WithRefreshRate(progressRefreshRate))
			bar = container.AddBar(0,
				mpb.PrependDecorators(
					decor.Name(option.FileName+" ", decor.WC{W: len(option.FileName) + 1, C: decor.DindentRight}),
					decor.CountersKibiByte("% .1f / % .1f", decor.WCSyncWidth),
				),
				mpb.AppendDecorators(
					decor.NewPercentage("%d", decor.WCSyncSpace),
				),
			)
			progress = func(done, total int64) {
				if total > 0 && bar.Current() == 0 {
					bar.SetTotal(total, false)
				}
				bar.SetCurrent(done)
			}
		} else {
			fmt.Fprintf(out, "Downloading %s (%s)...\n", option.FileName, option.SizeLabel)
		}

		path, err := transcribe.FetchModel(ctx, option.ID, rt.settings.GetModelsDirectory(), progress)
		if bar != nil {
			if err != nil {
				bar.Abort(false)
			} else {
				bar.SetTotal(-1, true)
			}
			container.Wait()
		}
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ %s saved to %s\n", option.ID, path)
		return nil
	},
}

func init() {
	modelsCmd.AddCommand(modelsDownloadCmd)
}

func writeModels(w io.Writer, modelsDir string) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tFILE\tSIZE\tSTATUS")
	for _, m := range transcribe.ModelCatalog {
		status := "downloaded"
		if _, err := transcribe.ResolveModelPath(m.ID, modelsDir); err != nil {
			if !errors.Is(err, transcribe.ErrModelNotFound) {
				return err
			}
			status = "-"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", m.ID, m.FileName, m.SizeLabel, status)
	}
	fmt.Fprintf(tw, "\nmodels directory: %s\n", modelsDir)
	return tw.Flush()
}
