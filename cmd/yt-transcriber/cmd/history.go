package cmd

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ytget/yt-transcriber/internal/history"
)

var (
	historyLimit  int
	historyExport string
)

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", history.DefaultListLimit, "number of entries, newest first")
	historyCmd.Flags().StringVarP(&historyExport, "export", "x", "", "write the entries to an .xlsx file instead of printing them")
}

// historyCmd represents the history command
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent transcriptions",
	Long: `List recent transcriptions

- Entries come from the local history database, newest first
- Use --export to write them to an Excel workbook`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		rt, err := newRuntime(cmd)
		if err != nil {
			return err
		}
		defer rt.close()

		store, err := history.Open(rt.settings.GetHistoryPath())
		if err != nil {
			return err
		}
		defer store.Close()

		entries, err := store.List(historyLimit)
		if err != nil {
			return err
		}

		if historyExport != "" {
			if err := history.ExportXLSX(entries, historyExport); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "export finished, %d entries written to %s\n", len(entries), historyExport)
			return nil
		}

		if len(entries) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No transcriptions yet")
			return nil
		}
		return writeHistory(cmd.OutOrStdout(), entries)
	},
}

func writeHistory(w io.Writer, entries []history.Entry) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tWHEN\tENGINE\tMODEL\tTITLE\tRESULT")
	for _, e := range entries {
		result := e.OutputPath
		if e.HasError {
			result = "error: " + truncate(e.ErrorMessage, 60)
		}
		title := e.Title
		if title == "" {
			title = e.URL
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n",
			e.ID, e.LastConversionTime.Local().Format("2006-01-02 15:04"), e.Engine, e.Model, truncate(title, 48), result)
	}
	return tw.Flush()
}
