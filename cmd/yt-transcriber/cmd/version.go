package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version is set during build via -ldflags "-X .../cmd.version=X.Y.Z"
var version = "dev"

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of yt-transcriber",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		fmt.Fprintln(cmd.OutOrStdout(), version)
		return nil
	},
}
