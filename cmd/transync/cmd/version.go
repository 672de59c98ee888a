package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/msto63/transync/pkg/core/version"
)

var versionShort bool

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show the version",
	Args:  usageArgs(cobra.NoArgs),
	// No configuration needed
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		if versionShort {
			fmt.Fprintln(out, version.Tool)
			return
		}
		fmt.Fprintln(out, version.Info())
		fmt.Fprintf(out, "  Document format: %s\n", version.DocumentFormat)
		fmt.Fprintf(out, "  History schema:  %d\n", version.HistorySchema)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)

	versionCmd.Flags().BoolVar(&versionShort, "short", false, "print only the version number")
}
