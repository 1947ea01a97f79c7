// Command mdq inspects Markdown files from the command line: element
// decomposition, section extraction, content extraction and rendering,
// plus ingestion into a local SQLite database.
package main

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:           "mdq",
	Short:         "Query and transform Markdown documents",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		rootCmd.PrintErrln("Error:", err)
		os.Exit(1)
	}
}
