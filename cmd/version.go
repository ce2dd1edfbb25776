package cmd

import (
	"fmt"

	"github.com/linistrate/linictl/internal/version"
	"github.com/spf13/cobra"
)

var cmdVersion = &cobra.Command{
	Use:         "version",
	Short:       "Print linictl version along with build information.",
	Annotations: map[string]string{annotationAuth: annotationPublic},
	Run: func(_ *cobra.Command, args []string) {
		fmt.Printf(
			"commit: %s\nbranch: %s\ngit summary: %s\nbuildDate: %s\nversion: %s\nGo version: %s\n",
			version.GitCommit, version.GitBranch, version.GitSummary, version.BuildDate, version.AppVersion, version.GoVersion)
	},
}

func init() {
	rootCmd.AddCommand(cmdVersion)
}
