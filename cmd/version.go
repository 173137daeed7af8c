package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// versionCmd shows version information
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Long:  `Display version information for validators-gen.`,
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Validators-Gen Version: %s\n", appVersion)
		fmt.Fprintf(out, "Git Commit: %s\n", appGitCommit)
		fmt.Fprintf(out, "Build Time: %s\n", appBuildTime)
	},
}
