// Package cmd implements the integ CLI commands.
package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/integ-dev/integ/internal/marker"
	"github.com/integ-dev/integ/internal/style"
)

// Command group IDs for help output.
const (
	GroupPipeline = "pipeline"
	GroupDiag     = "diag"
)

var assumeYes bool

var rootCmd = &cobra.Command{
	Use:   "integ",
	Short: "Build and publish integration branches, attribute build errors",
	Long: `integ automates the integration CI workflow around a git tree:
it converges the tracked remotes with the declared topic list, rebuilds the
integration branch by merging every topic atop the latest tag, publishes the
result, and attributes build-report errors to the topic that introduced them.

State is kept exclusively as git tags (test-/blame-/report-<description>),
which gate redundant runs and form the audit trail.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&assumeYes, "yes", "y", false, "Answer prompts with their default instead of asking")
	rootCmd.AddGroup(
		&cobra.Group{ID: GroupPipeline, Title: "Pipeline Commands:"},
		&cobra.Group{ID: GroupDiag, Title: "Diagnostic Commands:"},
	)
}

// Execute runs the CLI and returns the process exit status: 0 on success,
// 2 for a deliberate redundant-run no-op, 1 for everything else.
func Execute() int {
	if err := rootCmd.Execute(); err != nil {
		if errors.Is(err, marker.ErrAlreadyHandled) {
			fmt.Printf("%s %v\n", style.Dim.Render("•"), err)
			return 2
		}
		fmt.Fprintf(os.Stderr, "%s %v\n", style.Error.Render("✗"), err)
		return 1
	}
	return 0
}
