package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/integ-dev/integ/internal/config"
	"github.com/integ-dev/integ/internal/integrate"
)

var publishCmd = &cobra.Command{
	Use:     "publish",
	GroupID: GroupPipeline,
	Short:   "Push the current integration branch to its publish ref",
	Long: `Force-push the integration branch to the configured remote ref.
The push overwrites remote history; the previous state is only recoverable
from the local backup branches kept by 'integ build'.`,
	Args: cobra.NoArgs,
	RunE: runPublish,
}

func init() {
	rootCmd.AddCommand(publishCmd)
}

func runPublish(cmd *cobra.Command, args []string) error {
	g, err := openRepo()
	if err != nil {
		return err
	}
	settings, err := config.LoadSettings(g.Dir())
	if err != nil {
		return err
	}

	branch := settings.Integration.Branch
	if !g.BranchExists(branch) {
		return fmt.Errorf("no %s branch to publish; run 'integ build' first", branch)
	}

	pub := integrate.NewPublisher(g, confirmer())
	_, err = pub.Publish(branch, settings.Integration.PublishRemote, settings.Integration.PublishRef)
	return err
}
