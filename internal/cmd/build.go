package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/integ-dev/integ/internal/integrate"
	"github.com/integ-dev/integ/internal/reconcile"
	"github.com/integ-dev/integ/internal/style"
)

var (
	buildForce     bool
	buildNoPublish bool
)

var buildCmd = &cobra.Command{
	Use:     "build",
	GroupID: GroupPipeline,
	Short:   "Reconcile remotes, rebuild the integration branch and publish it",
	Long: `Run the full integrate pipeline:

  1. Converge tracked remotes with the topic list (remove, add, fetch).
  2. Rename any previous integration branch to a commit-derived backup.
  3. Create a fresh integration branch at the most recently created tag.
  4. Merge every topic branch in declaration order; conflicts open the
     merge tool, with recorded resolutions replayed automatically.
  5. Push the result to the configured publish ref (forced).

If reconciliation finds no changes the rebuild is skipped unless confirmed,
since the result would normally be identical to the previous branch.

Examples:
  integ build              # Full pipeline with prompts
  integ build --yes        # Accept all prompt defaults
  integ build --force      # Rebuild even if the remote set is unchanged
  integ build --no-publish # Stop after the merge loop`,
	Args: cobra.NoArgs,
	RunE: runBuild,
}

func init() {
	buildCmd.Flags().BoolVar(&buildForce, "force", false, "Rebuild even when the remote set is unchanged")
	buildCmd.Flags().BoolVar(&buildNoPublish, "no-publish", false, "Skip pushing the finished branch")
	rootCmd.AddCommand(buildCmd)
}

func runBuild(cmd *cobra.Command, args []string) error {
	g, err := openRepo()
	if err != nil {
		return err
	}
	release, err := lockRepo(g)
	if err != nil {
		return err
	}
	defer release()

	settings, topics, err := loadWorkflow(g)
	if err != nil {
		return err
	}
	ask := confirmer()

	rec := reconcile.New(g, settings.Baseline.Remote, ask)
	res, err := rec.Run(topics)
	if err != nil {
		return err
	}
	fmt.Printf("Reconciled: %d added, %d removed, %d updated, baseline changed: %v\n",
		res.Added, res.Removed, res.Updated, res.BaselineChanged)

	builder := integrate.NewBuilder(g, settings.Integration.Branch, ask)
	merged, err := builder.Build(topics, res.Changed() || buildForce)
	if err != nil {
		return err
	}
	fmt.Printf("%s Merged %d topic(s) into %s\n", style.Success.Render("✓"), merged, settings.Integration.Branch)

	if buildNoPublish {
		return nil
	}
	pub := integrate.NewPublisher(g, ask)
	_, err = pub.Publish(settings.Integration.Branch, settings.Integration.PublishRemote, settings.Integration.PublishRef)
	return err
}
