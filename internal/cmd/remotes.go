package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/integ-dev/integ/internal/reconcile"
	"github.com/integ-dev/integ/internal/style"
)

var remotesCmd = &cobra.Command{
	Use:     "remotes",
	GroupID: GroupPipeline,
	Short:   "Inspect and converge the tracked remote set",
}

var remotesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List tracked remotes with URL and tracked branch",
	Args:  cobra.NoArgs,
	RunE:  runRemotesList,
}

var remotesSyncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Converge tracked remotes with the topic list without rebuilding",
	Long: `Run only the reconciliation stage: remove remotes missing from the
topic list (with confirmation), add newly declared ones, and fetch updates
for the rest including the baseline. The baseline remote is never removed.`,
	Args: cobra.NoArgs,
	RunE: runRemotesSync,
}

func init() {
	remotesCmd.AddCommand(remotesListCmd)
	remotesCmd.AddCommand(remotesSyncCmd)
	rootCmd.AddCommand(remotesCmd)
}

func runRemotesList(cmd *cobra.Command, args []string) error {
	g, err := openRepo()
	if err != nil {
		return err
	}
	remotes, err := g.ListRemotes()
	if err != nil {
		return err
	}
	if len(remotes) == 0 {
		fmt.Println("No remotes configured")
		return nil
	}

	table := style.NewTable(
		style.Column{Name: "NAME", Width: 16},
		style.Column{Name: "URL", Width: 48},
		style.Column{Name: "BRANCH", Width: 24, Style: style.Dim},
	)
	for _, r := range remotes {
		table.AddRow(r.Name, r.URL, r.TrackedBranch)
	}
	fmt.Print(table.Render())
	return nil
}

func runRemotesSync(cmd *cobra.Command, args []string) error {
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

	rec := reconcile.New(g, settings.Baseline.Remote, confirmer())
	res, err := rec.Run(topics)
	if err != nil {
		return err
	}
	fmt.Printf("Reconciled: %d added, %d removed, %d updated, baseline changed: %v\n",
		res.Added, res.Removed, res.Updated, res.BaselineChanged)
	if !res.Changed() {
		fmt.Printf("%s Remote set already converged\n", style.Dim.Render("•"))
	}
	return nil
}
