package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/integ-dev/integ/internal/config"
	"github.com/integ-dev/integ/internal/marker"
	"github.com/integ-dev/integ/internal/style"
)

var statusCmd = &cobra.Command{
	Use:     "status",
	GroupID: GroupDiag,
	Short:   "Show integration branch, run markers and backup branches",
	Args:    cobra.NoArgs,
	RunE:    runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	g, err := openRepo()
	if err != nil {
		return err
	}
	settings, err := config.LoadSettings(g.Dir())
	if err != nil {
		return err
	}

	branch, err := g.CurrentBranch()
	if err != nil {
		return err
	}
	fmt.Printf("%s %s\n", style.Bold.Render("Branch:"), branch)

	if tag, err := g.LatestTag(marker.TagPrefixes()...); err == nil {
		fmt.Printf("%s %s\n", style.Bold.Render("Latest tag:"), tag)
	} else {
		fmt.Printf("%s %s\n", style.Bold.Render("Latest tag:"), style.Dim.Render("none"))
	}

	desc, err := g.Describe(marker.TagPrefixes()...)
	if err == nil {
		fmt.Printf("%s %s\n", style.Bold.Render("Description:"), desc)
		store := marker.NewStore(g)
		table := style.NewTable(
			style.Column{Name: "MARKER", Width: 10},
			style.Column{Name: "PRESENT", Width: 8},
		)
		for _, k := range []marker.Kind{marker.Reported, marker.Blamed, marker.Tested} {
			table.AddRow(string(k), yesNo(store.Has(k, desc)))
		}
		fmt.Println()
		fmt.Print(table.Render())
	}

	backups, err := g.ListBranches(settings.Integration.Branch + "-*")
	if err != nil {
		return err
	}
	fmt.Println()
	if len(backups) == 0 {
		fmt.Printf("%s No backup integration branches\n", style.Dim.Render("•"))
		return nil
	}
	fmt.Printf("%s %d backup integration branch(es):\n", style.Bold.Render("Backups:"), len(backups))
	for _, b := range backups {
		fmt.Printf("  %s %s\n", style.Dim.Render("•"), b)
	}
	return nil
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
