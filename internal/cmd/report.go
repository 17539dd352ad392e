package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/integ-dev/integ/internal/marker"
	"github.com/integ-dev/integ/internal/report"
	"github.com/integ-dev/integ/internal/style"
)

var reportURL string

var reportCmd = &cobra.Command{
	Use:     "report [description]",
	GroupID: GroupPipeline,
	Short:   "Fetch the build report and attribute errors to topic branches",
	Long: `Fetch the build-result artifact for a tree description (HEAD's
'git describe' output when omitted), blame each reported error line, and
attribute it to the topic branch that introduced it. Errors blamed on
commits reachable from the baseline branch are shared code and ignored.

When at least one error is attributable the description is marked 'blamed',
which blocks 'integ trigger' until a fixed tree gets a new description.
The description is always marked 'reported' so the same artifact is not
processed twice; a second invocation is a no-op with exit status 2.

A report that is not published yet is not an error: the command prints a
notice and exits cleanly so pollers can retry.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runReport,
}

func init() {
	reportCmd.Flags().StringVar(&reportURL, "url", "", "Fetch this URL instead of the configured template")
	rootCmd.AddCommand(reportCmd)
}

func runReport(cmd *cobra.Command, args []string) error {
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

	desc, err := describeOrArg(g, args)
	if err != nil {
		return err
	}

	store := marker.NewStore(g)
	if store.Has(marker.Reported, desc) {
		return fmt.Errorf("%w: report for %s was already processed", marker.ErrAlreadyHandled, desc)
	}

	url := reportURL
	if url == "" {
		url, err = settings.ReportURL(desc)
		if err != nil {
			return err
		}
	}

	body, err := report.Fetch(nil, url)
	if errors.Is(err, report.ErrNotAvailable) {
		fmt.Printf("%s Report for %s not available yet (%v)\n", style.Dim.Render("•"), desc, err)
		return nil
	}
	if err != nil {
		return err
	}

	records, err := report.ParseRecords(strings.NewReader(body))
	if err != nil {
		return fmt.Errorf("parsing report: %w", err)
	}

	baselineRef := settings.Baseline.Remote + "/" + settings.Baseline.Branch
	attr := report.NewAttributor(g, baselineRef)
	attributions, err := attr.Attribute(records, topics)
	if err != nil {
		return err
	}

	for _, a := range attributions {
		fmt.Printf("%s %s <%s> (%s)\n", style.Error.Render("✗"), a.Commit.Author, a.Commit.Email, a.Topic.Ref())
		fmt.Printf("  commit %s: %s\n", a.Commit.Hash, a.Commit.Subject)
		fmt.Printf("  %s\n", style.Dim.Render(a.Record.RawMessage))
	}

	if len(attributions) > 0 {
		if err := store.Mark(marker.Blamed, desc); err != nil {
			return err
		}
		fmt.Printf("%s %d error(s) attributed; %s is blocked from testing\n",
			style.Warning.Render("⚠"), len(attributions), desc)
	} else {
		fmt.Printf("%s No attributable errors in %d record(s)\n", style.Success.Render("✓"), len(records))
	}

	if err := store.Mark(marker.Reported, desc); err != nil {
		return err
	}
	return nil
}
