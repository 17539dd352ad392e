package cmd

import (
	"fmt"
	"os"
	"os/exec"

	"github.com/spf13/cobra"

	"github.com/integ-dev/integ/internal/config"
	"github.com/integ-dev/integ/internal/marker"
	"github.com/integ-dev/integ/internal/style"
)

var triggerCmd = &cobra.Command{
	Use:     "trigger [description]",
	GroupID: GroupPipeline,
	Short:   "Start a test run for a tree description if its gate allows",
	Long: `Invoke the external test framework for a tree description (HEAD's
'git describe' output when omitted). The run only starts when all three
hold at once:

  - a 'report' marker exists (the build report was processed),
  - no 'blame' marker exists (no error was attributed to a topic),
  - no 'test' marker exists (this description was never tested).

A blocked gate exits with status 2 to distinguish "already handled" from a
failure. On pass the 'test' marker is written before the framework starts;
the framework's own exit status is not inspected.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runTrigger,
}

func init() {
	rootCmd.AddCommand(triggerCmd)
}

func runTrigger(cmd *cobra.Command, args []string) error {
	g, err := openRepo()
	if err != nil {
		return err
	}
	release, err := lockRepo(g)
	if err != nil {
		return err
	}
	defer release()

	settings, err := config.LoadSettings(g.Dir())
	if err != nil {
		return err
	}

	desc, err := describeOrArg(g, args)
	if err != nil {
		return err
	}

	store := marker.NewStore(g)
	if err := store.CheckTestGate(desc); err != nil {
		return err
	}
	if err := store.Mark(marker.Tested, desc); err != nil {
		return err
	}

	fmt.Printf("%s Starting test run for %s\n", style.Success.Render("✓"), desc)
	run := exec.Command(settings.Test.Command, settings.Test.ConfigPath)
	run.Stdin = os.Stdin
	run.Stdout = os.Stdout
	run.Stderr = os.Stderr
	if err := run.Run(); err != nil {
		if _, ok := err.(*exec.ExitError); ok {
			// The framework reports its own results; its status is not ours.
			fmt.Printf("%s Test framework exited non-zero\n", style.Dim.Render("•"))
			return nil
		}
		return fmt.Errorf("starting %s: %w", settings.Test.Command, err)
	}
	return nil
}
