// Package integrate builds the integration branch: a fresh branch at the
// latest tag with every topic branch merged in declaration order, and
// publishes the result. Prior integration branches are renamed, never
// deleted, so every historical integration state stays inspectable.
package integrate

import (
	"errors"
	"fmt"

	"github.com/integ-dev/integ/internal/config"
	"github.com/integ-dev/integ/internal/git"
	"github.com/integ-dev/integ/internal/marker"
	"github.com/integ-dev/integ/internal/prompt"
	"github.com/integ-dev/integ/internal/style"
)

// Repo is the slice of the git backend the builder needs.
type Repo interface {
	LatestTag(excludePrefixes ...string) (string, error)
	BranchExists(name string) bool
	Rev(rev string) (string, error)
	RenameBranch(oldName, newName string) error
	CreateBranchAt(name, startRef string) error
	Checkout(ref string) error
	Merge(ref string) error
	MergeTool() error
	CommitNoEdit() error
	ForcePush(remote, localRef, remoteRef string) error
}

// Builder drives one integration build.
type Builder struct {
	git     Repo
	branch  string
	confirm prompt.Confirmer
}

// NewBuilder creates a builder producing the named integration branch.
func NewBuilder(repo Repo, branch string, confirm prompt.Confirmer) *Builder {
	return &Builder{git: repo, branch: branch, confirm: confirm}
}

// BackupName returns the name an old integration branch is renamed to,
// derived from the commit it pointed at.
func (b *Builder) BackupName(tipHash string) string {
	return b.branch + "-" + tipHash
}

// Build runs the full state machine. changed is the reconciliation outcome:
// when false the operator is asked whether to rebuild anyway, defaulting to
// abort, since an unchanged remote set normally reproduces the previous
// branch. Returns the number of topics merged.
func (b *Builder) Build(topics []config.Topic, changed bool) (int, error) {
	if !changed {
		if !b.confirm.Confirm("Remote set is unchanged; the rebuilt branch is likely identical. Rebuild anyway?", false) {
			return 0, fmt.Errorf("aborted: remote set unchanged")
		}
	}

	// Run markers are tags too and often sit on a previous integration
	// tip, newer than any release tag; they must never become the base.
	latestTag, err := b.git.LatestTag(marker.TagPrefixes()...)
	if err != nil {
		return 0, fmt.Errorf("determining latest tag: %w", err)
	}

	if err := b.retirePrevious(); err != nil {
		return 0, err
	}

	if err := b.git.CreateBranchAt(b.branch, latestTag); err != nil {
		return 0, fmt.Errorf("creating %s at %s: %w", b.branch, latestTag, err)
	}
	if err := b.git.Checkout(b.branch); err != nil {
		return 0, fmt.Errorf("checking out %s: %w", b.branch, err)
	}
	fmt.Printf("%s Created %s at %s\n", style.Success.Render("✓"), b.branch, latestTag)

	merged := 0
	for _, t := range topics {
		if err := b.mergeTopic(t); err != nil {
			return merged, err
		}
		merged++
	}
	return merged, nil
}

// retirePrevious renames an existing integration branch to its backup name.
// A colliding backup (second build before the previous one was published)
// is fatal and left for operator cleanup rather than overwritten.
func (b *Builder) retirePrevious() error {
	if !b.git.BranchExists(b.branch) {
		return nil
	}
	tip, err := b.git.Rev(b.branch)
	if err != nil {
		return fmt.Errorf("resolving %s: %w", b.branch, err)
	}
	backup := b.BackupName(tip)
	if err := b.git.RenameBranch(b.branch, backup); err != nil {
		return fmt.Errorf("backing up previous %s: %w", b.branch, err)
	}
	fmt.Printf("%s Kept previous integration branch as %s\n", style.Dim.Render("•"), backup)
	return nil
}

// mergeTopic merges one topic's remote-tracking branch. On conflict the
// external merge tool is invoked; recorded resolutions replay automatically
// there, first-time conflicts need the operator. Anything the tool cannot
// turn into a committable tree is fatal for the run.
func (b *Builder) mergeTopic(t config.Topic) error {
	ref := t.Ref()
	err := b.git.Merge(ref)
	if err == nil {
		fmt.Printf("%s Merged %s\n", style.Success.Render("✓"), ref)
		return nil
	}
	if !errors.Is(err, git.ErrMergeConflict) {
		return fmt.Errorf("merging %s: %w", ref, err)
	}

	fmt.Printf("%s Conflict merging %s, starting merge tool\n", style.Warning.Render("⚠"), ref)
	if err := b.git.MergeTool(); err != nil {
		return fmt.Errorf("merge tool for %s: %w", ref, err)
	}
	if err := b.git.CommitNoEdit(); err != nil {
		return fmt.Errorf("committing resolved merge of %s: %w", ref, err)
	}
	fmt.Printf("%s Merged %s after resolution\n", style.Success.Render("✓"), ref)
	return nil
}
