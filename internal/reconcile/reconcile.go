// Package reconcile converges the repository's tracked remotes with the
// declared topic set. Reconciliation is not transactional: a fetch failure
// leaves the remote set partially converged and the next run picks it up
// again, so every operation here is safe to repeat.
package reconcile

import (
	"fmt"
	"strings"

	"github.com/integ-dev/integ/internal/config"
	"github.com/integ-dev/integ/internal/git"
	"github.com/integ-dev/integ/internal/prompt"
	"github.com/integ-dev/integ/internal/style"
)

// RemoteSet is the slice of the git backend reconciliation needs.
type RemoteSet interface {
	ListRemotes() ([]git.Remote, error)
	AddRemote(name, url, branch string) (string, error)
	RemoveRemote(name string) error
	Fetch(name string) (string, error)
}

// Result aggregates what one reconciliation run did.
type Result struct {
	Added           int
	Removed         int
	Updated         int
	BaselineChanged bool
}

// Changed reports whether anything about the remote set moved. An
// unchanged set usually means rebuilding the integration branch would
// reproduce the previous one.
func (r Result) Changed() bool {
	return r.Added+r.Removed+r.Updated > 0 || r.BaselineChanged
}

// Reconciler diffs declared topics against tracked remotes and converges
// them. The baseline remote is structurally exempt from removal.
type Reconciler struct {
	git      RemoteSet
	baseline string
	confirm  prompt.Confirmer
}

// New creates a Reconciler. baseline names the remote that must never be
// removed regardless of configuration.
func New(remotes RemoteSet, baseline string, confirm prompt.Confirmer) *Reconciler {
	return &Reconciler{git: remotes, baseline: baseline, confirm: confirm}
}

// Run executes the four reconciliation steps in order and aggregates the
// result. Per-remote fetch failures are warned and skipped; the first
// structural failure (listing remotes) aborts.
func (r *Reconciler) Run(topics []config.Topic) (Result, error) {
	var res Result

	removed, err := r.RemoveUntracked(topics)
	if err != nil {
		return res, err
	}
	res.Removed = removed

	added, err := r.AddMissing(topics)
	if err != nil {
		return res, err
	}
	res.Added = added

	res.Updated = r.UpdateExisting(topics)

	changed, err := r.UpdateBaseline()
	if err != nil {
		style.PrintWarning("baseline fetch failed: %v", err)
	}
	res.BaselineChanged = changed

	return res, nil
}

// RemoveUntracked removes, after confirmation, every tracked remote that no
// topic matches on the full (name, url, branch) triple. A topic that kept
// its name but changed URL or branch therefore forces a remove here and a
// re-add in AddMissing, never an in-place rename.
func (r *Reconciler) RemoveUntracked(topics []config.Topic) (int, error) {
	remotes, err := r.git.ListRemotes()
	if err != nil {
		return 0, fmt.Errorf("listing remotes: %w", err)
	}

	removed := 0
	for _, remote := range remotes {
		if remote.Name == r.baseline {
			continue
		}
		if matchesAny(remote, topics) {
			continue
		}
		if !r.confirm.Confirm(fmt.Sprintf("Remote %q is not in the topic list. Remove it?", remote.Name), true) {
			continue
		}
		if err := r.git.RemoveRemote(remote.Name); err != nil {
			return removed, fmt.Errorf("removing remote %q: %w", remote.Name, err)
		}
		fmt.Printf("%s Removed remote %s\n", style.Success.Render("✓"), remote.Name)
		removed++
	}
	return removed, nil
}

// AddMissing adds a remote, restricted to the declared branch, for every
// topic with no matching tracked remote, fetching it immediately.
func (r *Reconciler) AddMissing(topics []config.Topic) (int, error) {
	remotes, err := r.git.ListRemotes()
	if err != nil {
		return 0, fmt.Errorf("listing remotes: %w", err)
	}

	tracked := make(map[string]git.Remote, len(remotes))
	for _, remote := range remotes {
		tracked[remote.Name] = remote
	}

	added := 0
	for _, t := range topics {
		if remote, ok := tracked[t.Name]; ok && matches(remote, t) {
			continue
		} else if ok {
			// Same name, different url/branch: RemoveUntracked should have
			// cleared it; if the operator declined, leave it alone.
			style.PrintWarning("remote %q differs from config but was kept; skipping add", t.Name)
			continue
		}
		if _, err := r.git.AddRemote(t.Name, t.URL, t.Branch); err != nil {
			// Best effort: a failed add or initial fetch leaves the set
			// partially converged and the next run picks it up.
			style.PrintWarning("adding remote %q: %v", t.Name, err)
			continue
		}
		fmt.Printf("%s Added remote %s (%s, branch %s)\n", style.Success.Render("✓"), t.Name, t.URL, t.Branch)
		added++
	}
	return added, nil
}

// UpdateExisting fetches every topic remote and counts the ones whose fetch
// output indicates new commits. Failures are warned per remote and the walk
// continues; the next run reconciles again.
func (r *Reconciler) UpdateExisting(topics []config.Topic) int {
	updated := 0
	for _, t := range topics {
		out, err := r.git.Fetch(t.Name)
		if err != nil {
			style.PrintWarning("fetching %s: %v", t.Name, err)
			continue
		}
		if FetchChanged(out) {
			fmt.Printf("%s Updated %s\n", style.Success.Render("✓"), t.Name)
			updated++
		}
	}
	return updated
}

// UpdateBaseline fetches the baseline remote and reports whether it moved.
func (r *Reconciler) UpdateBaseline() (bool, error) {
	out, err := r.git.Fetch(r.baseline)
	if err != nil {
		return false, err
	}
	return FetchChanged(out), nil
}

// FetchChanged applies the change heuristic to fetch output: git prints a
// single "From <url>" summary line even when nothing moved, so anything
// beyond one non-blank line means refs were updated.
func FetchChanged(out string) bool {
	lines := 0
	for _, l := range strings.Split(out, "\n") {
		if strings.TrimSpace(l) != "" {
			lines++
		}
	}
	return lines > 1
}

// matches reports whether a tracked remote corresponds to a topic on the
// full identity triple.
func matches(remote git.Remote, t config.Topic) bool {
	return remote.Name == t.Name && remote.URL == t.URL && remote.TrackedBranch == t.Branch
}

func matchesAny(remote git.Remote, topics []config.Topic) bool {
	for _, t := range topics {
		if matches(remote, t) {
			return true
		}
	}
	return false
}
