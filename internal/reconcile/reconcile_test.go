package reconcile

import (
	"fmt"
	"testing"

	"github.com/integ-dev/integ/internal/config"
	"github.com/integ-dev/integ/internal/git"
	"github.com/integ-dev/integ/internal/prompt"
)

// fakeRemotes is an in-memory remote set with scripted fetch output.
type fakeRemotes struct {
	remotes  map[string]git.Remote
	fetchOut map[string]string
	fetchErr map[string]error
	fetched  []string
}

func newFakeRemotes(remotes ...git.Remote) *fakeRemotes {
	f := &fakeRemotes{
		remotes:  make(map[string]git.Remote),
		fetchOut: make(map[string]string),
		fetchErr: make(map[string]error),
	}
	for _, r := range remotes {
		f.remotes[r.Name] = r
	}
	return f
}

func (f *fakeRemotes) ListRemotes() ([]git.Remote, error) {
	var out []git.Remote
	for _, r := range f.remotes {
		out = append(out, r)
	}
	return out, nil
}

func (f *fakeRemotes) AddRemote(name, url, branch string) (string, error) {
	f.remotes[name] = git.Remote{Name: name, URL: url, TrackedBranch: branch}
	return "From " + url + "\n * [new branch] " + branch, nil
}

func (f *fakeRemotes) RemoveRemote(name string) error {
	if _, ok := f.remotes[name]; !ok {
		return fmt.Errorf("no such remote %q", name)
	}
	delete(f.remotes, name)
	return nil
}

func (f *fakeRemotes) Fetch(name string) (string, error) {
	f.fetched = append(f.fetched, name)
	if err := f.fetchErr[name]; err != nil {
		return "", err
	}
	return f.fetchOut[name], nil
}

var exampleTopics = []config.Topic{
	{Name: "alice", URL: "url-a", Branch: "branch-a"},
	{Name: "bob", URL: "url-b", Branch: "branch-b"},
}

// The scenario from the workflow docs: bob matches, carol is untracked,
// alice is missing.
func TestRunConvergesRemoteSet(t *testing.T) {
	remotes := newFakeRemotes(
		git.Remote{Name: "origin", URL: "url-base", TrackedBranch: "master"},
		git.Remote{Name: "bob", URL: "url-b", TrackedBranch: "branch-b"},
		git.Remote{Name: "carol", URL: "url-c", TrackedBranch: "branch-c"},
	)
	ask := &prompt.Scripted{Answers: []bool{true}} // confirm carol removal

	res, err := New(remotes, "origin", ask).Run(exampleTopics)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Removed != 1 || res.Added != 1 {
		t.Errorf("result = %+v, want removed=1 added=1", res)
	}
	if !res.Changed() {
		t.Error("Changed() should be true after add+remove")
	}
	if _, ok := remotes.remotes["carol"]; ok {
		t.Error("carol should have been removed")
	}
	if _, ok := remotes.remotes["alice"]; !ok {
		t.Error("alice should have been added")
	}
}

func TestRunIsIdempotent(t *testing.T) {
	remotes := newFakeRemotes(
		git.Remote{Name: "origin", URL: "url-base", TrackedBranch: "master"},
		git.Remote{Name: "alice", URL: "url-a", TrackedBranch: "branch-a"},
		git.Remote{Name: "bob", URL: "url-b", TrackedBranch: "branch-b"},
	)
	ask := &prompt.Scripted{}

	res, err := New(remotes, "origin", ask).Run(exampleTopics)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Added != 0 || res.Removed != 0 {
		t.Errorf("converged set changed: %+v", res)
	}
	if len(ask.Asked) != 0 {
		t.Errorf("no prompts expected, got %v", ask.Asked)
	}
}

// A branch rename in config is remove-then-add, never an in-place update.
func TestBranchRenameForcesRemoveAndReAdd(t *testing.T) {
	remotes := newFakeRemotes(
		git.Remote{Name: "alice", URL: "url-a", TrackedBranch: "old-branch"},
	)
	ask := &prompt.Scripted{Answers: []bool{true}}

	res, err := New(remotes, "origin", ask).Run(exampleTopics[:1])
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Removed != 1 || res.Added != 1 {
		t.Errorf("result = %+v, want remove+re-add", res)
	}
	if got := remotes.remotes["alice"].TrackedBranch; got != "branch-a" {
		t.Errorf("tracked branch = %q, want branch-a", got)
	}
}

func TestBaselineNeverRemoved(t *testing.T) {
	remotes := newFakeRemotes(
		git.Remote{Name: "origin", URL: "url-base", TrackedBranch: "master"},
	)
	// No topics at all: origin still must not be offered for removal.
	ask := &prompt.Scripted{Answers: []bool{true, true, true}}

	res, err := New(remotes, "origin", ask).Run(nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Removed != 0 {
		t.Errorf("removed = %d, want 0", res.Removed)
	}
	if _, ok := remotes.remotes["origin"]; !ok {
		t.Error("baseline remote was removed")
	}
}

func TestRemovalDeclined(t *testing.T) {
	remotes := newFakeRemotes(
		git.Remote{Name: "carol", URL: "url-c", TrackedBranch: "branch-c"},
	)
	ask := &prompt.Scripted{Answers: []bool{false}}

	removed, err := New(remotes, "origin", ask).RemoveUntracked(nil)
	if err != nil {
		t.Fatalf("RemoveUntracked: %v", err)
	}
	if removed != 0 {
		t.Errorf("removed = %d, want 0", removed)
	}
	if _, ok := remotes.remotes["carol"]; !ok {
		t.Error("declined removal still removed the remote")
	}
}

func TestUpdateExistingCountsChangedFetches(t *testing.T) {
	remotes := newFakeRemotes(
		git.Remote{Name: "alice", URL: "url-a", TrackedBranch: "branch-a"},
		git.Remote{Name: "bob", URL: "url-b", TrackedBranch: "branch-b"},
	)
	remotes.fetchOut["alice"] = "From url-a\n   abc..def  branch-a -> alice/branch-a"
	remotes.fetchOut["bob"] = "From url-b"

	updated := New(remotes, "origin", &prompt.Scripted{}).UpdateExisting(exampleTopics)
	if updated != 1 {
		t.Errorf("updated = %d, want 1", updated)
	}
}

func TestUpdateExistingContinuesPastFetchFailure(t *testing.T) {
	remotes := newFakeRemotes()
	remotes.fetchErr["alice"] = fmt.Errorf("network down")
	remotes.fetchOut["bob"] = "From url-b\n   abc..def  branch-b -> bob/branch-b"

	updated := New(remotes, "origin", &prompt.Scripted{}).UpdateExisting(exampleTopics)
	if updated != 1 {
		t.Errorf("updated = %d, want 1 (bob)", updated)
	}
	if len(remotes.fetched) != 2 {
		t.Errorf("fetched = %v, want both attempted", remotes.fetched)
	}
}

func TestFetchChanged(t *testing.T) {
	cases := []struct {
		out  string
		want bool
	}{
		{"", false},
		{"From git://example.com/repo\n", false},
		{"From git://example.com/repo\n   abc..def  master -> origin/master\n", true},
	}
	for _, c := range cases {
		if got := FetchChanged(c.out); got != c.want {
			t.Errorf("FetchChanged(%q) = %v, want %v", c.out, got, c.want)
		}
	}
}

func TestBaselineChangedDrivesChanged(t *testing.T) {
	r := Result{BaselineChanged: true}
	if !r.Changed() {
		t.Error("baseline movement alone should report a change")
	}
	if (Result{}).Changed() {
		t.Error("empty result should not report a change")
	}
}
