// Package git wraps the git binary for the operations the integration
// workflow needs: branches, remotes, merges, tags, blame and push.
package git

import (
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"
)

// Git runs git commands in a fixed working directory.
type Git struct {
	dir string
}

// NewGit creates a Git helper rooted at dir.
func NewGit(dir string) *Git {
	return &Git{dir: dir}
}

// Dir returns the working directory this helper operates on.
func (g *Git) Dir() string {
	return g.dir
}

// GitError carries the failed argv and raw stderr so callers can decide
// what the failure means instead of parsing wrapped message strings.
type GitError struct {
	Args   []string
	Stderr string
	Err    error
}

func (e *GitError) Error() string {
	msg := fmt.Sprintf("git %s: %v", strings.Join(e.Args, " "), e.Err)
	if e.Stderr != "" {
		msg += ": " + strings.TrimSpace(e.Stderr)
	}
	return msg
}

func (e *GitError) Unwrap() error {
	return e.Err
}

// ErrMergeConflict reports that a merge stopped on conflicts and left the
// working tree in a conflicted state for resolution.
var ErrMergeConflict = fmt.Errorf("merge conflict")

// run executes git with the given args and returns trimmed stdout.
func (g *Git) run(args ...string) (string, error) {
	cmd := exec.Command("git", args...)
	cmd.Dir = g.dir

	var stdout, stderr strings.Builder
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return stdout.String(), &GitError{Args: args, Stderr: stderr.String(), Err: err}
	}
	return strings.TrimSpace(stdout.String()), nil
}

// runCombined executes git and returns combined stdout+stderr regardless of
// exit status. Fetch writes its ref-update summary to stderr, so change
// detection needs both streams.
func (g *Git) runCombined(args ...string) (string, error) {
	cmd := exec.Command("git", args...)
	cmd.Dir = g.dir

	out, err := cmd.CombinedOutput()
	if err != nil {
		return string(out), &GitError{Args: args, Stderr: string(out), Err: err}
	}
	return string(out), nil
}

// IsRepo reports whether the directory is inside a git work tree.
func (g *Git) IsRepo() bool {
	out, err := g.run("rev-parse", "--is-inside-work-tree")
	return err == nil && out == "true"
}

// CurrentBranch returns the checked-out branch name.
func (g *Git) CurrentBranch() (string, error) {
	return g.run("rev-parse", "--abbrev-ref", "HEAD")
}

// Rev resolves a revision to its full commit hash.
func (g *Git) Rev(rev string) (string, error) {
	return g.run("rev-parse", rev)
}

// GitDir returns the absolute path of the repository's .git directory.
func (g *Git) GitDir() (string, error) {
	return g.run("rev-parse", "--absolute-git-dir")
}

// Checkout switches the working tree to the given ref.
func (g *Git) Checkout(ref string) error {
	_, err := g.run("checkout", ref)
	return err
}

// BranchExists reports whether a local branch with the given name exists.
func (g *Git) BranchExists(name string) bool {
	_, err := g.run("show-ref", "--verify", "--quiet", "refs/heads/"+name)
	return err == nil
}

// CreateBranchAt creates a local branch pointing at the given start ref
// without checking it out.
func (g *Git) CreateBranchAt(name, startRef string) error {
	_, err := g.run("branch", name, startRef)
	return err
}

// RenameBranch renames a local branch. It refuses to overwrite an existing
// branch of the target name.
func (g *Git) RenameBranch(oldName, newName string) error {
	if g.BranchExists(newName) {
		return fmt.Errorf("branch %q already exists", newName)
	}
	_, err := g.run("branch", "-m", oldName, newName)
	return err
}

// ListBranches returns local branch names matching pattern, or all local
// branches if pattern is empty.
func (g *Git) ListBranches(pattern string) ([]string, error) {
	ref := "refs/heads"
	if pattern != "" {
		ref = "refs/heads/" + pattern
	}
	out, err := g.run("for-each-ref", "--format=%(refname:short)", ref)
	if err != nil {
		return nil, err
	}
	return splitLines(out), nil
}

// HasUncommittedChanges reports whether the working tree or index differ
// from HEAD.
func (g *Git) HasUncommittedChanges() (bool, error) {
	out, err := g.run("status", "--porcelain")
	if err != nil {
		return false, err
	}
	return out != "", nil
}

// Remote is one configured remote together with the single branch its
// fetch refspec tracks.
type Remote struct {
	Name          string
	URL           string
	TrackedBranch string
}

// ListRemotes returns all configured remotes with their fetch URL and
// tracked branch. Remotes with a wildcard refspec report an empty
// TrackedBranch.
func (g *Git) ListRemotes() ([]Remote, error) {
	out, err := g.run("remote")
	if err != nil {
		return nil, err
	}

	var remotes []Remote
	for _, name := range splitLines(out) {
		url, err := g.run("config", "--get", "remote."+name+".url")
		if err != nil {
			return nil, err
		}
		r := Remote{Name: name, URL: url}
		if spec, err := g.run("config", "--get", "remote."+name+".fetch"); err == nil {
			r.TrackedBranch = branchFromRefspec(spec)
		}
		remotes = append(remotes, r)
	}
	return remotes, nil
}

// branchFromRefspec extracts the branch name from a single-branch fetch
// refspec like "+refs/heads/topic:refs/remotes/alice/topic".
func branchFromRefspec(spec string) string {
	src, _, ok := strings.Cut(spec, ":")
	if !ok {
		return ""
	}
	src = strings.TrimPrefix(src, "+")
	branch := strings.TrimPrefix(src, "refs/heads/")
	if branch == src || strings.Contains(branch, "*") {
		return ""
	}
	return branch
}

// AddRemote adds a remote restricted to a single branch and fetches it
// immediately. The fetch output is returned for change inspection.
func (g *Git) AddRemote(name, url, branch string) (string, error) {
	if _, err := g.run("remote", "add", "-t", branch, name, url); err != nil {
		return "", err
	}
	return g.Fetch(name)
}

// RemoveRemote removes a remote and its tracking refs.
func (g *Git) RemoveRemote(name string) error {
	_, err := g.run("remote", "remove", name)
	return err
}

// Fetch updates a remote and returns the combined fetch output. Git prints
// one "From <url>" line even when nothing changed; additional lines mean
// refs moved.
func (g *Git) Fetch(name string) (string, error) {
	return g.runCombined("fetch", name)
}

// Merge merges ref into the current branch without editing the generated
// commit message. A conflicted merge returns ErrMergeConflict with the
// conflict left in the working tree.
func (g *Git) Merge(ref string) error {
	out, err := g.runCombined("merge", "--no-edit", ref)
	if err == nil {
		return nil
	}
	if strings.Contains(out, "CONFLICT") || g.hasUnmergedPaths() {
		return ErrMergeConflict
	}
	return err
}

// hasUnmergedPaths reports whether the index contains conflict entries.
func (g *Git) hasUnmergedPaths() bool {
	out, err := g.run("diff", "--name-only", "--diff-filter=U")
	return err == nil && out != ""
}

// MergeTool runs git mergetool interactively with the caller's terminal
// attached. It blocks until the operator finishes or abandons the session.
func (g *Git) MergeTool() error {
	cmd := exec.Command("git", "mergetool")
	cmd.Dir = g.dir
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

// CommitNoEdit concludes an in-progress merge with the prepared message.
func (g *Git) CommitNoEdit() error {
	_, err := g.run("commit", "--no-edit")
	return err
}

// ForcePush pushes a local ref to a remote ref, overwriting remote history.
func (g *Git) ForcePush(remote, localRef, remoteRef string) error {
	_, err := g.runCombined("push", "--force", remote, localRef+":"+remoteRef)
	return err
}

// LatestTag returns the most recently created tag across the whole tag
// namespace, independent of the current branch. Tags starting with any of
// the given prefixes are skipped.
func (g *Git) LatestTag(excludePrefixes ...string) (string, error) {
	out, err := g.run("tag", "--list", "--sort=-creatordate")
	if err != nil {
		return "", err
	}
	for _, tag := range splitLines(out) {
		if hasAnyPrefix(tag, excludePrefixes) {
			continue
		}
		return tag, nil
	}
	return "", fmt.Errorf("no tags found")
}

func hasAnyPrefix(s string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}

// TagExists reports whether the named tag exists.
func (g *Git) TagExists(name string) bool {
	_, err := g.run("show-ref", "--verify", "--quiet", "refs/tags/"+name)
	return err == nil
}

// CreateTag creates a lightweight tag at HEAD.
func (g *Git) CreateTag(name string) error {
	_, err := g.run("tag", name)
	return err
}

// Describe returns the human-readable version string for HEAD: nearest tag
// plus commit distance and hash suffix. Tags starting with any of the given
// prefixes are excluded from consideration.
func (g *Git) Describe(excludePrefixes ...string) (string, error) {
	args := []string{"describe", "--tags"}
	for _, p := range excludePrefixes {
		args = append(args, "--exclude", p+"*")
	}
	return g.run(args...)
}

// BlameLine returns the full hash of the commit that last touched the given
// line of path.
func (g *Git) BlameLine(path string, line int) (string, error) {
	n := strconv.Itoa(line)
	out, err := g.run("blame", "-l", "-L", n+","+n, "--", path)
	if err != nil {
		return "", err
	}
	hash, _, _ := strings.Cut(out, " ")
	// Boundary commits are prefixed with '^' and shortened by one char.
	hash = strings.TrimPrefix(hash, "^")
	return hash, nil
}

// BranchesContaining returns the remote branches that contain the given
// commit, as "remote/branch" names.
func (g *Git) BranchesContaining(hash string) ([]string, error) {
	out, err := g.run("branch", "-r", "--contains", hash, "--format=%(refname:short)")
	if err != nil {
		return nil, err
	}
	return splitLines(out), nil
}

// CommitInfo holds the metadata reported alongside an attributed error.
type CommitInfo struct {
	Hash    string
	Author  string
	Email   string
	Subject string
}

// Show returns metadata for a single commit.
func (g *Git) Show(hash string) (CommitInfo, error) {
	out, err := g.run("log", "-1", "--format=%H%n%an%n%ae%n%s", hash)
	if err != nil {
		return CommitInfo{}, err
	}
	parts := strings.SplitN(out, "\n", 4)
	if len(parts) < 4 {
		return CommitInfo{}, fmt.Errorf("unexpected log output for %s", hash)
	}
	return CommitInfo{Hash: parts[0], Author: parts[1], Email: parts[2], Subject: parts[3]}, nil
}

// splitLines splits command output into trimmed non-empty lines.
func splitLines(out string) []string {
	if out == "" {
		return nil
	}
	var lines []string
	for _, l := range strings.Split(out, "\n") {
		l = strings.TrimSpace(l)
		if l != "" {
			lines = append(lines, l)
		}
	}
	return lines
}
