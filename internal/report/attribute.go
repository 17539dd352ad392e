package report

import (
	"fmt"

	"github.com/integ-dev/integ/internal/config"
	"github.com/integ-dev/integ/internal/git"
	"github.com/integ-dev/integ/internal/style"
)

// Blamer is the slice of the git backend attribution needs.
type Blamer interface {
	BlameLine(path string, line int) (string, error)
	BranchesContaining(hash string) ([]string, error)
	Show(hash string) (git.CommitInfo, error)
}

// Attribution ties one error record to the commit and topic that
// introduced it.
type Attribution struct {
	Topic  config.Topic
	Commit git.CommitInfo
	Record ErrorRecord
}

// Attributor resolves error records to topics.
type Attributor struct {
	git         Blamer
	baselineRef string
}

// NewAttributor creates an Attributor. baselineRef is the remote-tracking
// name of the baseline branch ("origin/master"); commits reachable from it
// are shared code and never attributed.
func NewAttributor(blamer Blamer, baselineRef string) *Attributor {
	return &Attributor{git: blamer, baselineRef: baselineRef}
}

// Attribute resolves each record to the commit that last touched its line.
// Baseline-reachable commits are ignored. A commit belonging to no
// configured topic (e.g. the topic was dropped from config after
// introducing the error) is silently dropped. Blame failures are warned
// and skipped; they never produce an attribution.
func (a *Attributor) Attribute(records []ErrorRecord, topics []config.Topic) ([]Attribution, error) {
	var out []Attribution
	for _, rec := range records {
		hash, err := a.git.BlameLine(rec.FilePath, rec.LineNumber)
		if err != nil {
			style.PrintWarning("blame %s:%d: %v", rec.FilePath, rec.LineNumber, err)
			continue
		}
		branches, err := a.git.BranchesContaining(hash)
		if err != nil {
			return out, fmt.Errorf("branches containing %s: %w", hash, err)
		}
		if contains(branches, a.baselineRef) {
			continue
		}
		topic, ok := matchTopic(branches, topics)
		if !ok {
			continue
		}
		info, err := a.git.Show(hash)
		if err != nil {
			return out, fmt.Errorf("resolving commit %s: %w", hash, err)
		}
		out = append(out, Attribution{Topic: topic, Commit: info, Record: rec})
	}
	return out, nil
}

// matchTopic walks topics in declaration order and returns the first whose
// remote-tracking ref contains the commit.
func matchTopic(branches []string, topics []config.Topic) (config.Topic, bool) {
	for _, t := range topics {
		if contains(branches, t.Ref()) {
			return t, true
		}
	}
	return config.Topic{}, false
}

func contains(list []string, want string) bool {
	for _, s := range list {
		if s == want {
			return true
		}
	}
	return false
}
