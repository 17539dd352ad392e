package integrate

import (
	"fmt"

	"github.com/integ-dev/integ/internal/prompt"
	"github.com/integ-dev/integ/internal/style"
)

// Publisher pushes a finished integration branch to its fixed remote ref.
// The push is forced and non-atomic: readers may observe a torn state and
// the previous remote history survives only in the local backup branch.
type Publisher struct {
	git     Repo
	confirm prompt.Confirmer
}

// NewPublisher creates a Publisher over the given repo.
func NewPublisher(repo Repo, confirm prompt.Confirmer) *Publisher {
	return &Publisher{git: repo, confirm: confirm}
}

// Publish asks for confirmation (default yes) and force-pushes branch to
// remote/ref. Returns false with no error when the operator declines.
func (p *Publisher) Publish(branch, remote, ref string) (bool, error) {
	q := fmt.Sprintf("Push %s to %s/%s (force, overwrites remote history)?", branch, remote, ref)
	if !p.confirm.Confirm(q, true) {
		fmt.Printf("%s Not published\n", style.Dim.Render("•"))
		return false, nil
	}
	if err := p.git.ForcePush(remote, branch, ref); err != nil {
		return false, fmt.Errorf("pushing %s: %w", branch, err)
	}
	fmt.Printf("%s Published %s to %s/%s\n", style.Success.Render("✓"), branch, remote, ref)
	return true, nil
}
