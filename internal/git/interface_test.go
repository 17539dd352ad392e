package git_test

import (
	"github.com/integ-dev/integ/internal/git"
	"github.com/integ-dev/integ/internal/integrate"
	"github.com/integ-dev/integ/internal/marker"
	"github.com/integ-dev/integ/internal/reconcile"
	"github.com/integ-dev/integ/internal/report"
)

// Compile-time assertions: Git must satisfy every consumer interface.
var (
	_ reconcile.RemoteSet = (*git.Git)(nil)
	_ integrate.Repo      = (*git.Git)(nil)
	_ report.Blamer       = (*git.Git)(nil)
	_ marker.Tagger       = (*git.Git)(nil)
)
