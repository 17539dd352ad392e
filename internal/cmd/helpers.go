package cmd

import (
	"fmt"

	"github.com/integ-dev/integ/internal/config"
	"github.com/integ-dev/integ/internal/git"
	"github.com/integ-dev/integ/internal/lock"
	"github.com/integ-dev/integ/internal/marker"
	"github.com/integ-dev/integ/internal/prompt"
)

// openRepo returns a git helper for the current directory, verifying it is
// a work tree first.
func openRepo() (*git.Git, error) {
	g := git.NewGit(".")
	if !g.IsRepo() {
		return nil, fmt.Errorf("not a git repository")
	}
	return g, nil
}

// lockRepo acquires the per-repository run lock. The returned release
// function must be deferred by the caller.
func lockRepo(g *git.Git) (func(), error) {
	gitDir, err := g.GitDir()
	if err != nil {
		return nil, fmt.Errorf("finding git dir: %w", err)
	}
	return lock.Acquire(gitDir)
}

// confirmer returns the prompt implementation for this run: assumed
// defaults under --yes, otherwise the interactive terminal prompt.
func confirmer() prompt.Confirmer {
	if assumeYes {
		return prompt.Assume{}
	}
	return prompt.NewTerminal()
}

// loadWorkflow loads settings and the topic list for the repository.
func loadWorkflow(g *git.Git) (config.Settings, []config.Topic, error) {
	settings, err := config.LoadSettings(g.Dir())
	if err != nil {
		return config.Settings{}, nil, err
	}
	topics, path, err := config.LoadTopics(g.Dir())
	if err != nil {
		return config.Settings{}, nil, err
	}
	fmt.Printf("Using topics from %s (%d topics)\n", path, len(topics))
	return settings, topics, nil
}

// describeOrArg returns the tree description: the positional argument when
// given, otherwise git describe on HEAD. Marker tags are excluded so a
// description never derives from a previous run's own markers.
func describeOrArg(g *git.Git, args []string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	desc, err := g.Describe(marker.TagPrefixes()...)
	if err != nil {
		return "", fmt.Errorf("describing HEAD (no argument given): %w", err)
	}
	return desc, nil
}
