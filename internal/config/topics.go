// Package config locates and parses the integration configuration: the
// line-oriented topics file listing contribution branches, and the TOML
// settings file carrying workflow defaults.
package config

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// ErrNotFound reports that no candidate configuration file exists.
var ErrNotFound = fmt.Errorf("no configuration file found")

// Topic is one declared contribution source. Declaration order in the
// topics file defines merge order.
type Topic struct {
	Name   string
	URL    string
	Branch string
}

// Ref returns the remote-tracking ref for the topic ("name/branch").
func (t Topic) Ref() string {
	return t.Name + "/" + t.Branch
}

// Locate returns the first path in candidates that exists as a regular
// readable file. It has no side effects.
func Locate(candidates []string) (string, error) {
	for _, p := range candidates {
		info, err := os.Stat(p)
		if err != nil || !info.Mode().IsRegular() {
			continue
		}
		f, err := os.Open(p)
		if err != nil {
			continue
		}
		f.Close()
		return p, nil
	}
	return "", ErrNotFound
}

// DefaultTopicsPaths returns the topics file search order: repo-local
// override, then per-user, then system-wide.
func DefaultTopicsPaths(repoDir string) []string {
	paths := []string{filepath.Join(repoDir, ".integ", "topics")}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "integ", "topics"))
	}
	return append(paths, "/etc/integ/topics")
}

// DefaultSettingsPaths returns the settings file search order, mirroring
// the topics file order.
func DefaultSettingsPaths(repoDir string) []string {
	paths := []string{filepath.Join(repoDir, ".integ", "config.toml")}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "integ", "config.toml"))
	}
	return append(paths, "/etc/integ/config.toml")
}

// ParseTopics reads the line-oriented topics format: one
// "<name> <url> <branch>" triple per significant line. Blank lines and
// lines whose first non-space byte is '#' are ignored. Anything else that
// is not exactly three fields is an error, reported with its line number.
func ParseTopics(r io.Reader) ([]Topic, error) {
	var topics []Topic
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) != 3 {
			return nil, fmt.Errorf("line %d: expected \"<name> <url> <branch>\", got %d fields", lineNo, len(fields))
		}
		if seen[fields[0]] {
			return nil, fmt.Errorf("line %d: duplicate topic name %q", lineNo, fields[0])
		}
		seen[fields[0]] = true
		topics = append(topics, Topic{Name: fields[0], URL: fields[1], Branch: fields[2]})
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return topics, nil
}

// LoadTopics locates and parses the topics file for the given repository.
func LoadTopics(repoDir string) ([]Topic, string, error) {
	path, err := Locate(DefaultTopicsPaths(repoDir))
	if err != nil {
		return nil, "", err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, "", err
	}
	defer f.Close()

	topics, err := ParseTopics(f)
	if err != nil {
		return nil, "", fmt.Errorf("%s: %w", path, err)
	}
	return topics, path, nil
}
