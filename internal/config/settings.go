package config

import (
	"errors"
	"fmt"

	"github.com/BurntSushi/toml"
)

// Settings carries the workflow parameters that the topics file does not:
// baseline identity, integration branch naming, publish target, report
// location and the external test framework invocation.
type Settings struct {
	Baseline    BaselineSettings    `toml:"baseline"`
	Integration IntegrationSettings `toml:"integration"`
	Report      ReportSettings      `toml:"report"`
	Test        TestSettings        `toml:"test"`
}

// BaselineSettings identifies the shared upstream everything is based on.
// The baseline remote is never removed by reconciliation.
type BaselineSettings struct {
	Remote string `toml:"remote"`
	Branch string `toml:"branch"`
}

// IntegrationSettings names the working integration branch and where the
// finished result is published.
type IntegrationSettings struct {
	Branch        string `toml:"branch"`
	PublishRemote string `toml:"publish_remote"`
	PublishRef    string `toml:"publish_ref"`
}

// ReportSettings describes where build reports are fetched from.
// URLTemplate must contain a %s placeholder for the tree description.
type ReportSettings struct {
	URLTemplate string `toml:"url_template"`
}

// TestSettings describes the external test framework entry point.
type TestSettings struct {
	Command    string `toml:"command"`
	ConfigPath string `toml:"config_path"`
}

// DefaultSettings returns the built-in defaults, used when no settings
// file exists or for fields a file leaves unset.
func DefaultSettings() Settings {
	return Settings{
		Baseline: BaselineSettings{
			Remote: "origin",
			Branch: "master",
		},
		Integration: IntegrationSettings{
			Branch:        "integration",
			PublishRemote: "origin",
			PublishRef:    "integration",
		},
		Test: TestSettings{
			Command:    "integ-test",
			ConfigPath: "/etc/integ/test.conf",
		},
	}
}

// LoadSettings locates and parses the settings file for the given
// repository, falling back to defaults when none exists. A file only
// overrides the fields it sets.
func LoadSettings(repoDir string) (Settings, error) {
	s := DefaultSettings()

	path, err := Locate(DefaultSettingsPaths(repoDir))
	if errors.Is(err, ErrNotFound) {
		return s, nil
	}
	if err != nil {
		return s, err
	}

	if _, err := toml.DecodeFile(path, &s); err != nil {
		return s, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// ReportURL builds the report artifact URL for a tree description.
func (s Settings) ReportURL(description string) (string, error) {
	if s.Report.URLTemplate == "" {
		return "", fmt.Errorf("report.url_template not configured")
	}
	return fmt.Sprintf(s.Report.URLTemplate, description), nil
}
