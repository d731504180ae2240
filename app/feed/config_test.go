package feed

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "petfinder.yml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
params:
  key: test-key
  location: "94016"
  animal: dog
state_abbrev: CA
settings:
  enabled: true
  refresh_interval: 1800
  timeout: 10
filters:
  - field: breeds
    excludes:
      - chihuahua
`)

	config, err := LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}

	if config.Params["key"] != "test-key" {
		t.Errorf("Expected param key 'test-key', got '%s'", config.Params["key"])
	}
	if config.StateAbbrev != "CA" {
		t.Errorf("Expected state_abbrev 'CA', got '%s'", config.StateAbbrev)
	}
	if !config.Settings.Enabled {
		t.Error("Expected feed to be enabled")
	}
	if config.Settings.RefreshInterval != 1800 {
		t.Errorf("Expected refresh interval 1800, got %d", config.Settings.RefreshInterval)
	}
	if config.Settings.Timeout != 10 {
		t.Errorf("Expected timeout 10, got %d", config.Settings.Timeout)
	}
	if len(config.Filters) != 1 || config.Filters[0].Field != "breeds" {
		t.Errorf("Expected one breeds filter, got %v", config.Filters)
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	path := writeConfig(t, `
params:
  key: test-key
state_abbrev: NY
`)

	config, err := LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}

	if config.Settings.RefreshInterval != 3600 {
		t.Errorf("Expected default refresh interval 3600, got %d", config.Settings.RefreshInterval)
	}
	if config.Settings.Timeout != 30 {
		t.Errorf("Expected default timeout 30, got %d", config.Settings.Timeout)
	}
	if config.Settings.Enabled {
		t.Error("Expected feed to be disabled by default")
	}
}

func TestLoadConfigValidation(t *testing.T) {
	cases := map[string]string{
		"missing params":       "state_abbrev: CA\n",
		"missing state_abbrev": "params: {key: k}\n",
		"invalid filter field": "params: {key: k}\nstate_abbrev: CA\nfilters:\n  - field: bogus\n    excludes: [x]\n",
		"empty filter":         "params: {key: k}\nstate_abbrev: CA\nfilters:\n  - field: breeds\n",
	}

	for name, content := range cases {
		if _, err := LoadConfig(writeConfig(t, content)); err == nil {
			t.Errorf("Expected validation error for %s", name)
		}
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yml")); err == nil {
		t.Error("Expected error for missing config file")
	}
}
