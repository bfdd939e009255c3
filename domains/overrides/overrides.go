// Package overrides loads per-repository preparation settings: an optional
// scan subdirectory and shell commands to run before classification.
package overrides

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Override holds the settings for one repository, keyed by repository name.
type Override struct {
	// Workdir redirects the scan root to a subdirectory of the checkout.
	// The branch checkout itself is unaffected.
	Workdir string `yaml:"workdir"`
	// Commands run in the scan root before classification, in order.
	Commands []string `yaml:"commands"`
}

// Map is the full override configuration, keyed by repository name.
type Map map[string]Override

// Load reads the override file. An empty path yields an empty map: overrides
// are optional.
func Load(path string) (Map, error) {
	if path == "" {
		return Map{}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read overrides file: %w", err)
	}

	var m Map
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse overrides file: %w", err)
	}
	if m == nil {
		m = Map{}
	}
	return m, nil
}
