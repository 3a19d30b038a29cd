// Package project loads the kora.yaml manifest describing a project: its
// name, where its serialized ASTs live, and where the build cache goes.
package project

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/koralang/kora/internal/config"
)

// Manifest is the parsed kora.yaml.
type Manifest struct {
	Name    string   `yaml:"name"`
	Sources []string `yaml:"sources"`
	Cache   string   `yaml:"cache"`
}

// Defaults used when the manifest omits a field.
const (
	DefaultCachePath = ".kora/build.db"
)

// Load reads and parses the manifest at the given path.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading manifest %s: %w", path, err)
	}

	manifest := &Manifest{}
	if err := yaml.Unmarshal(data, manifest); err != nil {
		return nil, fmt.Errorf("parsing manifest %s: %w", path, err)
	}

	if manifest.Cache == "" {
		manifest.Cache = DefaultCachePath
	}

	return manifest, nil
}

// Discover walks up from dir looking for a kora.yaml. It returns the
// manifest and the directory containing it, or nil when no manifest
// exists.
func Discover(dir string) (*Manifest, string, error) {
	current, err := filepath.Abs(dir)
	if err != nil {
		return nil, "", err
	}

	for {
		candidate := filepath.Join(current, config.ManifestFileName)
		if _, statErr := os.Stat(candidate); statErr == nil {
			manifest, loadErr := Load(candidate)
			if loadErr != nil {
				return nil, "", loadErr
			}
			return manifest, current, nil
		}

		parent := filepath.Dir(current)
		if parent == current {
			return nil, "", nil
		}
		current = parent
	}
}
