// Package catalog loads a YAML description of known dataset endpoints, used
// by the CLI to refer to servers by short name instead of full URL.
package catalog

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Entry describes one dataset endpoint.
type Entry struct {
	URL         string `yaml:"url"`
	Description string `yaml:"description,omitempty"`
}

// Catalog is a named set of dataset endpoints plus client settings.
type Catalog struct {
	Datasets  map[string]Entry `yaml:"datasets"`
	Timeout   time.Duration    `yaml:"timeout,omitempty"`
	UserAgent string           `yaml:"user_agent,omitempty"`
}

// Load reads and parses a catalog file.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse decodes catalog YAML.
func Parse(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("catalog: %w", err)
	}
	for name, e := range c.Datasets {
		if e.URL == "" {
			return nil, fmt.Errorf("catalog: dataset %q has no url", name)
		}
	}
	return &c, nil
}

// Resolve maps a name to its URL; unknown names pass through unchanged so
// callers can mix catalog names and raw URLs.
func (c *Catalog) Resolve(name string) string {
	if c == nil {
		return name
	}
	if e, ok := c.Datasets[name]; ok {
		return e.URL
	}
	return name
}
