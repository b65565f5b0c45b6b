package plan

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Plan lists the snapshot sources to scan in one run.
type Plan struct {
	Sources []Source `yaml:"sources"`
}

// Source points at one saved page or live URL.
type Source struct {
	File string `yaml:"file"`
	URL  string `yaml:"url"`
}

// Location returns the scannable source string, preferring the URL.
func (s Source) Location() string {
	if s.URL != "" {
		return s.URL
	}
	return s.File
}

func Load(path string) (*Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read plan file: %w", err)
	}

	var p Plan
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to parse yaml: %w", err)
	}

	if len(p.Sources) == 0 {
		return nil, fmt.Errorf("plan has no sources")
	}
	return &p, nil
}

func (p *Plan) Print() {
	for i, s := range p.Sources {
		fmt.Printf("[%d] %s\n", i+1, s.Location())
	}
}
