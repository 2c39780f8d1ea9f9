package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/slrsim/internal/projection"
)

type knotsFile struct {
	Knots []projection.Knot `yaml:"knots"`
}

// LoadKnots reads a projection dataset from yaml:
//
//	knots:
//	  - {year: 2024, slr: 0.10, cost: 0.5, displaced: 0, displaced_label: "0", impact: "..."}
//
// The knots are validated when passed to projection.New.
func LoadKnots(path string) ([]projection.Knot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var f knotsFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return f.Knots, nil
}
