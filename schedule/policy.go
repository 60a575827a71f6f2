/*
policy.go - Coverage policy loading

PURPOSE:
  Which roles an event must have covered is studio configuration, not
  code. A policy lists the minimum number of distinct staff per role.
  Policies are read from YAML (JSON is accepted too, it is valid YAML).

YAML SCHEMA:
  requirements:
    - role: photographer
      min: 2
    - role: videographer
      min: 1

DEFAULTS:
  DefaultPolicy requires one photographer per event.

SEE ALSO:
  - detector.go: Applies the policy to events
*/
package schedule

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/warp/studio-engine/studio"
)

// Requirement is the minimum number of distinct staff for a role.
type Requirement struct {
	Role studio.Role `yaml:"role" json:"role"`
	Min  int         `yaml:"min" json:"min"`
}

type CoveragePolicy struct {
	Requirements []Requirement `yaml:"requirements" json:"requirements"`
}

// DefaultPolicy requires a photographer at every event.
func DefaultPolicy() CoveragePolicy {
	return CoveragePolicy{Requirements: []Requirement{{Role: studio.RolePhotographer, Min: 1}}}
}

// Validate rejects empty roles, non-positive minimums and repeated roles.
func (p CoveragePolicy) Validate() error {
	seen := make(map[studio.Role]bool, len(p.Requirements))
	for i, r := range p.Requirements {
		if r.Role == "" {
			return fmt.Errorf("requirement %d: role is required", i)
		}
		if r.Min < 1 {
			return fmt.Errorf("requirement %d (%s): min must be at least 1", i, r.Role)
		}
		if seen[r.Role] {
			return fmt.Errorf("requirement %d: role %s listed twice", i, r.Role)
		}
		seen[r.Role] = true
	}
	return nil
}

// ParsePolicy decodes a YAML or JSON coverage policy. Unknown keys are errors.
func ParsePolicy(data []byte) (CoveragePolicy, error) {
	var p CoveragePolicy
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&p); err != nil {
		return CoveragePolicy{}, fmt.Errorf("parse coverage policy: %w", err)
	}
	if err := p.Validate(); err != nil {
		return CoveragePolicy{}, fmt.Errorf("invalid coverage policy: %w", err)
	}
	return p, nil
}

// LoadPolicy reads a policy file. An empty path yields DefaultPolicy.
func LoadPolicy(path string) (CoveragePolicy, error) {
	if path == "" {
		return DefaultPolicy(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return CoveragePolicy{}, fmt.Errorf("read coverage policy %s: %w", path, err)
	}
	return ParsePolicy(data)
}
