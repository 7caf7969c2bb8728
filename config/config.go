// Package config loads validation policy configuration from YAML.
//
// Policy configuration feeds the tier 3 validator: which institution
// codes are recognized and which 040 subfields are mandatory. The zero
// configuration is not usable; start from Default and override.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Policy is the district cataloging policy.
type Policy struct {
	// Institutions maps recognized institution codes to display names.
	Institutions map[string]string `yaml:"institutions"`

	// RequiredSubfields lists the 040 subfield codes every record must
	// carry.
	RequiredSubfields []string `yaml:"required_subfields"`

	// StrictMode treats validation warnings as errors.
	StrictMode bool `yaml:"strict_mode"`

	// WorkerCount overrides the batch worker count. Zero means one
	// worker per CPU.
	WorkerCount int `yaml:"worker_count"`
}

// Default returns the Nowon district policy.
func Default() *Policy {
	return &Policy{
		Institutions: map[string]string{
			"211032": "Nowon Information Library",
			"211033": "Nowon Children's Library",
			"211034": "Nowon Youth Library",
		},
		RequiredSubfields: []string{"a", "c", "d"},
	}
}

// Load reads a policy from a YAML file. Fields absent from the file
// keep their Default values.
func Load(path string) (*Policy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}

	policy := Default()
	if err := yaml.Unmarshal(data, policy); err != nil {
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}
	if err := policy.Validate(); err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	return policy, nil
}

// Validate checks the policy for internal consistency.
func (p *Policy) Validate() error {
	if len(p.Institutions) == 0 {
		return fmt.Errorf("at least one institution code is required")
	}
	for code := range p.Institutions {
		if code == "" {
			return fmt.Errorf("institution codes cannot be empty")
		}
	}
	if len(p.RequiredSubfields) == 0 {
		return fmt.Errorf("at least one required subfield is needed")
	}
	for _, code := range p.RequiredSubfields {
		if len(code) != 1 {
			return fmt.Errorf("subfield codes must be one character, got %q", code)
		}
	}
	if p.WorkerCount < 0 {
		return fmt.Errorf("worker count cannot be negative")
	}
	return nil
}
