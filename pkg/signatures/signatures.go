/*
Package signatures defines the malware signature model and loads signature
sets from YAML files.

A signature set file looks like:

	signatures:
	  - id: 1
	    name: eval-base64
	    pattern: 'eval\s*\(\s*base64_decode'
	    severity: high
	    description: PHP eval over base64-encoded payload

The set is opaque to the scanning engine; only the matcher interprets the
patterns.
*/
package signatures

import (
	"fmt"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

// Signature is a single named detection pattern.
type Signature struct {
	// ID uniquely identifies the signature within a set
	ID int `yaml:"id" json:"id"`

	// Name is a short human-readable identifier
	Name string `yaml:"name" json:"name"`

	// Pattern is the regular expression matched against file content
	Pattern string `yaml:"pattern" json:"pattern"`

	// Severity classifies the finding (low, medium, high, critical)
	Severity string `yaml:"severity,omitempty" json:"severity,omitempty"`

	// Description explains what the signature detects
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
}

// Set is a collection of signatures supplied to a matcher factory.
type Set struct {
	Signatures []Signature `yaml:"signatures" json:"signatures"`

	byID map[int]int
}

// NewSet builds a validated Set from a slice of signatures.
func NewSet(sigs []Signature) (*Set, error) {
	s := &Set{Signatures: sigs}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Load reads and validates a signature set from a YAML file.
func Load(fs afero.Fs, path string) (*Set, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read signature file %s: %w", path, err)
	}

	var set Set
	if err := yaml.Unmarshal(data, &set); err != nil {
		return nil, fmt.Errorf("failed to parse signature file %s: %w", path, err)
	}

	if err := set.Validate(); err != nil {
		return nil, fmt.Errorf("invalid signature file %s: %w", path, err)
	}

	return &set, nil
}

// Validate checks set-level invariants and builds the id index.
func (s *Set) Validate() error {
	if len(s.Signatures) == 0 {
		return fmt.Errorf("signature set contains no signatures")
	}

	s.byID = make(map[int]int, len(s.Signatures))
	for i, sig := range s.Signatures {
		if sig.Pattern == "" {
			return fmt.Errorf("signature %d has an empty pattern", sig.ID)
		}
		if _, exists := s.byID[sig.ID]; exists {
			return fmt.Errorf("duplicate signature id %d", sig.ID)
		}
		s.byID[sig.ID] = i
	}

	return nil
}

// Get returns the signature with the given id.
func (s *Set) Get(id int) (Signature, bool) {
	if s.byID == nil {
		for _, sig := range s.Signatures {
			if sig.ID == id {
				return sig, true
			}
		}
		return Signature{}, false
	}

	i, ok := s.byID[id]
	if !ok {
		return Signature{}, false
	}
	return s.Signatures[i], true
}

// Len returns the number of signatures in the set.
func (s *Set) Len() int {
	return len(s.Signatures)
}
