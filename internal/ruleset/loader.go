package ruleset

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Load reads a YAML rule set and returns it with the raw bytes.
// KnownFields(true): a misspelled threshold fails loudly instead of silently defaulting to zero.
func Load(path string) (*RuleSet, []byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("read rule set: %w", err)
	}

	rs, err := Parse(data)
	if err != nil {
		return nil, data, err
	}

	return rs, data, nil
}

// Parse decodes and validates a YAML rule set
func Parse(data []byte) (*RuleSet, error) {
	var rs RuleSet
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&rs); err != nil {
		return nil, fmt.Errorf("decode rule set: %w", err)
	}

	if err := Validate(&rs); err != nil {
		return nil, err
	}

	return &rs, nil
}

// Resolve returns the rule set at path, or the canonical built-in when path is empty
func Resolve(path string) (*RuleSet, error) {
	if path == "" {
		return Extended(), nil
	}
	rs, _, err := Load(path)
	if err != nil {
		return nil, err
	}
	return rs, nil
}

// Hash generates a SHA256 hash of the canonical JSON form
func Hash(rs *RuleSet) (string, error) {
	jsonBytes, err := json.Marshal(rs)
	if err != nil {
		return "", err
	}

	sum := sha256.Sum256(jsonBytes)
	return hex.EncodeToString(sum[:]), nil
}
