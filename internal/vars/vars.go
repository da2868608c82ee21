// SPDX-License-Identifier: MPL-2.0

// Package vars resolves chorefile variables. A chorefile's vars block holds
// defaults in the spirit of Make's `TEST_PATH ?= ...`: a same-named process
// environment variable overrides the default, a TOML var-file overrides the
// environment, and an explicit --var flag wins.
package vars

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// namePattern matches valid variable names (shell identifier rules).
var namePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

type (
	// InvalidNameError is returned for variable names that are not valid
	// shell identifiers.
	InvalidNameError struct {
		Name string
	}

	// Resolution is the input to Resolve.
	Resolution struct {
		// Defaults are the chorefile's vars (lowest precedence).
		Defaults map[string]string
		// Environ is the process environment in KEY=VALUE form.
		// Only keys already declared in Defaults are considered, so
		// unrelated environment variables don't leak into the var set.
		Environ []string
		// Files are TOML var-file paths, applied in order.
		Files []string
		// Overrides are NAME=VALUE pairs from --var flags (highest precedence).
		Overrides []string
	}
)

// Error implements the error interface.
func (e *InvalidNameError) Error() string {
	return fmt.Sprintf("invalid variable name %q", e.Name)
}

// ValidName reports whether name is a valid variable name.
func ValidName(name string) bool {
	return namePattern.MatchString(name)
}

// Resolve produces the final variable map following the precedence
// documented on Resolution.
func Resolve(res Resolution) (map[string]string, error) {
	result := make(map[string]string, len(res.Defaults))

	for name, value := range res.Defaults {
		if !ValidName(name) {
			return nil, &InvalidNameError{Name: name}
		}
		result[name] = value
	}

	// Environment overrides apply only to declared variables.
	for _, entry := range res.Environ {
		name, value, ok := strings.Cut(entry, "=")
		if !ok {
			continue
		}
		if _, declared := result[name]; declared {
			result[name] = value
		}
	}

	for _, path := range res.Files {
		fileVars, err := loadVarFile(path)
		if err != nil {
			return nil, err
		}
		for name, value := range fileVars {
			result[name] = value
		}
	}

	for _, pair := range res.Overrides {
		name, value, ok := strings.Cut(pair, "=")
		if !ok {
			return nil, fmt.Errorf("invalid --var %q (expected NAME=VALUE)", pair)
		}
		if !ValidName(name) {
			return nil, &InvalidNameError{Name: name}
		}
		result[name] = value
	}

	return result, nil
}

// loadVarFile reads a TOML file of string values.
func loadVarFile(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read var file %s: %w", path, err)
	}

	var raw map[string]any
	if err := toml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse var file %s: %w", path, err)
	}

	result := make(map[string]string, len(raw))
	for name, value := range raw {
		if !ValidName(name) {
			return nil, fmt.Errorf("%s: %w", path, &InvalidNameError{Name: name})
		}
		str, ok := value.(string)
		if !ok {
			return nil, fmt.Errorf("%s: variable %q must be a string, got %T", path, name, value)
		}
		result[name] = str
	}

	return result, nil
}
