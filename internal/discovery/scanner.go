// Package discovery scans the local machine for API keys other AI tools have
// already configured, so the key store can be seeded without retyping them.
package discovery

import (
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ScanResult holds the result of scanning all sources
type ScanResult struct {
	Findings []Finding   `json:"findings"`
	Errors   []ScanError `json:"errors,omitempty"`
}

// ScanError represents an error encountered during scanning
type ScanError struct {
	Source string `json:"source"`
	Path   string `json:"path"`
	Error  string `json:"error"`
}

// ScanAll scans the environment and all known config sources. Earlier
// findings win per provider: environment beats files, files scan in Sources
// order.
func ScanAll() *ScanResult {
	result := &ScanResult{
		Findings: make([]Finding, 0),
		Errors:   make([]ScanError, 0),
	}

	seen := make(map[string]bool)
	for _, f := range scanEnv() {
		if !seen[f.Provider] {
			seen[f.Provider] = true
			result.Findings = append(result.Findings, f)
		}
	}

	for _, source := range Sources {
		findings, errs := scanSource(source)
		result.Errors = append(result.Errors, errs...)
		for _, f := range findings {
			if !seen[f.Provider] {
				seen[f.Provider] = true
				result.Findings = append(result.Findings, f)
			}
		}
	}

	log.Printf("🔍 Discovery: Found keys for %d providers from %d sources", len(result.Findings), len(Sources)+1)
	return result
}

// scanEnv checks the well-known environment variables, in deterministic
// provider order.
func scanEnv() []Finding {
	providers := make([]string, 0, len(envSources))
	for provider := range envSources {
		providers = append(providers, provider)
	}
	sort.Strings(providers)

	var findings []Finding
	for _, provider := range providers {
		for _, name := range envSources[provider] {
			if value := strings.TrimSpace(os.Getenv(name)); value != "" {
				findings = append(findings, Finding{Provider: provider, Key: value, Source: "env:" + name})
				break
			}
		}
	}
	return findings
}

// scanSource scans a single config source.
func scanSource(source Source) ([]Finding, []ScanError) {
	var findings []Finding
	var errors []ScanError

	for _, pathPattern := range source.ConfigPaths {
		expanded := expandPath(pathPattern)

		matches, err := filepath.Glob(expanded)
		if err != nil {
			errors = append(errors, ScanError{
				Source: source.Name,
				Path:   expanded,
				Error:  "Glob error: " + err.Error(),
			})
			continue
		}

		for _, path := range matches {
			found, err := source.Parser(path)
			if err != nil {
				errors = append(errors, ScanError{
					Source: source.Name,
					Path:   path,
					Error:  err.Error(),
				})
				continue
			}
			if len(found) > 0 {
				log.Printf("🔍 Found keys from %s: %s", source.Name, path)
				findings = append(findings, found...)
			}
		}
	}

	return findings, errors
}

// MaskKey returns a masked version of a key for display
func MaskKey(key string) string {
	if len(key) <= 8 {
		return "***"
	}
	return key[:4] + "..." + key[len(key)-4:]
}

// MaskFinding returns a copy of the finding with the key masked
func MaskFinding(f Finding) Finding {
	masked := f
	masked.Key = MaskKey(f.Key)
	return masked
}
