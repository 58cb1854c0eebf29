// Package resolver decides which concrete model backs a request for a given
// mode. Resolution is total: every input, including unknown modes and empty
// credential maps, yields a model that is usable right now.
package resolver

import (
	"strings"

	"github.com/loftylabs/lofty/internal/catalog"
)

// modeUseCases is the fixed mode-to-use-case table. Modes missing from the
// table map to themselves, which covers future modes whose names match a
// catalog use case.
var modeUseCases = map[string]string{
	"reasoning":   "reasoning",
	"math":        "math",
	"programming": "programming",
}

// Resolve returns the model ID to use for mode, given the persisted
// assignment and the current credential map.
//
// The explicit assignment wins when its model exists and is usable: either it
// needs no credential, or the named credential is non-empty after trimming.
// Anything else falls back to the head of the use case's free list, so a paid
// preference never produces a dead end.
func Resolve(mode string, assignment map[string]string, credentials map[string]string) string {
	candidate, ok := assignment[mode]
	if !ok || strings.TrimSpace(candidate) == "" {
		return fallback(mode)
	}

	// Old installs persisted short names like "claude".
	candidate = catalog.LegacyAlias(candidate)

	descriptor, ok := catalog.Get(candidate)
	if !ok {
		return fallback(mode)
	}

	if !descriptor.RequiresCredential {
		return descriptor.ID
	}
	if strings.TrimSpace(credentials[descriptor.CredentialName]) != "" {
		return descriptor.ID
	}
	return fallback(mode)
}

// UseCaseFor maps a mode to its catalog use-case tag.
func UseCaseFor(mode string) string {
	if useCase, ok := modeUseCases[mode]; ok {
		return useCase
	}
	return mode
}

func fallback(mode string) string {
	ranking, ok := catalog.RankingFor(UseCaseFor(mode))
	if !ok {
		return catalog.DefaultFreeModel
	}
	return ranking.Free[0]
}
