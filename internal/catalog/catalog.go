package catalog

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultFreeModel is the global fallback when a use case has no ranking entry.
	DefaultFreeModel = "deepseek-v3"
	// DefaultPaidModel is the paid counterpart of the global fallback.
	DefaultPaidModel = "claude-3.5-sonnet"
)

// Filter selects a subset of the catalog in List.
type Filter int

const (
	FilterNone Filter = iota
	FilterPaidOnly
	FilterFreeOnly
)

// Descriptor is the static metadata record for one LLM backend option.
type Descriptor struct {
	ID                 string   `yaml:"id" json:"id"`
	DisplayName        string   `yaml:"display_name" json:"display_name"`
	Provider           string   `yaml:"provider" json:"provider"`
	CredentialName     string   `yaml:"credential_name" json:"credential_name,omitempty"`
	APIEnvName         string   `yaml:"api_env_name" json:"api_env_name,omitempty"`
	RequiresCredential bool     `yaml:"requires_credential" json:"requires_credential"`
	IsPaid             bool     `yaml:"paid" json:"paid"`
	Endpoint           string   `yaml:"endpoint" json:"endpoint,omitempty"`
	RecommendedFor     []string `yaml:"recommended_for" json:"recommended_for,omitempty"`
	Description        string   `yaml:"description" json:"description,omitempty"`
}

// Ranking holds the best-first model lists for one use case.
type Ranking struct {
	Paid []string
	Free []string
}

type fileConfig struct {
	Models   []Descriptor `yaml:"models"`
	Disabled []string     `yaml:"disabled"`
}

var (
	stateMu      sync.RWMutex
	initialized  bool
	descriptorBy map[string]Descriptor
	idList       []string
	rankings     map[string]Ranking
)

// Init loads the built-in catalog, applies the optional extension file, and
// validates the ranking invariants. An invariant violation is a configuration
// error and must be treated as fatal by the caller.
func Init() error {
	descriptors, disabled, loadErr := loadDescriptors()
	if loadErr != nil {
		return loadErr
	}

	ranked := builtinRankings()
	for useCase, r := range ranked {
		ranked[useCase] = Ranking{
			Paid: pruneIDs(r.Paid, disabled),
			Free: pruneIDs(r.Free, disabled),
		}
	}

	if err := validate(descriptors, ranked); err != nil {
		return err
	}

	stateMu.Lock()
	defer stateMu.Unlock()

	descriptorBy = descriptors
	rankings = ranked
	idList = idList[:0]
	for id := range descriptors {
		idList = append(idList, id)
	}
	sort.Strings(idList)
	initialized = true
	return nil
}

func ensureInitialized() {
	stateMu.RLock()
	ok := initialized
	stateMu.RUnlock()
	if ok {
		return
	}
	_ = Init()
}

// ResetForTest resets in-memory state so tests can force reload.
func ResetForTest() {
	stateMu.Lock()
	defer stateMu.Unlock()
	initialized = false
	descriptorBy = nil
	idList = nil
	rankings = nil
}

// Get returns a descriptor by model ID.
func Get(id string) (Descriptor, bool) {
	ensureInitialized()

	stateMu.RLock()
	defer stateMu.RUnlock()

	d, ok := descriptorBy[normalizeID(id)]
	if !ok {
		return Descriptor{}, false
	}
	d.RecommendedFor = append([]string(nil), d.RecommendedFor...)
	return d, true
}

// List returns descriptors matching the filter, ordered by ID.
func List(filter Filter) []Descriptor {
	ensureInitialized()

	stateMu.RLock()
	defer stateMu.RUnlock()

	result := make([]Descriptor, 0, len(idList))
	for _, id := range idList {
		d, ok := descriptorBy[id]
		if !ok {
			continue
		}
		if filter == FilterPaidOnly && !d.IsPaid {
			continue
		}
		if filter == FilterFreeOnly && d.IsPaid {
			continue
		}
		d.RecommendedFor = append([]string(nil), d.RecommendedFor...)
		result = append(result, d)
	}
	return result
}

// RankingFor returns the paid/free ranking lists for a use case.
func RankingFor(useCase string) (Ranking, bool) {
	ensureInitialized()

	stateMu.RLock()
	defer stateMu.RUnlock()

	r, ok := rankings[normalizeID(useCase)]
	if !ok {
		return Ranking{}, false
	}
	return Ranking{
		Paid: append([]string(nil), r.Paid...),
		Free: append([]string(nil), r.Free...),
	}, true
}

// UseCases returns all known use-case tags, sorted.
func UseCases() []string {
	ensureInitialized()

	stateMu.RLock()
	defer stateMu.RUnlock()

	tags := make([]string, 0, len(rankings))
	for tag := range rankings {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}

// DefaultForUseCase returns the best model for a use case. Unknown use cases
// fall back to the global default so the result is always a valid model ID.
func DefaultForUseCase(useCase string, preferFree bool) string {
	r, ok := RankingFor(useCase)
	if !ok {
		if preferFree {
			return DefaultFreeModel
		}
		return DefaultPaidModel
	}
	if preferFree {
		return r.Free[0]
	}
	if len(r.Paid) == 0 {
		return r.Free[0]
	}
	return r.Paid[0]
}

// LegacyAlias maps historical short model names to current catalog IDs.
// Unknown names pass through unchanged.
func LegacyAlias(name string) string {
	switch normalizeID(name) {
	case "claude":
		return "claude-3.5-sonnet"
	case "gpt":
		return "gpt-4-turbo"
	case "gemini":
		return "gemini-2-pro"
	default:
		return name
	}
}

func loadDescriptors() (map[string]Descriptor, map[string]bool, error) {
	descriptors := make(map[string]Descriptor)
	for _, d := range builtinModels() {
		descriptors[d.ID] = d
	}

	cfg, err := loadExtensionFile()
	if err != nil {
		return nil, nil, err
	}

	for _, d := range cfg.Models {
		id := normalizeID(d.ID)
		if id == "" {
			continue
		}
		d.ID = id
		if d.DisplayName == "" {
			d.DisplayName = id
		}
		if d.RequiresCredential && strings.TrimSpace(d.CredentialName) == "" {
			return nil, nil, fmt.Errorf("extension model %q requires a credential but names none", id)
		}
		descriptors[id] = d
	}

	disabled := make(map[string]bool, len(cfg.Disabled))
	for _, id := range cfg.Disabled {
		id = normalizeID(id)
		if id == "" {
			continue
		}
		disabled[id] = true
		delete(descriptors, id)
	}

	return descriptors, disabled, nil
}

func loadExtensionFile() (fileConfig, error) {
	path, err := resolveExtensionPath()
	if err != nil {
		return fileConfig{}, err
	}
	if path == "" {
		return fileConfig{}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fileConfig{}, fmt.Errorf("failed to read model extension file %q: %w", path, err)
	}

	var cfg fileConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return fileConfig{}, fmt.Errorf("failed to parse model extension file %q: %w", path, err)
	}
	return cfg, nil
}

func resolveExtensionPath() (string, error) {
	if explicit := strings.TrimSpace(os.Getenv("LOFTY_MODELS_FILE")); explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", err
		}
		return explicit, nil
	}

	var candidates []string
	if homeDir, err := os.UserHomeDir(); err == nil && homeDir != "" {
		candidates = append(candidates,
			filepath.Join(homeDir, ".lofty", "models.yaml"),
			filepath.Join(homeDir, ".config", "lofty", "models.yaml"),
		)
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}
	return "", nil
}

func validate(descriptors map[string]Descriptor, ranked map[string]Ranking) error {
	for useCase, r := range ranked {
		if len(r.Free) == 0 {
			return fmt.Errorf("use case %q has no free models after applying disabled list", useCase)
		}
		for _, id := range append(append([]string(nil), r.Paid...), r.Free...) {
			if _, ok := descriptors[id]; !ok {
				return fmt.Errorf("use case %q ranks unknown model %q", useCase, id)
			}
		}
	}
	if _, ok := descriptors[DefaultFreeModel]; !ok {
		return fmt.Errorf("global default free model %q missing from catalog", DefaultFreeModel)
	}
	return nil
}

func pruneIDs(ids []string, disabled map[string]bool) []string {
	result := make([]string, 0, len(ids))
	for _, id := range ids {
		if disabled[id] {
			continue
		}
		result = append(result, id)
	}
	return result
}

func normalizeID(id string) string {
	return strings.ToLower(strings.TrimSpace(id))
}
