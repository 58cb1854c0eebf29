package keystore

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/loftylabs/lofty/internal/catalog"
)

const modesFileName = "model-config.json"

// DefaultModes are the modes the product exposes out of the box.
var DefaultModes = []string{"reasoning", "math", "programming"}

// LoadModes reads the plaintext mode-to-model assignment. Missing file or
// missing modes degrade to the free-list defaults for each mode's use case, so
// the result always covers every default mode.
func (s *Store) LoadModes() map[string]string {
	assignment := make(map[string]string, len(DefaultModes))

	data, err := os.ReadFile(s.modesFile)
	if err == nil {
		var stored map[string]string
		if err := json.Unmarshal(data, &stored); err == nil {
			for mode, modelID := range stored {
				assignment[mode] = modelID
			}
		}
	}

	for _, mode := range DefaultModes {
		if assignment[mode] == "" {
			assignment[mode] = catalog.DefaultForUseCase(mode, true)
		}
	}
	return assignment
}

// SaveModes writes the whole assignment as plaintext JSON.
func (s *Store) SaveModes(assignment map[string]string) error {
	data, err := json.Marshal(assignment)
	if err != nil {
		return fmt.Errorf("failed to encode mode assignment: %w", err)
	}
	if err := os.WriteFile(s.modesFile, data, 0o600); err != nil {
		return fmt.Errorf("failed to write mode assignment: %w", err)
	}
	return nil
}
