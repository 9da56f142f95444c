package commons

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"go.yaml.in/yaml/v3"

	"locatrajes/internal/config"
)

// LoadRentalPolicy reads the policy file at path. A missing file yields the
// defaults; keys absent from the file keep their default values.
func LoadRentalPolicy(path string) (config.RentalPolicy, error) {
	policy := config.DefaultRentalPolicy()
	if path == "" {
		return policy, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return policy, nil
	}
	if err != nil {
		return policy, fmt.Errorf("reading policy file: %w", err)
	}

	if err := yaml.Unmarshal(data, &policy); err != nil {
		return policy, fmt.Errorf("parsing policy file: %w", err)
	}

	if policy.BufferDays < 0 {
		return policy, fmt.Errorf("bufferDays must not be negative, got %d", policy.BufferDays)
	}
	if policy.AlertWindowDays < 0 {
		return policy, fmt.Errorf("alertWindowDays must not be negative, got %d", policy.AlertWindowDays)
	}

	return policy, nil
}
