package location

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config represents the optional locator.yaml configuration.
type Config struct {
	// Accuracy is a preset name (navigation, best, ten_meters, hundred_meters,
	// kilometer, three_kilometers) or a plain number of meters.
	Accuracy string `yaml:"accuracy,omitempty"`
	// Scope is the default authorization scope: when_in_use or always.
	Scope string `yaml:"scope,omitempty"`
}

var accuracyPresets = map[string]Accuracy{
	"navigation":       AccuracyForNavigation,
	"best":             AccuracyBest,
	"ten_meters":       AccuracyTenMeters,
	"hundred_meters":   AccuracyHundredMeters,
	"kilometer":        AccuracyKilometer,
	"three_kilometers": AccuracyThreeKilometers,
}

// LoadOptional reads locator.yaml from dir if present.
// A missing file is not an error; it yields a zero Config.
func LoadOptional(dir string) (*Config, error) {
	path := filepath.Join(dir, "locator.yaml")
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("failed to read locator.yaml: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse locator.yaml: %w", err)
	}

	return &cfg, nil
}

// Options resolves the config into dealer options. Unset keys contribute
// nothing, leaving the dealer defaults in place.
func (c *Config) Options() ([]Option, error) {
	var opts []Option

	if name := strings.TrimSpace(c.Accuracy); name != "" {
		accuracy, ok := accuracyPresets[name]
		if !ok {
			meters, err := strconv.ParseFloat(name, 64)
			if err != nil {
				return nil, fmt.Errorf("unknown accuracy %q", name)
			}
			accuracy = Accuracy(meters)
		}
		opts = append(opts, WithDefaultAccuracy(accuracy))
	}

	if scope := strings.TrimSpace(c.Scope); scope != "" {
		switch Scope(scope) {
		case ScopeWhenInUse, ScopeAlways:
			opts = append(opts, WithDefaultScope(Scope(scope)))
		default:
			return nil, fmt.Errorf("unknown scope %q", scope)
		}
	}

	return opts, nil
}
