package tuning

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Tuning struct {
	// Debug disables the per-guide placement context cache so every call
	// re-runs the search.
	Debug           bool `yaml:"debug"`
	RevalidateCache bool `yaml:"revalidate_cache"`

	RetryBudget      int `yaml:"retry_budget"`
	MaxTicks         int `yaml:"max_ticks"`
	PositionsPerTick int `yaml:"positions_per_tick"`
}

func Defaults() Tuning {
	return Tuning{
		RevalidateCache:  true,
		RetryBudget:      3,
		MaxTicks:         200,
		PositionsPerTick: 1,
	}
}

// Load reads a YAML file on top of Defaults. Keys absent from the file keep
// their default values.
func Load(path string) (Tuning, error) {
	t := Defaults()
	raw, err := os.ReadFile(path)
	if err != nil {
		return t, err
	}
	if err := yaml.Unmarshal(raw, &t); err != nil {
		return t, fmt.Errorf("printer.yaml: %w", err)
	}
	if t.RetryBudget <= 0 {
		return t, fmt.Errorf("printer.yaml: retry_budget must be > 0")
	}
	if t.PositionsPerTick <= 0 {
		t.PositionsPerTick = 1
	}
	return t, nil
}
