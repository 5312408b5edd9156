package tuning

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Tuning struct {
	ProtocolVersion string `yaml:"protocol_version" json:"protocol_version"`

	TickRateHz int `yaml:"tick_rate_hz" json:"tick_rate_hz"`

	// MaxEntities bounds the entity slots structures are allocated from.
	MaxEntities int `yaml:"max_entities" json:"max_entities"`

	Building Building `yaml:"building" json:"building"`

	RateLimits RateLimits `yaml:"rate_limits" json:"rate_limits"`
}

type Building struct {
	Enabled          bool    `yaml:"enabled" json:"enabled"`
	StartMaterials   int     `yaml:"start_materials" json:"start_materials"`
	MaxStructures    int     `yaml:"max_structures" json:"max_structures"`
	CooldownMS       int     `yaml:"cooldown_ms" json:"cooldown_ms"`
	PreviewRange     float64 `yaml:"preview_range" json:"preview_range"`
	UpkeepIntervalMS int     `yaml:"upkeep_interval_ms" json:"upkeep_interval_ms"`
}

// RateLimits throttles raw client traffic in the transport, ahead of the
// in-sim placement cooldown.
type RateLimits struct {
	CommandsPerSecond float64 `yaml:"commands_per_second" json:"commands_per_second"`
	CommandBurst      int     `yaml:"command_burst" json:"command_burst"`
}

func Defaults() Tuning {
	return Tuning{
		ProtocolVersion: "1.0",
		TickRateHz:      20,
		MaxEntities:     1024,
		Building: Building{
			Enabled:          true,
			StartMaterials:   100,
			MaxStructures:    256,
			CooldownMS:       100,
			PreviewRange:     256,
			UpkeepIntervalMS: 1000,
		},
		RateLimits: RateLimits{
			CommandsPerSecond: 30,
			CommandBurst:      60,
		},
	}
}

// Load reads path on top of Defaults, so a tuning file only needs the keys it
// overrides.
func Load(path string) (Tuning, error) {
	t := Defaults()
	raw, err := os.ReadFile(path)
	if err != nil {
		return t, err
	}
	if err := yaml.Unmarshal(raw, &t); err != nil {
		return t, fmt.Errorf("tuning.yaml: %w", err)
	}
	if err := t.Validate(); err != nil {
		return t, fmt.Errorf("tuning.yaml: %w", err)
	}
	return t, nil
}

func (t Tuning) Validate() error {
	var errs []error
	if t.TickRateHz <= 0 || t.TickRateHz > 1000 {
		errs = append(errs, fmt.Errorf("tick_rate_hz out of range: %d", t.TickRateHz))
	}
	if t.MaxEntities <= 0 {
		errs = append(errs, fmt.Errorf("max_entities must be positive: %d", t.MaxEntities))
	}
	b := t.Building
	if b.StartMaterials < 0 {
		errs = append(errs, fmt.Errorf("building.start_materials must be >= 0: %d", b.StartMaterials))
	}
	if b.MaxStructures < 0 {
		errs = append(errs, fmt.Errorf("building.max_structures must be >= 0: %d", b.MaxStructures))
	}
	if b.CooldownMS < 0 {
		errs = append(errs, fmt.Errorf("building.cooldown_ms must be >= 0: %d", b.CooldownMS))
	}
	if b.PreviewRange <= 0 {
		errs = append(errs, fmt.Errorf("building.preview_range must be positive: %v", b.PreviewRange))
	}
	if b.UpkeepIntervalMS <= 0 {
		errs = append(errs, fmt.Errorf("building.upkeep_interval_ms must be positive: %d", b.UpkeepIntervalMS))
	}
	return errors.Join(errs...)
}

// TickDurationMS is the simulated time one tick advances the clock by.
func (t Tuning) TickDurationMS() int64 {
	if t.TickRateHz <= 0 {
		return 0
	}
	return int64(1000 / t.TickRateHz)
}
