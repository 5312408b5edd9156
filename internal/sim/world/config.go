package world

import "buildgrid.io/internal/sim/tuning"

type WorldConfig struct {
	ID         string
	TickRateHz int

	// MaxEntities is the size of the entity slot pool structures draw from.
	MaxEntities int

	Building BuildingConfig
}

// BuildingConfig holds the administrative building settings. Enabled,
// StartMaterials and MaxStructures can be changed at runtime through the
// admin endpoint; the rest are fixed at startup.
type BuildingConfig struct {
	Enabled        bool `json:"enabled"`
	StartMaterials int  `json:"start_materials"`
	MaxStructures  int  `json:"max_structures"`

	CooldownMS       int64   `json:"cooldown_ms"`
	PreviewRange     float64 `json:"preview_range"`
	UpkeepIntervalMS int64   `json:"upkeep_interval_ms"`
}

func ConfigFromTuning(id string, t tuning.Tuning) WorldConfig {
	return WorldConfig{
		ID:          id,
		TickRateHz:  t.TickRateHz,
		MaxEntities: t.MaxEntities,
		Building: BuildingConfig{
			Enabled:          t.Building.Enabled,
			StartMaterials:   t.Building.StartMaterials,
			MaxStructures:    t.Building.MaxStructures,
			CooldownMS:       int64(t.Building.CooldownMS),
			PreviewRange:     t.Building.PreviewRange,
			UpkeepIntervalMS: int64(t.Building.UpkeepIntervalMS),
		},
	}
}

func (c *WorldConfig) applyDefaults() {
	d := ConfigFromTuning(c.ID, tuning.Defaults())
	if c.TickRateHz <= 0 {
		c.TickRateHz = d.TickRateHz
	}
	if c.MaxEntities <= 0 {
		c.MaxEntities = d.MaxEntities
	}
	if c.Building.CooldownMS < 0 {
		c.Building.CooldownMS = 0
	}
	if c.Building.PreviewRange <= 0 {
		c.Building.PreviewRange = d.Building.PreviewRange
	}
	if c.Building.UpkeepIntervalMS <= 0 {
		c.Building.UpkeepIntervalMS = d.Building.UpkeepIntervalMS
	}
	if c.Building.StartMaterials < 0 {
		c.Building.StartMaterials = 0
	}
	if c.Building.MaxStructures < 0 {
		c.Building.MaxStructures = 0
	}
}

// tickMS is the simulated length of one tick.
func (c WorldConfig) tickMS() int64 {
	if c.TickRateHz <= 0 {
		return 0
	}
	return int64(1000 / c.TickRateHz)
}
