package brush

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"buildgrid.io/internal/sim/world/logic/geom"
)

// floorDepth is how far below floor_z the implicit ground slab extends.
const floorDepth = 65536

type Config struct {
	Name    string      `yaml:"name"`
	FloorZ  *float64    `yaml:"floor_z,omitempty"`
	HalfExt float64     `yaml:"half_extent"`
	Brushes []BrushSpec `yaml:"brushes"`
	Spawns  []SpawnSpec `yaml:"spawns"`
}

type BrushSpec struct {
	Name string     `yaml:"name"`
	Min  [3]float64 `yaml:"min"`
	Max  [3]float64 `yaml:"max"`
}

type SpawnSpec struct {
	Origin [3]float64 `yaml:"origin"`
	Yaw    float64    `yaml:"yaw"`
}

// Map is static world geometry: a set of solid axis-aligned brushes. It
// implements the world collision query used by placement.
type Map struct {
	name   string
	solids []geom.AABB
	spawns []SpawnSpec
}

func Load(path string) (*Map, error) {
	cfg := defaults()
	if strings.TrimSpace(path) != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return nil, fmt.Errorf("map.yaml: %w", err)
		}
	}
	m, err := New(cfg)
	if err != nil {
		return nil, fmt.Errorf("map.yaml: %w", err)
	}
	return m, nil
}

func defaults() Config {
	z := 0.0
	return Config{
		Name:    "flat",
		FloorZ:  &z,
		HalfExt: 4096,
		Spawns:  []SpawnSpec{{Origin: [3]float64{0, 0, 0}}},
	}
}

// Flat returns the default map: an empty ground plane at z=0.
func Flat() *Map {
	m, _ := New(defaults())
	return m
}

func New(cfg Config) (*Map, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	m := &Map{name: cfg.Name, spawns: append([]SpawnSpec(nil), cfg.Spawns...)}
	if cfg.FloorZ != nil {
		h := cfg.HalfExt
		if h <= 0 {
			h = 4096
		}
		z := *cfg.FloorZ
		m.solids = append(m.solids, geom.AABB{
			Min: geom.Vec3{-h, -h, z - floorDepth},
			Max: geom.Vec3{h, h, z},
		})
	}
	for _, b := range cfg.Brushes {
		m.solids = append(m.solids, geom.AABB{Min: b.Min, Max: b.Max})
	}
	if len(m.spawns) == 0 {
		m.spawns = []SpawnSpec{{}}
	}
	return m, nil
}

func (c Config) Validate() error {
	for i, b := range c.Brushes {
		for a := 0; a < 3; a++ {
			if b.Min[a] >= b.Max[a] {
				return fmt.Errorf("brush %d (%s): min >= max on axis %d", i, b.Name, a)
			}
		}
	}
	return nil
}

func (m *Map) Name() string { return m.name }

// Trace sweeps the box (mins,maxs) from->to against the map. Static geometry
// has no owner, so ignore is unused here.
func (m *Map) Trace(from, to, mins, maxs geom.Vec3, ignore string) geom.TraceResult {
	return geom.TraceBoxes(from, to, mins, maxs, m.solids)
}

// Spawn returns the n-th spawn point, cycling through the configured list.
func (m *Map) Spawn(n uint64) (origin geom.Vec3, yaw float64) {
	s := m.spawns[int(n%uint64(len(m.spawns)))]
	return s.Origin, s.Yaw
}
