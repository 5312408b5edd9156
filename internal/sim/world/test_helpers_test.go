package world

import (
	"testing"

	"buildgrid.io/internal/protocol"
	"buildgrid.io/internal/sim/world/logic/geom"
	"buildgrid.io/internal/sim/world/terrain/brush"
)

// newTestWorld runs at 1000 Hz so one tick is one simulated millisecond.
func newTestWorld(t *testing.T, mutate func(*WorldConfig)) *World {
	t.Helper()
	cfg := WorldConfig{
		ID:          "test",
		TickRateHz:  1000,
		MaxEntities: 64,
		Building: BuildingConfig{
			Enabled:          true,
			StartMaterials:   100,
			MaxStructures:    256,
			CooldownMS:       100,
			PreviewRange:     256,
			UpkeepIntervalMS: 1000,
		},
	}
	if mutate != nil {
		mutate(&cfg)
	}
	return New(cfg, brush.Flat())
}

func joinTestActor(t *testing.T, w *World, name string) *Actor {
	t.Helper()
	resp := w.joinActor(name, nil, w.tick.Load())
	a := w.actors[resp.Welcome.ActorID]
	if a == nil {
		t.Fatalf("join %q: actor missing", name)
	}
	return a
}

// lookDown points the actor 45 degrees down along +X from origin, so the aim
// ray lands on the ground about 26 units ahead.
func lookDown(a *Actor, origin geom.Vec3) {
	a.Origin = origin
	a.ViewAngles = geom.Vec3{45, 0, 0}
	a.ViewHeight = DefaultViewHeight
}

func eventsOfType(evs []protocol.Event, typ string) []protocol.Event {
	var out []protocol.Event
	for _, e := range evs {
		if e["type"] == typ {
			out = append(out, e)
		}
	}
	return out
}
