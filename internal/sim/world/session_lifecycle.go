package world

import (
	"fmt"
	"strings"

	"buildgrid.io/internal/protocol"
	"buildgrid.io/internal/sim/world/feature/session/welcome"
	"buildgrid.io/internal/sim/world/logic/geom"
)

func (w *World) buildWelcome(actorID string) protocol.WelcomeMsg {
	b := w.cfg.Building
	return welcome.Build(welcome.Input{
		ActorID:        actorID,
		WorldID:        w.cfg.ID,
		TickRateHz:     w.cfg.TickRateHz,
		PreviewRange:   b.PreviewRange,
		CooldownMS:     int(b.CooldownMS),
		BuildEnabled:   b.Enabled,
		StartMaterials: b.StartMaterials,
		MaxStructures:  b.MaxStructures,
	})
}

func (w *World) joinActor(name string, out chan []byte, nowTick uint64) JoinResponse {
	n := w.nextActorNum.Add(1)
	id := fmt.Sprintf("A%d", n)
	name = strings.TrimSpace(name)
	if name == "" {
		name = id
	}
	a := &Actor{ID: id, Name: name, Connected: true}
	w.actors[id] = a
	if out != nil {
		w.clients[id] = &clientState{Out: out}
	}
	w.spawnActor(a, n-1, nowTick)
	return JoinResponse{Welcome: w.buildWelcome(id)}
}

// spawnActor places the actor at a spawn point and runs the spawn hook: the
// build session is cleared and materials reset to the starting amount.
func (w *World) spawnActor(a *Actor, spawnIdx uint64, nowTick uint64) {
	a.Origin = geom.Vec3{}
	a.ViewAngles = geom.Vec3{}
	if w.terrain != nil {
		origin, yaw := w.terrain.Spawn(spawnIdx)
		a.Origin = origin
		a.ViewAngles = geom.Vec3{0, yaw, 0}
	}
	a.ViewHeight = DefaultViewHeight

	w.session(a.ID).reset()
	switch {
	case w.cfg.Building.Enabled:
		w.ledger.ResetOnSpawn(a.ID, w.cfg.Building.StartMaterials)
	case !w.ledger.Has(a.ID):
		w.ledger.ResetOnSpawn(a.ID, 0)
	}
}

// handleLeave drops the actor's session state. Structures it placed stay.
func (w *World) handleLeave(actorID string) {
	if a := w.actors[actorID]; a != nil {
		a.Connected = false
	}
	delete(w.actors, actorID)
	delete(w.clients, actorID)
	delete(w.sessions, actorID)
	w.ledger.Forget(actorID)
}
