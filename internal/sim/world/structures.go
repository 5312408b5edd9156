package world

import (
	"fmt"
	"sort"

	"buildgrid.io/internal/protocol"
	"buildgrid.io/internal/sim/catalogs"
	"buildgrid.io/internal/sim/world/logic/geom"
)

// spawnStructure snaps origin to the piece grid, re-runs every placement
// check and, when they pass, links a new structure and debits the owner.
// Nothing is mutated on rejection.
func (w *World) spawnStructure(t catalogs.PieceType, origin, angles geom.Vec3, actorID string, nowTick uint64) (*Structure, PlaceCode) {
	def := catalogs.DefinitionFor(t)
	origin = Snap(origin, def.GridSnap)

	code := w.checkPlacement(t, origin, angles, actorID)
	if code != PlaceOK {
		w.placeStats.record(code)
		return nil, code
	}
	slot := w.allocSlot()
	if slot < 0 {
		w.logger.Printf("spawn %s at %v: no free entity slots (max_entities=%d)", def.Name, origin, len(w.slots))
		w.placeStats.record(PlaceNoFreeEntitySlots)
		return nil, PlaceNoFreeEntitySlots
	}

	nowMS := w.nowMS(nowTick)
	s := &Structure{
		ID:          w.newStructureID(),
		Num:         slot,
		Owner:       actorID,
		Type:        t,
		Origin:      origin,
		Angles:      geom.Vec3{0, angles[1], 0},
		Health:      def.Health,
		Alive:       true,
		SpawnMS:     nowMS,
		NextThinkMS: nowMS + w.cfg.Building.UpkeepIntervalMS,
	}
	if actorID != "" {
		if err := w.ledger.Debit(actorID, def.MaterialCost); err != nil {
			// checkPlacement already verified the balance.
			w.logger.Printf("spawn %s for %s: %v", def.Name, actorID, err)
			w.placeStats.record(PlaceInsufficientMaterials)
			return nil, PlaceInsufficientMaterials
		}
	}
	w.slots[slot] = s
	w.structures[s.ID] = s
	w.structuresVersion++
	w.placeStats.record(PlaceOK)

	w.broadcast(protocol.Event{
		"t":            nowTick,
		"type":         protocol.EventBuildPlace,
		"structure_id": s.ID,
		"piece":        def.Name,
		"pos":          [3]float64(s.Origin),
		"owner":        actorID,
	})
	w.auditStructure(nowTick, actorID, "BUILD_PLACE", s, "")
	return s, PlaceOK
}

// allocSlot returns the lowest free entity slot or -1.
func (w *World) allocSlot() int {
	for i, s := range w.slots {
		if s == nil {
			return i
		}
	}
	return -1
}

func (w *World) newStructureID() string {
	n := w.nextStructNum.Add(1)
	return fmt.Sprintf("S%06d", n)
}

// applyDamage reduces health; at zero or below the structure is destroyed.
func (w *World) applyDamage(s *Structure, amount int, attacker string, nowTick uint64) {
	if s == nil || !s.Alive || amount <= 0 {
		return
	}
	s.Health -= amount
	w.structuresVersion++
	if s.Health <= 0 {
		w.destroyStructure(s, attacker, nowTick)
		return
	}
	w.structurePain(s, attacker, amount)
}

// structurePain is called for non-lethal damage. Structures have no pain
// response yet.
func (w *World) structurePain(s *Structure, attacker string, amount int) {}

// destroyStructure emits the destruction signal and frees the structure.
// Destroyed is terminal.
func (w *World) destroyStructure(s *Structure, attacker string, nowTick uint64) {
	w.broadcast(protocol.Event{
		"t":            nowTick,
		"type":         protocol.EventBuildDestroy,
		"structure_id": s.ID,
		"piece":        s.Type.String(),
		"pos":          [3]float64(s.Origin),
	})
	w.auditStructure(nowTick, attacker, "BUILD_DESTROY", s, "health")
	w.freeStructure(s)
}

// removeStructure frees a structure without a destruction signal.
func (w *World) removeStructure(s *Structure, actor string, reason string, nowTick uint64) {
	if s == nil || !s.Alive {
		return
	}
	w.auditStructure(nowTick, actor, "BUILD_REMOVE", s, reason)
	w.freeStructure(s)
}

func (w *World) freeStructure(s *Structure) {
	s.Alive = false
	delete(w.structures, s.ID)
	if s.Num >= 0 && s.Num < len(w.slots) && w.slots[s.Num] == s {
		w.slots[s.Num] = nil
	}
	w.structuresVersion++
}

// LiveStructures returns the live structures ordered by entity slot.
func (w *World) LiveStructures() []*Structure {
	out := make([]*Structure, 0, len(w.structures))
	for _, s := range w.structures {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Num < out[j].Num })
	return out
}

func (w *World) broadcast(e protocol.Event) {
	for _, a := range w.actors {
		a.AddEvent(e)
	}
}
