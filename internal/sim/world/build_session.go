package world

import (
	"fmt"

	"buildgrid.io/internal/protocol"
	"buildgrid.io/internal/sim/catalogs"
	"buildgrid.io/internal/sim/world/logic/geom"
	"buildgrid.io/internal/sim/world/logic/rotation"
)

const (
	statusDisabled    = "Building is disabled on this server"
	statusModeOn      = "Build mode ON"
	statusModeOff     = "Build mode OFF"
	statusNoMaterials = "Not enough materials"
	statusCannotPlace = "Cannot place here"
)

func (w *World) session(actorID string) *BuildSession {
	s := w.sessions[actorID]
	if s == nil {
		s = &BuildSession{}
		w.sessions[actorID] = s
	}
	return s
}

// toggleMode flips build mode. Activation selects the first piece and clears
// the rotation. While building is disabled only the notice is sent.
func (w *World) toggleMode(a *Actor, nowTick uint64) {
	if !w.cfg.Building.Enabled {
		w.status(a, nowTick, statusDisabled)
		return
	}
	s := w.session(a.ID)
	s.Active = !s.Active
	if s.Active {
		s.Selected = catalogs.FirstPiece()
		s.Rotation = 0
		w.status(a, nowTick, statusModeOn)
		return
	}
	w.status(a, nowTick, statusModeOff)
}

func (w *World) selectType(a *Actor, t catalogs.PieceType, nowTick uint64) {
	s := w.session(a.ID)
	if !s.Active || !t.Valid() {
		return
	}
	s.Selected = t
	w.status(a, nowTick, fmt.Sprintf("Selected: %s", t))
}

func (w *World) rotate(a *Actor, nowTick uint64) {
	s := w.session(a.ID)
	if !s.Active {
		return
	}
	s.Rotation = rotation.Next(s.Rotation)
	w.status(a, nowTick, fmt.Sprintf("Rotation: %d", s.Rotation))
}

// requestPlace casts the aim ray and spawns the selected piece where it
// lands. Returns the new structure or nil.
func (w *World) requestPlace(a *Actor, nowTick uint64) *Structure {
	s := w.session(a.ID)
	if !s.Active {
		return nil
	}
	nowMS := w.nowMS(nowTick)
	if s.Placed && nowMS < s.LastPlaceMS+w.cfg.Building.CooldownMS {
		w.placeStats.record(PlaceCooldownActive)
		return nil
	}
	if !w.cfg.Building.Enabled {
		w.placeStats.record(PlaceFeatureDisabled)
		w.placeFailed(a, nowTick, PlaceFeatureDisabled)
		return nil
	}
	def := catalogs.DefinitionFor(s.Selected)
	if w.ledger.Balance(a.ID) < def.MaterialCost {
		w.placeStats.record(PlaceInsufficientMaterials)
		w.placeFailed(a, nowTick, PlaceInsufficientMaterials)
		return nil
	}

	eye := a.Eye()
	end := geom.MA(eye, w.cfg.Building.PreviewRange, geom.AngleVectors(a.ViewAngles))
	tr := w.aimTrace(eye, end, a.ID)

	st, code := w.spawnStructure(s.Selected, tr.EndPos, rotation.Yaw(s.Rotation), a.ID, nowTick)
	if st == nil {
		w.placeFailed(a, nowTick, code)
		return nil
	}
	s.LastPlaceMS = nowMS
	s.Placed = true
	return st
}

// aimTrace is a point trace against terrain and live structures.
func (w *World) aimTrace(from, to geom.Vec3, ignore string) geom.TraceResult {
	var zero geom.Vec3
	boxes := make([]geom.AABB, 0, len(w.structures))
	for _, st := range w.LiveStructures() {
		boxes = append(boxes, st.Bounds())
	}
	res := geom.TraceBoxes(from, to, zero, zero, boxes)
	if w.terrain != nil {
		res = geom.Merge(from, to, w.terrain.Trace(from, to, zero, zero, ignore), res)
	}
	return res
}

func (w *World) placeFailed(a *Actor, nowTick uint64, code PlaceCode) {
	a.AddEvent(protocol.Event{
		"t":    nowTick,
		"type": protocol.EventBuildFail,
		"code": code.ProtocolCode(),
	})
	w.status(a, nowTick, code.Status())
}

func (w *World) status(a *Actor, nowTick uint64, text string) {
	a.AddEvent(protocol.Event{
		"t":    nowTick,
		"type": protocol.EventBuildStatus,
		"text": text,
	})
}
