package world

import (
	"buildgrid.io/internal/protocol"
	"buildgrid.io/internal/sim/catalogs"
	"buildgrid.io/internal/sim/world/logic/geom"
)

// PlaceCode is the reason a placement was accepted or rejected.
type PlaceCode int

const (
	PlaceOK PlaceCode = iota
	PlaceFeatureDisabled
	PlaceInvalidPieceType
	PlaceInsufficientMaterials
	PlacePopulationLimitReached
	PlaceWorldCollision
	PlaceStructureOverlap
	PlaceCooldownActive
	PlaceNoFreeEntitySlots
)

var placeCodeNames = [...]string{
	PlaceOK:                     "OK",
	PlaceFeatureDisabled:        "FEATURE_DISABLED",
	PlaceInvalidPieceType:       "INVALID_PIECE_TYPE",
	PlaceInsufficientMaterials:  "INSUFFICIENT_MATERIALS",
	PlacePopulationLimitReached: "POPULATION_LIMIT_REACHED",
	PlaceWorldCollision:         "WORLD_COLLISION",
	PlaceStructureOverlap:       "STRUCTURE_OVERLAP",
	PlaceCooldownActive:         "COOLDOWN_ACTIVE",
	PlaceNoFreeEntitySlots:      "NO_FREE_ENTITY_SLOTS",
}

func (c PlaceCode) String() string {
	if c < 0 || int(c) >= len(placeCodeNames) {
		return "UNKNOWN"
	}
	return placeCodeNames[c]
}

// ProtocolCode is the client-facing code. Everything geometric collapses into
// E_CANNOT_PLACE.
func (c PlaceCode) ProtocolCode() string {
	switch c {
	case PlaceOK:
		return ""
	case PlaceFeatureDisabled:
		return protocol.ErrBuildDisabled
	case PlaceInsufficientMaterials:
		return protocol.ErrNoMaterials
	default:
		return protocol.ErrCannotPlace
	}
}

// Status is the human-readable notification for a rejection.
func (c PlaceCode) Status() string {
	switch c {
	case PlaceOK:
		return ""
	case PlaceFeatureDisabled:
		return statusDisabled
	case PlaceInsufficientMaterials:
		return statusNoMaterials
	default:
		return statusCannotPlace
	}
}

// Snap rounds origin to the grid quantum, halves up.
func Snap(origin geom.Vec3, quantum float64) geom.Vec3 {
	return geom.Snap(origin, quantum)
}

// CanPlace snaps origin to the piece grid and reports whether a structure of
// type t could be spawned there now. actorID may be empty, which skips the
// materials check. Angles are accepted but never rotate the collision box.
func (w *World) CanPlace(t catalogs.PieceType, origin, angles geom.Vec3, actorID string) bool {
	def := catalogs.DefinitionFor(t)
	return w.checkPlacement(t, Snap(origin, def.GridSnap), angles, actorID) == PlaceOK
}

// checkPlacement runs the ordered placement checks against an already snapped
// origin and returns the first failure. It never mutates state.
func (w *World) checkPlacement(t catalogs.PieceType, origin, angles geom.Vec3, actorID string) PlaceCode {
	_ = angles

	if !w.cfg.Building.Enabled {
		return PlaceFeatureDisabled
	}
	def := catalogs.DefinitionFor(t)
	if !t.Valid() || !def.Spawnable() {
		return PlaceInvalidPieceType
	}
	if actorID != "" && w.ledger.Balance(actorID) < def.MaterialCost {
		return PlaceInsufficientMaterials
	}
	if len(w.structures) >= w.cfg.Building.MaxStructures {
		return PlacePopulationLimitReached
	}
	if w.terrain != nil {
		tr := w.terrain.Trace(origin, origin, def.Mins, def.Maxs, actorID)
		if tr.StartSolid || tr.AllSolid {
			return PlaceWorldCollision
		}
	}
	box := geom.Box(origin, def.Mins, def.Maxs)
	for _, s := range w.structures {
		if !s.Alive {
			continue
		}
		if box.Intersects(s.Bounds()) {
			return PlaceStructureOverlap
		}
	}
	return PlaceOK
}

// placementStats counts outcomes for metrics. Owned by the world loop.
type placementStats struct {
	accepted uint64
	rejected map[PlaceCode]uint64
}

func newPlacementStats() placementStats {
	return placementStats{rejected: map[PlaceCode]uint64{}}
}

func (p *placementStats) record(code PlaceCode) {
	if code == PlaceOK {
		p.accepted++
		return
	}
	p.rejected[code]++
}

func (p *placementStats) snapshot() (accepted uint64, rejected map[string]uint64) {
	rejected = make(map[string]uint64, len(p.rejected))
	for c, n := range p.rejected {
		rejected[c.String()] = n
	}
	return p.accepted, rejected
}
