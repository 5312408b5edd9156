package world

import (
	"buildgrid.io/internal/protocol"
)

func (w *World) buildState(a *Actor, cl *clientState, nowTick uint64) protocol.StateMsg {
	st := protocol.StateMsg{
		Type:              protocol.TypeState,
		ProtocolVersion:   protocol.Version,
		Tick:              nowTick,
		ActorID:           a.ID,
		Self:              w.selfState(a),
		Events:            a.TakeEvents(),
		StructuresVersion: w.structuresVersion,
	}
	if st.Events == nil {
		st.Events = []protocol.Event{}
	}
	if !cl.SentStructures || cl.StructuresVersion != w.structuresVersion {
		st.Structures = w.structureStates()
		cl.StructuresVersion = w.structuresVersion
		cl.SentStructures = true
	}
	return st
}

func (w *World) selfState(a *Actor) protocol.SelfState {
	s := w.session(a.ID)
	bs := protocol.BuildState{
		Active:   s.Active,
		Selected: s.Selected.String(),
		Rotation: s.Rotation,
	}
	if s.Placed {
		bs.LastPlaceMS = s.LastPlaceMS
		bs.CooldownUntil = s.LastPlaceMS + w.cfg.Building.CooldownMS
	}
	return protocol.SelfState{
		Origin:     [3]float64(a.Origin),
		Angles:     [3]float64(a.ViewAngles),
		ViewHeight: a.ViewHeight,
		Materials:  w.ledger.Balance(a.ID),
		Build:      bs,
	}
}

// structureStates is the replicated view of the registry, in slot order.
func (w *World) structureStates() []protocol.StructureState {
	live := w.LiveStructures()
	out := make([]protocol.StructureState, 0, len(live))
	for _, s := range live {
		out = append(out, protocol.StructureState{
			ID:     s.ID,
			Num:    s.Num,
			Piece:  s.Type.String(),
			Owner:  s.Owner,
			Origin: [3]float64(s.Origin),
			Angles: [3]float64(s.Angles),
			Health: s.Health,
		})
	}
	return out
}
