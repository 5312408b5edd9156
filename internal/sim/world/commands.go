package world

import (
	"buildgrid.io/internal/protocol"
	"buildgrid.io/internal/sim/catalogs"
)

// applyCmd runs one CMD message. Commands are applied in order.
func (w *World) applyCmd(a *Actor, cmd protocol.CmdMsg, nowTick uint64) {
	for _, c := range cmd.Commands {
		w.applyCommand(a, c, nowTick)
	}
}

func (w *World) applyCommand(a *Actor, c protocol.CommandReq, nowTick uint64) {
	switch c.Kind {
	case protocol.CmdView:
		if c.Origin != nil {
			a.Origin = *c.Origin
		}
		if c.Angles != nil {
			a.ViewAngles = *c.Angles
		}
		if c.ViewHeight != nil {
			a.ViewHeight = *c.ViewHeight
		}
	case protocol.CmdBuildMode:
		w.toggleMode(a, nowTick)
	case protocol.CmdBuildSelect:
		w.selectType(a, catalogs.ParsePieceType(c.Piece), nowTick)
	case protocol.CmdBuildRotate:
		w.rotate(a, nowTick)
	case protocol.CmdBuildPlace:
		w.requestPlace(a, nowTick)
	case protocol.CmdRespawn:
		w.spawnActor(a, w.nextActorNum.Load()+nowTick, nowTick)
	default:
		a.AddEvent(protocol.Event{
			"t":       nowTick,
			"type":    protocol.TypeError,
			"code":    protocol.ErrBadRequest,
			"message": "unknown command kind: " + c.Kind,
		})
	}
}
