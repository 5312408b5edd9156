package world

import (
	"encoding/json"
	"time"
)

func (w *World) stepInternal(joins []JoinRequest, leaves []string, cmds []CommandEnvelope, admin []adminReq) {
	stepStart := time.Now()
	nowTick := w.tick.Load()

	// Apply leaves and joins deterministically at tick boundary.
	recordedLeaves := make([]string, 0, len(leaves))
	for _, id := range leaves {
		if _, ok := w.actors[id]; ok {
			w.handleLeave(id)
			recordedLeaves = append(recordedLeaves, id)
		}
	}
	recordedJoins := make([]RecordedJoin, 0, len(joins))
	for _, req := range joins {
		resp := w.joinActor(req.Name, req.Out, nowTick)
		if req.Resp != nil {
			req.Resp <- resp
		}
		recordedJoins = append(recordedJoins, RecordedJoin{ActorID: resp.Welcome.ActorID, Name: req.Name})
	}

	// Admin changes land before commands so the whole tick sees them.
	recordedAdmin := make([]AdminOp, 0, len(admin))
	for _, req := range admin {
		res := w.applyAdminOp(req.Op, nowTick)
		if res.Err == "" {
			recordedAdmin = append(recordedAdmin, req.Op)
		}
		if req.Resp != nil {
			select {
			case req.Resp <- res:
			default:
				// Caller timed out; don't block the sim loop.
			}
		}
	}

	// Apply commands in inbox order.
	recorded := make([]RecordedCommand, 0, len(cmds))
	for _, env := range cmds {
		a := w.actors[env.ActorID]
		if a == nil {
			continue
		}
		env.Cmd.ActorID = env.ActorID // trust session identity
		recorded = append(recorded, RecordedCommand{ActorID: env.ActorID, Cmd: env.Cmd})
		w.applyCmd(a, env.Cmd, nowTick)
	}

	w.systemUpkeep(nowTick)

	// Build + send STATE for each actor.
	for id, a := range w.actors {
		cl := w.clients[id]
		if cl == nil {
			a.TakeEvents()
			continue
		}
		st := w.buildState(a, cl, nowTick)
		b, err := json.Marshal(st)
		if err != nil {
			continue
		}
		sendLatest(cl.Out, b)
	}

	digest := w.stateDigest(nowTick)
	if w.tickLogger != nil {
		_ = w.tickLogger.WriteTick(TickLogEntry{
			Tick:     nowTick,
			Joins:    recordedJoins,
			Leaves:   recordedLeaves,
			Commands: recorded,
			Admin:    recordedAdmin,
			Digest:   digest,
		})
	}

	stepMS := float64(time.Since(stepStart).Microseconds()) / 1000.0
	nextTick := w.tick.Add(1)

	accepted, rejected := w.placeStats.snapshot()
	w.metrics.Store(WorldMetrics{
		Tick:           nextTick,
		Actors:         len(w.actors),
		Clients:        len(w.clients),
		LiveStructures: len(w.structures),
		MaxStructures:  w.cfg.Building.MaxStructures,
		FreeSlots:      len(w.slots) - len(w.structures),
		BuildEnabled:   w.cfg.Building.Enabled,
		Building:       w.cfg.Building,
		QueueDepths: QueueDepths{
			Inbox: len(w.inbox),
			Join:  len(w.join),
			Leave: len(w.leave),
			Admin: len(w.admin),
		},
		StepMS:        stepMS,
		PlaceAccepted: accepted,
		PlaceRejected: rejected,
	})
}
