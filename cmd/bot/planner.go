package main

import "buildgrid.io/internal/protocol"

// planner walks along +X placing one piece every Spacing units. It enters
// build mode on the first STATE and is done one slot after the last attempt,
// which leaves time for its BUILD_PLACE or BUILD_FAIL event to arrive.
type planner struct {
	Piece   string
	Count   int
	Spacing float64
	Every   uint64

	start    [3]float64
	started  bool
	attempts int
	lastTick uint64
	seenTick uint64

	placed int
	failed int
}

func (p *planner) Done() bool {
	return p.started && p.attempts >= p.Count && p.seenTick >= p.lastTick+p.Every
}

func (p *planner) Next(st protocol.StateMsg) *protocol.CmdMsg {
	for _, ev := range st.Events {
		switch ev["type"] {
		case protocol.EventBuildPlace:
			if ev["owner"] == st.ActorID {
				p.placed++
			}
		case protocol.EventBuildFail:
			p.failed++
		}
	}
	p.seenTick = st.Tick

	if !p.started {
		p.started = true
		p.start = st.Self.Origin
		p.lastTick = st.Tick
		return p.cmd(st,
			protocol.CommandReq{Kind: protocol.CmdBuildMode},
			protocol.CommandReq{Kind: protocol.CmdBuildSelect, Piece: p.Piece},
		)
	}
	if p.attempts >= p.Count || st.Tick < p.lastTick+p.Every {
		return nil
	}
	p.lastTick = st.Tick

	origin := p.start
	origin[0] += float64(p.attempts) * p.Spacing
	angles := [3]float64{45, 0, 0}
	p.attempts++
	return p.cmd(st,
		protocol.CommandReq{Kind: protocol.CmdView, Origin: &origin, Angles: &angles},
		protocol.CommandReq{Kind: protocol.CmdBuildPlace},
	)
}

func (p *planner) cmd(st protocol.StateMsg, reqs ...protocol.CommandReq) *protocol.CmdMsg {
	return &protocol.CmdMsg{
		Type:            protocol.TypeCmd,
		ProtocolVersion: protocol.Version,
		Tick:            st.Tick,
		ActorID:         st.ActorID,
		Commands:        reqs,
	}
}
