package main

import (
	"encoding/json"
	"testing"

	"buildgrid.io/internal/protocol"
	"buildgrid.io/internal/sim/world"
	"buildgrid.io/internal/sim/world/terrain/brush"
)

func TestPlanner_PlacesRowAgainstWorld(t *testing.T) {
	w := world.New(world.WorldConfig{
		ID:          "test",
		TickRateHz:  1000,
		MaxEntities: 32,
		Building: world.BuildingConfig{
			Enabled:          true,
			StartMaterials:   100,
			MaxStructures:    16,
			CooldownMS:       100,
			PreviewRange:     256,
			UpkeepIntervalMS: 1000,
		},
	}, brush.Flat())

	out := make(chan []byte, 4)
	resp := make(chan world.JoinResponse, 1)
	w.StepOnce([]world.JoinRequest{{Name: "bot", Out: out, Resp: resp}}, nil, nil, nil)
	actorID := (<-resp).Welcome.ActorID

	p := &planner{Piece: "wall", Count: 3, Spacing: 128, Every: 150}
	var last protocol.StateMsg
	for i := 0; i < 2000 && !p.Done(); i++ {
		var st protocol.StateMsg
		if err := json.Unmarshal(<-out, &st); err != nil {
			t.Fatalf("decode STATE: %v", err)
		}
		last = st
		var cmds []world.CommandEnvelope
		if cmd := p.Next(st); cmd != nil {
			cmds = []world.CommandEnvelope{{ActorID: actorID, Cmd: *cmd}}
		}
		w.StepOnce(nil, nil, cmds, nil)
	}
	if !p.Done() {
		t.Fatalf("planner never finished: %+v", p)
	}
	if p.placed != 3 || p.failed != 0 {
		t.Fatalf("placed=%d failed=%d", p.placed, p.failed)
	}
	if last.Self.Materials != 70 || !last.Self.Build.Active || last.Self.Build.Selected != "Wall" {
		t.Fatalf("unexpected self: %+v", last.Self)
	}
	if n := len(w.LiveStructures()); n != 3 {
		t.Fatalf("live=%d want 3", n)
	}
}

func TestPlanner_WaitsBetweenAttempts(t *testing.T) {
	p := &planner{Piece: "floor", Count: 2, Spacing: 64, Every: 5}
	st := protocol.StateMsg{Tick: 10, ActorID: "A1"}

	first := p.Next(st)
	if first == nil || len(first.Commands) != 2 || first.Commands[0].Kind != protocol.CmdBuildMode || first.Commands[1].Piece != "floor" {
		t.Fatalf("first command should enter build mode: %+v", first)
	}
	st.Tick = 12
	if c := p.Next(st); c != nil {
		t.Fatalf("expected wait, got %+v", c)
	}
	st.Tick = 15
	c := p.Next(st)
	if c == nil || c.Commands[1].Kind != protocol.CmdBuildPlace || (*c.Commands[0].Origin)[0] != 0 {
		t.Fatalf("expected first placement at x=0: %+v", c)
	}
	st.Tick = 20
	c = p.Next(st)
	if c == nil || (*c.Commands[0].Origin)[0] != 64 {
		t.Fatalf("expected second placement at x=64: %+v", c)
	}
	if p.Done() {
		t.Fatalf("done before the last result window elapsed")
	}
	st.Tick = 25
	if c := p.Next(st); c != nil || !p.Done() {
		t.Fatalf("expected done, cmd=%+v", c)
	}
}
