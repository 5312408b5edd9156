package world

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"buildgrid.io/internal/protocol"
)

func readState(t *testing.T, out chan []byte) protocol.StateMsg {
	t.Helper()
	select {
	case b := <-out:
		var st protocol.StateMsg
		if err := json.Unmarshal(b, &st); err != nil {
			t.Fatalf("unmarshal STATE: %v", err)
		}
		return st
	default:
		t.Fatalf("no STATE delivered")
	}
	return protocol.StateMsg{}
}

func TestStep_ReplicatesStructuresOnChange(t *testing.T) {
	w := newTestWorld(t, nil)
	out := make(chan []byte, 4)
	resp := make(chan JoinResponse, 1)
	w.StepOnce([]JoinRequest{{Name: "bot", Out: out, Resp: resp}}, nil, nil, nil)

	welcome := (<-resp).Welcome
	if welcome.ActorID != "A1" || welcome.WorldParams.CooldownMS != 100 || len(welcome.Pieces) != 4 {
		t.Fatalf("unexpected welcome: %+v", welcome)
	}
	st := readState(t, out)
	if st.Self.Materials != 100 || st.Self.Build.Active {
		t.Fatalf("unexpected initial self: %+v", st.Self)
	}

	w.StepOnce(nil, nil, []CommandEnvelope{{ActorID: "A1", Cmd: cmdMsg(1,
		protocol.CommandReq{Kind: protocol.CmdBuildMode},
		viewCmd([3]float64{0, 0, 0}, [3]float64{45, 0, 0}),
		protocol.CommandReq{Kind: protocol.CmdBuildPlace},
	)}}, nil)
	st = readState(t, out)
	if len(st.Structures) != 1 || st.Structures[0].Piece != "Wall" || st.Structures[0].Owner != "A1" {
		t.Fatalf("expected replicated wall: %+v", st.Structures)
	}
	if st.Self.Materials != 90 || !st.Self.Build.Active || st.Self.Build.CooldownUntil != 101 {
		t.Fatalf("unexpected self: %+v", st.Self)
	}
	if len(eventsOfType(st.Events, protocol.EventBuildPlace)) != 1 {
		t.Fatalf("expected BUILD_PLACE event: %+v", st.Events)
	}

	w.StepOnce(nil, nil, nil, nil)
	st = readState(t, out)
	if st.Structures != nil {
		t.Fatalf("unchanged registry should not be resent")
	}
	if len(st.Events) != 0 {
		t.Fatalf("events should be drained: %+v", st.Events)
	}
}

func TestStep_RespawnResetsSessionAndMaterials(t *testing.T) {
	w := newTestWorld(t, nil)
	w.StepOnce([]JoinRequest{{Name: "bot"}}, nil, nil, nil)
	w.StepOnce(nil, nil, []CommandEnvelope{{ActorID: "A1", Cmd: cmdMsg(1,
		protocol.CommandReq{Kind: protocol.CmdBuildMode},
		viewCmd([3]float64{0, 0, 0}, [3]float64{45, 0, 0}),
		protocol.CommandReq{Kind: protocol.CmdBuildPlace},
	)}}, nil)
	if w.ledger.Balance("A1") != 90 {
		t.Fatalf("balance=%d want 90", w.ledger.Balance("A1"))
	}

	w.StepOnce(nil, nil, []CommandEnvelope{{ActorID: "A1", Cmd: cmdMsg(2, protocol.CommandReq{Kind: protocol.CmdRespawn})}}, nil)
	s := w.sessions["A1"]
	if s.Active || s.Placed || s.Selected.Valid() {
		t.Fatalf("session not reset: %+v", s)
	}
	if w.ledger.Balance("A1") != 100 {
		t.Fatalf("balance=%d want 100 after respawn", w.ledger.Balance("A1"))
	}
	if len(w.LiveStructures()) != 1 {
		t.Fatalf("respawn must not touch structures")
	}
}

func TestStep_AdminOps(t *testing.T) {
	w := newTestWorld(t, nil)
	w.StepOnce([]JoinRequest{{Name: "bot"}}, nil, nil, nil)
	w.StepOnce(nil, nil, []CommandEnvelope{{ActorID: "A1", Cmd: cmdMsg(1,
		protocol.CommandReq{Kind: protocol.CmdBuildMode},
		viewCmd([3]float64{0, 0, 0}, [3]float64{45, 0, 0}),
		protocol.CommandReq{Kind: protocol.CmdBuildPlace},
	)}}, nil)
	id := w.LiveStructures()[0].ID

	res := w.applyAdminOp(AdminOp{Op: AdminDamage, StructureID: id, Amount: 100}, 2)
	if res.Err != "" || !res.Alive || res.Health != 50 {
		t.Fatalf("damage: %+v", res)
	}
	res = w.applyAdminOp(AdminOp{Op: AdminRemove, StructureID: id}, 2)
	if res.Err != "" || res.Alive {
		t.Fatalf("remove: %+v", res)
	}
	if res = w.applyAdminOp(AdminOp{Op: AdminRemove, StructureID: id}, 2); res.Err == "" {
		t.Fatalf("removing an unknown structure should fail")
	}

	neg := -1
	if res = w.applyAdminOp(AdminOp{Op: AdminSetBuilding, MaxStructures: &neg}, 2); res.Err == "" {
		t.Fatalf("negative max_structures should fail")
	}
	start := 30
	res = w.applyAdminOp(AdminOp{Op: AdminSetBuilding, StartMaterials: &start}, 2)
	if res.Err != "" || res.Building.StartMaterials != 30 || !res.Building.Enabled {
		t.Fatalf("set building: %+v", res)
	}
	if res = w.applyAdminOp(AdminOp{Op: "NOPE"}, 2); res.Err == "" {
		t.Fatalf("unknown op should fail")
	}
}

func TestRun_AdminRoundTrip(t *testing.T) {
	w := newTestWorld(t, nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	reqCtx, reqCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer reqCancel()
	off := false
	res, err := w.Admin(reqCtx, AdminOp{Op: AdminSetBuilding, Enabled: &off})
	if err != nil {
		t.Fatalf("Admin: %v", err)
	}
	if res.Building.Enabled {
		t.Fatalf("building should be disabled: %+v", res)
	}

	if _, err := w.Admin(reqCtx, AdminOp{Op: AdminDamage, StructureID: "S999999", Amount: 1}); err == nil {
		t.Fatalf("expected error for unknown structure")
	}

	cancel()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatalf("Run did not stop")
	}
	if m := w.Metrics(); m.Tick == 0 || m.BuildEnabled {
		t.Fatalf("unexpected metrics: %+v", m)
	}
}
