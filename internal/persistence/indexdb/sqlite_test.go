package indexdb

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"buildgrid.io/internal/protocol"
	"buildgrid.io/internal/sim/tuning"
	"buildgrid.io/internal/sim/world"
)

func TestSQLiteIndex_TicksAndAudits(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index.sqlite")
	idx, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	if err := idx.UpsertCatalogs(tuning.Defaults()); err != nil {
		t.Fatalf("UpsertCatalogs: %v", err)
	}

	_ = idx.WriteTick(world.TickLogEntry{
		Tick:   7,
		Digest: "abc",
		Joins:  []world.RecordedJoin{{ActorID: "A1", Name: "bot"}},
		Commands: []world.RecordedCommand{{
			ActorID: "A1",
			Cmd:     protocol.CmdMsg{Type: protocol.TypeCmd, Commands: []protocol.CommandReq{{Kind: protocol.CmdBuildPlace}}},
		}},
	})
	_ = idx.WriteAudit(world.AuditEntry{Tick: 7, Actor: "A1", Action: "BUILD_PLACE", StructureID: "S000001", Piece: "Wall", Pos: [3]float64{64, 0, 0}, Materials: 90})
	_ = idx.WriteAudit(world.AuditEntry{Tick: 7, Actor: "A1", Action: "BUILD_PLACE", StructureID: "S000002", Piece: "Ramp"})
	_ = idx.WriteAudit(world.AuditEntry{Tick: 9, Action: "BUILD_DESTROY", StructureID: "S000001", Piece: "Wall", Reason: "health"})
	if err := idx.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("sql.Open: %v", err)
	}
	defer db.Close()

	var digest string
	var commands int
	if err := db.QueryRow(`SELECT digest, commands FROM ticks WHERE tick = 7`).Scan(&digest, &commands); err != nil {
		t.Fatalf("query ticks: %v", err)
	}
	if digest != "abc" || commands != 1 {
		t.Fatalf("tick row: digest=%q commands=%d", digest, commands)
	}
	var seq int
	if err := db.QueryRow(`SELECT seq FROM audits WHERE structure_id = 'S000002'`).Scan(&seq); err != nil {
		t.Fatalf("query audits: %v", err)
	}
	if seq != 1 {
		t.Fatalf("seq=%d want 1", seq)
	}
	var n int
	if err := db.QueryRow(`SELECT COUNT(*) FROM catalogs`).Scan(&n); err != nil || n != 2 {
		t.Fatalf("catalog rows=%d err=%v", n, err)
	}

	idx2, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer idx2.Close()
	hist, err := idx2.StructureHistory(context.Background(), "S000001")
	if err != nil {
		t.Fatalf("StructureHistory: %v", err)
	}
	if len(hist) != 2 || hist[0].Action != "BUILD_PLACE" || hist[1].Action != "BUILD_DESTROY" || hist[0].Materials != 90 {
		t.Fatalf("unexpected history: %+v", hist)
	}
}

func TestSQLiteIndex_QueueDropStats(t *testing.T) {
	s := &SQLiteIndex{ch: make(chan req, 1)}
	s.ch <- req{kind: reqTick, tick: world.TickLogEntry{Tick: 1}}

	_ = s.WriteTick(world.TickLogEntry{Tick: 2})
	_ = s.WriteAudit(world.AuditEntry{Tick: 2})

	st := s.Stats()
	if st.DropTickTotal != 1 || st.DropAuditTotal != 1 {
		t.Fatalf("drops: %+v", st)
	}
	if st.QueueDepth != 1 || st.QueueCapacity != 1 {
		t.Fatalf("queue stats mismatch: depth=%d cap=%d", st.QueueDepth, st.QueueCapacity)
	}
}
