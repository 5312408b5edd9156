package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	"buildgrid.io/internal/sim/world"
)

type adminWorld interface {
	CurrentTick() uint64
	Metrics() world.WorldMetrics
	Admin(ctx context.Context, op world.AdminOp) (world.AdminResult, error)
}

// structureHistory is served by the sqlite index when it is the active backend.
type structureHistory interface {
	StructureHistory(ctx context.Context, structureID string) ([]world.AuditEntry, error)
}

func metricsHandler(worldID string, w adminWorld) http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		rw.Header().Set("Content-Type", "text/plain; version=0.0.4")

		m := w.Metrics()
		tick := w.CurrentTick()
		if m.Tick != 0 {
			tick = m.Tick
		}

		fmt.Fprintf(rw, "# HELP buildgrid_world_tick Current world tick.\n")
		fmt.Fprintf(rw, "# TYPE buildgrid_world_tick gauge\n")
		fmt.Fprintf(rw, "buildgrid_world_tick{world=%q} %d\n", worldID, tick)

		fmt.Fprintf(rw, "# HELP buildgrid_world_actors Current number of actors in the world.\n")
		fmt.Fprintf(rw, "# TYPE buildgrid_world_actors gauge\n")
		fmt.Fprintf(rw, "buildgrid_world_actors{world=%q} %d\n", worldID, m.Actors)

		fmt.Fprintf(rw, "# HELP buildgrid_world_clients Current number of connected clients.\n")
		fmt.Fprintf(rw, "# TYPE buildgrid_world_clients gauge\n")
		fmt.Fprintf(rw, "buildgrid_world_clients{world=%q} %d\n", worldID, m.Clients)

		fmt.Fprintf(rw, "# HELP buildgrid_structures_live Live placed structures.\n")
		fmt.Fprintf(rw, "# TYPE buildgrid_structures_live gauge\n")
		fmt.Fprintf(rw, "buildgrid_structures_live{world=%q} %d\n", worldID, m.LiveStructures)

		fmt.Fprintf(rw, "# HELP buildgrid_structures_max Configured structure population cap.\n")
		fmt.Fprintf(rw, "# TYPE buildgrid_structures_max gauge\n")
		fmt.Fprintf(rw, "buildgrid_structures_max{world=%q} %d\n", worldID, m.MaxStructures)

		fmt.Fprintf(rw, "# HELP buildgrid_entity_slots_free Free entity slots.\n")
		fmt.Fprintf(rw, "# TYPE buildgrid_entity_slots_free gauge\n")
		fmt.Fprintf(rw, "buildgrid_entity_slots_free{world=%q} %d\n", worldID, m.FreeSlots)

		enabled := 0
		if m.BuildEnabled {
			enabled = 1
		}
		fmt.Fprintf(rw, "# HELP buildgrid_building_enabled Whether building is enabled (0/1).\n")
		fmt.Fprintf(rw, "# TYPE buildgrid_building_enabled gauge\n")
		fmt.Fprintf(rw, "buildgrid_building_enabled{world=%q} %d\n", worldID, enabled)

		fmt.Fprintf(rw, "# HELP buildgrid_world_queue_depth Channel backlog depth.\n")
		fmt.Fprintf(rw, "# TYPE buildgrid_world_queue_depth gauge\n")
		fmt.Fprintf(rw, "buildgrid_world_queue_depth{world=%q,queue=%q} %d\n", worldID, "inbox", m.QueueDepths.Inbox)
		fmt.Fprintf(rw, "buildgrid_world_queue_depth{world=%q,queue=%q} %d\n", worldID, "join", m.QueueDepths.Join)
		fmt.Fprintf(rw, "buildgrid_world_queue_depth{world=%q,queue=%q} %d\n", worldID, "leave", m.QueueDepths.Leave)
		fmt.Fprintf(rw, "buildgrid_world_queue_depth{world=%q,queue=%q} %d\n", worldID, "admin", m.QueueDepths.Admin)

		fmt.Fprintf(rw, "# HELP buildgrid_world_step_ms Last tick step duration in milliseconds.\n")
		fmt.Fprintf(rw, "# TYPE buildgrid_world_step_ms gauge\n")
		fmt.Fprintf(rw, "buildgrid_world_step_ms{world=%q} %.3f\n", worldID, m.StepMS)

		fmt.Fprintf(rw, "# HELP buildgrid_place_accepted_total Accepted placements.\n")
		fmt.Fprintf(rw, "# TYPE buildgrid_place_accepted_total counter\n")
		fmt.Fprintf(rw, "buildgrid_place_accepted_total{world=%q} %d\n", worldID, m.PlaceAccepted)

		fmt.Fprintf(rw, "# HELP buildgrid_place_rejected_total Rejected placements by reason.\n")
		fmt.Fprintf(rw, "# TYPE buildgrid_place_rejected_total counter\n")
		reasons := make([]string, 0, len(m.PlaceRejected))
		for k := range m.PlaceRejected {
			reasons = append(reasons, k)
		}
		sort.Strings(reasons)
		for _, k := range reasons {
			fmt.Fprintf(rw, "buildgrid_place_rejected_total{world=%q,reason=%q} %d\n", worldID, k, m.PlaceRejected[k])
		}
	}
}

// registerAdmin mounts the local-only admin endpoints. They never bypass the
// world loop: writes are queued and applied at the next tick boundary.
func registerAdmin(mux *http.ServeMux, worldID string, w adminWorld, hist structureHistory) {
	mux.HandleFunc("/admin/v1/state", loopbackOnly(func(rw http.ResponseWriter, r *http.Request) {
		m := w.Metrics()
		resp := struct {
			WorldID  string               `json:"world_id"`
			Tick     uint64               `json:"tick"`
			Building world.BuildingConfig `json:"building"`
			Metrics  world.WorldMetrics   `json:"metrics"`
		}{
			WorldID:  worldID,
			Tick:     w.CurrentTick(),
			Building: m.Building,
			Metrics:  m,
		}
		writeJSONResponse(rw, http.StatusOK, resp)
	}))

	mux.HandleFunc("/admin/v1/building", adminOpHandler(w, func(r *http.Request) (world.AdminOp, error) {
		var body struct {
			Enabled        *bool `json:"enabled"`
			StartMaterials *int  `json:"start_materials"`
			MaxStructures  *int  `json:"max_structures"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			return world.AdminOp{}, err
		}
		return world.AdminOp{
			Op:             world.AdminSetBuilding,
			Enabled:        body.Enabled,
			StartMaterials: body.StartMaterials,
			MaxStructures:  body.MaxStructures,
		}, nil
	}))

	mux.HandleFunc("/admin/v1/damage", adminOpHandler(w, func(r *http.Request) (world.AdminOp, error) {
		var body struct {
			StructureID string `json:"structure_id"`
			Amount      int    `json:"amount"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			return world.AdminOp{}, err
		}
		return world.AdminOp{Op: world.AdminDamage, StructureID: body.StructureID, Amount: body.Amount}, nil
	}))

	mux.HandleFunc("/admin/v1/remove", adminOpHandler(w, func(r *http.Request) (world.AdminOp, error) {
		var body struct {
			StructureID string `json:"structure_id"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			return world.AdminOp{}, err
		}
		return world.AdminOp{Op: world.AdminRemove, StructureID: body.StructureID}, nil
	}))

	if hist != nil {
		mux.HandleFunc("/admin/v1/structures/history", loopbackOnly(func(rw http.ResponseWriter, r *http.Request) {
			id := strings.TrimSpace(r.URL.Query().Get("id"))
			if id == "" {
				writeJSONResponse(rw, http.StatusBadRequest, map[string]any{"ok": false, "error": "missing id"})
				return
			}
			ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
			defer cancel()
			entries, err := hist.StructureHistory(ctx, id)
			if err != nil {
				writeJSONResponse(rw, http.StatusInternalServerError, map[string]any{"ok": false, "error": err.Error()})
				return
			}
			writeJSONResponse(rw, http.StatusOK, map[string]any{"ok": true, "structure_id": id, "entries": entries})
		}))
	}
}

func adminOpHandler(w adminWorld, parse func(r *http.Request) (world.AdminOp, error)) http.HandlerFunc {
	return loopbackOnly(func(rw http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			rw.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		op, err := parse(r)
		if err != nil {
			writeJSONResponse(rw, http.StatusBadRequest, map[string]any{"ok": false, "error": "bad json"})
			return
		}
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()
		res, err := w.Admin(ctx, op)
		if err != nil {
			status := http.StatusBadRequest
			if ctx.Err() != nil {
				status = http.StatusServiceUnavailable
			}
			writeJSONResponse(rw, status, map[string]any{"ok": false, "tick": res.Tick, "error": err.Error()})
			return
		}
		writeJSONResponse(rw, http.StatusOK, map[string]any{"ok": true, "result": res})
	})
}

func loopbackOnly(h http.HandlerFunc) http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		if !isLoopbackRemote(r.RemoteAddr) {
			http.Error(rw, "forbidden", http.StatusForbidden)
			return
		}
		h(rw, r)
	}
}

func writeJSONResponse(rw http.ResponseWriter, status int, v any) {
	rw.Header().Set("Content-Type", "application/json")
	rw.WriteHeader(status)
	_ = json.NewEncoder(rw).Encode(v)
}
