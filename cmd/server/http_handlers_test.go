package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"buildgrid.io/internal/sim/world"
	"buildgrid.io/internal/sim/world/terrain/brush"
)

func newRunningWorld(t *testing.T) *world.World {
	t.Helper()
	w := world.New(world.WorldConfig{
		ID:          "test",
		TickRateHz:  100,
		MaxEntities: 16,
		Building: world.BuildingConfig{
			Enabled:          true,
			StartMaterials:   100,
			MaxStructures:    8,
			CooldownMS:       100,
			PreviewRange:     256,
			UpkeepIntervalMS: 1000,
		},
	}, brush.Flat())
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go func() { _ = w.Run(ctx) }()
	return w
}

func newAdminMux(w *world.World) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/metrics", metricsHandler("test", w))
	registerAdmin(mux, "test", w, nil)
	return mux
}

func doLocal(mux *http.ServeMux, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.RemoteAddr = "127.0.0.1:40000"
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)
	return rr
}

func TestAdmin_RejectsRemoteClients(t *testing.T) {
	mux := newAdminMux(newRunningWorld(t))
	req := httptest.NewRequest(http.MethodGet, "/admin/v1/state", nil)
	req.RemoteAddr = "203.0.113.9:5555"
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)
	if rr.Code != http.StatusForbidden {
		t.Fatalf("status=%d want 403", rr.Code)
	}
}

func TestAdmin_SetBuildingAppliesAtTickBoundary(t *testing.T) {
	w := newRunningWorld(t)
	mux := newAdminMux(w)

	rr := doLocal(mux, http.MethodPost, "/admin/v1/building", `{"enabled":false,"start_materials":40}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", rr.Code, rr.Body.String())
	}
	var resp struct {
		OK     bool              `json:"ok"`
		Result world.AdminResult `json:"result"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !resp.OK || resp.Result.Building.Enabled || resp.Result.Building.StartMaterials != 40 {
		t.Fatalf("unexpected result: %+v", resp)
	}

	deadline := time.Now().Add(2 * time.Second)
	for {
		rr = doLocal(mux, http.MethodGet, "/admin/v1/state", "")
		var st struct {
			Building world.BuildingConfig `json:"building"`
			Metrics  world.WorldMetrics   `json:"metrics"`
		}
		if err := json.Unmarshal(rr.Body.Bytes(), &st); err != nil {
			t.Fatalf("decode state: %v", err)
		}
		if st.Metrics.Tick > resp.Result.Tick {
			if st.Building.Enabled || st.Metrics.BuildEnabled {
				t.Fatalf("building still enabled after op: %+v", st)
			}
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("state never advanced past tick %d", resp.Result.Tick)
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestAdmin_DamageUnknownStructure(t *testing.T) {
	mux := newAdminMux(newRunningWorld(t))
	rr := doLocal(mux, http.MethodPost, "/admin/v1/damage", `{"structure_id":"S000042","amount":10}`)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status=%d want 400 body=%s", rr.Code, rr.Body.String())
	}
	rr = doLocal(mux, http.MethodGet, "/admin/v1/remove", "")
	if rr.Code != http.StatusMethodNotAllowed {
		t.Fatalf("GET remove status=%d want 405", rr.Code)
	}
	rr = doLocal(mux, http.MethodPost, "/admin/v1/remove", `{`)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("bad json status=%d want 400", rr.Code)
	}
}

func TestMetrics_Exposition(t *testing.T) {
	w := newRunningWorld(t)
	mux := newAdminMux(w)

	deadline := time.Now().Add(2 * time.Second)
	for w.Metrics().Tick == 0 {
		if time.Now().After(deadline) {
			t.Fatalf("world never ticked")
		}
		time.Sleep(5 * time.Millisecond)
	}
	rr := doLocal(mux, http.MethodGet, "/metrics", "")
	body := rr.Body.String()
	for _, want := range []string{
		`buildgrid_world_tick{world="test"}`,
		`buildgrid_structures_max{world="test"} 8`,
		`buildgrid_building_enabled{world="test"} 1`,
		`buildgrid_world_queue_depth{world="test",queue="admin"}`,
	} {
		if !strings.Contains(body, want) {
			t.Fatalf("metrics missing %q:\n%s", want, body)
		}
	}
}
