package world

import (
	"testing"

	"buildgrid.io/internal/sim/catalogs"
	"buildgrid.io/internal/sim/world/logic/geom"
	"buildgrid.io/internal/sim/world/terrain/brush"
)

func TestSpawn_SameUnsnappedOriginTwiceYieldsOne(t *testing.T) {
	for _, def := range catalogs.RealPieces() {
		w := newTestWorld(t, nil)
		origin := geom.Vec3{10, -7, 70}

		s1, code := w.spawnStructure(def.Type, origin, geom.Vec3{}, "", 0)
		if s1 == nil || code != PlaceOK {
			t.Fatalf("%s: first spawn failed: %v", def.Name, code)
		}
		if s1.Origin != (geom.Vec3{0, 0, 64}) {
			t.Fatalf("%s: origin not snapped: %v", def.Name, s1.Origin)
		}
		s2, code := w.spawnStructure(def.Type, origin, geom.Vec3{}, "", 0)
		if s2 != nil || code != PlaceStructureOverlap {
			t.Fatalf("%s: second spawn should overlap, got %v", def.Name, code)
		}
		if n := len(w.LiveStructures()); n != 1 {
			t.Fatalf("%s: live=%d want 1", def.Name, n)
		}
	}
}

func TestCheckPlacement_Order(t *testing.T) {
	w := newTestWorld(t, nil)
	a := joinTestActor(t, w, "bot")
	origin := geom.Vec3{0, 0, 64}

	if got := w.checkPlacement(catalogs.PieceNone, origin, geom.Vec3{}, a.ID); got != PlaceInvalidPieceType {
		t.Fatalf("none: got %v", got)
	}
	if got := w.checkPlacement(catalogs.PieceType(99), origin, geom.Vec3{}, a.ID); got != PlaceInvalidPieceType {
		t.Fatalf("out of range: got %v", got)
	}

	// Disabled wins over everything else.
	w.cfg.Building.Enabled = false
	if got := w.checkPlacement(catalogs.PieceNone, origin, geom.Vec3{}, a.ID); got != PlaceFeatureDisabled {
		t.Fatalf("disabled: got %v", got)
	}
	w.cfg.Building.Enabled = true

	// Materials are checked before population.
	w.cfg.Building.MaxStructures = 0
	w.ledger.ResetOnSpawn(a.ID, 5)
	if got := w.checkPlacement(catalogs.PieceWall, origin, geom.Vec3{}, a.ID); got != PlaceInsufficientMaterials {
		t.Fatalf("materials: got %v", got)
	}
	// Without an actor the materials check is skipped.
	if got := w.checkPlacement(catalogs.PieceWall, origin, geom.Vec3{}, ""); got != PlacePopulationLimitReached {
		t.Fatalf("population: got %v", got)
	}
}

func TestPopulationLimit_NPlusOneFails(t *testing.T) {
	const n = 3
	w := newTestWorld(t, func(c *WorldConfig) { c.Building.MaxStructures = n })
	for i := 0; i < n; i++ {
		if _, code := w.spawnStructure(catalogs.PieceRoof, geom.Vec3{float64(i) * 256, 0, 64}, geom.Vec3{}, "", 0); code != PlaceOK {
			t.Fatalf("spawn %d: %v", i, code)
		}
	}
	free := geom.Vec3{2048, 2048, 64}
	if w.CanPlace(catalogs.PieceRoof, free, geom.Vec3{}, "") {
		t.Fatalf("CanPlace should fail at the cap")
	}
	if s, code := w.spawnStructure(catalogs.PieceRoof, free, geom.Vec3{}, "", 0); s != nil || code != PlacePopulationLimitReached {
		t.Fatalf("N+1 spawn: got %v", code)
	}
}

func TestOverlap_TouchingBoundaryRejected(t *testing.T) {
	w := newTestWorld(t, nil)
	if _, code := w.spawnStructure(catalogs.PieceRoof, geom.Vec3{0, 0, 64}, geom.Vec3{}, "", 0); code != PlaceOK {
		t.Fatalf("first roof: %v", code)
	}
	// maxX of the first == minX of the second.
	if _, code := w.spawnStructure(catalogs.PieceRoof, geom.Vec3{64, 0, 64}, geom.Vec3{}, "", 0); code != PlaceStructureOverlap {
		t.Fatalf("touching roof: got %v want overlap", code)
	}
	if _, code := w.spawnStructure(catalogs.PieceRoof, geom.Vec3{128, 0, 64}, geom.Vec3{}, "", 0); code != PlaceOK {
		t.Fatalf("separated roof: %v", code)
	}
}

func TestCheckPlacement_RotationDoesNotRotateBox(t *testing.T) {
	w := newTestWorld(t, nil)
	if _, code := w.spawnStructure(catalogs.PieceWall, geom.Vec3{0, 0, 0}, geom.Vec3{0, 90, 0}, "", 0); code != PlaceOK {
		t.Fatalf("wall: %v", code)
	}
	// A rotated wall would span y +-32; the unrotated box is only 8 thick, so
	// a parallel wall one cell over on Y fits.
	if !w.CanPlace(catalogs.PieceWall, geom.Vec3{0, 64, 0}, geom.Vec3{0, 90, 0}, "") {
		t.Fatalf("expected unrotated boxes not to collide")
	}
}

func TestCheckPlacement_WorldCollision(t *testing.T) {
	m, err := brush.New(brush.Config{
		Name:    "crate",
		FloorZ:  func() *float64 { z := 0.0; return &z }(),
		Brushes: []brush.BrushSpec{{Name: "crate", Min: [3]float64{100, -50, 0}, Max: [3]float64{200, 50, 100}}},
	})
	if err != nil {
		t.Fatalf("brush.New: %v", err)
	}
	w := newTestWorld(t, nil)
	w.terrain = m

	if got := w.checkPlacement(catalogs.PieceWall, geom.Vec3{128, 0, 0}, geom.Vec3{}, ""); got != PlaceWorldCollision {
		t.Fatalf("inside crate: got %v", got)
	}
	// Floor pieces dip 4 units below their origin, so one on the ground is solid.
	if got := w.checkPlacement(catalogs.PieceFloor, geom.Vec3{0, 0, 0}, geom.Vec3{}, ""); got != PlaceWorldCollision {
		t.Fatalf("floor in ground: got %v", got)
	}
	// Resting on the ground touches but does not penetrate.
	if got := w.checkPlacement(catalogs.PieceWall, geom.Vec3{0, 0, 0}, geom.Vec3{}, ""); got != PlaceOK {
		t.Fatalf("wall on ground: got %v", got)
	}
}

func TestPlaceCode_ProtocolCodes(t *testing.T) {
	cases := []struct {
		code PlaceCode
		want string
	}{
		{PlaceFeatureDisabled, "E_BUILD_DISABLED"},
		{PlaceInsufficientMaterials, "E_NO_MATERIALS"},
		{PlaceWorldCollision, "E_CANNOT_PLACE"},
		{PlaceStructureOverlap, "E_CANNOT_PLACE"},
		{PlacePopulationLimitReached, "E_CANNOT_PLACE"},
		{PlaceNoFreeEntitySlots, "E_CANNOT_PLACE"},
	}
	for _, tc := range cases {
		if got := tc.code.ProtocolCode(); got != tc.want {
			t.Fatalf("%v: got %q want %q", tc.code, got, tc.want)
		}
	}
	if PlaceStructureOverlap.Status() != PlaceWorldCollision.Status() {
		t.Fatalf("geometric rejections should share one message")
	}
}
