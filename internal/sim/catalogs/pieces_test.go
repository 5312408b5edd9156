package catalogs

import "testing"

func TestDefinitionFor_OutOfRangeIsInert(t *testing.T) {
	for _, pt := range []PieceType{PieceNone, -1, NumPieceTypes, 99} {
		d := DefinitionFor(pt)
		if d.Type != PieceNone || d.Spawnable() {
			t.Fatalf("DefinitionFor(%d) = %+v, want inert None", pt, d)
		}
		if d.MaterialCost != 0 || d.Mins != [3]float64{} || d.Maxs != [3]float64{} {
			t.Fatalf("None entry must have zero cost and extents: %+v", d)
		}
	}
}

func TestDefinitionFor_RealPieces(t *testing.T) {
	wall := DefinitionFor(PieceWall)
	if wall.Name != "Wall" || wall.MaterialCost != 10 || wall.Health != DefaultHealth || wall.GridSnap != GridSize {
		t.Fatalf("unexpected wall def: %+v", wall)
	}
	if wall.Mins != [3]float64{-32, -4, 0} || wall.Maxs != [3]float64{32, 4, 64} {
		t.Fatalf("unexpected wall extents: %+v", wall)
	}
	if roof := DefinitionFor(PieceRoof); roof.Health != 100 {
		t.Fatalf("roof health=%d want 100", roof.Health)
	}
	if got := len(RealPieces()); got != int(NumPieceTypes)-1 {
		t.Fatalf("RealPieces len=%d", got)
	}
	for _, d := range RealPieces() {
		for i := 0; i < 3; i++ {
			if d.Mins[i] > d.Maxs[i] {
				t.Fatalf("%s: mins > maxs on axis %d", d.Name, i)
			}
		}
	}
}

func TestParsePieceType(t *testing.T) {
	cases := []struct {
		in   string
		want PieceType
	}{
		{in: "1", want: PieceWall},
		{in: "4", want: PieceRoof},
		{in: "0", want: PieceNone},
		{in: "5", want: PieceNone},
		{in: "ramp", want: PieceRamp},
		{in: " FLOOR ", want: PieceFloor},
		{in: "none", want: PieceNone},
		{in: "", want: PieceNone},
	}
	for _, c := range cases {
		if got := ParsePieceType(c.in); got != c.want {
			t.Fatalf("ParsePieceType(%q)=%v want %v", c.in, got, c.want)
		}
	}
}

func TestPiecesDigest_Stable(t *testing.T) {
	a, b := PiecesDigest(), PiecesDigest()
	if a == "" || a != b || len(a) != 64 {
		t.Fatalf("digest unstable or malformed: %q %q", a, b)
	}
}
