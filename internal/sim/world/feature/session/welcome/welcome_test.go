package welcome

import (
	"testing"

	"buildgrid.io/internal/protocol"
	"buildgrid.io/internal/sim/catalogs"
)

func TestBuildWelcome(t *testing.T) {
	msg := Build(Input{
		ActorID:        "A1",
		WorldID:        "yard",
		TickRateHz:     20,
		PreviewRange:   256,
		CooldownMS:     100,
		BuildEnabled:   true,
		StartMaterials: 100,
		MaxStructures:  256,
	})
	if msg.Type != protocol.TypeWelcome || msg.ProtocolVersion != protocol.Version {
		t.Fatalf("unexpected header: %+v", msg)
	}
	if msg.ActorID != "A1" || msg.WorldID != "yard" {
		t.Fatalf("unexpected ids: %+v", msg)
	}
	if msg.WorldParams.GridSize != catalogs.GridSize || msg.WorldParams.CooldownMS != 100 {
		t.Fatalf("unexpected world params: %+v", msg.WorldParams)
	}
	if msg.Catalogs.PiecesDigest == "" || msg.Catalogs.PiecesDigest != catalogs.PiecesDigest() {
		t.Fatalf("unexpected pieces digest: %q", msg.Catalogs.PiecesDigest)
	}
	if len(msg.Pieces) != 4 || msg.Pieces[0].Name != catalogs.PieceWall.String() {
		t.Fatalf("unexpected piece table: %+v", msg.Pieces)
	}
	for _, p := range msg.Pieces {
		if p.Type == int(catalogs.PieceNone) {
			t.Fatalf("inert piece must not be published")
		}
	}
}
