package welcome

import (
	"buildgrid.io/internal/protocol"
	"buildgrid.io/internal/sim/catalogs"
)

type Input struct {
	ActorID        string
	WorldID        string
	TickRateHz     int
	PreviewRange   float64
	CooldownMS     int
	BuildEnabled   bool
	StartMaterials int
	MaxStructures  int
}

func Build(in Input) protocol.WelcomeMsg {
	return protocol.WelcomeMsg{
		Type:            protocol.TypeWelcome,
		ProtocolVersion: protocol.Version,
		ActorID:         in.ActorID,
		WorldID:         in.WorldID,
		WorldParams: protocol.WorldParams{
			TickRateHz:     in.TickRateHz,
			GridSize:       catalogs.GridSize,
			PreviewRange:   in.PreviewRange,
			CooldownMS:     in.CooldownMS,
			BuildEnabled:   in.BuildEnabled,
			StartMaterials: in.StartMaterials,
			MaxStructures:  in.MaxStructures,
		},
		Catalogs: protocol.CatalogDigests{
			PiecesDigest: catalogs.PiecesDigest(),
		},
		Pieces: PieceTable(),
	}
}

// PieceTable lists every spawnable piece in enumeration order.
func PieceTable() []protocol.PieceInfo {
	defs := catalogs.RealPieces()
	out := make([]protocol.PieceInfo, 0, len(defs))
	for _, d := range defs {
		out = append(out, protocol.PieceInfo{
			Type:         int(d.Type),
			Name:         d.Name,
			Mins:         d.Mins,
			Maxs:         d.Maxs,
			Health:       d.Health,
			MaterialCost: d.MaterialCost,
			GridSnap:     d.GridSnap,
		})
	}
	return out
}
