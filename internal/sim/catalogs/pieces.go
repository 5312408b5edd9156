package catalogs

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strconv"
	"strings"
)

// PieceType enumerates the building pieces. PieceNone is an inert sentinel.
type PieceType int

const (
	PieceNone PieceType = iota
	PieceWall
	PieceFloor
	PieceRamp
	PieceRoof

	NumPieceTypes
)

const (
	GridSize      = 64.0
	DefaultHealth = 150
)

// PieceDef is the immutable geometry/cost record for one piece type.
// Mins/Maxs are local-space box extents around the piece origin.
type PieceDef struct {
	Type         PieceType  `json:"type"`
	Name         string     `json:"name"`
	Mins         [3]float64 `json:"mins"`
	Maxs         [3]float64 `json:"maxs"`
	Health       int        `json:"health"`
	MaterialCost int        `json:"material_cost"`
	GridSnap     float64    `json:"grid_snap"`
}

// Spawnable reports whether the definition describes a real piece.
func (d PieceDef) Spawnable() bool { return d.Type != PieceNone }

var pieceDefs = [NumPieceTypes]PieceDef{
	PieceNone: {Type: PieceNone, Name: "None"},

	// Vertical wall: 64 wide, 8 thick, 64 tall.
	PieceWall: {
		Type:         PieceWall,
		Name:         "Wall",
		Mins:         [3]float64{-32, -4, 0},
		Maxs:         [3]float64{32, 4, 64},
		Health:       DefaultHealth,
		MaterialCost: 10,
		GridSnap:     GridSize,
	},
	PieceFloor: {
		Type:         PieceFloor,
		Name:         "Floor",
		Mins:         [3]float64{-32, -32, -4},
		Maxs:         [3]float64{32, 32, 4},
		Health:       DefaultHealth,
		MaterialCost: 10,
		GridSnap:     GridSize,
	},
	// 45 degree ramp occupying a full cell.
	PieceRamp: {
		Type:         PieceRamp,
		Name:         "Ramp",
		Mins:         [3]float64{-32, -32, 0},
		Maxs:         [3]float64{32, 32, 64},
		Health:       DefaultHealth,
		MaterialCost: 10,
		GridSnap:     GridSize,
	},
	PieceRoof: {
		Type:         PieceRoof,
		Name:         "Roof",
		Mins:         [3]float64{-32, -32, 0},
		Maxs:         [3]float64{32, 32, 32},
		Health:       100,
		MaterialCost: 10,
		GridSnap:     GridSize,
	},
}

// DefinitionFor returns the definition for t. Out-of-range values resolve to
// the inert PieceNone entry; callers must reject it before spawning.
func DefinitionFor(t PieceType) PieceDef {
	if t < 0 || t >= NumPieceTypes {
		return pieceDefs[PieceNone]
	}
	return pieceDefs[t]
}

// Valid reports whether t is a real, spawnable piece type.
func (t PieceType) Valid() bool { return t > PieceNone && t < NumPieceTypes }

func (t PieceType) String() string { return DefinitionFor(t).Name }

// FirstPiece is the selection a build session starts with.
func FirstPiece() PieceType { return PieceWall }

// RealPieces lists every spawnable definition in enumeration order.
func RealPieces() []PieceDef {
	out := make([]PieceDef, 0, NumPieceTypes-1)
	for t := PieceNone + 1; t < NumPieceTypes; t++ {
		out = append(out, pieceDefs[t])
	}
	return out
}

// ParsePieceType accepts the enumeration number ("1") or a case-insensitive
// name ("wall"). Unknown input yields PieceNone.
func ParsePieceType(s string) PieceType {
	s = strings.TrimSpace(s)
	if s == "" {
		return PieceNone
	}
	if n, err := strconv.Atoi(s); err == nil {
		t := PieceType(n)
		if !t.Valid() {
			return PieceNone
		}
		return t
	}
	for t := PieceNone + 1; t < NumPieceTypes; t++ {
		if strings.EqualFold(pieceDefs[t].Name, s) {
			return t
		}
	}
	return PieceNone
}

// PiecesDigest is the sha256 of the canonical JSON of the real pieces. It is
// advertised in WELCOME so clients can detect a mismatched local table.
func PiecesDigest() string {
	b, _ := json.Marshal(RealPieces())
	return sha256Hex(b)
}

func sha256Hex(b []byte) string {
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}
