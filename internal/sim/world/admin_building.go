package world

import (
	"context"
	"errors"
	"fmt"
)

// Admin operations.
const (
	AdminSetBuilding = "SET_BUILDING"
	AdminDamage      = "DAMAGE"
	AdminRemove      = "REMOVE"
)

// AdminOp is an administrative change applied at a tick boundary. Ops are
// recorded in the tick log so replays reproduce them.
type AdminOp struct {
	Op string `json:"op"`

	Enabled        *bool `json:"enabled,omitempty"`
	StartMaterials *int  `json:"start_materials,omitempty"`
	MaxStructures  *int  `json:"max_structures,omitempty"`

	StructureID string `json:"structure_id,omitempty"`
	Amount      int    `json:"amount,omitempty"`
}

type AdminResult struct {
	Tick     uint64         `json:"tick"`
	Building BuildingConfig `json:"building"`

	// Structure is the targeted structure after the op; Alive is false once
	// it has been destroyed or removed.
	StructureID string `json:"structure_id,omitempty"`
	Health      int    `json:"health,omitempty"`
	Alive       bool   `json:"alive"`

	Err string `json:"error,omitempty"`
}

type adminReq struct {
	Op   AdminOp
	Resp chan AdminResult
}

// Admin submits op to the world loop and waits for the result. It is safe to
// call from other goroutines (e.g. HTTP handlers).
func (w *World) Admin(ctx context.Context, op AdminOp) (AdminResult, error) {
	if w == nil || w.admin == nil {
		return AdminResult{}, errors.New("admin not available")
	}
	resp := make(chan AdminResult, 1)
	select {
	case w.admin <- adminReq{Op: op, Resp: resp}:
	case <-ctx.Done():
		return AdminResult{}, ctx.Err()
	}
	select {
	case r := <-resp:
		if r.Err != "" {
			return r, errors.New(r.Err)
		}
		return r, nil
	case <-ctx.Done():
		return AdminResult{}, ctx.Err()
	}
}

func (w *World) applyAdminOp(op AdminOp, nowTick uint64) AdminResult {
	res := AdminResult{Tick: nowTick}
	switch op.Op {
	case AdminSetBuilding:
		if op.StartMaterials != nil && *op.StartMaterials < 0 {
			res.Err = "start_materials must be >= 0"
			break
		}
		if op.MaxStructures != nil && *op.MaxStructures < 0 {
			res.Err = "max_structures must be >= 0"
			break
		}
		if op.Enabled != nil {
			w.cfg.Building.Enabled = *op.Enabled
		}
		if op.StartMaterials != nil {
			w.cfg.Building.StartMaterials = *op.StartMaterials
		}
		if op.MaxStructures != nil {
			w.cfg.Building.MaxStructures = *op.MaxStructures
		}
	case AdminDamage, AdminRemove:
		s := w.structures[op.StructureID]
		if s == nil {
			res.Err = fmt.Sprintf("unknown structure: %s", op.StructureID)
			break
		}
		res.StructureID = s.ID
		if op.Op == AdminDamage {
			if op.Amount <= 0 {
				res.Err = "amount must be > 0"
				break
			}
			w.applyDamage(s, op.Amount, "", nowTick)
		} else {
			w.removeStructure(s, "", "admin", nowTick)
		}
		res.Health = s.Health
		res.Alive = s.Alive
	default:
		res.Err = fmt.Sprintf("unknown admin op: %q", op.Op)
	}
	res.Building = w.cfg.Building
	return res
}

// BuildingConfig reads the live config. Only safe from the loop goroutine or
// when the world is not running; other callers use Metrics().Building.
func (w *World) BuildingConfig() BuildingConfig { return w.cfg.Building }
