package world

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"math"
	"sort"
)

// stateDigest hashes everything the build core owns. Two worlds fed the same
// inputs produce the same digest at every tick.
func (w *World) stateDigest(nowTick uint64) string {
	h := sha256.New()
	var tmp [8]byte

	digestWriteU64(h, &tmp, nowTick)
	digestWriteBool(h, w.cfg.Building.Enabled)
	digestWriteI64(h, &tmp, int64(w.cfg.Building.StartMaterials))
	digestWriteI64(h, &tmp, int64(w.cfg.Building.MaxStructures))

	w.digestStructures(h, &tmp)
	w.digestLedger(h, &tmp)
	w.digestSessions(h, &tmp)

	return hex.EncodeToString(h.Sum(nil))
}

func (w *World) digestStructures(h hashWriter, tmp *[8]byte) {
	live := w.LiveStructures()
	digestWriteU64(h, tmp, uint64(len(live)))
	for _, s := range live {
		h.Write([]byte(s.ID))
		digestWriteI64(h, tmp, int64(s.Num))
		h.Write([]byte(s.Owner))
		digestWriteI64(h, tmp, int64(s.Type))
		for i := 0; i < 3; i++ {
			digestWriteF64(h, tmp, s.Origin[i])
		}
		digestWriteF64(h, tmp, s.Angles[1])
		digestWriteI64(h, tmp, int64(s.Health))
		digestWriteI64(h, tmp, s.NextThinkMS)
	}
}

func (w *World) digestLedger(h hashWriter, tmp *[8]byte) {
	entries := w.ledger.Entries()
	digestWriteU64(h, tmp, uint64(len(entries)))
	for _, e := range entries {
		h.Write([]byte(e.ActorID))
		digestWriteI64(h, tmp, int64(e.Balance))
	}
}

func (w *World) digestSessions(h hashWriter, tmp *[8]byte) {
	ids := make([]string, 0, len(w.sessions))
	for id := range w.sessions {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	digestWriteU64(h, tmp, uint64(len(ids)))
	for _, id := range ids {
		s := w.sessions[id]
		h.Write([]byte(id))
		digestWriteBool(h, s.Active)
		digestWriteI64(h, tmp, int64(s.Selected))
		digestWriteI64(h, tmp, int64(s.Rotation))
		digestWriteBool(h, s.Placed)
		digestWriteI64(h, tmp, s.LastPlaceMS)
	}
}

func digestWriteU64(h hashWriter, tmp *[8]byte, v uint64) {
	binary.LittleEndian.PutUint64(tmp[:], v)
	h.Write(tmp[:])
}

func digestWriteI64(h hashWriter, tmp *[8]byte, v int64) {
	digestWriteU64(h, tmp, uint64(v))
}

func digestWriteF64(h hashWriter, tmp *[8]byte, v float64) {
	digestWriteU64(h, tmp, math.Float64bits(v))
}

func digestWriteBool(h hashWriter, b bool) {
	if b {
		h.Write([]byte{1})
		return
	}
	h.Write([]byte{0})
}

type hashWriter interface {
	Write(p []byte) (n int, err error)
}
