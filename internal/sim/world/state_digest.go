package world

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"hash"
	"math"
)

func (w *World) stateDigest(nowTick uint64) string {
	h := sha256.New()
	var tmp [8]byte

	digestWriteU64(h, &tmp, nowTick)
	digestWriteU64(h, &tmp, uint64(w.cfg.Seed))

	for _, o := range w.registry.All() {
		digestWriteU64(h, &tmp, uint64(o.ID))
		digestWriteF64(h, &tmp, o.Pos.X())
		digestWriteF64(h, &tmp, o.Pos.Y())
	}
	for _, r := range w.robots {
		digestWriteU64(h, &tmp, uint64(r.ID))
		digestWriteF64(h, &tmp, r.Pos.X())
		digestWriteF64(h, &tmp, r.Pos.Y())
		digestWriteU64(h, &tmp, uint64(r.Target))
	}
	return hex.EncodeToString(h.Sum(nil))
}

// StateDigest is the digest of the current state labelled with the last completed tick.
func (w *World) StateDigest() string {
	t := w.tick.Load()
	if t > 0 {
		t--
	}
	return w.stateDigest(t)
}

func digestWriteU64(h hash.Hash, tmp *[8]byte, v uint64) {
	binary.LittleEndian.PutUint64(tmp[:], v)
	h.Write(tmp[:])
}

func digestWriteF64(h hash.Hash, tmp *[8]byte, v float64) {
	digestWriteU64(h, tmp, math.Float64bits(v))
}
