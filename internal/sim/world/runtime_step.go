package world

import (
	"math"
	"time"
)

func (w *World) step(dt float64) TickLogEntry {
	stepStart := time.Now()
	nowTick := w.tick.Load()
	// Negative, NaN and infinite elapsed times advance nothing.
	if !(dt > 0) || math.IsInf(dt, 1) {
		dt = 0
	}

	// Phase barrier: every target is fixed before any robot moves.
	res := w.systemTargeting()
	rep := w.systemMovement(dt)

	digest := w.stateDigest(nowTick)
	entry := TickLogEntry{
		Tick:     nowTick,
		DT:       dt,
		Assigned: res.Assigned,
		Released: res.Released,
		Idle:     res.Idle,
		Claimed:  res.Claimed,
		Steering: rep,
		Digest:   digest,
	}
	if w.tickLogger != nil {
		_ = w.tickLogger.WriteTick(entry)
	}

	w.totals.assigned += uint64(len(res.Assigned))
	w.totals.released += uint64(len(res.Released))
	w.totals.noAvailable += uint64(len(res.Idle))
	w.totals.missingTarget += uint64(rep.MissingTarget)
	w.totals.zeroLength += uint64(rep.ZeroLength)
	w.totals.nonFinite += uint64(rep.NonFinite)

	nextTick := w.tick.Add(1)
	stepMS := float64(time.Since(stepStart).Microseconds()) / 1000.0
	w.publish(nextTick, stepMS)
	return entry
}
