package main

import (
	"strings"
	"testing"

	persistlog "exolore.ai/internal/persistence/log"
	"exolore.ai/internal/sim/tuning"
	"exolore.ai/internal/sim/world"
)

type tamperLogger struct {
	next   world.TickLogger
	atTick uint64
}

func (l tamperLogger) WriteTick(e world.TickLogEntry) error {
	if e.Tick == l.atTick {
		e.Digest = "bogus"
	}
	return l.next.WriteTick(e)
}

func recordRun(t *testing.T, ticks int, wrap func(world.TickLogger) world.TickLogger) string {
	t.Helper()
	tune := tuning.Defaults()
	tune.Robots.Count = 4
	tune.Obstacles.Count = 3
	tune.TargetSelection = "nearest"

	h := persistlog.NewRunHeader("world_r", tune)
	runDir := persistlog.RunDir(t.TempDir(), h.RunID)
	if err := persistlog.WriteRunHeader(runDir, h); err != nil {
		t.Fatalf("header: %v", err)
	}
	cfg, err := world.ConfigFromTuning(h.WorldID, tune)
	if err != nil {
		t.Fatalf("config: %v", err)
	}
	w, err := world.New(cfg)
	if err != nil {
		t.Fatalf("world: %v", err)
	}
	tl := persistlog.NewTickLogger(runDir)
	var logger world.TickLogger = tl
	if wrap != nil {
		logger = wrap(tl)
	}
	w.SetTickLogger(logger)
	for i := 0; i < ticks; i++ {
		// Irregular frame times, as recorded by a real-time run.
		w.StepOnce(float64(i%5+1) / 97)
	}
	if err := tl.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	return runDir
}

func TestReplay_VerifiesRecordedRun(t *testing.T) {
	runDir := recordRun(t, 40, nil)
	res, err := replay(runDir, 0)
	if err != nil {
		t.Fatalf("replay: %v", err)
	}
	if res.Checked != 40 || res.Header.WorldID != "world_r" || res.Digest == "" {
		t.Fatalf("result=%+v", res)
	}

	res, err = replay(runDir, 10)
	if err != nil {
		t.Fatalf("replay with limit: %v", err)
	}
	if res.Checked != 10 {
		t.Fatalf("checked=%d want 10", res.Checked)
	}
}

func TestReplay_DetectsDigestMismatch(t *testing.T) {
	runDir := recordRun(t, 20, func(next world.TickLogger) world.TickLogger {
		return tamperLogger{next: next, atTick: 7}
	})
	res, err := replay(runDir, 0)
	if err == nil || !strings.Contains(err.Error(), "digest mismatch at tick 7") {
		t.Fatalf("err=%v", err)
	}
	if res.Checked != 8 {
		t.Fatalf("checked=%d want 8", res.Checked)
	}
}

func TestReplay_MissingHeader(t *testing.T) {
	if _, err := replay(t.TempDir(), 0); err == nil {
		t.Fatalf("expected error without run.json")
	}
}
