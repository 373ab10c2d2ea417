package main

import (
	"bytes"
	"context"
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"exolore.ai/internal/persistence/indexdb"
	persistlog "exolore.ai/internal/persistence/log"
	"exolore.ai/internal/sim/world"
)

func TestRun_FixedTicksRecordsEverything(t *testing.T) {
	dataDir := t.TempDir()
	robots := 3
	every := 10
	var buf bytes.Buffer
	logger := log.New(&buf, "", 0)

	res, err := run(context.Background(), options{
		TuningPath: filepath.Join(dataDir, "missing.yaml"),
		DataDir:    dataDir,
		WorldID:    "world_t",
		Ticks:      30,
		Robots:     &robots,
		LogEvery:   &every,
	}, logger)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if res.Ticks != 30 {
		t.Fatalf("ticks=%d want 30", res.Ticks)
	}

	h, err := persistlog.ReadRunHeader(res.RunDir)
	if err != nil {
		t.Fatalf("header: %v", err)
	}
	if h.RunID != res.RunID || h.WorldID != "world_t" || h.Tuning.Robots.Count != 3 {
		t.Fatalf("header=%+v", h)
	}

	var last world.TickLogEntry
	n := 0
	if err := persistlog.ReadTicks(persistlog.EventsDir(res.RunDir), func(e world.TickLogEntry) error {
		last = e
		n++
		return nil
	}); err != nil {
		t.Fatalf("read ticks: %v", err)
	}
	if n != 30 || last.Tick != 29 || last.Digest != res.Digest {
		t.Fatalf("n=%d last=%+v digest=%s", n, last, res.Digest)
	}

	sum, err := indexdb.ReadSummary(context.Background(), filepath.Join(dataDir, "index.sqlite"), res.RunID)
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if sum.Ticks != 30 || sum.LastState != res.Digest || sum.Assigned < 3 {
		t.Fatalf("summary=%+v", sum)
	}

	out := buf.String()
	if !strings.Contains(out, "tuning not found") {
		t.Fatalf("expected defaults notice, log:\n%s", out)
	}
	if got := strings.Count(out, "tick="); got != 3 {
		t.Fatalf("progress lines=%d want 3, log:\n%s", got, out)
	}
}

func TestRun_DisableDBSkipsIndex(t *testing.T) {
	dataDir := t.TempDir()
	res, err := run(context.Background(), options{
		TuningPath: filepath.Join(dataDir, "missing.yaml"),
		DataDir:    dataDir,
		WorldID:    "w",
		Ticks:      2,
		DisableDB:  true,
	}, log.New(&bytes.Buffer{}, "", 0))
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dataDir, "index.sqlite")); !os.IsNotExist(err) {
		t.Fatalf("index should not exist: %v", err)
	}
	if _, err := os.Stat(filepath.Join(res.RunDir, "run.json")); err != nil {
		t.Fatalf("run header: %v", err)
	}
}

func TestRun_CancelledContextStopsEarly(t *testing.T) {
	dataDir := t.TempDir()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	res, err := run(ctx, options{
		TuningPath: filepath.Join(dataDir, "missing.yaml"),
		DataDir:    dataDir,
		WorldID:    "w",
		Ticks:      1000,
		DisableDB:  true,
	}, log.New(&bytes.Buffer{}, "", 0))
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if res.Ticks != 0 {
		t.Fatalf("ticks=%d want 0", res.Ticks)
	}
}

func TestResolveTuning_RejectsBadOverride(t *testing.T) {
	zero := 0
	_, err := resolveTuning(options{
		TuningPath: filepath.Join(t.TempDir(), "missing.yaml"),
		Robots:     &zero,
	}, log.New(&bytes.Buffer{}, "", 0))
	if err == nil {
		t.Fatalf("expected error for zero robots")
	}
}

type flakyTickLogger struct{ failAt map[uint64]bool }

func (f flakyTickLogger) WriteTick(e world.TickLogEntry) error {
	if f.failAt[e.Tick] {
		return os.ErrClosed
	}
	return nil
}

func TestReportingTickLogger_LogsOncePerBurst(t *testing.T) {
	var buf bytes.Buffer
	l := &reportingTickLogger{
		next:   flakyTickLogger{failAt: map[uint64]bool{2: true, 3: true, 4: true, 7: true}},
		logger: log.New(&buf, "", 0),
	}
	for tick := uint64(0); tick < 10; tick++ {
		_ = l.WriteTick(world.TickLogEntry{Tick: tick})
	}
	out := buf.String()
	if got := strings.Count(out, "write tick"); got != 2 {
		t.Fatalf("failure lines=%d want 2, log:\n%s", got, out)
	}
	if !strings.Contains(out, "recovered at tick 5 after 3 failed writes") {
		t.Fatalf("missing recovery line, log:\n%s", out)
	}
}
