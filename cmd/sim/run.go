package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"path/filepath"
	"time"

	"exolore.ai/internal/persistence/indexdb"
	persistlog "exolore.ai/internal/persistence/log"
	"exolore.ai/internal/sim/tuning"
	"exolore.ai/internal/sim/world"
)

type options struct {
	TuningPath string
	DataDir    string
	WorldID    string
	Ticks      uint64
	DisableDB  bool

	// Overrides; nil keeps the tuning value.
	Seed      *int64
	Robots    *int
	Obstacles *int
	LogEvery  *int
}

type result struct {
	RunID  string
	RunDir string
	Ticks  uint64
	Digest string
}

func resolveTuning(opts options, logger *log.Logger) (tuning.Tuning, error) {
	tune, found, err := tuning.LoadOrDefaults(opts.TuningPath)
	if err != nil {
		return tune, fmt.Errorf("load tuning: %w", err)
	}
	if !found {
		logger.Printf("tuning not found (%s); using defaults", opts.TuningPath)
	}
	if opts.Seed != nil {
		tune.Seed = *opts.Seed
	}
	if opts.Robots != nil {
		tune.Robots.Count = *opts.Robots
	}
	if opts.Obstacles != nil {
		tune.Obstacles.Count = *opts.Obstacles
	}
	if opts.LogEvery != nil {
		tune.LogEveryTicks = *opts.LogEvery
	}
	if err := tune.Validate(); err != nil {
		return tune, fmt.Errorf("tuning: %w", err)
	}
	return tune, nil
}

func run(ctx context.Context, opts options, logger *log.Logger) (result, error) {
	tune, err := resolveTuning(opts, logger)
	if err != nil {
		return result{}, err
	}
	cfg, err := world.ConfigFromTuning(opts.WorldID, tune)
	if err != nil {
		return result{}, err
	}
	w, err := world.New(cfg)
	if err != nil {
		return result{}, fmt.Errorf("world: %w", err)
	}

	header := persistlog.NewRunHeader(opts.WorldID, tune)
	runDir := persistlog.RunDir(opts.DataDir, header.RunID)
	if err := persistlog.WriteRunHeader(runDir, header); err != nil {
		return result{}, fmt.Errorf("run header: %w", err)
	}
	logger.Printf("run %s: world=%s seed=%d robots=%d obstacles=%d speed=%g selection=%s",
		header.RunID, opts.WorldID, tune.Seed, tune.Robots.Count, tune.Obstacles.Count, tune.Robots.Speed, tune.TargetSelection)

	var idx *indexdb.SQLiteIndex
	dbPath := filepath.Join(opts.DataDir, "index.sqlite")
	if !opts.DisableDB {
		idx, err = indexdb.OpenSQLite(dbPath)
		if err != nil {
			return result{}, fmt.Errorf("open index: %w", err)
		}
		if err := idx.RecordRun(header); err != nil {
			_ = idx.Close()
			return result{}, err
		}
	}

	tickLog := persistlog.NewTickLogger(runDir)
	w.SetTickLogger(multiTickLogger{a: &reportingTickLogger{next: tickLog, logger: logger}, b: idx})

	progress := newProgressLogger(w, tune.LogEveryTicks, logger)
	if opts.Ticks > 0 {
		dt := 1.0 / float64(tune.TickRateHz)
		for i := uint64(0); i < opts.Ticks; i++ {
			if ctx.Err() != nil {
				logger.Printf("interrupted at tick %d", w.CurrentTick())
				break
			}
			w.StepOnce(dt)
			progress.maybeLog()
		}
	} else {
		go progress.loop(ctx, time.Second/time.Duration(tune.TickRateHz))
		if err := w.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Printf("world stopped: %v", err)
		}
	}

	if err := tickLog.Close(); err != nil {
		logger.Printf("close tick log: %v", err)
	}
	if idx != nil {
		st := idx.Stats()
		if err := idx.Close(); err != nil {
			logger.Printf("close index: %v", err)
		}
		if st.DropTickTotal > 0 || st.WriteErrTotal > 0 {
			logger.Printf("index: dropped=%d write_errors=%d", st.DropTickTotal, st.WriteErrTotal)
		}
		if sum, err := indexdb.ReadSummary(context.Background(), dbPath, header.RunID); err != nil {
			logger.Printf("index summary: %v", err)
		} else {
			logger.Printf("index: ticks=%d assigned=%d released=%d", sum.Ticks, sum.Assigned, sum.Released)
		}
	}

	return result{
		RunID:  header.RunID,
		RunDir: runDir,
		Ticks:  w.CurrentTick(),
		Digest: w.StateDigest(),
	}, nil
}

type multiTickLogger struct {
	a world.TickLogger
	b world.TickLogger
}

func (m multiTickLogger) WriteTick(entry world.TickLogEntry) error {
	if m.a != nil {
		_ = m.a.WriteTick(entry)
	}
	if m.b != nil {
		_ = m.b.WriteTick(entry)
	}
	return nil
}

// reportingTickLogger logs the first failure of a burst and the recovery
// after it. The world ignores tick logger errors.
type reportingTickLogger struct {
	next    world.TickLogger
	logger  *log.Logger
	failing bool
	dropped uint64
}

func (l *reportingTickLogger) WriteTick(entry world.TickLogEntry) error {
	err := l.next.WriteTick(entry)
	switch {
	case err != nil && !l.failing:
		l.failing = true
		l.dropped = 1
		l.logger.Printf("tick log: write tick %d: %v", entry.Tick, err)
	case err != nil:
		l.dropped++
	case l.failing:
		l.failing = false
		l.logger.Printf("tick log: recovered at tick %d after %d failed writes", entry.Tick, l.dropped)
	}
	return err
}

// progressLogger prints a metrics line every n ticks (n <= 0 disables it).
type progressLogger struct {
	w      *world.World
	every  uint64
	logger *log.Logger
	next   uint64
}

func newProgressLogger(w *world.World, every int, logger *log.Logger) *progressLogger {
	p := &progressLogger{w: w, logger: logger}
	if every > 0 {
		p.every = uint64(every)
		p.next = p.every
	}
	return p
}

func (p *progressLogger) maybeLog() {
	if p.every == 0 {
		return
	}
	m := p.w.Metrics()
	if m.Tick < p.next {
		return
	}
	for p.next <= m.Tick {
		p.next += p.every
	}
	p.logger.Printf("tick=%d targeted=%d idle=%d assigned_total=%d released_total=%d step_ms=%.3f",
		m.Tick, m.Targeted, m.Idle, m.AssignedTotal, m.ReleasedTotal, m.StepMS)
}

func (p *progressLogger) loop(ctx context.Context, interval time.Duration) {
	if p.every == 0 {
		return
	}
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			p.maybeLog()
		}
	}
}
