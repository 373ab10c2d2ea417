package indexdb

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	_ "modernc.org/sqlite"

	persistlog "exolore.ai/internal/persistence/log"
	"exolore.ai/internal/sim/world"
)

const schemaVersion = "1"

// SQLiteIndex is a queryable read model of recorded runs. Writes are queued
// and applied by a single writer goroutine; the tick log stays the source of
// truth.
type SQLiteIndex struct {
	db *sql.DB

	ch   chan req
	wg   sync.WaitGroup
	once sync.Once

	closed atomic.Bool
	runID  atomic.Value // string

	dropTickTotal atomic.Uint64
	writeErrTotal atomic.Uint64
}

type req struct {
	runID string
	tick  world.TickLogEntry
}

type Stats struct {
	QueueDepth    int    `json:"queue_depth"`
	QueueCapacity int    `json:"queue_capacity"`
	DropTickTotal uint64 `json:"drop_tick_total"`
	WriteErrTotal uint64 `json:"write_err_total"`
}

// RunSummary aggregates the indexed ticks of one run.
type RunSummary struct {
	RunID     string
	WorldID   string
	Seed      int64
	Ticks     int64
	LastTick  int64
	Assigned  int64
	Released  int64
	LastState string
}

func OpenSQLite(path string) (*SQLiteIndex, error) {
	return openSQLite(path, 65536)
}

func openSQLite(path string, queue int) (*SQLiteIndex, error) {
	if path == "" {
		return nil, fmt.Errorf("empty db path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := initPragmas(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	s := &SQLiteIndex{
		db: db,
		ch: make(chan req, queue),
	}
	s.runID.Store("")
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.loop()
	}()
	return s, nil
}

func initPragmas(db *sql.DB) error {
	// WAL suits the append-only workload.
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA foreign_keys=ON;",
		"PRAGMA busy_timeout=5000;",
		"PRAGMA temp_store=MEMORY;",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return err
		}
	}
	return nil
}

func initSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS meta (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS runs (
			run_id TEXT PRIMARY KEY,
			world_id TEXT NOT NULL,
			seed INTEGER NOT NULL,
			started_at TEXT NOT NULL,
			tuning_digest TEXT NOT NULL,
			tuning_json TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS ticks (
			run_id TEXT NOT NULL,
			tick INTEGER NOT NULL,
			dt REAL NOT NULL,
			digest TEXT NOT NULL,
			assigned INTEGER NOT NULL,
			released INTEGER NOT NULL,
			idle INTEGER NOT NULL,
			claimed INTEGER NOT NULL,
			moved INTEGER NOT NULL,
			raw_json TEXT NOT NULL,
			PRIMARY KEY (run_id, tick)
		);`,
		`CREATE TABLE IF NOT EXISTS assignments (
			run_id TEXT NOT NULL,
			tick INTEGER NOT NULL,
			seq INTEGER NOT NULL,
			robot_id INTEGER NOT NULL,
			obstacle_id INTEGER NOT NULL,
			kind TEXT NOT NULL,
			reason TEXT,
			PRIMARY KEY (run_id, tick, seq)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_assignments_robot ON assignments(run_id, robot_id, tick);`,
		`CREATE INDEX IF NOT EXISTS idx_assignments_obstacle ON assignments(run_id, obstacle_id, tick);`,
	}
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			return err
		}
	}
	_, err := db.Exec(`INSERT OR REPLACE INTO meta(key,value) VALUES('schema_version',?)`, schemaVersion)
	return err
}

func (s *SQLiteIndex) Close() error {
	var err error
	s.once.Do(func() {
		s.closed.Store(true)
		close(s.ch)
		s.wg.Wait()
		err = s.db.Close()
	})
	return err
}

// RecordRun stores the run header and makes it the run that subsequent
// WriteTick calls are filed under.
func (s *SQLiteIndex) RecordRun(h persistlog.RunHeader) error {
	if s == nil {
		return nil
	}
	if s.closed.Load() {
		return errors.New("index closed")
	}
	b, err := json.Marshal(h.Tuning)
	if err != nil {
		return err
	}
	sum := sha256.Sum256(b)
	_, err = s.db.Exec(
		`INSERT OR REPLACE INTO runs(run_id,world_id,seed,started_at,tuning_digest,tuning_json) VALUES(?,?,?,?,?,?)`,
		h.RunID, h.WorldID, h.Tuning.Seed, h.StartedAt.UTC().Format(time.RFC3339Nano), hex.EncodeToString(sum[:]), string(b),
	)
	if err != nil {
		return fmt.Errorf("record run: %w", err)
	}
	s.runID.Store(h.RunID)
	return nil
}

func (s *SQLiteIndex) WriteTick(entry world.TickLogEntry) error {
	if s == nil || s.closed.Load() {
		return nil
	}
	runID, _ := s.runID.Load().(string)
	if runID == "" {
		return errors.New("no run recorded")
	}
	select {
	case s.ch <- req{runID: runID, tick: entry}:
	default:
		// Drop if the indexer falls behind; the tick log remains the source of truth.
		s.dropTickTotal.Add(1)
	}
	return nil
}

func (s *SQLiteIndex) Stats() Stats {
	if s == nil {
		return Stats{}
	}
	return Stats{
		QueueDepth:    len(s.ch),
		QueueCapacity: cap(s.ch),
		DropTickTotal: s.dropTickTotal.Load(),
		WriteErrTotal: s.writeErrTotal.Load(),
	}
}

// ReadSummary opens the index at path and aggregates runID. Call it
// after Close to see every queued tick.
func ReadSummary(ctx context.Context, path, runID string) (RunSummary, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return RunSummary{}, err
	}
	defer db.Close()

	out := RunSummary{RunID: runID}
	row := db.QueryRowContext(ctx, `SELECT world_id,seed FROM runs WHERE run_id=?`, runID)
	if err := row.Scan(&out.WorldID, &out.Seed); err != nil {
		return RunSummary{}, fmt.Errorf("run %s: %w", runID, err)
	}
	row = db.QueryRowContext(ctx,
		`SELECT COUNT(*), COALESCE(MAX(tick),-1), COALESCE(SUM(assigned),0), COALESCE(SUM(released),0) FROM ticks WHERE run_id=?`, runID)
	if err := row.Scan(&out.Ticks, &out.LastTick, &out.Assigned, &out.Released); err != nil {
		return RunSummary{}, err
	}
	if out.Ticks > 0 {
		row = db.QueryRowContext(ctx, `SELECT digest FROM ticks WHERE run_id=? AND tick=?`, runID, out.LastTick)
		if err := row.Scan(&out.LastState); err != nil {
			return RunSummary{}, err
		}
	}
	return out, nil
}

func (s *SQLiteIndex) loop() {
	ctx := context.Background()

	insertTick, _ := s.db.Prepare(`INSERT OR REPLACE INTO ticks(run_id,tick,dt,digest,assigned,released,idle,claimed,moved,raw_json) VALUES(?,?,?,?,?,?,?,?,?,?)`)
	insertChange, _ := s.db.Prepare(`INSERT OR REPLACE INTO assignments(run_id,tick,seq,robot_id,obstacle_id,kind,reason) VALUES(?,?,?,?,?,?,?)`)
	defer func() {
		if insertTick != nil {
			_ = insertTick.Close()
		}
		if insertChange != nil {
			_ = insertChange.Close()
		}
	}()

	var (
		tx            *sql.Tx
		opCount       int
		lastCommit    = time.Now()
		commitEvery   = 2000
		commitMaxWait = 2 * time.Second
	)

	begin := func() {
		if tx != nil {
			return
		}
		txx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			s.writeErrTotal.Add(1)
			time.Sleep(50 * time.Millisecond)
			return
		}
		tx = txx
		opCount = 0
		lastCommit = time.Now()
	}
	commit := func() {
		if tx == nil {
			return
		}
		if err := tx.Commit(); err != nil {
			s.writeErrTotal.Add(1)
		}
		tx = nil
		opCount = 0
		lastCommit = time.Now()
	}
	rollback := func() {
		if tx == nil {
			return
		}
		s.writeErrTotal.Add(1)
		_ = tx.Rollback()
		tx = nil
		opCount = 0
		lastCommit = time.Now()
	}

	for r := range s.ch {
		begin()
		if tx == nil || insertTick == nil || insertChange == nil {
			continue
		}
		if err := writeTick(tx.Stmt(insertTick), tx.Stmt(insertChange), r); err != nil {
			rollback()
			continue
		}
		opCount += 1 + len(r.tick.Assigned) + len(r.tick.Released)
		if opCount >= commitEvery || time.Since(lastCommit) >= commitMaxWait {
			commit()
		}
	}

	commit()
}

func writeTick(insertTick, insertChange *sql.Stmt, r req) error {
	e := r.tick
	raw, err := json.Marshal(e)
	if err != nil {
		return err
	}
	if _, err := insertTick.Exec(
		r.runID,
		int64(e.Tick),
		e.DT,
		e.Digest,
		len(e.Assigned),
		len(e.Released),
		len(e.Idle),
		e.Claimed,
		e.Steering.Moved,
		string(raw),
	); err != nil {
		return err
	}
	seq := 0
	for _, c := range e.Released {
		if _, err := insertChange.Exec(r.runID, int64(e.Tick), seq, c.RobotID, uint32(c.Obstacle), "release", string(c.Reason)); err != nil {
			return err
		}
		seq++
	}
	for _, c := range e.Assigned {
		if _, err := insertChange.Exec(r.runID, int64(e.Tick), seq, c.RobotID, uint32(c.Obstacle), "assign", nil); err != nil {
			return err
		}
		seq++
	}
	return nil
}
