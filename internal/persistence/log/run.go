package log

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"exolore.ai/internal/sim/tuning"
)

const runHeaderFile = "run.json"

// RunHeader identifies a recorded run and carries everything needed to
// rebuild its initial world.
type RunHeader struct {
	RunID     string        `json:"run_id"`
	WorldID   string        `json:"world_id"`
	StartedAt time.Time     `json:"started_at"`
	Tuning    tuning.Tuning `json:"tuning"`
}

func NewRunHeader(worldID string, t tuning.Tuning) RunHeader {
	return RunHeader{
		RunID:     uuid.NewString(),
		WorldID:   worldID,
		StartedAt: time.Now().UTC(),
		Tuning:    t,
	}
}

func RunDir(dataDir, runID string) string { return filepath.Join(dataDir, "runs", runID) }

func WriteRunHeader(runDir string, h RunHeader) error {
	if _, err := uuid.Parse(h.RunID); err != nil {
		return fmt.Errorf("run id: %w", err)
	}
	if err := os.MkdirAll(runDir, 0o755); err != nil {
		return err
	}
	b, err := json.MarshalIndent(h, "", "  ")
	if err != nil {
		return err
	}
	tmp := filepath.Join(runDir, runHeaderFile+".tmp")
	if err := os.WriteFile(tmp, append(b, '\n'), 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, filepath.Join(runDir, runHeaderFile))
}

func ReadRunHeader(runDir string) (RunHeader, error) {
	b, err := os.ReadFile(filepath.Join(runDir, runHeaderFile))
	if err != nil {
		return RunHeader{}, err
	}
	var h RunHeader
	if err := json.Unmarshal(b, &h); err != nil {
		return RunHeader{}, fmt.Errorf("%s: %w", runHeaderFile, err)
	}
	if _, err := uuid.Parse(h.RunID); err != nil {
		return RunHeader{}, fmt.Errorf("%s: run id: %w", runHeaderFile, err)
	}
	return h, nil
}
