package log

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/klauspost/compress/zstd"

	"exolore.ai/internal/sim/world"
)

// ErrStop may be returned by a ReadTicks callback to end iteration early
// without an error.
var ErrStop = errors.New("stop")

// ListEventFiles returns the tick log segments in dir in chronological order.
func ListEventFiles(dir string) ([]string, error) {
	ents, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	type seg struct {
		hour time.Time
		path string
	}
	segs := make([]seg, 0, len(ents))
	for _, e := range ents {
		if e.IsDir() {
			continue
		}
		hour, ok := parseSegmentName(eventsPrefix, e.Name())
		if !ok {
			continue
		}
		segs = append(segs, seg{hour: hour, path: filepath.Join(dir, e.Name())})
	}
	sort.Slice(segs, func(i, j int) bool { return segs[i].hour.Before(segs[j].hour) })
	out := make([]string, len(segs))
	for i, s := range segs {
		out[i] = s.path
	}
	return out, nil
}

// ReadTicks decodes every entry of every tick log file under dir, in order.
func ReadTicks(dir string, fn func(world.TickLogEntry) error) error {
	files, err := ListEventFiles(dir)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no events files found in %s", dir)
	}
	for _, path := range files {
		if err := readFile(path, fn); err != nil {
			if errors.Is(err, ErrStop) {
				return nil
			}
			return err
		}
	}
	return nil
}

func readFile(path string, fn func(world.TickLogEntry) error) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	dec, err := zstd.NewReader(f)
	if err != nil {
		return err
	}
	defer dec.Close()

	sc := bufio.NewScanner(dec)
	sc.Buffer(make([]byte, 64*1024), 8*1024*1024)
	for sc.Scan() {
		var entry world.TickLogEntry
		if err := json.Unmarshal(sc.Bytes(), &entry); err != nil {
			return fmt.Errorf("%s: unmarshal: %w", filepath.Base(path), err)
		}
		if err := fn(entry); err != nil {
			return err
		}
	}
	return sc.Err()
}
