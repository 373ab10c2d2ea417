package log

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/klauspost/compress/zstd"

	"exolore.ai/internal/sim/world"
)

const (
	eventsPrefix  = "events"
	segmentSuffix = ".jsonl.zst"
	hourLayout    = "2006-01-02-15"
)

// segmentName is the file name of the hour-long segment starting at hour (UTC).
func segmentName(prefix string, hour time.Time) string {
	return prefix + "-" + hour.UTC().Format(hourLayout) + segmentSuffix
}

// parseSegmentName reports the hour a segment file covers. Names that are not
// segments of prefix are rejected.
func parseSegmentName(prefix, name string) (time.Time, bool) {
	rest, ok := strings.CutPrefix(name, prefix+"-")
	if !ok {
		return time.Time{}, false
	}
	stamp, ok := strings.CutSuffix(rest, segmentSuffix)
	if !ok {
		return time.Time{}, false
	}
	hour, err := time.Parse(hourLayout, stamp)
	if err != nil {
		return time.Time{}, false
	}
	return hour, true
}

// segment is one open compressed file. Lines go through buf into the zstd
// frame; close flushes both before closing the file.
type segment struct {
	hour time.Time
	f    *os.File
	enc  *zstd.Encoder
	buf  *bufio.Writer
}

func openSegment(dir, prefix string, hour time.Time) (*segment, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	f, err := os.OpenFile(filepath.Join(dir, segmentName(prefix, hour)), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, err
	}
	// Appending to an existing segment starts a new zstd frame; readers decode
	// concatenated frames as one stream.
	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	return &segment{hour: hour, f: f, enc: enc, buf: bufio.NewWriterSize(enc, 128*1024)}, nil
}

func (s *segment) writeLine(b []byte) error {
	if _, err := s.buf.Write(b); err != nil {
		return err
	}
	return s.buf.WriteByte('\n')
}

func (s *segment) flush() error {
	if err := s.buf.Flush(); err != nil {
		return err
	}
	return s.enc.Flush()
}

func (s *segment) close() error {
	err := s.buf.Flush()
	if cerr := s.enc.Close(); err == nil {
		err = cerr
	}
	if cerr := s.f.Close(); err == nil {
		err = cerr
	}
	return err
}

// JSONLZstdWriter appends one JSON document per line to zstd-compressed
// segments under dir, starting a new segment every UTC hour.
type JSONLZstdWriter struct {
	dir    string
	prefix string
	now    func() time.Time

	mu  sync.Mutex
	cur *segment
}

func NewJSONLZstdWriter(dir, prefix string) *JSONLZstdWriter {
	return &JSONLZstdWriter{dir: dir, prefix: prefix, now: time.Now}
}

func (w *JSONLZstdWriter) Write(v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	hour := w.now().UTC().Truncate(time.Hour)
	if w.cur == nil || !w.cur.hour.Equal(hour) {
		if err := w.closeLocked(); err != nil {
			return err
		}
		seg, err := openSegment(w.dir, w.prefix, hour)
		if err != nil {
			return err
		}
		w.cur = seg
	}
	return w.cur.writeLine(b)
}

// Flush pushes buffered lines into the current zstd frame.
func (w *JSONLZstdWriter) Flush() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.cur == nil {
		return nil
	}
	return w.cur.flush()
}

func (w *JSONLZstdWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.closeLocked()
}

func (w *JSONLZstdWriter) closeLocked() error {
	if w.cur == nil {
		return nil
	}
	err := w.cur.close()
	w.cur = nil
	return err
}

// TickLogger writes one compressed JSONL entry per tick under <runDir>/events.
type TickLogger struct{ w *JSONLZstdWriter }

func NewTickLogger(runDir string) *TickLogger {
	return &TickLogger{w: NewJSONLZstdWriter(EventsDir(runDir), eventsPrefix)}
}

func (l *TickLogger) WriteTick(e world.TickLogEntry) error { return l.w.Write(e) }
func (l *TickLogger) Flush() error                         { return l.w.Flush() }
func (l *TickLogger) Close() error                         { return l.w.Close() }

func EventsDir(runDir string) string { return filepath.Join(runDir, "events") }
