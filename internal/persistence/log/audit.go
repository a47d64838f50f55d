// Package log keeps the note audit trail: one zstd JSONL file per UTC day
// under <dataDir>/audit, named notes-YYYY-MM-DD.jsonl.zst.
package log

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/klauspost/compress/zstd"

	"voxelcraft.ai/areas/internal/notes"
)

const dayLayout = "2006-01-02"

// NoteAuditLogger implements notes.Auditor. Files are chosen by the event's
// own time, so replaying old events lands them in their original day. Each
// event is flushed as a complete zstd block; a reopened day file gets a new
// frame appended after the old ones.
type NoteAuditLogger struct {
	dir string

	mu  sync.Mutex
	day string
	f   *os.File
	enc *zstd.Encoder
	je  *json.Encoder
}

func NewNoteAuditLogger(dataDir string) *NoteAuditLogger {
	return &NoteAuditLogger{dir: filepath.Join(dataDir, "audit")}
}

// Dir is where the day files live.
func (l *NoteAuditLogger) Dir() string { return l.dir }

func (l *NoteAuditLogger) WriteNoteEvent(ev notes.Event) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	day := ev.Time.UTC().Format(dayLayout)
	if day != l.day {
		if err := l.openLocked(day); err != nil {
			return err
		}
	}
	if err := l.je.Encode(ev); err != nil {
		return err
	}
	return l.enc.Flush()
}

func (l *NoteAuditLogger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.closeLocked()
}

func (l *NoteAuditLogger) openLocked(day string) error {
	if err := l.closeLocked(); err != nil {
		return err
	}
	if err := os.MkdirAll(l.dir, 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(dayPath(l.dir, day), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		_ = f.Close()
		return err
	}
	l.f, l.enc, l.je, l.day = f, enc, json.NewEncoder(enc), day
	return nil
}

func (l *NoteAuditLogger) closeLocked() error {
	var err error
	if l.enc != nil {
		err = l.enc.Close()
	}
	if l.f != nil {
		if cerr := l.f.Close(); err == nil {
			err = cerr
		}
	}
	l.f, l.enc, l.je, l.day = nil, nil, nil, ""
	return err
}

func dayPath(dir, day string) string {
	return filepath.Join(dir, fmt.Sprintf("notes-%s.jsonl.zst", day))
}

// ReadNoteEvents returns the events in dir oldest day first, keeping only
// those for name when name is set.
func ReadNoteEvents(dir, name string) ([]notes.Event, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "notes-*.jsonl.zst"))
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)
	name = strings.ToLower(strings.TrimSpace(name))

	var out []notes.Event
	for _, p := range paths {
		evs, err := readDay(p)
		if err != nil {
			return out, fmt.Errorf("audit %s: %w", filepath.Base(p), err)
		}
		for _, ev := range evs {
			if name == "" || ev.Name == name {
				out = append(out, ev)
			}
		}
	}
	return out, nil
}

func readDay(path string) ([]notes.Event, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	dec, err := zstd.NewReader(f)
	if err != nil {
		return nil, err
	}
	defer dec.Close()

	var out []notes.Event
	br := bufio.NewReader(dec)
	for {
		line, err := br.ReadBytes('\n')
		if len(strings.TrimSpace(string(line))) > 0 {
			var ev notes.Event
			if uerr := json.Unmarshal(line, &ev); uerr != nil {
				return out, uerr
			}
			out = append(out, ev)
		}
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return out, err
		}
	}
}
