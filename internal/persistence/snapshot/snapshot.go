// Package snapshot writes and reads note snapshots: a zstd stream holding a
// JSON header line followed by one JSON note record per line.
package snapshot

import (
	"bufio"
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/klauspost/compress/zstd"
	"github.com/santhosh-tekuri/jsonschema/v5"

	"voxelcraft.ai/areas/internal/notes"
)

const Version = 1

type Header struct {
	Version   int       `json:"version"`
	Count     int       `json:"count"`
	CreatedAt time.Time `json:"created_at"`
}

var (
	//go:embed header.schema.json
	headerSchemaJSON string
	//go:embed note.schema.json
	noteSchemaJSON string

	schemasOnce  sync.Once
	headerSchema *jsonschema.Schema
	noteSchema   *jsonschema.Schema
	schemasErr   error
)

func schemas() (*jsonschema.Schema, *jsonschema.Schema, error) {
	schemasOnce.Do(func() {
		headerSchema, schemasErr = jsonschema.CompileString("header.schema.json", headerSchemaJSON)
		if schemasErr != nil {
			return
		}
		noteSchema, schemasErr = jsonschema.CompileString("note.schema.json", noteSchemaJSON)
	})
	return headerSchema, noteSchema, schemasErr
}

func WriteSnapshot(path string, recs []notes.Record) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := Encode(f, recs); err != nil {
		return err
	}
	return f.Close()
}

func Encode(w io.Writer, recs []notes.Record) error {
	enc, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return err
	}
	bw := bufio.NewWriterSize(enc, 256*1024)
	je := json.NewEncoder(bw)
	if err := je.Encode(Header{Version: Version, Count: len(recs), CreatedAt: time.Now().UTC()}); err != nil {
		_ = enc.Close()
		return err
	}
	for _, r := range recs {
		if err := je.Encode(r); err != nil {
			_ = enc.Close()
			return fmt.Errorf("encode %s: %w", r.Name, err)
		}
	}
	if err := bw.Flush(); err != nil {
		_ = enc.Close()
		return err
	}
	return enc.Close()
}

func ReadSnapshot(path string) (Header, []notes.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return Header{}, nil, err
	}
	defer f.Close()
	return Decode(f)
}

// Decode reads and validates a snapshot stream.
func Decode(r io.Reader) (Header, []notes.Record, error) {
	var hdr Header
	hs, ns, err := schemas()
	if err != nil {
		return hdr, nil, fmt.Errorf("snapshot schemas: %w", err)
	}
	dec, err := zstd.NewReader(r)
	if err != nil {
		return hdr, nil, err
	}
	defer dec.Close()

	br := bufio.NewReaderSize(dec, 256*1024)
	line, err := br.ReadBytes('\n')
	if err != nil && len(line) == 0 {
		return hdr, nil, fmt.Errorf("snapshot header: %w", err)
	}
	if err := validate(hs, line); err != nil {
		return hdr, nil, fmt.Errorf("snapshot header: %w", err)
	}
	if err := json.Unmarshal(line, &hdr); err != nil {
		return hdr, nil, fmt.Errorf("snapshot header: %w", err)
	}

	recs := make([]notes.Record, 0, hdr.Count)
	for n := 1; ; n++ {
		line, err := br.ReadBytes('\n')
		if len(bytes.TrimSpace(line)) > 0 {
			if verr := validate(ns, line); verr != nil {
				return hdr, nil, fmt.Errorf("snapshot record %d: %w", n, verr)
			}
			var rec notes.Record
			if uerr := json.Unmarshal(line, &rec); uerr != nil {
				return hdr, nil, fmt.Errorf("snapshot record %d: %w", n, uerr)
			}
			recs = append(recs, rec)
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return hdr, nil, err
		}
	}
	if len(recs) != hdr.Count {
		return hdr, nil, fmt.Errorf("snapshot count mismatch: header=%d records=%d", hdr.Count, len(recs))
	}
	return hdr, recs, nil
}

func validate(s *jsonschema.Schema, raw []byte) error {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return err
	}
	return s.Validate(v)
}
