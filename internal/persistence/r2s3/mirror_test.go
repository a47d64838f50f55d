package r2s3

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3"
)

type fakeS3 struct {
	mu      sync.Mutex
	objects map[string][]byte
	failN   int
}

func (f *fakeS3) PutObject(ctx context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failN > 0 {
		f.failN--
		return nil, errors.New("503 slow down")
	}
	b, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	if f.objects == nil {
		f.objects = map[string][]byte{}
	}
	f.objects[*in.Bucket+"/"+*in.Key] = b
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) get(key string) ([]byte, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.objects[key]
	return b, ok
}

func TestMirror_UploadsRelativeKeysWithRetry(t *testing.T) {
	dir := t.TempDir()
	snap := filepath.Join(dir, "snapshots", "20260102T030405Z.snap.zst")
	if err := os.MkdirAll(filepath.Dir(snap), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(snap, []byte("payload"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	outside := filepath.Join(t.TempDir(), "x.snap.zst")
	_ = os.WriteFile(outside, []byte("nope"), 0o644)

	fake := &fakeS3{failN: 1}
	m := NewMirror(NewWithAPI(fake, "notes"), dir, "/areas/", 1, nil)
	m.retryDelay = time.Millisecond
	m.Enqueue(snap)
	m.Enqueue(outside)
	m.Close()

	b, ok := fake.get("notes/areas/snapshots/20260102T030405Z.snap.zst")
	if !ok || string(b) != "payload" {
		t.Fatalf("uploaded objects: %v", fake.objects)
	}
	if len(fake.objects) != 1 {
		t.Fatalf("file outside base dir should be skipped: %v", fake.objects)
	}
}

func TestNormalizeObjectKey(t *testing.T) {
	cases := map[string]string{
		"/a/b.zst":      "a/b.zst",
		`a\b\c.zst`:     "a/b/c.zst",
		"a/../../b.zst": "b.zst",
		"  ":            "",
		"/":             "",
	}
	for in, want := range cases {
		if got := normalizeObjectKey(in); got != want {
			t.Fatalf("normalizeObjectKey(%q)=%q want %q", in, got, want)
		}
	}
}
