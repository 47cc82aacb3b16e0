package journal

import (
	"context"
	"encoding/json"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/pixil98/go-testutil"
)

type record struct {
	Type string `json:"type"`
	Seq  int    `json:"seq"`
}

func TestWriter_AppendAndRead(t *testing.T) {
	dir := t.TempDir()
	at := time.Date(2026, 3, 4, 10, 30, 0, 0, time.UTC)
	w := NewWriter(dir, "events", WithClock(func() time.Time { return at }))

	for i := range 3 {
		if err := w.Append(record{Type: "tick", Seq: i + 1}); err != nil {
			t.Fatalf("Append() unexpected error: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close() unexpected error: %v", err)
	}

	recs, err := ReadFile(filepath.Join(dir, "events-2026-03-04-10.jsonl.zst"))
	if err != nil {
		t.Fatalf("ReadFile() unexpected error: %v", err)
	}
	testutil.AssertEqual(t, "records", len(recs), 3)

	var last record
	if err := json.Unmarshal(recs[2], &last); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	testutil.AssertEqual(t, "last", last, record{Type: "tick", Seq: 3})
}

func TestWriter_RotatesHourly(t *testing.T) {
	dir := t.TempDir()
	var mu sync.Mutex
	at := time.Date(2026, 3, 4, 10, 59, 0, 0, time.UTC)
	w := NewWriter(dir, "events", WithClock(func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		return at
	}))

	if err := w.Append(record{Type: "a"}); err != nil {
		t.Fatalf("Append() unexpected error: %v", err)
	}
	mu.Lock()
	at = at.Add(2 * time.Minute)
	mu.Unlock()
	if err := w.Append(record{Type: "b"}); err != nil {
		t.Fatalf("Append() unexpected error: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close() unexpected error: %v", err)
	}

	files, err := filepath.Glob(filepath.Join(dir, "events-*.jsonl.zst"))
	if err != nil {
		t.Fatalf("glob: %v", err)
	}
	testutil.AssertEqual(t, "files", len(files), 2)

	for _, f := range files {
		recs, err := ReadFile(f)
		if err != nil {
			t.Fatalf("ReadFile(%s) unexpected error: %v", f, err)
		}
		testutil.AssertEqual(t, "records per file", len(recs), 1)
	}
}

func TestWriter_StartClosesOnCancel(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(dir, "sessions")
	if err := w.Append(map[string]string{"type": "join"}); err != nil {
		t.Fatalf("Append() unexpected error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Start(ctx) }()
	cancel()
	if err := <-done; err != nil {
		t.Fatalf("Start() returned %v", err)
	}

	files, _ := filepath.Glob(filepath.Join(dir, "sessions-*.jsonl.zst"))
	testutil.AssertEqual(t, "files", len(files), 1)
	recs, err := ReadFile(files[0])
	if err != nil {
		t.Fatalf("ReadFile() unexpected error: %v", err)
	}
	testutil.AssertEqual(t, "records", len(recs), 1)
}
