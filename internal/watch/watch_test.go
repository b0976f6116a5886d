package watch

import (
	"os"
	"path/filepath"
	"slices"
	"sync/atomic"
	"testing"
	"time"
)

func TestDebouncerCoalesces(t *testing.T) {
	d := NewDebouncer(30 * time.Millisecond)
	var calls atomic.Int32
	var last atomic.Int32
	for i := 1; i <= 5; i++ {
		d.Trigger(func() {
			calls.Add(1)
			last.Store(int32(i))
		})
		time.Sleep(5 * time.Millisecond)
	}
	time.Sleep(120 * time.Millisecond)
	if calls.Load() != 1 || last.Load() != 5 {
		t.Fatalf("calls = %d, last = %d; want one call from the last trigger", calls.Load(), last.Load())
	}
}

func TestDebouncerCancel(t *testing.T) {
	d := NewDebouncer(20 * time.Millisecond)
	var calls atomic.Int32
	d.Trigger(func() { calls.Add(1) })
	d.Cancel()
	time.Sleep(60 * time.Millisecond)
	if calls.Load() != 0 {
		t.Fatalf("cancelled callback ran %d times", calls.Load())
	}
}

func TestWatcherReportsChanges(t *testing.T) {
	dir := t.TempDir()
	watched := filepath.Join(dir, "watched.txt")
	other := filepath.Join(dir, "other.txt")
	for _, p := range []string{watched, other} {
		if err := os.WriteFile(p, []byte("v1"), 0o600); err != nil {
			t.Fatalf("write: %v", err)
		}
	}

	got := make(chan []string, 4)
	w, err := New([]string{watched}, 20*time.Millisecond, func(paths []string) { got <- paths })
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer w.Close()

	if err := os.WriteFile(other, []byte("v2"), 0o600); err != nil {
		t.Fatalf("write other: %v", err)
	}
	if err := os.WriteFile(watched, []byte("v2"), 0o600); err != nil {
		t.Fatalf("write watched: %v", err)
	}

	want, _ := filepath.Abs(watched)
	select {
	case paths := <-got:
		if !slices.Equal(paths, []string{want}) {
			t.Fatalf("paths = %v, want [%s]", paths, want)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("no change reported")
	}
}

func TestCloseNil(t *testing.T) {
	var w *Watcher
	if err := w.Close(); err != nil {
		t.Fatalf("Close on nil: %v", err)
	}
}
