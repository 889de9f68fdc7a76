package watch

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestIsDumpArchive(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"Freemium_legi_global_20200101-120000.tar.gz", true},
		{"legi.tar", true},
		{"legi.tgz", true},
		{"legi.tar.bz2", true},
		{"legi.tar.gz.part", false},
		{"README.md", false},
	}
	for _, tt := range tests {
		if got := isDumpArchive(tt.name); got != tt.want {
			t.Errorf("isDumpArchive(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestWatcherEmitsOnNewDump(t *testing.T) {
	dir := t.TempDir()
	w, err := New(Config{Dir: dir, Debounce: 50 * time.Millisecond})
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Start(); err != nil {
		t.Fatal(err)
	}
	defer w.Close()

	// A non-archive file must not produce an event.
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(dir, "Freemium_legi_global_20200101-120000.tar.gz")
	if err := os.WriteFile(path, []byte("not a real archive"), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case ev := <-w.Events():
		if ev.Path != path {
			t.Errorf("event path = %q, want %q", ev.Path, path)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no event received")
	}

	// The debounce window should have swallowed any duplicate.
	select {
	case ev := <-w.Events():
		t.Errorf("unexpected second event for %q", ev.Path)
	case <-time.After(200 * time.Millisecond):
	}
}

func TestWatcherRequiresDir(t *testing.T) {
	if _, err := New(Config{}); err == nil {
		t.Error("New accepted an empty directory")
	}
}
