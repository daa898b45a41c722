package server

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWatcher_SignalsOnChange(t *testing.T) {
	dir := t.TempDir()

	hub := newReloadHub()
	ch := hub.subscribe()

	w, err := startWatcher(dir, hub, 50*time.Millisecond)
	if err != nil {
		t.Fatalf("startWatcher: %v", err)
	}
	defer w.stop()

	if err := os.WriteFile(filepath.Join(dir, "index.html"), []byte("<html></html>"), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	select {
	case <-ch:
	case <-time.After(3 * time.Second):
		t.Fatal("no reload signal after a file change")
	}
}

func TestWatcher_DebouncesBursts(t *testing.T) {
	dir := t.TempDir()

	hub := newReloadHub()
	ch := hub.subscribe()

	w, err := startWatcher(dir, hub, 100*time.Millisecond)
	if err != nil {
		t.Fatalf("startWatcher: %v", err)
	}
	defer w.stop()

	// A burst of writes inside the debounce window collapses to one signal.
	for i := 0; i < 5; i++ {
		if err := os.WriteFile(filepath.Join(dir, "game.js"), []byte("//"), 0644); err != nil {
			t.Fatalf("WriteFile: %v", err)
		}
		time.Sleep(10 * time.Millisecond)
	}

	select {
	case <-ch:
	case <-time.After(3 * time.Second):
		t.Fatal("no reload signal after the burst")
	}

	// Allow any stray timer to fire, then confirm nothing extra arrived.
	time.Sleep(300 * time.Millisecond)
	select {
	case <-ch:
		t.Error("burst produced more than one reload signal")
	default:
	}
}

func TestWatcher_MissingDir(t *testing.T) {
	hub := newReloadHub()
	if _, err := startWatcher(filepath.Join(t.TempDir(), "nope"), hub, 50*time.Millisecond); err == nil {
		t.Error("startWatcher should fail for a missing directory")
	}
}
