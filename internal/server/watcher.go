package server

import (
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// watcher feeds filesystem changes under the document root into a reloadHub,
// debounced so a burst of saves produces one reload.
type watcher struct {
	fw       *fsnotify.Watcher
	hub      *reloadHub
	debounce time.Duration
	wg       sync.WaitGroup
}

func startWatcher(dir string, hub *reloadHub, debounce time.Duration) (*watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	// Add directories recursively, skipping hidden ones like .git
	err = filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			if base := filepath.Base(path); base[0] == '.' && path != dir && base != "." {
				return filepath.SkipDir
			}
			return fw.Add(path)
		}
		return nil
	})
	if err != nil {
		_ = fw.Close()
		return nil, err
	}

	w := &watcher{fw: fw, hub: hub, debounce: debounce}
	w.wg.Add(1)
	go w.loop()
	return w, nil
}

func (w *watcher) loop() {
	defer w.wg.Done()

	var debounceTimer *time.Timer
	for {
		select {
		case event, ok := <-w.fw.Events:
			if !ok {
				return
			}
			// Ignore chmod and other meta events
			if event.Op&fsnotify.Chmod != 0 {
				continue
			}

			if debounceTimer != nil {
				debounceTimer.Reset(w.debounce)
			} else {
				debounceTimer = time.AfterFunc(w.debounce, w.hub.broadcast)
			}

		case err, ok := <-w.fw.Errors:
			if !ok {
				return
			}
			log.Printf("Watcher error: %v", err)
		}
	}
}

func (w *watcher) stop() {
	if err := w.fw.Close(); err != nil {
		slog.Warn("Failed to close file watcher", "error", err)
	}
	w.wg.Wait()
}
