// Package server implements the tileserve dev server: static files from a
// document root on localhost, with a one-shot delayed browser launch.
package server

import (
	"context"
	"fmt"
	"log"
	"mime"
	"net"
	"net/http"
	"time"

	"github.com/pkg/browser"
	"github.com/spf13/afero"

	"tileserve/internal/config"
)

const shutdownTimeout = 5 * time.Second

// Run starts the server and blocks until ctx is cancelled or the listener
// fails. Both a bind failure and an interrupt print a message and return
// normally; the process exits 0 either way.
func Run(ctx context.Context, args []string) {
	cfg := config.Load(args)
	RunWithConfig(ctx, cfg)
}

// RunWithConfig is Run with an already-resolved configuration.
func RunWithConfig(ctx context.Context, cfg *config.Config) {
	// Force register the WASM mime type
	_ = mime.AddExtensionType(".wasm", "application/wasm")

	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)

	// Listen explicitly so a taken port is caught before anything is served.
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		fmt.Printf("Port %d in use. Try: tileserve %d\n", cfg.Port, cfg.Port+1)
		return
	}

	fsys := afero.NewBasePathFs(afero.NewOsFs(), cfg.Dir)

	var handler http.Handler = newStaticHandler(fsys, cfg.Markdown)
	if cfg.Compress {
		handler = minifyHandler(handler)
	}
	handler = gzipHandler(handler)

	mux := http.NewServeMux()
	mux.Handle("/", handler)

	if cfg.Watch {
		hub := newReloadHub()
		mux.HandleFunc("/events", hub.handleSSE)
		if w, err := startWatcher(cfg.Dir, hub, 300*time.Millisecond); err != nil {
			log.Printf("Failed to start file watcher: %v", err)
		} else {
			defer w.stop()
		}
	}

	url := fmt.Sprintf("http://%s/%s", addr, cfg.Index)
	fmt.Printf("🌐 Server running at %s\n", url)
	fmt.Println("   Press Ctrl+C to stop")
	if cfg.Watch {
		fmt.Println("   (Auto-reload enabled via /events)")
	}

	if cfg.OpenBrowser {
		// A fixed delay, not a readiness check. If startup is slower than
		// the delay the browser loses the race and the user hits reload.
		time.AfterFunc(cfg.Delay, func() {
			_ = browser.OpenURL(url)
		})
	}

	httpServer := &http.Server{Handler: mux}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			log.Printf("HTTP server shutdown error: %v", err)
		}
	}()

	if err := httpServer.Serve(ln); err != nil && err != http.ErrServerClosed {
		log.Printf("Server error: %v", err)
		return
	}
	fmt.Println("\n✅ Server stopped")
}
