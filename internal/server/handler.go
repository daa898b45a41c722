package server

import (
	"net/http"
	"os"
	"path"
	"regexp"
	"strings"

	"github.com/spf13/afero"

	"tileserve/internal/markdown"
)

// staticHandler serves a document root with the dev-server extras layered in
// front of plain file serving: traversal validation, the .js Content-Type
// override, ETags, cache headers and a 404.html fallback. Files are served
// through http.ServeContent rather than http.FileServer so that a direct
// GET /index.html answers 200 instead of redirecting to "./".
type staticHandler struct {
	fs      afero.Fs
	listing http.Handler
	md      *markdown.Renderer
}

func newStaticHandler(fsys afero.Fs, renderMarkdown bool) *staticHandler {
	h := &staticHandler{
		fs:      fsys,
		listing: http.FileServer(afero.NewHttpFs(fsys).Dir("/")),
	}
	if renderMarkdown {
		h.md = markdown.NewRenderer()
	}
	return h
}

func (h *staticHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	cleanPath, err := validatePath(r.URL.Path)
	if err != nil {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte("403 - Forbidden: Invalid path"))
		return
	}

	info, err := h.fs.Stat(cleanPath)
	if err != nil {
		if os.IsNotExist(err) {
			h.serveNotFound(w)
		} else {
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte("500 - Internal Server Error"))
		}
		return
	}

	if info.IsDir() {
		if !strings.HasSuffix(r.URL.Path, "/") {
			http.Redirect(w, r, r.URL.Path+"/", http.StatusMovedPermanently)
			return
		}
		indexPath := path.Join(cleanPath, "index.html")
		idxInfo, err := h.fs.Stat(indexPath)
		if err != nil || idxInfo.IsDir() {
			// No index file; fall back to a directory listing.
			setNoStore(w)
			h.listing.ServeHTTP(w, r)
			return
		}
		cleanPath, info = indexPath, idxInfo
	}

	if h.md != nil && strings.HasSuffix(cleanPath, ".md") {
		h.serveMarkdown(w, cleanPath)
		return
	}

	// Tile game scripts must always go out as application/javascript, no
	// matter what the platform's MIME database thinks of .js.
	if strings.HasSuffix(cleanPath, ".js") {
		w.Header().Set("Content-Type", "application/javascript")
	}

	etag := fileETag(cleanPath, info)
	w.Header().Set("ETag", etag)
	if r.Header.Get("If-None-Match") == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	filename := path.Base(cleanPath)
	switch {
	case isHashedAsset(filename):
		w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
	case strings.HasSuffix(filename, ".html"):
		setNoStore(w)
	default:
		w.Header().Set("Cache-Control", "public, max-age=60")
	}

	h.serveFile(w, r, cleanPath, info)
}

func (h *staticHandler) serveFile(w http.ResponseWriter, r *http.Request, cleanPath string, info os.FileInfo) {
	f, err := h.fs.Open(cleanPath)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("500 - Internal Server Error"))
		return
	}
	defer func() { _ = f.Close() }()

	http.ServeContent(w, r, path.Base(cleanPath), info.ModTime(), f)
}

func (h *staticHandler) serveNotFound(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNotFound)
	if content, err := afero.ReadFile(h.fs, "/404.html"); err == nil {
		_, _ = w.Write(content)
		return
	}
	_, _ = w.Write([]byte("404 - Page Not Found"))
}

func (h *staticHandler) serveMarkdown(w http.ResponseWriter, cleanPath string) {
	source, err := afero.ReadFile(h.fs, cleanPath)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("500 - Internal Server Error"))
		return
	}

	page, err := h.md.RenderPage(source)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("500 - Failed to render markdown"))
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(page)
}

func setNoStore(w http.ResponseWriter) {
	w.Header().Set("Cache-Control", "no-store, no-cache, must-revalidate, proxy-revalidate")
	w.Header().Set("Pragma", "no-cache")
	w.Header().Set("Expires", "0")
}

// Matches content-hashed asset names like layout.a1b2c3d4.css or
// main.1234567890ab.js.
var hashedAssetRe = regexp.MustCompile(`\.[0-9a-fA-F]{8,12}\.[^.]+$`)

func isHashedAsset(filename string) bool {
	return hashedAssetRe.MatchString(filename)
}
