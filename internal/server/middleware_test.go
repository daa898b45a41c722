package server

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/klauspost/compress/gzip"
)

func textHandler(contentType, body string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", contentType)
		_, _ = w.Write([]byte(body))
	})
}

func TestGzipHandler_Negotiated(t *testing.T) {
	h := gzipHandler(textHandler("text/html", "<html><body>tile game</body></html>"))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if enc := rec.Header().Get("Content-Encoding"); enc != "gzip" {
		t.Fatalf("Content-Encoding = %q, want gzip", enc)
	}

	gz, err := gzip.NewReader(rec.Body)
	if err != nil {
		t.Fatalf("gzip.NewReader: %v", err)
	}
	defer func() { _ = gz.Close() }()

	body, err := io.ReadAll(gz)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if string(body) != "<html><body>tile game</body></html>" {
		t.Errorf("decompressed body = %q", body)
	}
}

func TestGzipHandler_NotNegotiated(t *testing.T) {
	h := gzipHandler(textHandler("text/html", "plain"))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if enc := rec.Header().Get("Content-Encoding"); enc != "" {
		t.Errorf("Content-Encoding = %q, want none", enc)
	}
	if rec.Body.String() != "plain" {
		t.Errorf("body = %q, want %q", rec.Body.String(), "plain")
	}
}

func TestMinifyHandler_HTML(t *testing.T) {
	sloppy := "<html>\n  <body>\n    <p>tiles</p>\n  </body>\n</html>\n"
	h := minifyHandler(textHandler("text/html", sloppy))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	body := rec.Body.String()
	if len(body) >= len(sloppy) {
		t.Errorf("minified body is not smaller: %d >= %d", len(body), len(sloppy))
	}
	if !strings.Contains(body, "tiles") {
		t.Errorf("minified body lost content: %q", body)
	}
	if strings.Contains(body, "\n  ") {
		t.Errorf("minified body still has indentation: %q", body)
	}
}

func TestMinifyHandler_LeavesUnknownTypesAlone(t *testing.T) {
	body := "raw   bytes   untouched"
	h := minifyHandler(textHandler("application/octet-stream", body))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Body.String() != body {
		t.Errorf("body = %q, want %q", rec.Body.String(), body)
	}
}
