package server

import (
	"fmt"
	"path"
	"strings"
)

// validatePath cleans a request path and rejects traversal attempts before
// anything touches the filesystem. The returned path is rooted ("/a/b.js").
func validatePath(userPath string) (string, error) {
	// Backslashes never appear in a legitimate URL path; they are a Windows
	// separator smuggling vector.
	if strings.Contains(userPath, "\\") {
		return "", fmt.Errorf("path traversal attempt detected")
	}

	// Reject any ".." before cleaning has a chance to fold it away.
	if strings.Contains(userPath, "..") {
		return "", fmt.Errorf("path traversal attempt detected")
	}

	return path.Clean("/" + userPath), nil
}
