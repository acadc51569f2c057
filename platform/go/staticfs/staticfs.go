// Package staticfs reads the built web bundle from local disk or a storage bucket.
package staticfs

import (
	"context"
	"errors"
	"path"
	"strings"
)

// Errors returned by FS implementations.
var (
	ErrNotFound    = errors.New("static file not found")
	ErrIsDirectory = errors.New("static path is a directory")
)

// FS reads files addressed by slash-separated names relative to the static root.
type FS interface {
	ReadFile(ctx context.Context, name string) ([]byte, error)
}

// CleanName maps a request path to a root-relative name. The result never escapes the
// root; the empty string denotes the root itself.
func CleanName(requestPath string) string {
	return strings.TrimPrefix(path.Clean("/"+requestPath), "/")
}
