package staticfs

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// Local serves files from a directory on disk.
type Local struct {
	root string
}

// NewLocal returns a Local rooted at dir.
func NewLocal(dir string) *Local {
	if dir == "" {
		panic("static root is required")
	}
	return &Local{root: dir}
}

// ReadFile implements FS.
func (l *Local) ReadFile(_ context.Context, name string) ([]byte, error) {
	full := filepath.Join(l.root, filepath.FromSlash(CleanName(name)))

	info, err := os.Stat(full)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("stat %s: %w", name, err)
	}
	if info.IsDir() {
		return nil, ErrIsDirectory
	}

	data, err := os.ReadFile(full)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	return data, nil
}

var _ FS = (*Local)(nil)
