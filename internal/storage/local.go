// Package storage persists uploaded media.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

var (
	ErrTooLarge    = errors.New("object exceeds size limit")
	ErrInvalidName = errors.New("invalid object name")
)

// Local stores objects as files in one directory. Objects appear under their final
// name only once completely written.
type Local struct {
	dir string
}

func NewLocal(dir string) (*Local, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &Local{dir: dir}, nil
}

func (l *Local) Dir() string { return l.dir }

// Put copies at most limit bytes of r into name. A longer body fails with ErrTooLarge
// and leaves nothing behind.
func (l *Local) Put(ctx context.Context, name string, r io.Reader, limit int64) (int64, error) {
	if name == "" || filepath.Base(name) != name || name[0] == '.' {
		return 0, ErrInvalidName
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	tmp, err := os.CreateTemp(l.dir, ".upload-*")
	if err != nil {
		return 0, err
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			tmp.Close()
			os.Remove(tmpName)
		}
	}()

	n, err := io.Copy(tmp, io.LimitReader(r, limit+1))
	if err != nil {
		return 0, err
	}
	if n > limit {
		return 0, ErrTooLarge
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if err := tmp.Sync(); err != nil {
		return 0, err
	}
	if err := tmp.Close(); err != nil {
		return 0, err
	}
	if err := os.Rename(tmpName, filepath.Join(l.dir, name)); err != nil {
		os.Remove(tmpName)
		committed = true
		return 0, err
	}
	committed = true
	return n, nil
}
