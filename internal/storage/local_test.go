package storage

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocal_PutWritesObject(t *testing.T) {
	l, err := NewLocal(filepath.Join(t.TempDir(), "uploads"))
	require.NoError(t, err)

	n, err := l.Put(context.Background(), "a.png", bytes.NewReader([]byte("hello")), 10)
	require.NoError(t, err)
	assert.EqualValues(t, 5, n)

	data, err := os.ReadFile(filepath.Join(l.Dir(), "a.png"))
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))
}

func TestLocal_PutTooLargeLeavesNothing(t *testing.T) {
	l, err := NewLocal(t.TempDir())
	require.NoError(t, err)

	_, err = l.Put(context.Background(), "big.mp4", bytes.NewReader(make([]byte, 11)), 10)
	assert.ErrorIs(t, err, ErrTooLarge)

	entries, err := os.ReadDir(l.Dir())
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestLocal_PutRejectsPathNames(t *testing.T) {
	l, err := NewLocal(t.TempDir())
	require.NoError(t, err)

	for _, name := range []string{"", "../x.png", "dir/x.png", ".hidden"} {
		_, err := l.Put(context.Background(), name, bytes.NewReader(nil), 10)
		assert.ErrorIs(t, err, ErrInvalidName, name)
	}
}
