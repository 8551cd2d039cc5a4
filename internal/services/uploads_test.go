package services

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"devconnect-api/internal/storage"
)

const maxUpload = 10 << 20

var pngSignature = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0x0d, 'I', 'H', 'D', 'R'}

type spyStorage struct {
	puts  []string
	bytes int64
	err   error
}

func (s *spyStorage) Put(_ context.Context, name string, r io.Reader, limit int64) (int64, error) {
	s.puts = append(s.puts, name)
	if s.err != nil {
		return 0, s.err
	}
	n, err := io.Copy(io.Discard, io.LimitReader(r, limit+1))
	if err != nil {
		return 0, err
	}
	if n > limit {
		return 0, storage.ErrTooLarge
	}
	s.bytes = n
	return n, nil
}

func pngBody(size int) []byte {
	b := make([]byte, size)
	copy(b, pngSignature)
	return b
}

func TestUpload_RejectsOversizeBeforeWriting(t *testing.T) {
	spy := &spyStorage{}
	svc := NewUploadService(spy, "/uploads", maxUpload)

	_, err := svc.Store(context.Background(), Upload{
		Filename:    "huge.png",
		ContentType: "image/png",
		Size:        15 << 20,
		Body:        bytes.NewReader(nil),
	})
	e := requireKind(t, err, KindValidation)
	assert.Equal(t, "File too large. Maximum size is 10MB", e.Message)
	assert.Empty(t, spy.puts)
}

func TestUpload_RejectsUnsupportedTypeBeforeWriting(t *testing.T) {
	spy := &spyStorage{}
	svc := NewUploadService(spy, "/uploads", maxUpload)

	_, err := svc.Store(context.Background(), Upload{
		Filename:    "notes.pdf",
		ContentType: "application/pdf",
		Size:        100,
		Body:        strings.NewReader("%PDF-1.4"),
	})
	e := requireKind(t, err, KindValidation)
	assert.Contains(t, e.Message, "Invalid file type")
	assert.Empty(t, spy.puts)
}

func TestUpload_StoresPNG(t *testing.T) {
	spy := &spyStorage{}
	svc := NewUploadService(spy, "/uploads/", maxUpload)
	body := pngBody(2 << 20)

	media, err := svc.Store(context.Background(), Upload{
		Filename:    "avatar.png",
		ContentType: "image/png",
		Size:        int64(len(body)),
		Body:        bytes.NewReader(body),
	})
	require.NoError(t, err)

	require.Len(t, spy.puts, 1)
	assert.True(t, strings.HasSuffix(media.Name, ".png"))
	assert.Equal(t, "/uploads/"+media.Name, media.URL)
	assert.Equal(t, "image", media.MediaType)
	assert.Equal(t, "avatar.png", media.OriginalName)
	assert.EqualValues(t, len(body), media.Size)
}

func TestUpload_SniffsUndeclaredType(t *testing.T) {
	spy := &spyStorage{}
	svc := NewUploadService(spy, "/uploads", maxUpload)
	body := pngBody(4096)

	media, err := svc.Store(context.Background(), Upload{
		Filename:    "blob",
		ContentType: "application/octet-stream",
		Size:        int64(len(body)),
		Body:        bytes.NewReader(body),
	})
	require.NoError(t, err)
	assert.Equal(t, "image/png", media.ContentType)
	assert.EqualValues(t, len(body), spy.bytes, "sniffed bytes must still be stored")
}

func TestUpload_BodyLongerThanDeclared(t *testing.T) {
	spy := &spyStorage{}
	svc := NewUploadService(spy, "/uploads", 1024)

	_, err := svc.Store(context.Background(), Upload{
		Filename:    "liar.png",
		ContentType: "image/png",
		Size:        10,
		Body:        bytes.NewReader(pngBody(2048)),
	})
	e := requireKind(t, err, KindValidation)
	assert.Equal(t, "File too large. Maximum size is 1024 bytes", e.Message)
}

func TestUpload_StorageFailureIsInternal(t *testing.T) {
	spy := &spyStorage{err: io.ErrClosedPipe}
	svc := NewUploadService(spy, "/uploads", maxUpload)

	_, err := svc.Store(context.Background(), Upload{
		Filename:    "a.gif",
		ContentType: "image/gif",
		Size:        6,
		Body:        strings.NewReader("GIF89a"),
	})
	requireKind(t, err, KindInternal)
}
