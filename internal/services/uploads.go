package services

import (
	"bytes"
	"context"
	"errors"
	"io"
	"mime"
	"path"
	"strconv"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	"devconnect-api/internal/storage"
)

const sniffLen = 3072

type mediaKind struct {
	ext  string
	kind string
}

var allowedMedia = map[string]mediaKind{
	"image/jpeg": {ext: "jpeg", kind: "image"},
	"image/png":  {ext: "png", kind: "image"},
	"image/gif":  {ext: "gif", kind: "image"},
	"video/mp4":  {ext: "mp4", kind: "video"},
}

// ObjectStorage persists an object under name, failing with storage.ErrTooLarge when
// r yields more than limit bytes.
type ObjectStorage interface {
	Put(ctx context.Context, name string, r io.Reader, limit int64) (int64, error)
}

type Upload struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

type StoredMedia struct {
	URL          string `json:"url"`
	Name         string `json:"name"`
	OriginalName string `json:"originalName,omitempty"`
	MediaType    string `json:"mediaType"`
	ContentType  string `json:"contentType"`
	Size         int64  `json:"size"`
}

type UploadService struct {
	storage  ObjectStorage
	baseURL  string
	maxBytes int64
}

func NewUploadService(s ObjectStorage, baseURL string, maxBytes int64) *UploadService {
	return &UploadService{storage: s, baseURL: strings.TrimRight(baseURL, "/"), maxBytes: maxBytes}
}

// Store checks type and size before anything is written, then saves the body under a random name.
func (s *UploadService) Store(ctx context.Context, up Upload) (*StoredMedia, error) {
	if up.Body == nil {
		return nil, validationError("No file provided", FieldError{Field: "file", Message: "is required"})
	}
	if up.Size > s.maxBytes {
		return nil, s.tooLarge()
	}

	contentType := normalizeContentType(up.ContentType)
	body := up.Body
	if contentType == "" || contentType == "application/octet-stream" {
		head := make([]byte, sniffLen)
		n, err := io.ReadFull(up.Body, head)
		if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
			return nil, internal("failed to read upload", err)
		}
		head = head[:n]
		contentType = normalizeContentType(mimetype.Detect(head).String())
		body = io.MultiReader(bytes.NewReader(head), up.Body)
	}

	media, ok := allowedMedia[contentType]
	if !ok {
		return nil, validationError("Invalid file type. Only jpg, png, gif, and mp4 are allowed", FieldError{Field: "file", Message: "must be JPEG, PNG, GIF or MP4"})
	}

	name := uuid.NewString() + "." + media.ext
	n, err := s.storage.Put(ctx, name, body, s.maxBytes)
	if errors.Is(err, storage.ErrTooLarge) {
		return nil, s.tooLarge()
	}
	if err != nil {
		return nil, internal("failed to store upload", err)
	}

	return &StoredMedia{
		URL:          s.baseURL + "/" + name,
		Name:         name,
		OriginalName: baseName(up.Filename),
		MediaType:    media.kind,
		ContentType:  contentType,
		Size:         n,
	}, nil
}

func (s *UploadService) tooLarge() error {
	limit := humanBytes(s.maxBytes)
	return validationError("File too large. Maximum size is "+limit, FieldError{Field: "file", Message: "must be at most " + limit})
}

// baseName strips any client-side directory from a multipart file name.
func baseName(filename string) string {
	name := path.Base(strings.ReplaceAll(filename, "\\", "/"))
	if name == "." || name == "/" {
		return ""
	}
	return name
}

func normalizeContentType(ct string) string {
	if ct == "" {
		return ""
	}
	mediaType, _, err := mime.ParseMediaType(ct)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(ct))
	}
	return mediaType
}

func humanBytes(n int64) string {
	const mib = 1 << 20
	if n%mib == 0 {
		return strconv.FormatInt(n/mib, 10) + "MB"
	}
	return strconv.FormatInt(n, 10) + " bytes"
}
