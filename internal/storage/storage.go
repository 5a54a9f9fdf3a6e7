// Package storage stages color images uploaded through the admin wizard
// until the colors step streams them to the backend.
package storage

import (
	"context"
	"errors"
	"io"
	"mime"
	"path"
	"strings"

	"github.com/google/uuid"
)

// MaxImageBytes caps a single staged image.
const MaxImageBytes = 8 << 20

var (
	ErrNotFound = errors.New("storage: object not found")
	ErrTooLarge = errors.New("storage: image exceeds 8 MB")
	ErrBadKey   = errors.New("storage: invalid key")
)

type PutInput struct {
	Filename    string
	ContentType string
	Size        int64
}

type PutResult struct {
	Key string
	URL string
}

// Object is an opened stored file. Callers must close Body.
type Object struct {
	Key         string
	ContentType string
	Body        io.ReadCloser
}

type Storage interface {
	Put(ctx context.Context, r io.Reader, in PutInput) (PutResult, error)
	Open(ctx context.Context, key string) (Object, error)
	Delete(ctx context.Context, key string) error
}

// IsImage reports whether filename carries an accepted image extension.
func IsImage(filename string) bool { return imageExt(filename) != "" }

func imageExt(filename string) string {
	ext := strings.ToLower(path.Ext(filename))
	switch ext {
	case ".png", ".jpg", ".jpeg", ".webp", ".gif":
		return ext
	}
	return ""
}

// newKey names a staged object: a random id plus the image extension, if any.
func newKey(prefix, filename string) string {
	key := uuid.NewString() + imageExt(filename)
	if p := strings.Trim(prefix, "/"); p != "" {
		key = p + "/" + key
	}
	return key
}

// contentType trusts the declared type, then the extension.
func contentType(in PutInput) string {
	if in.ContentType != "" {
		return in.ContentType
	}
	if t := mime.TypeByExtension(imageExt(in.Filename)); t != "" {
		return t
	}
	return "application/octet-stream"
}

// capped fails the read once more than MaxImageBytes have passed through.
type capped struct {
	r io.Reader
	n int64
}

func limit(r io.Reader) io.Reader { return &capped{r: r} }

func (c *capped) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	if c.n > MaxImageBytes {
		return n, ErrTooLarge
	}
	return n, err
}

func tooLarge(in PutInput) bool { return in.Size > MaxImageBytes }
