package export

import (
	"context"
	"errors"
	"io"
	"path"
	"strings"
	"time"
)

// ErrNotFound is returned when an object does not exist.
var ErrNotFound = errors.New("export: object not found")

// ErrInvalidName is returned for names that are empty, absolute or escape
// the store root.
var ErrInvalidName = errors.New("export: invalid object name")

// ErrTooLarge is returned when an object exceeds the store's size limit.
var ErrTooLarge = errors.New("export: object too large")

// Store is a destination for exported files.
// Names are slash-separated paths relative to the store root, such as
// "index.html" or "todos/index.html".
type Store interface {
	// Put stores the contents of r under name, replacing any existing object.
	Put(ctx context.Context, name, contentType string, r io.Reader) (*Object, error)

	// Get opens an object. The caller must close the returned reader.
	Get(ctx context.Context, name string) (io.ReadCloser, *Object, error)

	// List returns the objects whose names start with prefix, sorted by name.
	List(ctx context.Context, prefix string) ([]Object, error)

	// Delete removes an object. Deleting a missing object is not an error.
	Delete(ctx context.Context, name string) error
}

// Object describes a stored file.
type Object struct {
	// Name is the object name within the store.
	Name string

	// ContentType is the MIME type the object was stored with.
	ContentType string

	// Size is the object size in bytes.
	Size int64

	// ModTime is the time the object was last written.
	ModTime time.Time

	// URL locates the object outside the store: a file path for DiskStore,
	// an s3:// or presigned URL for S3Store.
	URL string
}

// CleanName validates name and returns it in canonical form.
func CleanName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" || strings.HasPrefix(name, "/") || strings.Contains(name, "\\") {
		return "", ErrInvalidName
	}
	clean := path.Clean(name)
	if clean == "." || clean == ".." || strings.HasPrefix(clean, "../") {
		return "", ErrInvalidName
	}
	return clean, nil
}

// ContentTypeFor guesses the content type of an exported file from its name.
func ContentTypeFor(name string) string {
	switch strings.ToLower(path.Ext(name)) {
	case ".html", ".htm":
		return "text/html; charset=utf-8"
	case ".css":
		return "text/css; charset=utf-8"
	case ".js":
		return "application/javascript; charset=utf-8"
	case ".json":
		return "application/json"
	case ".svg":
		return "image/svg+xml"
	case ".txt":
		return "text/plain; charset=utf-8"
	default:
		return "application/octet-stream"
	}
}
