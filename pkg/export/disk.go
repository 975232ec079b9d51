package export

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

const metaSuffix = ".meta"

// DiskStore stores exports in a local directory.
// Each object has a JSON sidecar recording its content type.
type DiskStore struct {
	dir     string
	maxSize int64
}

type diskMeta struct {
	ContentType string    `json:"content_type"`
	Size        int64     `json:"size"`
	CreatedAt   time.Time `json:"created_at"`
}

// NewDiskStore creates a DiskStore rooted at dir, creating the directory if
// needed. maxSize limits each object in bytes (0 = no limit).
func NewDiskStore(dir string, maxSize int64) (*DiskStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	return &DiskStore{dir: dir, maxSize: maxSize}, nil
}

// Dir returns the root directory.
func (s *DiskStore) Dir() string { return s.dir }

func (s *DiskStore) path(name string) (string, string, error) {
	clean, err := CleanName(name)
	if err != nil {
		return "", "", err
	}
	if strings.HasSuffix(clean, metaSuffix) {
		return "", "", ErrInvalidName
	}
	return clean, filepath.Join(s.dir, filepath.FromSlash(clean)), nil
}

// Put writes the object through a temporary file renamed into place, so a
// failed write never leaves a partial file.
func (s *DiskStore) Put(ctx context.Context, name, contentType string, r io.Reader) (*Object, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	clean, p, err := s.path(name)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
		return nil, err
	}

	f, err := os.CreateTemp(filepath.Dir(p), ".export-*")
	if err != nil {
		return nil, err
	}
	tmp := f.Name()
	defer os.Remove(tmp)

	var reader io.Reader = r
	if s.maxSize > 0 {
		reader = io.LimitReader(r, s.maxSize+1) // +1 to detect overflow
	}
	written, err := io.Copy(f, reader)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return nil, err
	}
	if s.maxSize > 0 && written > s.maxSize {
		return nil, ErrTooLarge
	}
	if err := os.Rename(tmp, p); err != nil {
		return nil, err
	}

	if contentType == "" {
		contentType = ContentTypeFor(clean)
	}
	meta := diskMeta{ContentType: contentType, Size: written, CreatedAt: time.Now()}
	if err := s.saveMeta(p, meta); err != nil {
		return nil, err
	}
	return &Object{
		Name:        clean,
		ContentType: contentType,
		Size:        written,
		ModTime:     meta.CreatedAt,
		URL:         p,
	}, nil
}

// Get opens the object's file.
func (s *DiskStore) Get(ctx context.Context, name string) (io.ReadCloser, *Object, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	clean, p, err := s.path(name)
	if err != nil {
		return nil, nil, err
	}
	f, err := os.Open(p)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil, ErrNotFound
	}
	if err != nil {
		return nil, nil, err
	}
	obj, err := s.object(clean, p)
	if err != nil {
		f.Close()
		return nil, nil, err
	}
	return f, obj, nil
}

// List walks the directory, skipping sidecars and temporary files.
func (s *DiskStore) List(ctx context.Context, prefix string) ([]Object, error) {
	var out []Object
	err := filepath.WalkDir(s.dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() || strings.HasSuffix(p, metaSuffix) || strings.HasPrefix(d.Name(), ".export-") {
			return nil
		}
		rel, err := filepath.Rel(s.dir, p)
		if err != nil {
			return err
		}
		name := filepath.ToSlash(rel)
		if !strings.HasPrefix(name, prefix) {
			return nil
		}
		obj, err := s.object(name, p)
		if err != nil {
			return err
		}
		out = append(out, *obj)
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// Delete removes the object and its sidecar.
func (s *DiskStore) Delete(ctx context.Context, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, p, err := s.path(name)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	if err := os.Remove(p + metaSuffix); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// object describes the file at p, falling back to the file itself when the
// sidecar is missing.
func (s *DiskStore) object(name, p string) (*Object, error) {
	info, err := os.Stat(p)
	if err != nil {
		return nil, err
	}
	obj := &Object{
		Name:        name,
		ContentType: ContentTypeFor(name),
		Size:        info.Size(),
		ModTime:     info.ModTime(),
		URL:         p,
	}
	if meta, err := s.loadMeta(p); err == nil {
		obj.ContentType = meta.ContentType
	}
	return obj, nil
}

func (s *DiskStore) saveMeta(p string, meta diskMeta) error {
	data, err := json.Marshal(meta)
	if err != nil {
		return err
	}
	return os.WriteFile(p+metaSuffix, data, 0644)
}

func (s *DiskStore) loadMeta(p string) (*diskMeta, error) {
	data, err := os.ReadFile(p + metaSuffix)
	if err != nil {
		return nil, err
	}
	var meta diskMeta
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}
