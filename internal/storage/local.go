package storage

import (
	"context"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"strings"
	"time"

	"adgallery/internal/config"
)

// localStorage implements the Storage interface on the local filesystem.
// It is the fallback backend when object storage is unreachable; files
// are served by the HTTP layer from the configured directory.
type localStorage struct {
	dir     string
	baseURL string
}

// NewLocal creates a filesystem-backed store rooted at cfg.Dir,
// creating the directory if needed.
func NewLocal(cfg config.LocalStorageConfig) (Storage, error) {
	if cfg.Dir == "" {
		return nil, fmt.Errorf("local storage dir is required")
	}
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("create local storage dir: %w", err)
	}
	return &localStorage{
		dir:     cfg.Dir,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
	}, nil
}

// validKey rejects keys that would escape the storage directory.
func validKey(key string) error {
	if key == "" {
		return fmt.Errorf("object key is required")
	}
	if strings.ContainsAny(key, `/\`) || key == "." || key == ".." {
		return fmt.Errorf("invalid object key %q", key)
	}
	return nil
}

func (l *localStorage) path(key string) string {
	return filepath.Join(l.dir, key)
}

func (l *localStorage) Put(ctx context.Context, key string, r io.Reader, opt PutObjectOptions) (ObjectInfo, error) {
	if err := validKey(key); err != nil {
		return ObjectInfo{}, err
	}

	f, err := os.Create(l.path(key))
	if err != nil {
		return ObjectInfo{}, fmt.Errorf("create file: %w", err)
	}
	n, err := io.Copy(f, r)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(l.path(key))
		return ObjectInfo{}, fmt.Errorf("write file: %w", err)
	}

	return ObjectInfo{
		Key:          key,
		Size:         n,
		ContentType:  opt.ContentType,
		LastModified: time.Now(),
		Metadata:     opt.Metadata,
	}, nil
}

func (l *localStorage) Get(ctx context.Context, key string) (io.ReadCloser, ObjectInfo, error) {
	if err := validKey(key); err != nil {
		return nil, ObjectInfo{}, err
	}

	f, err := os.Open(l.path(key))
	if err != nil {
		return nil, ObjectInfo{}, err
	}
	st, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, ObjectInfo{}, err
	}
	info := ObjectInfo{
		Key:          key,
		Size:         st.Size(),
		ContentType:  mime.TypeByExtension(filepath.Ext(key)),
		LastModified: st.ModTime(),
	}
	return f, info, nil
}

func (l *localStorage) Delete(ctx context.Context, key string) error {
	if err := validKey(key); err != nil {
		return err
	}
	if err := os.Remove(l.path(key)); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// PresignGet returns the static URL; local files are not signed and
// the expiry is ignored.
func (l *localStorage) PresignGet(ctx context.Context, key string, expiry time.Duration) (string, error) {
	return l.PublicURL(ctx, key)
}

func (l *localStorage) PublicURL(ctx context.Context, key string) (string, error) {
	if err := validKey(key); err != nil {
		return "", err
	}
	return l.baseURL + "/" + key, nil
}

func (l *localStorage) Backend() string { return "local" }
