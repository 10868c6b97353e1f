package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// BlobStore keeps uploaded bytes outside the database.
type BlobStore interface {
	Save(ctx context.Context, key string, r io.Reader) error
	Remove(ctx context.Context, key string) error
	// PublicPath is the URL path the stored object is served under.
	PublicPath(key string) string
}

// DiskStore writes blobs below Root and serves them under Prefix.
type DiskStore struct {
	Root   string
	Prefix string
}

func NewDiskStore(root, prefix string) *DiskStore {
	return &DiskStore{Root: root, Prefix: "/" + strings.Trim(prefix, "/")}
}

func (d *DiskStore) Save(ctx context.Context, key string, r io.Reader) error {
	dst, err := d.resolve(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return fmt.Errorf("creating upload dir: %w", err)
	}

	// write to a temp file first so a failed copy never leaves a partial blob
	tmp, err := os.CreateTemp(filepath.Dir(dst), ".upload-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, readerWithContext(ctx, r)); err != nil {
		tmp.Close()
		return fmt.Errorf("writing %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("writing %s: %w", key, err)
	}
	if err := os.Rename(tmp.Name(), dst); err != nil {
		return fmt.Errorf("storing %s: %w", key, err)
	}
	return nil
}

// Remove deletes key. A missing blob is not an error.
func (d *DiskStore) Remove(_ context.Context, key string) error {
	dst, err := d.resolve(key)
	if err != nil {
		return err
	}
	if err := os.Remove(dst); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("removing %s: %w", key, err)
	}
	return nil
}

func (d *DiskStore) PublicPath(key string) string {
	return path.Join(d.Prefix, key)
}

// resolve maps a slash separated key to a file under Root, refusing keys that
// would escape it.
func (d *DiskStore) resolve(key string) (string, error) {
	clean := path.Clean("/" + key)
	if clean == "/" || strings.Contains(key, "..") {
		return "", fmt.Errorf("invalid blob key %q", key)
	}
	return filepath.Join(d.Root, filepath.FromSlash(strings.TrimPrefix(clean, "/"))), nil
}

type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func readerWithContext(ctx context.Context, r io.Reader) io.Reader {
	return &ctxReader{ctx: ctx, r: r}
}

func (c *ctxReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}
