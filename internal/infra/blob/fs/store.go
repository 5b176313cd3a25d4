// Package fs provides a local filesystem blob store.
package fs

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/zaocat/Purrfit/internal/blob"
)

// Store writes blobs as plain files under a root directory. Keys map to
// relative paths; writes go through a temp file and rename so readers
// never observe a partial object.
type Store struct {
	root string
}

// NewStore creates the root directory if needed and returns a Store.
func NewStore(root string) (*Store, error) {
	if root == "" {
		root = "blobdata"
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create blob root: %w", err)
	}
	return &Store{root: root}, nil
}

func (s *Store) Driver() blob.Driver { return blob.DriverFilesystem }

func (s *Store) pathFor(key string) (string, error) {
	cleaned := filepath.Clean(filepath.FromSlash(key))
	if cleaned == "." || strings.HasPrefix(cleaned, "..") || filepath.IsAbs(cleaned) {
		return "", fmt.Errorf("invalid blob key %q", key)
	}
	return filepath.Join(s.root, cleaned), nil
}

func (s *Store) Put(ctx context.Context, key string, r io.Reader, contentType string) (blob.Info, error) {
	if err := ctx.Err(); err != nil {
		return blob.Info{}, err
	}
	path, err := s.pathFor(key)
	if err != nil {
		return blob.Info{}, err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return blob.Info{}, fmt.Errorf("create blob dir: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".put-*")
	if err != nil {
		return blob.Info{}, fmt.Errorf("create temp blob: %w", err)
	}
	defer os.Remove(tmp.Name())

	hasher := sha256.New()
	size, err := io.Copy(io.MultiWriter(tmp, hasher), r)
	if err != nil {
		tmp.Close()
		return blob.Info{}, fmt.Errorf("write blob: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return blob.Info{}, fmt.Errorf("close temp blob: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return blob.Info{}, fmt.Errorf("finalize blob: %w", err)
	}
	st, err := os.Stat(path)
	if err != nil {
		return blob.Info{}, fmt.Errorf("stat blob: %w", err)
	}
	return blob.Info{
		Key:          key,
		Size:         size,
		ContentType:  contentType,
		ETag:         hex.EncodeToString(hasher.Sum(nil)),
		LastModified: st.ModTime().UTC(),
	}, nil
}

func (s *Store) Get(ctx context.Context, key string) (blob.Info, io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return blob.Info{}, nil, err
	}
	path, err := s.pathFor(key)
	if err != nil {
		return blob.Info{}, nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return blob.Info{}, nil, blob.ErrNotFound
		}
		return blob.Info{}, nil, fmt.Errorf("open blob: %w", err)
	}
	st, err := f.Stat()
	if err != nil {
		f.Close()
		return blob.Info{}, nil, fmt.Errorf("stat blob: %w", err)
	}
	return blob.Info{Key: key, Size: st.Size(), LastModified: st.ModTime().UTC()}, f, nil
}

func (s *Store) Delete(ctx context.Context, key string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	path, err := s.pathFor(key)
	if err != nil {
		return false, err
	}
	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("delete blob: %w", err)
	}
	return true, nil
}

func (s *Store) List(ctx context.Context, prefix string) ([]blob.Info, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var out []blob.Info
	err := filepath.WalkDir(s.root, func(path string, d os.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		rel, err := filepath.Rel(s.root, path)
		if err != nil {
			return err
		}
		key := filepath.ToSlash(rel)
		if !strings.HasPrefix(key, prefix) {
			return nil
		}
		st, err := d.Info()
		if err != nil {
			return err
		}
		out = append(out, blob.Info{Key: key, Size: st.Size(), LastModified: st.ModTime().UTC()})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list blobs: %w", err)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}

var _ blob.Store = (*Store)(nil)
