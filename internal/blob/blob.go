// Package blob defines the abstraction backup artifacts are written to,
// with filesystem, S3-compatible, and in-memory drivers.
package blob

import (
	"context"
	"errors"
	"io"
	"time"
)

// Driver identifies a concrete blob storage backend implementation.
type Driver string

const (
	// DriverFilesystem is the local filesystem driver (default, dev).
	DriverFilesystem Driver = "fs"
	// DriverS3 is an S3 / MinIO compatible driver.
	DriverS3 Driver = "s3"
	// DriverMemory is the in-memory test driver.
	DriverMemory Driver = "memory"
)

// Info describes a stored blob.
type Info struct {
	Key          string    `json:"key"`
	Size         int64     `json:"size_bytes"`
	ContentType  string    `json:"content_type,omitempty"`
	ETag         string    `json:"etag,omitempty"`
	LastModified time.Time `json:"last_modified"`
}

// Store is the interface for blob storage backends. Keys are flat,
// slash-separated object names.
type Store interface {
	Put(ctx context.Context, key string, r io.Reader, contentType string) (Info, error)
	Get(ctx context.Context, key string) (Info, io.ReadCloser, error)
	// Delete removes the object; returns true if it existed. Idempotent.
	Delete(ctx context.Context, key string) (bool, error)
	// List returns blobs whose keys start with prefix, sorted by key.
	List(ctx context.Context, prefix string) ([]Info, error)
	Driver() Driver
}

// ErrNotFound indicates the requested blob does not exist.
var ErrNotFound = errors.New("blob not found")
