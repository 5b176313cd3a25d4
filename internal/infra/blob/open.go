// Package blob selects and constructs a concrete blob store driver.
package blob

import (
	"context"
	"fmt"

	core "github.com/zaocat/Purrfit/internal/blob"
	"github.com/zaocat/Purrfit/internal/infra/blob/fs"
	"github.com/zaocat/Purrfit/internal/infra/blob/memory"
	"github.com/zaocat/Purrfit/internal/infra/blob/s3"
)

// Options carries driver-specific construction parameters.
type Options struct {
	FSRoot      string
	S3Region    string
	S3Bucket    string
	S3Endpoint  string
	S3PathStyle bool
}

// Open constructs the blob store named by driver. An empty driver
// defaults to the filesystem store.
func Open(ctx context.Context, driver core.Driver, opts Options) (core.Store, error) {
	switch driver {
	case core.DriverFilesystem, "":
		return fs.NewStore(opts.FSRoot)
	case core.DriverS3:
		return s3.New(ctx, s3.Config{
			Region:    opts.S3Region,
			Bucket:    opts.S3Bucket,
			Endpoint:  opts.S3Endpoint,
			PathStyle: opts.S3PathStyle,
		})
	case core.DriverMemory:
		return memory.NewStore(), nil
	default:
		return nil, fmt.Errorf("unknown blob driver %q", driver)
	}
}
