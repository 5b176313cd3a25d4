package blob

import (
	"context"
	"path/filepath"
	"testing"

	core "github.com/zaocat/Purrfit/internal/blob"
)

func TestOpenMemory(t *testing.T) {
	store, err := Open(context.Background(), core.DriverMemory, Options{})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if store.Driver() != core.DriverMemory {
		t.Fatalf("driver = %s", store.Driver())
	}
}

func TestOpenDefaultsToFilesystem(t *testing.T) {
	store, err := Open(context.Background(), "", Options{FSRoot: filepath.Join(t.TempDir(), "blobs")})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if store.Driver() != core.DriverFilesystem {
		t.Fatalf("driver = %s", store.Driver())
	}
}

func TestOpenUnknownDriver(t *testing.T) {
	if _, err := Open(context.Background(), "tape", Options{}); err == nil {
		t.Fatalf("expected error for unknown driver")
	}
}
