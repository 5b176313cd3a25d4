package persistence

import (
	"context"
	"path/filepath"
	"testing"
)

func TestOpenMemory(t *testing.T) {
	store, err := Open(context.Background(), DriverMemory, "", "")
	if err != nil {
		t.Fatalf("open memory: %v", err)
	}
	if store == nil {
		t.Fatal("expected a store")
	}
}

func TestOpenDefaultsToSQLite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.db")
	store, err := Open(context.Background(), "", path, "")
	if err != nil {
		t.Skipf("sqlite unavailable: %v", err)
	}
	if store == nil {
		t.Fatal("expected a store")
	}
}

func TestOpenUnknownDriver(t *testing.T) {
	if _, err := Open(context.Background(), "etcd", "", ""); err == nil {
		t.Fatal("expected an error for an unknown driver")
	}
}
