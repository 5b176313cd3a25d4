package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/zaocat/Purrfit/pkg/domain"
)

func TestSQLiteStorePersistAndReload(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "state.db")
	store, err := NewStore(path)
	if err != nil {
		t.Skipf("sqlite unavailable: %v", err)
	}
	records := []domain.WeightRecord{
		{ID: "1", Date: "2024-01-05", Weight: 4.2, Name: "Mimi", Note: "vet visit"},
		{ID: "2", Date: "2024-02-01", Weight: 3.9, Name: "Tom"},
	}
	if err := store.SaveRecords(ctx, records); err != nil {
		t.Fatalf("save records: %v", err)
	}
	if err := store.SaveSettings(ctx, domain.DefaultSettings([]string{"Mimi", "Tom"})); err != nil {
		t.Fatalf("save settings: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	reloaded, err := NewStore(path)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	t.Cleanup(func() { _ = reloaded.Close() })
	got, err := reloaded.LoadRecords(ctx)
	if err != nil {
		t.Fatalf("load records: %v", err)
	}
	if len(got) != 2 || got[0] != records[0] || got[1] != records[1] {
		t.Fatalf("unexpected records after reload: %+v", got)
	}
	settings, ok, err := reloaded.LoadSettings(ctx)
	if err != nil || !ok {
		t.Fatalf("load settings: ok=%v err=%v", ok, err)
	}
	if len(settings.Cats) != 2 {
		t.Fatalf("unexpected settings after reload: %+v", settings)
	}
}

func TestSQLiteStoreAbsentKeys(t *testing.T) {
	ctx := context.Background()
	store, err := NewStore(filepath.Join(t.TempDir(), "state.db"))
	if err != nil {
		t.Skipf("sqlite unavailable: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	records, err := store.LoadRecords(ctx)
	if err != nil {
		t.Fatalf("load records: %v", err)
	}
	if len(records) != 0 {
		t.Fatalf("expected empty list, got %+v", records)
	}
	if _, ok, _ := store.LoadSettings(ctx); ok {
		t.Fatal("absent settings must report ok=false")
	}
}

func TestSQLiteStoreReset(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "state.db")
	store, err := NewStore(path)
	if err != nil {
		t.Skipf("sqlite unavailable: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	if err := store.SaveRecords(ctx, []domain.WeightRecord{{ID: "1", Date: "2024-01-05", Weight: 4.2}}); err != nil {
		t.Fatalf("save records: %v", err)
	}
	if err := store.SaveSettings(ctx, domain.DefaultSettings(nil)); err != nil {
		t.Fatalf("save settings: %v", err)
	}
	if err := store.Reset(ctx); err != nil {
		t.Fatalf("reset: %v", err)
	}
	records, _ := store.LoadRecords(ctx)
	if len(records) != 0 {
		t.Fatalf("records survived reset: %+v", records)
	}
	if _, ok, _ := store.LoadSettings(ctx); ok {
		t.Fatal("settings survived reset")
	}
}

func TestSQLiteStoreDefaultsPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "dir", "state.db")
	store, err := NewStore(path)
	if err != nil {
		t.Skipf("sqlite unavailable: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	if store.Path() != path {
		t.Fatalf("unexpected path %s", store.Path())
	}
}
