package postgres

import (
	"context"
	"database/sql"
	"strings"
	"testing"

	"github.com/zaocat/Purrfit/internal/infra/persistence/postgres/testutil"
	"github.com/zaocat/Purrfit/pkg/domain"
)

func newStubStore(t *testing.T) (*Store, *testutil.StubConn) {
	t.Helper()
	db, conn := testutil.NewStubDB()
	restore := OverrideSQLOpen(func(_, _ string) (*sql.DB, error) { return db, nil })
	t.Cleanup(restore)
	store, err := NewStore(context.Background(), "")
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	return store, conn
}

func TestNewStoreEnsuresStateTable(t *testing.T) {
	_, conn := newStubStore(t)
	found := false
	for _, stmt := range conn.Execs {
		if strings.Contains(strings.ToUpper(stmt), "CREATE TABLE") {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected state table DDL, got execs: %v", conn.Execs)
	}
}

func TestNewStoreFailsWhenPingFails(t *testing.T) {
	db, conn := testutil.NewStubDB()
	conn.FailPing = true
	restore := OverrideSQLOpen(func(_, _ string) (*sql.DB, error) { return db, nil })
	defer restore()
	if _, err := NewStore(context.Background(), ""); err == nil {
		t.Fatal("expected ping failure to surface")
	}
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	ctx := context.Background()
	store, _ := newStubStore(t)

	records := []domain.WeightRecord{{ID: "1", Date: "2024-01-05", Weight: 4.2, Name: "Mimi"}}
	if err := store.SaveRecords(ctx, records); err != nil {
		t.Fatalf("save records: %v", err)
	}
	loaded, err := store.LoadRecords(ctx)
	if err != nil {
		t.Fatalf("load records: %v", err)
	}
	if len(loaded) != 1 || loaded[0] != records[0] {
		t.Fatalf("unexpected records: %+v", loaded)
	}

	settings := domain.DefaultSettings([]string{"Mimi"})
	if err := store.SaveSettings(ctx, settings); err != nil {
		t.Fatalf("save settings: %v", err)
	}
	got, ok, err := store.LoadSettings(ctx)
	if err != nil || !ok {
		t.Fatalf("load settings: ok=%v err=%v", ok, err)
	}
	if got.Title != settings.Title || len(got.Cats) != 1 {
		t.Fatalf("unexpected settings: %+v", got)
	}
}

func TestLoadAbsentKeys(t *testing.T) {
	ctx := context.Background()
	store, _ := newStubStore(t)
	records, err := store.LoadRecords(ctx)
	if err != nil {
		t.Fatalf("load records: %v", err)
	}
	if len(records) != 0 {
		t.Fatalf("expected empty list, got %+v", records)
	}
	_, ok, err := store.LoadSettings(ctx)
	if err != nil {
		t.Fatalf("load settings: %v", err)
	}
	if ok {
		t.Fatal("absent settings must report ok=false")
	}
}

func TestResetDeletesBothBuckets(t *testing.T) {
	ctx := context.Background()
	store, conn := newStubStore(t)
	if err := store.SaveRecords(ctx, []domain.WeightRecord{{ID: "1", Date: "2024-01-05", Weight: 4.2}}); err != nil {
		t.Fatalf("save records: %v", err)
	}
	if err := store.SaveSettings(ctx, domain.DefaultSettings(nil)); err != nil {
		t.Fatalf("save settings: %v", err)
	}
	if err := store.Reset(ctx); err != nil {
		t.Fatalf("reset: %v", err)
	}
	if len(conn.Buckets) != 0 {
		t.Fatalf("expected both buckets deleted, remaining: %v", conn.Buckets)
	}
}
