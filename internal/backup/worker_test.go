package backup

import (
	"context"
	"fmt"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/zaocat/Purrfit/internal/blob"
	blobmem "github.com/zaocat/Purrfit/internal/infra/blob/memory"
	storemem "github.com/zaocat/Purrfit/internal/infra/persistence/memory"
	"github.com/zaocat/Purrfit/pkg/domain"
)

func waitForJob(t *testing.T, w *Worker, id string) Job {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		job, ok := w.Get(id)
		if !ok {
			t.Fatalf("job %s disappeared", id)
		}
		if job.Status == StatusSucceeded || job.Status == StatusFailed {
			return job
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("job %s did not finish", id)
	return Job{}
}

func TestBackupWritesSnapshot(t *testing.T) {
	store := storemem.NewStore()
	ctx := context.Background()
	records := []domain.WeightRecord{
		{ID: "a", Date: "2024-01-05", Weight: 4.2, Name: "Mimi"},
		{ID: "b", Date: "2024-02-01", Weight: 4.4, Name: "Mimi", Note: "after vet"},
	}
	if err := store.SaveRecords(ctx, records); err != nil {
		t.Fatalf("SaveRecords: %v", err)
	}
	blobs := blobmem.NewStore()

	w := NewWorker(store, blobs, nil)
	w.Start()
	defer w.Stop(context.Background())

	job, err := w.Enqueue(ctx)
	if err != nil {
		t.Fatalf("Enqueue: %v", err)
	}
	if job.Status != StatusQueued {
		t.Fatalf("status = %s, want queued", job.Status)
	}

	done := waitForJob(t, w, job.ID)
	if done.Status != StatusSucceeded {
		t.Fatalf("status = %s (%s), want succeeded", done.Status, done.Error)
	}
	if done.Records != 2 {
		t.Fatalf("records = %d, want 2", done.Records)
	}
	if !strings.HasPrefix(done.Key, "backups/") || !strings.HasSuffix(done.Key, job.ID+".csv") {
		t.Fatalf("key = %q", done.Key)
	}

	_, rc, err := blobs.Get(ctx, done.Key)
	if err != nil {
		t.Fatalf("Get artifact: %v", err)
	}
	data, _ := io.ReadAll(rc)
	rc.Close()
	body := string(data)
	if !strings.Contains(body, "Date,Weight,Name,Note") {
		t.Fatalf("missing header: %q", body)
	}
	if !strings.Contains(body, "2024-01-05,4.2,Mimi,") || !strings.Contains(body, "2024-02-01,4.4,Mimi,after vet") {
		t.Fatalf("missing rows: %q", body)
	}
}

type failingBlobStore struct{}

func (failingBlobStore) Put(context.Context, string, io.Reader, string) (blob.Info, error) {
	return blob.Info{}, fmt.Errorf("disk full")
}
func (failingBlobStore) Get(context.Context, string) (blob.Info, io.ReadCloser, error) {
	return blob.Info{}, nil, blob.ErrNotFound
}
func (failingBlobStore) Delete(context.Context, string) (bool, error) { return false, nil }
func (failingBlobStore) List(context.Context, string) ([]blob.Info, error) {
	return nil, nil
}
func (failingBlobStore) Driver() blob.Driver { return blob.DriverMemory }

func TestBackupFailureIsRecorded(t *testing.T) {
	w := NewWorker(storemem.NewStore(), failingBlobStore{}, nil)
	w.Start()
	defer w.Stop(context.Background())

	job, err := w.Enqueue(context.Background())
	if err != nil {
		t.Fatalf("Enqueue: %v", err)
	}
	done := waitForJob(t, w, job.ID)
	if done.Status != StatusFailed {
		t.Fatalf("status = %s, want failed", done.Status)
	}
	if !strings.Contains(done.Error, "disk full") {
		t.Fatalf("error = %q", done.Error)
	}
	if done.CompletedAt == nil {
		t.Fatalf("expected completion time")
	}
}

func TestEnqueueWithoutBlobStore(t *testing.T) {
	w := NewWorker(storemem.NewStore(), nil, nil)
	if _, err := w.Enqueue(context.Background()); err == nil {
		t.Fatalf("expected error without blob store")
	}
}

func TestGetUnknownJob(t *testing.T) {
	w := NewWorker(storemem.NewStore(), blobmem.NewStore(), nil)
	if _, ok := w.Get("missing"); ok {
		t.Fatalf("expected miss")
	}
}
