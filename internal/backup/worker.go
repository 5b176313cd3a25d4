// Package backup snapshots the full weight history to blob storage
// asynchronously.
package backup

import (
	"bytes"
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/zaocat/Purrfit/internal/blob"
	"github.com/zaocat/Purrfit/internal/reconcile"
	"github.com/zaocat/Purrfit/pkg/domain"
)

// Status describes the lifecycle stage of a backup request.
type Status string

const (
	StatusQueued    Status = "queued"
	StatusRunning   Status = "running"
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
)

// Job tracks a backup request and its resulting artifact.
type Job struct {
	ID          string     `json:"id"`
	Status      Status     `json:"status"`
	Error       string     `json:"error,omitempty"`
	Key         string     `json:"key,omitempty"`
	SizeBytes   int64      `json:"size_bytes,omitempty"`
	Records     int        `json:"records"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// Worker executes backup requests one at a time off a bounded queue.
type Worker struct {
	store domain.Store
	blobs blob.Store
	log   *zap.Logger

	queue chan string
	mu    sync.RWMutex
	jobs  map[string]*Job

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	now func() time.Time
}

// NewWorker constructs a backup worker. A nil logger disables logging.
func NewWorker(store domain.Store, blobs blob.Store, log *zap.Logger) *Worker {
	if log == nil {
		log = zap.NewNop()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Worker{
		store:  store,
		blobs:  blobs,
		log:    log,
		queue:  make(chan string, 16),
		jobs:   make(map[string]*Job),
		ctx:    ctx,
		cancel: cancel,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Start begins processing backup requests.
func (w *Worker) Start() {
	w.wg.Add(1)
	go w.loop()
}

// Stop signals the worker to halt and waits for completion.
func (w *Worker) Stop(ctx context.Context) error {
	w.cancel()
	done := make(chan struct{})
	go func() {
		w.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (w *Worker) loop() {
	defer w.wg.Done()
	for {
		select {
		case <-w.ctx.Done():
			return
		case id := <-w.queue:
			w.process(id)
		}
	}
}

// Enqueue schedules a backup and returns the queued job snapshot.
func (w *Worker) Enqueue(ctx context.Context) (Job, error) {
	if w.blobs == nil {
		return Job{}, fmt.Errorf("blob store not configured")
	}
	id := uuid.NewString()
	now := w.now()
	job := Job{ID: id, Status: StatusQueued, CreatedAt: now, UpdatedAt: now}

	w.mu.Lock()
	w.jobs[id] = &job
	snapshot := job
	w.mu.Unlock()

	select {
	case w.queue <- id:
	default:
		w.mu.Lock()
		delete(w.jobs, id)
		w.mu.Unlock()
		return Job{}, fmt.Errorf("backup queue full")
	}

	w.log.Info("backup queued", zap.String("job_id", id))
	return snapshot, nil
}

// Get returns a snapshot of the backup job.
func (w *Worker) Get(id string) (Job, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	job, ok := w.jobs[id]
	if !ok {
		return Job{}, false
	}
	return *job, true
}

// Jobs returns snapshots of all known jobs, newest first.
func (w *Worker) Jobs() []Job {
	w.mu.RLock()
	defer w.mu.RUnlock()
	out := make([]Job, 0, len(w.jobs))
	for _, job := range w.jobs {
		out = append(out, *job)
	}
	return out
}

func (w *Worker) process(id string) {
	w.update(id, func(job *Job) {
		job.Status = StatusRunning
	})

	records, err := w.store.LoadRecords(w.ctx)
	if err != nil {
		w.fail(id, fmt.Sprintf("load records: %v", err))
		return
	}

	payload := reconcile.ExportAllCSV(records)
	key := fmt.Sprintf("backups/%s-%s.csv", w.now().Format("20060102T150405Z"), id)
	info, err := w.blobs.Put(w.ctx, key, bytes.NewReader([]byte(payload)), "text/csv; charset=utf-8")
	if err != nil {
		w.fail(id, fmt.Sprintf("store backup: %v", err))
		return
	}

	now := w.now()
	w.update(id, func(job *Job) {
		job.Status = StatusSucceeded
		job.Error = ""
		job.Key = info.Key
		job.SizeBytes = info.Size
		job.Records = len(records)
		job.CompletedAt = &now
	})
	w.log.Info("backup succeeded",
		zap.String("job_id", id),
		zap.String("key", info.Key),
		zap.Int64("size_bytes", info.Size),
		zap.Int("records", len(records)))
}

func (w *Worker) fail(id, reason string) {
	now := w.now()
	w.update(id, func(job *Job) {
		job.Status = StatusFailed
		job.Error = reason
		job.CompletedAt = &now
	})
	w.log.Error("backup failed", zap.String("job_id", id), zap.String("reason", reason))
}

func (w *Worker) update(id string, fn func(*Job)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if job, ok := w.jobs[id]; ok {
		fn(job)
		job.UpdatedAt = w.now()
	}
}
