// Package service orchestrates store round-trips for every mutation: load
// the whole value, apply the reconciler, persist the whole value. A mutex
// serializes in-process writers; concurrent deployments are last-write-wins.
package service

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/zaocat/Purrfit/internal/reconcile"
	"github.com/zaocat/Purrfit/pkg/domain"
)

// Service owns all reads and writes against the persistent store.
type Service struct {
	store    domain.Store
	log      *zap.Logger
	seedCats []string

	mu sync.Mutex
}

// New constructs a Service. seedCats populates settings on first run; a nil
// logger disables logging.
func New(store domain.Store, seedCats []string, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{store: store, log: log, seedCats: seedCats}
}

// View is a consistent snapshot of the full state for rendering and export.
type View struct {
	Records  []domain.WeightRecord
	Settings domain.Settings
}

// RecordInput carries one record mutation. An empty ID appends; an empty
// Name falls back to the first known cat.
type RecordInput struct {
	ID     string
	Date   string
	Weight float64
	Name   string
	Note   string
}

// ImportSummary reports the outcome of a CSV import.
type ImportSummary struct {
	Imported int
	Skipped  int
	NewCats  []string
}

// Snapshot loads records and settings without mutating anything. Absent
// settings are defaulted in memory, not persisted, so reads stay reads.
func (s *Service) Snapshot(ctx context.Context) (View, error) {
	records, err := s.store.LoadRecords(ctx)
	if err != nil {
		return View{}, fmt.Errorf("load records: %w", err)
	}
	settings, err := s.loadSettings(ctx)
	if err != nil {
		return View{}, err
	}
	return View{Records: records, Settings: settings}, nil
}

func (s *Service) loadSettings(ctx context.Context) (domain.Settings, error) {
	settings, ok, err := s.store.LoadSettings(ctx)
	if err != nil {
		return domain.Settings{}, fmt.Errorf("load settings: %w", err)
	}
	if !ok {
		return domain.DefaultSettings(s.seedCats), nil
	}
	settings.Normalize()
	return settings, nil
}

// SaveRecord upserts one record, auto-registering its cat name first.
// Returns the cat the record landed under.
func (s *Service) SaveRecord(ctx context.Context, input RecordInput) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	settings, err := s.loadSettings(ctx)
	if err != nil {
		return "", err
	}
	name := input.Name
	if name == "" {
		name = settings.Cats[0]
	}
	if settings.EnsureCat(name) {
		if err := s.store.SaveSettings(ctx, settings); err != nil {
			return "", fmt.Errorf("save settings: %w", err)
		}
	}

	records, err := s.store.LoadRecords(ctx)
	if err != nil {
		return "", fmt.Errorf("load records: %w", err)
	}
	records, err = reconcile.Upsert(records, domain.WeightRecord{
		Date:   input.Date,
		Weight: input.Weight,
		Name:   name,
		Note:   input.Note,
	}, input.ID)
	if err != nil {
		return "", err
	}
	if err := s.store.SaveRecords(ctx, records); err != nil {
		return "", fmt.Errorf("save records: %w", err)
	}
	s.log.Info("record saved", zap.String("cat", name), zap.String("date", input.Date))
	return name, nil
}

// DeleteRecord removes the record with the given id. Unknown ids are a
// no-op.
func (s *Service) DeleteRecord(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.store.LoadRecords(ctx)
	if err != nil {
		return fmt.Errorf("load records: %w", err)
	}
	records = reconcile.Delete(records, id)
	if err := s.store.SaveRecords(ctx, records); err != nil {
		return fmt.Errorf("save records: %w", err)
	}
	s.log.Info("record deleted", zap.String("id", id))
	return nil
}

// ImportCSV merges csvText into the record list, registering every cat
// name the import introduces.
func (s *Service) ImportCSV(ctx context.Context, csvText, targetCat string) (ImportSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	settings, err := s.loadSettings(ctx)
	if err != nil {
		return ImportSummary{}, err
	}
	if targetCat == "" {
		targetCat = settings.Cats[0]
	}

	records, err := s.store.LoadRecords(ctx)
	if err != nil {
		return ImportSummary{}, fmt.Errorf("load records: %w", err)
	}
	result := reconcile.ImportCSV(records, csvText, targetCat)

	var newCats []string
	for _, cat := range result.CatsSeen {
		if settings.EnsureCat(cat) {
			newCats = append(newCats, cat)
		}
	}
	if len(newCats) > 0 {
		if err := s.store.SaveSettings(ctx, settings); err != nil {
			return ImportSummary{}, fmt.Errorf("save settings: %w", err)
		}
	}
	if err := s.store.SaveRecords(ctx, result.Records); err != nil {
		return ImportSummary{}, fmt.Errorf("save records: %w", err)
	}
	s.log.Info("csv imported",
		zap.Int("imported", result.Imported),
		zap.Int("skipped", result.Skipped),
		zap.Strings("new_cats", newCats))
	return ImportSummary{Imported: result.Imported, Skipped: result.Skipped, NewCats: newCats}, nil
}

// RenameCat relabels every record of oldName and updates the cat set.
// Renaming a cat to its own name leaves both buckets untouched.
func (s *Service) RenameCat(ctx context.Context, oldName, newName string) error {
	if oldName == newName {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.store.LoadRecords(ctx)
	if err != nil {
		return fmt.Errorf("load records: %w", err)
	}
	records, changed := reconcile.RenameCat(records, oldName, newName)
	if changed {
		if err := s.store.SaveRecords(ctx, records); err != nil {
			return fmt.Errorf("save records: %w", err)
		}
	}

	settings, err := s.loadSettings(ctx)
	if err != nil {
		return err
	}
	removed := settings.RemoveCat(oldName)
	added := settings.EnsureCat(newName)
	if removed || added {
		settings.Normalize()
		if err := s.store.SaveSettings(ctx, settings); err != nil {
			return fmt.Errorf("save settings: %w", err)
		}
	}
	if changed || removed || added {
		s.log.Info("cat renamed", zap.String("from", oldName), zap.String("to", newName))
	}
	return nil
}

// UpdateSettings replaces the settings wholesale. An emptied cat list falls
// back to the default cat.
func (s *Service) UpdateSettings(ctx context.Context, settings domain.Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	settings.Normalize()
	if err := s.store.SaveSettings(ctx, settings); err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	s.log.Info("settings updated", zap.Strings("cats", settings.Cats))
	return nil
}

// Reset deletes both persisted keys. The next read sees first-run defaults.
func (s *Service) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.Reset(ctx); err != nil {
		return fmt.Errorf("reset store: %w", err)
	}
	s.log.Warn("store reset")
	return nil
}
