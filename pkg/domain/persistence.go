package domain

import "context"

// Store is the minimal abstraction over durable backends. The persisted
// state is exactly two logical keys: the full record list and the settings
// object, both written whole on every mutation. There is no cross-process
// optimistic concurrency; implementations serialize in-process writers and
// concurrent external writers race under last-write-wins.
type Store interface {
	// LoadRecords returns the full record list; an absent key yields an
	// empty list, not an error.
	LoadRecords(ctx context.Context) ([]WeightRecord, error)
	// SaveRecords rewrites the record list in its entirety.
	SaveRecords(ctx context.Context, records []WeightRecord) error
	// LoadSettings returns the stored settings and whether the key exists.
	// Callers apply defaults when it does not.
	LoadSettings(ctx context.Context) (Settings, bool, error)
	// SaveSettings rewrites the settings object in its entirety.
	SaveSettings(ctx context.Context, settings Settings) error
	// Reset deletes both keys. The next load observes factory state.
	Reset(ctx context.Context) error
}
