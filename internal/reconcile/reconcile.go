// Package reconcile applies single mutations to the full record list and
// re-establishes its invariants: unique ids, stable ascending date order.
// All functions are pure over their inputs; persistence is the caller's job.
package reconcile

import (
	"crypto/rand"
	"encoding/hex"

	"github.com/zaocat/Purrfit/pkg/domain"
)

// newID returns a fresh opaque record identifier.
func newID() string {
	var b [16]byte
	if _, err := rand.Read(b[:]); err != nil {
		panic(err)
	}
	return hex.EncodeToString(b[:])
}

// Upsert replaces the record matching id in place (preserving its id), or
// appends input with a freshly generated id when id is empty or unmatched.
// The returned list is re-sorted by date.
func Upsert(records []domain.WeightRecord, input domain.WeightRecord, id string) ([]domain.WeightRecord, error) {
	if err := input.Validate(); err != nil {
		return records, err
	}
	updated := false
	if id != "" {
		for i := range records {
			if records[i].ID == id {
				records[i].Date = input.Date
				records[i].Weight = input.Weight
				records[i].Name = input.Name
				records[i].Note = input.Note
				updated = true
				break
			}
		}
	}
	if !updated {
		input.ID = newID()
		records = append(records, input)
	}
	domain.SortByDate(records)
	return records, nil
}

// Delete removes the record with the given id. Deleting an absent id is a
// no-op, not an error.
func Delete(records []domain.WeightRecord, id string) []domain.WeightRecord {
	out := records[:0]
	for _, r := range records {
		if r.ID != id {
			out = append(out, r)
		}
	}
	return out
}

// RenameCat relabels every record of oldName to newName. No-ops when the
// names match or either is empty.
func RenameCat(records []domain.WeightRecord, oldName, newName string) ([]domain.WeightRecord, bool) {
	if oldName == "" || newName == "" || oldName == newName {
		return records, false
	}
	changed := false
	for i := range records {
		if records[i].Name == oldName {
			records[i].Name = newName
			changed = true
		}
	}
	return records, changed
}
