// Package domain defines the core data model for the weight log: records,
// settings, the persistence abstraction, and the shared error taxonomy.
// It depends on the standard library only.
package domain

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

// WeightRecord is one dated weight observation for a single cat.
type WeightRecord struct {
	ID     string  `json:"id"`
	Date   string  `json:"date"` // calendar date, YYYY-MM-DD
	Weight float64 `json:"weight"`
	Name   string  `json:"name"`
	Note   string  `json:"note"`
}

// Validate checks the fields required before a record may be stored.
func (r WeightRecord) Validate() error {
	if r.Date == "" {
		return ValidationError{Field: "date", Reason: "required"}
	}
	if math.IsNaN(r.Weight) || math.IsInf(r.Weight, 0) {
		return ValidationError{Field: "weight", Reason: "must be a finite number"}
	}
	return nil
}

// SortByDate orders records ascending by date. The sort is stable: records
// sharing a date keep their relative insertion order across rewrites.
func SortByDate(records []WeightRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Date < records[j].Date
	})
}

// ValidationError reports a rejected record field. The request is answered
// with a client error and no state change.
type ValidationError struct {
	Field  string
	Reason string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// ErrInvalidCredentials is returned by the authenticator on a failed login.
var ErrInvalidCredentials = errors.New("invalid credentials")

// ErrUnauthenticated marks a protected request carrying no valid session.
var ErrUnauthenticated = errors.New("unauthenticated")

// ErrNotConfigured is fatal: the service cannot serve any request without a
// store binding and admin credentials.
var ErrNotConfigured = errors.New("service not configured")
