package services

import (
	"context"
	"time"

	"staff-directory/domain/models"
)

// RosterStatus describes the last roster refresh.
type RosterStatus struct {
	Size        int        `json:"size"`
	Source      string     `json:"source"` // database, cache or empty
	RefreshedAt *time.Time `json:"refreshedAt,omitempty"`
	Truncated   bool       `json:"truncated"`
	LastError   string     `json:"lastError,omitempty"`
}

// RosterService owns the process-wide roster snapshot.
type RosterService interface {
	// Roster returns the current snapshot, loading it on first use. It never
	// fails; a store failure yields the last good snapshot or an empty one.
	// The returned slice is shared and must not be modified.
	Roster(ctx context.Context) []models.Person

	// Refresh re-reads the store. On failure the previous snapshot is kept
	// and a *directory.DataFetchError is returned.
	Refresh(ctx context.Context) ([]models.Person, error)

	// Person looks a person up in the snapshot, then in the store.
	Person(ctx context.Context, id uint) (*models.Person, error)

	// Subscribe registers fn to receive every successfully refreshed roster.
	Subscribe(fn func(roster []models.Person))

	Status() RosterStatus
}
