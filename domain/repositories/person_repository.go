package repositories

import (
	"context"

	"staff-directory/domain/models"
)

// RosterQuery controls a roster read. Limit must be set explicitly: the
// store's default page is smaller than the roster.
type RosterQuery struct {
	Limit int
}

type PersonRepository interface {
	ListRoster(ctx context.Context, query RosterQuery) ([]models.Person, error)
	GetByID(ctx context.Context, id uint) (*models.Person, error)
	Count(ctx context.Context) (int64, error)
}
