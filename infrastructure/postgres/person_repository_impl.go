package postgres

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"staff-directory/domain/directory"
	"staff-directory/domain/models"
	"staff-directory/domain/repositories"
)

// Columns read from the employee list; the linked user is expanded by the join.
var rosterColumns = []string{
	"employee_list.id",
	"employee_list.title",
	"employee_list.phone",
	"employee_list.location",
	"employee_list.employee_id",
}

type PersonRepositoryImpl struct {
	db *gorm.DB
}

func NewPersonRepository(db *gorm.DB) repositories.PersonRepository {
	return &PersonRepositoryImpl{db: db}
}

func (r *PersonRepositoryImpl) ListRoster(ctx context.Context, query repositories.RosterQuery) ([]models.Person, error) {
	if query.Limit <= 0 {
		return nil, fmt.Errorf("roster query needs an explicit limit, got %d", query.Limit)
	}

	var entries []models.EmployeeEntry
	if err := rosterQuery(r.db.WithContext(ctx), query.Limit).Find(&entries).Error; err != nil {
		return nil, err
	}

	persons := make([]models.Person, len(entries))
	for i, entry := range entries {
		persons[i] = entry.Person()
	}
	return persons, nil
}

// rosterQuery expands the linked user and orders by its display name.
func rosterQuery(tx *gorm.DB, limit int) *gorm.DB {
	return tx.
		Select(rosterColumns).
		Joins("Employee").
		Order(`"Employee"."display_name" ASC`).
		Order("employee_list.id ASC").
		Limit(limit)
}

func (r *PersonRepositoryImpl) GetByID(ctx context.Context, id uint) (*models.Person, error) {
	var entry models.EmployeeEntry
	err := r.db.WithContext(ctx).
		Joins("Employee").
		Where("employee_list.id = ?", id).
		First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, directory.ErrPersonNotFound
	}
	if err != nil {
		return nil, err
	}

	person := entry.Person()
	return &person, nil
}

func (r *PersonRepositoryImpl) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.EmployeeEntry{}).Count(&count).Error
	return count, err
}
