package models

import (
	"time"
)

// DirectoryUser is the person record an employee list entry links to.
// Display name and email live here, not on the list entry.
type DirectoryUser struct {
	ID          uint   `gorm:"primaryKey"`
	DisplayName string `gorm:"not null;index"`
	Email       string `gorm:"uniqueIndex"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (DirectoryUser) TableName() string {
	return "directory_users"
}

// EmployeeEntry is one row of the employee list.
type EmployeeEntry struct {
	ID       uint `gorm:"primaryKey"`
	Title    string
	Phone    string
	Location string `gorm:"index"` // Seat / neighborhood code, e.g. "P3", "B22", "R1"

	EmployeeID *uint

	CreatedAt time.Time
	UpdatedAt time.Time

	// Relations
	Employee *DirectoryUser `gorm:"foreignKey:EmployeeID"`
}

func (EmployeeEntry) TableName() string {
	return "employee_list"
}

// Person is the flattened, read-only roster record.
type Person struct {
	ID           uint   `json:"id"`
	DisplayName  string `json:"displayName"`
	Email        string `json:"email"`
	Title        string `json:"title"`
	Phone        string `json:"phone"`
	LocationCode string `json:"locationCode"`
}

// Person flattens the entry with its linked directory user expanded.
func (e EmployeeEntry) Person() Person {
	p := Person{
		ID:           e.ID,
		Title:        e.Title,
		Phone:        e.Phone,
		LocationCode: e.Location,
	}
	if e.Employee != nil {
		p.DisplayName = e.Employee.DisplayName
		p.Email = e.Employee.Email
	}
	return p
}
