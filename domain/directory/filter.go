package directory

import (
	"strings"

	"staff-directory/domain/models"
)

// Filter returns the people whose display name or email contains query,
// ignoring case, in roster order. Only the exact empty string matches
// everyone; the query is not trimmed.
func Filter(roster []models.Person, query string) []models.Person {
	matches := make([]models.Person, 0, len(roster))
	if query == "" {
		return append(matches, roster...)
	}

	needle := strings.ToLower(query)
	for _, person := range roster {
		if strings.Contains(strings.ToLower(person.DisplayName), needle) ||
			strings.Contains(strings.ToLower(person.Email), needle) {
			matches = append(matches, person)
		}
	}
	return matches
}

// FindPerson looks a person up by id with a linear scan.
func FindPerson(roster []models.Person, id uint) (models.Person, bool) {
	for _, person := range roster {
		if person.ID == id {
			return person, true
		}
	}
	return models.Person{}, false
}
