package directory

import (
	"sort"

	"staff-directory/domain/models"
)

var actionLabels = map[models.LocationClass]string{
	models.LocationFloor4:       "Find on 4th floor",
	models.LocationFloor3:       "Find on 3rd floor",
	models.LocationRemote:       "Fully Remote Employee",
	models.LocationUnresolvable: "Location unavailable",
}

// Location is everything the UI needs to render a person's locate action.
type Location struct {
	Code       string               `json:"code"`
	Class      models.LocationClass `json:"class"`
	Floor      *models.Floor        `json:"floor,omitempty"`
	Label      string               `json:"label"`
	Actionable bool                 `json:"actionable"`
}

// LocationResolver maps location codes to floors and map assets.
type LocationResolver struct {
	assets map[models.LocationClass]string
}

// NewLocationResolver creates a resolver. assets maps each floor class to the
// URL of its floor map; a floor class without a URL is never actionable.
func NewLocationResolver(assets map[models.LocationClass]string) *LocationResolver {
	copied := make(map[models.LocationClass]string, len(assets))
	for class, url := range assets {
		if url != "" {
			copied[class] = url
		}
	}
	return &LocationResolver{assets: copied}
}

// Classify derives the location class from the first character of code.
// Anything that is not P, B or R lands on the 3rd floor.
func Classify(code string) models.LocationClass {
	if code == "" {
		return models.LocationUnresolvable
	}
	switch code[0] {
	case 'P', 'B':
		return models.LocationFloor4
	case 'R':
		return models.LocationRemote
	default:
		return models.LocationFloor3
	}
}

// ActionLabel returns the button text for class.
func ActionLabel(class models.LocationClass) string {
	return actionLabels[class]
}

// MapAssetFor returns the floor map URL for class.
func (r *LocationResolver) MapAssetFor(class models.LocationClass) (string, bool) {
	if class == models.LocationRemote || class == models.LocationUnresolvable {
		return "", false
	}
	url, ok := r.assets[class]
	return url, ok
}

// IsActionable reports whether a locate action for class may fetch a map.
func (r *LocationResolver) IsActionable(class models.LocationClass) bool {
	_, ok := r.MapAssetFor(class)
	return ok
}

// Floors lists the configured floors.
func (r *LocationResolver) Floors() []models.Floor {
	floors := make([]models.Floor, 0, len(r.assets))
	for class, url := range r.assets {
		floors = append(floors, floorFor(class, url))
	}
	sort.Slice(floors, func(i, j int) bool { return floors[i].ID < floors[j].ID })
	return floors
}

// Resolve classifies code and bundles the floor, label and action state.
func (r *LocationResolver) Resolve(code string) Location {
	class := Classify(code)
	loc := Location{
		Code:  code,
		Class: class,
		Label: ActionLabel(class),
	}
	if url, ok := r.MapAssetFor(class); ok {
		floor := floorFor(class, url)
		loc.Floor = &floor
		loc.Actionable = true
	}
	return loc
}

func floorFor(class models.LocationClass, url string) models.Floor {
	return models.Floor{
		ID:       class.String(),
		Label:    ActionLabel(class),
		AssetURL: url,
	}
}

// Row is a person paired with their resolved locate action.
type Row struct {
	Person   models.Person `json:"person"`
	Location Location      `json:"location"`
}

// Rows resolves the location of every person, keeping their order.
func (r *LocationResolver) Rows(people []models.Person) []Row {
	rows := make([]Row, 0, len(people))
	for _, p := range people {
		rows = append(rows, Row{Person: p, Location: r.Resolve(p.LocationCode)})
	}
	return rows
}
