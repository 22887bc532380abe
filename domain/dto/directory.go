package dto

// PersonResponse is the DTO for a roster entry
type PersonResponse struct {
	ID           uint   `json:"id"`
	DisplayName  string `json:"display_name"`
	Email        string `json:"email"`
	Title        string `json:"title"`
	Phone        string `json:"phone"`
	LocationCode string `json:"location_code"`
}

type FloorResponse struct {
	ID       string `json:"id"`
	Label    string `json:"label"`
	AssetURL string `json:"asset_url"`
}

// LocationResponse describes a person's locate action
type LocationResponse struct {
	Code       string         `json:"code"`
	Class      string         `json:"class"`
	Label      string         `json:"label"`
	Actionable bool           `json:"actionable"`
	Floor      *FloorResponse `json:"floor,omitempty"`
}

type DirectoryEntryResponse struct {
	Person   PersonResponse   `json:"person"`
	Location LocationResponse `json:"location"`
}

// DirectoryListResponse is the DTO for search results
type DirectoryListResponse struct {
	Query   string                   `json:"query"`
	Entries []DirectoryEntryResponse `json:"entries"`
	Total   int                      `json:"total"`
}
