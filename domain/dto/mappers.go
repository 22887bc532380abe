package dto

import (
	"staff-directory/domain/directory"
	"staff-directory/domain/models"
)

func PersonToPersonResponse(p models.Person) PersonResponse {
	return PersonResponse{
		ID:           p.ID,
		DisplayName:  p.DisplayName,
		Email:        p.Email,
		Title:        p.Title,
		Phone:        p.Phone,
		LocationCode: p.LocationCode,
	}
}

func FloorToFloorResponse(f *models.Floor) *FloorResponse {
	if f == nil {
		return nil
	}
	return &FloorResponse{
		ID:       f.ID,
		Label:    f.Label,
		AssetURL: f.AssetURL,
	}
}

func FloorsToFloorResponses(floors []models.Floor) []FloorResponse {
	out := make([]FloorResponse, 0, len(floors))
	for i := range floors {
		out = append(out, *FloorToFloorResponse(&floors[i]))
	}
	return out
}

func LocationToLocationResponse(loc directory.Location) LocationResponse {
	return LocationResponse{
		Code:       loc.Code,
		Class:      loc.Class.String(),
		Label:      loc.Label,
		Actionable: loc.Actionable,
		Floor:      FloorToFloorResponse(loc.Floor),
	}
}

func RowToEntryResponse(row directory.Row) DirectoryEntryResponse {
	return DirectoryEntryResponse{
		Person:   PersonToPersonResponse(row.Person),
		Location: LocationToLocationResponse(row.Location),
	}
}

func RowsToListResponse(query string, rows []directory.Row) *DirectoryListResponse {
	entries := make([]DirectoryEntryResponse, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, RowToEntryResponse(row))
	}
	return &DirectoryListResponse{
		Query:   query,
		Entries: entries,
		Total:   len(entries),
	}
}
