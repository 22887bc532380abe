package services

import (
	"context"

	"staff-directory/domain/directory"
	"staff-directory/domain/models"
)

// SessionListener receives a session's outgoing changes.
type SessionListener interface {
	MatchesChanged(rows []directory.Row)
	OverlayChanged(o directory.Overlay)
}

// DirectorySession is one live client: a query with its matches and one
// seat-map overlay.
type DirectorySession interface {
	ID() string
	OnQueryChange(text string)
	OnLocateRequested(personID uint) bool
	OnOverlayClosed()
	Lookup(personID uint) (directory.Row, bool)

	Query() string
	CurrentMatches() []models.Person
	Rows() []directory.Row
	IsOverlayOpen() bool
	CurrentlyHighlightedSeat() (string, bool)
	Overlay() directory.Overlay

	// Wait blocks until pending locate requests have settled.
	Wait()
}

// DirectoryService answers directory lookups and manages live sessions.
type DirectoryService interface {
	Search(ctx context.Context, query string) []directory.Row
	GetPerson(ctx context.Context, id uint) (*directory.Row, error)
	ResolveLocation(ctx context.Context, id uint) (*directory.Location, error)

	// RenderSeatMap returns the person's floor map with their seat located.
	// It fails with directory.ErrNotActionable for remote or unknown
	// locations and with *directory.MapFetchError when the map is unavailable.
	RenderSeatMap(ctx context.Context, id uint) (*models.SeatMap, error)

	Floors() []models.Floor
	CachedFloors() int

	OpenSession(ctx context.Context, listener SessionListener) DirectorySession
	CloseSession(id string)
	SessionCount() int

	// Shutdown disposes every open session.
	Shutdown()
}
