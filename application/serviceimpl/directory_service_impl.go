package serviceimpl

import (
	"context"
	"sync"

	"staff-directory/application/overlay"
	"staff-directory/application/session"
	"staff-directory/domain/directory"
	"staff-directory/domain/models"
	"staff-directory/domain/services"
	"staff-directory/pkg/logger"
)

type DirectoryServiceImpl struct {
	rosterService services.RosterService
	resolver      *directory.LocationResolver
	documents     *overlay.DocumentCache
	highlight     overlay.HighlightOptions

	mu       sync.RWMutex
	sessions map[string]*session.DirectoryController
}

// NewDirectoryService creates the directory service and subscribes it to
// roster refreshes so open sessions see the new roster.
func NewDirectoryService(
	rosterService services.RosterService,
	resolver *directory.LocationResolver,
	documents *overlay.DocumentCache,
	highlight overlay.HighlightOptions,
) services.DirectoryService {
	s := &DirectoryServiceImpl{
		rosterService: rosterService,
		resolver:      resolver,
		documents:     documents,
		highlight:     highlight,
		sessions:      make(map[string]*session.DirectoryController),
	}
	rosterService.Subscribe(s.pushRoster)
	return s
}

func (s *DirectoryServiceImpl) Search(ctx context.Context, query string) []directory.Row {
	matches := directory.Filter(s.rosterService.Roster(ctx), query)
	return s.resolver.Rows(matches)
}

func (s *DirectoryServiceImpl) GetPerson(ctx context.Context, id uint) (*directory.Row, error) {
	person, err := s.rosterService.Person(ctx, id)
	if err != nil {
		return nil, err
	}
	return &directory.Row{Person: *person, Location: s.resolver.Resolve(person.LocationCode)}, nil
}

func (s *DirectoryServiceImpl) ResolveLocation(ctx context.Context, id uint) (*directory.Location, error) {
	row, err := s.GetPerson(ctx, id)
	if err != nil {
		return nil, err
	}
	return &row.Location, nil
}

func (s *DirectoryServiceImpl) RenderSeatMap(ctx context.Context, id uint) (*models.SeatMap, error) {
	row, err := s.GetPerson(ctx, id)
	if err != nil {
		return nil, err
	}

	loc := row.Location
	if !loc.Actionable || loc.Floor == nil {
		return nil, directory.ErrNotActionable
	}

	doc, err := s.documents.Load(ctx, *loc.Floor)
	if err != nil {
		return nil, err
	}

	seatMap, err := overlay.RenderSeatMap(doc, loc.Floor.ID, loc.Code, s.highlight)
	if err != nil {
		return nil, err
	}
	return &seatMap, nil
}

func (s *DirectoryServiceImpl) Floors() []models.Floor {
	return s.resolver.Floors()
}

func (s *DirectoryServiceImpl) CachedFloors() int {
	return s.documents.Len()
}

// OpenSession registers the session before reading the roster, so a refresh
// that lands in between still reaches it.
func (s *DirectoryServiceImpl) OpenSession(ctx context.Context, listener services.SessionListener) services.DirectorySession {
	c := session.NewDirectoryController(s.resolver, s.documents, s.highlight, nil, listener)

	s.mu.Lock()
	s.sessions[c.ID()] = c
	count := len(s.sessions)
	s.mu.Unlock()

	roster := s.rosterService.Roster(ctx)
	if !c.SeedRoster(roster) {
		roster = c.Roster()
	}

	logger.WebSocket("session_opened", "Directory session opened", map[string]interface{}{
		"session_id": c.ID(),
		"roster":     len(roster),
		"sessions":   count,
	})
	return c
}

func (s *DirectoryServiceImpl) CloseSession(id string) {
	s.mu.Lock()
	c, ok := s.sessions[id]
	delete(s.sessions, id)
	count := len(s.sessions)
	s.mu.Unlock()

	if !ok {
		return
	}
	c.Dispose()
	logger.WebSocket("session_closed", "Directory session closed", map[string]interface{}{"session_id": id, "sessions": count})
}

func (s *DirectoryServiceImpl) SessionCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

func (s *DirectoryServiceImpl) Shutdown() {
	s.mu.Lock()
	sessions := s.sessions
	s.sessions = make(map[string]*session.DirectoryController)
	s.mu.Unlock()

	for _, c := range sessions {
		c.Dispose()
	}
	logger.WebSocket("sessions_shutdown", "All directory sessions closed", map[string]interface{}{"count": len(sessions)})
}

func (s *DirectoryServiceImpl) pushRoster(roster []models.Person) {
	s.mu.RLock()
	sessions := make([]*session.DirectoryController, 0, len(s.sessions))
	for _, c := range s.sessions {
		sessions = append(sessions, c)
	}
	s.mu.RUnlock()

	for _, c := range sessions {
		c.SetRoster(roster)
	}
	if len(sessions) > 0 {
		logger.Roster("pushed", "Roster pushed to open sessions", map[string]interface{}{"sessions": len(sessions), "size": len(roster)})
	}
}
