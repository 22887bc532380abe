package session

import (
	"sync"

	"github.com/google/uuid"

	"staff-directory/application/overlay"
	"staff-directory/domain/directory"
	"staff-directory/domain/models"
	"staff-directory/domain/services"
	"staff-directory/pkg/logger"
)

type Listener = services.SessionListener

// DirectoryController is the state of one directory session: the roster
// snapshot, the current query and its matches, and one overlay.
type DirectoryController struct {
	id       string
	resolver *directory.LocationResolver
	overlay  *overlay.Controller
	listener Listener

	// emitMu orders match recomputation with its delivery to the listener.
	emitMu sync.Mutex

	mu       sync.RWMutex
	roster   []models.Person
	pushed   bool // a roster arrived through SetRoster
	query    string
	matches  []models.Person
	disposed bool
}

func NewDirectoryController(resolver *directory.LocationResolver, cache *overlay.DocumentCache, opts overlay.HighlightOptions, roster []models.Person, listener Listener) *DirectoryController {
	c := &DirectoryController{
		id:       uuid.New().String(),
		resolver: resolver,
		listener: listener,
		roster:   roster,
		matches:  directory.Filter(roster, ""),
	}
	c.overlay = overlay.NewController(resolver, cache, opts, c.overlayChanged)
	return c
}

func (c *DirectoryController) ID() string {
	return c.id
}

// OnQueryChange applies text as the new query and publishes the matches.
func (c *DirectoryController) OnQueryChange(text string) {
	c.updateMatches(func() { c.query = text })
}

// SetRoster swaps in a refreshed roster and re-applies the current query.
func (c *DirectoryController) SetRoster(roster []models.Person) {
	c.updateMatches(func() {
		c.roster = roster
		c.pushed = true
	})
}

// SeedRoster sets the starting roster without notifying the listener. It is
// ignored once SetRoster has delivered a refresh, which is always newer.
func (c *DirectoryController) SeedRoster(roster []models.Person) bool {
	c.emitMu.Lock()
	defer c.emitMu.Unlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.disposed || c.pushed {
		return false
	}
	c.roster = roster
	c.matches = directory.Filter(roster, c.query)
	return true
}

func (c *DirectoryController) updateMatches(mutate func()) {
	c.emitMu.Lock()
	defer c.emitMu.Unlock()

	c.mu.Lock()
	if c.disposed {
		c.mu.Unlock()
		return
	}
	mutate()
	c.matches = directory.Filter(c.roster, c.query)
	rows := c.rowsLocked()
	c.mu.Unlock()

	if c.listener != nil {
		c.listener.MatchesChanged(rows)
	}
}

// OnLocateRequested starts locating the person's seat. It returns false
// when the person is unknown or their location is not actionable.
func (c *DirectoryController) OnLocateRequested(personID uint) bool {
	c.mu.RLock()
	person, found := directory.FindPerson(c.roster, personID)
	disposed := c.disposed
	c.mu.RUnlock()

	if disposed {
		return false
	}
	if !found {
		logger.Overlay("locate_unknown_person", "Locate requested for unknown person", map[string]interface{}{"session_id": c.id, "person_id": personID})
		return false
	}

	_, ok := c.overlay.Locate(person.LocationCode)
	return ok
}

func (c *DirectoryController) OnOverlayClosed() {
	c.overlay.Close()
}

// Lookup returns the row for a person in the current roster, matched or not.
func (c *DirectoryController) Lookup(personID uint) (directory.Row, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	person, ok := directory.FindPerson(c.roster, personID)
	if !ok {
		return directory.Row{}, false
	}
	return directory.Row{Person: person, Location: c.resolver.Resolve(person.LocationCode)}, true
}

// Roster returns the session's roster snapshot.
func (c *DirectoryController) Roster() []models.Person {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.roster
}

func (c *DirectoryController) Query() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.query
}

func (c *DirectoryController) CurrentMatches() []models.Person {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]models.Person(nil), c.matches...)
}

// Rows returns the current matches with their locate actions resolved.
func (c *DirectoryController) Rows() []directory.Row {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.rowsLocked()
}

func (c *DirectoryController) rowsLocked() []directory.Row {
	return c.resolver.Rows(c.matches)
}

func (c *DirectoryController) IsOverlayOpen() bool {
	return c.overlay.IsOpen()
}

func (c *DirectoryController) CurrentlyHighlightedSeat() (string, bool) {
	return c.overlay.HighlightedSeat()
}

func (c *DirectoryController) Overlay() overlay.Overlay {
	return c.overlay.Snapshot()
}

// Wait blocks until pending locate requests have settled.
func (c *DirectoryController) Wait() {
	c.overlay.Wait()
}

// Dispose ends the session. Pending locate requests are cancelled and the
// listener receives nothing further.
func (c *DirectoryController) Dispose() {
	c.mu.Lock()
	if c.disposed {
		c.mu.Unlock()
		return
	}
	c.disposed = true
	c.mu.Unlock()

	c.overlay.Dispose()
	logger.Overlay("session_disposed", "Directory session disposed", map[string]interface{}{"session_id": c.id})
}

func (c *DirectoryController) overlayChanged(o overlay.Overlay) {
	c.mu.RLock()
	disposed := c.disposed
	c.mu.RUnlock()

	if disposed || c.listener == nil {
		return
	}
	c.listener.OverlayChanged(o)
}
