package serviceimpl

import (
	"context"
	"errors"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"staff-directory/domain/directory"
	"staff-directory/domain/models"
	"staff-directory/domain/repositories"
	"staff-directory/domain/services"
	"staff-directory/pkg/logger"
)

const rosterCacheKey = "directory:roster"

// RosterCache mirrors the roster snapshot outside the process.
type RosterCache interface {
	GetJSON(ctx context.Context, key string, dest interface{}) error
	SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}

type RosterServiceImpl struct {
	personRepo repositories.PersonRepository
	cache      RosterCache
	rowCap     int
	cacheTTL   time.Duration

	mu       sync.RWMutex
	snapshot []models.Person
	loaded   bool
	status   services.RosterStatus

	subsMu      sync.Mutex
	subscribers []func([]models.Person)

	refreshes singleflight.Group
}

// NewRosterService creates the roster service. cache may be nil.
func NewRosterService(personRepo repositories.PersonRepository, cache RosterCache, rowCap int, cacheTTL time.Duration) services.RosterService {
	return &RosterServiceImpl{
		personRepo: personRepo,
		cache:      cache,
		rowCap:     rowCap,
		cacheTTL:   cacheTTL,
		snapshot:   []models.Person{},
		status:     services.RosterStatus{Source: "empty"},
	}
}

func (s *RosterServiceImpl) Roster(ctx context.Context) []models.Person {
	s.mu.RLock()
	if s.loaded {
		roster := s.snapshot
		s.mu.RUnlock()
		return roster
	}
	s.mu.RUnlock()

	if roster, ok := s.loadFromCache(ctx); ok {
		return roster
	}

	roster, _ := s.Refresh(ctx)
	return roster
}

func (s *RosterServiceImpl) loadFromCache(ctx context.Context) ([]models.Person, bool) {
	if s.cache == nil {
		return nil, false
	}

	var roster []models.Person
	if err := s.cache.GetJSON(ctx, rosterCacheKey, &roster); err != nil {
		return nil, false
	}

	s.mu.Lock()
	if s.loaded {
		// A refresh won the race.
		roster = s.snapshot
		s.mu.Unlock()
		return roster, true
	}
	s.snapshot = roster
	s.loaded = true
	now := time.Now()
	s.status = services.RosterStatus{Size: len(roster), Source: "cache", RefreshedAt: &now}
	s.mu.Unlock()

	logger.Roster("cache_hit", "Roster loaded from cache", map[string]interface{}{"size": len(roster)})
	return roster, true
}

func (s *RosterServiceImpl) Refresh(ctx context.Context) ([]models.Person, error) {
	res, err, _ := s.refreshes.Do("refresh", func() (interface{}, error) {
		return s.refresh(ctx)
	})
	return res.([]models.Person), err
}

func (s *RosterServiceImpl) refresh(ctx context.Context) ([]models.Person, error) {
	start := time.Now()

	roster, err := s.personRepo.ListRoster(ctx, repositories.RosterQuery{Limit: s.rowCap})
	if err != nil {
		fetchErr := &directory.DataFetchError{Err: err}
		logger.RosterError("refresh_failed", "Failed to refresh roster", err, map[string]interface{}{"row_cap": s.rowCap})

		s.mu.Lock()
		s.status.LastError = fetchErr.Error()
		current := s.snapshot
		s.mu.Unlock()
		return current, fetchErr
	}

	truncated := s.isTruncated(ctx, len(roster))

	now := time.Now()
	s.mu.Lock()
	s.snapshot = roster
	s.loaded = true
	s.status = services.RosterStatus{Size: len(roster), Source: "database", RefreshedAt: &now, Truncated: truncated}
	s.mu.Unlock()

	if s.cache != nil {
		if err := s.cache.SetJSON(ctx, rosterCacheKey, roster, s.cacheTTL); err != nil {
			logger.RosterWarn("cache_write_failed", "Failed to mirror roster to cache", map[string]interface{}{"error": err.Error()})
		}
	}

	logger.Roster("refreshed", "Roster refreshed", map[string]interface{}{
		"size":        len(roster),
		"duration_ms": time.Since(start).Milliseconds(),
	})

	s.publish(roster)
	return roster, nil
}

// isTruncated checks a roster that filled the cap against the store count.
// Without a count a full page is assumed to be truncated.
func (s *RosterServiceImpl) isTruncated(ctx context.Context, size int) bool {
	if size < s.rowCap {
		return false
	}

	data := map[string]interface{}{"row_cap": s.rowCap}
	total, err := s.personRepo.Count(ctx)
	if err == nil {
		if total <= int64(s.rowCap) {
			return false
		}
		data["total"] = total
	}
	logger.RosterWarn("truncated", "Roster filled the row cap and may be truncated; raise ROSTER_ROW_CAP", data)
	return true
}

func (s *RosterServiceImpl) Person(ctx context.Context, id uint) (*models.Person, error) {
	if person, ok := directory.FindPerson(s.Roster(ctx), id); ok {
		return &person, nil
	}

	// The snapshot is capped, so fall through to the store.
	person, err := s.personRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, directory.ErrPersonNotFound) {
			return nil, err
		}
		return nil, &directory.DataFetchError{Err: err}
	}
	return person, nil
}

func (s *RosterServiceImpl) Subscribe(fn func(roster []models.Person)) {
	s.subsMu.Lock()
	s.subscribers = append(s.subscribers, fn)
	s.subsMu.Unlock()
}

func (s *RosterServiceImpl) publish(roster []models.Person) {
	s.subsMu.Lock()
	subscribers := make([]func([]models.Person), len(s.subscribers))
	copy(subscribers, s.subscribers)
	s.subsMu.Unlock()

	for _, fn := range subscribers {
		fn(roster)
	}
}

func (s *RosterServiceImpl) Status() services.RosterStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status
}
