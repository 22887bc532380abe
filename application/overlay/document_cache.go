package overlay

import (
	"context"
	"sync"

	"golang.org/x/sync/singleflight"

	"staff-directory/domain/directory"
	"staff-directory/domain/models"
	"staff-directory/pkg/logger"
	"staff-directory/pkg/svgdoc"
)

// Fetcher downloads a floor map document.
type Fetcher interface {
	FetchFloorMap(ctx context.Context, url string) ([]byte, error)
}

// DocumentCache holds one parsed document per floor. Concurrent loads of the
// same floor share a single fetch. Entries are written only on success and
// never evicted. Cached documents are shared and must not be mutated; copy
// them first.
type DocumentCache struct {
	fetcher Fetcher

	mu   sync.RWMutex
	docs map[string]*svgdoc.Document

	flights singleflight.Group
}

func NewDocumentCache(fetcher Fetcher) *DocumentCache {
	return &DocumentCache{
		fetcher: fetcher,
		docs:    make(map[string]*svgdoc.Document),
	}
}

// Cached returns the floor's document if it has been loaded.
func (c *DocumentCache) Cached(floorID string) (*svgdoc.Document, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	doc, ok := c.docs[floorID]
	return doc, ok
}

// Len returns the number of cached floors.
func (c *DocumentCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.docs)
}

// LoadAsync joins or starts the fetch for floor and returns a channel that
// receives its result. A shared fetch is not cancelled when the caller that
// started it goes away; it is bounded by the fetcher's own timeout.
func (c *DocumentCache) LoadAsync(ctx context.Context, floor models.Floor) <-chan singleflight.Result {
	fetchCtx := context.WithoutCancel(ctx)
	return c.flights.DoChan(floor.ID, func() (interface{}, error) {
		if doc, ok := c.Cached(floor.ID); ok {
			return doc, nil
		}
		return c.fetch(fetchCtx, floor)
	})
}

// Load returns the floor's document, fetching it if needed.
func (c *DocumentCache) Load(ctx context.Context, floor models.Floor) (*svgdoc.Document, error) {
	if doc, ok := c.Cached(floor.ID); ok {
		return doc, nil
	}

	select {
	case res := <-c.LoadAsync(ctx, floor):
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*svgdoc.Document), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (c *DocumentCache) fetch(ctx context.Context, floor models.Floor) (*svgdoc.Document, error) {
	logger.FloorMap("fetch_started", "Fetching floor map", map[string]interface{}{"floor": floor.ID, "url": floor.AssetURL})

	data, err := c.fetcher.FetchFloorMap(ctx, floor.AssetURL)
	if err != nil {
		logger.FloorMapError("fetch_failed", "Failed to fetch floor map", err, map[string]interface{}{"floor": floor.ID})
		return nil, &directory.MapFetchError{FloorID: floor.ID, URL: floor.AssetURL, Err: err}
	}

	doc, err := svgdoc.Parse(data)
	if err != nil {
		logger.FloorMapError("parse_failed", "Failed to parse floor map", err, map[string]interface{}{"floor": floor.ID})
		return nil, &directory.MapFetchError{FloorID: floor.ID, URL: floor.AssetURL, Err: err}
	}

	c.mu.Lock()
	c.docs[floor.ID] = doc
	c.mu.Unlock()

	logger.FloorMap("fetch_completed", "Floor map cached", map[string]interface{}{"floor": floor.ID, "bytes": len(data)})
	return doc, nil
}
