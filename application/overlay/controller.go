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

type State = directory.OverlayState

const (
	StateIdle      = directory.OverlayIdle
	StateResolving = directory.OverlayResolving
	StateFetching  = directory.OverlayFetching
	StateRendering = directory.OverlayRendering
	StateOpen      = directory.OverlayOpen
)

type Overlay = directory.Overlay

// Listener is notified after the overlay opens, closes, or a pending request
// fails. Calls are serialized and never go backwards in token order. A
// listener must not call back into the controller.
type Listener func(Overlay)

// Controller turns a location code into a highlighted seat on its floor map.
// Each locate request gets a token; only the result for the latest token is
// applied.
type Controller struct {
	resolver *directory.LocationResolver
	cache    *DocumentCache
	opts     HighlightOptions
	listener Listener

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu       sync.Mutex
	token    uint64
	current  Overlay
	disposed bool

	notifyMu sync.Mutex
	notified uint64
}

func NewController(resolver *directory.LocationResolver, cache *DocumentCache, opts HighlightOptions, listener Listener) *Controller {
	ctx, cancel := context.WithCancel(context.Background())
	return &Controller{
		resolver: resolver,
		cache:    cache,
		opts:     opts.withDefaults(),
		listener: listener,
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Locate starts a request for the seat named by code. It returns false when
// the code is not actionable; the controller is left untouched in that case.
// A cached floor renders before Locate returns, otherwise the floor is
// fetched in the background.
func (c *Controller) Locate(code string) (uint64, bool) {
	c.mu.Lock()

	if c.disposed {
		c.mu.Unlock()
		return 0, false
	}

	loc := c.resolver.Resolve(code)
	if !loc.Actionable || loc.Floor == nil {
		c.mu.Unlock()
		logger.Overlay("locate_ignored", "Location is not actionable", map[string]interface{}{"code": code, "class": loc.Class.String()})
		return 0, false
	}

	c.token++
	token := c.token
	floor := *loc.Floor
	c.current = Overlay{State: StateResolving, Token: token, FloorID: floor.ID, SeatID: code}

	if doc, ok := c.cache.Cached(floor.ID); ok {
		snapshot := c.render(token, floor, code, doc)
		c.mu.Unlock()
		c.notify(snapshot)
		return token, true
	}

	c.current.State = StateFetching
	// Joined under the lock so that back-to-back requests share one fetch.
	results := c.cache.LoadAsync(c.ctx, floor)
	c.wg.Add(1)
	c.mu.Unlock()

	logger.Overlay("fetch_pending", "Waiting for floor map", map[string]interface{}{"token": token, "floor": floor.ID, "seat": code})
	go c.await(token, floor, code, results)
	return token, true
}

func (c *Controller) await(token uint64, floor models.Floor, seatID string, results <-chan singleflight.Result) {
	defer c.wg.Done()

	var res singleflight.Result
	select {
	case res = <-results:
	case <-c.ctx.Done():
		return
	}

	c.mu.Lock()
	if c.disposed || token != c.token {
		c.mu.Unlock()
		logger.Overlay("result_discarded", "Discarding stale floor map result", map[string]interface{}{"token": token, "floor": floor.ID})
		return
	}

	if res.Err != nil {
		c.current = Overlay{State: StateIdle, Token: token}
		snapshot := c.current
		c.mu.Unlock()
		logger.FloorMapError("locate_failed", "Seat could not be located", res.Err, map[string]interface{}{"token": token, "floor": floor.ID, "seat": seatID})
		c.notify(snapshot)
		return
	}

	snapshot := c.render(token, floor, seatID, res.Val.(*svgdoc.Document))
	c.mu.Unlock()
	c.notify(snapshot)
}

// render runs with c.mu held.
func (c *Controller) render(token uint64, floor models.Floor, seatID string, doc *svgdoc.Document) Overlay {
	c.current.State = StateRendering

	seatMap, err := RenderSeatMap(doc, floor.ID, seatID, c.opts)
	if err != nil {
		logger.FloorMapError("render_failed", "Failed to render floor map", err, map[string]interface{}{"token": token, "floor": floor.ID})
		c.current = Overlay{State: StateIdle, Token: token}
		return c.current
	}

	c.current = Overlay{
		State:       StateOpen,
		Token:       token,
		FloorID:     seatMap.FloorID,
		SeatID:      seatMap.SeatID,
		Highlighted: seatMap.Highlighted,
		Document:    seatMap.SVG,
	}
	logger.Overlay("opened", "Overlay opened", map[string]interface{}{"token": token, "floor": floor.ID, "seat": seatID, "highlighted": seatMap.Highlighted})
	return c.current
}

// Close hides the overlay and marks any pending request stale. It reports
// whether there was anything to close.
func (c *Controller) Close() bool {
	c.mu.Lock()
	if c.disposed || c.current.State == StateIdle {
		c.mu.Unlock()
		return false
	}

	c.token++
	c.current = Overlay{State: StateIdle, Token: c.token}
	snapshot := c.current
	c.mu.Unlock()

	logger.Overlay("closed", "Overlay closed", map[string]interface{}{"token": snapshot.Token})
	c.notify(snapshot)
	return true
}

// Dispose cancels pending requests and waits for them to return. The
// controller ignores all calls afterwards.
func (c *Controller) Dispose() {
	c.mu.Lock()
	if c.disposed {
		c.mu.Unlock()
		return
	}
	c.disposed = true
	c.token++
	c.current = Overlay{State: StateIdle, Token: c.token}
	c.mu.Unlock()

	c.cancel()
	c.wg.Wait()
}

// Wait blocks until every pending request has been applied or discarded.
func (c *Controller) Wait() {
	c.wg.Wait()
}

func (c *Controller) Snapshot() Overlay {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

func (c *Controller) IsOpen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current.State == StateOpen
}

// HighlightedSeat returns the located seat of the open overlay.
func (c *Controller) HighlightedSeat() (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.current.State != StateOpen || !c.current.Highlighted {
		return "", false
	}
	return c.current.SeatID, true
}

func (c *Controller) notify(snapshot Overlay) {
	if c.listener == nil {
		return
	}

	c.notifyMu.Lock()
	defer c.notifyMu.Unlock()
	if snapshot.Token < c.notified {
		return
	}
	c.notified = snapshot.Token
	c.listener(snapshot)
}
