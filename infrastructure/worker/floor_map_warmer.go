package worker

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cenkalti/backoff"

	"staff-directory/domain/models"
	"staff-directory/pkg/logger"
	"staff-directory/pkg/svgdoc"
)

// FloorMapCache is the document cache the warmer fills.
type FloorMapCache interface {
	Cached(floorID string) (*svgdoc.Document, bool)
	Load(ctx context.Context, floor models.Floor) (*svgdoc.Document, error)
}

// FloorMapWarmer loads configured floor maps in the background so the first
// locate on each floor does not wait for the download. Floors that fail are
// retried on the next tick.
type FloorMapWarmer struct {
	cache  FloorMapCache
	floors []models.Floor

	// Worker control
	ctx       context.Context
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	isRunning bool
	mu        sync.Mutex

	// Configuration
	pollInterval   time.Duration
	maxConcurrent  int
	maxRetries     int
	baseRetryDelay time.Duration

	circuitBreaker *CircuitBreaker
}

func NewFloorMapWarmer(cache FloorMapCache, floors []models.Floor, pollInterval time.Duration) *FloorMapWarmer {
	return &FloorMapWarmer{
		cache:          cache,
		floors:         floors,
		pollInterval:   pollInterval,
		maxConcurrent:  2,
		maxRetries:     2,
		baseRetryDelay: 2 * time.Second,
		circuitBreaker: NewCircuitBreaker(6, time.Minute),
	}
}

func (w *FloorMapWarmer) Start() {
	w.mu.Lock()
	if w.isRunning {
		w.mu.Unlock()
		return
	}
	w.isRunning = true
	w.ctx, w.cancel = context.WithCancel(context.Background())
	w.mu.Unlock()

	w.wg.Add(1)
	go w.run()

	logger.FloorMap("warmer_started", "Floor map warmer started", map[string]interface{}{"floors": len(w.floors), "interval": w.pollInterval.String()})
}

// Stop cancels pending loads and waits for the worker to exit.
func (w *FloorMapWarmer) Stop() {
	w.mu.Lock()
	if !w.isRunning {
		w.mu.Unlock()
		return
	}
	w.isRunning = false
	w.mu.Unlock()

	w.cancel()
	w.wg.Wait()
	logger.FloorMap("warmer_stopped", "Floor map warmer stopped", nil)
}

func (w *FloorMapWarmer) IsRunning() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.isRunning
}

func (w *FloorMapWarmer) run() {
	defer w.wg.Done()

	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	w.WarmOnce(w.ctx)

	for {
		select {
		case <-w.ctx.Done():
			return
		case <-ticker.C:
			w.WarmOnce(w.ctx)
		}
	}
}

// WarmOnce loads every floor that is not cached yet and returns how many
// were loaded.
func (w *FloorMapWarmer) WarmOnce(ctx context.Context) int {
	if w.circuitBreaker.IsOpen() {
		logger.FloorMap("warmer_paused", "Floor map host failing, skipping warm-up", map[string]interface{}{"failures": w.circuitBreaker.Failures()})
		return 0
	}

	var pending []models.Floor
	for _, floor := range w.floors {
		if _, ok := w.cache.Cached(floor.ID); !ok {
			pending = append(pending, floor)
		}
	}
	if len(pending) == 0 {
		return 0
	}

	var floorWg sync.WaitGroup
	sem := make(chan struct{}, w.maxConcurrent)
	loaded := int32(0)

	for _, floor := range pending {
		sem <- struct{}{}
		floorWg.Add(1)

		go func(f models.Floor) {
			defer floorWg.Done()
			defer func() { <-sem }()

			if w.loadWithRetry(ctx, f) {
				atomic.AddInt32(&loaded, 1)
				w.circuitBreaker.RecordSuccess()
			} else {
				w.circuitBreaker.RecordFailure()
			}
		}(floor)
	}

	floorWg.Wait()

	logger.FloorMap("warm_completed", "Floor map warm-up pass completed", map[string]interface{}{"pending": len(pending), "loaded": loaded})
	return int(loaded)
}

func (w *FloorMapWarmer) loadWithRetry(ctx context.Context, floor models.Floor) bool {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = w.baseRetryDelay
	bo.MaxElapsedTime = 0
	policy := backoff.WithContext(backoff.WithMaxRetries(bo, uint64(w.maxRetries)), ctx)

	err := backoff.RetryNotify(func() error {
		_, err := w.cache.Load(ctx, floor)
		return err
	}, policy, func(err error, wait time.Duration) {
		logger.FloorMap("warm_retry", "Retrying floor map load", map[string]interface{}{"floor": floor.ID, "error": err.Error(), "wait": wait.String()})
	})
	return err == nil
}
