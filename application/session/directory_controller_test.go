package session

import (
	"context"
	"os"
	"sync"
	"testing"

	"staff-directory/application/overlay"
	"staff-directory/domain/directory"
	"staff-directory/domain/models"
	"staff-directory/pkg/logger"
)

const floor4URL = "http://maps.test/floor4.svg"

const floor4SVG = `<svg xmlns="http://www.w3.org/2000/svg">
  <rect id="P1"/>
  <rect id="P3"/>
</svg>`

func TestMain(m *testing.M) {
	dir, _ := os.MkdirTemp("", "session-logs")
	logger.Init(dir, false)
	code := m.Run()
	os.RemoveAll(dir)
	os.Exit(code)
}

type countingFetcher struct {
	mu    sync.Mutex
	calls []string
}

func (f *countingFetcher) FetchFloorMap(ctx context.Context, url string) ([]byte, error) {
	f.mu.Lock()
	f.calls = append(f.calls, url)
	f.mu.Unlock()
	return []byte(floor4SVG), nil
}

func (f *countingFetcher) fetched() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

type recordingListener struct {
	mu       sync.Mutex
	matches  [][]directory.Row
	overlays []overlay.Overlay
}

func (l *recordingListener) MatchesChanged(rows []directory.Row) {
	l.mu.Lock()
	l.matches = append(l.matches, rows)
	l.mu.Unlock()
}

func (l *recordingListener) OverlayChanged(o overlay.Overlay) {
	l.mu.Lock()
	l.overlays = append(l.overlays, o)
	l.mu.Unlock()
}

func (l *recordingListener) lastMatches() []directory.Row {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.matches) == 0 {
		return nil
	}
	return l.matches[len(l.matches)-1]
}

func (l *recordingListener) overlayEvents() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.overlays)
}

var annAndBo = []models.Person{
	{ID: 1, DisplayName: "Ann Lee", Email: "a@x.com", LocationCode: "P3"},
	{ID: 2, DisplayName: "Bo Kim", Email: "b@x.com", LocationCode: "R1"},
}

func newTestSession(roster []models.Person) (*DirectoryController, *countingFetcher, *recordingListener) {
	resolver := directory.NewLocationResolver(map[models.LocationClass]string{
		models.LocationFloor3: "http://maps.test/floor3.svg",
		models.LocationFloor4: floor4URL,
	})
	fetcher := &countingFetcher{}
	listener := &recordingListener{}
	c := NewDirectoryController(resolver, overlay.NewDocumentCache(fetcher), overlay.HighlightOptions{}, roster, listener)
	return c, fetcher, listener
}

func TestEndToEndAnnAndBo(t *testing.T) {
	c, fetcher, listener := newTestSession(annAndBo)
	defer c.Dispose()

	c.OnQueryChange("ann")

	matches := c.CurrentMatches()
	if len(matches) != 1 || matches[0].DisplayName != "Ann Lee" {
		t.Fatalf("matches for \"ann\" = %+v, want only Ann Lee", matches)
	}
	if rows := listener.lastMatches(); len(rows) != 1 || rows[0].Person.ID != 1 {
		t.Errorf("listener rows = %+v", rows)
	}

	bo, _ := c.Lookup(2)
	if bo.Location.Actionable {
		t.Error("Bo's locate action is enabled")
	}
	if c.OnLocateRequested(2) {
		t.Error("locate on Bo was accepted")
	}
	if len(fetcher.fetched()) != 0 {
		t.Fatal("locate on Bo fetched a map")
	}

	if !c.OnLocateRequested(1) {
		t.Fatal("locate on Ann was rejected")
	}
	c.Wait()

	if got := fetcher.fetched(); len(got) != 1 || got[0] != floor4URL {
		t.Fatalf("fetched %v, want the floor 4 map once", got)
	}
	if !c.IsOverlayOpen() {
		t.Fatal("overlay not open")
	}
	if seat, ok := c.CurrentlyHighlightedSeat(); !ok || seat != "P3" {
		t.Errorf("CurrentlyHighlightedSeat() = %q, %v; want P3", seat, ok)
	}
	if listener.overlayEvents() != 1 {
		t.Errorf("overlay events = %d, want 1", listener.overlayEvents())
	}

	c.OnOverlayClosed()
	if c.IsOverlayOpen() {
		t.Error("overlay still open after close")
	}
}

func TestQueryChangeDoesNotDisturbOverlay(t *testing.T) {
	c, _, _ := newTestSession(annAndBo)
	defer c.Dispose()

	c.OnLocateRequested(1)
	c.OnQueryChange("kim")
	c.Wait()

	if !c.IsOverlayOpen() {
		t.Error("query change cancelled the locate request")
	}
	if m := c.CurrentMatches(); len(m) != 1 || m[0].ID != 2 {
		t.Errorf("matches = %+v, want Bo", m)
	}
}

func TestSetRosterReappliesQuery(t *testing.T) {
	c, _, listener := newTestSession(annAndBo)
	defer c.Dispose()

	c.OnQueryChange("lee")
	c.SetRoster(append(annAndBo, models.Person{ID: 3, DisplayName: "Lee Park", Email: "lp@x.com", LocationCode: "C17"}))

	rows := listener.lastMatches()
	if len(rows) != 2 {
		t.Fatalf("rows after refresh = %d, want 2", len(rows))
	}
	if rows[1].Location.Class != models.LocationFloor3 || rows[1].Location.Label != "Find on 3rd floor" {
		t.Errorf("Lee Park row = %+v", rows[1].Location)
	}
	if c.Query() != "lee" {
		t.Errorf("query = %q, want lee", c.Query())
	}
}

func TestLocateUnknownPerson(t *testing.T) {
	c, _, _ := newTestSession(annAndBo)
	defer c.Dispose()

	if c.OnLocateRequested(42) {
		t.Error("unknown person accepted")
	}
	if _, ok := c.Lookup(42); ok {
		t.Error("Lookup found unknown person")
	}
}

func TestDisposeSilencesListener(t *testing.T) {
	c, _, listener := newTestSession(annAndBo)

	c.Dispose()
	c.OnQueryChange("ann")

	if c.OnLocateRequested(1) {
		t.Error("disposed session accepted a locate request")
	}
	if listener.lastMatches() != nil {
		t.Error("disposed session published matches")
	}
	if c.ID() == "" {
		t.Error("session has no id")
	}
}

func TestSeedRosterYieldsToRefresh(t *testing.T) {
	c, _, listener := newTestSession(nil)
	defer c.Dispose()

	if !c.SeedRoster(annAndBo[:1]) {
		t.Fatal("seed rejected on a fresh session")
	}
	if len(listener.matches) != 0 {
		t.Error("seeding notified the listener")
	}
	if got := len(c.CurrentMatches()); got != 1 {
		t.Fatalf("matches = %d after seed, want 1", got)
	}

	c.SetRoster(annAndBo)
	if c.SeedRoster(annAndBo[:1]) {
		t.Error("seed replaced a refreshed roster")
	}
	if got := len(c.Roster()); got != 2 {
		t.Errorf("roster size = %d, want 2", got)
	}
}
