package websocket

import (
	"os"
	"testing"

	"staff-directory/application/overlay"
	"staff-directory/domain/directory"
	"staff-directory/domain/models"
	"staff-directory/pkg/logger"
)

func TestMain(m *testing.M) {
	dir, _ := os.MkdirTemp("", "ws-handler-logs")
	logger.Init(dir, false)
	code := m.Run()
	os.RemoveAll(dir)
	os.Exit(code)
}

type sent struct {
	Type string
	Data interface{}
}

type fakeSender struct {
	messages []sent
}

func (s *fakeSender) Send(messageType string, data interface{}) error {
	s.messages = append(s.messages, sent{Type: messageType, Data: data})
	return nil
}

func (s *fakeSender) last() sent {
	if len(s.messages) == 0 {
		return sent{}
	}
	return s.messages[len(s.messages)-1]
}

type fakeSession struct {
	queries []string
	locates []uint
	closes  int
	accept  bool
	people  map[uint]directory.Row
}

func (f *fakeSession) ID() string { return "session-1" }

func (f *fakeSession) OnQueryChange(text string) { f.queries = append(f.queries, text) }

func (f *fakeSession) OnLocateRequested(personID uint) bool {
	f.locates = append(f.locates, personID)
	return f.accept
}

func (f *fakeSession) OnOverlayClosed() { f.closes++ }

func (f *fakeSession) Lookup(personID uint) (directory.Row, bool) {
	row, ok := f.people[personID]
	return row, ok
}

func TestDispatchQueryChange(t *testing.T) {
	session, out := &fakeSession{}, &fakeSender{}

	dispatch(session, out, []byte(`{"type":"query:change","data":{"text":"Ann"}}`))

	if len(session.queries) != 1 || session.queries[0] != "Ann" {
		t.Errorf("queries = %v", session.queries)
	}
	if len(out.messages) != 0 {
		t.Errorf("unexpected replies: %+v", out.messages)
	}
}

func TestDispatchEmptyQueryClearsFilter(t *testing.T) {
	session, out := &fakeSession{}, &fakeSender{}

	dispatch(session, out, []byte(`{"type":"query:change","data":{"text":""}}`))

	if len(session.queries) != 1 || session.queries[0] != "" {
		t.Errorf("queries = %q", session.queries)
	}
}

func TestDispatchLocateAccepted(t *testing.T) {
	session, out := &fakeSession{accept: true}, &fakeSender{}

	dispatch(session, out, []byte(`{"type":"locate:request","data":{"personId":7}}`))

	if len(session.locates) != 1 || session.locates[0] != 7 {
		t.Errorf("locates = %v", session.locates)
	}
	if len(out.messages) != 0 {
		t.Errorf("unexpected replies: %+v", out.messages)
	}
}

func TestDispatchLocateDisabled(t *testing.T) {
	session := &fakeSession{people: map[uint]directory.Row{
		2: {
			Person:   models.Person{ID: 2, DisplayName: "Bo Kim", LocationCode: "R1"},
			Location: directory.Location{Code: "R1", Class: models.LocationRemote, Label: "Fully Remote Employee"},
		},
	}}
	out := &fakeSender{}

	dispatch(session, out, []byte(`{"type":"locate:request","data":{"personId":2}}`))

	msg := out.last()
	if msg.Type != MessageLocateDisabled {
		t.Fatalf("reply type = %q, want %q", msg.Type, MessageLocateDisabled)
	}
	payload := msg.Data.(locateDisabledPayload)
	if payload.PersonID != 2 || payload.Label != "Fully Remote Employee" {
		t.Errorf("payload = %+v", payload)
	}
}

func TestDispatchLocateUnknownPerson(t *testing.T) {
	session, out := &fakeSession{}, &fakeSender{}

	dispatch(session, out, []byte(`{"type":"locate:request","data":{"personId":99}}`))

	if out.last().Type != MessageError {
		t.Errorf("reply type = %q, want error", out.last().Type)
	}
}

func TestDispatchRejectsBadInput(t *testing.T) {
	inputs := []string{
		`not json`,
		`{"type":"locate:request","data":{"personId":"seven"}}`,
		`{"type":"locate:request","data":{}}`,
		`{"type":"teleport"}`,
	}
	for _, in := range inputs {
		session, out := &fakeSession{accept: true}, &fakeSender{}
		dispatch(session, out, []byte(in))
		if out.last().Type != MessageError {
			t.Errorf("%s: reply type = %q, want error", in, out.last().Type)
		}
		if len(session.locates) != 0 {
			t.Errorf("%s: locate dispatched", in)
		}
	}
}

func TestDispatchOverlayClose(t *testing.T) {
	session, out := &fakeSession{}, &fakeSender{}

	dispatch(session, out, []byte(`{"type":"overlay:close","data":{}}`))

	if session.closes != 1 {
		t.Errorf("closes = %d, want 1", session.closes)
	}
}

func TestSessionListenerMessages(t *testing.T) {
	out := &fakeSender{}
	l := newSessionListener(out)

	l.MatchesChanged([]directory.Row{{Person: models.Person{ID: 1}}})
	if out.last().Type != MessageMatches {
		t.Errorf("type = %q, want %q", out.last().Type, MessageMatches)
	}

	l.OverlayChanged(overlay.Overlay{State: overlay.StateOpen, FloorID: "floor4", SeatID: "P3", Highlighted: true, Document: []byte("<svg/>")})
	msg := out.last()
	if msg.Type != MessageOverlayOpened {
		t.Fatalf("type = %q, want %q", msg.Type, MessageOverlayOpened)
	}
	if p := msg.Data.(overlayOpenedPayload); p.SVG != "<svg/>" || p.SeatID != "P3" {
		t.Errorf("payload = %+v", p)
	}

	l.OverlayChanged(overlay.Overlay{State: overlay.StateIdle})
	if out.last().Type != MessageOverlayClosed {
		t.Errorf("type = %q, want %q", out.last().Type, MessageOverlayClosed)
	}

	before := len(out.messages)
	l.OverlayChanged(overlay.Overlay{State: overlay.StateFetching})
	if len(out.messages) != before {
		t.Error("intermediate state was forwarded")
	}
}
