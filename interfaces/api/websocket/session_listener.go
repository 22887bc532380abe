package websocket

import (
	"staff-directory/application/overlay"
	"staff-directory/domain/directory"
)

type overlayOpenedPayload struct {
	FloorID     string `json:"floorId"`
	SeatID      string `json:"seatId"`
	Highlighted bool   `json:"highlighted"`
	SVG         string `json:"svg"`
}

// sessionListener forwards session changes to the client.
type sessionListener struct {
	out sender
}

func newSessionListener(out sender) *sessionListener {
	return &sessionListener{out: out}
}

func (l *sessionListener) MatchesChanged(rows []directory.Row) {
	l.out.Send(MessageMatches, rows)
}

func (l *sessionListener) OverlayChanged(o overlay.Overlay) {
	switch o.State {
	case overlay.StateOpen:
		l.out.Send(MessageOverlayOpened, overlayOpenedPayload{
			FloorID:     o.FloorID,
			SeatID:      o.SeatID,
			Highlighted: o.Highlighted,
			SVG:         string(o.Document),
		})
	case overlay.StateIdle:
		l.out.Send(MessageOverlayClosed, struct{}{})
	}
}
