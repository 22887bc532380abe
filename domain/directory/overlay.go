package directory

// OverlayState is the stage of a seat-locate request.
type OverlayState int

const (
	OverlayIdle OverlayState = iota
	OverlayResolving
	OverlayFetching
	OverlayRendering
	OverlayOpen
)

func (s OverlayState) String() string {
	switch s {
	case OverlayIdle:
		return "idle"
	case OverlayResolving:
		return "resolving"
	case OverlayFetching:
		return "fetching"
	case OverlayRendering:
		return "rendering"
	case OverlayOpen:
		return "open"
	default:
		return "unknown"
	}
}

// Overlay is a snapshot of a seat-map overlay. Document holds the rendered
// floor map and is set only while the overlay is open.
type Overlay struct {
	State       OverlayState
	Token       uint64
	FloorID     string
	SeatID      string
	Highlighted bool
	Document    []byte
}
