package overlay

import (
	"fmt"

	"staff-directory/domain/models"
	"staff-directory/pkg/svgdoc"
)

const (
	DefaultSeatElement    = "rect"
	DefaultHighlightClass = "located-seat"
)

// pulseStyle animates the located seat.
const pulseStyle = `.%[1]s{animation:%[1]s-pulse 1.2s ease-in-out infinite;stroke:#C0D731;stroke-width:3}` +
	`@keyframes %[1]s-pulse{0%%{opacity:1}50%%{opacity:.35}100%%{opacity:1}}`

// HighlightOptions names the seat element kind and the class given to the
// located seat.
type HighlightOptions struct {
	SeatElement    string
	HighlightClass string
}

func (o HighlightOptions) withDefaults() HighlightOptions {
	if o.SeatElement == "" {
		o.SeatElement = DefaultSeatElement
	}
	if o.HighlightClass == "" {
		o.HighlightClass = DefaultHighlightClass
	}
	return o
}

// HighlightSeat hides every seat element except seatID, and makes seatID
// visible with the highlight class. It mutates doc. It reports whether
// seatID was found; when it is not, all seats stay hidden.
func HighlightSeat(doc *svgdoc.Document, seatID string, opts HighlightOptions) bool {
	opts = opts.withDefaults()

	doc.ForEachOfKind(opts.SeatElement, func(el *svgdoc.Element) {
		if seatID == "" || el.ID() != seatID {
			el.SetStyle("visibility", "hidden")
		}
	})

	seat := doc.FindByID(seatID)
	if seat == nil {
		return false
	}

	seat.SetStyle("visibility", "visible")
	seat.AddClass(opts.HighlightClass)
	doc.AppendStyleSheet(fmt.Sprintf(pulseStyle, opts.HighlightClass))
	return true
}

// RenderSeatMap copies the cached floor document, highlights seatID on the
// copy and serializes it.
func RenderSeatMap(doc *svgdoc.Document, floorID, seatID string, opts HighlightOptions) (models.SeatMap, error) {
	working := doc.Copy()
	highlighted := HighlightSeat(working, seatID, opts)

	svg, err := working.Bytes()
	if err != nil {
		return models.SeatMap{}, err
	}

	return models.SeatMap{
		FloorID:     floorID,
		SeatID:      seatID,
		Highlighted: highlighted,
		SVG:         svg,
	}, nil
}
