package models

// LocationClass is derived from the first character of a location code.
type LocationClass string

const (
	LocationFloor4       LocationClass = "floor4"
	LocationFloor3       LocationClass = "floor3"
	LocationRemote       LocationClass = "remote"
	LocationUnresolvable LocationClass = "unresolvable"
)

func (c LocationClass) String() string {
	return string(c)
}

// Floor is the map asset a location class resolves to.
type Floor struct {
	ID       string `json:"id"`
	Label    string `json:"label"`
	AssetURL string `json:"assetUrl"`
}

// SeatMap is a floor map rendered with one seat located.
type SeatMap struct {
	FloorID     string `json:"floorId"`
	SeatID      string `json:"seatId"`
	Highlighted bool   `json:"highlighted"` // false when the seat id is not in the map
	SVG         []byte `json:"-"`
}
