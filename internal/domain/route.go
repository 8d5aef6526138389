package domain

// Direction is the icon tag for the hop arriving at a route step,
// derived from the dominant axis of displacement.
type Direction string

const (
	DirectionLeft     Direction = "left"
	DirectionRight    Direction = "right"
	DirectionStraight Direction = "straight" // Toward the back of the store
	DirectionBack     Direction = "back"     // Toward the front of the store
)

// RouteStep pairs a section with the shopping-list items assigned to it,
// plus the instruction for the hop arriving here from the previous step
// (or from the entrance for the first step).
type RouteStep struct {
	Section     Section    `json:"section"`
	Items       []ListItem `json:"items"`
	Direction   Direction  `json:"direction"`
	Instruction string     `json:"instruction"`
}
