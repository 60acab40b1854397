package models

// Position is a placement on the pitch in percent coordinates.
// Origin is the top-left corner, y grows toward the bottom touchline.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Clamped returns the position with both coordinates forced into [0, 100].
func (p Position) Clamped() Position {
	return Position{X: clamp(p.X), Y: clamp(p.Y)}
}

func clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// PitchCenter is the default placement for a freshly added player.
var PitchCenter = Position{X: 50, Y: 50}
