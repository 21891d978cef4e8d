package visualization

import "math"

// clamp01 bounds a similarity to [0,1]. NaN maps to 0.
func clamp01(v float64) float64 {
	if !(v > 0) {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// polar returns the point at distance r and angle theta from center.
// Angles follow screen convention: y grows downwards, so -π/2 is 12 o'clock.
func polar(center Position, r, theta float64) Position {
	return Position{
		X: center.X + r*math.Cos(theta),
		Y: center.Y + r*math.Sin(theta),
	}
}

// Distance is the euclidean distance between two points.
func Distance(a, b Position) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}
