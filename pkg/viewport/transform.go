// Package viewport owns the pan/zoom transform applied to the rendered scene.
// Drawing and hit testing both go through Transform so the two can never
// disagree about where a node is.
package viewport

import "fmt"

// Point is a coordinate in either model or screen space.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Transform maps model space to screen space: screen = model*Scale + Translate.
type Transform struct {
	TranslateX float64 `json:"translate_x"`
	TranslateY float64 `json:"translate_y"`
	Scale      float64 `json:"scale"`
}

// Identity is the reset transform {0, 0, 1}.
func Identity() Transform {
	return Transform{Scale: 1}
}

// ToScreen maps a model point to screen space.
func (t Transform) ToScreen(p Point) Point {
	return Point{
		X: p.X*t.Scale + t.TranslateX,
		Y: p.Y*t.Scale + t.TranslateY,
	}
}

// ToModel maps a screen point back to model space. A zero scale is treated
// as 1 so a zero-value Transform behaves like Identity.
func (t Transform) ToModel(p Point) Point {
	scale := t.Scale
	if scale == 0 {
		scale = 1
	}
	return Point{
		X: (p.X - t.TranslateX) / scale,
		Y: (p.Y - t.TranslateY) / scale,
	}
}

// IsIdentity reports whether t is {0, 0, 1}.
func (t Transform) IsIdentity() bool {
	return t == Identity()
}

func (t Transform) String() string {
	return fmt.Sprintf("translate(%.2f,%.2f) scale(%.3f)", t.TranslateX, t.TranslateY, t.Scale)
}
