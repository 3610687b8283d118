package operations

import (
	"image"
	"math"

	"image-watermarker/internal/domain"
)

// Placement is the rectangle an overlay is drawn into, in base image
// coordinates relative to the image origin. X and Y may be negative.
type Placement struct {
	X      int
	Y      int
	Width  int
	Height int
}

func (p Placement) Anchor() image.Point {
	return image.Pt(p.X, p.Y)
}

func (p Placement) Rect() image.Rectangle {
	return image.Rect(p.X, p.Y, p.X+p.Width, p.Y+p.Height)
}

func (p Placement) Empty() bool {
	return p.Width <= 0 || p.Height <= 0
}

// ResolveImagePlacement sizes an image overlay against the shorter side of the
// base and anchors it by the fractional position. The height keeps the
// w0/h0 ratio of the asset's native size.
func ResolveImagePlacement(base, native image.Point, scale float64, pos domain.Position) (Placement, error) {
	if native.X <= 0 || native.Y <= 0 {
		return Placement{}, ErrDegenerateGeometry
	}

	minSide := min(base.X, base.Y)
	w := int(math.Floor(scale * float64(minSide)))
	h := int(math.Floor(float64(native.X) / float64(native.Y) * float64(w)))

	p := Placement{
		X:      int(math.Floor(float64(base.X-w) * pos.X)),
		Y:      int(math.Floor(float64(base.Y-h) * pos.Y)),
		Width:  w,
		Height: h,
	}
	if p.Empty() {
		return p, ErrDegenerateGeometry
	}

	return p, nil
}

// ResolveTextPlacement anchors a text block flush with the bottom-right corner
// minus margin. The configured position is not consulted in text mode.
func ResolveTextPlacement(base, block image.Point, margin domain.Margin) (Placement, error) {
	p := Placement{
		X:      base.X - block.X - margin.X,
		Y:      base.Y - block.Y - margin.Y,
		Width:  block.X,
		Height: block.Y,
	}
	if p.Empty() {
		return p, ErrDegenerateGeometry
	}
	return p, nil
}

// FontSize returns the pixel size for text overlays. An absolute size wins
// over the scale relative to the base height.
func FontSize(baseHeight int, style domain.TextStyle) int {
	if style.FontSize > 0 {
		return style.FontSize
	}
	return int(style.FontScale * float64(baseHeight))
}
