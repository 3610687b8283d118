package operations

import (
	"image"
	"math"

	"github.com/disintegration/imaging"
	xdraw "golang.org/x/image/draw"
)

// ReduceOpacity returns a private NRGBA copy of img with every alpha value
// scaled by opacity. Color channels are left untouched.
func ReduceOpacity(img image.Image, opacity float64) *image.NRGBA {
	out := imaging.Clone(img)

	opacity = math.Max(0, math.Min(1, opacity))
	if opacity == 1 {
		return out
	}

	for i := 3; i < len(out.Pix); i += 4 {
		out.Pix[i] = uint8(math.Round(float64(out.Pix[i]) * opacity))
	}

	return out
}

// Composite pastes overlay onto a copy of base with its top-left corner at
// the given point, blending through the overlay's own alpha. Parts falling
// outside the base are clipped. base is not modified.
func Composite(base, overlay image.Image, at image.Point) *image.NRGBA {
	dst := imaging.Clone(base)

	ob := overlay.Bounds()
	r := image.Rectangle{Min: at, Max: at.Add(ob.Size())}
	xdraw.Draw(dst, r, overlay, ob.Min, xdraw.Over)

	return dst
}
