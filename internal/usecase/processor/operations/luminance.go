package operations

import (
	"image"
	"image/color"

	"image-watermarker/internal/domain"

	"github.com/disintegration/imaging"
)

// Histogram counts every distinct color in img.
func Histogram(img image.Image) map[color.NRGBA]int {
	src := imaging.Clone(img)
	hist := make(map[color.NRGBA]int)
	for i := 0; i+3 < len(src.Pix); i += 4 {
		c := color.NRGBA{R: src.Pix[i], G: src.Pix[i+1], B: src.Pix[i+2], A: src.Pix[i+3]}
		hist[c]++
	}
	return hist
}

// SampleLuminance judges the part of rect that lies on the base image. The
// mean of the R, G and B channels below the threshold means the region is
// dark. An empty intersection is undetermined.
func SampleLuminance(base image.Image, rect image.Rectangle) (domain.Verdict, float64) {
	region := rect.Add(base.Bounds().Min).Intersect(base.Bounds())
	if region.Empty() {
		return domain.VerdictUndetermined, 0
	}

	hist := Histogram(imaging.Crop(base, region))

	var count, sum int
	for c, n := range hist {
		count += n
		sum += n * (int(c.R) + int(c.G) + int(c.B))
	}
	if count == 0 {
		return domain.VerdictUndetermined, 0
	}

	avg := float64(sum) / float64(count) / 3
	if avg < domain.LuminanceThreshold {
		return domain.VerdictDark, avg
	}
	return domain.VerdictLight, avg
}
