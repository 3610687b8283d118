package operations

import (
	"fmt"
	"image"
	"os"
	"strings"

	"image-watermarker/internal/domain"

	"github.com/golang/freetype"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
)

const lineSpacing = 4

type TextRenderer struct {
	font *truetype.Font
}

// NewTextRenderer parses the font at fontPath, or the bundled Go Regular face
// when fontPath is empty.
func NewTextRenderer(fontPath string) (*TextRenderer, error) {
	fontBytes := goregular.TTF
	if fontPath != "" {
		data, err := os.ReadFile(fontPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read font %s: %w", fontPath, err)
		}
		fontBytes = data
	}

	f, err := truetype.Parse(fontBytes)
	if err != nil {
		return nil, fmt.Errorf("failed to parse font: %w", err)
	}

	return &TextRenderer{font: f}, nil
}

type textLayout struct {
	lines      []string
	widths     []int
	ascent     int
	lineHeight int
	size       image.Point
}

func (r *TextRenderer) layout(text string, size int) textLayout {
	face := truetype.NewFace(r.font, &truetype.Options{
		Size:    float64(size),
		DPI:     72,
		Hinting: font.HintingFull,
	})
	defer face.Close()

	metrics := face.Metrics()
	l := textLayout{
		lines:      strings.Split(text, "\n"),
		ascent:     metrics.Ascent.Ceil(),
		lineHeight: (metrics.Ascent + metrics.Descent).Ceil(),
	}

	for _, line := range l.lines {
		w := font.MeasureString(face, line).Ceil()
		l.widths = append(l.widths, w)
		l.size.X = max(l.size.X, w)
	}
	l.size.Y = len(l.lines)*l.lineHeight + (len(l.lines)-1)*lineSpacing

	return l
}

// Measure returns the size of the rendered text block without any stroke.
func (r *TextRenderer) Measure(text string, size int) image.Point {
	if size <= 0 || text == "" {
		return image.Point{}
	}
	return r.layout(text, size).size
}

// Render draws the text block onto a transparent layer. With a stroke of width
// b the layer is padded by b on every side, the text is drawn four times at
// (±b, ±b) in the stroke color and once more in the primary color at (b, b).
// The returned point is the size of the unpadded text block.
func (r *TextRenderer) Render(style domain.TextStyle, size int) (*image.NRGBA, image.Point, error) {
	if r.font == nil {
		return nil, image.Point{}, ErrFontNotLoaded
	}
	if size <= 0 || style.Text == "" {
		return nil, image.Point{}, ErrDegenerateGeometry
	}

	l := r.layout(style.Text, size)
	if l.size.X <= 0 || l.size.Y <= 0 {
		return nil, image.Point{}, ErrDegenerateGeometry
	}

	b := strokeWidth(style.Stroke)
	layer := image.NewNRGBA(image.Rect(0, 0, l.size.X+2*b, l.size.Y+2*b))

	c := freetype.NewContext()
	c.SetDPI(72)
	c.SetFont(r.font)
	c.SetFontSize(float64(size))
	c.SetClip(layer.Bounds())
	c.SetDst(layer)
	c.SetHinting(font.HintingFull)

	if b > 0 {
		c.SetSrc(image.NewUniform(style.Stroke.Color.NRGBA()))
		for _, off := range []image.Point{{-b, -b}, {b, -b}, {-b, b}, {b, b}} {
			if err := r.drawBlock(c, l, style.Align, image.Pt(b+off.X, b+off.Y)); err != nil {
				return nil, image.Point{}, err
			}
		}
	}

	c.SetSrc(image.NewUniform(style.Color.NRGBA()))
	if err := r.drawBlock(c, l, style.Align, image.Pt(b, b)); err != nil {
		return nil, image.Point{}, err
	}

	return layer, l.size, nil
}

func (r *TextRenderer) drawBlock(c *freetype.Context, l textLayout, align domain.Align, origin image.Point) error {
	for i, line := range l.lines {
		x := origin.X
		switch align {
		case domain.AlignRight:
			x += l.size.X - l.widths[i]
		case domain.AlignCenter:
			x += (l.size.X - l.widths[i]) / 2
		}
		y := origin.Y + i*(l.lineHeight+lineSpacing) + l.ascent

		if _, err := c.DrawString(line, freetype.Pt(x, y)); err != nil {
			return fmt.Errorf("failed to draw watermark text: %w", err)
		}
	}
	return nil
}

func strokeWidth(s domain.Stroke) int {
	if !s.Enabled || s.Width < 0 {
		return 0
	}
	return s.Width
}
