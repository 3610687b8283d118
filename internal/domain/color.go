package domain

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

// ParseRGB parses "R,G,B" with each component in [0,255].
func ParseRGB(colorStr string) (RGB, error) {
	colorStr = strings.ReplaceAll(colorStr, " ", "")
	parts := strings.Split(colorStr, ",")

	if len(parts) != 3 {
		return RGB{}, fmt.Errorf("invalid color format %q, expected R,G,B", colorStr)
	}

	var values [3]uint8
	for i, part := range parts {
		v, err := strconv.Atoi(part)
		if err != nil {
			return RGB{}, fmt.Errorf("invalid color value %q: %w", part, err)
		}
		if v < 0 || v > 255 {
			return RGB{}, fmt.Errorf("color value %d out of range", v)
		}
		values[i] = uint8(v)
	}

	return RGB{R: values[0], G: values[1], B: values[2]}, nil
}

func (c RGB) NRGBA() color.NRGBA {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: 0xff}
}

func (c RGB) String() string {
	return fmt.Sprintf("%d,%d,%d", c.R, c.G, c.B)
}
