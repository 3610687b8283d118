package operations

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"image-watermarker/internal/domain"

	"github.com/disintegration/imaging"
)

// AssetSet holds the decoded light and dark stamps. The images are shared by
// every file and must never be drawn into.
type AssetSet struct {
	light image.Image
	dark  image.Image
}

func NewAssetSet(light, dark image.Image) (*AssetSet, error) {
	if light == nil || dark == nil {
		return nil, ErrAssetNotLoaded
	}
	return &AssetSet{light: light, dark: dark}, nil
}

func LoadAssetSet(assets domain.Assets) (*AssetSet, error) {
	light, err := imaging.Open(assets.LightPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open light asset %s: %w", assets.LightPath, err)
	}

	dark, err := imaging.Open(assets.DarkPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open dark asset %s: %w", assets.DarkPath, err)
	}

	return NewAssetSet(light, dark)
}

func (a *AssetSet) Pick(v domain.Variant) image.Image {
	if v == domain.VariantLight {
		return a.light
	}
	return a.dark
}

// NativeSize is the size geometry is resolved against. The light asset is the
// reference for both variants.
func (a *AssetSet) NativeSize() image.Point {
	return a.light.Bounds().Size()
}

// BuildImageOverlay fits the asset inside the placement without enlarging it
// and rotates it counter-clockwise by angle degrees. Rotation grows the
// bounds; uncovered corners are transparent.
func BuildImageOverlay(asset image.Image, p Placement, angle float64) *image.NRGBA {
	overlay := imaging.Fit(asset, p.Width, p.Height, imaging.Lanczos)

	if math.Mod(angle, 360) != 0 {
		overlay = imaging.Rotate(overlay, angle, color.Transparent)
	}

	return overlay
}
