package operations

import (
	"errors"
	"fmt"
	"image"

	"image-watermarker/internal/domain"

	"github.com/disintegration/imaging"
)

// Report describes what Apply decided for one base image.
type Report struct {
	Mode      domain.Mode
	Placement Placement
	Verdict   domain.Verdict
	Luminance float64
	Variant   domain.Variant
	FontSize  int
	Skipped   bool
}

type Watermarker struct {
	cfg    domain.WatermarkConfig
	assets *AssetSet
	text   *TextRenderer
}

func NewWatermarker(cfg domain.WatermarkConfig, assets *AssetSet, text *TextRenderer) (*Watermarker, error) {
	switch cfg.Mode {
	case domain.ModeImage:
		if assets == nil {
			return nil, ErrAssetNotLoaded
		}
	case domain.ModeText:
		if text == nil {
			return nil, ErrFontNotLoaded
		}
	default:
		return nil, fmt.Errorf("unsupported watermark mode: %s", cfg.Mode)
	}

	return &Watermarker{
		cfg:    cfg,
		assets: assets,
		text:   text,
	}, nil
}

// Apply returns a new watermarked image. When the overlay would be empty the
// result is an unmodified copy and the report is marked as skipped.
func (w *Watermarker) Apply(base image.Image) (*image.NRGBA, Report, error) {
	if w.cfg.Mode == domain.ModeText {
		return w.applyText(base)
	}
	return w.applyImage(base)
}

func (w *Watermarker) applyImage(base image.Image) (*image.NRGBA, Report, error) {
	report := Report{Mode: domain.ModeImage}

	p, err := ResolveImagePlacement(base.Bounds().Size(), w.assets.NativeSize(), w.cfg.Scale, w.cfg.Position)
	report.Placement = p
	if err != nil {
		if errors.Is(err, ErrDegenerateGeometry) {
			report.Skipped = true
			return imaging.Clone(base), report, nil
		}
		return nil, report, err
	}

	report.Verdict, report.Luminance = SampleLuminance(base, p.Rect())
	report.Variant = report.Verdict.Variant(w.cfg.Assets.Default)

	overlay := BuildImageOverlay(w.assets.Pick(report.Variant), p, w.cfg.Angle)
	overlay = ReduceOpacity(overlay, w.cfg.Opacity)

	return Composite(base, overlay, p.Anchor()), report, nil
}

func (w *Watermarker) applyText(base image.Image) (*image.NRGBA, Report, error) {
	report := Report{Mode: domain.ModeText}

	size := base.Bounds().Size()
	report.FontSize = FontSize(size.Y, w.cfg.Text)

	layer, block, err := w.text.Render(w.cfg.Text, report.FontSize)
	if err != nil {
		if errors.Is(err, ErrDegenerateGeometry) {
			report.Skipped = true
			return imaging.Clone(base), report, nil
		}
		return nil, report, err
	}

	p, err := ResolveTextPlacement(size, block, w.cfg.Margin)
	report.Placement = p
	if err != nil {
		report.Skipped = true
		return imaging.Clone(base), report, nil
	}

	b := strokeWidth(w.cfg.Text.Stroke)
	overlay := ReduceOpacity(layer, w.cfg.Opacity)

	return Composite(base, overlay, p.Anchor().Sub(image.Pt(b, b))), report, nil
}
