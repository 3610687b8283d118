package domain

import "strings"

type Mode string

const (
	ModeImage Mode = "image"
	ModeText  Mode = "text"
)

type Align string

const (
	AlignLeft   Align = "left"
	AlignCenter Align = "center"
	AlignRight  Align = "right"
)

// Variant names an overlay asset by the background it is meant for.
// VariantLight is the light-colored stamp drawn over dark regions.
type Variant string

const (
	VariantLight Variant = "light"
	VariantDark  Variant = "dark"
)

// Verdict is the luminance sampler's judgement of a region.
type Verdict int

const (
	VerdictUndetermined Verdict = iota
	VerdictDark
	VerdictLight
)

func (v Verdict) String() string {
	switch v {
	case VerdictDark:
		return "dark"
	case VerdictLight:
		return "light"
	default:
		return "undetermined"
	}
}

// Variant returns the contrasting asset for the region, or fallback when the
// region could not be judged.
func (v Verdict) Variant(fallback Variant) Variant {
	switch v {
	case VerdictDark:
		return VariantLight
	case VerdictLight:
		return VariantDark
	default:
		return fallback
	}
}

// Position is a fractional anchor from the top-left corner.
type Position struct {
	X float64
	Y float64
}

// Margin is a pixel offset from the bottom-right corner used by text overlays.
type Margin struct {
	X int
	Y int
}

type RGB struct {
	R uint8
	G uint8
	B uint8
}

type Stroke struct {
	Enabled bool
	Color   RGB
	Width   int
}

type Assets struct {
	LightPath string
	DarkPath  string
	Default   Variant
}

type TextStyle struct {
	Text      string
	FontPath  string
	FontScale float64
	FontSize  int
	Color     RGB
	Stroke    Stroke
	Align     Align
}

// WatermarkConfig is built once at startup and shared read-only by every
// component of the compositing engine.
type WatermarkConfig struct {
	Mode     Mode
	Opacity  float64
	Scale    float64
	Position Position
	Angle    float64
	Margin   Margin
	Assets   Assets
	Text     TextStyle
}

const (
	LuminanceThreshold  = 123
	DefaultJPEGQuality  = 85
	DefaultLedgerName   = ".done.txt"
	DefaultPollInterval = 5
)

var acceptedExtensions = []string{".jpg", ".jpeg", ".png"}

// IsAcceptedImage reports whether name carries one of the processed
// extensions. The match is case-sensitive.
func IsAcceptedImage(name string) bool {
	for _, ext := range acceptedExtensions {
		if strings.HasSuffix(name, ext) {
			return true
		}
	}
	return false
}
