package operations

import (
	"errors"
	"image"
	"math"
	"testing"

	"image-watermarker/internal/domain"
)

func TestResolveImagePlacement(t *testing.T) {
	tests := []struct {
		name   string
		base   image.Point
		native image.Point
		scale  float64
		pos    domain.Position
		want   Placement
	}{
		{
			name:   "bottom right flush",
			base:   image.Pt(800, 600),
			native: image.Pt(100, 100),
			scale:  0.1,
			pos:    domain.Position{X: 1, Y: 1},
			want:   Placement{X: 740, Y: 540, Width: 60, Height: 60},
		},
		{
			name:   "top left flush",
			base:   image.Pt(800, 600),
			native: image.Pt(100, 100),
			scale:  0.1,
			pos:    domain.Position{X: 0, Y: 0},
			want:   Placement{X: 0, Y: 0, Width: 60, Height: 60},
		},
		{
			name:   "centered",
			base:   image.Pt(1000, 500),
			native: image.Pt(100, 100),
			scale:  0.2,
			pos:    domain.Position{X: 0.5, Y: 0.5},
			want:   Placement{X: 450, Y: 200, Width: 100, Height: 100},
		},
		{
			name:   "height follows native width over height",
			base:   image.Pt(800, 600),
			native: image.Pt(200, 100),
			scale:  0.1,
			pos:    domain.Position{X: 1, Y: 1},
			want:   Placement{X: 740, Y: 480, Width: 60, Height: 120},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveImagePlacement(tt.base, tt.native, tt.scale, tt.pos)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestResolveImagePlacementWidthBound(t *testing.T) {
	bases := []image.Point{{800, 600}, {600, 800}, {1, 1}, {4000, 3000}, {333, 777}}
	scales := []float64{0.01, 0.1, 0.33, 0.5, 0.99, 1}

	for _, base := range bases {
		for _, scale := range scales {
			p, err := ResolveImagePlacement(base, image.Pt(300, 200), scale, domain.Position{X: 1, Y: 1})
			limit := int(math.Floor(scale * float64(min(base.X, base.Y))))
			if errors.Is(err, ErrDegenerateGeometry) {
				if limit > 0 {
					t.Fatalf("base %v scale %v: unexpected degenerate geometry", base, scale)
				}
				continue
			}
			if p.Width > limit {
				t.Fatalf("base %v scale %v: width %d exceeds %d", base, scale, p.Width, limit)
			}
			wantH := int(math.Floor(1.5 * float64(p.Width)))
			if p.Height != wantH {
				t.Fatalf("base %v scale %v: height %d, want %d", base, scale, p.Height, wantH)
			}
			if p.X != base.X-p.Width || p.Y != base.Y-p.Height {
				t.Fatalf("base %v scale %v: anchor (%d,%d) not flush bottom-right", base, scale, p.X, p.Y)
			}
		}
	}
}

func TestResolveImagePlacementDegenerate(t *testing.T) {
	_, err := ResolveImagePlacement(image.Pt(800, 600), image.Pt(100, 100), 0, domain.Position{X: 1, Y: 1})
	if !errors.Is(err, ErrDegenerateGeometry) {
		t.Fatalf("expected ErrDegenerateGeometry for zero scale, got %v", err)
	}

	_, err = ResolveImagePlacement(image.Pt(800, 600), image.Pt(0, 100), 0.1, domain.Position{})
	if !errors.Is(err, ErrDegenerateGeometry) {
		t.Fatalf("expected ErrDegenerateGeometry for empty asset, got %v", err)
	}
}

func TestResolveImagePlacementNegativeAnchor(t *testing.T) {
	p, err := ResolveImagePlacement(image.Pt(100, 50), image.Pt(4, 1), 1, domain.Position{X: 1, Y: 1})
	if err != nil {
		t.Fatalf("negative anchors must not fail: %v", err)
	}
	if p.Y >= 0 {
		t.Fatalf("expected negative y anchor, got %+v", p)
	}
}

func TestResolveTextPlacement(t *testing.T) {
	p, err := ResolveTextPlacement(image.Pt(800, 600), image.Pt(100, 40), domain.Margin{X: 10, Y: 10})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := Placement{X: 690, Y: 550, Width: 100, Height: 40}
	if p != want {
		t.Fatalf("got %+v, want %+v", p, want)
	}

	if _, err := ResolveTextPlacement(image.Pt(800, 600), image.Point{}, domain.Margin{}); !errors.Is(err, ErrDegenerateGeometry) {
		t.Fatalf("expected ErrDegenerateGeometry, got %v", err)
	}
}

func TestFontSize(t *testing.T) {
	if got := FontSize(600, domain.TextStyle{FontScale: 0.05}); got != 30 {
		t.Fatalf("FontSize scale = %d, want 30", got)
	}
	if got := FontSize(600, domain.TextStyle{FontSize: 24}); got != 24 {
		t.Fatalf("FontSize absolute = %d, want 24", got)
	}
}
