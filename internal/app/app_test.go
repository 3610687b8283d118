package app

import (
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"image-watermarker/internal/config"

	"github.com/rs/zerolog"
)

func writePNG(t *testing.T, path string, w, h int, c color.NRGBA) {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("encode: %v", err)
	}
}

func loadConfig(t *testing.T, root string, env map[string]string) *config.Config {
	t.Helper()
	t.Setenv("PIPELINE_INPUT_DIR", filepath.Join(root, "images"))
	t.Setenv("PIPELINE_OUTPUT_DIR", filepath.Join(root, "watermarked"))
	t.Setenv("PIPELINE_LEDGER_PATH", filepath.Join(root, "images", ".done.txt"))
	for k, v := range env {
		t.Setenv(k, v)
	}

	cfg, err := config.MustLoad("")
	if err != nil {
		t.Fatalf("MustLoad: %v", err)
	}
	return cfg
}

func TestRunOnceImageMode(t *testing.T) {
	root := t.TempDir()
	light := filepath.Join(root, "patterns", "white.png")
	dark := filepath.Join(root, "patterns", "black.png")
	writePNG(t, light, 50, 50, color.NRGBA{R: 255, G: 255, B: 255, A: 255})
	writePNG(t, dark, 50, 50, color.NRGBA{A: 255})

	cfg := loadConfig(t, root, map[string]string{
		"WATERMARK_LIGHT_ASSET": light,
		"WATERMARK_DARK_ASSET":  dark,
	})
	writePNG(t, filepath.Join(root, "images", "nested", "pic.png"), 400, 300, color.NRGBA{R: 10, G: 10, B: 10, A: 255})

	logger := zerolog.Nop()
	a, err := NewApp(context.Background(), cfg, &logger)
	if err != nil {
		t.Fatalf("NewApp: %v", err)
	}

	summary, err := a.RunOnce(context.Background())
	if err != nil {
		t.Fatalf("RunOnce: %v", err)
	}
	if summary.Processed != 1 {
		t.Fatalf("summary = %+v", summary)
	}
	if _, err := os.Stat(filepath.Join(root, "watermarked", "pic.png")); err != nil {
		t.Fatalf("output missing: %v", err)
	}

	data, err := os.ReadFile(cfg.Pipeline.LedgerPath)
	if err != nil {
		t.Fatalf("read ledger: %v", err)
	}
	if string(data) != "pic.png\n" {
		t.Fatalf("ledger = %q", data)
	}
}

func TestRunOnceTextMode(t *testing.T) {
	root := t.TempDir()
	cfg := loadConfig(t, root, map[string]string{
		"WATERMARK_MODE":      "text",
		"WATERMARK_FONT_SIZE": "18",
		"WATERMARK_TEXT":      "sample",
	})
	writePNG(t, filepath.Join(root, "images", "a.png"), 200, 100, color.NRGBA{R: 20, G: 40, B: 60, A: 255})

	logger := zerolog.Nop()
	a, err := NewApp(context.Background(), cfg, &logger)
	if err != nil {
		t.Fatalf("NewApp: %v", err)
	}

	summary, err := a.RunOnce(context.Background())
	if err != nil {
		t.Fatalf("RunOnce: %v", err)
	}
	if summary.Processed != 1 || summary.Failed != 0 {
		t.Fatalf("summary = %+v", summary)
	}
}

func TestNewAppFailsOnMissingAssets(t *testing.T) {
	root := t.TempDir()
	cfg := loadConfig(t, root, map[string]string{
		"WATERMARK_LIGHT_ASSET": filepath.Join(root, "nope.png"),
		"WATERMARK_DARK_ASSET":  filepath.Join(root, "nope.png"),
	})

	logger := zerolog.Nop()
	if _, err := NewApp(context.Background(), cfg, &logger); err == nil {
		t.Fatal("expected error for missing assets")
	}
}

func TestRunStopsOnCancelledContext(t *testing.T) {
	root := t.TempDir()
	cfg := loadConfig(t, root, map[string]string{
		"WATERMARK_MODE":       "text",
		"WATERMARK_FONT_SCALE": "0.1",
	})

	logger := zerolog.Nop()
	a, err := NewApp(context.Background(), cfg, &logger)
	if err != nil {
		t.Fatalf("NewApp: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := a.Run(ctx); err != nil {
		t.Fatalf("Run: %v", err)
	}
}

func TestNewAppUsesServerAddrVerbatim(t *testing.T) {
	root := t.TempDir()
	cfg := loadConfig(t, root, map[string]string{
		"WATERMARK_MODE":       "text",
		"WATERMARK_FONT_SCALE": "0.1",
		"SERVER_ENABLED":       "true",
		"SERVER_ADDR":          "127.0.0.1:9091",
	})

	logger := zerolog.Nop()
	a, err := NewApp(context.Background(), cfg, &logger)
	if err != nil {
		t.Fatalf("NewApp: %v", err)
	}
	defer a.close()

	if a.server == nil {
		t.Fatal("expected status server to be built")
	}
	if a.server.Addr != "127.0.0.1:9091" {
		t.Fatalf("server.Addr = %q, want 127.0.0.1:9091", a.server.Addr)
	}
}
