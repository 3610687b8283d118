package processor

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"path/filepath"
	"strings"

	"image-watermarker/internal/domain"
	"image-watermarker/internal/usecase/processor/operations"

	"github.com/wb-go/wbf/zlog"
)

type Result struct {
	Data        []byte
	ContentType string
	Format      string
	Report      operations.Report
}

type ImageProcessor struct {
	watermarker watermarker
	jpegQuality int
	logger      *zlog.Zerolog
}

func NewImageProcessor(w watermarker, jpegQuality int, logger *zlog.Zerolog) *ImageProcessor {
	if jpegQuality <= 0 || jpegQuality > 100 {
		jpegQuality = domain.DefaultJPEGQuality
	}
	return &ImageProcessor{
		watermarker: w,
		jpegQuality: jpegQuality,
		logger:      logger,
	}
}

// Process decodes data, watermarks it and encodes the result in the format
// implied by name's extension.
func (p *ImageProcessor) Process(ctx context.Context, name string, data []byte) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w %s: %v", ErrDecode, name, err)
	}

	p.logger.Debug().
		Str("file", name).
		Str("format", format).
		Int("width", img.Bounds().Dx()).
		Int("height", img.Bounds().Dy()).
		Msg("Decoded image")

	watermarked, report, err := p.watermarker.Apply(img)
	if err != nil {
		return nil, fmt.Errorf("failed to apply watermark to %s: %w", name, err)
	}

	if report.Skipped {
		p.logger.Warn().
			Str("file", name).
			Str("mode", string(report.Mode)).
			Msg("Overlay is empty, writing image unchanged")
	}

	buf := new(bytes.Buffer)
	var contentType, outFormat string

	switch strings.ToLower(filepath.Ext(name)) {
	case ".jpg", ".jpeg":
		err = jpeg.Encode(buf, watermarked, &jpeg.Options{Quality: p.jpegQuality})
		contentType, outFormat = "image/jpeg", "jpeg"
	case ".png":
		err = png.Encode(buf, watermarked)
		contentType, outFormat = "image/png", "png"
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, name)
	}

	if err != nil {
		return nil, fmt.Errorf("%w %s: %v", ErrEncode, name, err)
	}

	return &Result{
		Data:        buf.Bytes(),
		ContentType: contentType,
		Format:      outFormat,
		Report:      report,
	}, nil
}
