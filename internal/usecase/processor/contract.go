package processor

import (
	"image"

	"image-watermarker/internal/usecase/processor/operations"
)

type watermarker interface {
	Apply(base image.Image) (*image.NRGBA, operations.Report, error)
}
