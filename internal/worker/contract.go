package worker

import (
	"context"

	"image-watermarker/internal/usecase/processor"
)

type imageProcessor interface {
	Process(ctx context.Context, name string, data []byte) (*processor.Result, error)
}

type outputStore interface {
	Save(ctx context.Context, name string, data []byte, contentType string) (string, error)
}
