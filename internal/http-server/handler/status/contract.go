package status

import (
	"context"

	"image-watermarker/internal/domain"
	"image-watermarker/internal/worker"
)

type pipeline interface {
	State() worker.State
	LastPass() (domain.PassSummary, bool)
	Ledger(ctx context.Context) ([]string, error)
}
