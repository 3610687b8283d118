package dto

import "image-watermarker/internal/domain"

type HealthResponse struct {
	Status string `json:"status"`
	State  string `json:"state"`
}

type LedgerResponse struct {
	Count int      `json:"count"`
	Names []string `json:"names"`
}

type LedgerRequest struct {
	Limit int `validate:"gte=0,lte=100000"`
}

type FileRequest struct {
	Name string `validate:"required,max=255"`
}

type PassResponse struct {
	domain.PassSummary
	DurationMS int64 `json:"duration_ms"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}
