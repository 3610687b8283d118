package status

import (
	"encoding/json"
	"net/http"
	"strconv"

	"image-watermarker/internal/http-server/handler/status/dto"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/wb-go/wbf/zlog"
)

type StatusHandler struct {
	pipeline pipeline
	validate *validator.Validate
	logger   *zlog.Zerolog
}

func NewStatusHandler(p pipeline, logger *zlog.Zerolog) *StatusHandler {
	return &StatusHandler{
		pipeline: p,
		validate: validator.New(),
		logger:   logger,
	}
}

func (h *StatusHandler) Health(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, http.StatusOK, dto.HealthResponse{
		Status: "ok",
		State:  string(h.pipeline.State()),
	})
}

func (h *StatusHandler) LastPass(w http.ResponseWriter, r *http.Request) {
	summary, ok := h.pipeline.LastPass()
	if !ok {
		h.respondError(w, http.StatusNotFound, "No pass has completed yet", ErrNoPassYet)
		return
	}

	h.respondJSON(w, http.StatusOK, dto.PassResponse{
		PassSummary: summary,
		DurationMS:  summary.FinishedAt.Sub(summary.StartedAt).Milliseconds(),
	})
}

func (h *StatusHandler) LastPassFile(w http.ResponseWriter, r *http.Request) {
	req := dto.FileRequest{Name: chi.URLParam(r, "name")}
	if err := h.validate.Struct(req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid file name", err)
		return
	}

	summary, ok := h.pipeline.LastPass()
	if !ok {
		h.respondError(w, http.StatusNotFound, "No pass has completed yet", ErrNoPassYet)
		return
	}

	for i := len(summary.Results) - 1; i >= 0; i-- {
		if summary.Results[i].Name == req.Name {
			h.respondJSON(w, http.StatusOK, summary.Results[i])
			return
		}
	}

	h.respondError(w, http.StatusNotFound, "File not found", ErrFileNotFound)
}

func (h *StatusHandler) Ledger(w http.ResponseWriter, r *http.Request) {
	var req dto.LedgerRequest
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			h.respondError(w, http.StatusBadRequest, "Invalid limit", err)
			return
		}
		req.Limit = limit
	}
	if err := h.validate.Struct(req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid limit", err)
		return
	}

	names, err := h.pipeline.Ledger(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to load ledger")
		h.respondError(w, http.StatusInternalServerError, "Failed to load ledger", err)
		return
	}

	count := len(names)
	if req.Limit > 0 && req.Limit < len(names) {
		names = names[:req.Limit]
	}
	if names == nil {
		names = []string{}
	}

	h.respondJSON(w, http.StatusOK, dto.LedgerResponse{Count: count, Names: names})
}

func (h *StatusHandler) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error().Err(err).Msg("Failed to encode response")
	}
}

func (h *StatusHandler) respondError(w http.ResponseWriter, status int, message string, err error) {
	response := dto.ErrorResponse{
		Error:   http.StatusText(status),
		Message: message,
	}

	if err != nil {
		response.Details = err.Error()
	}

	h.respondJSON(w, status, response)
}
