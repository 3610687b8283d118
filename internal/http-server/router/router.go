package router

import (
	"net/http"

	"image-watermarker/internal/http-server/handler/status"
	"image-watermarker/internal/http-server/middleware"

	"github.com/go-chi/chi/v5"
	"github.com/wb-go/wbf/zlog"
)

type Handler struct {
	StatusHandler *status.StatusHandler
	Logger        *zlog.Zerolog
}

func SetupRouter(h *Handler) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RecoveryMiddleware(h.Logger))
	r.Use(middleware.LoggingMiddleware(h.Logger))

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", h.StatusHandler.Health)
		r.Get("/ledger", h.StatusHandler.Ledger)
		r.Get("/passes/last", h.StatusHandler.LastPass)
		r.Get("/passes/last/files/{name}", h.StatusHandler.LastPassFile)
	})

	return r
}
