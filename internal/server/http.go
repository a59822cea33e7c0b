package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/mailguest/flatnotes/internal/config"
	"github.com/mailguest/flatnotes/internal/logger"
)

// httpHandler is the root request handler the server mounts; in practice the
// chi router built by the handler package.
type httpHandler = http.Handler

type httpServer struct {
	server *http.Server
	logger *logger.Logger
}

func newHTTPServer(handler httpHandler, cfg config.ServerHTTP, logger *logger.Logger) *httpServer {
	readTimeout := cfg.RequestTimeout
	if readTimeout <= 0 {
		readTimeout = 30 * time.Second
	}

	return &httpServer{
		server: &http.Server{
			Addr:              cfg.Address,
			Handler:           handler,
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       readTimeout,
		},
		logger: logger,
	}
}

func (h *httpServer) RunServer() {
	if err := h.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		h.logger.Err(err).Msg("HTTP server ListenAndServe")
	}
}

func (h *httpServer) Shutdown() {
	if err := h.server.Shutdown(context.Background()); err != nil {
		h.logger.Err(err).Msg("HTTP server Shutdown")
	}
}
