// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 The flatnotes Authors

// Package http implements the HTTP transport layer of the flatnotes server.
// It provides middleware, route handlers, and request/response utilities for
// the REST API. Authentication, logging, and tracing concerns are handled at
// this layer before requests are forwarded to the service layer.
package http

import (
	"context"
	"net/http"

	"github.com/mailguest/flatnotes/internal/logger"
	"github.com/mailguest/flatnotes/internal/service"
	"github.com/mailguest/flatnotes/internal/utils"
)

// auth enforces bearer-token authentication. It extracts the token from the
// Authorization header, validates it via [service.AuthService.ParseToken],
// and stores the authenticated user's ID in the request context under
// [utils.UserIDCtxKey] before delegating to the next handler. Any failure is
// rejected with 401.
func (h *Handler) auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromRequest(r)

		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			log.Warn().Msg("empty authorization header")
			http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
			return
		}

		tokenString, err := utils.ParseBearerToken(authHeader)
		if err != nil {
			log.Err(err).Send()
			http.Error(w, err.Error(), http.StatusUnauthorized)
			return
		}

		ctx := r.Context()
		token, err := h.services.Auth.ParseToken(ctx, tokenString)
		if err != nil {
			log.Err(err).Msg("token rejected")
			http.Error(w, service.ErrTokenIsExpiredOrInvalid.Error(), http.StatusUnauthorized)
			return
		}

		// Downstream handlers read the user ID from the context instead of
		// re-parsing the token.
		ctx = context.WithValue(ctx, utils.UserIDCtxKey, token.UserID)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
