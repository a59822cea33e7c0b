package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mailguest/flatnotes/internal/logger"
	"github.com/mailguest/flatnotes/internal/service"
	"github.com/mailguest/flatnotes/internal/store"
	"github.com/mailguest/flatnotes/models"
)

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	var user models.User
	if err := json.NewDecoder(r.Body).Decode(&user); err != nil {
		log.Err(err).Msg("invalid JSON was passed")
		http.Error(w, "invalid JSON was passed", http.StatusBadRequest)
		return
	}

	registered, err := h.services.Auth.RegisterUser(ctx, user)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidDataProvided):
			h.fail(w, r, err, "invalid data provided")
		case errors.Is(err, store.ErrUserExists):
			h.fail(w, r, err, "login already exists")
		default:
			h.fail(w, r, err, "user registration failed")
		}
		return
	}

	token, err := h.services.Auth.CreateToken(ctx, registered)
	if err != nil {
		h.fail(w, r, err, "token creation failed")
		return
	}

	h.writeJSON(w, r, http.StatusOK, token)
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	var user models.User
	if err := json.NewDecoder(r.Body).Decode(&user); err != nil {
		log.Err(err).Msg("invalid JSON was passed")
		http.Error(w, "invalid JSON was passed", http.StatusBadRequest)
		return
	}

	authenticated, err := h.services.Auth.Login(ctx, user)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidDataProvided):
			h.fail(w, r, err, "invalid data provided")
		case errors.Is(err, store.ErrUserNotFound):
			// An unknown login reads the same as a wrong password, so the
			// endpoint does not leak which accounts exist.
			h.fail(w, r, service.ErrWrongPassword, "wrong login or password")
		case errors.Is(err, service.ErrWrongPassword):
			h.fail(w, r, err, "wrong login or password")
		default:
			h.fail(w, r, err, "login failed")
		}
		return
	}

	token, err := h.services.Auth.CreateToken(ctx, authenticated)
	if err != nil {
		h.fail(w, r, err, "token creation failed")
		return
	}

	h.writeJSON(w, r, http.StatusOK, token)
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, r, http.StatusOK, models.HealthResponse{Status: "ok"})
}
