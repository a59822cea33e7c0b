package http

import (
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mailguest/flatnotes/internal/logger"
	"github.com/mailguest/flatnotes/internal/store"
)

// maxUploadBytes bounds a single attachment upload.
const maxUploadBytes = 32 << 20

func (h *Handler) upload(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		log.Err(err).Msg("invalid multipart form")
		http.Error(w, "invalid multipart form", http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		log.Err(err).Msg("missing file field")
		http.Error(w, "missing file field", http.StatusBadRequest)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		log.Err(err).Msg("reading upload failed")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	resp, err := h.services.Uploads.Save(r.Context(), header.Filename, data)
	if err != nil {
		h.fail(w, r, err, "storing upload failed")
		return
	}

	h.writeJSON(w, r, http.StatusOK, resp)
}

func (h *Handler) deleteUpload(w http.ResponseWriter, r *http.Request) {
	filename := chi.URLParam(r, "filename")

	if err := h.services.Uploads.Delete(r.Context(), filename); err != nil {
		if errors.Is(err, store.ErrUploadNotFound) {
			// Deleting an absent upload is treated as already done.
			w.WriteHeader(http.StatusNoContent)
			return
		}
		h.fail(w, r, err, "deleting upload failed")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
