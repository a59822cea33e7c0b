package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mailguest/flatnotes/internal/logger"
	"github.com/mailguest/flatnotes/models"
)

func (h *Handler) listNotes(w http.ResponseWriter, r *http.Request) {
	notes, err := h.services.Notes.List(r.Context())
	if err != nil {
		h.fail(w, r, err, "listing notes failed")
		return
	}

	if notes == nil {
		notes = []models.Note{}
	}
	h.writeJSON(w, r, http.StatusOK, notes)
}

func (h *Handler) replaceNotes(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	var notes []models.Note
	if err := json.NewDecoder(r.Body).Decode(&notes); err != nil {
		log.Err(err).Msg("invalid JSON was passed")
		http.Error(w, "invalid JSON was passed", http.StatusBadRequest)
		return
	}

	for _, note := range notes {
		if err := h.validate.Struct(note); err != nil {
			log.Err(err).Str("note_id", note.ID).Msg("note failed validation")
			http.Error(w, "note failed validation: "+err.Error(), http.StatusBadRequest)
			return
		}
	}

	if err := h.services.Notes.ReplaceAll(r.Context(), notes); err != nil {
		h.fail(w, r, err, "replacing notes failed")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) updateNoteOrder(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)
	noteID := chi.URLParam(r, "id")

	var body models.OrderUpdate
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		log.Err(err).Msg("invalid JSON was passed")
		http.Error(w, "invalid JSON was passed", http.StatusBadRequest)
		return
	}

	if err := h.services.Notes.UpdateOrder(r.Context(), noteID, body.Order); err != nil {
		h.fail(w, r, err, "updating note order failed")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) updateNoteCategory(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)
	noteID := chi.URLParam(r, "id")

	var body models.CategoryUpdate
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		log.Err(err).Msg("invalid JSON was passed")
		http.Error(w, "invalid JSON was passed", http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(body); err != nil {
		log.Err(err).Msg("category update failed validation")
		http.Error(w, "category is required", http.StatusBadRequest)
		return
	}

	if err := h.services.Notes.UpdateCategory(r.Context(), noteID, body.Category); err != nil {
		h.fail(w, r, err, "updating note category failed")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) reorderNotes(w http.ResponseWriter, r *http.Request) {
	items, ok := h.decodeReorder(w, r)
	if !ok {
		return
	}

	if err := h.services.Notes.Reorder(r.Context(), items); err != nil {
		h.fail(w, r, err, "reordering notes failed")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// decodeReorder parses and validates the shared reorder request body.
func (h *Handler) decodeReorder(w http.ResponseWriter, r *http.Request) ([]models.ReorderEntry, bool) {
	log := logger.FromRequest(r)

	var body models.ReorderRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		log.Err(err).Msg("invalid JSON was passed")
		http.Error(w, "invalid JSON was passed", http.StatusBadRequest)
		return nil, false
	}
	if err := h.validate.Struct(body); err != nil {
		log.Err(err).Msg("reorder request failed validation")
		http.Error(w, "reorder request failed validation: "+err.Error(), http.StatusBadRequest)
		return nil, false
	}

	return body.Items, true
}
