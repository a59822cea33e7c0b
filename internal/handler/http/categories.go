package http

import (
	"encoding/json"
	"net/http"

	"github.com/mailguest/flatnotes/internal/logger"
	"github.com/mailguest/flatnotes/models"
)

func (h *Handler) listCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.services.Categories.List(r.Context())
	if err != nil {
		h.fail(w, r, err, "listing categories failed")
		return
	}

	if categories == nil {
		categories = []models.Category{}
	}
	h.writeJSON(w, r, http.StatusOK, categories)
}

func (h *Handler) replaceCategories(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	var categories []models.Category
	if err := json.NewDecoder(r.Body).Decode(&categories); err != nil {
		log.Err(err).Msg("invalid JSON was passed")
		http.Error(w, "invalid JSON was passed", http.StatusBadRequest)
		return
	}

	for _, category := range categories {
		if err := h.validate.Struct(category); err != nil {
			log.Err(err).Str("category_id", category.ID).Msg("category failed validation")
			http.Error(w, "category failed validation: "+err.Error(), http.StatusBadRequest)
			return
		}
	}

	if err := h.services.Categories.ReplaceAll(r.Context(), categories); err != nil {
		h.fail(w, r, err, "replacing categories failed")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) reorderCategories(w http.ResponseWriter, r *http.Request) {
	items, ok := h.decodeReorder(w, r)
	if !ok {
		return
	}

	if err := h.services.Categories.Reorder(r.Context(), items); err != nil {
		h.fail(w, r, err, "reordering categories failed")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
