package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/bioedlabs/controlbench/internal/catalog"
)

type CatalogHandler struct {
	catalog *catalog.Catalog
}

func NewCatalogHandler(c *catalog.Catalog) *CatalogHandler {
	return &CatalogHandler{catalog: c}
}

// List returns the full static question catalog.
// GET /api/v1/questions
func (h *CatalogHandler) List(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"data":    h.catalog.All(),
	})
}

// Get returns one question by id.
// GET /api/v1/questions/{questionId}
func (h *CatalogHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "questionId"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "question id must be numeric")
		return
	}
	q, ok := h.catalog.ByID(id)
	if !ok {
		writeError(w, http.StatusNotFound, "question not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"data":    q,
	})
}
