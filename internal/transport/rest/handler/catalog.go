package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"aireadiness/internal/repository"
)

// CatalogHandler serves the question catalog
type CatalogHandler struct {
	catalogRepo repository.CatalogRepo
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(catalogRepo repository.CatalogRepo) *CatalogHandler {
	return &CatalogHandler{catalogRepo: catalogRepo}
}

// Questions handles GET /v1/surveys/{surveyId}/questions
func (h *CatalogHandler) Questions(w http.ResponseWriter, r *http.Request) {
	surveyID := mux.Vars(r)["surveyId"]

	catalog, err := h.catalogRepo.Latest(r.Context(), surveyID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load catalog")
		return
	}
	if catalog == nil {
		writeError(w, http.StatusNotFound, "survey not found")
		return
	}

	writeJSON(w, http.StatusOK, catalog)
}
