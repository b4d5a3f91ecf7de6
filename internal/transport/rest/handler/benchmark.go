package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"aireadiness/internal/model"
	"aireadiness/internal/service"
	"aireadiness/internal/transport/rest/middleware"
)

// BenchmarkHandler serves benchmark comparisons for completed attempts
type BenchmarkHandler struct {
	benchmarkSvc *service.BenchmarkService
}

// NewBenchmarkHandler creates a new benchmark handler
func NewBenchmarkHandler(benchmarkSvc *service.BenchmarkService) *BenchmarkHandler {
	return &BenchmarkHandler{benchmarkSvc: benchmarkSvc}
}

// Compare handles GET /v1/attempts/{id}/benchmark?scope=industry|global.
// The industry scope falls back to global when the industry population
// is too small to publish.
func (h *BenchmarkHandler) Compare(w http.ResponseWriter, r *http.Request) {
	owner := middleware.GetOwner(r.Context())
	attemptID := mux.Vars(r)["id"]

	scope := model.BenchmarkScope(r.URL.Query().Get("scope"))
	switch scope {
	case "":
		scope = model.ScopeIndustry
	case model.ScopeIndustry, model.ScopeGlobal:
	default:
		writeError(w, http.StatusBadRequest, "scope must be industry or global")
		return
	}

	snapshot, err := h.benchmarkSvc.Compare(r.Context(), attemptID, owner, scope)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	if scope == model.ScopeIndustry && !snapshot.HasData() {
		fallback, err := h.benchmarkSvc.Compare(r.Context(), attemptID, owner, model.ScopeGlobal)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		snapshot = fallback
	}

	writeJSON(w, http.StatusOK, snapshot)
}
