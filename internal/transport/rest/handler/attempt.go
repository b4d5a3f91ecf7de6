package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"aireadiness/internal/model"
	"aireadiness/internal/scoring"
	"aireadiness/internal/service"
	"aireadiness/internal/transport/rest/middleware"
)

// AttemptHandler handles the assessment attempt lifecycle
type AttemptHandler struct {
	attemptSvc *service.AttemptService
	mergeSvc   *service.MergeService
	authSvc    *service.AuthService
}

// NewAttemptHandler creates a new attempt handler
func NewAttemptHandler(attemptSvc *service.AttemptService, mergeSvc *service.MergeService, authSvc *service.AuthService) *AttemptHandler {
	return &AttemptHandler{
		attemptSvc: attemptSvc,
		mergeSvc:   mergeSvc,
		authSvc:    authSvc,
	}
}

type startAttemptRequest struct {
	SurveyID string `json:"surveyId"`
}

type attemptResponse struct {
	Attempt  *model.AssessmentAttempt `json:"attempt"`
	Progress int                      `json:"progress"`
	Scores   *scoring.Result          `json:"scores,omitempty"`
}

// Start handles POST /v1/attempts
func (h *AttemptHandler) Start(w http.ResponseWriter, r *http.Request) {
	owner := middleware.GetOwner(r.Context())

	var req startAttemptRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.SurveyID == "" {
		writeError(w, http.StatusBadRequest, "surveyId is required")
		return
	}

	attempt, err := h.attemptSvc.Start(r.Context(), owner, req.SurveyID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, attemptResponse{Attempt: attempt, Progress: attempt.Progress()})
}

// Get handles GET /v1/attempts/{id}
func (h *AttemptHandler) Get(w http.ResponseWriter, r *http.Request) {
	owner := middleware.GetOwner(r.Context())
	attemptID := mux.Vars(r)["id"]

	attempt, err := h.attemptSvc.Get(r.Context(), attemptID, owner)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	resp := attemptResponse{Attempt: attempt, Progress: attempt.Progress()}
	if scores, err := h.attemptSvc.PartialScores(r.Context(), attempt); err == nil {
		resp.Scores = scores
	}

	writeJSON(w, http.StatusOK, resp)
}

type setAnswerRequest struct {
	QuestionID int `json:"questionId"`
	Value      int `json:"value"`
}

// SetAnswer handles PUT /v1/attempts/{id}/answers
func (h *AttemptHandler) SetAnswer(w http.ResponseWriter, r *http.Request) {
	owner := middleware.GetOwner(r.Context())
	attemptID := mux.Vars(r)["id"]

	var req setAnswerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	attempt, err := h.attemptSvc.SetAnswer(r.Context(), attemptID, owner, req.QuestionID, req.Value)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, attemptResponse{Attempt: attempt, Progress: attempt.Progress()})
}

// Complete handles POST /v1/attempts/{id}/complete
func (h *AttemptHandler) Complete(w http.ResponseWriter, r *http.Request) {
	owner := middleware.GetOwner(r.Context())
	attemptID := mux.Vars(r)["id"]

	attempt, err := h.attemptSvc.Complete(r.Context(), attemptID, owner)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	resp := attemptResponse{Attempt: attempt, Progress: attempt.Progress()}
	if scores, err := h.attemptSvc.PartialScores(r.Context(), attempt); err == nil {
		resp.Scores = scores
	}

	writeJSON(w, http.StatusOK, resp)
}

// Recommendations handles GET /v1/attempts/{id}/recommendations
func (h *AttemptHandler) Recommendations(w http.ResponseWriter, r *http.Request) {
	owner := middleware.GetOwner(r.Context())
	attemptID := mux.Vars(r)["id"]

	state, err := h.attemptSvc.Recommendations(r.Context(), attemptID, owner)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, state)
}

// RequestRecommendations handles POST /v1/attempts/{id}/recommendations
func (h *AttemptHandler) RequestRecommendations(w http.ResponseWriter, r *http.Request) {
	owner := middleware.GetOwner(r.Context())
	attemptID := mux.Vars(r)["id"]

	state, err := h.attemptSvc.RequestRecommendations(r.Context(), attemptID, owner)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusAccepted, state)
}

type mergeRequest struct {
	SurveyID   string `json:"surveyId"`
	GuestToken string `json:"guestToken"`
}

// Merge handles POST /v1/attempts/merge. The caller authenticates with
// an account token and hands over the guest token whose buffered
// answers should be folded into the account attempt.
func (h *AttemptHandler) Merge(w http.ResponseWriter, r *http.Request) {
	owner := middleware.GetOwner(r.Context())

	var req mergeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.SurveyID == "" || req.GuestToken == "" {
		writeError(w, http.StatusBadRequest, "surveyId and guestToken are required")
		return
	}

	guest, err := h.authSvc.ValidateToken(req.GuestToken)
	if err != nil || !guest.IsGuest() {
		writeError(w, http.StatusBadRequest, "guestToken is not a valid guest token")
		return
	}

	attempt, err := h.mergeSvc.Merge(r.Context(), guest.ID, owner, req.SurveyID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, attemptResponse{Attempt: attempt, Progress: attempt.Progress()})
}

// writeServiceError maps service sentinel errors onto HTTP statuses
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrForbidden):
		writeError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrInvalidValue):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrAttemptClosed):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrIncompleteAnswers):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
