package service

import (
	"context"
	"log"
	"time"

	"aireadiness/internal/cache"
	"aireadiness/internal/model"
	"aireadiness/internal/repository"
	"aireadiness/internal/scoring"
)

// Recommender generates recommendation text from category scores
type Recommender interface {
	Generate(ctx context.Context, categories []scoring.CategoryScore, industry string) (string, error)
}

// Renderer requests PDF report generation from an external service
type Renderer interface {
	IsEnabled() bool
	Render(ctx context.Context, attempt *model.AssessmentAttempt, categories []scoring.CategoryScore) (string, error)
}

// AttemptService manages answer state and the attempt lifecycle:
// draft -> in_progress -> completed. Completion triggers the durable
// post-completion pipeline (recommendations, then PDF) without blocking
// or being able to fail the transition itself.
type AttemptService struct {
	attemptRepo repository.AttemptRepo
	catalogRepo repository.CatalogRepo
	orgRepo     repository.OrgRepo
	outboxRepo  repository.OutboxRepo
	guestCache  cache.GuestCache
	recommender Recommender
	renderer    Renderer
	notifier    Notifier
}

// NewAttemptService creates a new attempt service
func NewAttemptService(
	attemptRepo repository.AttemptRepo,
	catalogRepo repository.CatalogRepo,
	orgRepo repository.OrgRepo,
	outboxRepo repository.OutboxRepo,
	guestCache cache.GuestCache,
	recommender Recommender,
	renderer Renderer,
) *AttemptService {
	return &AttemptService{
		attemptRepo: attemptRepo,
		catalogRepo: catalogRepo,
		orgRepo:     orgRepo,
		outboxRepo:  outboxRepo,
		guestCache:  guestCache,
		recommender: recommender,
		renderer:    renderer,
	}
}

// SetNotifier sets the notifier for owner push events
func (s *AttemptService) SetNotifier(n Notifier) {
	s.notifier = n
}

// Start creates a draft attempt with one nil answer per catalog question.
// The catalog version is snapshotted so later edits don't affect this
// attempt; account owners get their organization's industry denormalized
// for benchmark filtering.
func (s *AttemptService) Start(ctx context.Context, owner model.Owner, surveyID string) (*model.AssessmentAttempt, error) {
	if existing, err := s.attemptRepo.GetByOwnerAndSurvey(ctx, owner, surveyID); err != nil {
		return nil, err
	} else if existing != nil {
		// Resume is idempotent: starting an already-started survey
		// returns the existing attempt.
		return existing, nil
	}

	catalog, err := s.catalogRepo.Latest(ctx, surveyID)
	if err != nil {
		return nil, err
	}
	if catalog == nil {
		return nil, ErrNotFound
	}

	industry := ""
	if !owner.IsGuest() && owner.OrgID != "" {
		org, err := s.orgRepo.GetByID(ctx, owner.OrgID)
		if err != nil {
			return nil, err
		}
		if org != nil {
			industry = org.Industry
		}
	}

	answers := make([]model.Answer, len(catalog.Questions))
	for i, q := range catalog.Questions {
		answers[i] = model.Answer{QuestionID: q.ID}
	}

	attempt := &model.AssessmentAttempt{
		SurveyID:       surveyID,
		Owner:          owner,
		Industry:       industry,
		CatalogVersion: catalog.Version,
		Status:         model.StatusDraft,
		Answers:        answers,
	}
	if _, err := s.attemptRepo.Create(ctx, attempt); err != nil {
		return nil, err
	}
	return attempt, nil
}

// Get loads an attempt and verifies ownership
func (s *AttemptService) Get(ctx context.Context, attemptID string, owner model.Owner) (*model.AssessmentAttempt, error) {
	attempt, err := s.attemptRepo.GetByID(ctx, attemptID)
	if err != nil {
		return nil, err
	}
	if attempt == nil {
		return nil, ErrNotFound
	}
	if !attempt.Owner.Matches(owner) {
		return nil, ErrForbidden
	}
	return attempt, nil
}

// Catalog returns the catalog snapshot an attempt is bound to
func (s *AttemptService) Catalog(ctx context.Context, attempt *model.AssessmentAttempt) (*model.Catalog, error) {
	catalog, err := s.catalogRepo.GetVersion(ctx, attempt.SurveyID, attempt.CatalogVersion)
	if err != nil {
		return nil, err
	}
	if catalog == nil {
		return nil, ErrNotFound
	}
	return catalog, nil
}

// SetAnswer upserts one answer. Values outside {-2..2} are rejected with
// ErrInvalidValue and writes to completed attempts with ErrAttemptClosed;
// neither changes any state. The first successful write moves a draft
// attempt to in_progress. Guest attempts mirror the full answer set into
// the guest buffer after every write.
func (s *AttemptService) SetAnswer(ctx context.Context, attemptID string, owner model.Owner, questionID, value int) (*model.AssessmentAttempt, error) {
	if !model.ValidAnswerValue(value) {
		return nil, ErrInvalidValue
	}

	attempt, err := s.Get(ctx, attemptID, owner)
	if err != nil {
		return nil, err
	}
	if attempt.Status == model.StatusCompleted {
		return nil, ErrAttemptClosed
	}

	slot := attempt.AnswerFor(questionID)
	if slot == nil {
		return nil, ErrNotFound
	}
	v := value
	slot.Value = &v

	if attempt.Status == model.StatusDraft {
		attempt.Status = model.StatusInProgress
	}

	if err := s.attemptRepo.Update(ctx, attempt); err != nil {
		return nil, err
	}

	if owner.IsGuest() {
		buffer := &model.GuestBuffer{
			Answers:     attempt.Answers,
			CurrentStep: attempt.AnsweredCount(),
		}
		// Mirror only; the server record stays authoritative
		if err := s.guestCache.Save(ctx, owner.ID, attempt.SurveyID, buffer); err != nil {
			log.Printf("guest buffer mirror failed for %s: %v", attemptID, err)
		}
	}

	return attempt, nil
}

// PartialScores computes advisory scores over whatever subset is
// answered. Never persisted as the attempt's final score.
func (s *AttemptService) PartialScores(ctx context.Context, attempt *model.AssessmentAttempt) (*scoring.Result, error) {
	catalog, err := s.Catalog(ctx, attempt)
	if err != nil {
		return nil, err
	}
	result, err := scoring.Score(attempt.Answers, catalog.Questions)
	if err == scoring.ErrNoAnswers {
		return &scoring.Result{Categories: []scoring.CategoryScore{}}, nil
	}
	return result, err
}

// Complete transitions an attempt to its terminal state. Accepted only
// when every answer is non-nil; otherwise fails with ErrIncompleteAnswers
// and the state is unchanged. On acceptance the status, score and
// completedOn are persisted, then exactly one outbox task is enqueued for
// the recommendation/PDF pipeline. The completed state is durable and
// visible before the pipeline runs; pipeline failures can never re-open it.
func (s *AttemptService) Complete(ctx context.Context, attemptID string, owner model.Owner) (*model.AssessmentAttempt, error) {
	attempt, err := s.Get(ctx, attemptID, owner)
	if err != nil {
		return nil, err
	}
	if attempt.Status == model.StatusCompleted {
		return nil, ErrAttemptClosed
	}
	if !attempt.IsComplete() {
		return nil, ErrIncompleteAnswers
	}

	catalog, err := s.Catalog(ctx, attempt)
	if err != nil {
		return nil, err
	}
	result, err := scoring.Score(attempt.Answers, catalog.Questions)
	if err != nil {
		// Complete answers with no scoreable category means the catalog
		// snapshot is empty; completion must not be permitted.
		return nil, ErrIncompleteAnswers
	}

	now := time.Now().UTC()
	attempt.Status = model.StatusCompleted
	attempt.Score = &result.Overall
	attempt.CompletedOn = &now

	if err := s.attemptRepo.Update(ctx, attempt); err != nil {
		return nil, err
	}

	// Side effects are fire-and-forget relative to the transition: an
	// enqueue failure is logged, never propagated to the caller.
	task := &model.OutboxTask{Type: model.TaskCompletionPipeline, AttemptID: attempt.ID}
	if err := s.outboxRepo.Enqueue(ctx, task); err != nil {
		log.Printf("failed to enqueue completion pipeline for %s: %v", attempt.ID, err)
	}

	return attempt, nil
}

// RecommendationState describes the async post-completion artifacts
type RecommendationState struct {
	Status          string  `json:"status"` // unavailable | pending | ready | failed
	Recommendations *string `json:"recommendations,omitempty"`
	ReportRef       string  `json:"reportRef,omitempty"`
}

// Recommendations reports the readiness of the post-completion artifacts
func (s *AttemptService) Recommendations(ctx context.Context, attemptID string, owner model.Owner) (*RecommendationState, error) {
	attempt, err := s.Get(ctx, attemptID, owner)
	if err != nil {
		return nil, err
	}
	if attempt.Status != model.StatusCompleted {
		return &RecommendationState{Status: "unavailable"}, nil
	}
	if attempt.Recommendations != nil {
		return &RecommendationState{
			Status:          "ready",
			Recommendations: attempt.Recommendations,
			ReportRef:       attempt.ReportRef,
		}, nil
	}

	task, err := s.outboxRepo.GetByAttempt(ctx, attemptID, model.TaskCompletionPipeline)
	if err != nil {
		return nil, err
	}
	if task != nil && task.Status == model.TaskFailed {
		return &RecommendationState{Status: "failed"}, nil
	}
	return &RecommendationState{Status: "pending"}, nil
}

// RequestRecommendations re-enqueues the pipeline after a failure. The
// outbox skips the enqueue while a task is still open, so automatic
// retries never stack up.
func (s *AttemptService) RequestRecommendations(ctx context.Context, attemptID string, owner model.Owner) (*RecommendationState, error) {
	attempt, err := s.Get(ctx, attemptID, owner)
	if err != nil {
		return nil, err
	}
	if attempt.Status != model.StatusCompleted {
		return &RecommendationState{Status: "unavailable"}, nil
	}
	if attempt.Recommendations != nil {
		return &RecommendationState{
			Status:          "ready",
			Recommendations: attempt.Recommendations,
			ReportRef:       attempt.ReportRef,
		}, nil
	}

	task := &model.OutboxTask{Type: model.TaskCompletionPipeline, AttemptID: attemptID}
	if err := s.outboxRepo.Enqueue(ctx, task); err != nil {
		return nil, err
	}
	return &RecommendationState{Status: "pending"}, nil
}

// RunCompletionPipeline executes the post-completion side effects for
// one attempt: generate recommendations, then render the PDF report.
// Called by the outbox worker, at most once per claimed task. A
// recommendation failure marks the task failed and leaves the attempt
// fully usable with recommendations pending; a PDF failure is logged
// and dropped.
func (s *AttemptService) RunCompletionPipeline(ctx context.Context, attemptID string) error {
	attempt, err := s.attemptRepo.GetByID(ctx, attemptID)
	if err != nil {
		return err
	}
	if attempt == nil || attempt.Status != model.StatusCompleted {
		// Stale task; nothing to do
		return nil
	}

	catalog, err := s.catalogRepo.GetVersion(ctx, attempt.SurveyID, attempt.CatalogVersion)
	if err != nil {
		return err
	}
	if catalog == nil {
		return ErrNotFound
	}
	result, err := scoring.Score(attempt.Answers, catalog.Questions)
	if err != nil {
		return err
	}

	if attempt.Recommendations == nil {
		text, err := s.recommender.Generate(ctx, result.Categories, attempt.Industry)
		if err != nil {
			return err
		}
		if err := s.attemptRepo.SetRecommendations(ctx, attempt.ID, text); err != nil {
			return err
		}
		attempt.Recommendations = &text

		if s.notifier != nil {
			s.notifier.NotifyOwner(attempt.ID, "recommendations_ready", map[string]string{
				"attemptId": attempt.ID,
			})
		}
	}

	// PDF rendering only once recommendations exist. Best-effort: a
	// missing PDF is not a fatal error and is not retried here.
	if s.renderer != nil && s.renderer.IsEnabled() && attempt.ReportRef == "" {
		ref, err := s.renderer.Render(ctx, attempt, result.Categories)
		if err != nil {
			log.Printf("PDF render failed for %s: %v", attempt.ID, err)
			return nil
		}
		if err := s.attemptRepo.SetReportRef(ctx, attempt.ID, ref); err != nil {
			log.Printf("failed to store report ref for %s: %v", attempt.ID, err)
			return nil
		}
		if s.notifier != nil {
			s.notifier.NotifyOwner(attempt.ID, "report_ready", map[string]string{
				"attemptId": attempt.ID,
				"reportRef": ref,
			})
		}
	}

	return nil
}
