package service

import (
	"context"

	"aireadiness/internal/cache"
	"aireadiness/internal/model"
	"aireadiness/internal/repository"
)

// MergeService reconciles a guest's buffered answers into an account
// attempt at the guest -> account boundary. The merge is consumed exactly
// once: the buffer is cleared afterwards and merging a missing buffer is
// a no-op, so repeated logins are safe.
type MergeService struct {
	attemptRepo repository.AttemptRepo
	guestCache  cache.GuestCache
	attemptSvc  *AttemptService
}

// NewMergeService creates a new merge service
func NewMergeService(attemptRepo repository.AttemptRepo, guestCache cache.GuestCache, attemptSvc *AttemptService) *MergeService {
	return &MergeService{
		attemptRepo: attemptRepo,
		guestCache:  guestCache,
		attemptSvc:  attemptSvc,
	}
}

// Merge adopts guest answers into the account's attempt for a survey.
// Per question: server nil + guest non-nil -> guest value; both non-nil
// -> server wins; both nil -> stays nil. Completed server attempts are
// never written to.
func (s *MergeService) Merge(ctx context.Context, guestID string, account model.Owner, surveyID string) (*model.AssessmentAttempt, error) {
	if account.Kind != model.OwnerAccount {
		return nil, ErrForbidden
	}

	// The account attempt exists regardless of the buffer so callers
	// always land on a usable record.
	attempt, err := s.attemptSvc.Start(ctx, account, surveyID)
	if err != nil {
		return nil, err
	}

	buffer, err := s.guestCache.Load(ctx, guestID, surveyID)
	if err != nil {
		return nil, err
	}
	if buffer == nil {
		// Already consumed (or never existed): idempotent no-op
		return attempt, nil
	}

	if attempt.Status != model.StatusCompleted {
		merged := false
		for _, guestAnswer := range buffer.Answers {
			if guestAnswer.Value == nil {
				continue
			}
			slot := attempt.AnswerFor(guestAnswer.QuestionID)
			if slot == nil || slot.Value != nil {
				// Unknown question or server already has a value:
				// the server record wins
				continue
			}
			v := *guestAnswer.Value
			slot.Value = &v
			merged = true
		}

		if merged {
			if attempt.Status == model.StatusDraft {
				attempt.Status = model.StatusInProgress
			}
			if err := s.attemptRepo.Update(ctx, attempt); err != nil {
				return nil, err
			}
		}
	}

	if err := s.guestCache.Clear(ctx, guestID, surveyID); err != nil {
		return nil, err
	}

	return attempt, nil
}
