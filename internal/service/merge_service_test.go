package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aireadiness/internal/model"
)

func newMergeFixture() (*fixture, *MergeService) {
	f := newFixture()
	return f, NewMergeService(f.attemptRepo, f.guestCache, f.svc)
}

func TestMergeAdoptsGuestAnswersIntoFreshAttempt(t *testing.T) {
	f, merge := newMergeFixture()
	guest := guestOwner()

	// Guest answers two of four questions before signing up
	guestAttempt, _ := f.svc.Start(context.Background(), guest, testSurveyID)
	_, err := f.svc.SetAnswer(context.Background(), guestAttempt.ID, guest, 1, 2)
	require.NoError(t, err)
	_, err = f.svc.SetAnswer(context.Background(), guestAttempt.ID, guest, 3, -1)
	require.NoError(t, err)

	merged, err := merge.Merge(context.Background(), guest.ID, accountOwner(), testSurveyID)
	require.NoError(t, err)

	assert.Equal(t, model.StatusInProgress, merged.Status)
	assert.Equal(t, 2, *merged.AnswerFor(1).Value)
	assert.Nil(t, merged.AnswerFor(2).Value)
	assert.Equal(t, -1, *merged.AnswerFor(3).Value)

	// Buffer consumed
	buffer, err := f.guestCache.Load(context.Background(), guest.ID, testSurveyID)
	require.NoError(t, err)
	assert.Nil(t, buffer)
}

func TestMergeServerAnswerWins(t *testing.T) {
	f, merge := newMergeFixture()
	guest := guestOwner()
	account := accountOwner()

	guestAttempt, _ := f.svc.Start(context.Background(), guest, testSurveyID)
	_, err := f.svc.SetAnswer(context.Background(), guestAttempt.ID, guest, 1, -2)
	require.NoError(t, err)
	_, err = f.svc.SetAnswer(context.Background(), guestAttempt.ID, guest, 2, -2)
	require.NoError(t, err)

	// The account already answered question 1 on the server
	serverAttempt, _ := f.svc.Start(context.Background(), account, testSurveyID)
	_, err = f.svc.SetAnswer(context.Background(), serverAttempt.ID, account, 1, 2)
	require.NoError(t, err)

	merged, err := merge.Merge(context.Background(), guest.ID, account, testSurveyID)
	require.NoError(t, err)

	assert.Equal(t, 2, *merged.AnswerFor(1).Value)  // server wins
	assert.Equal(t, -2, *merged.AnswerFor(2).Value) // guest fills the gap
	assert.Nil(t, merged.AnswerFor(3).Value)
}

func TestMergeIsIdempotent(t *testing.T) {
	f, merge := newMergeFixture()
	guest := guestOwner()
	account := accountOwner()

	guestAttempt, _ := f.svc.Start(context.Background(), guest, testSurveyID)
	_, err := f.svc.SetAnswer(context.Background(), guestAttempt.ID, guest, 1, 1)
	require.NoError(t, err)

	first, err := merge.Merge(context.Background(), guest.ID, account, testSurveyID)
	require.NoError(t, err)

	// Second merge sees a cleared buffer: same result, no error
	second, err := merge.Merge(context.Background(), guest.ID, account, testSurveyID)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, first.Answers, second.Answers)
	assert.Equal(t, first.Status, second.Status)
}

func TestMergeMissingBufferIsNoOp(t *testing.T) {
	_, merge := newMergeFixture()

	merged, err := merge.Merge(context.Background(), "guest_never_seen", accountOwner(), testSurveyID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusDraft, merged.Status)
	assert.Equal(t, 0, merged.AnsweredCount())
}

func TestMergeNeverWritesCompletedAttempt(t *testing.T) {
	f, merge := newMergeFixture()
	guest := guestOwner()
	account := accountOwner()

	guestAttempt, _ := f.svc.Start(context.Background(), guest, testSurveyID)
	_, err := f.svc.SetAnswer(context.Background(), guestAttempt.ID, guest, 1, -2)
	require.NoError(t, err)

	serverAttempt, _ := f.svc.Start(context.Background(), account, testSurveyID)
	f.fill(t, serverAttempt.ID, account, 1)
	_, err = f.svc.Complete(context.Background(), serverAttempt.ID, account)
	require.NoError(t, err)

	merged, err := merge.Merge(context.Background(), guest.ID, account, testSurveyID)
	require.NoError(t, err)

	assert.Equal(t, model.StatusCompleted, merged.Status)
	assert.Equal(t, 1, *merged.AnswerFor(1).Value)

	// Buffer still consumed so it cannot resurface later
	buffer, _ := f.guestCache.Load(context.Background(), guest.ID, testSurveyID)
	assert.Nil(t, buffer)
}

func TestMergeRequiresAccountOwner(t *testing.T) {
	_, merge := newMergeFixture()
	_, err := merge.Merge(context.Background(), "guest_x", guestOwner(), testSurveyID)
	assert.ErrorIs(t, err, ErrForbidden)
}
