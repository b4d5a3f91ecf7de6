package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"aireadiness/internal/cache"
	"aireadiness/internal/model"
	"aireadiness/internal/scoring"
)

// In-memory fakes for the Mongo repositories and Redis caches.

type fakeAttemptRepo struct {
	mu       sync.Mutex
	attempts map[string]*model.AssessmentAttempt
	nextID   int
}

func newFakeAttemptRepo() *fakeAttemptRepo {
	return &fakeAttemptRepo{attempts: make(map[string]*model.AssessmentAttempt)}
}

func (r *fakeAttemptRepo) clone(a *model.AssessmentAttempt) *model.AssessmentAttempt {
	c := *a
	c.Answers = make([]model.Answer, len(a.Answers))
	copy(c.Answers, a.Answers)
	for i, ans := range a.Answers {
		if ans.Value != nil {
			v := *ans.Value
			c.Answers[i].Value = &v
		}
	}
	return &c
}

func (r *fakeAttemptRepo) Create(_ context.Context, attempt *model.AssessmentAttempt) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	attempt.ID = fmt.Sprintf("attempt-%d", r.nextID)
	attempt.CreatedAt = time.Now().UTC()
	attempt.UpdatedAt = attempt.CreatedAt
	r.attempts[attempt.ID] = r.clone(attempt)
	return attempt.ID, nil
}

func (r *fakeAttemptRepo) GetByID(_ context.Context, id string) (*model.AssessmentAttempt, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.attempts[id]
	if !ok {
		return nil, nil
	}
	return r.clone(a), nil
}

func (r *fakeAttemptRepo) GetByOwnerAndSurvey(_ context.Context, owner model.Owner, surveyID string) (*model.AssessmentAttempt, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.attempts {
		if a.SurveyID == surveyID && a.Owner.Matches(owner) {
			return r.clone(a), nil
		}
	}
	return nil, nil
}

func (r *fakeAttemptRepo) Update(_ context.Context, attempt *model.AssessmentAttempt) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.attempts[attempt.ID]; !ok {
		return fmt.Errorf("attempt %s not found", attempt.ID)
	}
	attempt.UpdatedAt = time.Now().UTC()
	r.attempts[attempt.ID] = r.clone(attempt)
	return nil
}

func (r *fakeAttemptRepo) SetRecommendations(_ context.Context, id, text string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.attempts[id]
	if !ok {
		return fmt.Errorf("attempt %s not found", id)
	}
	a.Recommendations = &text
	return nil
}

func (r *fakeAttemptRepo) SetReportRef(_ context.Context, id, ref string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.attempts[id]
	if !ok {
		return fmt.Errorf("attempt %s not found", id)
	}
	a.ReportRef = ref
	return nil
}

func (r *fakeAttemptRepo) CompletedInQuarter(_ context.Context, surveyID string, from, to time.Time, industry string) ([]*model.AssessmentAttempt, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*model.AssessmentAttempt{}
	for _, a := range r.attempts {
		if a.SurveyID != surveyID || a.Status != model.StatusCompleted || a.CompletedOn == nil {
			continue
		}
		if a.CompletedOn.Before(from) || !a.CompletedOn.Before(to) {
			continue
		}
		if industry != "" && a.Industry != industry {
			continue
		}
		out = append(out, r.clone(a))
	}
	return out, nil
}

type fakeCatalogRepo struct {
	catalogs []*model.Catalog
}

func (r *fakeCatalogRepo) Create(_ context.Context, catalog *model.Catalog) (string, error) {
	r.catalogs = append(r.catalogs, catalog)
	return fmt.Sprintf("catalog-%d", len(r.catalogs)), nil
}

func (r *fakeCatalogRepo) Latest(_ context.Context, surveyID string) (*model.Catalog, error) {
	var latest *model.Catalog
	for _, c := range r.catalogs {
		if c.SurveyID == surveyID && (latest == nil || c.Version > latest.Version) {
			latest = c
		}
	}
	return latest, nil
}

func (r *fakeCatalogRepo) GetVersion(_ context.Context, surveyID string, version int) (*model.Catalog, error) {
	for _, c := range r.catalogs {
		if c.SurveyID == surveyID && c.Version == version {
			return c, nil
		}
	}
	return nil, nil
}

type fakeOrgRepo struct {
	orgs map[string]*model.Organization
}

func (r *fakeOrgRepo) Upsert(_ context.Context, org *model.Organization) error {
	if r.orgs == nil {
		r.orgs = make(map[string]*model.Organization)
	}
	r.orgs[org.ID] = org
	return nil
}

func (r *fakeOrgRepo) GetByID(_ context.Context, id string) (*model.Organization, error) {
	return r.orgs[id], nil
}

type fakeOutboxRepo struct {
	mu     sync.Mutex
	tasks  []*model.OutboxTask
	nextID int
}

func (r *fakeOutboxRepo) Enqueue(_ context.Context, task *model.OutboxTask) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.tasks {
		if t.AttemptID == task.AttemptID && t.Type == task.Type &&
			(t.Status == model.TaskPending || t.Status == model.TaskProcessing) {
			return nil
		}
	}
	r.nextID++
	task.ID = fmt.Sprintf("task-%d", r.nextID)
	task.Status = model.TaskPending
	task.CreatedAt = time.Now().UTC()
	r.tasks = append(r.tasks, task)
	return nil
}

func (r *fakeOutboxRepo) ClaimNext(_ context.Context) (*model.OutboxTask, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.tasks {
		if t.Status == model.TaskPending {
			t.Status = model.TaskProcessing
			t.Attempts++
			c := *t
			return &c, nil
		}
	}
	return nil, nil
}

func (r *fakeOutboxRepo) MarkDone(_ context.Context, id string) error {
	return r.setStatus(id, model.TaskDone, "")
}

func (r *fakeOutboxRepo) MarkFailed(_ context.Context, id string, taskErr error) error {
	msg := ""
	if taskErr != nil {
		msg = taskErr.Error()
	}
	return r.setStatus(id, model.TaskFailed, msg)
}

func (r *fakeOutboxRepo) setStatus(id string, status model.TaskStatus, lastError string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.tasks {
		if t.ID == id {
			t.Status = status
			t.LastError = lastError
			return nil
		}
	}
	return fmt.Errorf("task %s not found", id)
}

func (r *fakeOutboxRepo) GetByAttempt(_ context.Context, attemptID string, taskType model.TaskType) (*model.OutboxTask, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := len(r.tasks) - 1; i >= 0; i-- {
		if r.tasks[i].AttemptID == attemptID && r.tasks[i].Type == taskType {
			c := *r.tasks[i]
			return &c, nil
		}
	}
	return nil, nil
}

type fakeGuestCache struct {
	mu      sync.Mutex
	buffers map[string]*model.GuestBuffer
}

func newFakeGuestCache() *fakeGuestCache {
	return &fakeGuestCache{buffers: make(map[string]*model.GuestBuffer)}
}

func (c *fakeGuestCache) key(guestID, surveyID string) string {
	return guestID + "/" + surveyID
}

func (c *fakeGuestCache) Save(_ context.Context, guestID, surveyID string, buffer *model.GuestBuffer) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	cp := *buffer
	cp.Answers = make([]model.Answer, len(buffer.Answers))
	copy(cp.Answers, buffer.Answers)
	c.buffers[c.key(guestID, surveyID)] = &cp
	return nil
}

func (c *fakeGuestCache) Load(_ context.Context, guestID, surveyID string) (*model.GuestBuffer, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	b, ok := c.buffers[c.key(guestID, surveyID)]
	if !ok {
		return nil, nil
	}
	return b, nil
}

func (c *fakeGuestCache) Clear(_ context.Context, guestID, surveyID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.buffers, c.key(guestID, surveyID))
	return nil
}

type fakeBenchmarkCache struct {
	mu     sync.Mutex
	aggs   map[string]*cache.Aggregate
	hits   int
	misses int
}

func newFakeBenchmarkCache() *fakeBenchmarkCache {
	return &fakeBenchmarkCache{aggs: make(map[string]*cache.Aggregate)}
}

func (c *fakeBenchmarkCache) Get(_ context.Context, surveyID, quarter, scopeKey string) (*cache.Aggregate, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	agg, ok := c.aggs[surveyID+"/"+quarter+"/"+scopeKey]
	if !ok {
		c.misses++
		return nil, nil
	}
	c.hits++
	return agg, nil
}

func (c *fakeBenchmarkCache) Set(_ context.Context, surveyID, quarter, scopeKey string, agg *cache.Aggregate) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.aggs[surveyID+"/"+quarter+"/"+scopeKey] = agg
	return nil
}

type fakeRecommender struct {
	mu    sync.Mutex
	calls int
	text  string
	err   error
}

func (f *fakeRecommender) Generate(_ context.Context, categories []scoring.CategoryScore, industry string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	if f.text != "" {
		return f.text, nil
	}
	return "focus on your weakest category", nil
}

type fakeRenderer struct {
	mu      sync.Mutex
	enabled bool
	calls   int
	ref     string
	err     error
}

func (f *fakeRenderer) IsEnabled() bool { return f.enabled }

func (f *fakeRenderer) Render(_ context.Context, attempt *model.AssessmentAttempt, categories []scoring.CategoryScore) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	if f.ref != "" {
		return f.ref, nil
	}
	return "reports/" + attempt.ID + ".pdf", nil
}

type fakeNotifier struct {
	mu     sync.Mutex
	events []string
}

func (f *fakeNotifier) NotifyOwner(attemptID string, event string, payload interface{}) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, event)
}
