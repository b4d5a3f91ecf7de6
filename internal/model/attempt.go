package model

import (
	"math"
	"time"
)

// AttemptStatus is the lifecycle state of an assessment attempt
type AttemptStatus string

const (
	StatusDraft      AttemptStatus = "draft"
	StatusInProgress AttemptStatus = "in_progress"
	StatusCompleted  AttemptStatus = "completed" // terminal
)

// Likert answer values, -2 (Strongly Disagree) to 2 (Strongly Agree)
const (
	AnswerValueMin = -2
	AnswerValueMax = 2
)

// ValidAnswerValue reports whether v is in the 5-level ordinal set
func ValidAnswerValue(v int) bool {
	return v >= AnswerValueMin && v <= AnswerValueMax
}

// Answer pairs a question with its Likert value. A nil Value means
// unanswered. At most one Answer per question id within an attempt.
type Answer struct {
	QuestionID int  `json:"questionId" bson:"questionId"`
	Value      *int `json:"value" bson:"value"`
}

// AssessmentAttempt is one owner's run through a survey. Answers always
// have the length of the catalog snapshot, pre-populated with nil values.
type AssessmentAttempt struct {
	ID              string        `json:"id" bson:"_id,omitempty"`
	SurveyID        string        `json:"surveyId" bson:"surveyId"`
	Owner           Owner         `json:"owner" bson:"owner"`
	Industry        string        `json:"industry,omitempty" bson:"industry,omitempty"` // denormalized from the owner's organization
	CatalogVersion  int           `json:"catalogVersion" bson:"catalogVersion"`
	Status          AttemptStatus `json:"status" bson:"status"`
	Answers         []Answer      `json:"answers" bson:"answers"`
	Score           *int          `json:"score" bson:"score"` // 0-100, set at completion
	Recommendations *string       `json:"recommendations" bson:"recommendations"`
	ReportRef       string        `json:"reportRef,omitempty" bson:"reportRef,omitempty"`
	CompletedOn     *time.Time    `json:"completedOn,omitempty" bson:"completedOn,omitempty"`
	CreatedAt       time.Time     `json:"createdAt" bson:"createdAt"`
	UpdatedAt       time.Time     `json:"updatedAt" bson:"updatedAt"`
}

// AnswerFor returns the answer slot for a question id, or nil if the
// question is not part of the attempt's catalog snapshot.
func (a *AssessmentAttempt) AnswerFor(questionID int) *Answer {
	for i := range a.Answers {
		if a.Answers[i].QuestionID == questionID {
			return &a.Answers[i]
		}
	}
	return nil
}

// AnsweredCount returns how many answers have a non-nil value
func (a *AssessmentAttempt) AnsweredCount() int {
	n := 0
	for i := range a.Answers {
		if a.Answers[i].Value != nil {
			n++
		}
	}
	return n
}

// IsComplete reports whether every answer has a value
func (a *AssessmentAttempt) IsComplete() bool {
	return len(a.Answers) > 0 && a.AnsweredCount() == len(a.Answers)
}

// Progress returns answered/total as a rounded percentage
func (a *AssessmentAttempt) Progress() int {
	if len(a.Answers) == 0 {
		return 0
	}
	return int(math.Round(float64(a.AnsweredCount()) / float64(len(a.Answers)) * 100))
}
