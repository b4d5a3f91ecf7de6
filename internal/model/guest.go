package model

import "time"

// GuestBuffer mirrors a guest attempt's answers in Redis, keyed by
// (guestID, surveyID). It is untrusted cache state: once a server-side
// attempt exists the server record wins except for answers it has not
// seen. Consumed exactly once by the merge resolver.
type GuestBuffer struct {
	GuestID     string    `json:"guestId"`
	SurveyID    string    `json:"surveyId"`
	Answers     []Answer  `json:"answers"`
	CurrentStep int       `json:"currentStep"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
