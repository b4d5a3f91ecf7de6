package model

import "time"

// Question is an immutable catalog entry. The engine treats the catalog
// as read-only input; answers referencing retired ids are ignored.
type Question struct {
	ID       int    `json:"id" bson:"id"`
	Category string `json:"category" bson:"category"` // e.g. "Strategy & Vision"
	Text     string `json:"text" bson:"text"`
	Details  string `json:"details,omitempty" bson:"details,omitempty"`
}

// Catalog is a versioned question set for one survey template. Attempts
// snapshot the version at creation so catalog edits never strand an
// in-progress attempt.
type Catalog struct {
	ID        string     `json:"id" bson:"_id,omitempty"`
	SurveyID  string     `json:"surveyId" bson:"surveyId"`
	Version   int        `json:"version" bson:"version"`
	Title     string     `json:"title" bson:"title"`
	Questions []Question `json:"questions" bson:"questions"`
	CreatedAt time.Time  `json:"createdAt" bson:"createdAt"`
}

// Categories returns the distinct category labels in catalog order.
func (c *Catalog) Categories() []string {
	seen := make(map[string]bool)
	out := []string{}
	for _, q := range c.Questions {
		if !seen[q.Category] {
			seen[q.Category] = true
			out = append(out, q.Category)
		}
	}
	return out
}
