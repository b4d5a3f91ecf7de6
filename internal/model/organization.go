package model

import "time"

// Organization owns account attempts and supplies the industry used for
// benchmark filtering.
type Organization struct {
	ID        string    `json:"id" bson:"_id,omitempty"`
	Name      string    `json:"name" bson:"name"`
	Industry  string    `json:"industry" bson:"industry"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
}
