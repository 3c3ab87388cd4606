package domain

import "time"

// Sprint is a time-boxed iteration belonging to exactly one project.
// startDate <= endDate is enforced at validation time, not by the store.
type Sprint struct {
	ID        string    `json:"id" bson:"_id,omitempty"`
	Project   string    `json:"project" bson:"project"`
	Name      string    `json:"name" bson:"name"`
	Goal      string    `json:"goal,omitempty" bson:"goal,omitempty"`
	StartDate time.Time `json:"start_date" bson:"start_date"`
	EndDate   time.Time `json:"end_date" bson:"end_date"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}
