package domain

import "time"

// TaskStatus is the workflow state of a task.
type TaskStatus string

const (
	TaskStatusTodo       TaskStatus = "todo"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusDone       TaskStatus = "done"
)

// Valid reports whether s is a known task status.
func (s TaskStatus) Valid() bool {
	switch s {
	case TaskStatusTodo, TaskStatusInProgress, TaskStatusDone:
		return true
	}
	return false
}

// Task belongs to exactly one project, records its creator, and carries a
// non-empty set of assignees. The sprint reference is optional; a sprint in
// a different project than the task is accepted (historical data exists).
type Task struct {
	ID          string     `json:"id" bson:"_id,omitempty"`
	Project     string     `json:"project" bson:"project"`
	Sprint      string     `json:"sprint,omitempty" bson:"sprint,omitempty"`
	Title       string     `json:"title" bson:"title"`
	Description string     `json:"description,omitempty" bson:"description,omitempty"`
	Status      TaskStatus `json:"status" bson:"status"`
	CreatedBy   string     `json:"created_by" bson:"created_by"`
	Assignees   []string   `json:"assignees" bson:"assignees"`
	CreatedAt   time.Time  `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" bson:"updated_at"`
}
