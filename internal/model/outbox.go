package model

import "time"

// TaskType identifies an outbox task
type TaskType string

const (
	// TaskCompletionPipeline runs recommendation generation and PDF
	// rendering after an attempt completes.
	TaskCompletionPipeline TaskType = "completion_pipeline"
)

// TaskStatus is the processing state of an outbox task
type TaskStatus string

const (
	TaskPending    TaskStatus = "pending"
	TaskProcessing TaskStatus = "processing"
	TaskDone       TaskStatus = "done"
	TaskFailed     TaskStatus = "failed"
)

// OutboxTask is a durable post-completion side effect. Enqueued in the
// same flow that commits the completion so a crash between the two does
// not silently lose the work; claimed at most once per completion event.
type OutboxTask struct {
	ID        string     `json:"id" bson:"_id,omitempty"`
	Type      TaskType   `json:"type" bson:"type"`
	AttemptID string     `json:"attemptId" bson:"attemptId"`
	Status    TaskStatus `json:"status" bson:"status"`
	Attempts  int        `json:"attempts" bson:"attempts"`
	LastError string     `json:"lastError,omitempty" bson:"lastError,omitempty"`
	CreatedAt time.Time  `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt" bson:"updatedAt"`
}
