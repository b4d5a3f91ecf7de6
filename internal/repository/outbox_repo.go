package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"aireadiness/internal/model"
)

// OutboxRepo handles MongoDB operations for durable post-completion tasks
type OutboxRepo interface {
	Enqueue(ctx context.Context, task *model.OutboxTask) error
	ClaimNext(ctx context.Context) (*model.OutboxTask, error)
	MarkDone(ctx context.Context, id string) error
	MarkFailed(ctx context.Context, id string, taskErr error) error
	GetByAttempt(ctx context.Context, attemptID string, taskType model.TaskType) (*model.OutboxTask, error)
}

type outboxRepo struct {
	collection *mongo.Collection
}

// NewOutboxRepo creates a new outbox repository
func NewOutboxRepo(db *mongo.Database) OutboxRepo {
	return &outboxRepo{
		collection: db.Collection("outbox_tasks"),
	}
}

// Enqueue inserts a pending task. Re-enqueueing the same (attempt, type)
// while a task is still open is a no-op, keeping the pipeline at one
// attempt per completion event.
func (r *outboxRepo) Enqueue(ctx context.Context, task *model.OutboxTask) error {
	existing, err := r.GetByAttempt(ctx, task.AttemptID, task.Type)
	if err != nil {
		return err
	}
	if existing != nil && (existing.Status == model.TaskPending || existing.Status == model.TaskProcessing) {
		return nil
	}

	task.Status = model.TaskPending
	task.CreatedAt = time.Now().UTC()
	task.UpdatedAt = task.CreatedAt

	result, err := r.collection.InsertOne(ctx, task)
	if err != nil {
		return err
	}
	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		task.ID = oid.Hex()
	}
	return nil
}

// ClaimNext atomically flips the oldest pending task to processing.
// Returns nil when no work is pending.
func (r *outboxRepo) ClaimNext(ctx context.Context) (*model.OutboxTask, error) {
	filter := bson.M{"status": model.TaskPending}
	update := bson.M{
		"$set": bson.M{"status": model.TaskProcessing, "updatedAt": time.Now().UTC()},
		"$inc": bson.M{"attempts": 1},
	}
	opts := options.FindOneAndUpdate().
		SetSort(bson.M{"createdAt": 1}).
		SetReturnDocument(options.After)

	var task model.OutboxTask
	err := r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&task)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &task, nil
}

func (r *outboxRepo) MarkDone(ctx context.Context, id string) error {
	return r.setStatus(ctx, id, model.TaskDone, "")
}

func (r *outboxRepo) MarkFailed(ctx context.Context, id string, taskErr error) error {
	msg := ""
	if taskErr != nil {
		msg = taskErr.Error()
	}
	return r.setStatus(ctx, id, model.TaskFailed, msg)
}

func (r *outboxRepo) setStatus(ctx context.Context, id string, status model.TaskStatus, lastError string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return err
	}

	update := bson.M{"$set": bson.M{
		"status":    status,
		"lastError": lastError,
		"updatedAt": time.Now().UTC(),
	}}
	_, err = r.collection.UpdateOne(ctx, bson.M{"_id": oid}, update)
	return err
}

func (r *outboxRepo) GetByAttempt(ctx context.Context, attemptID string, taskType model.TaskType) (*model.OutboxTask, error) {
	opts := options.FindOne().SetSort(bson.M{"createdAt": -1})

	var task model.OutboxTask
	err := r.collection.FindOne(ctx, bson.M{"attemptId": attemptID, "type": taskType}, opts).Decode(&task)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &task, nil
}
