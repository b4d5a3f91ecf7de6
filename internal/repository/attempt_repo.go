package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"aireadiness/internal/model"
)

// AttemptRepo handles MongoDB operations for assessment attempts
type AttemptRepo interface {
	Create(ctx context.Context, attempt *model.AssessmentAttempt) (string, error)
	GetByID(ctx context.Context, id string) (*model.AssessmentAttempt, error)
	GetByOwnerAndSurvey(ctx context.Context, owner model.Owner, surveyID string) (*model.AssessmentAttempt, error)
	Update(ctx context.Context, attempt *model.AssessmentAttempt) error
	SetRecommendations(ctx context.Context, id, text string) error
	SetReportRef(ctx context.Context, id, ref string) error
	CompletedInQuarter(ctx context.Context, surveyID string, from, to time.Time, industry string) ([]*model.AssessmentAttempt, error)
}

type attemptRepo struct {
	collection *mongo.Collection
}

// NewAttemptRepo creates a new attempt repository
func NewAttemptRepo(db *mongo.Database) AttemptRepo {
	return &attemptRepo{
		collection: db.Collection("attempts"),
	}
}

func (r *attemptRepo) Create(ctx context.Context, attempt *model.AssessmentAttempt) (string, error) {
	attempt.CreatedAt = time.Now().UTC()
	attempt.UpdatedAt = attempt.CreatedAt

	result, err := r.collection.InsertOne(ctx, attempt)
	if err != nil {
		return "", err
	}

	oid, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", nil
	}
	attempt.ID = oid.Hex()
	return attempt.ID, nil
}

func (r *attemptRepo) GetByID(ctx context.Context, id string) (*model.AssessmentAttempt, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, err
	}

	var attempt model.AssessmentAttempt
	err = r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&attempt)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	attempt.ID = id
	return &attempt, nil
}

func (r *attemptRepo) GetByOwnerAndSurvey(ctx context.Context, owner model.Owner, surveyID string) (*model.AssessmentAttempt, error) {
	filter := bson.M{
		"surveyId":   surveyID,
		"owner.kind": owner.Kind,
		"owner.id":   owner.ID,
	}

	var attempt model.AssessmentAttempt
	err := r.collection.FindOne(ctx, filter).Decode(&attempt)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &attempt, nil
}

func (r *attemptRepo) Update(ctx context.Context, attempt *model.AssessmentAttempt) error {
	oid, err := primitive.ObjectIDFromHex(attempt.ID)
	if err != nil {
		return err
	}

	attempt.UpdatedAt = time.Now().UTC()
	update := bson.M{"$set": bson.M{
		"status":      attempt.Status,
		"answers":     attempt.Answers,
		"score":       attempt.Score,
		"industry":    attempt.Industry,
		"completedOn": attempt.CompletedOn,
		"updatedAt":   attempt.UpdatedAt,
	}}
	_, err = r.collection.UpdateOne(ctx, bson.M{"_id": oid}, update)
	return err
}

func (r *attemptRepo) SetRecommendations(ctx context.Context, id, text string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return err
	}

	update := bson.M{"$set": bson.M{
		"recommendations": text,
		"updatedAt":       time.Now().UTC(),
	}}
	_, err = r.collection.UpdateOne(ctx, bson.M{"_id": oid}, update)
	return err
}

func (r *attemptRepo) SetReportRef(ctx context.Context, id, ref string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return err
	}

	update := bson.M{"$set": bson.M{
		"reportRef": ref,
		"updatedAt": time.Now().UTC(),
	}}
	_, err = r.collection.UpdateOne(ctx, bson.M{"_id": oid}, update)
	return err
}

// CompletedInQuarter returns all completed attempts for a survey whose
// completedOn falls in [from, to). An empty industry means no filter.
// Read-only aggregation input; never locks or mutates other attempts.
func (r *attemptRepo) CompletedInQuarter(ctx context.Context, surveyID string, from, to time.Time, industry string) ([]*model.AssessmentAttempt, error) {
	filter := bson.M{
		"surveyId":    surveyID,
		"status":      model.StatusCompleted,
		"completedOn": bson.M{"$gte": from, "$lt": to},
	}
	if industry != "" {
		filter["industry"] = industry
	}

	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var attempts []*model.AssessmentAttempt
	if err := cursor.All(ctx, &attempts); err != nil {
		return nil, err
	}
	return attempts, nil
}
