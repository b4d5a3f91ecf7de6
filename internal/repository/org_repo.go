package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"aireadiness/internal/model"
)

// OrgRepo handles MongoDB operations for organizations
type OrgRepo interface {
	Upsert(ctx context.Context, org *model.Organization) error
	GetByID(ctx context.Context, id string) (*model.Organization, error)
}

type orgRepo struct {
	collection *mongo.Collection
}

// NewOrgRepo creates a new organization repository
func NewOrgRepo(db *mongo.Database) OrgRepo {
	return &orgRepo{
		collection: db.Collection("organizations"),
	}
}

func (r *orgRepo) Upsert(ctx context.Context, org *model.Organization) error {
	opts := options.Replace().SetUpsert(true)
	_, err := r.collection.ReplaceOne(ctx, bson.M{"_id": org.ID}, org, opts)
	return err
}

func (r *orgRepo) GetByID(ctx context.Context, id string) (*model.Organization, error) {
	var org model.Organization
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&org)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &org, nil
}
