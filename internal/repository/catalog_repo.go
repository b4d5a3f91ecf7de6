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

// CatalogRepo handles MongoDB operations for versioned question catalogs
type CatalogRepo interface {
	Create(ctx context.Context, catalog *model.Catalog) (string, error)
	Latest(ctx context.Context, surveyID string) (*model.Catalog, error)
	GetVersion(ctx context.Context, surveyID string, version int) (*model.Catalog, error)
}

type catalogRepo struct {
	collection *mongo.Collection
}

// NewCatalogRepo creates a new catalog repository
func NewCatalogRepo(db *mongo.Database) CatalogRepo {
	return &catalogRepo{
		collection: db.Collection("catalogs"),
	}
}

func (r *catalogRepo) Create(ctx context.Context, catalog *model.Catalog) (string, error) {
	catalog.CreatedAt = time.Now().UTC()

	result, err := r.collection.InsertOne(ctx, catalog)
	if err != nil {
		return "", err
	}

	oid, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", nil
	}
	return oid.Hex(), nil
}

func (r *catalogRepo) Latest(ctx context.Context, surveyID string) (*model.Catalog, error) {
	opts := options.FindOne().SetSort(bson.M{"version": -1})

	var catalog model.Catalog
	err := r.collection.FindOne(ctx, bson.M{"surveyId": surveyID}, opts).Decode(&catalog)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &catalog, nil
}

func (r *catalogRepo) GetVersion(ctx context.Context, surveyID string, version int) (*model.Catalog, error) {
	var catalog model.Catalog
	err := r.collection.FindOne(ctx, bson.M{"surveyId": surveyID, "version": version}).Decode(&catalog)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &catalog, nil
}
