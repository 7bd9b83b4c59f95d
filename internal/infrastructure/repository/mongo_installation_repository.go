package repository

import (
	"context"
	"fmt"
	"time"

	"shopify-pixel-relay/internal/domain"
	"shopify-pixel-relay/internal/infrastructure/repository/entity"
	"shopify-pixel-relay/internal/ports"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoInstallationRepository implements InstallationRepository using MongoDB
type MongoInstallationRepository struct {
	collection *mongo.Collection
}

// NewMongoInstallationRepository creates a new MongoDB installation repository
func NewMongoInstallationRepository(db *mongo.Database) *MongoInstallationRepository {
	return &MongoInstallationRepository{
		collection: db.Collection("installations"),
	}
}

// EnsureIndexes creates the unique index on shop
func (r *MongoInstallationRepository) EnsureIndexes(ctx context.Context) error {
	indexModel := mongo.IndexModel{
		Keys:    bson.D{{Key: "shop", Value: 1}},
		Options: options.Index().SetUnique(true),
	}
	if _, err := r.collection.Indexes().CreateOne(ctx, indexModel); err != nil {
		return fmt.Errorf("failed to create installation index: %w", err)
	}
	return nil
}

// Save upserts the installation keyed by shop
func (r *MongoInstallationRepository) Save(ctx context.Context, installation *domain.Installation) error {
	doc := entity.MongoInstallationDocFromDomain(installation)
	doc.UpdatedAt = time.Now()
	if doc.InstalledAt.IsZero() {
		doc.InstalledAt = doc.UpdatedAt
	}

	opts := options.Update().SetUpsert(true)
	filter := bson.M{"shop": installation.Shop}
	update := bson.M{"$set": doc}

	_, err := r.collection.UpdateOne(ctx, filter, update, opts)
	if err != nil {
		return fmt.Errorf("failed to save installation: %w", err)
	}

	return nil
}

// GetByShop retrieves an installation by shop domain
func (r *MongoInstallationRepository) GetByShop(ctx context.Context, shop string) (*domain.Installation, error) {
	var doc entity.MongoInstallationDoc
	filter := bson.M{"shop": shop}

	err := r.collection.FindOne(ctx, filter).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get installation: %w", err)
	}

	return doc.ToDomain(), nil
}

// List retrieves all installations, most recent first
func (r *MongoInstallationRepository) List(ctx context.Context) ([]*domain.Installation, error) {
	opts := options.Find().SetSort(bson.D{{Key: "installedAt", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list installations: %w", err)
	}
	defer cursor.Close(ctx)

	var installations []*domain.Installation
	for cursor.Next(ctx) {
		var doc entity.MongoInstallationDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode installation: %w", err)
		}
		installations = append(installations, doc.ToDomain())
	}

	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %w", err)
	}

	return installations, nil
}

var _ ports.InstallationRepository = (*MongoInstallationRepository)(nil)
