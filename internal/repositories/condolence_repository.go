package repositories

import (
	"context"
	"time"

	"github.com/memoria-app/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CondolenceRepository defines the interface for condolence-book operations
type CondolenceRepository interface {
	CreateEntry(ctx context.Context, entry *models.CondolenceEntry) error
	GetEntriesByMemorialID(ctx context.Context, memorialID uint, skip, limit int64) ([]models.CondolenceEntry, error)
	DeleteEntriesByMemorialID(ctx context.Context, memorialID uint) error
}

// MongoCondolenceRepository implements CondolenceRepository for MongoDB
type MongoCondolenceRepository struct {
	collection *mongo.Collection
}

// NewMongoCondolenceRepository creates a new MongoCondolenceRepository
func NewMongoCondolenceRepository(db *mongo.Database) *MongoCondolenceRepository {
	return &MongoCondolenceRepository{collection: db.Collection("condolences")}
}

// CreateEntry creates a new condolence-book entry in MongoDB
func (r *MongoCondolenceRepository) CreateEntry(ctx context.Context, entry *models.CondolenceEntry) error {
	entry.ID = primitive.NewObjectID()
	entry.CreatedAt = time.Now()
	_, err := r.collection.InsertOne(ctx, entry)
	return err
}

// GetEntriesByMemorialID retrieves a memorial's condolence-book entries with pagination
func (r *MongoCondolenceRepository) GetEntriesByMemorialID(ctx context.Context, memorialID uint, skip, limit int64) ([]models.CondolenceEntry, error) {
	entries := []models.CondolenceEntry{}
	findOptions := options.Find().SetSkip(skip).SetLimit(limit).SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"memorial_id": memorialID}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// DeleteEntriesByMemorialID removes all entries for a memorial, used when
// the memorial itself is deleted.
func (r *MongoCondolenceRepository) DeleteEntriesByMemorialID(ctx context.Context, memorialID uint) error {
	_, err := r.collection.DeleteMany(ctx, bson.M{"memorial_id": memorialID})
	return err
}
