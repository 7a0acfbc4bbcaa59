package repository

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/guttosm/binpack-service/internal/domain/model"
)

// AllocationsRepository keeps allocation results in MongoDB.
type AllocationsRepository struct {
	collection *mongo.Collection
}

// NewAllocationsRepository creates a repository over db.Allocations.
func NewAllocationsRepository(db *MongoDB) *AllocationsRepository {
	return &AllocationsRepository{collection: db.Allocations}
}

// Save inserts alloc. IDs are assigned by the caller.
func (r *AllocationsRepository) Save(ctx context.Context, alloc *model.Allocation) error {
	_, err := r.collection.InsertOne(ctx, alloc)
	return err
}

// Get returns the allocation with the given id, or nil if there is none.
func (r *AllocationsRepository) Get(ctx context.Context, id string) (*model.Allocation, error) {
	var alloc model.Allocation
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&alloc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &alloc, nil
}

// ListRecent returns up to limit allocations, newest first.
func (r *AllocationsRepository) ListRecent(ctx context.Context, limit int) ([]model.AllocationSummary, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$sort", Value: bson.D{{Key: "created_at", Value: -1}}}},
	}
	if limit > 0 {
		pipeline = append(pipeline, bson.D{{Key: "$limit", Value: limit}})
	}
	pipeline = append(pipeline, bson.D{{Key: "$project", Value: bson.M{
		"container":    1,
		"items_weight": 1,
		"created_at":   1,
		"item_count":   bson.M{"$size": "$placements"},
	}}})

	cursor, err := r.collection.Aggregate(ctx, pipeline, options.Aggregate())
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = cursor.Close(ctx)
	}()

	summaries := make([]model.AllocationSummary, 0)
	if err := cursor.All(ctx, &summaries); err != nil {
		return nil, err
	}
	return summaries, nil
}
