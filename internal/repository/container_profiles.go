package repository

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/guttosm/binpack-service/internal/domain/model"
)

// ContainerProfilesRepository keeps container presets in MongoDB, keyed by
// name.
type ContainerProfilesRepository struct {
	collection *mongo.Collection
}

// NewContainerProfilesRepository creates a repository over db.ContainerProfiles.
func NewContainerProfilesRepository(db *MongoDB) *ContainerProfilesRepository {
	return &ContainerProfilesRepository{collection: db.ContainerProfiles}
}

// Get returns the profile called name, or nil if there is none.
func (r *ContainerProfilesRepository) Get(ctx context.Context, name string) (*model.ContainerProfile, error) {
	var profile model.ContainerProfile
	err := r.collection.FindOne(ctx, bson.M{"name": name}).Decode(&profile)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

// Upsert creates the profile or replaces its dimensions, bumping the version.
func (r *ContainerProfilesRepository) Upsert(ctx context.Context, profile model.ContainerProfile, updatedBy string) (*model.ContainerProfile, error) {
	now := time.Now().UTC()
	update := bson.M{
		"$set": bson.M{
			"description": profile.Description,
			"width":       profile.Width,
			"height":      profile.Height,
			"depth":       profile.Depth,
			"max_weight":  profile.MaxWeight,
			"updated_at":  now,
			"updated_by":  updatedBy,
		},
		"$inc":         bson.M{"version": 1},
		"$setOnInsert": bson.M{"name": profile.Name, "created_at": now},
	}

	var saved model.ContainerProfile
	err := r.collection.FindOneAndUpdate(
		ctx,
		bson.M{"name": profile.Name},
		update,
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&saved)
	if err != nil {
		return nil, err
	}
	return &saved, nil
}

// List returns every profile ordered by name.
func (r *ContainerProfilesRepository) List(ctx context.Context) ([]model.ContainerProfile, error) {
	cursor, err := r.collection.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = cursor.Close(ctx)
	}()

	profiles := make([]model.ContainerProfile, 0)
	if err := cursor.All(ctx, &profiles); err != nil {
		return nil, err
	}
	return profiles, nil
}

// Delete removes the profile called name.
func (r *ContainerProfilesRepository) Delete(ctx context.Context, name string) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"name": name})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// SeedDefaults inserts the profiles that do not exist yet and leaves the
// others untouched. It returns how many were inserted.
func (r *ContainerProfilesRepository) SeedDefaults(ctx context.Context, profiles []model.ContainerProfile) (int, error) {
	if len(profiles) == 0 {
		return 0, nil
	}

	now := time.Now().UTC()
	writes := make([]mongo.WriteModel, 0, len(profiles))
	for _, p := range profiles {
		writes = append(writes, mongo.NewUpdateOneModel().
			SetFilter(bson.M{"name": p.Name}).
			SetUpdate(bson.M{"$setOnInsert": bson.M{
				"name":        p.Name,
				"description": p.Description,
				"width":       p.Width,
				"height":      p.Height,
				"depth":       p.Depth,
				"max_weight":  p.MaxWeight,
				"version":     1,
				"created_at":  now,
				"updated_at":  now,
			}}).
			SetUpsert(true))
	}

	res, err := r.collection.BulkWrite(ctx, writes, options.BulkWrite().SetOrdered(false))
	if err != nil {
		return 0, err
	}
	return int(res.UpsertedCount), nil
}
