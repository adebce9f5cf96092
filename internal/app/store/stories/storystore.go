// internal/app/store/stories/storystore.go
package storystore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dalemusser/storyhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type Store struct {
	c *mongo.Collection
}

var errBadMediaType = errors.New(`media_type must be "video"|"audio"|"pdf"`)

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("stories")}
}

// Create inserts a new Story, assigning its ID and timestamps.
func (s *Store) Create(ctx context.Context, st models.Story) (models.Story, error) {
	if !models.IsValidMediaType(st.MediaType) {
		return models.Story{}, errBadMediaType
	}
	st.ID = primitive.NewObjectID()
	st.Title = strings.TrimSpace(st.Title)
	st.Description = strings.TrimSpace(st.Description)
	if st.Genres == nil {
		st.Genres = []string{}
	}
	now := time.Now().UTC()
	st.CreatedAt = now
	st.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, st); err != nil {
		return models.Story{}, fmt.Errorf("insert story: %w", err)
	}
	return st, nil
}

// GetByID loads a story. Returns mongo.ErrNoDocuments if not found.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Story, error) {
	var st models.Story
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&st); err != nil {
		return nil, err
	}
	return &st, nil
}

// Delete removes a story. Returns mongo.ErrNoDocuments if nothing was deleted.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete story: %w", err)
	}
	if res.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// ListWithDirectors returns every story, newest first, with the director's
// public fields joined in. Director is nil when the user no longer exists.
func (s *Store) ListWithDirectors(ctx context.Context) ([]models.StoryView, error) {
	pipe := mongo.Pipeline{
		bson.D{{Key: "$sort", Value: bson.D{
			{Key: "created_at", Value: -1},
			{Key: "_id", Value: -1},
		}}},
		bson.D{{Key: "$lookup", Value: bson.M{
			"from":         "users",
			"localField":   "director_id",
			"foreignField": "_id",
			"as":           "directors",
		}}},
		bson.D{{Key: "$addFields", Value: bson.M{
			"director": bson.M{"$arrayElemAt": bson.A{"$directors", 0}},
		}}},
		// Keep only the director's public fields.
		bson.D{{Key: "$project", Value: bson.M{
			"directors":              0,
			"director.password_hash": 0,
			"director.name_ci":       0,
			"director.role":          0,
			"director.created_at":    0,
			"director.updated_at":    0,
		}}},
	}

	cur, err := s.c.Aggregate(ctx, pipe)
	if err != nil {
		return nil, fmt.Errorf("list stories: %w", err)
	}
	defer cur.Close(ctx)

	out := []models.StoryView{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode stories: %w", err)
	}
	return out, nil
}

// ReferencedMediaURLs returns the set of media URLs held by any story.
func (s *Store) ReferencedMediaURLs(ctx context.Context) (map[string]struct{}, error) {
	vals, err := s.c.Distinct(ctx, "media_url", bson.M{})
	if err != nil {
		return nil, fmt.Errorf("distinct media_url: %w", err)
	}
	out := make(map[string]struct{}, len(vals))
	for _, v := range vals {
		if u, ok := v.(string); ok {
			out[u] = struct{}{}
		}
	}
	return out, nil
}
