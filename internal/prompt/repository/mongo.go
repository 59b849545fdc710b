package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/zerpitt/prompt-keeper-project/internal/prompt"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoRepo stores prompts and categories in two collections. Every document
// carries a userId field and all queries are scoped by it.
type MongoRepo struct {
	prompts    *mongo.Collection
	categories *mongo.Collection
	now        func() time.Time
}

// NewMongoRepo uses the "prompts" and "categories" collections of db.
func NewMongoRepo(ctx context.Context, db *mongo.Database) (*MongoRepo, error) {
	r := &MongoRepo{
		prompts:    db.Collection("prompts"),
		categories: db.Collection("categories"),
		now:        func() time.Time { return time.Now().UTC() },
	}
	// category reassignment filters on (userId, category)
	if _, err := r.prompts.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "userId", Value: 1}, {Key: "category", Value: 1}},
	}); err != nil {
		return nil, fmt.Errorf("create prompt index: %w", err)
	}
	if _, err := r.categories.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "userId", Value: 1}},
	}); err != nil {
		return nil, fmt.Errorf("create category index: %w", err)
	}
	return r, nil
}

func scoped(userID, id string) bson.M {
	return bson.M{"_id": id, "userId": userID}
}

func (m *MongoRepo) ListPrompts(ctx context.Context, userID string) ([]*prompt.Prompt, error) {
	cur, err := m.prompts.Find(ctx, bson.M{"userId": userID})
	if err != nil {
		return nil, fmt.Errorf("find prompts: %w", err)
	}
	defer cur.Close(ctx)
	out := []*prompt.Prompt{}
	for cur.Next(ctx) {
		var p prompt.Prompt
		if err := cur.Decode(&p); err != nil {
			return nil, fmt.Errorf("decode prompt: %w", err)
		}
		out = append(out, &p)
	}
	return out, cur.Err()
}

func (m *MongoRepo) GetPrompt(ctx context.Context, userID, id string) (*prompt.Prompt, error) {
	var p prompt.Prompt
	err := m.prompts.FindOne(ctx, scoped(userID, id)).Decode(&p)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find prompt %s: %w", id, err)
	}
	return &p, nil
}

func (m *MongoRepo) CreatePrompt(ctx context.Context, userID string, p *prompt.Prompt) (string, error) {
	doc := *p
	if doc.ID == "" {
		doc.ID = primitive.NewObjectID().Hex()
	}
	doc.UserID = userID
	now := m.now()
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = now
	}
	doc.UpdatedAt = now
	if doc.History == nil {
		doc.History = []prompt.Version{}
	}
	if _, err := m.prompts.InsertOne(ctx, doc); err != nil {
		return "", fmt.Errorf("insert prompt: %w", err)
	}
	return doc.ID, nil
}

func (m *MongoRepo) UpdatePrompt(ctx context.Context, userID, id string, p *prompt.Prompt) error {
	set := bson.M{
		"title":     p.Title,
		"content":   p.Content,
		"category":  p.Category,
		"tags":      p.Tags,
		"variables": p.Variables,
		"guideText": p.GuideText,
		"workflow":  p.Workflow,
		"image":     p.Image,
		"history":   p.History,
		"updatedAt": m.now(),
	}
	res, err := m.prompts.UpdateOne(ctx, scoped(userID, id), bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("update prompt %s: %w", id, err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (m *MongoRepo) SetFavorite(ctx context.Context, userID, id string, favorite bool) error {
	res, err := m.prompts.UpdateOne(ctx, scoped(userID, id), bson.M{"$set": bson.M{"isFavorite": favorite}})
	if err != nil {
		return fmt.Errorf("set favorite %s: %w", id, err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (m *MongoRepo) DeletePrompt(ctx context.Context, userID, id string) error {
	res, err := m.prompts.DeleteOne(ctx, scoped(userID, id))
	if err != nil {
		return fmt.Errorf("delete prompt %s: %w", id, err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (m *MongoRepo) ListCategories(ctx context.Context, userID string) ([]*prompt.Category, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	cur, err := m.categories.Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("find categories: %w", err)
	}
	defer cur.Close(ctx)
	out := []*prompt.Category{}
	for cur.Next(ctx) {
		var c prompt.Category
		if err := cur.Decode(&c); err != nil {
			return nil, fmt.Errorf("decode category: %w", err)
		}
		out = append(out, &c)
	}
	return out, cur.Err()
}

func (m *MongoRepo) CreateCategory(ctx context.Context, userID string, c *prompt.Category) (string, error) {
	doc := *c
	if doc.ID == "" {
		doc.ID = primitive.NewObjectID().Hex()
	}
	doc.UserID = userID
	doc.CreatedAt = m.now()
	if _, err := m.categories.InsertOne(ctx, doc); err != nil {
		return "", fmt.Errorf("insert category: %w", err)
	}
	return doc.ID, nil
}

func (m *MongoRepo) DeleteCategory(ctx context.Context, userID, id string) error {
	res, err := m.categories.DeleteOne(ctx, scoped(userID, id))
	if err != nil {
		return fmt.Errorf("delete category %s: %w", id, err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (m *MongoRepo) ReassignPromptsCategory(ctx context.Context, userID, fromID, toID string) (int, error) {
	res, err := m.prompts.UpdateMany(ctx,
		bson.M{"userId": userID, "category": fromID},
		bson.M{"$set": bson.M{"category": toID}},
	)
	if err != nil {
		return 0, fmt.Errorf("reassign category %s: %w", fromID, err)
	}
	return int(res.ModifiedCount), nil
}
