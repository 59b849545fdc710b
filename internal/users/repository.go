package users

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Repository defines persistence operations for owner profiles
type Repository interface {
	UpsertBySub(ctx context.Context, p *Profile) (*Profile, error)
	// GetBySub returns nil, nil when no profile exists.
	GetBySub(ctx context.Context, sub string) (*Profile, error)
}

// MongoRepository implements Repository using MongoDB
type MongoRepository struct {
	col *mongo.Collection
}

func NewMongoRepository(col *mongo.Collection) *MongoRepository {
	return &MongoRepository{col: col}
}

func (r *MongoRepository) UpsertBySub(ctx context.Context, p *Profile) (*Profile, error) {
	now := time.Now().UTC()
	filter := bson.M{"sub": p.Sub}
	update := bson.M{
		"$set":         bson.M{"email": p.Email, "name": p.Name, "updatedAt": now},
		"$setOnInsert": bson.M{"createdAt": now},
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
	var updated Profile
	if err := r.col.FindOneAndUpdate(ctx, filter, update, opts).Decode(&updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (r *MongoRepository) GetBySub(ctx context.Context, sub string) (*Profile, error) {
	var p Profile
	if err := r.col.FindOne(ctx, bson.M{"sub": sub}).Decode(&p); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

// MemoryRepository keeps profiles in process for local runs.
type MemoryRepository struct {
	mu       sync.Mutex
	profiles map[string]Profile
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{profiles: make(map[string]Profile)}
}

func (r *MemoryRepository) UpsertBySub(ctx context.Context, p *Profile) (*Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now().UTC()
	cur, ok := r.profiles[p.Sub]
	if !ok {
		cur = Profile{ID: uuid.NewString(), Sub: p.Sub, CreatedAt: now}
	}
	cur.Email = p.Email
	cur.Name = p.Name
	cur.UpdatedAt = now
	r.profiles[p.Sub] = cur
	out := cur
	return &out, nil
}

func (r *MemoryRepository) GetBySub(ctx context.Context, sub string) (*Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.profiles[sub]
	if !ok {
		return nil, nil
	}
	return &p, nil
}
