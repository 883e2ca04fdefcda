package repository

import (
	"context"
	"errors"
	"time"

	"github.com/croudly/experience-api/internal/domain"
	"github.com/croudly/experience-api/internal/persistence/db"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const mutateRetries = 5

// RoomRepository is the MongoDB-backed room store. Every write is a
// version-checked whole-document replace.
type RoomRepository struct {
	db *mongo.Database
}

var _ domain.RoomRepository = (*RoomRepository)(nil)

func NewRoomRepository(database *mongo.Database) *RoomRepository {
	return &RoomRepository{
		db: database,
	}
}

func (r *RoomRepository) collection() *mongo.Collection {
	return r.db.Collection(db.RoomsCollection)
}

func (r *RoomRepository) Create(ctx context.Context, room *domain.Room) error {
	if room == nil || room.ID == "" {
		return domain.ErrInvalidInput
	}

	_, err := r.collection().InsertOne(ctx, room)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrRoomAlreadyExists
		}
		return err
	}

	return nil
}

func (r *RoomRepository) GetByID(ctx context.Context, id string) (*domain.Room, error) {
	if id == "" {
		return nil, domain.ErrInvalidInput
	}

	var room domain.Room
	err := r.collection().FindOne(ctx, bson.M{"_id": id}).Decode(&room)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrRoomNotFound
		}
		return nil, err
	}

	return &room, nil
}

// GetByInviteToken finds the room holding a live invite for the token. Used
// and expired invites do not match, so a stale token reads as not found.
func (r *RoomRepository) GetByInviteToken(ctx context.Context, token string) (*domain.Room, error) {
	if token == "" {
		return nil, domain.ErrInvalidInput
	}

	filter := bson.M{
		"invites": bson.M{
			"$elemMatch": bson.M{
				"token":      token,
				"used":       false,
				"expires_at": bson.M{"$gt": time.Now()},
			},
		},
	}

	var room domain.Room
	err := r.collection().FindOne(ctx, filter).Decode(&room)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrInviteNotFound
		}
		return nil, err
	}

	return &room, nil
}

func (r *RoomRepository) List(ctx context.Context, offset, limit int64) ([]domain.Room, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(offset)
	if limit > 0 {
		opts = opts.SetLimit(limit)
	}

	cursor, err := r.collection().Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var rooms []domain.Room
	if err := cursor.All(ctx, &rooms); err != nil {
		return nil, err
	}

	return rooms, nil
}

// Update replaces the whole document, matching on the version the caller
// loaded. A missed match means either a concurrent writer bumped the version
// or the room is gone; the two cases are told apart with a follow-up count.
func (r *RoomRepository) Update(ctx context.Context, room *domain.Room) error {
	if room == nil || room.ID == "" {
		return domain.ErrInvalidInput
	}

	loadedVersion := room.Version
	room.Version = loadedVersion + 1
	room.UpdatedAt = time.Now()

	filter := bson.M{
		"_id":     room.ID,
		"version": loadedVersion,
	}

	result, err := r.collection().ReplaceOne(ctx, filter, room)
	if err != nil {
		room.Version = loadedVersion
		return err
	}

	if result.MatchedCount == 0 {
		room.Version = loadedVersion

		count, err := r.collection().CountDocuments(ctx, bson.M{"_id": room.ID})
		if err != nil {
			return err
		}
		if count == 0 {
			return domain.ErrRoomNotFound
		}
		return domain.ErrConflict
	}

	return nil
}

func (r *RoomRepository) Delete(ctx context.Context, id string) error {
	if id == "" {
		return domain.ErrInvalidInput
	}

	result, err := r.collection().DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return domain.ErrRoomNotFound
	}

	return nil
}

// Mutate is the serialization point for concurrent writers: load, apply fn,
// version-checked replace, retry on conflict.
func (r *RoomRepository) Mutate(ctx context.Context, id string, fn func(*domain.Room) error) (*domain.Room, error) {
	var lastErr error
	for attempt := 0; attempt < mutateRetries; attempt++ {
		room, err := r.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}

		if err := fn(room); err != nil {
			return nil, err
		}

		if err := r.Update(ctx, room); err != nil {
			if errors.Is(err, domain.ErrConflict) {
				lastErr = err
				continue
			}
			return nil, err
		}

		return room, nil
	}

	return nil, lastErr
}

// EnsureIndexes creates the invite token lookup index and the listing sort
// index. Room expiry is advisory metadata, so expires_at carries no TTL.
func (r *RoomRepository) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "invites.token", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "created_at", Value: -1}},
		},
	}

	_, err := r.collection().Indexes().CreateMany(ctx, indexes)
	return err
}
