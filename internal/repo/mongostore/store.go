// Package mongostore implements the user and event stores on MongoDB.
//
// Documents keep the field names of the original collections (password,
// createdAt, updatedAt, __v) so existing data can be read as is.
package mongostore

import (
	"context"
	"errors"
	"fmt"

	"github.com/geocoder89/userhub/internal/repo"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

const (
	ColUsers  = "users"
	ColEvents = "events"
)

type Store struct {
	db *mongo.Database
}

func NewStore(db *mongo.Database) *Store {
	return &Store{db: db}
}

func (s *Store) col(name string) *mongo.Collection {
	return s.db.Collection(name)
}

func (s *Store) Users() *UsersRepo {
	return &UsersRepo{s: s}
}

func (s *Store) Events() *EventsRepo {
	return &EventsRepo{s: s}
}

// Backend exposes the store; Close disconnects the owning client.
func (s *Store) Backend() repo.Backend {
	client := s.db.Client()
	return repo.Backend{
		Name:   "mongo",
		Users:  s.Users(),
		Events: s.Events(),
		Ping: func(ctx context.Context) error {
			return client.Ping(ctx, nil)
		},
		Close: client.Disconnect,
	}
}

// EnsureIndexes creates the unique email index the registration flow
// depends on, and the index used by the events lookup.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	type idx struct {
		col    string
		keys   bson.D
		unique bool
	}

	indexes := []idx{
		{ColUsers, bson.D{{Key: "email", Value: 1}}, true},
		{ColUsers, bson.D{{Key: "role", Value: 1}}, false},
		{ColEvents, bson.D{{Key: "user", Value: 1}, {Key: "startAt", Value: 1}}, false},
	}

	for _, i := range indexes {
		model := mongo.IndexModel{Keys: i.keys}
		if i.unique {
			model.Options = options.Index().SetUnique(true)
		}
		if _, err := s.col(i.col).Indexes().CreateOne(ctx, model); err != nil {
			return fmt.Errorf("create index on %s: %w", i.col, err)
		}
	}

	return nil
}

// wrapError maps driver errors that callers branch on to domain errors.
func wrapError(err error, notFound error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, mongo.ErrNoDocuments) {
		return notFound
	}
	return err
}

func findOne[T any](ctx context.Context, col *mongo.Collection, filter bson.D, notFound error) (T, error) {
	var result T
	err := col.FindOne(ctx, filter).Decode(&result)
	if err != nil {
		return result, wrapError(err, notFound)
	}
	return result, nil
}
