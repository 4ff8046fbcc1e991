package mongostore

import (
	"context"
	"time"

	"github.com/geocoder89/userhub/internal/domain/event"
	"github.com/geocoder89/userhub/internal/domain/user"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

type eventDoc struct {
	ID          bson.ObjectID `bson:"_id"`
	User        bson.ObjectID `bson:"user"`
	Title       string        `bson:"title"`
	Description string        `bson:"description,omitempty"`
	City        string        `bson:"city,omitempty"`
	StartAt     time.Time     `bson:"startAt"`
	CreatedAt   time.Time     `bson:"createdAt"`
	UpdatedAt   time.Time     `bson:"updatedAt"`
	Version     int           `bson:"__v"`
}

func (d eventDoc) toDomain() event.Event {
	return event.Event{
		ID:          d.ID.Hex(),
		User:        d.User.Hex(),
		Title:       d.Title,
		Description: d.Description,
		City:        d.City,
		StartAt:     d.StartAt.UTC(),
		CreatedAt:   d.CreatedAt.UTC(),
		UpdatedAt:   d.UpdatedAt.UTC(),
	}
}

type EventsRepo struct {
	s *Store
}

func (r *EventsRepo) Create(ctx context.Context, userID string, req event.CreateEventRequest) (event.Event, error) {
	owner, err := bson.ObjectIDFromHex(userID)
	if err != nil {
		return event.Event{}, user.ErrNotFound
	}

	// no foreign keys here, so check the owner exists
	n, err := r.s.col(ColUsers).CountDocuments(ctx, bson.D{{Key: "_id", Value: owner}}, options.Count().SetLimit(1))
	if err != nil {
		return event.Event{}, err
	}
	if n == 0 {
		return event.Event{}, user.ErrNotFound
	}

	now := time.Now().UTC().Truncate(time.Millisecond)
	doc := eventDoc{
		ID:          bson.NewObjectID(),
		User:        owner,
		Title:       req.Title,
		Description: req.Description,
		City:        req.City,
		StartAt:     req.StartAt.UTC().Truncate(time.Millisecond),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if _, err := r.s.col(ColEvents).InsertOne(ctx, doc); err != nil {
		return event.Event{}, err
	}
	return doc.toDomain(), nil
}

func (r *EventsRepo) ListByUser(ctx context.Context, userID string) ([]event.Event, error) {
	owner, err := bson.ObjectIDFromHex(userID)
	if err != nil {
		return []event.Event{}, nil
	}

	opts := options.Find().SetSort(bson.D{{Key: "startAt", Value: 1}, {Key: "_id", Value: 1}})
	cursor, err := r.s.col(ColEvents).Find(ctx, bson.D{{Key: "user", Value: owner}}, opts)
	if err != nil {
		return nil, err
	}

	var docs []eventDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	out := make([]event.Event, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toDomain())
	}
	return out, nil
}
