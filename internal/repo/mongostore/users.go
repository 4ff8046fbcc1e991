package mongostore

import (
	"context"
	"time"

	"github.com/geocoder89/userhub/internal/domain/event"
	"github.com/geocoder89/userhub/internal/domain/user"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

type userDoc struct {
	ID        bson.ObjectID `bson:"_id"`
	Name      string        `bson:"name"`
	Email     string        `bson:"email"`
	Password  string        `bson:"password"`
	Role      string        `bson:"role"`
	CreatedAt time.Time     `bson:"createdAt"`
	UpdatedAt time.Time     `bson:"updatedAt"`
	Version   int           `bson:"__v"`
}

func (d userDoc) toDomain() user.User {
	return user.User{
		ID:           d.ID.Hex(),
		Name:         d.Name,
		Email:        d.Email,
		PasswordHash: d.Password,
		Role:         user.Role(d.Role),
		CreatedAt:    d.CreatedAt.UTC(),
		UpdatedAt:    d.UpdatedAt.UTC(),
	}
}

// listedUserDoc is the output of the listing pipeline after $unset.
type listedUserDoc struct {
	ID     bson.ObjectID    `bson:"_id"`
	Name   string           `bson:"name"`
	Email  string           `bson:"email"`
	Role   string           `bson:"role"`
	Events []listedEventDoc `bson:"events"`
}

type listedEventDoc struct {
	ID          bson.ObjectID `bson:"_id"`
	User        bson.ObjectID `bson:"user"`
	Title       string        `bson:"title"`
	Description string        `bson:"description,omitempty"`
	City        string        `bson:"city,omitempty"`
	StartAt     time.Time     `bson:"startAt"`
}

type UsersRepo struct {
	s *Store
}

func (r *UsersRepo) Create(ctx context.Context, nu user.NewUser) (user.User, error) {
	// mongo stores millisecond precision; truncate so the returned value
	// matches what a later read sees.
	now := time.Now().UTC().Truncate(time.Millisecond)

	doc := userDoc{
		ID:        bson.NewObjectID(),
		Name:      nu.Name,
		Email:     nu.Email,
		Password:  nu.PasswordHash,
		Role:      string(nu.Role),
		CreatedAt: now,
		UpdatedAt: now,
	}

	_, err := r.s.col(ColUsers).InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return user.User{}, user.ErrEmailTaken
		}
		return user.User{}, err
	}

	return doc.toDomain(), nil
}

func (r *UsersRepo) GetByEmail(ctx context.Context, email string) (user.User, error) {
	doc, err := findOne[userDoc](ctx, r.s.col(ColUsers), bson.D{{Key: "email", Value: email}}, user.ErrNotFound)
	if err != nil {
		return user.User{}, err
	}
	return doc.toDomain(), nil
}

func (r *UsersRepo) GetByID(ctx context.Context, id string) (user.User, error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return user.User{}, user.ErrNotFound
	}

	doc, err := findOne[userDoc](ctx, r.s.col(ColUsers), bson.D{{Key: "_id", Value: oid}}, user.ErrNotFound)
	if err != nil {
		return user.User{}, err
	}
	return doc.toDomain(), nil
}

// ListWithEvents runs the listing as one aggregation: role filter, events
// lookup ordered by startAt, then strip secrets and audit fields at both
// levels.
func (r *UsersRepo) ListWithEvents(ctx context.Context, roles []user.Role) ([]user.Listed, error) {
	cursor, err := r.s.col(ColUsers).Aggregate(ctx, listPipeline(roles))
	if err != nil {
		return nil, err
	}

	var docs []listedUserDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	out := make([]user.Listed, 0, len(docs))
	for _, d := range docs {
		events := make([]event.Listed, 0, len(d.Events))
		for _, e := range d.Events {
			events = append(events, event.Listed{
				ID:          e.ID.Hex(),
				User:        e.User.Hex(),
				Title:       e.Title,
				Description: e.Description,
				City:        e.City,
				StartAt:     e.StartAt.UTC(),
			})
		}

		out = append(out, user.Listed{
			ID:     d.ID.Hex(),
			Name:   d.Name,
			Email:  d.Email,
			Role:   user.Role(d.Role),
			Events: events,
		})
	}
	return out, nil
}

func listPipeline(roles []user.Role) mongo.Pipeline {
	roleValues := make(bson.A, 0, len(roles))
	for _, role := range roles {
		roleValues = append(roleValues, string(role))
	}

	return mongo.Pipeline{
		{{Key: "$match", Value: bson.D{{Key: "role", Value: bson.D{{Key: "$in", Value: roleValues}}}}}},
		{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: ColEvents},
			{Key: "let", Value: bson.D{{Key: "uid", Value: "$_id"}}},
			{Key: "pipeline", Value: mongo.Pipeline{
				{{Key: "$match", Value: bson.D{{Key: "$expr", Value: bson.D{{Key: "$eq", Value: bson.A{"$user", "$$uid"}}}}}}},
				{{Key: "$sort", Value: bson.D{{Key: "startAt", Value: 1}, {Key: "_id", Value: 1}}}},
			}},
			{Key: "as", Value: "events"},
		}}},
		{{Key: "$unset", Value: bson.A{
			"password",
			"createdAt",
			"updatedAt",
			"__v",
			"events.createdAt",
			"events.updatedAt",
			"events.__v",
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "_id", Value: 1}}}},
	}
}
