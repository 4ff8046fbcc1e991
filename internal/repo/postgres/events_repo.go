package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/geocoder89/userhub/internal/domain/event"
	"github.com/geocoder89/userhub/internal/domain/user"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type EventsRepo struct {
	pool *pgxpool.Pool
}

// constructor function

func NewEventsRepo(pool *pgxpool.Pool) *EventsRepo {
	return &EventsRepo{
		pool: pool,
	}
}

func (r *EventsRepo) Create(ctx context.Context, userID string, req event.CreateEventRequest) (event.Event, error) {
	now := time.Now().UTC().Truncate(time.Microsecond)

	e := event.Event{
		ID:          uuid.NewString(),
		User:        userID,
		Title:       req.Title,
		Description: req.Description,
		City:        req.City,
		StartAt:     req.StartAt.UTC().Truncate(time.Microsecond),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	_, err := r.pool.Exec(ctx,
		`INSERT INTO events (id, user_id, title, description, city, start_at, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
		e.ID, e.User, e.Title, e.Description, e.City, e.StartAt, e.CreatedAt, e.UpdatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		// foreign key: owner vanished between auth and insert
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return event.Event{}, user.ErrNotFound
		}
		return event.Event{}, err
	}

	return e, nil
}

func (r *EventsRepo) ListByUser(ctx context.Context, userID string) ([]event.Event, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, user_id, title, description, city, start_at, created_at, updated_at
		FROM events
		WHERE user_id = $1
		ORDER BY start_at, id`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]event.Event, 0)
	for rows.Next() {
		var e event.Event
		if err := rows.Scan(&e.ID, &e.User, &e.Title, &e.Description, &e.City, &e.StartAt, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, err
		}
		e.StartAt = e.StartAt.UTC()
		e.CreatedAt = e.CreatedAt.UTC()
		e.UpdatedAt = e.UpdatedAt.UTC()
		items = append(items, e)
	}

	return items, rows.Err()
}
