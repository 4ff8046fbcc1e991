package memory

import (
	"context"
	"time"

	"github.com/geocoder89/userhub/internal/domain/event"
	"github.com/geocoder89/userhub/internal/domain/user"
	"github.com/google/uuid"
)

type EventsRepo struct {
	s *Store
}

func (r *EventsRepo) Create(ctx context.Context, userID string, req event.CreateEventRequest) (event.Event, error) {
	if err := ctx.Err(); err != nil {
		return event.Event{}, err
	}

	now := time.Now().UTC()
	e := event.Event{
		ID:          uuid.NewString(),
		User:        userID,
		Title:       req.Title,
		Description: req.Description,
		City:        req.City,
		StartAt:     req.StartAt.UTC(),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	// events must belong to a stored user, as the postgres foreign key enforces
	if _, ok := r.s.users[userID]; !ok {
		return event.Event{}, user.ErrNotFound
	}
	r.s.events[e.ID] = e

	return e, nil
}

func (r *EventsRepo) ListByUser(ctx context.Context, userID string) ([]event.Event, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	return r.s.sortedEventsOf(userID), nil
}
