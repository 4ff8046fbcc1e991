// Package repo defines the storage contracts shared by the memory, mongo and
// postgres backends.
package repo

import (
	"context"

	"github.com/geocoder89/userhub/internal/domain/event"
	"github.com/geocoder89/userhub/internal/domain/user"
)

type Users interface {
	// Create returns user.ErrEmailTaken when the email is already stored.
	Create(ctx context.Context, nu user.NewUser) (user.User, error)
	// GetByEmail and GetByID return user.ErrNotFound on a miss.
	GetByEmail(ctx context.Context, email string) (user.User, error)
	GetByID(ctx context.Context, id string) (user.User, error)
	// ListWithEvents returns users whose role is in roles, each with the
	// events referencing it. Never returns a nil slice.
	ListWithEvents(ctx context.Context, roles []user.Role) ([]user.Listed, error)
}

type Events interface {
	Create(ctx context.Context, userID string, req event.CreateEventRequest) (event.Event, error)
	ListByUser(ctx context.Context, userID string) ([]event.Event, error)
}

// Backend is one opened store.
type Backend struct {
	Name   string
	Users  Users
	Events Events
	Ping   func(ctx context.Context) error
	Close  func(ctx context.Context) error
}
