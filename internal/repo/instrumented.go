package repo

import (
	"context"

	"github.com/geocoder89/userhub/internal/domain/event"
	"github.com/geocoder89/userhub/internal/domain/user"
)

// Observer times a logical store operation.
type Observer interface {
	ObserveDB(op string, fn func() error) error
}

// Instrument wraps the backend's stores so every call is reported to obs.
func Instrument(b Backend, obs Observer) Backend {
	if obs == nil {
		return b
	}
	b.Users = &instrumentedUsers{next: b.Users, obs: obs}
	b.Events = &instrumentedEvents{next: b.Events, obs: obs}
	return b
}

type instrumentedUsers struct {
	next Users
	obs  Observer
}

func (r *instrumentedUsers) Create(ctx context.Context, nu user.NewUser) (u user.User, err error) {
	err = r.obs.ObserveDB("users.create", func() error {
		u, err = r.next.Create(ctx, nu)
		return err
	})
	return u, err
}

func (r *instrumentedUsers) GetByEmail(ctx context.Context, email string) (u user.User, err error) {
	err = r.obs.ObserveDB("users.get_by_email", func() error {
		u, err = r.next.GetByEmail(ctx, email)
		return err
	})
	return u, err
}

func (r *instrumentedUsers) GetByID(ctx context.Context, id string) (u user.User, err error) {
	err = r.obs.ObserveDB("users.get_by_id", func() error {
		u, err = r.next.GetByID(ctx, id)
		return err
	})
	return u, err
}

func (r *instrumentedUsers) ListWithEvents(ctx context.Context, roles []user.Role) (out []user.Listed, err error) {
	err = r.obs.ObserveDB("users.list_with_events", func() error {
		out, err = r.next.ListWithEvents(ctx, roles)
		return err
	})
	return out, err
}

type instrumentedEvents struct {
	next Events
	obs  Observer
}

func (r *instrumentedEvents) Create(ctx context.Context, userID string, req event.CreateEventRequest) (e event.Event, err error) {
	err = r.obs.ObserveDB("events.create", func() error {
		e, err = r.next.Create(ctx, userID, req)
		return err
	})
	return e, err
}

func (r *instrumentedEvents) ListByUser(ctx context.Context, userID string) (out []event.Event, err error) {
	err = r.obs.ObserveDB("events.list_by_user", func() error {
		out, err = r.next.ListByUser(ctx, userID)
		return err
	})
	return out, err
}
