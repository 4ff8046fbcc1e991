package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/geocoder89/userhub/internal/domain/event"
	"github.com/geocoder89/userhub/internal/domain/user"
	"github.com/geocoder89/userhub/internal/repo"
)

// Store keeps users and events in process memory. Users and events share
// one lock so the listing join sees a consistent snapshot.
type Store struct {
	mu      sync.RWMutex
	users   map[string]user.User // {"id": user}
	byEmail map[string]string    // {"email": "id"}
	events  map[string]event.Event
}

func NewStore() *Store {
	return &Store{
		users:   make(map[string]user.User),
		byEmail: make(map[string]string),
		events:  make(map[string]event.Event),
	}
}

func (s *Store) Users() *UsersRepo {
	return &UsersRepo{s: s}
}

func (s *Store) Events() *EventsRepo {
	return &EventsRepo{s: s}
}

func (s *Store) Backend() repo.Backend {
	return repo.Backend{
		Name:   "memory",
		Users:  s.Users(),
		Events: s.Events(),
		Ping:   func(context.Context) error { return nil },
		Close:  func(context.Context) error { return nil },
	}
}

// sortedUsers returns users in creation order.
func (s *Store) sortedUsers() []user.User {
	out := make([]user.User, 0, len(s.users))
	for _, u := range s.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

func (s *Store) sortedEventsOf(userID string) []event.Event {
	out := make([]event.Event, 0)
	for _, e := range s.events {
		if e.User == userID {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].StartAt.Equal(out[j].StartAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].StartAt.Before(out[j].StartAt)
	})
	return out
}
