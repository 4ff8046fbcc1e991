package memory

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/geocoder89/userhub/internal/domain/event"
	"github.com/geocoder89/userhub/internal/domain/user"
	"github.com/geocoder89/userhub/internal/repo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	_ repo.Users  = (*UsersRepo)(nil)
	_ repo.Events = (*EventsRepo)(nil)
)

func TestUsersCreateAndLookup(t *testing.T) {
	ctx := context.Background()
	users := NewStore().Users()

	created, err := users.Create(ctx, user.NewUser{Name: "Ada", Email: "ada@example.com", PasswordHash: "h", Role: user.RoleSimple})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.False(t, created.CreatedAt.IsZero())

	byEmail, err := users.GetByEmail(ctx, "ada@example.com")
	require.NoError(t, err)
	assert.Equal(t, created, byEmail)

	byID, err := users.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, byID)

	_, err = users.GetByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, user.ErrNotFound)

	_, err = users.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, user.ErrNotFound)
}

func TestUsersCreateRejectsDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	users := NewStore().Users()

	_, err := users.Create(ctx, user.NewUser{Name: "A", Email: "dup@example.com", PasswordHash: "h", Role: user.RoleSimple})
	require.NoError(t, err)

	_, err = users.Create(ctx, user.NewUser{Name: "B", Email: "dup@example.com", PasswordHash: "h", Role: user.RoleSimple})
	assert.ErrorIs(t, err, user.ErrEmailTaken)
}

func TestUsersCreateConcurrentSameEmailPersistsOne(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	users := s.Users()

	var wg sync.WaitGroup
	errs := make(chan error, 10)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := users.Create(ctx, user.NewUser{Name: "X", Email: "race@example.com", PasswordHash: "h", Role: user.RoleSimple})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	ok := 0
	for err := range errs {
		if err == nil {
			ok++
		} else {
			assert.ErrorIs(t, err, user.ErrEmailTaken)
		}
	}
	assert.Equal(t, 1, ok)
	assert.Len(t, s.users, 1)
}

func TestListWithEventsFiltersRolesAndEmbedsEvents(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	users, events := s.Users(), s.Events()

	simple, err := users.Create(ctx, user.NewUser{Name: "S", Email: "s@example.com", PasswordHash: "h", Role: user.RoleSimple})
	require.NoError(t, err)
	admin, err := users.Create(ctx, user.NewUser{Name: "A", Email: "a@example.com", PasswordHash: "h", Role: user.RoleAdmin})
	require.NoError(t, err)
	_, err = users.Create(ctx, user.NewUser{Name: "G", Email: "g@example.com", PasswordHash: "h", Role: user.Role("guest")})
	require.NoError(t, err)

	start := time.Date(2030, 1, 2, 10, 0, 0, 0, time.UTC)
	_, err = events.Create(ctx, simple.ID, event.CreateEventRequest{Title: "Second", StartAt: start.Add(time.Hour)})
	require.NoError(t, err)
	_, err = events.Create(ctx, simple.ID, event.CreateEventRequest{Title: "First", StartAt: start})
	require.NoError(t, err)

	listed, err := users.ListWithEvents(ctx, user.ListedRoles)
	require.NoError(t, err)
	require.Len(t, listed, 2)

	byID := map[string]user.Listed{}
	for _, l := range listed {
		byID[l.ID] = l
	}

	require.Contains(t, byID, simple.ID)
	require.Contains(t, byID, admin.ID)

	got := byID[simple.ID].Events
	require.Len(t, got, 2)
	assert.Equal(t, "First", got[0].Title)
	assert.Equal(t, simple.ID, got[0].User)

	assert.NotNil(t, byID[admin.ID].Events)
	assert.Empty(t, byID[admin.ID].Events)

	raw, err := json.Marshal(listed)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "password")
	assert.NotContains(t, string(raw), "createdAt")
	assert.NotContains(t, string(raw), "updatedAt")
}

func TestListWithEventsEmptyIsNotNil(t *testing.T) {
	listed, err := NewStore().Users().ListWithEvents(context.Background(), user.ListedRoles)
	require.NoError(t, err)
	assert.NotNil(t, listed)
	assert.Empty(t, listed)
}

func TestEventsCreateRequiresExistingUser(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	_, err := s.Events().Create(ctx, "missing", event.CreateEventRequest{Title: "Orphan", StartAt: time.Now()})
	assert.ErrorIs(t, err, user.ErrNotFound)
	assert.Empty(t, s.events)
}
