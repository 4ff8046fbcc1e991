package postgres

import (
	"context"

	"github.com/geocoder89/userhub/internal/repo"
	"github.com/jackc/pgx/v5/pgxpool"
)

func Backend(pool *pgxpool.Pool) repo.Backend {
	return repo.Backend{
		Name:   "postgres",
		Users:  NewUsersRepo(pool),
		Events: NewEventsRepo(pool),
		Ping:   pool.Ping,
		Close: func(context.Context) error {
			pool.Close()
			return nil
		},
	}
}
