package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/geocoder89/userhub/internal/domain/event"
	"github.com/geocoder89/userhub/internal/domain/user"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type UsersRepo struct {
	pool *pgxpool.Pool
}

func NewUsersRepo(pool *pgxpool.Pool) *UsersRepo {
	return &UsersRepo{pool: pool}
}

func (r *UsersRepo) Create(ctx context.Context, nu user.NewUser) (user.User, error) {
	// postgres keeps microseconds
	now := time.Now().UTC().Truncate(time.Microsecond)

	u := user.User{
		ID:           uuid.NewString(),
		Name:         nu.Name,
		Email:        nu.Email,
		PasswordHash: nu.PasswordHash,
		Role:         nu.Role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	_, err := r.pool.Exec(ctx,
		`INSERT INTO users (id, name, email, password_hash, role, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		u.ID, u.Name, u.Email, u.PasswordHash, string(u.Role), u.CreatedAt, u.UpdatedAt,
	)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return user.User{}, user.ErrEmailTaken
		}
		return user.User{}, err
	}

	return u, nil
}

func (r *UsersRepo) GetByEmail(ctx context.Context, email string) (user.User, error) {
	return r.getOne(ctx, `WHERE email = $1`, email)
}

func (r *UsersRepo) GetByID(ctx context.Context, id string) (user.User, error) {
	return r.getOne(ctx, `WHERE id = $1`, id)
}

func (r *UsersRepo) getOne(ctx context.Context, where string, arg any) (user.User, error) {
	var u user.User
	var role string

	err := r.pool.QueryRow(
		ctx,
		`SELECT id, name, email, password_hash, role, created_at, updated_at
         FROM users `+where,
		arg,
	).Scan(
		&u.ID,
		&u.Name,
		&u.Email,
		&u.PasswordHash,
		&role,
		&u.CreatedAt,
		&u.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.User{}, user.ErrNotFound
		}

		return user.User{}, err
	}

	u.Role = user.Role(role)
	u.CreatedAt = u.CreatedAt.UTC()
	u.UpdatedAt = u.UpdatedAt.UTC()
	return u, nil
}

func (r *UsersRepo) ListWithEvents(ctx context.Context, roles []user.Role) ([]user.Listed, error) {
	roleValues := make([]string, 0, len(roles))
	for _, role := range roles {
		roleValues = append(roleValues, string(role))
	}

	rows, err := r.pool.Query(ctx,
		`SELECT u.id, u.name, u.email, u.role,
			COALESCE(
				json_agg(
					json_build_object(
						'id', e.id,
						'user', e.user_id,
						'title', e.title,
						'description', e.description,
						'city', e.city,
						'startAt', e.start_at
					) ORDER BY e.start_at, e.id
				) FILTER (WHERE e.id IS NOT NULL),
				'[]'::json
			) AS events
		FROM users u
		LEFT JOIN events e ON e.user_id = u.id
		WHERE u.role = ANY($1)
		GROUP BY u.id
		ORDER BY u.created_at, u.id`,
		roleValues,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]user.Listed, 0)
	for rows.Next() {
		var (
			l         user.Listed
			role      string
			rawEvents []byte
		)

		if err := rows.Scan(&l.ID, &l.Name, &l.Email, &role, &rawEvents); err != nil {
			return nil, err
		}

		l.Role = user.Role(role)
		l.Events = make([]event.Listed, 0)
		if err := json.Unmarshal(rawEvents, &l.Events); err != nil {
			return nil, err
		}
		for i := range l.Events {
			l.Events[i].StartAt = l.Events[i].StartAt.UTC()
		}

		out = append(out, l)
	}

	return out, rows.Err()
}
