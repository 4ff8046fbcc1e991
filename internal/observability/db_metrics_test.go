package observability

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/geocoder89/userhub/internal/domain/user"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestClassifyDBErr(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"email taken", fmt.Errorf("create: %w", user.ErrEmailTaken), "duplicate_key"},
		{"pg unique", &pgconn.PgError{Code: "23505"}, "unique_violation"},
		{"pg other", &pgconn.PgError{Code: "42P01"}, "pg_42P01"},
		{"deadline", context.DeadlineExceeded, "timeout"},
		{"connection", errors.New("connection refused"), "connection"},
		{"other", errors.New("weird"), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := classifyDBErr(tt.err); got != tt.want {
				t.Fatalf("classifyDBErr(%v) = %q, want %q", tt.err, got, tt.want)
			}
		})
	}
}

func TestObserveDBCountsErrorsButNotMisses(t *testing.T) {
	p := NewProm(prometheus.NewRegistry())

	_ = p.ObserveDB("users.get_by_email", func() error { return user.ErrNotFound })
	_ = p.ObserveDB("users.create", func() error { return user.ErrEmailTaken })

	if got := testutil.ToFloat64(p.DbErrorsTotal.WithLabelValues("users.create", "duplicate_key")); got != 1 {
		t.Fatalf("duplicate_key errors: got %v want 1", got)
	}

	if got := testutil.CollectAndCount(p.DbErrorsTotal); got != 1 {
		t.Fatalf("error series: got %d want 1", got)
	}
}
