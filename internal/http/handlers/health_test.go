package handlers_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/geocoder89/userhub/internal/http/handlers"
)

func TestReadyz(t *testing.T) {
	tests := []struct {
		name       string
		ping       func(ctx context.Context) error
		wantStatus int
	}{
		{"no ping configured", nil, http.StatusOK},
		{"store answers", func(context.Context) error { return nil }, http.StatusOK},
		{"store down", func(context.Context) error { return errors.New("down") }, http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := handlers.NewHealthHandler(tt.ping)
			r := newTestRouter()
			r.GET("/readyz", h.Readyz)
			r.GET("/healthz", h.Healthz)

			if w := doJSON(t, r, http.MethodGet, "/readyz", ""); w.Code != tt.wantStatus {
				t.Fatalf("readyz got %d, want %d", w.Code, tt.wantStatus)
			}
			if w := doJSON(t, r, http.MethodGet, "/healthz", ""); w.Code != http.StatusOK {
				t.Fatalf("healthz got %d, want 200", w.Code)
			}
		})
	}
}
