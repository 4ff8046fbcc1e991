package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/geocoder89/userhub/internal/apperr"
	"github.com/geocoder89/userhub/internal/config"
	"github.com/geocoder89/userhub/internal/domain/event"
	"github.com/geocoder89/userhub/internal/domain/user"
	"github.com/geocoder89/userhub/internal/http/middlewares"
	"github.com/gin-gonic/gin"
)

type EventStore interface {
	Create(ctx context.Context, userID string, req event.CreateEventRequest) (event.Event, error)
	ListByUser(ctx context.Context, userID string) ([]event.Event, error)
}

type EventsHandler struct {
	repo EventStore
}

func NewEventsHandler(repo EventStore) *EventsHandler {
	return &EventsHandler{repo: repo}
}

// CreateEvent adds an event owned by the caller.
func (h *EventsHandler) CreateEvent(ctx *gin.Context) {
	userID, ok := middlewares.UserIDFromContext(ctx)
	if !ok {
		fail(ctx, apperr.Unauthorized("unauthorized", "Not authorized"))
		return
	}

	var req event.CreateEventRequest

	if !Bind(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(ctx.Request.Context(), 3*time.Second)
	defer cancel()

	e, err := h.repo.Create(cctx, userID, req)

	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			fail(ctx, apperr.Unauthorized("unauthorized", "Not authorized, user not found"))
			return
		}
		failInternal(ctx, "Could not create event", err)
		return
	}

	ctx.JSON(http.StatusCreated, e)
}

// ListMyEvents lists the caller's events by start time.
func (h *EventsHandler) ListMyEvents(ctx *gin.Context) {
	userID, ok := middlewares.UserIDFromContext(ctx)
	if !ok {
		fail(ctx, apperr.Unauthorized("unauthorized", "Not authorized"))
		return
	}

	cctx, cancel := config.WithTimeout(ctx.Request.Context(), 3*time.Second)
	defer cancel()

	events, err := h.repo.ListByUser(cctx, userID)

	if err != nil {
		failInternal(ctx, "Could not list events", err)
		return
	}

	if events == nil {
		events = []event.Event{}
	}

	ctx.JSON(http.StatusOK, gin.H{
		"items": events,
		"count": len(events),
	})
}
