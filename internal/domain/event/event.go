package event

import (
	"errors"
	"time"
)

// Event belongs to a user through the User field.
type Event struct {
	ID          string    `json:"id"`
	User        string    `json:"user"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	City        string    `json:"city,omitempty"`
	StartAt     time.Time `json:"startAt"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Listed is an event as embedded in the user listing, without audit fields.
type Listed struct {
	ID          string    `json:"id"`
	User        string    `json:"user"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	City        string    `json:"city,omitempty"`
	StartAt     time.Time `json:"startAt"`
}

var ErrNotFound = errors.New("event not found")

type CreateEventRequest struct {
	Title       string    `json:"title" binding:"required,min=3,max=120"`
	Description string    `json:"description" binding:"omitempty,max=1000"`
	City        string    `json:"city" binding:"omitempty,min=2,max=80"`
	StartAt     time.Time `json:"startAt" binding:"required"`
}

func (e Event) Listed() Listed {
	return Listed{
		ID:          e.ID,
		User:        e.User,
		Title:       e.Title,
		Description: e.Description,
		City:        e.City,
		StartAt:     e.StartAt,
	}
}
