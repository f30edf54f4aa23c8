// Package model defines the core domain types for the event management API.
package model

import "time"

// Priority classifies how urgent an event is.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// ParsePriority validates a raw priority value.
func ParsePriority(s string) (Priority, error) {
	switch Priority(s) {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return Priority(s), nil
	}
	return "", ErrInvalidPriority
}

// User represents a registered account. The password hash is never serialized.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Event represents a single event owned by the user who created it.
type Event struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Date        time.Time `json:"date"`
	Location    string    `json:"location,omitempty"`
	Capacity    *int      `json:"capacity,omitempty"`
	BookedSeats int       `json:"bookedSeats"`
	Price       *float64  `json:"price,omitempty"`
	CreatedBy   string    `json:"createdBy"`
	Priority    Priority  `json:"priority"`
	IsCompleted bool      `json:"isCompleted"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// SignupRequest is the payload for POST /signup.
type SignupRequest struct {
	Name            string `json:"name" validate:"required"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required"`
	ConfirmPassword string `json:"confirmPassword" validate:"required"`
}

// LoginRequest is the payload for POST /login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// CreateEventRequest is the payload for POST /events. Every accepted field is
// named here; unknown fields are rejected at decode time.
type CreateEventRequest struct {
	Title       string     `json:"title" validate:"required"`
	Description string     `json:"description"`
	Date        *time.Time `json:"date" validate:"required"`
	Location    string     `json:"location"`
	Capacity    *int       `json:"capacity" validate:"omitempty,min=0"`
	Price       *float64   `json:"price" validate:"omitempty,min=0"`
}

// UpdatePriorityRequest is the payload for PUT /events/{id}/priority.
type UpdatePriorityRequest struct {
	Priority string `json:"priority" validate:"required"`
}

// MessageResponse is the success envelope for operations that return no record.
type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// TokenResponse is the success envelope for POST /login.
type TokenResponse struct {
	Success bool   `json:"success"`
	Token   string `json:"token"`
}

// EventResponse is the success envelope for operations that return an event.
type EventResponse struct {
	Success bool   `json:"success"`
	Event   *Event `json:"event"`
}

// ErrorResponse is the standard JSON error envelope.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
