package core

import (
	"time"

	"github.com/google/uuid"
)

// UserEvent is a Clerk user as seen by one webhook delivery. Every field
// except ClerkID is defaulted to "" by the decoder.
type UserEvent struct {
	ClerkID   string `json:"clerkId"`
	Email     string `json:"email"`
	Username  string `json:"username"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Photo     string `json:"photo"`
}

// UserUpdate carries the mutable profile fields of a user.updated event.
// Email is not part of it.
type UserUpdate struct {
	Username  string `json:"username" db:"username"`
	FirstName string `json:"firstName" db:"first_name"`
	LastName  string `json:"lastName" db:"last_name"`
	Photo     string `json:"photo" db:"photo"`
}

type User struct {
	ID        uuid.UUID `json:"id" db:"id"`
	ClerkID   string    `json:"clerkId" db:"clerk_id"`
	Email     string    `json:"email" db:"email"`
	Username  string    `json:"username" db:"username"`
	FirstName string    `json:"firstName" db:"first_name"`
	LastName  string    `json:"lastName" db:"last_name"`
	Photo     string    `json:"photo" db:"photo"`

	// Metadata
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

func NewUser(evt UserEvent) *User {
	now := time.Now().UTC()
	return &User{
		ID:        uuid.New(),
		ClerkID:   evt.ClerkID,
		Email:     evt.Email,
		Username:  evt.Username,
		FirstName: evt.FirstName,
		LastName:  evt.LastName,
		Photo:     evt.Photo,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
