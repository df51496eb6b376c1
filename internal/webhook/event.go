package webhook

import (
	"encoding/json"
	"fmt"

	"github.com/leozw/clerk-user-sync/internal/core"
)

const (
	TypeUserCreated = "user.created"
	TypeUserUpdated = "user.updated"
	TypeUserDeleted = "user.deleted"
)

// Envelope is the outer shape shared by every Clerk webhook payload.
type Envelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// Event is one of UserCreated, UserUpdated, UserDeleted or Unhandled.
type Event interface {
	EventType() string
	event()
}

type UserCreated struct {
	User core.UserEvent
}

type UserUpdated struct {
	ClerkID string
	Update  core.UserUpdate
}

type UserDeleted struct {
	ClerkID string
}

// Unhandled is any event type this service does not act on.
type Unhandled struct {
	Type string
}

func (UserCreated) EventType() string { return TypeUserCreated }
func (UserUpdated) EventType() string { return TypeUserUpdated }
func (UserDeleted) EventType() string { return TypeUserDeleted }
func (u Unhandled) EventType() string { return u.Type }

func (UserCreated) event() {}
func (UserUpdated) event() {}
func (UserDeleted) event() {}
func (Unhandled) event()   {}

// MissingIDError is returned when a recognized event carries no user id.
type MissingIDError struct {
	EventType string
}

func (e *MissingIDError) Error() string {
	return fmt.Sprintf("User ID is missing from the %s event data", e.EventType)
}

type emailAddress struct {
	EmailAddress string `json:"email_address"`
}

// userData mirrors the subset of Clerk's user object the service reads.
// JSON nulls leave the string fields empty.
type userData struct {
	ID             string         `json:"id"`
	EmailAddresses []emailAddress `json:"email_addresses"`
	Username       string         `json:"username"`
	FirstName      string         `json:"first_name"`
	LastName       string         `json:"last_name"`
	ImageURL       string         `json:"image_url"`
}

// Decode parses a verified payload into a fully defaulted Event.
func Decode(body []byte) (Event, error) {
	var env Envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("failed to decode webhook payload: %w", err)
	}

	switch env.Type {
	case TypeUserCreated, TypeUserUpdated, TypeUserDeleted:
	default:
		return Unhandled{Type: env.Type}, nil
	}

	var data userData
	if len(env.Data) > 0 && string(env.Data) != "null" {
		if err := json.Unmarshal(env.Data, &data); err != nil {
			return nil, fmt.Errorf("failed to decode %s data: %w", env.Type, err)
		}
	}
	if data.ID == "" {
		return nil, &MissingIDError{EventType: env.Type}
	}

	switch env.Type {
	case TypeUserCreated:
		return UserCreated{User: data.userEvent()}, nil
	case TypeUserUpdated:
		return UserUpdated{ClerkID: data.ID, Update: data.userUpdate()}, nil
	default:
		return UserDeleted{ClerkID: data.ID}, nil
	}
}

func (d userData) userEvent() core.UserEvent {
	email := ""
	if len(d.EmailAddresses) > 0 {
		email = d.EmailAddresses[0].EmailAddress
	}
	return core.UserEvent{
		ClerkID:   d.ID,
		Email:     email,
		Username:  d.Username,
		FirstName: d.FirstName,
		LastName:  d.LastName,
		Photo:     d.ImageURL,
	}
}

func (d userData) userUpdate() core.UserUpdate {
	return core.UserUpdate{
		Username:  d.Username,
		FirstName: d.FirstName,
		LastName:  d.LastName,
		Photo:     d.ImageURL,
	}
}
