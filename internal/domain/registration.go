package domain

import (
	"context"
	"time"
)

// Registration is a student's registration for an event. ID is always RegistrationID(UserID, EventID).
// swagger:model Registration
type Registration struct {
	ID               string     `json:"id"`
	UserID           string     `json:"userId"`
	EventID          string     `json:"eventId"`
	RegistrationDate time.Time  `json:"registrationDate"`
	CheckedIn        bool       `json:"checkedIn"`
	CheckedInAt      *time.Time `json:"checkedInAt,omitempty"`
}

// RegistrationID is the composite key that keeps one registration per user and event.
func RegistrationID(userID, eventID string) string {
	return userID + "-" + eventID
}

// NewRegistration returns an unchecked registration keyed by RegistrationID.
func NewRegistration(userID, eventID string, registeredAt time.Time) *Registration {
	return &Registration{
		ID:               RegistrationID(userID, eventID),
		UserID:           userID,
		EventID:          eventID,
		RegistrationDate: registeredAt,
	}
}

// RegistrationWithEvent bundles a registration with its related event.
type RegistrationWithEvent struct {
	Registration *Registration `json:"registration"`
	Event        *Event        `json:"event"`
}

// RegistrationRepository defines storage operations for registrations.
type RegistrationRepository interface {
	// Create inserts reg unless a registration with the same ID exists. created is false when nothing was written.
	Create(ctx context.Context, reg *Registration) (created bool, err error)
	GetByID(ctx context.Context, id string) (*Registration, error)
	ListByUserID(ctx context.Context, userID string) ([]*Registration, error)
	ListByEventID(ctx context.Context, eventID string) ([]*Registration, error)
	// List returns a page of all registrations and the total count.
	List(ctx context.Context, params PaginationParams) ([]*Registration, int, error)
	CountByEventID(ctx context.Context, eventID string) (int, error)
	// MarkCheckedIn flips checked_in to true. updated is false when it was already true.
	MarkCheckedIn(ctx context.Context, id string, at time.Time) (updated bool, err error)
	// DeleteByEventID removes every registration for the event and returns how many were removed.
	DeleteByEventID(ctx context.Context, eventID string) (int, error)
}

// RegistrationService defines the student-facing registration operations.
type RegistrationService interface {
	// Register registers actor for the event. created is false when the actor was already registered.
	Register(ctx context.Context, eventID string, actor *Actor) (reg *Registration, created bool, err error)
	IsRegistered(ctx context.Context, eventID string, actor *Actor) (bool, error)
	// ListVisible returns the registrations the actor may see: their own for students, all for organizers.
	ListVisible(ctx context.Context, actor *Actor, params PaginationParams) ([]*Registration, int, error)
	ListMine(ctx context.Context, actor *Actor) ([]*RegistrationWithEvent, error)
	Ticket(ctx context.Context, registrationID string, actor *Actor) (*TicketPayload, error)
}
