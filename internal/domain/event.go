package domain

import (
	"context"
	"time"
)

// Organizer identifies the user that owns an event. Contact is the organizer's
// email and never changes after creation.
type Organizer struct {
	Name    string `json:"name"`
	Contact string `json:"contact"`
}

// Banner is an optional generated banner attached to an event.
type Banner struct {
	URL         string    `json:"url"`
	GeneratedAt time.Time `json:"generatedAt"`
	Prompt      string    `json:"prompt"`
}

// Event represents a campus event. Date is YYYY-MM-DD, Time and EndTime are HH:MM wall clock.
// swagger:model Event
type Event struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Date        string    `json:"date"`
	Time        string    `json:"time"`
	EndTime     string    `json:"endTime,omitempty"`
	Location    string    `json:"location"`
	Category    string    `json:"category"`
	Organizer   Organizer `json:"organizer"`
	Banner      *Banner   `json:"banner,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// OwnedBy reports whether the actor is the organizer that owns the event.
func (e *Event) OwnedBy(a *Actor) bool {
	return a.IsOrganizer() && a.Email == e.Organizer.Contact
}

// EventInput holds the organizer-supplied fields for a new event.
type EventInput struct {
	Title       string
	Description string
	Date        string
	Time        string
	EndTime     string
	Location    string
	Category    string
	Banner      *Banner
}

// EventUpdate is a partial update. Nil fields are unchanged; ClearBanner removes the banner.
type EventUpdate struct {
	Title       *string
	Description *string
	Date        *string
	Time        *string
	EndTime     *string
	Location    *string
	Category    *string
	Banner      *Banner
	ClearBanner bool
}

// Empty reports whether the update changes nothing.
func (u EventUpdate) Empty() bool {
	return u.Title == nil && u.Description == nil && u.Date == nil && u.Time == nil &&
		u.EndTime == nil && u.Location == nil && u.Category == nil && u.Banner == nil && !u.ClearBanner
}

// EventView selects a derived listing of events.
type EventView string

const (
	EventViewAll      EventView = ""
	EventViewUpcoming EventView = "upcoming"
	EventViewPast     EventView = "past"
)

// LookupState distinguishes an event that is still being fetched from one that does not exist.
type LookupState int

const (
	LookupLoading LookupState = iota
	LookupFound
	LookupNotFound
)

func (s LookupState) String() string {
	switch s {
	case LookupFound:
		return "found"
	case LookupNotFound:
		return "not_found"
	default:
		return "loading"
	}
}

// EventLookup is the three-valued result of looking an event up. The zero value is loading.
type EventLookup struct {
	State LookupState
	Event *Event
}

// EventRepository defines the interface for event storage
type EventRepository interface {
	Create(ctx context.Context, event *Event) error
	GetByID(ctx context.Context, id string) (*Event, error)
	List(ctx context.Context) ([]*Event, error)
	ListByDateRange(ctx context.Context, from, to string) ([]*Event, error)
	Update(ctx context.Context, eventID string, upd EventUpdate) (*Event, error)
	Delete(ctx context.Context, id string) error
}

// EventService defines the business logic for managing events.
type EventService interface {
	ListEvents(ctx context.Context, view EventView) ([]*Event, error)
	ListEventsByMonth(ctx context.Context, year int, month time.Month) ([]*Event, error)
	CreateEvent(ctx context.Context, in EventInput, actor *Actor) (*Event, error)
	UpdateEvent(ctx context.Context, eventID string, upd EventUpdate, actor *Actor) (*Event, error)
	GetEventByID(ctx context.Context, eventID string) (*Event, error)
	Lookup(ctx context.Context, eventID string) (EventLookup, error)
	RegistrationCount(ctx context.Context, eventID string) (int, error)
}
