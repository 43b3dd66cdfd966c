package domain

import "errors"

// Sentinel errors shared by services and mapped to HTTP status codes by the controllers.
var (
	// ErrUnauthenticated is returned when no identity is present for an operation that needs one.
	ErrUnauthenticated = errors.New("authentication required")
	// ErrInvalidCredentials is returned by login for an unknown email or a wrong password.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrForbidden is returned when the actor has the wrong role or does not own the resource.
	ErrForbidden = errors.New("forbidden")
	// ErrInvalidInput is returned when the request is missing fields or carries malformed values.
	ErrInvalidInput = errors.New("invalid input")
	// ErrNotFound is returned when a referenced event, registration or user does not exist.
	ErrNotFound = errors.New("not found")
	// ErrPersistence wraps failures of the underlying store.
	ErrPersistence = errors.New("persistence failure")
	// ErrUpstream wraps failures of the generative-AI service.
	ErrUpstream = errors.New("upstream service failure")
	// ErrUpstreamUnavailable is returned when the AI service has no credential configured.
	ErrUpstreamUnavailable = errors.New("AI service not configured properly")

	// ErrRegistrationClosed is returned when registering after the registration cutoff.
	ErrRegistrationClosed = errors.New("registration is closed for this event")
	// ErrEventNotConcluded is returned when exporting attendees before the event has ended.
	ErrEventNotConcluded = errors.New("event has not concluded yet")
	// ErrNoAttendees is returned when exporting an event nobody checked in to.
	ErrNoAttendees = errors.New("no attendees checked in for this event")
)

// ValidationError is an ErrInvalidInput whose message is shown to the client verbatim.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// Is makes errors.Is(err, ErrInvalidInput) hold for every ValidationError.
func (e *ValidationError) Is(target error) bool { return target == ErrInvalidInput }
