package domain

import (
	"context"
	"encoding/json"
	"fmt"
	"image"
)

// TicketPayload is the content of a ticket QR code.
type TicketPayload struct {
	UserID         string `json:"userId"`
	EventID        string `json:"eventId"`
	UserName       string `json:"userName"`
	EventName      string `json:"eventName"`
	RegistrationID string `json:"registrationId"`
}

// NewTicketPayload builds the ticket for user u attending event e.
func NewTicketPayload(u *User, e *Event) *TicketPayload {
	return &TicketPayload{
		UserID:         u.ID,
		EventID:        e.ID,
		UserName:       u.Name,
		EventName:      e.Title,
		RegistrationID: RegistrationID(u.ID, e.ID),
	}
}

// Encode returns the JSON text embedded in the QR code.
func (p *TicketPayload) Encode() (string, error) {
	b, err := json.Marshal(p)
	if err != nil {
		return "", fmt.Errorf("encode ticket: %w", err)
	}
	return string(b), nil
}

// DecodeTicketPayload parses scanned text. It fails with ErrInvalidInput when the
// text is not a JSON object carrying the event and registration ids.
func DecodeTicketPayload(raw string) (*TicketPayload, error) {
	var p TicketPayload
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return nil, fmt.Errorf("%w: ticket is not valid JSON", ErrInvalidInput)
	}
	if p.EventID == "" || p.RegistrationID == "" {
		return nil, fmt.Errorf("%w: ticket is missing eventId or registrationId", ErrInvalidInput)
	}
	return &p, nil
}

// CheckInOutcome is the terminal result of verifying a scanned ticket.
type CheckInOutcome string

const (
	OutcomeValid          CheckInOutcome = "valid"
	OutcomeAlreadyScanned CheckInOutcome = "already_scanned"
	OutcomeEventNotActive CheckInOutcome = "event_not_active"
	OutcomeInvalid        CheckInOutcome = "invalid"
)

// CheckInReason refines an outcome.
type CheckInReason string

const (
	ReasonCheckedIn            CheckInReason = "checked_in"
	ReasonMalformed            CheckInReason = "malformed"
	ReasonUnknownEvent         CheckInReason = "unknown_event"
	ReasonNotYetOpen           CheckInReason = "not_yet_open"
	ReasonClosed               CheckInReason = "closed"
	ReasonRegistrationNotFound CheckInReason = "registration_not_found"
	ReasonAlreadyUsed          CheckInReason = "already_used"
)

// CheckInResult is what the scanner shows after a ticket is verified.
// swagger:model CheckInResult
type CheckInResult struct {
	Outcome        CheckInOutcome `json:"outcome"`
	Reason         CheckInReason  `json:"reason"`
	Message        string         `json:"message"`
	AttendeeName   string         `json:"attendeeName,omitempty"`
	EventName      string         `json:"eventName,omitempty"`
	RegistrationID string         `json:"registrationId,omitempty"`
}

// QRDecoder extracts the text of a QR code from an image. found is false when no code is readable.
type QRDecoder interface {
	Decode(img image.Image) (text string, found bool, err error)
}

// QREncoder renders text as a QR code PNG.
type QREncoder interface {
	EncodePNG(text string, size int) ([]byte, error)
}

// AttendanceService verifies scanned tickets and checks attendees in.
type AttendanceService interface {
	Verify(ctx context.Context, raw string, actor *Actor) (*CheckInResult, error)
	VerifyImage(ctx context.Context, img image.Image, actor *Actor) (*CheckInResult, error)
}
