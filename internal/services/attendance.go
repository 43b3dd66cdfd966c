package services

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"time"

	"campusconnect/internal/domain"
)

const (
	msgMalformed            = "The QR code is malformed or could not be read."
	msgUnknownEvent         = "This QR code does not correspond to a known event."
	msgNotYetOpen           = "Check-in is not yet open. The event starts at %s."
	msgClosed               = "Check-in is closed. The event ended at %s."
	msgRegistrationNotFound = "A valid registration was not found for this ticket."
	msgAlreadyUsed          = "This ticket has already been checked in."
	msgCheckedIn            = "Check-in successful."
)

type attendanceService struct {
	regRepo        domain.RegistrationRepository
	eventRepo      domain.EventRepository
	decoder        domain.QRDecoder
	publisher      domain.EventPublisher
	logger         *slog.Logger
	contextTimeout time.Duration
	now            Clock
}

func NewAttendanceService(regRepo domain.RegistrationRepository,
	eventRepo domain.EventRepository,
	decoder domain.QRDecoder,
	publisher domain.EventPublisher,
	logger *slog.Logger,
	timeout time.Duration,
	now Clock,
) domain.AttendanceService {
	return &attendanceService{
		regRepo:        regRepo,
		eventRepo:      eventRepo,
		decoder:        decoder,
		publisher:      publisher,
		logger:         orDefaultLogger(logger),
		contextTimeout: orDefaultTimeout(timeout),
		now:            now.orDefault(),
	}
}

func settle(r *domain.CheckInResult, outcome domain.CheckInOutcome, reason domain.CheckInReason, msg string) *domain.CheckInResult {
	r.Outcome = outcome
	r.Reason = reason
	r.Message = msg
	return r
}

func requireOrganizer(actor *domain.Actor) error {
	if actor == nil {
		return domain.ErrUnauthenticated
	}
	if !actor.IsOrganizer() {
		return fmt.Errorf("%w: only organizers can check attendees in", domain.ErrForbidden)
	}
	return nil
}

// Verify runs the check-in rules against scanned text. The checks run in a fixed
// order and the first failing one decides the outcome. Only store failures are
// returned as errors.
func (s *attendanceService) Verify(ctx context.Context, raw string, actor *domain.Actor) (*domain.CheckInResult, error) {
	if err := requireOrganizer(actor); err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	payload, err := domain.DecodeTicketPayload(raw)
	if err != nil {
		return &domain.CheckInResult{Outcome: domain.OutcomeInvalid, Reason: domain.ReasonMalformed, Message: msgMalformed}, nil
	}
	result := &domain.CheckInResult{
		AttendeeName:   payload.UserName,
		EventName:      payload.EventName,
		RegistrationID: payload.RegistrationID,
	}

	event, err := s.eventRepo.GetByID(ctx, payload.EventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return settle(result, domain.OutcomeInvalid, domain.ReasonUnknownEvent, msgUnknownEvent), nil
		}
		return nil, persistErr("get event", err)
	}
	result.EventName = event.Title

	now := s.now()
	start, err := domain.EventStart(event, now.Location())
	if err != nil {
		return nil, fmt.Errorf("event %s start: %w", event.ID, err)
	}
	if now.Before(start) {
		return settle(result, domain.OutcomeEventNotActive, domain.ReasonNotYetOpen,
			fmt.Sprintf(msgNotYetOpen, domain.FormatClock(start))), nil
	}
	end, hasEnd, err := domain.EventEnd(event, now.Location())
	if err != nil {
		return nil, fmt.Errorf("event %s end: %w", event.ID, err)
	}
	if hasEnd && now.After(end) {
		return settle(result, domain.OutcomeEventNotActive, domain.ReasonClosed,
			fmt.Sprintf(msgClosed, domain.FormatClock(end))), nil
	}

	reg, err := s.regRepo.GetByID(ctx, payload.RegistrationID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, persistErr("get registration", err)
	}
	if reg == nil || reg.EventID != event.ID {
		return settle(result, domain.OutcomeInvalid, domain.ReasonRegistrationNotFound, msgRegistrationNotFound), nil
	}
	if reg.CheckedIn {
		return settle(result, domain.OutcomeAlreadyScanned, domain.ReasonAlreadyUsed, msgAlreadyUsed), nil
	}

	updated, err := s.regRepo.MarkCheckedIn(ctx, reg.ID, now)
	if err != nil {
		return nil, persistErr("check in", err)
	}
	if !updated {
		return settle(result, domain.OutcomeAlreadyScanned, domain.ReasonAlreadyUsed, msgAlreadyUsed), nil
	}
	reg.CheckedIn = true
	reg.CheckedInAt = &now
	publish(ctx, s.publisher, s.logger, domain.TopicRegistrationCheckedIn, reg)
	return settle(result, domain.OutcomeValid, domain.ReasonCheckedIn, msgCheckedIn), nil
}

// VerifyImage decodes the QR code in img and verifies its text. An image without a
// readable code is a malformed ticket.
func (s *attendanceService) VerifyImage(ctx context.Context, img image.Image, actor *domain.Actor) (*domain.CheckInResult, error) {
	if err := requireOrganizer(actor); err != nil {
		return nil, err
	}
	if s.decoder == nil || img == nil {
		return nil, fmt.Errorf("%w: no image decoder available", domain.ErrInvalidInput)
	}
	text, found, err := s.decoder.Decode(img)
	if err != nil {
		return nil, fmt.Errorf("decode qr: %w", err)
	}
	if !found {
		return &domain.CheckInResult{Outcome: domain.OutcomeInvalid, Reason: domain.ReasonMalformed, Message: msgMalformed}, nil
	}
	return s.Verify(ctx, text, actor)
}
