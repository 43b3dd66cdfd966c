package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"campusconnect/internal/domain"
)

type registrationService struct {
	regRepo        domain.RegistrationRepository
	eventRepo      domain.EventRepository
	emailService   domain.EmailService
	publisher      domain.EventPublisher
	logger         *slog.Logger
	cutoff         time.Duration
	contextTimeout time.Duration
	now            Clock
}

// NewRegistrationService wires the registration workflow. emailService and publisher may be nil.
func NewRegistrationService(regRepo domain.RegistrationRepository,
	eventRepo domain.EventRepository,
	emailService domain.EmailService,
	publisher domain.EventPublisher,
	logger *slog.Logger,
	cutoff time.Duration,
	timeout time.Duration,
	now Clock,
) domain.RegistrationService {
	return &registrationService{
		regRepo:        regRepo,
		eventRepo:      eventRepo,
		emailService:   emailService,
		publisher:      publisher,
		logger:         orDefaultLogger(logger),
		cutoff:         cutoff,
		contextTimeout: orDefaultTimeout(timeout),
		now:            now.orDefault(),
	}
}

func (s *registrationService) Register(ctx context.Context, eventID string, actor *domain.Actor) (*domain.Registration, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if actor == nil {
		return nil, false, domain.ErrUnauthenticated
	}
	if !actor.IsStudent() {
		return nil, false, fmt.Errorf("%w: only students can register for events", domain.ErrForbidden)
	}
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, false, domain.ErrNotFound
		}
		return nil, false, persistErr("get event", err)
	}
	now := s.now()
	if !domain.IsRegistrationOpen(event, now, s.cutoff) {
		return nil, false, domain.ErrRegistrationClosed
	}

	reg := domain.NewRegistration(actor.ID, event.ID, now)
	created, err := s.regRepo.Create(ctx, reg)
	if err != nil {
		return nil, false, persistErr("create registration", err)
	}
	if !created {
		existing, err := s.regRepo.GetByID(ctx, reg.ID)
		if err != nil {
			return nil, false, persistErr("get registration", err)
		}
		return existing, false, nil
	}

	publish(ctx, s.publisher, s.logger, domain.TopicRegistrationCreated, reg)
	s.sendConfirmation(ctx, actor, event, reg)
	return reg, true, nil
}

func (s *registrationService) sendConfirmation(ctx context.Context, actor *domain.Actor, event *domain.Event, reg *domain.Registration) {
	if s.emailService == nil {
		return
	}
	data := &domain.RegistrationConfirmationEmailData{
		Email:          actor.Email,
		Name:           actor.Name,
		EventTitle:     event.Title,
		EventDate:      event.Date,
		EventTime:      event.Time,
		Location:       event.Location,
		RegistrationID: reg.ID,
	}
	if err := s.emailService.SendRegistrationConfirmation(ctx, data); err != nil {
		s.logger.WarnContext(ctx, "registration confirmation not sent", "registration_id", reg.ID, "err", err)
	}
}

func (s *registrationService) IsRegistered(ctx context.Context, eventID string, actor *domain.Actor) (bool, error) {
	if actor == nil {
		return false, nil
	}
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	regs, err := s.regRepo.ListByUserID(ctx, actor.ID)
	if err != nil {
		return false, persistErr("list registrations", err)
	}
	for _, r := range regs {
		if r.EventID == eventID {
			return true, nil
		}
	}
	return false, nil
}

func (s *registrationService) ListVisible(ctx context.Context, actor *domain.Actor, params domain.PaginationParams) ([]*domain.Registration, int, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	switch {
	case actor == nil:
		return nil, 0, domain.ErrUnauthenticated
	case actor.IsOrganizer():
		regs, total, err := s.regRepo.List(ctx, params)
		if err != nil {
			return nil, 0, persistErr("list registrations", err)
		}
		return regs, total, nil
	default:
		regs, err := s.regRepo.ListByUserID(ctx, actor.ID)
		if err != nil {
			return nil, 0, persistErr("list registrations", err)
		}
		return domain.Window(regs, params), len(regs), nil
	}
}

// ListMine joins the actor's registrations with their events. Registrations whose
// event no longer exists are left out.
func (s *registrationService) ListMine(ctx context.Context, actor *domain.Actor) ([]*domain.RegistrationWithEvent, error) {
	if actor == nil {
		return nil, domain.ErrUnauthenticated
	}
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	regs, err := s.regRepo.ListByUserID(ctx, actor.ID)
	if err != nil {
		return nil, persistErr("list registrations", err)
	}
	out := make([]*domain.RegistrationWithEvent, 0, len(regs))
	for _, r := range regs {
		e, err := s.eventRepo.GetByID(ctx, r.EventID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				continue
			}
			return nil, persistErr("get event", err)
		}
		out = append(out, &domain.RegistrationWithEvent{Registration: r, Event: e})
	}
	return out, nil
}

// Ticket returns the QR payload of a registration. Only the registered student may fetch it.
func (s *registrationService) Ticket(ctx context.Context, registrationID string, actor *domain.Actor) (*domain.TicketPayload, error) {
	if actor == nil {
		return nil, domain.ErrUnauthenticated
	}
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	reg, err := s.regRepo.GetByID(ctx, registrationID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, persistErr("get registration", err)
	}
	if reg.UserID != actor.ID {
		return nil, fmt.Errorf("%w: ticket belongs to another user", domain.ErrForbidden)
	}
	event, err := s.eventRepo.GetByID(ctx, reg.EventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, persistErr("get event", err)
	}
	return domain.NewTicketPayload(&domain.User{ID: actor.ID, Name: actor.Name}, event), nil
}
