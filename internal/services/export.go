package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"campusconnect/internal/domain"
	"campusconnect/internal/export"
)

const (
	missingStudentID = "N/A"
	missingCheckIn   = "Not specified"
)

type exportService struct {
	eventRepo      domain.EventRepository
	regRepo        domain.RegistrationRepository
	userRepo       domain.UserRepository
	contextTimeout time.Duration
	now            Clock
}

func NewExportService(eventRepo domain.EventRepository, regRepo domain.RegistrationRepository, userRepo domain.UserRepository, timeout time.Duration, now Clock) domain.ExportService {
	return &exportService{
		eventRepo:      eventRepo,
		regRepo:        regRepo,
		userRepo:       userRepo,
		contextTimeout: orDefaultTimeout(timeout),
		now:            now.orDefault(),
	}
}

// ExportAttendees builds the attendee report of a concluded event for its organizer.
// Attendees whose profile no longer exists are skipped.
func (s *exportService) ExportAttendees(ctx context.Context, eventID string, actor *domain.Actor) (*domain.AttendeeExport, error) {
	if actor == nil {
		return nil, domain.ErrUnauthenticated
	}
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, persistErr("get event", err)
	}
	if !event.OwnedBy(actor) {
		return nil, fmt.Errorf("%w: only the event organizer can export attendees", domain.ErrForbidden)
	}
	if !domain.HasConcluded(event, s.now()) {
		return nil, domain.ErrEventNotConcluded
	}

	regs, err := s.regRepo.ListByEventID(ctx, eventID)
	if err != nil {
		return nil, persistErr("list registrations", err)
	}
	var attended []*domain.Registration
	for _, r := range regs {
		if r.CheckedIn {
			attended = append(attended, r)
		}
	}
	if len(attended) == 0 {
		return nil, domain.ErrNoAttendees
	}

	records := make([]domain.AttendeeRecord, 0, len(attended))
	for _, r := range attended {
		u, err := s.userRepo.GetByID(ctx, r.UserID)
		if err != nil {
			if errors.Is(err, domain.ErrUserNotFound) {
				continue
			}
			return nil, persistErr("get user", err)
		}
		records = append(records, attendeeRecord(u, r, event))
	}

	return &domain.AttendeeExport{
		Filename: export.Filename(event.Title, event.Date),
		Records:  records,
	}, nil
}

func attendeeRecord(u *domain.User, r *domain.Registration, e *domain.Event) domain.AttendeeRecord {
	rec := domain.AttendeeRecord{
		Name:             u.Name,
		Email:            u.Email,
		StudentID:        missingStudentID,
		RegistrationDate: r.RegistrationDate.Format(time.RFC3339),
		CheckedInAt:      missingCheckIn,
		EventTitle:       e.Title,
		EventDate:        e.Date,
		EventTime:        e.Time,
		Location:         e.Location,
	}
	if u.StudentID != nil && *u.StudentID != "" {
		rec.StudentID = *u.StudentID
	}
	if r.CheckedInAt != nil {
		rec.CheckedInAt = r.CheckedInAt.Format(time.RFC3339)
	}
	return rec
}
