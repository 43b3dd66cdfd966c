package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"campusconnect/internal/domain"

	"github.com/google/uuid"
)

type eventService struct {
	eventRepo      domain.EventRepository
	regRepo        domain.RegistrationRepository
	publisher      domain.EventPublisher
	logger         *slog.Logger
	contextTimeout time.Duration
	now            Clock
}

func NewEventService(eventRepo domain.EventRepository,
	regRepo domain.RegistrationRepository,
	publisher domain.EventPublisher,
	logger *slog.Logger,
	timeout time.Duration,
	now Clock,
) domain.EventService {
	return &eventService{
		eventRepo:      eventRepo,
		regRepo:        regRepo,
		publisher:      publisher,
		logger:         orDefaultLogger(logger),
		contextTimeout: orDefaultTimeout(timeout),
		now:            now.orDefault(),
	}
}

// ListEvents returns all events newest first. The upcoming view keeps events that
// have not concluded, soonest first; the past view keeps concluded ones, newest first.
func (s *eventService) ListEvents(ctx context.Context, view domain.EventView) ([]*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	switch view {
	case domain.EventViewAll, domain.EventViewUpcoming, domain.EventViewPast:
	default:
		return nil, fmt.Errorf("%w: unknown view %q", domain.ErrInvalidInput, view)
	}

	events, err := s.eventRepo.List(ctx)
	if err != nil {
		return nil, persistErr("list events", err)
	}
	if view == domain.EventViewAll {
		return events, nil
	}

	now := s.now()
	out := make([]*domain.Event, 0, len(events))
	for _, e := range events {
		if domain.HasConcluded(e, now) == (view == domain.EventViewPast) {
			out = append(out, e)
		}
	}
	if view == domain.EventViewUpcoming {
		slices.Reverse(out)
	}
	return out, nil
}

func (s *eventService) ListEventsByMonth(ctx context.Context, year int, month time.Month) ([]*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if year < 1 || year > 9999 || month < time.January || month > time.December {
		return nil, fmt.Errorf("%w: invalid year or month", domain.ErrInvalidInput)
	}
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1)
	events, err := s.eventRepo.ListByDateRange(ctx, first.Format(domain.DateLayout), last.Format(domain.DateLayout))
	if err != nil {
		return nil, persistErr("list events by month", err)
	}
	return events, nil
}

func (s *eventService) CreateEvent(ctx context.Context, in domain.EventInput, actor *domain.Actor) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if actor == nil {
		return nil, domain.ErrUnauthenticated
	}
	if !actor.IsOrganizer() {
		return nil, fmt.Errorf("%w: only organizers can create events", domain.ErrForbidden)
	}

	in.Title = strings.TrimSpace(in.Title)
	in.Location = strings.TrimSpace(in.Location)
	in.Category = strings.TrimSpace(in.Category)
	in.Date = strings.TrimSpace(in.Date)
	in.Time = strings.TrimSpace(in.Time)
	in.EndTime = strings.TrimSpace(in.EndTime)
	if err := normalizeEventFields(&in); err != nil {
		return nil, err
	}

	now := s.now()
	event := &domain.Event{
		ID:          uuid.NewString(),
		Title:       in.Title,
		Description: strings.TrimSpace(in.Description),
		Date:        in.Date,
		Time:        in.Time,
		EndTime:     in.EndTime,
		Location:    in.Location,
		Category:    in.Category,
		Organizer:   domain.Organizer{Name: actor.Name, Contact: actor.Email},
		Banner:      stampBanner(in.Banner, now),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.eventRepo.Create(ctx, event); err != nil {
		return nil, persistErr("create event", err)
	}
	publish(ctx, s.publisher, s.logger, domain.TopicEventCreated, event)
	return event, nil
}

func (s *eventService) UpdateEvent(ctx context.Context, eventID string, upd domain.EventUpdate, actor *domain.Actor) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if actor == nil {
		return nil, domain.ErrUnauthenticated
	}
	current, err := s.getEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if !current.OwnedBy(actor) {
		return nil, fmt.Errorf("%w: only the event organizer can edit this event", domain.ErrForbidden)
	}

	merged := domain.EventInput{
		Title:    current.Title,
		Date:     current.Date,
		Time:     current.Time,
		EndTime:  current.EndTime,
		Location: current.Location,
		Category: current.Category,
	}
	trimInto := func(dst *string, src *string) *string {
		if src == nil {
			return nil
		}
		v := strings.TrimSpace(*src)
		*dst = v
		return &v
	}
	upd.Title = trimInto(&merged.Title, upd.Title)
	upd.Date = trimInto(&merged.Date, upd.Date)
	upd.Time = trimInto(&merged.Time, upd.Time)
	upd.EndTime = trimInto(&merged.EndTime, upd.EndTime)
	upd.Location = trimInto(&merged.Location, upd.Location)
	upd.Category = trimInto(&merged.Category, upd.Category)
	if err := normalizeEventFields(&merged); err != nil {
		return nil, err
	}
	if upd.Date != nil {
		upd.Date = &merged.Date
	}
	if upd.Time != nil {
		upd.Time = &merged.Time
	}
	if upd.EndTime != nil {
		upd.EndTime = &merged.EndTime
	}
	upd.Banner = stampBanner(upd.Banner, s.now())

	if upd.Empty() {
		return current, nil
	}
	updated, err := s.eventRepo.Update(ctx, eventID, upd)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, persistErr("update event", err)
	}
	publish(ctx, s.publisher, s.logger, domain.TopicEventUpdated, updated)
	return updated, nil
}

func (s *eventService) GetEventByID(ctx context.Context, eventID string) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()
	return s.getEvent(ctx, eventID)
}

// Lookup never reports loading; that state belongs to callers that have not fetched yet.
func (s *eventService) Lookup(ctx context.Context, eventID string) (domain.EventLookup, error) {
	e, err := s.GetEventByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.EventLookup{State: domain.LookupNotFound}, nil
		}
		return domain.EventLookup{}, err
	}
	return domain.EventLookup{State: domain.LookupFound, Event: e}, nil
}

func (s *eventService) RegistrationCount(ctx context.Context, eventID string) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if _, err := s.getEvent(ctx, eventID); err != nil {
		return 0, err
	}
	n, err := s.regRepo.CountByEventID(ctx, eventID)
	if err != nil {
		return 0, persistErr("count registrations", err)
	}
	return n, nil
}

func (s *eventService) getEvent(ctx context.Context, eventID string) (*domain.Event, error) {
	e, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, persistErr("get event", err)
	}
	return e, nil
}

// normalizeEventFields validates the required fields and rewrites date and
// times in their canonical zero-padded layouts, so stored values sort correctly.
func normalizeEventFields(in *domain.EventInput) error {
	var missing []string
	for _, f := range []struct{ name, value string }{
		{"title", in.Title},
		{"date", in.Date},
		{"time", in.Time},
		{"location", in.Location},
		{"category", in.Category},
	} {
		if f.value == "" {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing required fields: %s", domain.ErrInvalidInput, strings.Join(missing, ", "))
	}
	start, err := domain.ParseWallClock(in.Date, in.Time, time.UTC)
	if err != nil {
		return err
	}
	if in.EndTime != "" {
		end, err := domain.ParseWallClock(in.Date, in.EndTime, time.UTC)
		if err != nil {
			return err
		}
		if !end.After(start) {
			return fmt.Errorf("%w: end time must be after start time", domain.ErrInvalidInput)
		}
		in.EndTime = end.Format(domain.TimeLayout)
	}
	in.Date = start.Format(domain.DateLayout)
	in.Time = start.Format(domain.TimeLayout)
	return nil
}

func stampBanner(b *domain.Banner, now time.Time) *domain.Banner {
	if b == nil || strings.TrimSpace(b.URL) == "" {
		return nil
	}
	out := *b
	if out.GeneratedAt.IsZero() {
		out.GeneratedAt = now
	}
	return &out
}
