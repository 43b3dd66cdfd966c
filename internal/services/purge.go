package services

import (
	"context"
	"fmt"
	"log/slog"

	"campusconnect/internal/domain"
)

// PurgeReport counts what a purge removed, or would remove on a dry run.
type PurgeReport struct {
	Events        int
	Registrations int
}

// Purger wipes all events together with their registrations. It is maintenance
// tooling and is not exposed over HTTP.
type Purger struct {
	eventRepo domain.EventRepository
	regRepo   domain.RegistrationRepository
	logger    *slog.Logger
}

func NewPurger(eventRepo domain.EventRepository, regRepo domain.RegistrationRepository, logger *slog.Logger) *Purger {
	return &Purger{eventRepo: eventRepo, regRepo: regRepo, logger: orDefaultLogger(logger)}
}

// Purge deletes every event and its registrations. With dryRun it only counts.
func (p *Purger) Purge(ctx context.Context, dryRun bool) (PurgeReport, error) {
	var report PurgeReport
	events, err := p.eventRepo.List(ctx)
	if err != nil {
		return report, persistErr("list events", err)
	}
	for _, e := range events {
		if dryRun {
			n, err := p.regRepo.CountByEventID(ctx, e.ID)
			if err != nil {
				return report, persistErr("count registrations", err)
			}
			p.logger.InfoContext(ctx, "would delete event", "event_id", e.ID, "title", e.Title, "registrations", n)
			report.Events++
			report.Registrations += n
			continue
		}
		n, err := p.regRepo.DeleteByEventID(ctx, e.ID)
		if err != nil {
			return report, persistErr(fmt.Sprintf("delete registrations of %s", e.ID), err)
		}
		report.Registrations += n
		if err := p.eventRepo.Delete(ctx, e.ID); err != nil {
			return report, persistErr(fmt.Sprintf("delete event %s", e.ID), err)
		}
		report.Events++
		p.logger.InfoContext(ctx, "deleted event", "event_id", e.ID, "title", e.Title, "registrations", n)
	}
	return report, nil
}
