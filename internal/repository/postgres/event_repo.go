package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"campusconnect/internal/domain"
)

type eventRepository struct {
	DB *sql.DB
}

func NewEventRepository(db *sql.DB) domain.EventRepository {
	return &eventRepository{
		DB: db,
	}
}

const eventColumns = `id, title, description, date, start_time, end_time, location, category,
		organizer_name, organizer_contact, banner_url, banner_generated_at, banner_prompt, created_at, updated_at`

func (r *eventRepository) Create(ctx context.Context, e *domain.Event) error {
	query := `
		INSERT INTO events (id, title, description, date, start_time, end_time, location, category,
			organizer_name, organizer_contact, banner_url, banner_generated_at, banner_prompt, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`
	var bannerURL, bannerPrompt sql.NullString
	var bannerAt sql.NullTime
	if e.Banner != nil {
		bannerURL = sql.NullString{String: e.Banner.URL, Valid: true}
		bannerPrompt = sql.NullString{String: e.Banner.Prompt, Valid: true}
		bannerAt = sql.NullTime{Time: e.Banner.GeneratedAt, Valid: true}
	}
	_, err := r.DB.ExecContext(ctx, query,
		e.ID, e.Title, e.Description, e.Date, e.Time, emptyToNull(e.EndTime), e.Location, e.Category,
		e.Organizer.Name, e.Organizer.Contact, bannerURL, bannerAt, bannerPrompt, e.CreatedAt, e.UpdatedAt,
	)
	return err
}

func (r *eventRepository) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = $1`
	e, err := scanEvent(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return e, nil
}

func (r *eventRepository) List(ctx context.Context) ([]*domain.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events ORDER BY date DESC, start_time DESC`
	return r.queryEvents(ctx, query)
}

// ListByDateRange returns events whose date is within [from, to], both YYYY-MM-DD, ordered ascending.
func (r *eventRepository) ListByDateRange(ctx context.Context, from, to string) ([]*domain.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE date >= $1 AND date <= $2 ORDER BY date ASC, start_time ASC`
	return r.queryEvents(ctx, query, from, to)
}

func (r *eventRepository) queryEvents(ctx context.Context, query string, args ...any) ([]*domain.Event, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	events := make([]*domain.Event, 0)
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

// Delete removes an event. Only the maintenance tooling calls it.
func (r *eventRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM events WHERE id = $1`
	result, err := r.DB.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *eventRepository) Update(ctx context.Context, eventID string, upd domain.EventUpdate) (*domain.Event, error) {
	setClauses := []string{"updated_at = NOW()"}
	args := []interface{}{}
	n := 1
	set := func(column string, value any) {
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", column, n))
		args = append(args, value)
		n++
	}
	if upd.Title != nil {
		set("title", *upd.Title)
	}
	if upd.Description != nil {
		set("description", *upd.Description)
	}
	if upd.Date != nil {
		set("date", *upd.Date)
	}
	if upd.Time != nil {
		set("start_time", *upd.Time)
	}
	if upd.EndTime != nil {
		set("end_time", emptyToNull(*upd.EndTime))
	}
	if upd.Location != nil {
		set("location", *upd.Location)
	}
	if upd.Category != nil {
		set("category", *upd.Category)
	}
	switch {
	case upd.Banner != nil:
		set("banner_url", upd.Banner.URL)
		set("banner_generated_at", upd.Banner.GeneratedAt)
		set("banner_prompt", upd.Banner.Prompt)
	case upd.ClearBanner:
		setClauses = append(setClauses, "banner_url = NULL", "banner_generated_at = NULL", "banner_prompt = NULL")
	}
	if len(setClauses) == 1 {
		// No fields to update; just fetch current row
		return r.GetByID(ctx, eventID)
	}
	args = append(args, eventID)
	query := fmt.Sprintf(`
		UPDATE events SET %s
		WHERE id = $%d
		RETURNING %s
	`, strings.Join(setClauses, ", "), n, eventColumns)
	e, err := scanEvent(r.DB.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return e, nil
}

func scanEvent(row rowScanner) (*domain.Event, error) {
	e := &domain.Event{}
	var endTime, bannerURL, bannerPrompt sql.NullString
	var bannerAt sql.NullTime
	err := row.Scan(
		&e.ID, &e.Title, &e.Description, &e.Date, &e.Time, &endTime, &e.Location, &e.Category,
		&e.Organizer.Name, &e.Organizer.Contact, &bannerURL, &bannerAt, &bannerPrompt, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if endTime.Valid {
		e.EndTime = endTime.String
	}
	if bannerURL.Valid {
		e.Banner = &domain.Banner{URL: bannerURL.String, Prompt: bannerPrompt.String}
		if bannerAt.Valid {
			e.Banner.GeneratedAt = bannerAt.Time
		}
	}
	return e, nil
}

func emptyToNull(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
