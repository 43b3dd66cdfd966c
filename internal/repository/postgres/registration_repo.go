package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"campusconnect/internal/domain"
)

type registrationRepository struct {
	DB *sql.DB
}

func NewRegistrationRepository(db *sql.DB) domain.RegistrationRepository {
	return &registrationRepository{
		DB: db,
	}
}

const registrationColumns = `id, user_id, event_id, registration_date, checked_in, checked_in_at`

func (r *registrationRepository) Create(ctx context.Context, reg *domain.Registration) (bool, error) {
	query := `
		INSERT INTO registrations (id, user_id, event_id, registration_date, checked_in)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO NOTHING
	`
	result, err := r.DB.ExecContext(ctx, query, reg.ID, reg.UserID, reg.EventID, reg.RegistrationDate, reg.CheckedIn)
	if err != nil {
		return false, err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows == 1, nil
}

func (r *registrationRepository) GetByID(ctx context.Context, id string) (*domain.Registration, error) {
	query := `SELECT ` + registrationColumns + ` FROM registrations WHERE id = $1`
	reg, err := scanRegistration(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return reg, nil
}

func (r *registrationRepository) ListByUserID(ctx context.Context, userID string) ([]*domain.Registration, error) {
	query := `
		SELECT ` + registrationColumns + `
		FROM registrations
		WHERE user_id = $1
		ORDER BY registration_date DESC
	`
	return r.query(ctx, query, userID)
}

func (r *registrationRepository) ListByEventID(ctx context.Context, eventID string) ([]*domain.Registration, error) {
	query := `
		SELECT ` + registrationColumns + `
		FROM registrations
		WHERE event_id = $1
		ORDER BY registration_date ASC
	`
	return r.query(ctx, query, eventID)
}

func (r *registrationRepository) List(ctx context.Context, params domain.PaginationParams) ([]*domain.Registration, int, error) {
	var total int
	if err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM registrations`).Scan(&total); err != nil {
		return nil, 0, err
	}
	query := `
		SELECT ` + registrationColumns + `
		FROM registrations
		ORDER BY registration_date DESC
		LIMIT $1 OFFSET $2
	`
	regs, err := r.query(ctx, query, params.PageSize, params.Offset())
	if err != nil {
		return nil, 0, err
	}
	return regs, total, nil
}

func (r *registrationRepository) CountByEventID(ctx context.Context, eventID string) (int, error) {
	var n int
	err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM registrations WHERE event_id = $1`, eventID).Scan(&n)
	return n, err
}

func (r *registrationRepository) MarkCheckedIn(ctx context.Context, id string, at time.Time) (bool, error) {
	query := `
		UPDATE registrations SET checked_in = TRUE, checked_in_at = $1
		WHERE id = $2 AND checked_in = FALSE
	`
	result, err := r.DB.ExecContext(ctx, query, at, id)
	if err != nil {
		return false, err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows == 1, nil
}

func (r *registrationRepository) query(ctx context.Context, query string, args ...any) ([]*domain.Registration, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	regs := make([]*domain.Registration, 0)
	for rows.Next() {
		reg, err := scanRegistration(rows)
		if err != nil {
			return nil, err
		}
		regs = append(regs, reg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return regs, nil
}

func scanRegistration(row rowScanner) (*domain.Registration, error) {
	reg := &domain.Registration{}
	var checkedInAt sql.NullTime
	if err := row.Scan(&reg.ID, &reg.UserID, &reg.EventID, &reg.RegistrationDate, &reg.CheckedIn, &checkedInAt); err != nil {
		return nil, err
	}
	if checkedInAt.Valid {
		reg.CheckedInAt = &checkedInAt.Time
	}
	return reg, nil
}

func (r *registrationRepository) DeleteByEventID(ctx context.Context, eventID string) (int, error) {
	result, err := r.DB.ExecContext(ctx, `DELETE FROM registrations WHERE event_id = $1`, eventID)
	if err != nil {
		return 0, err
	}
	n, err := result.RowsAffected()
	return int(n), err
}
