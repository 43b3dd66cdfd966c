package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"campusconnect/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var userRowColumns = []string{"id", "email", "password_hash", "salt", "name", "role", "student_id", "created_at", "updated_at"}

func TestUserRepository_Create(t *testing.T) {
	ctx := context.Background()
	sid := "S-100"

	tests := []struct {
		name  string
		user  *domain.User
		mock  func(mock sqlmock.Sqlmock)
		errIs error
	}{
		{
			name: "student with id",
			user: &domain.User{ID: "u-1", Email: "sam@campus.edu", PasswordHash: "h", Salt: "s", Name: "Sam",
				Role: domain.RoleStudent, StudentID: &sid, CreatedAt: fixedTime, UpdatedAt: fixedTime},
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`INSERT INTO users`).
					WithArgs("u-1", "sam@campus.edu", "h", "s", "Sam", "student", "S-100", fixedTime, fixedTime).
					WillReturnResult(sqlmock.NewResult(0, 1))
			},
		},
		{
			name: "organizer without student id",
			user: &domain.User{ID: "u-2", Email: "olivia@campus.edu", PasswordHash: "h", Salt: "s", Name: "Olivia",
				Role: domain.RoleOrganizer, CreatedAt: fixedTime, UpdatedAt: fixedTime},
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`INSERT INTO users`).
					WithArgs("u-2", "olivia@campus.edu", "h", "s", "Olivia", "organizer", nil, fixedTime, fixedTime).
					WillReturnResult(sqlmock.NewResult(0, 1))
			},
		},
		{
			name: "duplicate email",
			user: &domain.User{ID: "u-3", Email: "sam@campus.edu", Role: domain.RoleStudent},
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`INSERT INTO users`).WillReturnError(&pq.Error{Code: "23505"})
			},
			errIs: domain.ErrDuplicateEmail,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.mock(mock)
			err = NewUserRepository(db).Create(ctx, tt.user)
			if tt.errIs != nil {
				require.ErrorIs(t, err, tt.errIs)
				return
			}
			require.NoError(t, err)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestUserRepository_GetByEmail(t *testing.T) {
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		rows := sqlmock.NewRows(userRowColumns).
			AddRow("u-1", "sam@campus.edu", "h", "s", "Sam", "student", "S-100", fixedTime, fixedTime)
		mock.ExpectQuery(`FROM users WHERE email = \$1`).WithArgs("sam@campus.edu").WillReturnRows(rows)

		u, err := NewUserRepository(db).GetByEmail(ctx, "sam@campus.edu")
		require.NoError(t, err)
		assert.Equal(t, domain.RoleStudent, u.Role)
		require.NotNil(t, u.StudentID)
		assert.Equal(t, "S-100", *u.StudentID)
	})

	t.Run("not found", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`FROM users WHERE email = \$1`).WithArgs("nobody@campus.edu").WillReturnError(sql.ErrNoRows)

		_, err = NewUserRepository(db).GetByEmail(ctx, "nobody@campus.edu")
		require.ErrorIs(t, err, domain.ErrUserNotFound)
	})
}

func TestUserRepository_GetByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	rows := sqlmock.NewRows(userRowColumns).
		AddRow("u-2", "olivia@campus.edu", "h", "s", "Olivia", "organizer", nil, fixedTime, fixedTime)
	mock.ExpectQuery(`FROM users WHERE id = \$1`).WithArgs("u-2").WillReturnRows(rows)

	u, err := NewUserRepository(db).GetByID(context.Background(), "u-2")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleOrganizer, u.Role)
	assert.Nil(t, u.StudentID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_UpdateName(t *testing.T) {
	now := time.Date(2025, 7, 2, 8, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		affected int64
		errIs    error
	}{
		{name: "updated", affected: 1},
		{name: "missing user", affected: 0, errIs: domain.ErrUserNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			mock.ExpectExec(`UPDATE users SET name = \$1, updated_at = \$2`).
				WithArgs("Samantha", now, "u-1").
				WillReturnResult(sqlmock.NewResult(0, tt.affected))

			err = NewUserRepository(db).UpdateName(context.Background(), "u-1", "Samantha", now)
			if tt.errIs != nil {
				require.ErrorIs(t, err, tt.errIs)
				return
			}
			require.NoError(t, err)
		})
	}
}
