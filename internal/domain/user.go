package domain

import (
	"context"
	"errors"
	"time"
)

// Sentinel errors for user operations.
var (
	ErrUserNotFound   = errors.New("user not found")
	ErrDuplicateEmail = errors.New("email already in use")
)

// Role is the fixed role a user picks at signup.
type Role string

const (
	RoleStudent   Role = "student"
	RoleOrganizer Role = "organizer"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleStudent || r == RoleOrganizer
}

// User is the profile record paired with an account.
// swagger:model User
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	Role         Role      `json:"role"`
	StudentID    *string   `json:"studentId,omitempty"`
	PasswordHash string    `json:"-"`
	Salt         string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// NewUser returns a new User with the given fields. ID is set by the auth service before create.
func NewUser(email, name string, role Role, studentID *string, createdAt, updatedAt time.Time) *User {
	return &User{
		Email:     email,
		Name:      name,
		Role:      role,
		StudentID: studentID,
		CreatedAt: createdAt,
		UpdatedAt: updatedAt,
	}
}

// Actor is the identity on whose behalf a workflow runs. A nil *Actor means nobody is signed in.
type Actor struct {
	ID        string
	Name      string
	Email     string
	Role      Role
	StudentID *string
}

// ActorFromUser builds the Actor for a loaded profile.
func ActorFromUser(u *User) *Actor {
	return &Actor{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      u.Role,
		StudentID: u.StudentID,
	}
}

// IsOrganizer reports whether the actor is signed in with the organizer role.
func (a *Actor) IsOrganizer() bool {
	return a != nil && a.Role == RoleOrganizer
}

// IsStudent reports whether the actor is signed in with the student role.
func (a *Actor) IsStudent() bool {
	return a != nil && a.Role == RoleStudent
}

// PasswordHasher handles salt generation, hashing, and verification.
type PasswordHasher interface {
	GenerateSalt() (string, error)
	Hash(salt, password string) (hash string, err error)
	Compare(hash, salt, password string) error
}

// TokenIssuer issues signed tokens for an authenticated user.
type TokenIssuer interface {
	Issue(userID, email string, role Role, expiry time.Duration) (string, error)
}

// TokenVerifier verifies a token and returns the authenticated user ID.
type TokenVerifier interface {
	Verify(token string) (userID string, err error)
}

// UserRepository defines the interface for user storage
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
	UpdateName(ctx context.Context, id, name string, updatedAt time.Time) error
}

// SignUpInput carries the signup form.
type SignUpInput struct {
	Email     string
	Password  string
	Name      string
	Role      Role
	StudentID string
}

// AuthService is the identity provider: accounts, tokens and the actor behind a token.
type AuthService interface {
	SignUp(ctx context.Context, in SignUpInput) (*User, error)
	Login(ctx context.Context, email, password string) (token string, user *User, err error)
	ResolveActor(ctx context.Context, userID string) (*Actor, error)
	GetProfile(ctx context.Context, actor *Actor) (*User, error)
	UpdateDisplayName(ctx context.Context, actor *Actor, name string) (*User, error)
}
