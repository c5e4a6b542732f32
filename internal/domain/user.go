package domain

import (
	"errors"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Password length limits. bcrypt ignores everything past 72 bytes.
const (
	MinPasswordLength = 6
	MaxPasswordLength = 72
)

// Common validation errors
var (
	ErrEmptyUserID      = errors.New("user ID cannot be empty")
	ErrEmptyUserName    = errors.New("user name cannot be empty")
	ErrInvalidEmail     = errors.New("invalid email format")
	ErrEmptyEmail       = errors.New("email cannot be empty")
	ErrPasswordTooShort = errors.New("password must be at least 6 characters long")
	ErrPasswordTooLong  = errors.New("password must be at most 72 characters long")
	ErrEmptyPassword    = errors.New("password cannot be empty")
)

// User is an account that can own places.
// PlaceIDs is the inverse of Place.CreatorID and must be kept in step with it.
type User struct {
	ID             uuid.UUID   `json:"id"`
	Name           string      `json:"name"`
	Email          string      `json:"email"`
	Password       string      `json:"-"` // Plaintext password, used temporarily during signup
	HashedPassword string      `json:"-"` // Never expose password hash in JSON
	Image          string      `json:"image"`
	PlaceIDs       []uuid.UUID `json:"places"`
	CreatedAt      time.Time   `json:"created_at"`
	UpdatedAt      time.Time   `json:"updated_at"`
}

// NewUser creates a new User with no places.
//
// NOTE: the password is kept in plaintext on the struct; the store hashes it
// before anything is written.
func NewUser(name, email, password, image string) (*User, error) {
	now := time.Now().UTC()
	user := &User{
		ID:        uuid.New(),
		Name:      strings.TrimSpace(name),
		Email:     strings.ToLower(strings.TrimSpace(email)),
		Password:  password,
		Image:     image,
		PlaceIDs:  []uuid.UUID{},
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := user.Validate(); err != nil {
		return nil, err
	}

	return user, nil
}

// Validate checks if the User has valid data.
func (u *User) Validate() error {
	if u.ID == uuid.Nil {
		return ErrEmptyUserID
	}
	if u.Name == "" {
		return ErrEmptyUserName
	}
	if u.Email == "" {
		return ErrEmptyEmail
	}
	if _, err := mail.ParseAddress(u.Email); err != nil {
		return ErrInvalidEmail
	}

	if u.Password != "" {
		if len(u.Password) < MinPasswordLength {
			return ErrPasswordTooShort
		}
		if len(u.Password) > MaxPasswordLength {
			return ErrPasswordTooLong
		}
	} else if u.HashedPassword == "" {
		return ErrEmptyPassword
	}

	return nil
}

// HasPlace reports whether placeID is in the user's place list.
func (u *User) HasPlace(placeID uuid.UUID) bool {
	for _, id := range u.PlaceIDs {
		if id == placeID {
			return true
		}
	}
	return false
}

// AddPlace appends placeID to the user's place list.
// Adding an id that is already present is a no-op.
func (u *User) AddPlace(placeID uuid.UUID) {
	if u.HasPlace(placeID) {
		return
	}
	u.PlaceIDs = append(u.PlaceIDs, placeID)
	u.UpdatedAt = time.Now().UTC()
}

// RemovePlace drops placeID from the user's place list.
// It returns false if the id was not present.
func (u *User) RemovePlace(placeID uuid.UUID) bool {
	for i, id := range u.PlaceIDs {
		if id == placeID {
			u.PlaceIDs = append(u.PlaceIDs[:i], u.PlaceIDs[i+1:]...)
			u.UpdatedAt = time.Now().UTC()
			return true
		}
	}
	return false
}
