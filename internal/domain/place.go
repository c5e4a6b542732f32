package domain

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// MinDescriptionLength is the shortest description a place may carry, in characters.
const MinDescriptionLength = 5

// Location is a geographic point resolved from a place's address.
type Location struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Place is a user-submitted location with a title, description and image.
// A place always belongs to exactly one user, its creator. The API renders
// places through its own response type, so Place carries no JSON tags.
type Place struct {
	ID          uuid.UUID
	Title       string
	Description string
	Address     string
	Location    Location
	Image       string
	CreatorID   uuid.UUID
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewPlace creates a new Place owned by creatorID.
// The location must already be resolved; it is never taken from client input.
func NewPlace(
	creatorID uuid.UUID,
	title, description, address string,
	location Location,
	image string,
) (*Place, error) {
	now := time.Now().UTC()
	place := &Place{
		ID:          uuid.New(),
		Title:       strings.TrimSpace(title),
		Description: strings.TrimSpace(description),
		Address:     strings.TrimSpace(address),
		Location:    location,
		Image:       image,
		CreatorID:   creatorID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := place.Validate(); err != nil {
		return nil, err
	}

	return place, nil
}

// Validate checks if the Place has valid data.
func (p *Place) Validate() error {
	if p.ID == uuid.Nil {
		return NewValidationError("id", "cannot be empty", ErrInvalidID)
	}
	if p.CreatorID == uuid.Nil {
		return NewValidationError("creator", "cannot be empty", ErrInvalidID)
	}
	if p.Title == "" {
		return NewValidationError("title", "cannot be empty", ErrValidation)
	}
	if utf8.RuneCountInString(p.Description) < MinDescriptionLength {
		return NewValidationError("description", "is too short", ErrValidation)
	}
	if p.Address == "" {
		return NewValidationError("address", "cannot be empty", ErrValidation)
	}
	return nil
}

// ValidateDetails checks the editable fields of a place without touching one.
func ValidateDetails(title, description string) error {
	if strings.TrimSpace(title) == "" {
		return NewValidationError("title", "cannot be empty", ErrValidation)
	}
	if utf8.RuneCountInString(strings.TrimSpace(description)) < MinDescriptionLength {
		return NewValidationError("description", "is too short", ErrValidation)
	}
	return nil
}

// UpdateDetails overwrites the editable fields of the place.
// Address, location, image and creator cannot change after creation.
func (p *Place) UpdateDetails(title, description string) error {
	if err := ValidateDetails(title, description); err != nil {
		return err
	}

	p.Title = strings.TrimSpace(title)
	p.Description = strings.TrimSpace(description)
	p.UpdatedAt = time.Now().UTC()
	return nil
}

// IsOwnedBy reports whether userID created the place.
func (p *Place) IsOwnedBy(userID uuid.UUID) bool {
	return p.CreatorID == userID
}
