package api

import (
	"github.com/google/uuid"
	"github.com/phrazzld/places-api/internal/domain"
)

// LocationResponse is the JSON shape of a coordinate pair.
type LocationResponse struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// PlaceResponse is the JSON shape of a place.
type PlaceResponse struct {
	ID          uuid.UUID        `json:"id"`
	Title       string           `json:"title"`
	Description string           `json:"description"`
	Address     string           `json:"address"`
	Location    LocationResponse `json:"location"`
	Image       string           `json:"image"`
	Creator     uuid.UUID        `json:"creator"`
}

// PlaceEnvelope wraps a single place.
type PlaceEnvelope struct {
	Place PlaceResponse `json:"place"`
}

// PlacesEnvelope wraps a list of places.
type PlacesEnvelope struct {
	Places []PlaceResponse `json:"places"`
}

// CreatePlaceRequest holds the text fields of the multipart POST /api/places form.
// Creator is accepted for compatibility with existing clients and ignored.
type CreatePlaceRequest struct {
	Title       string `validate:"required"`
	Description string `validate:"required,min=5"`
	Address     string `validate:"required"`
	Creator     string
}

// UpdatePlaceRequest defines the payload for PATCH /api/places/{pid}.
type UpdatePlaceRequest struct {
	Title       string `json:"title"       validate:"required"`
	Description string `json:"description" validate:"required,min=5"`
}

// UserResponse is the public JSON shape of a user. Password fields are never included.
type UserResponse struct {
	ID     uuid.UUID   `json:"id"`
	Name   string      `json:"name"`
	Email  string      `json:"email"`
	Image  string      `json:"image"`
	Places []uuid.UUID `json:"places"`
}

// UsersEnvelope wraps a list of users.
type UsersEnvelope struct {
	Users []UserResponse `json:"users"`
}

// LoginRequest defines the payload for the user login endpoint.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse defines the successful response for signup and login.
type AuthResponse struct {
	UserID uuid.UUID `json:"userId"`
	Email  string    `json:"email"`
	Token  string    `json:"token"`
}

func placeToResponse(p *domain.Place) PlaceResponse {
	return PlaceResponse{
		ID:          p.ID,
		Title:       p.Title,
		Description: p.Description,
		Address:     p.Address,
		Location:    LocationResponse{Lat: p.Location.Lat, Lng: p.Location.Lng},
		Image:       p.Image,
		Creator:     p.CreatorID,
	}
}

func placesToResponse(places []*domain.Place) []PlaceResponse {
	out := make([]PlaceResponse, 0, len(places))
	for _, p := range places {
		out = append(out, placeToResponse(p))
	}
	return out
}

func userToResponse(u *domain.User) UserResponse {
	places := u.PlaceIDs
	if places == nil {
		places = []uuid.UUID{}
	}
	return UserResponse{
		ID:     u.ID,
		Name:   u.Name,
		Email:  u.Email,
		Image:  u.Image,
		Places: places,
	}
}
