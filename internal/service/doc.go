// Package service implements the application's use cases on top of the
// store interfaces.
//
// PlaceService owns the place lifecycle: it validates input, resolves
// addresses through a geocoding.Geocoder, and keeps each place and its
// creator's place list consistent by writing both inside one transaction
// (store.RunInTransaction). UserService handles signup, login and listing.
//
// Expected failures come back as *PlaceServiceError or *UserServiceError.
// Each wraps one kind sentinel from errors.go, which the api package maps to
// an HTTP status, and carries a message that is safe to return to clients.
package service
