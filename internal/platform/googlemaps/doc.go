// Package googlemaps implements geocoding.Geocoder with the official Google
// Maps client. Results are mapped onto the geocoding package errors so
// callers never see provider-specific status strings.
package googlemaps
