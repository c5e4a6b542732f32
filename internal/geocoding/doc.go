// Package geocoding defines the Geocoder port used to turn a free-form
// address into coordinates, along with the errors every provider maps its
// failures onto. The Google Maps implementation lives in
// internal/platform/googlemaps; a fixed-coordinate Static provider lives here
// for development and tests.
package geocoding
