// Package mocks holds hand-written and testify-based doubles for the store,
// geocoding, image and auth interfaces, shared by the service and api tests.
//
// Function-field mocks (MockGeocoder, MockJWTService, MockPasswordVerifier)
// fall back to their plain fields when no function is set:
//
//	geocoder := &mocks.MockGeocoder{
//	    Location: domain.Location{Lat: 40.7484, Lng: -73.9857},
//	}
//
// The Testify* store mocks are driven with On/Return and checked with
// AssertExpectations.
package mocks
