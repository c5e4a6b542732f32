// Package testdb provides helpers for integration tests that need a real
// PostgreSQL database: locating it, applying the embedded migrations and
// isolating each test in a transaction that is always rolled back.
//
// Tests using this package should carry the integration build tag and call
// GetTestDBWithT, which skips the test when no database URL is configured.
package testdb
