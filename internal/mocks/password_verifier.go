package mocks

import "errors"

// ErrPasswordMismatch is what MockPasswordVerifier returns when ShouldSucceed is false.
var ErrPasswordMismatch = errors.New("password mismatch")

// MockPasswordVerifier implements auth.PasswordVerifier and records its calls.
type MockPasswordVerifier struct {
	ShouldSucceed bool

	// CompareFn overrides ShouldSucceed when set.
	CompareFn func(hashedPassword, password string) error

	CompareCalledWith struct {
		HashedPassword string
		Password       string
	}
	CompareCallCount int
}

// Compare implements auth.PasswordVerifier.
func (m *MockPasswordVerifier) Compare(hashedPassword, password string) error {
	m.CompareCalledWith.HashedPassword = hashedPassword
	m.CompareCalledWith.Password = password
	m.CompareCallCount++

	if m.CompareFn != nil {
		return m.CompareFn(hashedPassword, password)
	}
	if m.ShouldSucceed {
		return nil
	}
	return ErrPasswordMismatch
}
