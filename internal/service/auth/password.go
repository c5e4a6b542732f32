package auth

import "golang.org/x/crypto/bcrypt"

// PasswordVerifier checks a login password against the stored hash.
type PasswordVerifier interface {
	// Compare returns nil when password hashes to hashedPassword.
	Compare(hashedPassword, password string) error
}

// BcryptVerifier checks bcrypt hashes written by the user store.
type BcryptVerifier struct{}

// NewBcryptVerifier returns a BcryptVerifier.
func NewBcryptVerifier() *BcryptVerifier {
	return &BcryptVerifier{}
}

// Compare reports bcrypt.ErrMismatchedHashAndPassword for a wrong password.
func (v *BcryptVerifier) Compare(hashedPassword, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
}
