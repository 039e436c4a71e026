package auth

import (
	"crypto/subtle"

	"golang.org/x/crypto/bcrypt"
)

// Verifier checks a presented secret against the stored credential.
// The Identity Store only depends on this interface, so the hashing
// scheme can be swapped without touching its control flow.
type Verifier interface {
	// Hash prepares a secret for storage.
	Hash(secret string) (string, error)
	// Verify reports whether secret matches the stored credential.
	Verify(secret, stored string) bool
}

// BcryptVerifier stores and checks bcrypt hashes. This is the default.
type BcryptVerifier struct {
	Cost int
}

func NewBcryptVerifier() *BcryptVerifier {
	return &BcryptVerifier{Cost: bcrypt.DefaultCost}
}

func (v *BcryptVerifier) Hash(secret string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(secret), v.Cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

func (v *BcryptVerifier) Verify(secret, stored string) bool {
	return bcrypt.CompareHashAndPassword([]byte(stored), []byte(secret)) == nil
}

// PlainVerifier stores the secret as-is and compares for equality.
// It exists for data migrated from deployments that never hashed
// credentials; new deployments should use BcryptVerifier.
type PlainVerifier struct{}

func (PlainVerifier) Hash(secret string) (string, error) {
	return secret, nil
}

func (PlainVerifier) Verify(secret, stored string) bool {
	return subtle.ConstantTimeCompare([]byte(secret), []byte(stored)) == 1
}
