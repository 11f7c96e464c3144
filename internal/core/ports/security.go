package ports

import "time"

// PasswordHasher turns plaintext passwords into salted hashes and checks them.
type PasswordHasher interface {
	Hash(password string) (string, error)
	// Verify reports whether password matches hash. Malformed hashes never match.
	Verify(password, hash string) bool
}

// TokenManager issues and verifies signed session tokens.
type TokenManager interface {
	Issue(subjectID int64, now time.Time) (string, error)
	// Subject validates token as of now and returns the subject it was issued for.
	Subject(token string, now time.Time) (int64, error)
}
