package security

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/quizm/users-service/internal/core/domain"
)

func newManager(t *testing.T) *JWTManager {
	t.Helper()
	m, err := NewJWTManager(TokenConfig{Secret: "super-secret", Algorithm: "HS256", TTL: 30 * time.Minute})
	if err != nil {
		t.Fatalf("NewJWTManager: %v", err)
	}
	return m
}

func TestJWTManager_IssueAndVerify(t *testing.T) {
	t.Parallel()
	m := newManager(t)
	now := time.Now()

	tok, err := m.Issue(42, now)
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	id, err := m.Subject(tok, now.Add(time.Second))
	if err != nil {
		t.Fatalf("Subject error: %v", err)
	}
	if id != 42 {
		t.Fatalf("subject mismatch: got %d want 42", id)
	}
}

func TestJWTManager_Expired(t *testing.T) {
	t.Parallel()
	m := newManager(t)
	now := time.Now()

	tok, _ := m.Issue(7, now)
	_, err := m.Subject(tok, now.Add(m.TTL()+time.Second))
	if !errors.Is(err, domain.ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
	if !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expired token should also classify as invalid, got %v", err)
	}
}

func TestJWTManager_WrongSecret(t *testing.T) {
	t.Parallel()
	m := newManager(t)
	other, _ := NewJWTManager(TokenConfig{Secret: "other-secret"})
	now := time.Now()

	tok, _ := other.Issue(1, now)
	if _, err := m.Subject(tok, now); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestJWTManager_TamperedPayload(t *testing.T) {
	t.Parallel()
	m := newManager(t)
	now := time.Now()

	tokA, _ := m.Issue(1, now)
	tokB, _ := m.Issue(2, now)
	a := strings.Split(tokA, ".")
	b := strings.Split(tokB, ".")

	// payload of B under the signature of A
	forged := a[0] + "." + b[1] + "." + a[2]
	if _, err := m.Subject(forged, now); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestJWTManager_Malformed(t *testing.T) {
	t.Parallel()
	m := newManager(t)

	for _, tok := range []string{"not.a.jwt", "garbage", strings.Repeat("a", 64)} {
		if _, err := m.Subject(tok, time.Now()); !errors.Is(err, domain.ErrInvalidToken) {
			t.Fatalf("token %q: expected ErrInvalidToken, got %v", tok, err)
		}
	}
}

func TestJWTManager_RejectsOtherAlgorithm(t *testing.T) {
	t.Parallel()
	m := newManager(t)
	now := time.Now()

	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS512, jwt.RegisteredClaims{
		Subject:   "1",
		ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
	}).SignedString([]byte("super-secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}

	if _, err := m.Subject(tok, now); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestJWTManager_MissingSubject(t *testing.T) {
	t.Parallel()
	m := newManager(t)
	now := time.Now()

	tok, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
	}).SignedString([]byte("super-secret"))

	if _, err := m.Subject(tok, now); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestJWTManager_MissingExpiry(t *testing.T) {
	t.Parallel()
	m := newManager(t)

	tok, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{Subject: "1"}).
		SignedString([]byte("super-secret"))

	if _, err := m.Subject(tok, time.Now()); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestNewJWTManager_Validation(t *testing.T) {
	if _, err := NewJWTManager(TokenConfig{}); err == nil {
		t.Fatalf("expected error for empty secret")
	}
	if _, err := NewJWTManager(TokenConfig{Secret: "s", Algorithm: "RS256"}); err == nil {
		t.Fatalf("expected error for non-HMAC algorithm")
	}
	m, err := NewJWTManager(TokenConfig{Secret: "s"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.TTL() != DefaultTokenTTL {
		t.Fatalf("expected default TTL, got %v", m.TTL())
	}
}
