package domain

import (
	"errors"
	"fmt"
)

// SessionCookieName is the cookie carrying the signed session token.
const SessionCookieName = "users_access_token"

var (
	// ErrUnauthenticated means no session was presented, or its subject no longer exists.
	ErrUnauthenticated = errors.New("not authenticated")
	// ErrInvalidToken covers malformed tokens, bad signatures and unknown algorithms.
	ErrInvalidToken = errors.New("invalid session token")
	// ErrTokenExpired is an ErrInvalidToken whose only fault is its age.
	ErrTokenExpired = fmt.Errorf("%w: token expired", ErrInvalidToken)
)
