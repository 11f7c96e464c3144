package domain

import (
	"errors"
	"time"
)

const (
	MinScore = 0
	MaxScore = 99
)

// ErrInvalidScore is returned for scores outside [MinScore, MaxScore].
var ErrInvalidScore = errors.New("score must be between 0 and 99")

// Record is a single scored quiz attempt owned by a user.
type Record struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	QuizID    int64     `json:"quiz_id"`
	QuizName  string    `json:"quiz_name,omitempty"`
	Score     int       `json:"score"`
	CreatedAt time.Time `json:"created_at"`
}

// ValidScore reports whether s lies in the accepted [MinScore, MaxScore] range.
func ValidScore(s int) bool {
	return s >= MinScore && s <= MaxScore
}
