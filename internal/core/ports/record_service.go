package ports

import (
	"context"
	"errors"

	"github.com/quizm/users-service/internal/core/domain"
)

// ErrQuizNameUnavailable is returned by a QuizNameResolver that cannot name a quiz.
var ErrQuizNameUnavailable = errors.New("quiz name unavailable")

// QuizNameResolver looks up the display name of a quiz in the quiz service.
type QuizNameResolver interface {
	QuizName(ctx context.Context, quizID int64) (string, error)
}

// RecordService defines use-case operations for quiz records.
type RecordService interface {
	Submit(ctx context.Context, userID, quizID int64, score int) (*domain.Record, error)
	ListByUser(ctx context.Context, userID int64) ([]*domain.Record, error)
	ListByQuiz(ctx context.Context, quizID int64) ([]*domain.Record, error)
}
