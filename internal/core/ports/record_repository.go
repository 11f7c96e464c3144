package ports

import (
	"context"

	"github.com/quizm/users-service/internal/core/domain"
)

// RecordRepository persists quiz records.
type RecordRepository interface {
	// Create inserts the record. An unknown user yields domain.ErrUserNotFound.
	Create(ctx context.Context, record *domain.Record) (*domain.Record, error)
	// ListByUser returns the user's records, newest first.
	ListByUser(ctx context.Context, userID int64) ([]*domain.Record, error)
	// ListByQuiz returns all records for a quiz, highest score first.
	ListByQuiz(ctx context.Context, quizID int64) ([]*domain.Record, error)
}
