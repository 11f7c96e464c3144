package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/quizm/users-service/internal/api/metrics"
	"github.com/quizm/users-service/internal/core/domain"
	"github.com/quizm/users-service/internal/core/ports"
)

type RecordService struct {
	records ports.RecordRepository
	users   ports.UserRepository
	quizzes ports.QuizNameResolver
	log     zerolog.Logger
	now     func() time.Time
}

// NewRecordService wires a record service. quizzes may be nil, in which case
// records are stored without a quiz name.
func NewRecordService(
	records ports.RecordRepository,
	users ports.UserRepository,
	quizzes ports.QuizNameResolver,
	log zerolog.Logger,
) *RecordService {
	return &RecordService{records: records, users: users, quizzes: quizzes, log: log, now: time.Now}
}

// Submit stores a scored attempt for userID. The quiz name is looked up
// best-effort: a failed lookup leaves it empty.
func (s *RecordService) Submit(ctx context.Context, userID, quizID int64, score int) (*domain.Record, error) {
	if !domain.ValidScore(score) {
		return nil, fmt.Errorf("%w: got %d", domain.ErrInvalidScore, score)
	}

	rec := &domain.Record{
		UserID:    userID,
		QuizID:    quizID,
		Score:     score,
		QuizName:  s.quizName(ctx, quizID),
		CreatedAt: s.now().UTC(),
	}

	created, err := s.records.Create(ctx, rec)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, err
		}
		s.log.Error().Err(err).Int64("user_id", userID).Int64("quiz_id", quizID).Msg("failed to create record")
		return nil, fmt.Errorf("submit record: %w", err)
	}

	metrics.RecordsCreatedTotal.WithLabelValues(strconv.FormatBool(created.QuizName != "")).Inc()
	s.log.Info().
		Int64("record_id", created.ID).
		Int64("user_id", userID).
		Int64("quiz_id", quizID).
		Int("score", score).
		Msg("record created")
	return created, nil
}

func (s *RecordService) quizName(ctx context.Context, quizID int64) string {
	if s.quizzes == nil {
		return ""
	}
	name, err := s.quizzes.QuizName(ctx, quizID)
	if err != nil {
		s.log.Warn().Err(err).Int64("quiz_id", quizID).Msg("quiz name lookup failed, storing record without it")
		return ""
	}
	return name
}

// ListByUser returns the user's records, newest first.
func (s *RecordService) ListByUser(ctx context.Context, userID int64) ([]*domain.Record, error) {
	if _, err := s.users.FindByID(ctx, userID); err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("list user records: %w", err)
	}

	recs, err := s.records.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list user records: %w", err)
	}
	return recs, nil
}

// ListByQuiz returns the leaderboard for a quiz, highest score first.
func (s *RecordService) ListByQuiz(ctx context.Context, quizID int64) ([]*domain.Record, error) {
	recs, err := s.records.ListByQuiz(ctx, quizID)
	if err != nil {
		return nil, fmt.Errorf("list quiz records: %w", err)
	}
	return recs, nil
}
