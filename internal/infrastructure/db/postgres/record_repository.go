package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/quizm/users-service/internal/core/domain"
)

type RecordRepository struct {
	db DBTX
}

func NewRecordRepository(db DBTX) *RecordRepository {
	return &RecordRepository{db: db}
}

func (r *RecordRepository) Create(ctx context.Context, rec *domain.Record) (*domain.Record, error) {
	const q = `INSERT INTO records (user_id, quiz_id, quiz_name, score, created_at)
VALUES ($1, $2, $3, $4, $5)
RETURNING id`

	name := sql.NullString{String: rec.QuizName, Valid: rec.QuizName != ""}
	created := *rec
	err := r.db.QueryRowContext(ctx, q, rec.UserID, rec.QuizID, name, rec.Score, rec.CreatedAt).Scan(&created.ID)
	if err != nil {
		if pgCode(err) == foreignKeyViolation {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("insert record: %w", err)
	}
	return &created, nil
}

func (r *RecordRepository) ListByUser(ctx context.Context, userID int64) ([]*domain.Record, error) {
	const q = `SELECT id, user_id, quiz_id, quiz_name, score, created_at
FROM records
WHERE user_id = $1
ORDER BY created_at DESC, id DESC`
	return r.list(ctx, q, userID)
}

func (r *RecordRepository) ListByQuiz(ctx context.Context, quizID int64) ([]*domain.Record, error) {
	const q = `SELECT id, user_id, quiz_id, quiz_name, score, created_at
FROM records
WHERE quiz_id = $1
ORDER BY score DESC, id ASC`
	return r.list(ctx, q, quizID)
}

func (r *RecordRepository) list(ctx context.Context, q string, arg int64) ([]*domain.Record, error) {
	rows, err := r.db.QueryContext(ctx, q, arg)
	if err != nil {
		return nil, fmt.Errorf("query records: %w", err)
	}
	defer rows.Close()

	out := make([]*domain.Record, 0)
	for rows.Next() {
		var (
			rec  domain.Record
			name sql.NullString
		)
		if err := rows.Scan(&rec.ID, &rec.UserID, &rec.QuizID, &name, &rec.Score, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		rec.QuizName = name.String
		rec.CreatedAt = rec.CreatedAt.UTC()
		out = append(out, &rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate records: %w", err)
	}
	return out, nil
}
