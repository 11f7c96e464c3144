package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/quizm/users-service/internal/core/domain"
)

const recordsCollection = "records"

// RecordRepository stores quiz records. Mongo has no foreign keys, so Create
// checks the owning user itself.
type RecordRepository struct {
	db    *mongo.Database
	coll  *mongo.Collection
	users *UserRepository
}

func NewRecordRepository(db *mongo.Database) *RecordRepository {
	return &RecordRepository{
		db:    db,
		coll:  db.Collection(recordsCollection),
		users: NewUserRepository(db),
	}
}

type mongoRecord struct {
	ID        int64     `bson:"_id"`
	UserID    int64     `bson:"user_id"`
	QuizID    int64     `bson:"quiz_id"`
	QuizName  string    `bson:"quiz_name,omitempty"`
	Score     int       `bson:"score"`
	CreatedAt time.Time `bson:"created_at"`
}

func (mr mongoRecord) toDomain() *domain.Record {
	return &domain.Record{
		ID:        mr.ID,
		UserID:    mr.UserID,
		QuizID:    mr.QuizID,
		QuizName:  mr.QuizName,
		Score:     mr.Score,
		CreatedAt: mr.CreatedAt.UTC(),
	}
}

func (r *RecordRepository) Create(ctx context.Context, rec *domain.Record) (*domain.Record, error) {
	if _, err := r.users.FindByID(ctx, rec.UserID); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	id, err := nextSequence(ctx, r.db, recordsCollection)
	if err != nil {
		return nil, err
	}

	doc := mongoRecord{
		ID:        id,
		UserID:    rec.UserID,
		QuizID:    rec.QuizID,
		QuizName:  rec.QuizName,
		Score:     rec.Score,
		CreatedAt: rec.CreatedAt.UTC(),
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return nil, fmt.Errorf("insert record: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *RecordRepository) ListByUser(ctx context.Context, userID int64) ([]*domain.Record, error) {
	return r.list(ctx, bson.M{"user_id": userID}, bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}})
}

func (r *RecordRepository) ListByQuiz(ctx context.Context, quizID int64) ([]*domain.Record, error) {
	return r.list(ctx, bson.M{"quiz_id": quizID}, bson.D{{Key: "score", Value: -1}, {Key: "_id", Value: 1}})
}

func (r *RecordRepository) list(ctx context.Context, filter bson.M, sort bson.D) ([]*domain.Record, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.coll.Find(ctx, filter, options.Find().SetSort(sort))
	if err != nil {
		return nil, fmt.Errorf("find records: %w", err)
	}
	defer cur.Close(ctx)

	var docs []mongoRecord
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode records: %w", err)
	}

	out := make([]*domain.Record, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toDomain())
	}
	return out, nil
}
