// Package memory holds process-local user and record stores for tests and
// local development. Data does not survive a restart.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/quizm/users-service/internal/core/domain"
)

// Store backs both repositories so that records can check their owner.
type Store struct {
	mu      sync.RWMutex
	users   map[int64]domain.User
	byEmail map[string]int64
	records []domain.Record
	userSeq int64
	recSeq  int64
}

func NewStore() *Store {
	return &Store{
		users:   make(map[int64]domain.User),
		byEmail: make(map[string]int64),
	}
}

// Users returns the user repository view of the store.
func (s *Store) Users() *UserRepository { return &UserRepository{s: s} }

// Records returns the record repository view of the store.
func (s *Store) Records() *RecordRepository { return &RecordRepository{s: s} }

// Name and Ping let the store stand in for a database in the readiness probe.
func (s *Store) Name() string { return "memory" }

func (s *Store) Ping(context.Context) error { return nil }

type UserRepository struct{ s *Store }

func (r *UserRepository) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, taken := r.s.byEmail[user.Email]; taken {
		return nil, domain.ErrDuplicateEmail
	}
	r.s.userSeq++
	u := *user
	u.ID = r.s.userSeq
	r.s.users[u.ID] = u
	r.s.byEmail[u.Email] = u.ID
	return &u, nil
}

func (r *UserRepository) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	id, ok := r.s.byEmail[email]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	u := r.s.users[id]
	return &u, nil
}

func (r *UserRepository) FindByID(_ context.Context, id int64) (*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	u, ok := r.s.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return &u, nil
}

type RecordRepository struct{ s *Store }

func (r *RecordRepository) Create(_ context.Context, rec *domain.Record) (*domain.Record, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.users[rec.UserID]; !ok {
		return nil, domain.ErrUserNotFound
	}
	r.s.recSeq++
	stored := *rec
	stored.ID = r.s.recSeq
	r.s.records = append(r.s.records, stored)
	return &stored, nil
}

func (r *RecordRepository) ListByUser(_ context.Context, userID int64) ([]*domain.Record, error) {
	out := r.filter(func(rec domain.Record) bool { return rec.UserID == userID })
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (r *RecordRepository) ListByQuiz(_ context.Context, quizID int64) ([]*domain.Record, error) {
	out := r.filter(func(rec domain.Record) bool { return rec.QuizID == quizID })
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *RecordRepository) filter(keep func(domain.Record) bool) []*domain.Record {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]*domain.Record, 0)
	for _, rec := range r.s.records {
		if keep(rec) {
			rec := rec
			out = append(out, &rec)
		}
	}
	return out
}
