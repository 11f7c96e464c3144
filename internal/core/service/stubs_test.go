package service

import (
	"context"
	"errors"
	"sort"
	"strings"

	"github.com/quizm/users-service/internal/core/domain"
)

type stubUserRepo struct {
	users   map[int64]*domain.User
	nextID  int64
	findErr error
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[int64]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	for _, u := range r.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByID(_ context.Context, id int64) (*domain.User, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	for _, u := range r.users {
		if strings.EqualFold(u.Email, user.Email) {
			return nil, domain.ErrDuplicateEmail
		}
	}
	r.nextID++
	created := cloneUser(user)
	created.ID = r.nextID
	r.users[created.ID] = cloneUser(created)
	return created, nil
}

// plainHasher keeps service tests fast; bcrypt itself is covered in security.
type plainHasher struct{ err error }

func (h plainHasher) Hash(p string) (string, error) {
	if h.err != nil {
		return "", h.err
	}
	return "hashed:" + p, nil
}

func (plainHasher) Verify(p, hash string) bool { return hash == "hashed:"+p }

type stubRecordRepo struct {
	records   []*domain.Record
	createErr error
	listErr   error
	users     *stubUserRepo
}

func (r *stubRecordRepo) Create(_ context.Context, rec *domain.Record) (*domain.Record, error) {
	if r.createErr != nil {
		return nil, r.createErr
	}
	if r.users != nil {
		if _, ok := r.users.users[rec.UserID]; !ok {
			return nil, domain.ErrUserNotFound
		}
	}
	stored := *rec
	stored.ID = int64(len(r.records) + 1)
	r.records = append(r.records, &stored)
	out := stored
	return &out, nil
}

func (r *stubRecordRepo) ListByUser(_ context.Context, userID int64) ([]*domain.Record, error) {
	if r.listErr != nil {
		return nil, r.listErr
	}
	var out []*domain.Record
	for _, rec := range r.records {
		if rec.UserID == userID {
			out = append(out, rec)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *stubRecordRepo) ListByQuiz(_ context.Context, quizID int64) ([]*domain.Record, error) {
	if r.listErr != nil {
		return nil, r.listErr
	}
	var out []*domain.Record
	for _, rec := range r.records {
		if rec.QuizID == quizID {
			out = append(out, rec)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	return out, nil
}

type stubQuizResolver struct {
	names map[int64]string
	calls int
}

func (q *stubQuizResolver) QuizName(_ context.Context, quizID int64) (string, error) {
	q.calls++
	name, ok := q.names[quizID]
	if !ok {
		return "", errors.New("quiz service unreachable")
	}
	return name, nil
}
