package memory

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/quizm/users-service/internal/core/domain"
)

func TestUserRepository(t *testing.T) {
	ctx := context.Background()
	users := NewStore().Users()

	a, err := users.Create(ctx, &domain.User{Username: "alice", Email: "alice@example.com", PasswordHash: "h"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	b, _ := users.Create(ctx, &domain.User{Username: "bob", Email: "bob@example.com"})
	if a.ID == b.ID || a.ID == 0 {
		t.Fatalf("ids must be unique and non-zero: %d, %d", a.ID, b.ID)
	}

	if _, err := users.Create(ctx, &domain.User{Username: "alice2", Email: "alice@example.com"}); !errors.Is(err, domain.ErrDuplicateEmail) {
		t.Fatalf("expected ErrDuplicateEmail, got %v", err)
	}

	got, err := users.FindByEmail(ctx, "alice@example.com")
	if err != nil || got.ID != a.ID || got.PasswordHash != "h" {
		t.Fatalf("FindByEmail: %+v, %v", got, err)
	}
	if _, err := users.FindByID(ctx, 999); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}

	got.Username = "mutated"
	again, _ := users.FindByID(ctx, a.ID)
	if again.Username != "alice" {
		t.Fatalf("returned users must not alias stored state")
	}
}

func TestRecordRepository_Ordering(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	u, _ := store.Users().Create(ctx, &domain.User{Email: "alice@example.com"})
	v, _ := store.Users().Create(ctx, &domain.User{Email: "bob@example.com"})
	records := store.Records()

	base := time.Now()
	_, _ = records.Create(ctx, &domain.Record{UserID: u.ID, QuizID: 1, Score: 40, CreatedAt: base})
	_, _ = records.Create(ctx, &domain.Record{UserID: v.ID, QuizID: 1, Score: 90, CreatedAt: base.Add(time.Minute)})
	_, _ = records.Create(ctx, &domain.Record{UserID: u.ID, QuizID: 2, Score: 10, CreatedAt: base.Add(2 * time.Minute)})

	mine, _ := records.ListByUser(ctx, u.ID)
	if len(mine) != 2 || mine[0].QuizID != 2 {
		t.Fatalf("expected newest first, got %+v", mine)
	}

	board, _ := records.ListByQuiz(ctx, 1)
	if len(board) != 2 || board[0].Score != 90 || board[1].Score != 40 {
		t.Fatalf("expected highest first, got %+v", board)
	}

	if empty, _ := records.ListByQuiz(ctx, 42); empty == nil || len(empty) != 0 {
		t.Fatalf("expected empty non-nil slice")
	}
}

func TestRecordRepository_UnknownUser(t *testing.T) {
	records := NewStore().Records()
	if _, err := records.Create(context.Background(), &domain.Record{UserID: 3, QuizID: 1}); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestStore_ConcurrentRegistration(t *testing.T) {
	ctx := context.Background()
	users := NewStore().Users()

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		wins int
	)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := users.Create(ctx, &domain.User{Username: fmt.Sprintf("u%d", i), Email: "same@example.com"})
			if err == nil {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}(i)
	}
	wg.Wait()

	if wins != 1 {
		t.Fatalf("exactly one registration should win, got %d", wins)
	}
}
