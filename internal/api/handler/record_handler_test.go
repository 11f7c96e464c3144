package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/quizm/users-service/internal/api/middleware"
	"github.com/quizm/users-service/internal/core/domain"
)

type stubRecordService struct {
	submitFn     func(ctx context.Context, userID, quizID int64, score int) (*domain.Record, error)
	listByUserFn func(ctx context.Context, userID int64) ([]*domain.Record, error)
	listByQuizFn func(ctx context.Context, quizID int64) ([]*domain.Record, error)
}

func (s *stubRecordService) Submit(ctx context.Context, userID, quizID int64, score int) (*domain.Record, error) {
	return s.submitFn(ctx, userID, quizID, score)
}

func (s *stubRecordService) ListByUser(ctx context.Context, userID int64) ([]*domain.Record, error) {
	return s.listByUserFn(ctx, userID)
}

func (s *stubRecordService) ListByQuiz(ctx context.Context, quizID int64) ([]*domain.Record, error) {
	return s.listByQuizFn(ctx, quizID)
}

// withSession runs h behind the real Session middleware for user.
func withSession(user *domain.User, h echo.HandlerFunc) echo.HandlerFunc {
	auth := &stubAuthService{resolveFn: func(context.Context, string) (*domain.User, error) { return user, nil }}
	return middleware.Session(auth)(h)
}

func sessionRequest(method, body string) *http.Request {
	req := jsonRequest(method, "/api/v1/users/current-user/records", body)
	req.AddCookie(&http.Cookie{Name: domain.SessionCookieName, Value: "tok"})
	return req
}

func TestRecordHandler_Submit(t *testing.T) {
	e := newEcho()
	stub := &stubRecordService{
		submitFn: func(_ context.Context, userID, quizID int64, score int) (*domain.Record, error) {
			if userID != 3 || quizID != 1 || score != 85 {
				t.Fatalf("unexpected args: %d %d %d", userID, quizID, score)
			}
			return &domain.Record{ID: 10, UserID: userID, QuizID: quizID, Score: score}, nil
		},
	}
	h := NewRecordHandler(stub)

	rec := httptest.NewRecorder()
	c := e.NewContext(sessionRequest(http.MethodPost, `{"quiz_id":1,"score":85}`), rec)

	if err := withSession(&domain.User{ID: 3}, h.Submit)(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp struct {
		Data struct {
			Score    int     `json:"score"`
			UserID   int64   `json:"user_id"`
			QuizName *string `json:"quiz_name"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.Data.Score != 85 || resp.Data.UserID != 3 || resp.Data.QuizName != nil {
		t.Fatalf("unexpected payload: %s", rec.Body.String())
	}
}

func TestRecordHandler_Submit_ScoreBounds(t *testing.T) {
	cases := map[string]struct {
		body  string
		valid bool
	}{
		"zero":      {`{"quiz_id":1,"score":0}`, true},
		"max":       {`{"quiz_id":1,"score":99}`, true},
		"too high":  {`{"quiz_id":1,"score":100}`, false},
		"negative":  {`{"quiz_id":1,"score":-1}`, false},
		"missing":   {`{"quiz_id":1}`, false},
		"no quiz":   {`{"score":5}`, false},
		"zero quiz": {`{"quiz_id":0,"score":5}`, false},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			e := newEcho()
			called := false
			stub := &stubRecordService{
				submitFn: func(_ context.Context, userID, quizID int64, score int) (*domain.Record, error) {
					called = true
					return &domain.Record{UserID: userID, QuizID: quizID, Score: score}, nil
				},
			}
			h := NewRecordHandler(stub)
			c := e.NewContext(sessionRequest(http.MethodPost, tc.body), httptest.NewRecorder())

			err := withSession(&domain.User{ID: 1}, h.Submit)(c)
			if tc.valid {
				if err != nil || !called {
					t.Fatalf("expected success, got %v (called=%v)", err, called)
				}
				return
			}
			var ve *ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if called {
				t.Fatalf("invalid input must not reach the service")
			}
		})
	}
}

func TestRecordHandler_Submit_RequiresSession(t *testing.T) {
	e := newEcho()
	h := NewRecordHandler(&stubRecordService{})
	auth := &stubAuthService{resolveFn: func(context.Context, string) (*domain.User, error) {
		t.Fatalf("resolver should not run without a cookie")
		return nil, nil
	}}

	req := jsonRequest(http.MethodPost, "/", `{"quiz_id":1,"score":5}`)
	c := e.NewContext(req, httptest.NewRecorder())
	if err := middleware.Session(auth)(h.Submit)(c); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}

func TestRecordHandler_ListByUser(t *testing.T) {
	e := newEcho()
	stub := &stubRecordService{
		listByUserFn: func(_ context.Context, userID int64) ([]*domain.Record, error) {
			if userID == 404 {
				return nil, domain.ErrUserNotFound
			}
			return []*domain.Record{{ID: 2, UserID: userID, Score: 10}, {ID: 1, UserID: userID, Score: 20}}, nil
		},
	}
	h := NewRecordHandler(stub)

	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
	c.SetParamNames("id")
	c.SetParamValues("7")
	if err := h.ListByUser(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var resp struct {
		Data []map[string]any `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(resp.Data) != 2 {
		t.Fatalf("expected 2 records, got %d", len(resp.Data))
	}

	c = e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	c.SetParamNames("id")
	c.SetParamValues("404")
	if err := h.ListByUser(c); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestRecordHandler_ListByQuiz_Empty(t *testing.T) {
	e := newEcho()
	stub := &stubRecordService{
		listByQuizFn: func(context.Context, int64) ([]*domain.Record, error) { return nil, nil },
	}
	h := NewRecordHandler(stub)

	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
	c.SetParamNames("quiz_id")
	c.SetParamValues("3")
	if err := h.ListByQuiz(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if got := rec.Body.String(); got != "{\"data\":[]}\n" {
		t.Fatalf("expected empty list, got %q", got)
	}
}
