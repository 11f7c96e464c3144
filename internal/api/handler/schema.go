package handler

import (
	"reflect"
	"strings"
	"time"

	"github.com/quizm/users-service/internal/core/domain"
)

type registerRequest struct {
	Username string `json:"username" validate:"required,min=2,max=20"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=5,max=50,pwbytes"`
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=5,max=50,pwbytes"`
}

// submitRecordRequest uses a pointer score so that an absent score fails
// "required" while 0 stays valid.
type submitRecordRequest struct {
	QuizID int64 `json:"quiz_id" validate:"required,gt=0"`
	Score  *int  `json:"score"   validate:"required,min=0,max=99"`
}

type messageResponse struct {
	Message string `json:"message"`
}

type loginResponse struct {
	AccessToken string `json:"user_access_token"`
}

type userResponse struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

type recordResponse struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	QuizID    int64     `json:"quiz_id"`
	QuizName  *string   `json:"quiz_name"`
	Score     int       `json:"score"`
	CreatedAt time.Time `json:"created_at"`
}

// dataResponse is the success envelope.
type dataResponse struct {
	Data any `json:"data"`
}

func toUserResponse(u *domain.User) userResponse {
	return userResponse{ID: u.ID, Username: u.Username, Email: u.Email, CreatedAt: u.CreatedAt}
}

func toRecordResponse(r *domain.Record) recordResponse {
	resp := recordResponse{
		ID:        r.ID,
		UserID:    r.UserID,
		QuizID:    r.QuizID,
		Score:     r.Score,
		CreatedAt: r.CreatedAt,
	}
	if r.QuizName != "" {
		name := r.QuizName
		resp.QuizName = &name
	}
	return resp
}

func toRecordResponses(recs []*domain.Record) []recordResponse {
	out := make([]recordResponse, 0, len(recs))
	for _, r := range recs {
		out = append(out, toRecordResponse(r))
	}
	return out
}

// jsonFieldName reports fields by their JSON name in validation messages.
func jsonFieldName(f reflect.StructField) string {
	name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
	if name == "-" || name == "" {
		return f.Name
	}
	return name
}

// ErrorItem is one entry of the error envelope.
type ErrorItem struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse is the error envelope: data is always null.
type ErrorResponse struct {
	Data   any         `json:"data"`
	Errors []ErrorItem `json:"errors"`
}

// NewErrorResponse builds an envelope with one item per message under code.
func NewErrorResponse(code string, messages ...string) ErrorResponse {
	items := make([]ErrorItem, 0, len(messages))
	for _, m := range messages {
		items = append(items, ErrorItem{Code: code, Message: m})
	}
	return ErrorResponse{Errors: items}
}
