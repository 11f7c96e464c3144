package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/quizm/users-service/internal/core/ports"
)

type RecordHandler struct {
	records ports.RecordService
}

func NewRecordHandler(records ports.RecordService) *RecordHandler {
	return &RecordHandler{records: records}
}

// Submit stores a quiz attempt for the current user.
//
// @Summary      Submit a quiz record
// @Tags         records
// @Accept       json
// @Produce      json
// @Param        body  body      submitRecordRequest  true  "Quiz and score"
// @Success      200   {object}  dataResponse{data=recordResponse}
// @Failure      401   {object}  ErrorResponse
// @Failure      422   {object}  ErrorResponse
// @Router       /users/current-user/records [post]
func (h *RecordHandler) Submit(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	var req submitRecordRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	rec, err := h.records.Submit(c.Request().Context(), user.ID, req.QuizID, *req.Score)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, dataResponse{Data: toRecordResponse(rec)})
}

// ListMine returns the current user's records, newest first.
//
// @Summary      Current user's records
// @Tags         records
// @Produce      json
// @Success      200  {object}  dataResponse{data=[]recordResponse}
// @Failure      401  {object}  ErrorResponse
// @Router       /users/current-user/records [get]
func (h *RecordHandler) ListMine(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	return h.listByUser(c, user.ID)
}

// ListByUser returns a user's records, newest first.
//
// @Summary      User records
// @Tags         records
// @Produce      json
// @Param        id   path      int  true  "User ID"
// @Success      200  {object}  dataResponse{data=[]recordResponse}
// @Failure      404  {object}  ErrorResponse
// @Router       /users/{id}/records [get]
func (h *RecordHandler) ListByUser(c echo.Context) error {
	id, err := int64Param(c, "id")
	if err != nil {
		return err
	}
	return h.listByUser(c, id)
}

func (h *RecordHandler) listByUser(c echo.Context, userID int64) error {
	recs, err := h.records.ListByUser(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, dataResponse{Data: toRecordResponses(recs)})
}

// ListByQuiz returns the leaderboard for a quiz, highest score first.
//
// @Summary      Quiz leaderboard
// @Tags         records
// @Produce      json
// @Param        quiz_id  path      int  true  "Quiz ID"
// @Success      200      {object}  dataResponse{data=[]recordResponse}
// @Router       /quizzes/{quiz_id}/records [get]
func (h *RecordHandler) ListByQuiz(c echo.Context) error {
	quizID, err := int64Param(c, "quiz_id")
	if err != nil {
		return err
	}

	recs, err := h.records.ListByQuiz(c.Request().Context(), quizID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, dataResponse{Data: toRecordResponses(recs)})
}
