package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/haanng/pulse-survey/internal/repository"
	"github.com/haanng/pulse-survey/internal/service"
)

// ResponseHandler accepts survey answers and completion requests.
type ResponseHandler struct {
	Recorder  *service.Recorder
	Responses *repository.ResponseRepo
}

func NewResponseHandler(rec *service.Recorder, responses *repository.ResponseRepo) *ResponseHandler {
	return &ResponseHandler{Recorder: rec, Responses: responses}
}

type submitReq struct {
	SurveyID   uint64  `json:"survey_id"`
	QuestionID uint64  `json:"question_id"`
	Score      *int    `json:"score"`
	Text       *string `json:"text_response"`
}
type completeReq struct {
	SurveyID uint64 `json:"survey_id"`
}

// Submit records one answer and returns recomputed progress.  The request
// layer bounds the score to the widest supported scale; the recorder then
// checks it against the survey's configured scale.
func (h *ResponseHandler) Submit(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthenticated"})
	}
	var req submitReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.SurveyID == 0 || req.QuestionID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "survey_id/question_id required"})
	}
	if req.Score != nil && (*req.Score < 1 || *req.Score > 7) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "score must be between 1 and 7"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	progress, err := h.Recorder.Submit(ctx, uid, service.SubmitInput{
		SurveyID:   req.SurveyID,
		QuestionID: req.QuestionID,
		Score:      req.Score,
		Text:       req.Text,
	})
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrQuestionNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "question not found in survey"})
		case errors.Is(err, repository.ErrSurveyNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "survey not found"})
		case errors.Is(err, service.ErrScoreRequired), errors.Is(err, service.ErrScoreOutOfRange):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "submit failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"progress": progress})
}

// Complete finalizes the caller's survey when every required question is
// answered.
func (h *ResponseHandler) Complete(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthenticated"})
	}
	var req completeReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.SurveyID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "survey_id required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	completedAt, err := h.Recorder.Complete(ctx, uid, req.SurveyID)
	if err != nil {
		var incomplete *service.IncompleteError
		if errors.As(err, &incomplete) {
			return c.JSON(http.StatusBadRequest, echo.Map{
				"error":            "required questions unanswered",
				"unanswered_count": incomplete.Unanswered,
			})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "complete failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message":      "survey completed",
		"completed_at": completedAt,
	})
}

// MySurveyResponses lists the caller's own responses for a survey.
func (h *ResponseHandler) MySurveyResponses(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthenticated"})
	}
	surveyID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid survey id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	responses, err := h.Responses.ResponsesForUser(ctx, uid, surveyID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"responses": responses})
}
